package bot

import "sync"

type awaiting int

const (
	awaitingNothing awaiting = iota
	// user pressed "add drug", the next text message is a drug query
	awaitingDrugQuery
	// user picked a drug, the next text message narrows the city list
	awaitingCityQuery
)

type session struct {
	waitingFor   awaiting
	selectedDrug string
}

// conversation state is per chat and in-memory only; a restart just
// drops half-finished add flows, tracked pairs live in the store.
type sessions struct {
	mu    sync.Mutex
	chats map[int64]*session
}

func newSessions() *sessions {
	return &sessions{chats: map[int64]*session{}}
}

func (s *sessions) get(chatId int64) session {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := s.chats[chatId]
	if existing == nil {
		return session{}
	}
	return *existing
}

func (s *sessions) set(chatId int64, value session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[chatId] = &value
}

func (s *sessions) clear(chatId int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chats, chatId)
}
