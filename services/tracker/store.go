package tracker

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"deliky-backend/lib/timezone"
)

type AddStatus int

const (
	// AddFailed accompanies every non-nil error from Add.
	AddFailed AddStatus = iota
	Added
	AlreadyTracked
)

type RemoveStatus int

const (
	Removed RemoveStatus = iota
	NotFound
)

// Store owns the process-wide tracking state. every mutation runs
// read-modify-persist under one lock; the scheduler and the command
// handlers never see each other's half-applied writes.
type Store struct {
	path string

	mu    sync.Mutex
	state State
}

// OpenStore loads state from `path`. a missing or corrupt file falls
// closed to an empty default state, it does not fail startup.
func OpenStore(path string) *Store {
	s := &Store{path: path, state: defaultState()}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read state file, starting from defaults", "path", path, "err", err)
		}
		return s
	}

	var loaded State
	err = json.Unmarshal(raw, &loaded)
	if err != nil {
		slog.Warn("state file is corrupt, starting from defaults", "path", path, "err", err)
		return s
	}

	if loaded.IntervalHours <= 0 {
		loaded.IntervalHours = DefaultIntervalHours
	}
	if loaded.Tracking == nil {
		loaded.Tracking = map[string][]TrackedPair{}
	}
	s.state = loaded
	return s
}

// write the whole state out, tmp file + rename so a crash mid-write
// never leaves a truncated file behind. callers hold s.mu.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.state, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return err
	}
	_, err = tmp.Write(raw)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	err = tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func chatKey(chatId int64) string {
	return strconv.FormatInt(chatId, 10)
}

// RegisterChat remembers a chat that started a session. no-op for
// already known chats.
func (s *Store) RegisterChat(chatId int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, known := range s.state.ChatIds {
		if known == chatId {
			return nil
		}
	}
	s.state.ChatIds = append(s.state.ChatIds, chatId)
	return s.persist()
}

// Add appends a (drug, city) pair to the chat's tracking list.
// idempotent: an identical pair reports AlreadyTracked and changes
// nothing.
func (s *Store) Add(chatId int64, drug, city string) (AddStatus, error) {
	if drug == "" || city == "" {
		return AddFailed, fmt.Errorf("drug and city must be non-empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := chatKey(chatId)
	for _, pair := range s.state.Tracking[key] {
		if pair.Drug == drug && pair.City == city {
			return AlreadyTracked, nil
		}
	}

	s.state.Tracking[key] = append(s.state.Tracking[key], TrackedPair{
		Drug:  drug,
		City:  city,
		Added: timezone.Now().Unix(),
	})
	return Added, s.persist()
}

// Remove deletes the pair at `index` of the chat's list. the bounds
// check happens under the same lock as the delete, so an index that
// went stale since the list was rendered reports NotFound instead of
// deleting a neighbor.
func (s *Store) Remove(chatId int64, index int) (TrackedPair, RemoveStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := chatKey(chatId)
	list := s.state.Tracking[key]
	if index < 0 || index >= len(list) {
		return TrackedPair{}, NotFound, nil
	}

	removed := list[index]
	s.state.Tracking[key] = append(list[:index], list[index+1:]...)
	return removed, Removed, s.persist()
}

// List returns the chat's tracked pairs in insertion order. the
// returned slice is a copy.
func (s *Store) List(chatId int64) []TrackedPair {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.state.Tracking[chatKey(chatId)]
	out := make([]TrackedPair, len(list))
	copy(out, list)
	return out
}

// SetInterval changes the global check interval. takes effect on the
// scheduler's next wake-up, an in-flight sleep is not interrupted.
func (s *Store) SetInterval(hours int) error {
	if hours <= 0 {
		return fmt.Errorf("interval must be a positive number of hours, got %d", hours)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.IntervalHours = hours
	return s.persist()
}

func (s *Store) IntervalHours() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IntervalHours
}

func (s *Store) Interval() time.Duration {
	return time.Duration(s.IntervalHours()) * time.Hour
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// Snapshot deep-copies the full tracking map for the scheduler's
// iteration pass.
func (s *Store) Snapshot() map[int64][]TrackedPair {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int64][]TrackedPair, len(s.state.Tracking))
	for key, list := range s.state.Tracking {
		chatId, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			slog.Warn("dropping tracking entry with malformed chat id", "key", key)
			continue
		}
		pairs := make([]TrackedPair, len(list))
		copy(pairs, list)
		out[chatId] = pairs
	}
	return out
}
