// Package bot is the Telegram transport: it renders tracking state to
// users and turns their commands into store mutations. all drug and
// availability logic lives in services/tracker.
package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"deliky-backend/services/tracker"
	"deliky-backend/services/tracker/history"
)

type Service struct {
	api     *tgbotapi.BotAPI
	store   *tracker.Store
	checker tracker.Checker
	// optional, on-demand check results are not recorded when nil
	history  *history.Store
	sessions *sessions
}

func NewService(token string, store *tracker.Store, checker tracker.Checker, hist *history.Store) (*Service, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Service{
		api:      api,
		store:    store,
		checker:  checker,
		history:  hist,
		sessions: newSessions(),
	}, nil
}

// Start begins long-polling for updates. updates are handled on their
// own goroutines, the store serializes the shared state underneath.
func (s *Service) Start(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := s.api.GetUpdatesChan(cfg)

	slog.Info("telegram bot started", "username", s.api.Self.UserName)

	go func() {
		for {
			select {
			case <-ctx.Done():
				s.api.StopReceivingUpdates()
				return
			case update := <-updates:
				go s.handleUpdate(ctx, update)
			}
		}
	}()
}

// Notify implements tracker.Notifier. fire-and-forget: the scheduler
// logs a failed delivery and moves on.
func (s *Service) Notify(chatId int64, text string) error {
	msg := tgbotapi.NewMessage(chatId, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := s.api.Send(msg)
	return err
}

func (s *Service) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic while handling update", "panic", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		s.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		s.handleMessage(ctx, update.Message)
	}
}

func (s *Service) send(ctx context.Context, msg tgbotapi.Chattable) {
	_, err := s.api.Send(msg)
	if err != nil {
		slog.WarnContext(ctx, "failed to send message", "err", err)
	}
}

func (s *Service) reply(ctx context.Context, chatId int64, text string) {
	msg := tgbotapi.NewMessage(chatId, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	s.send(ctx, msg)
}
