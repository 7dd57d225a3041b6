package tracker

import (
	"context"
	"log/slog"
	"time"

	"deliky-backend/lib/scrapers/tabletki"
	"deliky-backend/lib/timezone"
	"deliky-backend/services/tracker/history"
)

type Checker interface {
	Check(ctx context.Context, drug, city string) []tabletki.Listing
}

type Notifier interface {
	Notify(chatId int64, text string) error
}

// Scheduler is the background poll loop: sleep for the configured
// interval, walk every tracked pair of every chat, notify on hits,
// repeat until the process exits.
type Scheduler struct {
	store    *Store
	checker  Checker
	notifier Notifier
	// optional, cycle results are not recorded when nil
	history *history.Store
}

func NewScheduler(store *Store, checker Checker, notifier Notifier, hist *history.Store) *Scheduler {
	return &Scheduler{
		store:    store,
		checker:  checker,
		notifier: notifier,
		history:  hist,
	}
}

// Start launches the loop on its own goroutine. it is never joined,
// ctx cancellation is the only way it stops.
func (s *Scheduler) Start(ctx context.Context) {
	go s.run(ctx)
	slog.Info("background availability checker started", "interval_hours", s.store.IntervalHours())
}

func (s *Scheduler) run(ctx context.Context) {
	for {
		// re-read each cycle so a /settings change takes effect on
		// the next wake-up rather than needing a restart
		interval := s.store.Interval()
		slog.Info("next availability check scheduled", "in", interval)

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		s.RunCycle(ctx)
	}
}

// RunCycle performs one full pass. any failure, panics included, is
// contained here so the loop always reaches its next sleep.
func (s *Scheduler) RunCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "availability cycle panicked", "panic", r)
		}
	}()

	tracking := s.store.Snapshot()
	slog.InfoContext(ctx, "checking tracked drugs", "users", len(tracking))

	for chatId, pairs := range tracking {
		for _, pair := range pairs {
			if pair.Drug == "" || pair.City == "" {
				continue
			}

			listings := s.checker.Check(ctx, pair.Drug, pair.City)
			RecordCheck(ctx, s.history, chatId, pair.Drug, pair.City, listings)
			if len(listings) == 0 {
				continue
			}

			err := s.notifier.Notify(chatId, FormatAppeared(pair.Drug, pair.City, listings))
			if err != nil {
				slog.WarnContext(
					ctx, "failed to deliver notification",
					"chat_id", chatId, "drug", pair.Drug, "city", pair.City, "err", err,
				)
			}
		}
	}
}

// RecordCheck appends one availability result to the history store.
// both the poll loop and on-demand checks go through here. a nil
// store disables recording, a failed write is logged and dropped.
func RecordCheck(ctx context.Context, hist *history.Store, chatId int64, drug, city string, listings []tabletki.Listing) {
	if hist == nil {
		return
	}

	topPrice := ""
	if len(listings) > 0 {
		topPrice = listings[0].Price
	}
	err := hist.Record(ctx, history.Check{
		ChatId:   chatId,
		Drug:     drug,
		City:     city,
		Time:     timezone.Now(),
		Results:  len(listings),
		TopPrice: topPrice,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to record availability check", "err", err)
	}
}
