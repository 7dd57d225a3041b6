package tracker

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"deliky-backend/lib/scrapers/tabletki"
	"deliky-backend/lib/telemetry"
	"deliky-backend/services/tracker/history"

	_ "modernc.org/sqlite"
)

type stubChecker struct {
	results map[string][]tabletki.Listing
	panics  bool
}

func (c stubChecker) Check(ctx context.Context, drug, city string) []tabletki.Listing {
	if c.panics {
		panic("markup from hell")
	}
	return c.results[drug+"/"+city]
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []struct {
		ChatId int64
		Text   string
	}
	fail bool
}

func (n *recordingNotifier) Notify(chatId int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return fmt.Errorf("chat transport down")
	}
	n.calls = append(n.calls, struct {
		ChatId int64
		Text   string
	}{chatId, text})
	return nil
}

type failingSiteClient struct{}

func (failingSiteClient) Search(ctx context.Context, drug, city string) ([]tabletki.Listing, error) {
	return nil, fmt.Errorf("connection timed out")
}

func TestSchedulerNotifiesOnHit(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/tracker")
	defer cleanup()

	store := OpenStore(tempStatePath(t))
	_, err := store.Add(55, "Парацетамол", "Київ")
	if err != nil {
		t.Fatal(err)
	}
	_, err = store.Add(55, "Ібупрофен", "Львів")
	if err != nil {
		t.Fatal(err)
	}

	checker := stubChecker{results: map[string][]tabletki.Listing{
		"Парацетамол/Київ": {
			{Name: "Парацетамол 500 мг", Price: "45.50 грн", Pharmacy: "Аптека Доброго Дня"},
		},
	}}
	notifier := &recordingNotifier{}

	scheduler := NewScheduler(store, checker, notifier, nil)
	scheduler.RunCycle(context.Background())

	require.Len(t, notifier.calls, 1)
	require.Equal(t, int64(55), notifier.calls[0].ChatId)
	require.Contains(t, notifier.calls[0].Text, "Парацетамол")
	require.Contains(t, notifier.calls[0].Text, "Київ")
	require.Contains(t, notifier.calls[0].Text, "45.50 грн")
	require.Contains(t, notifier.calls[0].Text, "Аптека Доброго Дня")
}

func TestSchedulerSurvivesCheckerFailure(t *testing.T) {
	store := OpenStore(tempStatePath(t))
	_, err := store.Add(55, "Парацетамол", "Київ")
	if err != nil {
		t.Fatal(err)
	}

	notifier := &recordingNotifier{}
	checker := NewAvailabilityChecker(failingSiteClient{})

	scheduler := NewScheduler(store, checker, notifier, nil)
	// must not panic and must not notify
	scheduler.RunCycle(context.Background())
	require.Empty(t, notifier.calls)
}

func TestSchedulerSurvivesPanic(t *testing.T) {
	store := OpenStore(tempStatePath(t))
	_, err := store.Add(55, "Парацетамол", "Київ")
	if err != nil {
		t.Fatal(err)
	}

	notifier := &recordingNotifier{}
	scheduler := NewScheduler(store, stubChecker{panics: true}, notifier, nil)

	scheduler.RunCycle(context.Background())
	require.Empty(t, notifier.calls)
}

func TestSchedulerSurvivesNotifierFailure(t *testing.T) {
	store := OpenStore(tempStatePath(t))
	_, err := store.Add(55, "Парацетамол", "Київ")
	if err != nil {
		t.Fatal(err)
	}

	checker := stubChecker{results: map[string][]tabletki.Listing{
		"Парацетамол/Київ": {{Name: "Парацетамол"}},
	}}
	scheduler := NewScheduler(store, checker, &recordingNotifier{fail: true}, nil)

	// delivery failures are logged, never retried, never escalated
	scheduler.RunCycle(context.Background())
}

func TestSchedulerRecordsHistory(t *testing.T) {
	store := OpenStore(tempStatePath(t))
	_, err := store.Add(55, "Парацетамол", "Київ")
	if err != nil {
		t.Fatal(err)
	}

	sqlite, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	_, err = sqlite.Exec(history.Schema)
	if err != nil {
		t.Fatal(err)
	}
	hist := history.NewStore(sqlite)

	checker := stubChecker{results: map[string][]tabletki.Listing{
		"Парацетамол/Київ": {{Name: "Парацетамол 500 мг", Price: "45.50 грн"}},
	}}
	scheduler := NewScheduler(store, checker, &recordingNotifier{}, &hist)
	scheduler.RunCycle(context.Background())

	checks, err := hist.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, checks, 1)
	require.Equal(t, int64(55), checks[0].ChatId)
	require.Equal(t, 1, checks[0].Results)
	require.Equal(t, "45.50 грн", checks[0].TopPrice)
}

func TestFormatAppearedTruncatesListings(t *testing.T) {
	listings := []tabletki.Listing{
		{Name: "а", Price: "1", Pharmacy: "п1"},
		{Name: "б", Price: "2", Pharmacy: "п2"},
		{Name: "в", Price: "3", Pharmacy: "п3"},
		{Name: "г", Price: "4", Pharmacy: "п4"},
	}
	text := FormatAppeared("Парацетамол", "Київ", listings)
	require.Contains(t, text, "3. в")
	require.NotContains(t, text, "4. г")
}
