package bot

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"deliky-backend/lib/scrapers/tabletki"
	"deliky-backend/lib/telemetry"
	"deliky-backend/services/tracker"
	"deliky-backend/services/tracker/history"

	_ "modernc.org/sqlite"
)

type stubChecker struct {
	results map[string][]tabletki.Listing
}

func (c stubChecker) Check(ctx context.Context, drug, city string) []tabletki.Listing {
	return c.results[drug+"/"+city]
}

func openTestHistory(t *testing.T) *history.Store {
	sqlite, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	_, err = sqlite.Exec(history.Schema)
	if err != nil {
		t.Fatal(err)
	}
	hist := history.NewStore(sqlite)
	return &hist
}

func TestCheckNowRecordsEveryResult(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/bot")
	defer cleanup()

	store := tracker.OpenStore(filepath.Join(t.TempDir(), "state.json"))
	_, err := store.Add(55, "Парацетамол", "Київ")
	require.NoError(t, err)
	_, err = store.Add(55, "Ібупрофен", "Львів")
	require.NoError(t, err)

	hist := openTestHistory(t)
	service := &Service{
		store: store,
		checker: stubChecker{results: map[string][]tabletki.Listing{
			"Парацетамол/Київ": {
				{Name: "Парацетамол 500 мг", Price: "45.50 грн", Pharmacy: "Аптека Доброго Дня"},
			},
		}},
		history:  hist,
		sessions: newSessions(),
	}

	ctx := context.Background()
	replies := service.checkNow(ctx, 55)

	require.Equal(t, textCheckingNow, replies[0])
	require.Len(t, replies, 2)
	require.Contains(t, replies[1], "Парацетамол")
	require.Contains(t, replies[1], "45.50 грн")

	// the hit and the miss both land in the history, like a
	// scheduler cycle would record them
	checks, err := hist.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, checks, 2)
	for _, check := range checks {
		require.Equal(t, int64(55), check.ChatId)
	}
	byDrug := map[string]int{}
	for _, check := range checks {
		byDrug[check.Drug] = check.Results
	}
	require.Equal(t, 1, byDrug["Парацетамол"])
	require.Equal(t, 0, byDrug["Ібупрофен"])
}

func TestCheckNowWithoutTracking(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/bot")
	defer cleanup()

	hist := openTestHistory(t)
	service := &Service{
		store:    tracker.OpenStore(filepath.Join(t.TempDir(), "state.json")),
		checker:  stubChecker{},
		history:  hist,
		sessions: newSessions(),
	}

	replies := service.checkNow(context.Background(), 55)
	require.Equal(t, []string{textNothingTracked}, replies)

	checks, err := hist.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, checks)
}

func TestCheckNowWithoutHistoryStore(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/bot")
	defer cleanup()

	store := tracker.OpenStore(filepath.Join(t.TempDir(), "state.json"))
	_, err := store.Add(55, "Парацетамол", "Київ")
	require.NoError(t, err)

	service := &Service{
		store:    store,
		checker:  stubChecker{},
		sessions: newSessions(),
	}

	// recording is optional, a nil history store must not panic
	replies := service.checkNow(context.Background(), 55)
	require.Contains(t, replies, textNothingAvailable)
}
