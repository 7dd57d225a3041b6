package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"deliky-backend/lib/configutil"
	"deliky-backend/lib/scrapers/tabletki"
	"deliky-backend/lib/serviceutil"
	"deliky-backend/services/bot"
	"deliky-backend/services/tracker"
	"deliky-backend/services/tracker/history"
)

type Config struct {
	// path of the durable tracking state (JSON, written through on
	// every mutation)
	StatePath string `json:"state_path"`
	// sqlite file recording past availability checks, empty disables
	// recording
	HistoryDb string `json:"history_db"`
}

func defaultConfig() Config {
	return Config{
		StatePath: "state.json",
		HistoryDb: "history.db",
	}
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	// .env is optional, the environment may already be populated
	godotenv.Load()

	InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if os.IsNotExist(err) {
		cfg = defaultConfig()
	} else if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if cfg.StatePath == "" {
		cfg.StatePath = defaultConfig().StatePath
	}

	store := tracker.OpenStore(cfg.StatePath)

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		token = store.Token()
	}
	if token == "" {
		serviceutil.Fatal("startup", fmt.Errorf(
			"no bot token: set TELEGRAM_BOT_TOKEN or the token field of %s", cfg.StatePath,
		))
	}

	client, err := tabletki.NewClient(tabletki.ClientOptions{})
	if err != nil {
		serviceutil.Fatal("init tabletki client", err)
	}
	checker := tracker.NewAvailabilityChecker(client)

	var hist *history.Store
	if cfg.HistoryDb != "" {
		opened, err := history.Open(cfg.HistoryDb)
		if err != nil {
			serviceutil.Fatal("open history db", err)
		}
		hist = &opened
	}

	botService, err := bot.NewService(token, store, checker, hist)
	if err != nil {
		serviceutil.Fatal("init telegram bot", err)
	}

	botService.Start(ctx)
	tracker.NewScheduler(store, checker, botService, hist).Start(ctx)

	<-ctx.Done()
}
