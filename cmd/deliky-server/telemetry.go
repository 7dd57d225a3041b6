package main

import (
	"context"
	"log/slog"
	"os"

	"deliky-backend/lib/restyutil"
	"deliky-backend/lib/scrapers/tabletki"
	"deliky-backend/lib/serviceutil"
	"deliky-backend/lib/telemetry"
)

func InitTelemetry(ctx context.Context, verbose bool) {
	telemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	err := telemetry.SetupFromEnv(ctx, "deliky-server")
	if os.IsNotExist(err) {
		slog.Info("no telemetry.json5 in scope, traces and metrics are disabled")
	} else if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	} else {
		go func() {
			<-ctx.Done()
			telemetry.Shutdown(context.Background())
		}()
		telemetry.InstrumentPerfStats(ctx)
	}

	if !verbose {
		return
	}

	// raw copies of every exchanged page, for diagnosing extractor
	// misses after the site changes its markup
	tabletki.SetRestyInstrumentOutput(
		restyutil.NewFilesystemOutput(".dev/resty/tabletki"),
	)
}
