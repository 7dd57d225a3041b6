package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

const perfSampleInterval = 30 * time.Second

var perfMeter = otel.Meter("process.perf_stats")
var perfCpuUsage, _ = perfMeter.Float64Gauge("cpu_usage")
var perfHeapMb, _ = perfMeter.Int64Gauge("heap_alloc_mb")
var perfLiveObjects, _ = perfMeter.Int64Gauge("live_objects")
var perfGoroutines, _ = perfMeter.Int64Gauge("goroutines")

// InstrumentPerfStats samples process health every 30 seconds until
// ctx is cancelled. the cpu sample itself blocks for a minute, so it
// runs after the cheap runtime gauges.
func InstrumentPerfStats(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(perfSampleInterval)
		defer ticker.Stop()

		var memStats runtime.MemStats
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			runtime.ReadMemStats(&memStats)
			perfHeapMb.Record(ctx, int64(memStats.HeapAlloc/1_000_000))
			perfLiveObjects.Record(ctx, int64(memStats.Mallocs-memStats.Frees))
			perfGoroutines.Record(ctx, int64(runtime.NumGoroutine()))

			usage, err := cpu.PercentWithContext(ctx, time.Minute, false)
			if err != nil {
				slog.WarnContext(ctx, "failed to sample cpu usage", "err", err)
				continue
			}
			if len(usage) > 0 {
				perfCpuUsage.Record(ctx, usage[0])
			}
		}
	}()
}
