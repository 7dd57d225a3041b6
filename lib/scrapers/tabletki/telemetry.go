package tabletki

import (
	"deliky-backend/lib/restyutil"
	"deliky-backend/lib/telemetry"
)

var tracer = telemetry.Tracer("deliky.lib.scrapers.tabletki")
var restyInstrumentOutput restyutil.InstrumentOutput

// takes effect for clients created afterwards
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
