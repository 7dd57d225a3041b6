package tracker

// TrackedPair is one subscription: notify when `Drug` shows up in
// pharmacies of `City`. Added is unix seconds.
type TrackedPair struct {
	Drug  string `json:"drug"`
	City  string `json:"city"`
	Added int64  `json:"added"`
}

// State is the durable representation, written out whole on every
// mutation. chat ids are serialized as strings in the tracking map
// because JSON object keys are strings.
type State struct {
	Token         string                   `json:"token"`
	IntervalHours int                      `json:"interval_hours"`
	ChatIds       []int64                  `json:"chat_ids"`
	Tracking      map[string][]TrackedPair `json:"tracking"`
}

const DefaultIntervalHours = 12

func defaultState() State {
	return State{
		IntervalHours: DefaultIntervalHours,
		Tracking:      map[string][]TrackedPair{},
	}
}
