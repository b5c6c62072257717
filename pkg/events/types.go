package events

import "encoding/json"

// Event name constants
const (
	// PropertyChanged carries a PropertyChangedEvent.
	PropertyChanged = "property.changed"
	// Activate carries an ActivateEvent. Front ends should bring their
	// window forward.
	Activate = "widget.activate"
	// Sampled carries a SampledEvent after every applied tick.
	Sampled = "widget.sampled"
)

// Event is a generic SSE event from daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// PropertyChangedEvent is the typed payload for property.changed.
type PropertyChangedEvent struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
	Ts    int64           `json:"ts"`
}

// ActivateEvent is the typed payload for widget.activate.
type ActivateEvent struct {
	Status string `json:"status"`
	Ts     int64  `json:"ts"`
}

// SampledEvent is the typed payload for widget.sampled.
type SampledEvent struct {
	Status     string `json:"status"`
	Percentage int    `json:"percentage"`
	Charge     string `json:"charge"`
	Remain     string `json:"remain"`
	Simulated  bool   `json:"simulated"`
	Ts         int64  `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// It ignores the event name and simply unmarshals Data into T. If Data is empty,
// it returns the zero value of T with a nil error.
//
// Example:
//
//	payload, err := events.DecodeAs[events.ActivateEvent](ev)
//	if err != nil { /* handle */ }
//	fmt.Println(payload.Status)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
