package trace

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/flamegrid/flamegrid/internal/logging"
)

// jsonTrace is the on-disk shape of a JSON capture file.
type jsonTrace struct {
	ID     string       `json:"id,omitempty"`
	Name   string       `json:"name,omitempty"`
	Events []*jsonEvent `json:"events"`
}

type jsonEvent struct {
	ID       string       `json:"id,omitempty"`
	Name     string       `json:"name"`
	Category string       `json:"category"`
	StartNs  int64        `json:"start_ns"`
	EndNs    int64        `json:"end_ns,omitempty"`
	SelfNs   int64        `json:"self_ns,omitempty"`
	Children []*jsonEvent `json:"children,omitempty"`
}

// LoadJSON reads a nested-event capture from a JSON file.
func LoadJSON(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}

	var raw jsonTrace
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse trace file %s: %w", path, err)
	}

	t := &Trace{
		ID:    raw.ID,
		Name:  raw.Name,
		Roots: make([]*Event, 0, len(raw.Events)),
	}
	if t.Name == "" {
		t.Name = path
	}
	for _, je := range raw.Events {
		t.Roots = append(t.Roots, convertJSONEvent(je))
	}
	finalize(t)

	logger := logging.Component("trace")
	logger.Info().
		Str("trace_id", t.ID).
		Str("path", path).
		Int("events", t.EventCount).
		Int("max_depth", t.MaxDepth).
		Msg("loaded JSON trace")

	return t, nil
}

// convertJSONEvent maps the wire shape onto the model iteratively; capture
// files can nest arbitrarily deep.
func convertJSONEvent(root *jsonEvent) *Event {
	out := newEventFromJSON(root)
	type pair struct {
		src *jsonEvent
		dst *Event
	}
	stack := []pair{{src: root, dst: out}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range p.src.Children {
			ce := newEventFromJSON(child)
			p.dst.Children = append(p.dst.Children, ce)
			stack = append(stack, pair{src: child, dst: ce})
		}
	}
	return out
}

func newEventFromJSON(je *jsonEvent) *Event {
	return &Event{
		ID:       je.ID,
		Name:     je.Name,
		Category: je.Category,
		Start:    je.StartNs,
		End:      je.EndNs,
		SelfTime: je.SelfNs,
	}
}
