package actions

import (
	"encoding/json"
	"maps"
)

// AnyAction is implemented by every action, whatever its payload type.
type AnyAction interface {
	ActionType() string
}

// Meta carries free-form action metadata.
type Meta map[string]any

// Empty is the payload of actions that carry no data.
type Empty = struct{}

var _ AnyAction = Action[Empty]{}

// Action is a flux-standard-action.
// Error is serialized only when true and Meta only when present.
type Action[P any] struct {
	Type    string `json:"type"`
	Payload P      `json:"payload"`
	Error   bool   `json:"error,omitempty"`
	Meta    Meta   `json:"meta,omitempty"`
}

func (a Action[P]) ActionType() string {
	return a.Type
}

// Success is the payload of the done action of an async triplet.
type Success[P, S any] struct {
	Params P `json:"params"`
	Result S `json:"result"`
}

// Failure is the payload of the failed action of an async triplet.
type Failure[P, E any] struct {
	Params P `json:"params"`
	Error  E `json:"error"`
}

// MarshalJSON renders an error value as its message.
func (f Failure[P, E]) MarshalJSON() ([]byte, error) {
	var errValue any = f.Error
	if err, ok := errValue.(error); ok && err != nil {
		errValue = err.Error()
	}
	return json.Marshal(struct {
		Params P   `json:"params"`
		Error  any `json:"error"`
	}{
		Params: f.Params,
		Error:  errValue,
	})
}

// mergeMeta returns the shallow merge of the given maps, later keys winning.
// It returns nil when every map is nil.
func mergeMeta(metas ...Meta) Meta {
	var merged Meta
	for _, m := range metas {
		if m == nil {
			continue
		}
		if merged == nil {
			merged = make(Meta, len(m))
		}
		maps.Copy(merged, m)
	}
	return merged
}

// TypeIs returns a matcher accepting actions of any of the given types.
func TypeIs(types ...string) func(AnyAction) bool {
	return func(a AnyAction) bool {
		if a == nil {
			return false
		}
		for _, t := range types {
			if a.ActionType() == t {
				return true
			}
		}
		return false
	}
}
