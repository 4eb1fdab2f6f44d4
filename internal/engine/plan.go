package engine

import (
	"encoding/json"
)

// emptyParams is the canonical value for an omitted params field.
const emptyParams = "{}"

// OperationStep is one unit of work: a named operation understood by the
// backend plus an opaque parameter document. The engine never inspects
// params beyond passing them through to the backend.
type OperationStep struct {
	Op     string          `json:"op"`
	Params json.RawMessage `json:"params"`
}

// normalize guarantees the params invariant: always present, never null.
func (s *OperationStep) normalize() {
	if len(s.Params) == 0 || string(s.Params) == "null" {
		s.Params = json.RawMessage(emptyParams)
	}
}

func (s *OperationStep) UnmarshalJSON(data []byte) error {
	type alias OperationStep
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*s = OperationStep(decoded)
	s.normalize()
	return nil
}

func (s OperationStep) MarshalJSON() ([]byte, error) {
	s.normalize()
	type alias OperationStep
	return json.Marshal(alias(s))
}

// Precondition is an advisory assertion about required external state,
// e.g. {"type": "project_open"}. The engine does not enforce preconditions;
// it only carries them. The full original object is retained so that
// precondition types this version does not know about survive a round-trip.
type Precondition struct {
	Type string

	raw json.RawMessage
}

func (p *Precondition) UnmarshalJSON(data []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	p.Type = head.Type
	p.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (p Precondition) MarshalJSON() ([]byte, error) {
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	return json.Marshal(struct {
		Type string `json:"type"`
	}{Type: p.Type})
}

// Target describes where a plan is meant to apply. Absent fields mean
// "whatever is currently open".
type Target struct {
	Project  *string `json:"project,omitempty"`
	Timeline *string `json:"timeline,omitempty"`
}

// Plan is the top-level unit submitted for execution. A plan is either
// executable (Error empty, Operations run in listed order) or in the error
// state (Error set by the upstream translator, Operations ignored).
type Plan struct {
	Version       string          `json:"version"`
	Target        *Target         `json:"target,omitempty"`
	Preconditions []Precondition  `json:"preconditions,omitempty"`
	Operations    []OperationStep `json:"operations,omitempty"`
	Error         string          `json:"error,omitempty"`
	Suggestion    string          `json:"suggestion,omitempty"`
}

// IsError reports whether the plan is in the error state and therefore
// not executable.
func (p *Plan) IsError() bool {
	return p.Error != ""
}
