package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type StepKind string

const (
	StepStart    StepKind = "START"
	StepThink    StepKind = "THINK"
	StepTool     StepKind = "TOOL"
	StepObserve  StepKind = "OBSERVE"
	StepOutput   StepKind = "OUTPUT"
	StepEvaluate StepKind = "EVALUATE"
)

var ErrMalformedStep = errors.New("malformed step")

// Text is a string field that also accepts non-string JSON values.
// Objects, arrays and numbers keep their compacted JSON text, null becomes "".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return err
	}
	*t = Text(buf.String())
	return nil
}

// UnmarshalJSON accepts any JSON value so that an odd step kind is ignored
// by the loop instead of failing the parse.
func (k *StepKind) UnmarshalJSON(data []byte) error {
	var t Text
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}
	*k = StepKind(t)
	return nil
}

// Step is one unit of the START/THINK/TOOL/OBSERVE/OUTPUT protocol.
type Step struct {
	Step     StepKind `json:"step"`
	Content  Text     `json:"content"`
	ToolName Text     `json:"tool_name,omitempty"`
	Input    Text     `json:"input,omitempty"`
}

// ParseStep decodes a step emitted by the model. It also returns the
// compacted JSON text of the step, which is what goes into the transcript.
func ParseStep(raw string) (Step, string, error) {
	cleaned := StripCodeFence(raw)
	var step Step
	if err := json.Unmarshal([]byte(cleaned), &step); err != nil {
		return Step{}, "", fmt.Errorf("%w: %v", ErrMalformedStep, err)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(cleaned)); err != nil {
		return Step{}, "", fmt.Errorf("%w: %v", ErrMalformedStep, err)
	}
	return step, buf.String(), nil
}

// MarshalStep encodes a step the way it is shown to the model, without
// escaping HTML characters.
func MarshalStep(step Step) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(step); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// StripCodeFence removes a surrounding ```json or ``` markdown fence.
func StripCodeFence(text string) string {
	clean := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(clean, "```json"):
		clean = strings.TrimPrefix(clean, "```json")
	case strings.HasPrefix(clean, "```"):
		clean = strings.TrimPrefix(clean, "```")
	default:
		return clean
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	return strings.TrimSpace(clean)
}
