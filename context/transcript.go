package context

import (
	"errors"
	"fmt"
	"llm_steps/model"
	"slices"

	"github.com/sashabaranov/go-openai"
)

var ErrUnknownRole = errors.New("unknown message role")

// Transcript is the ordered prompt history sent to the completion endpoint.
// Messages are only ever appended.
type Transcript struct {
	messages []openai.ChatCompletionMessage
	recorder *Recorder
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// Record mirrors every appended message to r.
func (t *Transcript) Record(r *Recorder) {
	t.recorder = r
}

func (t *Transcript) Append(role model.Role, content string) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	msg := openai.ChatCompletionMessage{
		Role:    string(role),
		Content: content,
	}
	t.messages = append(t.messages, msg)
	if t.recorder != nil {
		t.recorder.write(len(t.messages)-1, msg)
	}
	return nil
}

func (t *Transcript) Messages() []openai.ChatCompletionMessage {
	return slices.Clone(t.messages)
}

// Head returns a copy of the first n messages.
func (t *Transcript) Head(n int) []openai.ChatCompletionMessage {
	n = max(0, min(n, len(t.messages)))
	return slices.Clone(t.messages[:n])
}

func (t *Transcript) Len() int {
	return len(t.messages)
}

func (t *Transcript) Last() (openai.ChatCompletionMessage, bool) {
	if len(t.messages) == 0 {
		return openai.ChatCompletionMessage{}, false
	}
	return t.messages[len(t.messages)-1], true
}
