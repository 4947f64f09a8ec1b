package context

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

type RecordEntry struct {
	RunID   string    `json:"run_id"`
	Seq     int       `json:"seq"`
	Time    time.Time `json:"time"`
	Role    string    `json:"role"`
	Content string    `json:"content"`
}

// Recorder writes transcript messages as NDJSON, one file per run.
type Recorder struct {
	RunID string

	path string
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}
	runID := uuid.NewString()
	path := filepath.Join(dir, runID+".ndjson")
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open transcript file: %w", err)
	}
	enc := json.NewEncoder(file)
	enc.SetEscapeHTML(false)
	log.Debug().Str("run_id", runID).Str("path", path).Msg("recording transcript")
	return &Recorder{
		RunID: runID,
		path:  path,
		file:  file,
		enc:   enc,
	}, nil
}

func (r *Recorder) Path() string {
	return r.path
}

func (r *Recorder) write(seq int, msg openai.ChatCompletionMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return
	}
	err := r.enc.Encode(RecordEntry{
		RunID:   r.RunID,
		Seq:     seq,
		Time:    time.Now().UTC(),
		Role:    msg.Role,
		Content: msg.Content,
	})
	if err != nil {
		log.Error().Err(err).Str("path", r.path).Msg("write transcript record failed")
	}
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
