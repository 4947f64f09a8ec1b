package tools

import (
	"context"
	"fmt"
	"llm_steps/model"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// Registry is the fixed name -> tool mapping the step loop may invoke.
type Registry struct {
	tools map[string]model.ToolDef
	mu    sync.RWMutex
}

func NewRegistry(defs ...model.ToolDef) *Registry {
	r := &Registry{tools: make(map[string]model.ToolDef)}
	for _, def := range defs {
		r.Register(def)
	}
	return r
}

func (r *Registry) Register(def model.ToolDef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[def.Name] = def
}

func (r *Registry) Get(name string) (model.ToolDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.tools[name]
	return def, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe renders the tool list for the system prompt, one entry per tool:
// "- name(param: type, ...): description".
func (r *Registry) Describe() string {
	var strBuilder strings.Builder
	for _, name := range r.Names() {
		def, _ := r.Get(name)
		schema := parameterSchema(def.Parameters)
		params := make([]string, 0, len(schema.Required))
		for _, p := range schema.Required {
			params = append(params, fmt.Sprintf("%s: %s", p, schema.Properties[p].Type))
		}
		lines := strings.Split(strings.TrimSpace(def.Description), "\n")
		strBuilder.WriteString(fmt.Sprintf("- %s(%s): %s\n", def.Name, strings.Join(params, ", "), strings.TrimSpace(lines[0])))
		for _, line := range lines[1:] {
			if line = strings.TrimSpace(line); line != "" {
				strBuilder.WriteString(fmt.Sprintf("  %s\n", line))
			}
		}
	}
	return strBuilder.String()
}

// parameterSchema returns the declared schema, or an empty one when the
// parameters are not a jsonschema definition.
func parameterSchema(params any) jsonschema.Definition {
	switch schema := params.(type) {
	case jsonschema.Definition:
		return schema
	case *jsonschema.Definition:
		if schema != nil {
			return *schema
		}
	}
	return jsonschema.Definition{}
}

// Execute runs the named tool. The bool is false when no such tool exists.
// Handler errors come back as content, not as errors.
func (r *Registry) Execute(ctx context.Context, name string, input string) (string, bool) {
	def, ok := r.Get(name)
	if !ok {
		return "", false
	}
	start := time.Now()
	output, err := def.Handler(ctx, input)
	log.Debug().Str("tool", name).Dur("duration", time.Since(start)).Bool("failed", err != nil).Msg("tool executed")
	if err != nil {
		return fmt.Sprintf("Error executing %s: %s", name, err), true
	}
	return output, true
}
