package model

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleDeveloper Role = "developer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleDeveloper:
		return true
	}
	return false
}

type ToolHandler func(ctx context.Context, input string) (string, error)

// ToolDef pairs a tool description with its handler. The handler receives
// the raw input string of the TOOL step and validates it itself.
type ToolDef struct {
	openai.FunctionDefinition
	Handler ToolHandler
}

type DocumentMetadata struct {
	Source string  `json:"source"`
	Page   int     `json:"page"`
	Chunk  int     `json:"chunk"`
	Score  float32 `json:"score,omitempty"`
}

type Document struct {
	PageContent string           `json:"pageContent"`
	Metadata    DocumentMetadata `json:"metadata"`
}
