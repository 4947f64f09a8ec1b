package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"llm_steps/model"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

const FileToolName = "createFileWithContent"

var createFileTool = openai.FunctionDefinition{
	Name: FileToolName,
	Description: `
Creates a file with the specified content at the given path.
For this tool, use JSON input format: {"filePath": "path/to/file", "content": "file content here"}
`,
	Parameters: jsonschema.Definition{
		Type:                 jsonschema.Object,
		AdditionalProperties: false,
		Properties: map[string]jsonschema.Definition{
			"filePath": {
				Type:        jsonschema.String,
				Description: "path of the file, relative to the workspace",
			},
			"content": {
				Type:        jsonschema.String,
				Description: "the file content",
			},
		},
		Required: []string{"filePath", "content"},
	},
}

type FileTool struct {
	root string
}

// NewFileTool resolves relative paths against root. Absolute paths are
// used as given.
func NewFileTool(root string) (*FileTool, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace %s: %w", root, err)
	}
	return &FileTool{root: abs}, nil
}

func (f *FileTool) Create(filePath string, content string) string {
	filePath = strings.TrimSpace(filePath)
	if filePath == "" {
		return "Error creating file: filePath is required"
	}
	fullPath := filePath
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(f.root, fullPath)
	}
	fullPath = filepath.Clean(fullPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Sprintf("Error creating file: %s", err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		return fmt.Sprintf("Error creating file: %s", err)
	}
	return fmt.Sprintf("File created successfully at: %s", fullPath)
}

func (f *FileTool) ToolDef() model.ToolDef {
	handler := func(ctx context.Context, input string) (string, error) {
		args := struct {
			FilePath string `json:"filePath"`
			Content  string `json:"content"`
		}{}
		err := json.Unmarshal([]byte(input), &args)
		if err != nil {
			return fmt.Sprintf("Error parsing tool input: %s", err), nil
		}
		return f.Create(args.FilePath, args.Content), nil
	}
	return model.ToolDef{FunctionDefinition: createFileTool, Handler: handler}
}
