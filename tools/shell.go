package tools

import (
	"context"
	"errors"
	"fmt"
	"llm_steps/model"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

const ShellToolName = "executeCmd"

// DefaultShell is the interpreter used when none is configured.
func DefaultShell() string {
	if runtime.GOOS == "windows" {
		return "powershell.exe -NoProfile -Command"
	}
	return "bash -c"
}

type ShellTool struct {
	argv []string
	dir  string
}

// NewShellTool runs commands as `<shell...> <command>` inside dir.
func NewShellTool(shell string, dir string) (*ShellTool, error) {
	argv, err := shellwords.Parse(shell)
	if err != nil {
		return nil, fmt.Errorf("parse shell %q: %w", shell, err)
	}
	if len(argv) == 0 {
		return nil, errors.New("shell command is empty")
	}
	return &ShellTool{argv: argv, dir: dir}, nil
}

// Name is the interpreter's base name, e.g. "bash" or "powershell".
func (s *ShellTool) Name() string {
	return strings.TrimSuffix(filepath.Base(s.argv[0]), ".exe")
}

func (s *ShellTool) Run(ctx context.Context, command string) string {
	args := append(slices.Clone(s.argv[1:]), command)
	cmd := exec.CommandContext(ctx, s.argv[0], args...)
	cmd.Dir = s.dir
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) != 0 {
			return fmt.Sprintf("Error running command: %s\n%s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return fmt.Sprintf("Error running command: %s", err)
	}
	return string(output)
}

func (s *ShellTool) ToolDef() model.ToolDef {
	def := openai.FunctionDefinition{
		Name:        ShellToolName,
		Description: fmt.Sprintf("Executes a %s command on the user's %s machine and returns the output.", s.Name(), runtime.GOOS),
		Parameters: jsonschema.Definition{
			Type:                 jsonschema.Object,
			AdditionalProperties: false,
			Properties: map[string]jsonschema.Definition{
				"command": {
					Type:        jsonschema.String,
					Description: "the command to execute",
				},
			},
			Required: []string{"command"},
		},
	}
	handler := func(ctx context.Context, input string) (string, error) {
		return s.Run(ctx, input), nil
	}
	return model.ToolDef{FunctionDefinition: def, Handler: handler}
}
