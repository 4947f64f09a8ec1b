package tools

import (
	"net/http"
	"time"
)

type Options struct {
	WeatherURL      string
	WeatherCacheTTL time.Duration
	Shell           string
	Workspace       string
	HTTPClient      *http.Client
}

// NewDefaultRegistry wires the weather, shell and file tools.
func NewDefaultRegistry(opts Options) (*Registry, *ShellTool, error) {
	shell := opts.Shell
	if shell == "" {
		shell = DefaultShell()
	}
	shellTool, err := NewShellTool(shell, opts.Workspace)
	if err != nil {
		return nil, nil, err
	}
	fileTool, err := NewFileTool(opts.Workspace)
	if err != nil {
		return nil, nil, err
	}
	weather := NewWeatherTool(opts.WeatherURL, opts.WeatherCacheTTL, opts.HTTPClient)
	registry := NewRegistry(
		weather.ToolDef(),
		shellTool.ToolDef(),
		fileTool.ToolDef(),
	)
	return registry, shellTool, nil
}
