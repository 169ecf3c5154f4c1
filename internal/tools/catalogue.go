// In file: internal/tools/catalogue.go
package tools

import "time"

// Options tunes the built-in tools.
type Options struct {
	ServerName       string
	ShellTimeout     time.Duration
	MaxOutputBytes   int
	MaxSearchMatches int
}

// Default builds the process-wide catalogue. The order here is the order clients see
// in every list-tools response.
func Default(opts Options) (*Registry, error) {
	return NewRegistry(opts.ServerName,
		NewShellTool(opts.ShellTimeout, opts.MaxOutputBytes),
		WriteFileTool{},
		ReadFileTool{},
		ReplaceTool{},
		ListDirectoryTool{},
		GlobTool{},
		NewSearchTool(opts.MaxSearchMatches),
	)
}
