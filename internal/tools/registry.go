// In file: internal/tools/registry.go
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/dileep-u-k/tool-gateway/internal/version"
)

// Registry is the immutable, process-wide catalogue of tools. It is built once at
// startup and only read afterwards, so it is safe to share between goroutines
// without locking.
type Registry struct {
	serverName  string
	order       []string
	tools       map[string]ToolExecutor
	listing     ToolListing
	fingerprint string
}

// NewRegistry builds a registry from executors, preserving their order. Names must be
// unique and non-empty.
func NewRegistry(serverName string, executors ...ToolExecutor) (*Registry, error) {
	if serverName == "" {
		serverName = DefaultServerName
	}
	r := &Registry{
		serverName: serverName,
		order:      make([]string, 0, len(executors)),
		tools:      make(map[string]ToolExecutor, len(executors)),
	}
	for _, tool := range executors {
		name := tool.Definition().Name
		if name == "" {
			return nil, fmt.Errorf("tool definition has an empty name")
		}
		if _, dup := r.tools[name]; dup {
			return nil, fmt.Errorf("tool '%s' registered twice", name)
		}
		r.tools[name] = tool
		r.order = append(r.order, name)
	}

	r.listing = r.render()
	body, err := json.Marshal(r.listing)
	if err != nil {
		return nil, fmt.Errorf("failed to render tool listing: %w", err)
	}
	r.fingerprint = version.Fingerprint("tools", body)
	return r, nil
}

// ServerName returns the server identity advertised with every tool.
func (r *Registry) ServerName() string {
	return r.serverName
}

// List returns all tool definitions in registration order.
func (r *Registry) List() []Tool {
	defs := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Lookup finds a tool by its bare (non-namespaced) name.
func (r *Registry) Lookup(name string) (ToolExecutor, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// ToolCount returns the number of registered tools.
func (r *Registry) ToolCount() int {
	return len(r.order)
}

// Listing returns the list-tools response body. The value is rendered once at
// construction; callers receive a copy of the tool slice.
func (r *Registry) Listing() ToolListing {
	listing := r.listing
	listing.Tools = append([]ListedTool(nil), r.listing.Tools...)
	return listing
}

// Fingerprint identifies the current listing. It changes whenever a definition or
// the catalogue version changes.
func (r *Registry) Fingerprint() string {
	return r.fingerprint
}

func (r *Registry) render() ToolListing {
	listed := make([]ListedTool, 0, len(r.order))
	for _, def := range r.List() {
		listed = append(listed, ListedTool{
			Name:             def.Name,
			Description:      def.Description,
			InputSchema:      def.Parameters,
			InputSchemaCamel: def.Parameters,
			FullName:         r.serverName + "/" + def.Name,
			Server:           r.serverName,
			ServerName:       r.serverName,
		})
	}
	return ToolListing{
		Tools:      listed,
		Server:     r.serverName,
		ServerName: r.serverName,
	}
}
