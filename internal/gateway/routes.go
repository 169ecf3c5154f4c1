// In file: internal/gateway/routes.go
package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Operation is one of the logical operations the HTTP surface exposes. Every route
// resolves to exactly one operation, and every operation has one implementation.
type Operation string

const (
	OpHealth     Operation = "health"
	OpListTools  Operation = "list-tools"
	OpInvokeTool Operation = "invoke-tool"
	OpStreamTool Operation = "stream-tool"
	OpVersion    Operation = "version"
)

// Route binds a method and path to an operation.
type Route struct {
	Method string
	Path   string
	Op     Operation
}

// Default alias sets, one per client convention observed in the wild.
var (
	DefaultListPaths   = []string{"/tools", "/mcp/tools"}
	DefaultInvokePaths = []string{"/call_tool", "/mcp/callTool", "/mcp/tool", "/execute", "/tool"}
	DefaultStreamPaths = []string{"/stream", "/mcp/stream", "/call_tool/stream"}
)

// Aliases are extra paths configured on top of the defaults.
type Aliases struct {
	List   []string `yaml:"list"`
	Invoke []string `yaml:"invoke"`
	Stream []string `yaml:"stream"`
}

// RouteTable builds the complete routing table. Duplicate method+path pairs are
// dropped, keeping the first.
func RouteTable(extra Aliases) []Route {
	routes := []Route{
		{Method: http.MethodGet, Path: "/", Op: OpHealth},
		{Method: http.MethodGet, Path: "/version", Op: OpVersion},
	}
	for _, path := range append(append([]string(nil), DefaultListPaths...), extra.List...) {
		routes = append(routes,
			Route{Method: http.MethodGet, Path: path, Op: OpListTools},
			Route{Method: http.MethodPost, Path: path, Op: OpListTools},
		)
	}
	for _, path := range append(append([]string(nil), DefaultInvokePaths...), extra.Invoke...) {
		routes = append(routes, Route{Method: http.MethodPost, Path: path, Op: OpInvokeTool})
	}
	for _, path := range append(append([]string(nil), DefaultStreamPaths...), extra.Stream...) {
		routes = append(routes, Route{Method: http.MethodPost, Path: path, Op: OpStreamTool})
	}

	seen := make(map[string]bool, len(routes))
	unique := routes[:0]
	for _, r := range routes {
		key := r.Method + " " + r.Path
		if r.Path == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, r)
	}
	return unique
}

// Mount registers every route of the table on r.
func Mount(r gin.IRoutes, routes []Route, h *Handler) {
	handlers := map[Operation]gin.HandlerFunc{
		OpHealth:     h.Health,
		OpListTools:  h.ListTools,
		OpInvokeTool: h.InvokeTool,
		OpStreamTool: h.StreamTool,
		OpVersion:    h.Version,
	}
	for _, route := range routes {
		r.Handle(route.Method, route.Path, handlers[route.Op])
	}
}
