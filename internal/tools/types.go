// In file: internal/tools/types.go

// Package tools defines the catalogue of agent-callable tools exposed by the gateway
// and their local implementations. Definitions are provider-agnostic and are rendered
// into every schema-key convention a client might expect (see Listing).
package tools

// DefaultServerName is the server identity advertised alongside every tool.
const DefaultServerName = "claudable-tools"

// Tool describes a single callable tool: its name, what it does, and the JSON schema
// of the arguments it accepts.
type Tool struct {
	// Name is the unique identifier clients use to invoke the tool (e.g., "read_file").
	Name string `json:"name"`
	// Description is a short explanation of what the tool does. Agents rely on it to
	// decide when to call the tool.
	Description string `json:"description"`
	// Parameters is the JSON schema of the tool's arguments object.
	Parameters JSONSchema `json:"parameters"`
}

// RequiredParameters returns the argument names the tool cannot run without, in
// declaration order.
func (t Tool) RequiredParameters() []string {
	return t.Parameters.Required
}

// JSONSchema is a typed subset of JSON Schema, enough to describe tool arguments.
// Using a struct instead of map[string]any keeps definitions readable and makes the
// rendered output deterministic.
type JSONSchema struct {
	// Type is the JSON type of the node ("object", "string", "integer", ...).
	Type string `json:"type"`
	// Description explains what a specific parameter is for.
	Description string `json:"description,omitempty"`
	// Properties describes the members of an object node.
	Properties map[string]*JSONSchema `json:"properties,omitempty"`
	// Required lists the property names that must be present.
	Required []string `json:"required,omitempty"`
}

// NewTool is a small helper that builds an object-typed tool definition.
func NewTool(name, description string, properties map[string]*JSONSchema, required ...string) Tool {
	if required == nil {
		required = []string{}
	}
	return Tool{
		Name:        name,
		Description: description,
		Parameters: JSONSchema{
			Type:       "object",
			Properties: properties,
			Required:   required,
		},
	}
}

// ListedTool is one entry of the tool-list response. The same schema is published under
// both the snake_case and camelCase keys, and the identity is published both flat and
// namespaced, so every client convention finds what it looks for.
type ListedTool struct {
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	InputSchema      JSONSchema `json:"input_schema"`
	InputSchemaCamel JSONSchema `json:"inputSchema"`
	FullName         string     `json:"fullName"`
	Server           string     `json:"server"`
	ServerName       string     `json:"serverName"`
}

// ToolListing is the complete body of a list-tools response.
type ToolListing struct {
	Tools      []ListedTool `json:"tools"`
	Server     string       `json:"server"`
	ServerName string       `json:"serverName"`
}
