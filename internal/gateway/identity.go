// In file: internal/gateway/identity.go
package gateway

import "github.com/rs/zerolog"

// Identity is the read-only project/session context the process was started for.
// It is built once at startup and passed by value to every component that needs it.
type Identity struct {
	ProjectID      string
	ProjectPath    string
	SessionID      string
	ConversationID string
}

// Labels returns the identity as string labels, e.g. for queued jobs.
func (id Identity) Labels() map[string]string {
	return map[string]string{
		"project_id":      id.ProjectID,
		"session_id":      id.SessionID,
		"conversation_id": id.ConversationID,
	}
}

// MarshalZerologObject lets the identity be attached to log events.
func (id Identity) MarshalZerologObject(e *zerolog.Event) {
	e.Str("project_id", id.ProjectID).
		Str("session_id", id.SessionID).
		Str("conversation_id", id.ConversationID)
}
