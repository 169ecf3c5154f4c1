// In file: internal/gateway/handler.go
package gateway

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/dileep-u-k/tool-gateway/internal/executor"
	"github.com/dileep-u-k/tool-gateway/internal/tools"
	"github.com/dileep-u-k/tool-gateway/internal/version"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HealthStatus is reported by the health endpoint while the server is up.
const HealthStatus = "MCP Server running"

// Stage marks how far a request got through the invocation lifecycle.
type Stage int

const (
	StageReceived Stage = iota
	StageNormalized
	StageDispatched
	StageResolved
)

func (s Stage) String() string {
	switch s {
	case StageReceived:
		return "received"
	case StageNormalized:
		return "normalized"
	case StageDispatched:
		return "dispatched"
	case StageResolved:
		return "resolved"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Handler implements the logical operations behind every route alias. It holds only
// immutable, shared state; each request's data lives on its own stack.
type Handler struct {
	registry *tools.Registry
	adapter  *Adapter
	identity Identity
	logger   zerolog.Logger
}

// NewHandler wires the gateway's components together.
func NewHandler(registry *tools.Registry, adapter *Adapter, identity Identity, logger zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		adapter:  adapter,
		identity: identity,
		logger:   logger.With().Str("component", "gateway").Logger(),
	}
}

// Health reports that the server is running.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": HealthStatus, "tools_available": true})
}

// Version reports build information and the catalogue fingerprint.
func (h *Handler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"build":     version.Build(),
		"catalogue": h.registry.Fingerprint(),
		"tools":     h.registry.ToolCount(),
	})
}

// ListTools returns the tool catalogue. The body depends on nothing but the registry.
func (h *Handler) ListTools(c *gin.Context) {
	logger := h.requestLogger(c)
	logger.Info().
		Int("tools", h.registry.ToolCount()).
		Str("server", h.registry.ServerName()).
		Msgf("Tools requested via %s %s", c.Request.Method, c.FullPath())
	c.Header("ETag", `"`+h.registry.Fingerprint()+`"`)
	c.JSON(http.StatusOK, h.registry.Listing())
}

// InvokeTool runs a tool and answers with a buffered envelope.
func (h *Handler) InvokeTool(c *gin.Context) {
	resp := h.invoke(c)
	c.JSON(http.StatusOK, resp.envelope)
}

// StreamTool runs a tool and answers with a single chunk holding the serialized result.
func (h *Handler) StreamTool(c *gin.Context) {
	resp := h.invoke(c)
	if err := WriteChunk(c.Writer, resp.chunk); err != nil {
		logger := h.requestLogger(c)
		logger.Warn().Err(err).Msg("failed to write stream chunk")
	}
}

// response is the rendering of one invocation in both forms.
type response struct {
	envelope Envelope
	chunk    []byte
}

// invoke drives one request through RECEIVED → NORMALIZED → DISPATCHED → RESOLVED.
// Every exit, including a panic, yields a response.
func (h *Handler) invoke(c *gin.Context) (resp response) {
	logger := h.requestLogger(c)
	stage := StageReceived
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("stage", stage.String()).Interface("panic", r).Msg("❌ Internal error handling tool call")
			resp = internalError(r)
		}
	}()

	raw, err := decodeBody(c)
	if err != nil {
		logger.Error().Str("stage", stage.String()).Err(err).Msg("❌ Internal error handling tool call")
		return internalError(err)
	}
	logger.Info().Str("path", c.FullPath()).Interface("request", raw).Msg("Tool call received")

	inv, err := Normalize(raw)
	if errors.Is(err, ErrMissingToolName) {
		logger.Warn().Msg(MissingToolNameMessage)
		return response{
			envelope: MessageEnvelope(MissingToolNameMessage),
			chunk:    failureChunk(MissingToolNameMessage),
		}
	}
	if err != nil {
		return internalError(err)
	}
	stage = StageNormalized

	logger.Info().Str("tool_name", inv.ToolName).Interface("arguments", inv.Arguments).Msg("Executing tool")
	stage = StageDispatched
	result := h.adapter.Execute(c.Request.Context(), inv)
	stage = StageResolved

	envelope, err := Render(result)
	if err != nil {
		logger.Error().Str("stage", stage.String()).Err(err).Msg("❌ Internal error handling tool call")
		return internalError(err)
	}
	logger.Info().Str("tool_name", inv.ToolName).Bool("success", result.Success()).Msg("Tool result")
	return response{envelope: envelope, chunk: []byte(envelope.Content[0].Text)}
}

func (h *Handler) requestLogger(c *gin.Context) zerolog.Logger {
	return h.logger.With().
		Str("request_id", c.GetString(RequestIDKey)).
		Object("identity", h.identity).
		Logger()
}

// decodeBody reads the request as a JSON object. An empty body is an empty object.
func decodeBody(c *gin.Context) (map[string]any, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}
	var raw map[string]any
	if err := executor.DecodeJSON(body, &raw); err != nil {
		return nil, fmt.Errorf("request body is not a JSON object: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

func internalError(cause any) response {
	message := InternalErrorMessage(cause)
	return response{envelope: MessageEnvelope(message), chunk: failureChunk(message)}
}

// failureChunk is the stream rendering of a failure that never reached the executor.
func failureChunk(message string) []byte {
	chunk, _ := EncodeResult(executor.Failed(message, nil))
	return chunk
}
