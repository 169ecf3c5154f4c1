// In file: internal/gateway/formatter.go
package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dileep-u-k/tool-gateway/internal/executor"
)

// Content is one block of an envelope. Only text blocks are produced.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Envelope is the protocol's tool-call response body. Failure is signalled in-band
// through IsError; the HTTP status is always 200.
type Envelope struct {
	IsError bool      `json:"isError"`
	Content []Content `json:"content"`
}

// MessageEnvelope renders a plain error message.
func MessageEnvelope(message string) Envelope {
	return Envelope{
		IsError: true,
		Content: []Content{{Type: "text", Text: message}},
	}
}

// InternalErrorMessage is the text of an envelope for an unexpected fault.
func InternalErrorMessage(cause any) string {
	return fmt.Sprintf("Internal server error: %v", cause)
}

// EncodeResult serializes a result the way it is embedded in an envelope and sent as
// a stream chunk.
func EncodeResult(result executor.Result) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// Render builds the buffered envelope for an executor result.
func Render(result executor.Result) (Envelope, error) {
	text, err := EncodeResult(result)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode result: %w", err)
	}
	return Envelope{
		IsError: !result.Success(),
		Content: []Content{{Type: "text", Text: string(text)}},
	}, nil
}

// WriteChunk sends chunk as the one and only chunk of a chunked response. The body
// is complete before anything is written, so there is no partial delivery.
func WriteChunk(w http.ResponseWriter, chunk []byte) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Del("Content-Length")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(chunk); err != nil {
		return err
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
