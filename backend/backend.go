// Package backend implements the murmur chat, speech and transcription
// interfaces against the widget's HTTP backend.
//
// The backend exposes three JSON/multipart endpoints: a chat relay that
// forwards text to the automation workflow, a text-to-speech endpoint that
// returns an audio body, and a transcription endpoint that accepts a recorded
// file upload.
package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultBaseURL = "http://localhost:3000"

	chatPath       = "/api/n8n"
	speechPath     = "/api/tts"
	transcribePath = "/api/whisper"

	clientIDHeader     = "X-Client-Id"
	defaultAudioType   = "audio/mpeg"
	multipartFileField = "file"
)

type chatRequest struct {
	Text     string `json:"text"`
	ClientID string `json:"clientId"`
}

type speechRequest struct {
	Text   string `json:"text"`
	Voice  string `json:"voice"`
	Format string `json:"format"`
}

type transcribeResponse struct {
	Text string `json:"text"`
}

// errorBody holds the fields an error response may explain itself with.
type errorBody struct {
	Error string `json:"error"`
	Body  string `json:"body"`
}

// HTTPError is returned when the backend answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Status     string // e.g. "502 Bad Gateway"
	Message    string
}

func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unknown error"
	}
	return fmt.Sprintf("HTTP %s: %s", e.Status, msg)
}

// parseHTTPError reads resp's body and builds an *HTTPError. The message is
// taken from the "error" or "body" field of a JSON body, falling back to the
// raw text.
func parseHTTPError(resp *http.Response) error {
	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &HTTPError{StatusCode: resp.StatusCode, Status: status, Message: fmt.Sprintf("failed to read body: %v", err)}
	}
	return &HTTPError{StatusCode: resp.StatusCode, Status: status, Message: errorMessage(raw)}
}

func errorMessage(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	var body errorBody
	if err := json.Unmarshal(trimmed, &body); err == nil {
		switch {
		case body.Error != "":
			return body.Error
		case body.Body != "":
			return body.Body
		}
	}
	return strings.TrimSpace(string(trimmed))
}
