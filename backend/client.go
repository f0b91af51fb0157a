package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/fwojciec/murmur"
)

// Interface compliance checks.
var (
	_ murmur.ChatBackend = (*Client)(nil)
	_ murmur.Synthesizer = (*Client)(nil)
	_ murmur.Transcriber = (*Client)(nil)
)

// Client talks to the widget backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the backend base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a [Client].
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Chat relays req to the chat workflow and returns the raw reply body. The
// session identifier travels both in the body and in the X-Client-Id header.
func (c *Client) Chat(ctx context.Context, req murmur.ChatRequest) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	body, err := json.Marshal(chatRequest{Text: req.Text, ClientID: req.SessionID})
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(clientIDHeader, req.SessionID)

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("backend: read reply: %w", err)
	}
	return raw, nil
}

// Synthesize requests speech for req.Text. The audio content type is taken
// from the response, defaulting to audio/mpeg.
func (c *Client) Synthesize(ctx context.Context, req murmur.SpeechRequest) (murmur.Audio, error) {
	def := murmur.DefaultSpeechOptions()
	if req.Voice == "" {
		req.Voice = def.Voice
	}
	if req.Format == "" {
		req.Format = def.Format
	}
	body, err := json.Marshal(speechRequest{Text: req.Text, Voice: req.Voice, Format: req.Format})
	if err != nil {
		return murmur.Audio{}, fmt.Errorf("backend: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+speechPath, bytes.NewReader(body))
	if err != nil {
		return murmur.Audio{}, fmt.Errorf("backend: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.do(httpReq)
	if err != nil {
		return murmur.Audio{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return murmur.Audio{}, fmt.Errorf("backend: read audio: %w", err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultAudioType
	}
	return murmur.Audio{Data: data, ContentType: contentType}, nil
}

// Transcribe uploads audio as a multipart form under the "file" field and
// returns the recognized text, which is empty when nothing was recognized.
func (c *Client) Transcribe(ctx context.Context, audio murmur.Audio, filename string) (string, error) {
	body, contentType, err := buildUpload(audio, filename)
	if err != nil {
		return "", fmt.Errorf("backend: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+transcribePath, body)
	if err != nil {
		return "", fmt.Errorf("backend: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("backend: read transcript: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", nil
	}
	var tr transcribeResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return "", fmt.Errorf("backend: decode transcript: %w", err)
	}
	return tr.Text, nil
}

// do sends req and converts non-2xx responses into an *HTTPError.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}
	return resp, nil
}

func buildUpload(audio murmur.Audio, filename string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, multipartFileField, filename))
	contentType := audio.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(audio.Data); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
