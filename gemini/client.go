package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"sync"

	"github.com/fwojciec/murmur"
	"google.golang.org/genai"
)

// Interface compliance checks.
var (
	_ murmur.ChatBackend = (*Client)(nil)
	_ murmur.Synthesizer = (*Client)(nil)
	_ murmur.Transcriber = (*Client)(nil)
)

type (
	streamFunc   func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
	generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
)

// Client implements murmur's backend interfaces for the Gemini API.
type Client struct {
	stream   streamFunc
	generate generateFunc

	model        string
	speechModel  string
	voice        string
	systemPrompt string
	historyLimit int

	mu      sync.Mutex
	history map[string][]*genai.Content
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the chat and transcription model ID. Default is
// gemini-2.5-flash.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithSpeechModel sets the text-to-speech model ID.
func WithSpeechModel(model string) Option {
	return func(c *Client) { c.speechModel = model }
}

// WithVoice sets the prebuilt voice used when a request names none or names
// one Gemini does not have.
func WithVoice(voice string) Option {
	return func(c *Client) { c.voice = voice }
}

// WithSystemPrompt replaces the default assistant instruction.
func WithSystemPrompt(prompt string) Option {
	return func(c *Client) { c.systemPrompt = prompt }
}

// WithHistoryLimit sets how many contents of each session are replayed to
// the model. Zero disables history.
func WithHistoryLimit(n int) Option {
	return func(c *Client) { c.historyLimit = n }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return newClient(gc.Models.GenerateContentStream, gc.Models.GenerateContent, opts...), nil
}

func newClient(stream streamFunc, generate generateFunc, opts ...Option) *Client {
	c := &Client{
		stream:       stream,
		generate:     generate,
		model:        defaultModel,
		speechModel:  defaultSpeechModel,
		voice:        defaultVoice,
		systemPrompt: defaultSystemPrompt,
		historyLimit: defaultHistory,
		history:      make(map[string][]*genai.Content),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Chat answers req in the context of the session's earlier turns and returns
// the reply as a JSON object with a "text" field, the shape the widget's
// HTTP backend uses.
func (c *Client) Chat(ctx context.Context, req murmur.ChatRequest) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	user := &genai.Content{Role: "user", Parts: []*genai.Part{{Text: req.Text}}}
	contents := append(c.sessionHistory(req.SessionID), user)

	text, err := collectText(c.stream(ctx, c.model, contents, c.chatConfig()))
	if err != nil {
		return nil, err
	}

	c.remember(req.SessionID, user, &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}})
	return json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
}

func (c *Client) chatConfig() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if c.systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: c.systemPrompt}},
		}
	}
	return config
}

// sessionHistory returns a copy of the stored contents for id.
func (c *Client) sessionHistory(id string) []*genai.Content {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*genai.Content(nil), c.history[id]...)
}

// remember appends a completed turn to the session, keeping at most
// historyLimit contents. The window always starts on a user turn.
func (c *Client) remember(id string, turn ...*genai.Content) {
	if c.historyLimit <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	h := append(c.history[id], turn...)
	for len(h) > c.historyLimit {
		h = h[2:]
	}
	c.history[id] = h
}

// Forget drops the stored history of a session.
func (c *Client) Forget(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.history, sessionID)
}
