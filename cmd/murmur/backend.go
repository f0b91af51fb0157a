package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/murmur"
	"github.com/fwojciec/murmur/backend"
	"github.com/fwojciec/murmur/gemini"
)

// service is everything the widget needs from a backend.
type service interface {
	murmur.ChatBackend
	murmur.Synthesizer
	murmur.Transcriber
}

var (
	_ service = (*backend.Client)(nil)
	_ service = (*gemini.Client)(nil)
)

// resolveBackend selects and constructs the backend. Env var values are
// passed in as parameters; env is only read in main().
func resolveBackend(ctx context.Context, name, baseURL, apiKeyFlag, geminiEnvKey string) (service, error) {
	switch name {
	case "", "http":
		var opts []backend.Option
		if baseURL != "" {
			opts = append(opts, backend.WithBaseURL(baseURL))
		}
		return backend.New(opts...), nil
	case "gemini":
		key := apiKeyFlag
		if key == "" {
			key = geminiEnvKey
		}
		if key == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set (use -api-key flag or environment variable)")
		}
		client, err := gemini.New(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("backend %q: %w: must be \"http\" or \"gemini\"", name, errUnknownOption)
	}
}
