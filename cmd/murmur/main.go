// Command murmur is a terminal chat client that answers by text and voice.
//
// Usage:
//
//	murmur [flags]
//	GEMINI_API_KEY=gk-... murmur -backend gemini [flags]
//
// Flags:
//
//	-backend string   Backend: http, gemini (default: $MURMUR_BACKEND or http)
//	-base-url string  Base URL of the HTTP backend (default: $MURMUR_BASE_URL or http://localhost:3000)
//	-api-key string   Gemini API key (overrides GEMINI_API_KEY)
//	-voice string     Voice for spoken replies
//	-format string    Audio format for spoken replies
//	-store string     Settings store: json, sqlite (default json)
//	-data-dir string  Directory for settings, logs and transcripts (default ~/.murmur)
//	-log string       Log file (default <data-dir>/murmur.log)
//	-debug            Log at debug level
//	-no-audio         Disable microphone and speaker
//	-save-transcript  Write the conversation to <data-dir>/transcripts on exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/fwojciec/murmur"
	bt "github.com/fwojciec/murmur/bubbletea"
	"github.com/fwojciec/murmur/ffmpeg"
	"github.com/fwojciec/murmur/goldmark"
	murmurjson "github.com/fwojciec/murmur/json"
)

var errUnknownOption = errors.New("unknown option")

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "murmur: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		backendFlag = flag.String("backend", os.Getenv("MURMUR_BACKEND"), "Backend: http, gemini")
		baseURL     = flag.String("base-url", os.Getenv("MURMUR_BASE_URL"), "Base URL of the HTTP backend")
		apiKey      = flag.String("api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")
		voice       = flag.String("voice", "", "Voice for spoken replies")
		format      = flag.String("format", "", "Audio format for spoken replies")
		storeFlag   = flag.String("store", "json", "Settings store: json, sqlite")
		dataDir     = flag.String("data-dir", defaultDataDir(), "Directory for settings, logs and transcripts")
		logPath     = flag.String("log", "", "Log file (default <data-dir>/murmur.log)")
		debug       = flag.Bool("debug", false, "Log at debug level")
		noAudio     = flag.Bool("no-audio", false, "Disable microphone and speaker")
		save        = flag.Bool("save-transcript", false, "Write the conversation to <data-dir>/transcripts on exit")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := os.MkdirAll(*dataDir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file.
	if *logPath == "" {
		*logPath = filepath.Join(*dataDir, "murmur.log")
	}
	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))

	svc, err := resolveBackend(ctx, *backendFlag, *baseURL, *apiKey, os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(*storeFlag, *dataDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("close store", "error", err)
		}
	}()

	events := make(chan murmur.Event, 256)
	cfg := murmur.Config{
		Chat:       svc,
		Store:      store,
		Speech:     speechOptions(*voice, *format),
		SpeechText: goldmark.PlainText,
		OnEvent:    bt.Forward(events),
		Logger:     logger,
	}
	if !*noAudio {
		attachAudio(&cfg, svc, logger)
	}

	w := murmur.NewWidget(ctx, cfg)
	defer w.Close()
	logger.Info("session started", "session", w.Conversation.SessionID(), "backend", *backendFlag)

	m := bt.New(ctx, w, events, murmur.DefaultTheme())
	if err := bt.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}

	// Only the welcome message means nothing worth keeping.
	tr := w.Conversation.Transcript()
	if *save && len(tr.Messages) > 1 {
		path := transcriptPath(*dataDir, tr)
		if err := murmurjson.Save(path, tr); err != nil {
			return fmt.Errorf("save transcript: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Transcript saved to %s\n", path)
	}
	return nil
}

// attachAudio wires the ffmpeg microphone and player. Missing tools disable
// the affected direction and are logged, not fatal.
func attachAudio(cfg *murmur.Config, svc service, logger *slog.Logger) {
	if mic, err := ffmpeg.NewMicrophone(); err != nil {
		logger.Warn("voice input disabled", "error", err)
	} else {
		cfg.Microphone = mic
		cfg.Transcriber = svc
	}
	if player, err := ffmpeg.NewPlayer(); err != nil {
		logger.Warn("spoken replies disabled", "error", err)
	} else {
		cfg.Player = player
		cfg.Synthesizer = svc
	}
}

func speechOptions(voice, format string) murmur.SpeechOptions {
	opts := murmur.DefaultSpeechOptions()
	if voice != "" {
		opts.Voice = voice
	}
	if format != "" {
		opts.Format = format
	}
	return opts
}

func transcriptPath(dataDir string, tr murmur.Transcript) string {
	name := tr.SessionID + "-" + strconv.FormatInt(tr.SavedAt.Unix(), 10) + ".json"
	return filepath.Join(dataDir, "transcripts", name)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".murmur"
	}
	return filepath.Join(home, ".murmur")
}
