// Package gemini implements the murmur chat, speech and transcription
// interfaces on the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK. Chat keeps a short per-session
// history because the Gemini API is stateless; replies stream through the
// SDK's iter.Seq2 iterator and are collected into one body. Speech uses the
// audio response modality and wraps the returned PCM in a WAV container.
package gemini

const (
	defaultModel       = "gemini-2.5-flash"
	defaultSpeechModel = "gemini-2.5-flash-preview-tts"
	defaultVoice       = "Kore"
	defaultHistory     = 40

	defaultSystemPrompt = "You are a helpful voice assistant. Answer briefly and conversationally; your replies are read aloud."
	transcribePrompt    = "Transcribe the speech in this recording verbatim. Reply with the transcript only, or with nothing if there is no speech."

	// PCM returned by the speech models: 16-bit little-endian mono.
	defaultSampleRate = 24000
	bitsPerSample     = 16
	channels          = 1
)

// voices lists the prebuilt Gemini voices a SpeechRequest may name. Other
// names (for example another provider's voices) fall back to the client's
// configured voice.
var voices = map[string]bool{
	"Aoede": true, "Charon": true, "Fenrir": true, "Kore": true,
	"Leda": true, "Orus": true, "Puck": true, "Zephyr": true,
}
