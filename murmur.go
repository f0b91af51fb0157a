// Package murmur is a voice chat client core. A Conversation sends typed or
// transcribed text to a chat backend and speaks the replies through a
// PlaybackManager that keeps at most one audio stream audible. A
// CaptureController records the microphone and feeds transcriptions back into
// the Conversation.
//
// Backends, devices and storage are interfaces implemented by subpackages.
package murmur
