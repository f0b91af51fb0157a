package murmur

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrBusy indicates a send was attempted while a reply is pending.
	ErrBusy = errors.New("conversation busy: waiting for reply")

	// ErrCaptureActive indicates a recording is already in progress.
	ErrCaptureActive = errors.New("capture already active")

	// ErrPermissionDenied indicates the microphone could not be opened.
	ErrPermissionDenied = errors.New("microphone permission denied")

	// ErrAutoplayBlocked indicates the player refused to start without an
	// explicit user interaction.
	ErrAutoplayBlocked = errors.New("playback blocked: retry with an explicit play")

	// ErrNotFound indicates a missing key in a KeyValueStore.
	ErrNotFound = errors.New("not found")
)
