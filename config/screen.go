package config

// Screen layout defaults, used when a config file leaves them out
const (
	// Logical screen size in pixels
	ScreenWidth  = 640
	ScreenHeight = 480

	// Window size in pixels
	WindowWidth  = 1280
	WindowHeight = 960

	// Audio
	DefaultSampleRate = 44100
	DefaultVolume     = 1.0

	// Number of messages kept for the overlay
	MessageLogSize = 100
)

// GetScreenDimensions returns the logical screen dimensions in pixels
func GetScreenDimensions() (width, height int) {
	return ScreenWidth, ScreenHeight
}

// GetWindowSize returns the default window size (may be different from the logical screen)
func GetWindowSize() (width, height int) {
	return WindowWidth, WindowHeight
}
