package murmur

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	UserMsg   int // User message accent
	Assistant int // Assistant message accent
	Notice    int // Recoverable problem reports
	Recording int // Mic indicator while recording
	Playing   int // Play control while audible
	Muted     int // Status bar, placeholders
	Accent    int // Headings, links
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg:   4,
		Assistant: 2,
		Notice:    3,
		Recording: 1,
		Playing:   6,
		Muted:     8,
		Accent:    5,
	}
}
