package theme

// NewCatppuccinMocha creates the default Catppuccin Mocha theme.
func NewCatppuccinMocha() *Theme {
	return &Theme{
		Name:   "catppuccin-mocha",
		IsDark: true,

		// Semantic colors
		Primary:   "#cba6f7", // Mauve
		Secondary: "#f5c2e7", // Pink

		// Background hierarchy
		BgBase:     "#1e1e2e", // Base background
		BgMantle:   "#181825", // Darker panels
		BgSurface0: "#313244", // Raised surfaces
		BgSurface1: "#45475a", // Hover surfaces
		BgOverlay:  "#6c7086", // Overlay scrims

		// Foreground hierarchy
		FgMuted:  "#6c7086", // Hints and disabled text
		FgSubtle: "#a6adc8", // Labels
		FgBase:   "#cdd6f4", // Main text color
		FgBright: "#b4befe", // Focused accents

		// Status colors
		Success: "#a6e3a1", // Green
		Warning: "#f9e2af", // Yellow
		Error:   "#f38ba8", // Red
		Info:    "#89b4fa", // Blue

		// Borders
		BorderDefault: "#45475a",
		BorderFocused: "#cba6f7",
	}
}
