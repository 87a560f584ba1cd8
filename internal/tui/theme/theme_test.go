package theme

import "testing"

func TestCurrentDefaultsToMocha(t *testing.T) {
	th := Current()
	if th == nil {
		t.Fatal("expected a default theme")
	}
	if th.Name != "catppuccin-mocha" {
		t.Errorf("expected catppuccin-mocha, got %s", th.Name)
	}
	if !th.IsDark {
		t.Error("mocha theme should be dark")
	}
}

func TestStylesLazyInit(t *testing.T) {
	th := NewCatppuccinMocha()
	s1 := th.S()
	s2 := th.S()
	if s1 != s2 {
		t.Error("S() should return the same styles instance")
	}
}

func TestInterpolateColor(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		pos  float64
		want string
	}{
		{"start", "#000000", "#ffffff", 0.0, "#000000"},
		{"end", "#000000", "#ffffff", 1.0, "#ffffff"},
		{"midpoint", "#000000", "#ffffff", 0.5, "#7f7f7f"},
		{"no prefix", "ff0000", "00ff00", 0.0, "#ff0000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterpolateColor(tt.a, tt.b, tt.pos)
			if got != tt.want {
				t.Errorf("InterpolateColor(%s, %s, %v) = %s, want %s", tt.a, tt.b, tt.pos, got, tt.want)
			}
		})
	}
}

func TestParseHexColorInvalid(t *testing.T) {
	r, g, b := ParseHexColor("nope")
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("invalid hex should parse to black, got %d %d %d", r, g, b)
	}
}
