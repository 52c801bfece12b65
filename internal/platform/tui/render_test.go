package tui

import (
	"io"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/vovakirdan/tui-match3/internal/core"
)

func TestPaletteRenderPlainText(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	p := NewPalette(r)

	s := core.NewScreen(6, 2)
	s.DrawTextColored(0, 0, "ab", core.ColorBrightRed)
	s.DrawTextColored(2, 0, "cd", core.ColorBrightRed)
	s.SetColored(5, 1, '●', core.ColorOrange)

	want := "abcd  \n     ●"
	if got := p.Render(s); got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestPaletteCoversEveryColor(t *testing.T) {
	p := NewPalette(nil)
	for c := core.ColorRed; c <= core.ColorGray; c++ {
		if _, ok := p.styles[c]; !ok {
			t.Errorf("no style for color %d", c)
		}
	}
}
