package core

import "testing"

func TestScreenStartsBlank(t *testing.T) {
	s := NewScreen(6, 3)
	if s.Width() != 6 || s.Height() != 3 {
		t.Fatalf("size = %dx%d", s.Width(), s.Height())
	}
	if s.String() != "      \n      \n      " {
		t.Errorf("new screen not blank: %q", s.String())
	}

	if z := NewScreen(-2, 4); z.Width() != 0 || z.String() != "\n\n\n" {
		t.Errorf("negative width should clamp to zero, got %dx%d", z.Width(), z.Height())
	}
}

func TestScreenSetGetClipping(t *testing.T) {
	s := NewScreen(4, 2)
	s.SetColored(3, 1, '●', ColorRed)
	if c := s.GetCell(3, 1); c.Rune != '●' || c.Color != ColorRed {
		t.Errorf("GetCell = %+v", c)
	}

	for _, p := range [][2]int{{-1, 0}, {4, 0}, {0, -1}, {0, 2}} {
		s.Set(p[0], p[1], 'X')
		if s.Get(p[0], p[1]) != ' ' {
			t.Errorf("out-of-bounds Get(%d,%d) should be a space", p[0], p[1])
		}
	}
	if s.String() != "    \n   ●" {
		t.Errorf("clipped writes leaked: %q", s.String())
	}
}

func TestScreenTextAndClear(t *testing.T) {
	s := NewScreen(8, 3)
	s.DrawTextColored(5, 0, "abcdef", ColorGreen)
	s.DrawTextCentered(2, "mid")

	if s.Row(0) != "     abc" {
		t.Errorf("row 0 = %q", s.Row(0))
	}
	if s.GetCell(6, 0).Color != ColorGreen {
		t.Error("text color not applied")
	}
	if s.Row(2) != "  mid   " {
		t.Errorf("row 2 = %q", s.Row(2))
	}
	if s.Row(9) != "        " {
		t.Errorf("row outside buffer = %q", s.Row(9))
	}

	s.Clear()
	if s.Row(0) != "        " || s.GetCell(6, 0).Color != ColorDefault {
		t.Error("Clear should reset runes and colors")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(5, 4)
	s.DrawBox(NewRect(0, 0, 5, 4), ColorGray)

	want := "┌───┐\n│   │\n│   │\n└───┘"
	if s.String() != want {
		t.Errorf("box =\n%s\nwant\n%s", s.String(), want)
	}
	if s.GetCell(4, 3).Color != ColorGray {
		t.Error("box color not applied")
	}
}

func TestScreenResizeKeepsOverlap(t *testing.T) {
	s := NewScreen(4, 2)
	s.DrawTextColored(0, 0, "abcd", ColorDefault)
	s.DrawTextColored(0, 1, "efgh", ColorDefault)

	s.Resize(2, 3)
	if s.String() != "ab\nef\n  " {
		t.Errorf("shrink width = %q", s.String())
	}

	s.Resize(3, 1)
	if s.String() != "ab " {
		t.Errorf("grow width = %q", s.String())
	}
}
