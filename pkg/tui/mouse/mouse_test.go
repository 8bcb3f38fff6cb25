package mouse

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 10}

	cases := []struct {
		x, y     int
		expected bool
	}{
		{10, 10, true},  // Top-left corner
		{29, 10, true},  // Top-right edge (exclusive width)
		{10, 19, true},  // Bottom-left edge (exclusive height)
		{29, 19, true},  // Bottom-right corner
		{15, 15, true},  // Center
		{9, 10, false},  // Just left
		{30, 10, false}, // Just right (exclusive)
		{10, 9, false},  // Just above
		{10, 20, false}, // Just below (exclusive)
	}

	for _, tc := range cases {
		got := r.Contains(tc.x, tc.y)
		if got != tc.expected {
			t.Errorf("Rect(%+v).Contains(%d, %d) = %v, want %v", r, tc.x, tc.y, got, tc.expected)
		}
	}
}

func TestHitMapPriority(t *testing.T) {
	hm := NewHitMap()

	// Dialog body first, buttons on top of it
	hm.AddRect("body", 0, 0, 40, 10, nil)
	hm.AddRect("btn:ok", 2, 8, 6, 1, nil)

	if r := hm.Test(4, 8); r == nil || r.ID != "btn:ok" {
		t.Errorf("expected hit on btn:ok, got %v", r)
	}
	if r := hm.Test(20, 2); r == nil || r.ID != "body" {
		t.Errorf("expected hit on body, got %v", r)
	}
	if r := hm.Test(50, 2); r != nil {
		t.Errorf("expected no hit, got %v", r)
	}
}

func TestHitMapClear(t *testing.T) {
	hm := NewHitMap()
	hm.AddRect("a", 0, 0, 5, 5, nil)
	hm.AddRect("b", 5, 0, 5, 5, nil)

	if len(hm.Regions()) != 2 {
		t.Errorf("expected 2 regions, got %d", len(hm.Regions()))
	}
	hm.Clear()
	if len(hm.Regions()) != 0 {
		t.Errorf("expected 0 regions after clear, got %d", len(hm.Regions()))
	}
}

func TestHandleMouseActions(t *testing.T) {
	h := NewHandler()
	h.HitMap.AddRect("btn:cancel", 10, 10, 10, 1, nil)

	action := h.HandleMouse(tea.MouseMsg{X: 12, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if action.Type != ActionClick {
		t.Errorf("expected ActionClick, got %v", action.Type)
	}
	if action.Region == nil || action.Region.ID != "btn:cancel" {
		t.Errorf("expected region btn:cancel, got %v", action.Region)
	}

	action = h.HandleMouse(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	if action.Type != ActionRightClick {
		t.Errorf("expected ActionRightClick, got %v", action.Type)
	}
	if action.Region != nil {
		t.Errorf("expected no region, got %v", action.Region)
	}

	action = h.HandleMouse(tea.MouseMsg{X: 15, Y: 10, Action: tea.MouseActionMotion})
	if action.Type != ActionHover || h.Hover() != "btn:cancel" {
		t.Errorf("expected hover on btn:cancel, got %v / %q", action.Type, h.Hover())
	}

	h.HandleMouse(tea.MouseMsg{X: 40, Y: 40, Action: tea.MouseActionMotion})
	if h.Hover() != "" {
		t.Errorf("hover not cleared, got %q", h.Hover())
	}

	action = h.HandleMouse(tea.MouseMsg{X: 12, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if action.Type != ActionNone {
		t.Errorf("release should be ActionNone, got %v", action.Type)
	}
}

func TestHandlerClear(t *testing.T) {
	h := NewHandler()
	h.HitMap.AddRect("button", 10, 10, 30, 10, nil)

	h.Clear()

	if len(h.HitMap.Regions()) != 0 {
		t.Errorf("expected 0 regions after Clear, got %d", len(h.HitMap.Regions()))
	}
}
