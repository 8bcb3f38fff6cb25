// Package mouse maps terminal mouse events onto named screen regions.
package mouse

import tea "github.com/charmbracelet/bubbletea"

// Rect is a screen rectangle. W and H are exclusive.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named rectangle with optional payload.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds the regions registered during the last render. Regions
// added later take priority over earlier ones.
type HitMap struct {
	regions []Region
}

// NewHitMap returns an empty HitMap.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// AddRect registers a region.
func (hm *HitMap) AddRect(id string, x, y, w, h int, data any) {
	hm.regions = append(hm.regions, Region{ID: id, Rect: Rect{X: x, Y: y, W: w, H: h}, Data: data})
}

// Test returns the topmost region containing (x, y), or nil.
func (hm *HitMap) Test(x, y int) *Region {
	for i := len(hm.regions) - 1; i >= 0; i-- {
		if hm.regions[i].Rect.Contains(x, y) {
			return &hm.regions[i]
		}
	}
	return nil
}

// Clear removes all regions.
func (hm *HitMap) Clear() {
	hm.regions = hm.regions[:0]
}

// Regions returns the registered regions in insertion order.
func (hm *HitMap) Regions() []Region {
	return hm.regions
}

// ActionType classifies a mouse event.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionRightClick
	ActionHover
)

func (a ActionType) String() string {
	switch a {
	case ActionClick:
		return "click"
	case ActionRightClick:
		return "right-click"
	case ActionHover:
		return "hover"
	default:
		return "none"
	}
}

// Action is a classified mouse event and the region it hit, if any.
type Action struct {
	Type   ActionType
	Region *Region
	X, Y   int
}

// Handler classifies mouse events against a HitMap.
type Handler struct {
	HitMap *HitMap
	hover  string
}

// NewHandler returns a Handler with an empty HitMap.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap()}
}

// HandleMouse classifies a Bubble Tea mouse message. Presses of the left
// and right buttons become clicks; motion becomes hover.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	a := Action{X: msg.X, Y: msg.Y, Region: h.HitMap.Test(msg.X, msg.Y)}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			a.Type = ActionClick
		case tea.MouseButtonRight:
			a.Type = ActionRightClick
		}
	case tea.MouseActionMotion:
		a.Type = ActionHover
		h.hover = ""
		if a.Region != nil {
			h.hover = a.Region.ID
		}
	}
	return a
}

// Hover returns the ID of the region under the pointer after the last
// motion event.
func (h *Handler) Hover() string {
	return h.hover
}

// Clear drops all regions, as before a new render.
func (h *Handler) Clear() {
	h.HitMap.Clear()
}
