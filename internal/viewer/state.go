package viewer

// View modes for the comparison UI.
const (
	ViewModeSplit  = "split"
	ViewModeSingle = "single"
)

// Panes with independent pan/zoom state.
const (
	PaneSource = "source"
	PaneRender = "render"
)

const (
	minScale = 0.1
	maxScale = 10.0
)

// PanZoom is the pan/zoom state of one image pane.
type PanZoom struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Scale   float64 `json:"scale"`
}

func defaultPanZoom() PanZoom {
	return PanZoom{Scale: 1}
}

// ViewState is the orthogonal view-mode plus per-pane pan/zoom state.
type ViewState struct {
	Mode  string             `json:"mode"`
	Panes map[string]PanZoom `json:"panes"`
}

func NewViewState() ViewState {
	return ViewState{
		Mode: ViewModeSplit,
		Panes: map[string]PanZoom{
			PaneSource: defaultPanZoom(),
			PaneRender: defaultPanZoom(),
		},
	}
}

// SetMode switches the view mode. Switching to single resets pan/zoom.
func (v *ViewState) SetMode(mode string) {
	if mode != ViewModeSplit && mode != ViewModeSingle {
		return
	}
	v.Mode = mode
	if mode == ViewModeSingle {
		v.ResetPanZoom()
	}
}

// SetPan moves one pane's offset.
func (v *ViewState) SetPan(pane string, offsetX, offsetY float64) {
	pz, ok := v.Panes[pane]
	if !ok {
		return
	}
	pz.OffsetX = offsetX
	pz.OffsetY = offsetY
	v.Panes[pane] = pz
}

// SetZoom sets one pane's zoom scale, clamped to a sane range.
func (v *ViewState) SetZoom(pane string, scale float64) {
	pz, ok := v.Panes[pane]
	if !ok {
		return
	}
	if scale < minScale {
		scale = minScale
	}
	if scale > maxScale {
		scale = maxScale
	}
	pz.Scale = scale
	v.Panes[pane] = pz
}

// ResetPanZoom restores every pane to its default state.
func (v *ViewState) ResetPanZoom() {
	for pane := range v.Panes {
		v.Panes[pane] = defaultPanZoom()
	}
}
