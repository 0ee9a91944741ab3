package viewer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
	"github.com/spaghettifunk/helios/engine/systems"
)

// The HUD asks for this face and size. When no such font is configured the
// font system renders through its builtin face instead.
const (
	hudFontName        = "NotoSans"
	hudFontSize uint16 = 21
)

// Seconds between status line rewrites. Commands invalidate it immediately,
// everything else (fps, simulation time) can lag half a second.
const hudRefreshInterval = 0.5

const helpText = "[1-5] speed   [tab/shift-tab] cycle lock   [e] earth   [m] mars   [n] free\n" +
	"[wasd/space/x] fly   [lshift] sprint   [mouse] look   [scroll] zoom   [f11] fullscreen   [esc] quit"

// HUD owns the two text overlays: a status readout in the top left corner
// and the static binding help along the bottom edge.
type HUD struct {
	fontSystem *systems.FontSystem

	status *metadata.UIText
	help   *metadata.UIText

	sinceRefresh float64
	dirty        bool
}

func newHUD(fs *systems.FontSystem) (*HUD, error) {
	status, err := fs.UITextCreate(metadata.UI_TEXT_TYPE_SYSTEM, hudFontName, hudFontSize, "")
	if err != nil {
		return nil, err
	}
	help, err := fs.UITextCreate(metadata.UI_TEXT_TYPE_SYSTEM, hudFontName, hudFontSize, helpText)
	if err != nil {
		fs.UITextDestroy(status)
		return nil, err
	}
	return &HUD{
		fontSystem: fs,
		status:     status,
		help:       help,
		dirty:      true,
	}, nil
}

// Layout pins the overlays to the window edges. Called on startup and on
// every resize.
func (h *HUD) Layout(width, height uint32) {
	h.fontSystem.UITextSetPosition(h.status, mgl32.Vec2{10, 10})
	h.fontSystem.UITextSetPosition(h.help, mgl32.Vec2{10, float32(height) - 2.5*float32(hudFontSize)})
}

// Invalidate forces the status line to be rewritten on the next update
// instead of waiting out the refresh interval.
func (h *HUD) Invalidate() {
	h.dirty = true
}

// Update rewrites the status line when it is stale. Rebuilding the glyph
// quads every frame would be wasted work, the readout does not change that
// fast.
func (h *HUD) Update(deltaTime float64, state *viewerState) {
	h.sinceRefresh += deltaTime
	if !h.dirty && h.sinceRefresh < hudRefreshInterval {
		return
	}
	h.sinceRefresh = 0
	h.dirty = false

	fps, frameTime := core.MetricsFrame()

	mode := "free flight"
	if target := state.WorldCamera.LockTarget(); target != "" {
		mode = "locked on " + target
	}

	speed := "paused"
	if scale := state.simClock.Scale(); scale > 0 {
		speed = fmt.Sprintf("%gx", scale)
	}

	line := fmt.Sprintf("%.0f fps %.2f ms | %s | sim %s t=%.1fs | %d bodies",
		fps, frameTime, mode, speed, state.simClock.Now(), state.registry.Len())
	if state.registry.Degraded() {
		line += " | scenario degraded"
	}

	if err := h.fontSystem.UITextSetText(h.status, line); err != nil {
		core.LogWarn("hud status update failed: %s", err)
	}
}

// Texts returns the overlays in draw order for the ui view packet.
func (h *HUD) Texts() []*metadata.UIText {
	return []*metadata.UIText{h.status, h.help}
}

func (h *HUD) Destroy() {
	h.fontSystem.UITextDestroy(h.status)
	h.fontSystem.UITextDestroy(h.help)
}
