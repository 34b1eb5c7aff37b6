package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUD draws the viewer overlay: status lines, and the scroll bar standing
// in for the host page's scrollbar.
type HUD struct {
	screenW, screenH int32
}

func NewHUD(screenW, screenH int32) *HUD {
	return &HUD{screenW: screenW, screenH: screenH}
}

func (h *HUD) Resize(screenW, screenH int32) {
	h.screenW = screenW
	h.screenH = screenH
}

// DrawLines renders the status block in the top-left corner.
func (h *HUD) DrawLines(lines []string) {
	if len(lines) == 0 {
		return
	}
	const pad, lineH = 8, 18
	width := int32(0)
	for _, l := range lines {
		if w := rl.MeasureText(l, 10); w > width {
			width = w
		}
	}
	rl.DrawRectangle(6, 6, width+2*pad, int32(len(lines))*lineH+2*pad, rl.Color{A: 140})
	for i, l := range lines {
		rl.DrawText(l, 6+pad, 6+pad+int32(i)*lineH, 10, rl.Color{R: 220, G: 220, B: 230, A: 255})
	}
}

// DrawScrollBar renders scroll progress along the right edge plus the
// driving section's name and local progress.
func (h *HUD) DrawScrollBar(pageProgress, sectionProgress float64, sectionName string) {
	barX := h.screenW - 10
	barH := h.screenH - 40
	rl.DrawRectangle(barX, 20, 4, barH, rl.Color{R: 255, G: 255, B: 255, A: 30})

	knobY := 20 + int32(pageProgress*float64(barH-24))
	rl.DrawRectangle(barX-1, knobY, 6, 24, rl.Color{R: 255, G: 255, B: 255, A: 160})

	label := fmt.Sprintf("%s %.0f%%", sectionName, sectionProgress*100)
	w := rl.MeasureText(label, 10)
	rl.DrawText(label, barX-w-8, knobY+6, 10, rl.Color{R: 200, G: 200, B: 210, A: 200})
}
