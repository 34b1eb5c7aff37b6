// Package camera provides the scroll camera mapping page-space world
// coordinates onto the viewport.
package camera

// Camera projects the particle world onto the screen. World space is page
// space: X is centered on the page (0 at the horizontal middle), Y grows
// downward in page units. The projection scale is derived from a fixed
// design width, so the scene spans the same fraction of any viewport.
//
// The camera itself snaps to the scroll scalar every frame; the delayed
// parallax following is per-particle drag state, not camera smoothing.
type Camera struct {
	// ScrollY is the page offset of the viewport top, page units
	ScrollY float64

	// Viewport dimensions (screen size, pixels)
	ViewportW, ViewportH float64

	// DesignW is the world width that spans the viewport horizontally
	DesignW float64

	// Scale is pixels per world unit, derived from DesignW
	Scale float64
}

// New creates a camera at scroll offset 0.
func New(viewportW, viewportH, designW float64) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		DesignW:   designW,
	}
	c.recompute()
	return c
}

// SetScroll moves the viewport top to the given page offset.
func (c *Camera) SetScroll(y float64) { c.ScrollY = y }

// Resize updates the viewport size. Only derived projection constants are
// recomputed; scroll offset and design width are untouched.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.recompute()
}

func (c *Camera) recompute() {
	if c.DesignW <= 0 {
		c.DesignW = c.ViewportW
	}
	if c.DesignW > 0 {
		c.Scale = c.ViewportW / c.DesignW
	} else {
		c.Scale = 1
	}
}

// WorldToScreen converts a page-space world position to screen pixels.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	sx = c.ViewportW/2 + wx*c.Scale
	sy = (wy - c.ScrollY) * c.Scale
	return sx, sy
}

// ScreenToWorld converts screen pixels back to page-space world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	wx = (sx - c.ViewportW/2) / c.Scale
	wy = sy/c.Scale + c.ScrollY
	return wx, wy
}

// Visible reports whether a point with the given world-space margin could
// appear on screen. Conservative, used for culling and HUD decisions.
func (c *Camera) Visible(wx, wy, margin float64) bool {
	sx, sy := c.WorldToScreen(wx, wy)
	m := margin * c.Scale
	return sx >= -m && sx <= c.ViewportW+m && sy >= -m && sy <= c.ViewportH+m
}

// ViewCenterY is the page offset of the viewport's vertical center, the
// reference point for picking the driving section.
func (c *Camera) ViewCenterY() float64 {
	return c.ScrollY + c.ViewportH/(2*c.Scale)
}
