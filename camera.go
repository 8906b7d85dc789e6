package cardtable

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// panAnim holds active pan tweens for the three eye axes.
type panAnim struct {
	tweens [3]*gween.Tween
	done   [3]bool
	offset mgl64.Vec3 // Target - Eye, kept constant while panning
}

// Camera is a perspective view onto the table. Cards lie in the XY plane
// facing +Z, so the default eye sits on +Z looking at the origin.
type Camera struct {
	Eye, Target, Up mgl64.Vec3

	// FovY is the vertical field of view in radians.
	FovY float64
	// Near and Far are the clip plane distances.
	Near, Far float64
	// Viewport is the screen-space rectangle the camera renders into.
	Viewport Rect

	viewProj mgl64.Mat4
	dirty    bool

	pan *panAnim
}

// NewCamera creates a camera looking down -Z at the origin from 10 units
// away with a 45° field of view.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Eye:      mgl64.Vec3{0, 0, 10},
		Up:       mgl64.Vec3{0, 1, 0},
		FovY:     mgl64.DegToRad(45),
		Near:     0.1,
		Far:      100,
		Viewport: viewport,
		dirty:    true,
	}
}

// MarkDirty forces a recomputation of the view-projection matrix. Call it
// after changing exported fields directly.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// PanTo animates the eye to the given position over duration seconds,
// moving Target along with it.
func (c *Camera) PanTo(eye mgl64.Vec3, duration float32, easeFn ease.TweenFunc) {
	p := &panAnim{offset: c.Target.Sub(c.Eye)}
	for i := range p.tweens {
		p.tweens[i] = gween.New(float32(c.Eye[i]), float32(eye[i]), duration, easeFn)
	}
	c.pan = p
}

// Panning reports whether a PanTo animation is running.
func (c *Camera) Panning() bool {
	return c.pan != nil
}

// update advances the pan animation. Called from Table.Advance.
func (c *Camera) update(dt float32) {
	if c.pan == nil {
		return
	}
	p := c.pan
	for i, tw := range p.tweens {
		if p.done[i] {
			continue
		}
		val, done := tw.Update(dt)
		c.Eye[i] = float64(val)
		p.done[i] = done
	}
	c.Target = c.Eye.Add(p.offset)
	c.dirty = true
	if p.done[0] && p.done[1] && p.done[2] {
		c.pan = nil
	}
}

// ViewProjection returns the cached projection * view matrix.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	if !c.dirty {
		return c.viewProj
	}
	c.dirty = false

	aspect := 1.0
	if c.Viewport.Height > 0 {
		aspect = c.Viewport.Width / c.Viewport.Height
	}
	proj := mgl64.Perspective(c.FovY, aspect, c.Near, c.Far)
	view := mgl64.LookAtV(c.Eye, c.Target, c.Up)
	c.viewProj = proj.Mul4(view)
	return c.viewProj
}

// Project maps a world point to screen coordinates. depth is the NDC z in
// [-1, 1] (larger is farther). ok is false for points behind the eye.
func (c *Camera) Project(p mgl64.Vec3) (x, y, depth float64, ok bool) {
	clip := c.ViewProjection().Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= 1e-9 {
		return 0, 0, 0, false
	}
	nx, ny, nz := clip.X()/w, clip.Y()/w, clip.Z()/w
	x = c.Viewport.X + (nx+1)/2*c.Viewport.Width
	y = c.Viewport.Y + (1-ny)/2*c.Viewport.Height
	return x, y, nz, !math.IsNaN(nz)
}
