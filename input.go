package cardtable

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const defaultClickSlop = 4.0 // pixels

// KeyModifiers is a bitmask of held modifier keys.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// ClickContext describes a click on the table. Card is the topmost card
// under the pointer, or nil for empty table.
type ClickContext struct {
	Card      *Card
	X, Y      float64
	Button    ebiten.MouseButton
	Modifiers KeyModifiers
}

type clickHandler struct {
	id uint32
	fn func(ClickContext)
}

type handlerRegistry struct {
	click  []clickHandler
	nextID uint32
}

// CallbackHandle allows removing a registered table callback.
type CallbackHandle struct {
	id  uint32
	reg *handlerRegistry
}

// Remove unregisters the callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	for i, e := range h.reg.click {
		if e.id == h.id {
			h.reg.click = append(h.reg.click[:i], h.reg.click[i+1:]...)
			return
		}
	}
}

// pointerState tracks the mouse between press and release.
type pointerState struct {
	down           bool
	button         ebiten.MouseButton
	startX, startY float64
}

// OnClick registers a callback for clicks anywhere on the table.
func (t *Table) OnClick(fn func(ClickContext)) CallbackHandle {
	t.handlers.nextID++
	id := t.handlers.nextID
	t.handlers.click = append(t.handlers.click, clickHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &t.handlers}
}

// Contains reports whether the screen point lies on the card's projected
// quad. The quad is convex, so a cross-product sign test suffices.
func (m *CardMesh) Contains(x, y float64) bool {
	if !m.Visible {
		return false
	}
	var positive, negative bool
	for i := range m.Vertices {
		a, b := m.Vertices[i], m.Vertices[(i+1)%len(m.Vertices)]
		x1, y1 := float64(a.DstX), float64(a.DstY)
		x2, y2 := float64(b.DstX), float64(b.DstY)
		cross := (x2-x1)*(y-y1) - (y2-y1)*(x-x1)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// CardAt returns the topmost card drawn at screen point (x, y), or nil.
func (t *Table) CardAt(x, y float64) *Card {
	t.collect()
	t.mergeSort()
	// Reverse draw order: the last card drawn is on top.
	for i := len(t.commands) - 1; i >= 0; i-- {
		if t.commands[i].mesh.Contains(x, y) {
			return t.commands[i].card
		}
	}
	return nil
}

// Click dispatches a click at screen point (x, y) as if the pointer had been
// pressed and released there.
func (t *Table) Click(x, y float64, button ebiten.MouseButton, mods KeyModifiers) {
	if len(t.handlers.click) == 0 {
		return
	}
	ctx := ClickContext{Card: t.CardAt(x, y), X: x, Y: y, Button: button, Modifiers: mods}
	for _, h := range t.handlers.click {
		h.fn(ctx)
	}
}

func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// processInput turns mouse press/release pairs into clicks. Called from
// Table.Update; Advance does not read devices.
func (t *Table) processInput() {
	mx, my := ebiten.CursorPosition()
	button, pressed := pressedButton()
	t.pointerEvent(float64(mx), float64(my), button, pressed, readModifiers())
}

func pressedButton() (ebiten.MouseButton, bool) {
	for _, b := range []ebiten.MouseButton{ebiten.MouseButtonLeft, ebiten.MouseButtonRight, ebiten.MouseButtonMiddle} {
		if ebiten.IsMouseButtonPressed(b) {
			return b, true
		}
	}
	return 0, false
}

// pointerEvent feeds one frame of pointer state. A release within
// defaultClickSlop of the press position is a click.
func (t *Table) pointerEvent(x, y float64, button ebiten.MouseButton, pressed bool, mods KeyModifiers) {
	ps := &t.pointer
	switch {
	case pressed && !ps.down:
		*ps = pointerState{down: true, button: button, startX: x, startY: y}
	case !pressed && ps.down:
		ps.down = false
		if math.Hypot(x-ps.startX, y-ps.startY) <= defaultClickSlop {
			t.Click(x, y, ps.button, mods)
		}
	}
}
