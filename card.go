package cardtable

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Default card size in world units; the width follows the atlas cell aspect.
const DefaultCardHeight = 1.4

var (
	axisUp     = mgl64.Vec3{0, 1, 0} // local turn axis used by Flip
	axisNormal = mgl64.Vec3{0, 0, 1} // local face normal used by Rotate
)

// CardOptions configures a card at construction. Capability flags cannot be
// changed afterwards.
type CardOptions struct {
	CanBeFlipped   bool
	CanBeRotated   bool
	CanBeDiscarded bool

	// FaceDown starts the card turned π about its up axis.
	FaceDown bool

	// Width and Height are the quad size in world units. Zero picks
	// DefaultCardHeight and the atlas cell aspect ratio.
	Width, Height float64
}

// DefaultCardOptions enables every capability.
func DefaultCardOptions() CardOptions {
	return CardOptions{CanBeFlipped: true, CanBeRotated: true, CanBeDiscarded: true}
}

// Material holds the texture parameters baked into a card at construction.
type Material struct {
	Front       UVRegion
	Back        UVRegion
	Tint        Color
	Highlighted bool
}

// Card is a textured quad on the table. Its transform is mutated by the
// animations submitted through Flip, Rotate and Move.
type Card struct {
	ID   uuid.UUID
	Name string

	Position    mgl64.Vec3
	Orientation mgl64.Quat

	Width, Height float64
	ZIndex        int

	Material Material
	UserData any

	canBeFlipped   bool
	canBeRotated   bool
	canBeDiscarded bool
	faceUp         bool

	atlas    *Atlas
	animator *Animator
	anim     *Animation // active-animation slot
}

// NewCard builds a card showing the named atlas entry. Animations run on
// animator; with a nil animator they complete immediately.
func NewCard(atlas *Atlas, name string, animator *Animator, opts CardOptions) (*Card, error) {
	front, err := atlas.Locate(name)
	if err != nil {
		return nil, err
	}
	back, err := atlas.CardBack()
	if err != nil {
		if !atlas.Loaded() {
			return nil, err
		}
		back = front
	}

	w, h := opts.Width, opts.Height
	if h <= 0 {
		h = DefaultCardHeight
	}
	if w <= 0 {
		spec := atlas.Spec()
		w = h * float64(spec.CardWidth) / float64(spec.CardHeight)
	}

	c := &Card{
		ID:             uuid.New(),
		Name:           name,
		Orientation:    mgl64.QuatIdent(),
		Width:          w,
		Height:         h,
		Material:       Material{Front: front, Back: back, Tint: ColorWhite},
		canBeFlipped:   opts.CanBeFlipped,
		canBeRotated:   opts.CanBeRotated,
		canBeDiscarded: opts.CanBeDiscarded,
		faceUp:         !opts.FaceDown,
		atlas:          atlas,
		animator:       animator,
	}
	if opts.FaceDown {
		c.Orientation = mgl64.QuatRotate(math.Pi, axisUp)
	}
	return c, nil
}

// FaceUp reports the card's target face. Flip changes it as soon as the
// animation is scheduled, so it can lead the rendered orientation.
func (c *Card) FaceUp() bool { return c.faceUp }

func (c *Card) CanBeFlipped() bool   { return c.canBeFlipped }
func (c *Card) CanBeRotated() bool   { return c.canBeRotated }
func (c *Card) CanBeDiscarded() bool { return c.canBeDiscarded }

// Atlas returns the atlas the card's material was built from.
func (c *Card) Atlas() *Atlas { return c.atlas }

// Animating reports whether the card's animation slot is occupied.
func (c *Card) Animating() bool { return c.anim != nil }

// Animation returns the in-flight animation, or nil.
func (c *Card) Animation() *Animation { return c.anim }

// Flip turns the card over about its local up axis. No-op when the card
// cannot be flipped.
func (c *Card) Flip() error {
	if !c.canBeFlipped {
		return nil
	}
	if c.anim != nil {
		return ErrCardBusy
	}
	a := newTurn(c, AnimFlip, axisUp, math.Pi, FlipDuration)
	c.faceUp = !c.faceUp
	return c.submit(a)
}

// Rotate turns the card a quarter turn in its own plane. The direction is
// as seen by a viewer looking at the currently visible face.
func (c *Card) Rotate(dir RotateDirection) error {
	if !c.canBeRotated {
		return nil
	}
	if c.anim != nil {
		return ErrCardBusy
	}
	angle := -float64(dir) * math.Pi / 2
	if !c.faceUp {
		angle = -angle
	}
	return c.submit(newTurn(c, AnimRotate, axisNormal, angle, RotateDuration))
}

// Move animates the card to pos with orientation given as XYZ Euler angles
// in radians. A duration <= 0 uses DefaultMoveDuration.
func (c *Card) Move(pos, euler mgl64.Vec3, duration float32) error {
	if c.anim != nil {
		return ErrCardBusy
	}
	if duration <= 0 {
		duration = DefaultMoveDuration
	}
	return c.submit(newMove(c, pos, euler, duration))
}

func (c *Card) submit(a *Animation) error {
	if c.animator == nil {
		a.finish()
		return nil
	}
	c.animator.start(a)
	return nil
}

// faceUpFromEulerY classifies a rotation about the turn axis: face up when
// the angle is within faceUpEpsilon of a whole turn.
func faceUpFromEulerY(y float64) bool {
	r := math.Mod(y, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	return r < faceUpEpsilon || 2*math.Pi-r < faceUpEpsilon
}
