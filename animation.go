package cardtable

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
)

// Animation timings in seconds.
const (
	FlipDuration        float32 = 0.5
	RotateDuration      float32 = 0.5
	DefaultMoveDuration float32 = 0.6
)

const faceUpEpsilon = 1e-3

// AnimationKind identifies what an Animation does to its card.
type AnimationKind uint8

const (
	AnimFlip   AnimationKind = iota // half turn about the local up axis
	AnimRotate                      // quarter turn about the face normal
	AnimMove                        // position and orientation to a target
)

func (k AnimationKind) String() string {
	switch k {
	case AnimFlip:
		return "flip"
	case AnimRotate:
		return "rotate"
	case AnimMove:
		return "move"
	default:
		return "unknown"
	}
}

// RotateDirection selects the sense of Card.Rotate.
type RotateDirection int8

const (
	Clockwise        RotateDirection = 1
	CounterClockwise RotateDirection = -1
)

// Animation is one in-flight transform change. Progress is a gween tween
// from 0 to 1 eased by Smoothstep; Animator.Update feeds it frame time.
type Animation struct {
	Kind     AnimationKind
	Card     *Card
	Duration float32

	tween *gween.Tween
	eased float64 // eased progress applied so far
	done  bool

	// flip and rotate
	axis  mgl64.Vec3
	angle float64

	// move
	startPos, targetPos mgl64.Vec3
	startRot, targetRot mgl64.Quat
	slerpTo             mgl64.Quat // targetRot on the start's hemisphere
	targetFaceUp        bool
}

func newTurn(c *Card, kind AnimationKind, axis mgl64.Vec3, angle float64, duration float32) *Animation {
	return &Animation{
		Kind:     kind,
		Card:     c,
		Duration: duration,
		tween:    gween.New(0, 1, duration, Smoothstep),
		axis:     axis,
		angle:    angle,
	}
}

func newMove(c *Card, pos, euler mgl64.Vec3, duration float32) *Animation {
	target := mgl64.AnglesToQuat(euler[0], euler[1], euler[2], mgl64.XYZ).Normalize()
	start := c.Orientation
	to := target
	if start.Dot(target) < 0 {
		to = target.Scale(-1)
	}
	return &Animation{
		Kind:         AnimMove,
		Card:         c,
		Duration:     duration,
		tween:        gween.New(0, 1, duration, Smoothstep),
		startPos:     c.Position,
		targetPos:    pos,
		startRot:     start,
		targetRot:    target,
		slerpTo:      to,
		targetFaceUp: faceUpFromEulerY(euler[1]),
	}
}

// Done reports whether the animation has reached its end state.
func (a *Animation) Done() bool { return a.done }

// Progress returns the eased progress in [0, 1].
func (a *Animation) Progress() float64 { return a.eased }

// step advances by dt seconds and applies the new state to the card.
func (a *Animation) step(dt float32) bool {
	if a.done {
		return true
	}
	val, finished := a.tween.Update(dt)
	if finished {
		a.finish()
		return true
	}
	a.apply(float64(val))
	return false
}

func (a *Animation) apply(e float64) {
	c := a.Card
	switch a.Kind {
	case AnimFlip, AnimRotate:
		// Only the increment is applied so other rotations on the card
		// compose with this one.
		delta := (e - a.eased) * a.angle
		c.Orientation = c.Orientation.Mul(mgl64.QuatRotate(delta, a.axis)).Normalize()
	case AnimMove:
		c.Position = a.startPos.Add(a.targetPos.Sub(a.startPos).Mul(e))
		c.Orientation = mgl64.QuatSlerp(a.startRot, a.slerpTo, e)
	}
	a.eased = e
}

// finish jumps to the end state. Move snaps exactly to its target.
func (a *Animation) finish() {
	if a.done {
		return
	}
	switch a.Kind {
	case AnimFlip, AnimRotate:
		a.apply(1)
	case AnimMove:
		c := a.Card
		c.Position = a.targetPos
		c.Orientation = a.targetRot
		c.faceUp = a.targetFaceUp
		a.eased = 1
	}
	a.done = true
}

// Animator is the central scheduler for card animations. Call Update once
// per tick; Table does this from its Update.
type Animator struct {
	active []*Animation

	// OnComplete, if set, runs after an animation finishes and the card's
	// slot has been released. It may start new animations.
	OnComplete func(*Animation)
}

// NewAnimator returns an idle animator.
func NewAnimator() *Animator {
	return &Animator{}
}

// Active returns the number of animations in flight.
func (an *Animator) Active() int {
	return len(an.active)
}

// Idle reports whether no animations are in flight.
func (an *Animator) Idle() bool {
	return len(an.active) == 0
}

func (an *Animator) start(a *Animation) {
	a.Card.anim = a
	an.active = append(an.active, a)
	logger().Debug("animation started", "card", a.Card.Name, "kind", a.Kind.String(), "duration", a.Duration)
}

// Update advances every active animation by dt seconds.
func (an *Animator) Update(dt float32) {
	if len(an.active) == 0 {
		return
	}
	current := an.active
	an.active = nil // animations started from OnComplete land here

	kept := current[:0]
	var finished []*Animation
	for _, a := range current {
		if a.step(dt) {
			a.Card.anim = nil
			finished = append(finished, a)
			continue
		}
		kept = append(kept, a)
	}
	for i := len(kept); i < len(current); i++ {
		current[i] = nil
	}
	an.active = append(kept, an.active...)

	for _, a := range finished {
		an.complete(a)
	}
}

// Finish snaps every active animation to its end state.
func (an *Animator) Finish() {
	for len(an.active) > 0 {
		current := an.active
		an.active = nil
		for _, a := range current {
			a.finish()
			a.Card.anim = nil
			an.complete(a)
		}
	}
}

func (an *Animator) complete(a *Animation) {
	logger().Debug("animation finished", "card", a.Card.Name, "kind", a.Kind.String())
	if an.OnComplete != nil {
		an.OnComplete(a)
	}
}
