package cardtable

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action    string  `json:"action"`
	Deck      string  `json:"deck,omitempty"`
	Card      string  `json:"card,omitempty"`
	Direction string  `json:"direction,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
	Z         float64 `json:"z,omitempty"`
	RX        float64 `json:"rx,omitempty"`
	RY        float64 `json:"ry,omitempty"`
	RZ        float64 `json:"rz,omitempty"`
	Duration  float32 `json:"duration,omitempty"`
	Frames    int     `json:"frames,omitempty"`
	Label     string  `json:"label,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner plays a script of deck and animation actions against a Table,
// one step per frame. Attach it with Table.SetTestRunner.
//
// Actions: draw, discard, flip, rotate, move, click, screenshot, wait,
// settle, finish. "settle" holds the script until the animator is idle;
// "click" uses x and y as screen coordinates. flip, rotate, move and
// discard act on the most recently added card when no card is named; a
// named discard of a card not on the table discards it by name.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	settling  bool
	done      bool
	err       error
}

// LoadTestScript parses and validates a JSON test script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if err := validateStep(st); err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

func validateStep(st testStep) error {
	switch st.Action {
	case "draw":
		if st.Deck == "" {
			return errors.New("draw needs a deck")
		}
	case "discard":
		if st.Deck == "" {
			return errors.New("discard needs a deck")
		}
	case "flip", "move":
	case "rotate":
		if _, err := parseDirection(st.Direction); err != nil {
			return err
		}
	case "wait":
		if st.Frames <= 0 {
			return errors.New("wait needs a positive frame count")
		}
	case "settle", "finish", "click", "screenshot":
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

func parseDirection(s string) (RotateDirection, error) {
	switch s {
	case "cw", "":
		return Clockwise, nil
	case "ccw":
		return CounterClockwise, nil
	}
	return 0, fmt.Errorf("unknown rotate direction %q", s)
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Err returns the failures of executed steps, joined.
func (r *TestRunner) Err() error {
	return r.err
}

// step advances the runner by one frame. Called from Table.Advance.
func (r *TestRunner) step(t *Table) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.settling {
		if !t.animator.Idle() {
			return
		}
		r.settling = false
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	if err := r.exec(t, st); err != nil {
		r.err = errors.Join(r.err, fmt.Errorf("step %d (%s): %w", r.cursor-1, st.Action, err))
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !r.settling {
		r.done = true
	}
}

func (r *TestRunner) exec(t *Table, st testStep) error {
	switch st.Action {
	case "draw":
		deck := t.Deck(st.Deck)
		if deck == nil {
			return notFound(st.Deck)
		}
		_, err := t.DrawCard(deck)
		return err
	case "discard":
		deck := t.Deck(st.Deck)
		if deck == nil {
			return notFound(st.Deck)
		}
		card, err := target(t, st.Card)
		if err != nil {
			if st.Card == "" {
				return err
			}
			return deck.DiscardName(st.Card)
		}
		return t.DiscardCard(deck, card)
	case "flip":
		card, err := target(t, st.Card)
		if err != nil {
			return err
		}
		return card.Flip()
	case "rotate":
		card, err := target(t, st.Card)
		if err != nil {
			return err
		}
		dir, _ := parseDirection(st.Direction)
		return card.Rotate(dir)
	case "move":
		card, err := target(t, st.Card)
		if err != nil {
			return err
		}
		return card.Move(mgl64.Vec3{st.X, st.Y, st.Z}, mgl64.Vec3{st.RX, st.RY, st.RZ}, st.Duration)
	case "click":
		t.Click(st.X, st.Y, ebiten.MouseButtonLeft, 0)
	case "screenshot":
		t.Screenshot(st.Label)
	case "wait":
		r.waitCount = st.Frames - 1 // this frame counts as one
	case "settle":
		r.settling = true
	case "finish":
		t.animator.Finish()
	}
	return nil
}

// target resolves a step's card by name, or the newest card on the table.
func target(t *Table, name string) (*Card, error) {
	if name == "" {
		if len(t.cards) == 0 {
			return nil, notFound("<newest card>")
		}
		return t.cards[len(t.cards)-1], nil
	}
	if card := t.FindCard(name); card != nil {
		return card, nil
	}
	return nil, notFound(name)
}
