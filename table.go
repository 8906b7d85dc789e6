package cardtable

import (
	"math"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

const defaultCommandCap = 128

// faceDownEuler is the orientation cards take on the discard pile.
var faceDownEuler = mgl64.Vec3{0, math.Pi, 0}

// Table is the top-level object that owns the cards on screen, the decks
// they come from, the camera and the animator that moves them.
type Table struct {
	// ClearColor fills the screen before cards are drawn. A zero alpha
	// skips the fill.
	ClearColor Color

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	animator *Animator
	camera   *Camera
	decks    []*Deck
	cards    []*Card

	commands []drawCommand
	sortBuf  []drawCommand

	handlers        handlerRegistry
	pointer         pointerState
	screenshotQueue []string

	updateFunc  func() error
	testRunner  *TestRunner
	debug       bool
	lastAdvance time.Duration
}

// NewTable creates an empty table rendering into viewport.
func NewTable(viewport Rect) *Table {
	return &Table{
		ClearColor:    Color{0.05, 0.25, 0.12, 1},
		ScreenshotDir: "screenshots",
		animator:      NewAnimator(),
		camera:        NewCamera(viewport),
		commands:      make([]drawCommand, 0, defaultCommandCap),
		sortBuf:       make([]drawCommand, 0, defaultCommandCap),
	}
}

// Animator returns the table's animation scheduler.
func (t *Table) Animator() *Animator { return t.animator }

// Camera returns the table camera.
func (t *Table) Camera() *Camera { return t.camera }

// NewDeck creates a deck whose cards animate on the table's animator.
func (t *Table) NewDeck(atlas *Atlas, cfg DeckConfig) *Deck {
	cfg.Animator = t.animator
	d := NewDeck(atlas, cfg)
	t.decks = append(t.decks, d)
	return d
}

// Deck returns the deck with the given name, or nil.
func (t *Table) Deck(name string) *Deck {
	for _, d := range t.decks {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// Decks returns the table's decks. The returned slice MUST NOT be mutated.
func (t *Table) Decks() []*Deck { return t.decks }

// Add puts a card on the table. Adding a card twice is a no-op.
// Panics if card is nil.
func (t *Table) Add(card *Card) {
	if card == nil {
		panic("cardtable: cannot add nil card")
	}
	if slices.Contains(t.cards, card) {
		return
	}
	if card.animator == nil {
		card.animator = t.animator
	}
	t.cards = append(t.cards, card)
}

// Remove takes a card off the table. Its deck state is not changed.
func (t *Table) Remove(card *Card) {
	if i := slices.Index(t.cards, card); i >= 0 {
		t.cards = slices.Delete(t.cards, i, i+1)
	}
}

// Cards returns the cards on the table. The returned slice MUST NOT be mutated.
func (t *Table) Cards() []*Card { return t.cards }

// FindCard returns the first card on the table with the given name, or nil.
func (t *Table) FindCard(name string) *Card {
	for _, c := range t.cards {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// DrawCard draws from deck, places the new card at the deck's draw
// position and adds it to the table.
func (t *Table) DrawCard(deck *Deck) (*Card, error) {
	card, err := deck.Draw()
	if err != nil {
		return nil, err
	}
	card.Position = deck.DrawPosition
	t.Add(card)
	return card, nil
}

// DiscardCard discards card from deck and animates it face down onto the
// deck's discard position. A busy card is rejected before the deck changes.
func (t *Table) DiscardCard(deck *Deck, card *Card) error {
	if !card.CanBeDiscarded() {
		return nil
	}
	if card.Animating() {
		return ErrCardBusy
	}
	state, err := deck.CardState(card.Name)
	if err != nil {
		return err
	}
	if state == StateDiscarded {
		return nil
	}
	if err := deck.Discard(card); err != nil {
		return err
	}
	return card.Move(deck.DiscardPosition, faceDownEuler, DefaultMoveDuration)
}

// SetUpdateFunc registers a callback run at the start of every Update.
func (t *Table) SetUpdateFunc(fn func() error) {
	t.updateFunc = fn
}

// SetTestRunner attaches a scripted runner, stepped once per Update.
func (t *Table) SetTestRunner(runner *TestRunner) {
	t.testRunner = runner
}

// SetDebugMode enables per-frame timing stats logged at debug level.
func (t *Table) SetDebugMode(enabled bool) {
	t.debug = enabled
}

// Update reads pointer input and advances the table by one tick of 1/TPS
// seconds.
func (t *Table) Update() error {
	t.processInput()
	return t.Advance(float32(1.0 / float64(ebiten.TPS())))
}

// Advance runs the update callback and test runner, then moves the camera
// and every animation forward by dt seconds.
func (t *Table) Advance(dt float32) error {
	var t0 time.Time
	if t.debug {
		t0 = time.Now()
	}

	if t.testRunner != nil {
		t.testRunner.step(t)
	}
	if t.updateFunc != nil {
		if err := t.updateFunc(); err != nil {
			return err
		}
	}
	t.camera.update(dt)
	t.animator.Update(dt)

	if t.debug {
		t.lastAdvance = time.Since(t0)
	}
	return nil
}

// Draw clears screen and renders every card, farthest first.
func (t *Table) Draw(screen *ebiten.Image) {
	if t.ClearColor.A > 0 {
		screen.Fill(t.ClearColor.RGBA())
	}

	var stats debugStats
	var t0 time.Time
	if t.debug {
		t0 = time.Now()
	}

	t.collect()
	t.mergeSort()

	if t.debug {
		stats.collectTime = time.Since(t0)
		t0 = time.Now()
	}

	t.submit(screen)

	if t.debug {
		stats.submitTime = time.Since(t0)
		stats.advanceTime = t.lastAdvance
		stats.cardCount = len(t.cards)
		stats.drawCount = len(t.commands)
		stats.animations = t.animator.Active()
		t.debugLog(stats)
	}

	t.flushScreenshots(screen)
}
