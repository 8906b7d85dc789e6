package cardtable

import (
	"math/rand/v2"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// CardState is a card name's position in a deck's lifecycle.
type CardState uint8

const (
	StateAvailable CardState = iota
	StateDrawn
	StateDiscarded
)

func (s CardState) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateDrawn:
		return "drawn"
	case StateDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// RandSource picks draw indices. *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	IntN(n int) int
}

// DeckEvent describes one state transition of a card name.
type DeckEvent struct {
	Deck string
	Name string
	Card *Card // nil when discarded by name
	From CardState
	To   CardState
}

// EventSink receives deck transitions, e.g. to forward them to an ECS world.
type EventSink interface {
	EmitDeckEvent(event DeckEvent)
}

// Deck tracks which names of an atlas are available, drawn or discarded.
// The three sequences always partition the atlas's dealable names.
type Deck struct {
	Name string

	// DrawPosition and DiscardPosition are where callers place cards when
	// animating a physical draw or discard.
	DrawPosition    mgl64.Vec3
	DiscardPosition mgl64.Vec3

	// CardOptions are applied to every card created by Draw.
	CardOptions CardOptions

	atlas    *Atlas
	animator *Animator
	rng      RandSource
	sink     EventSink

	available []string
	drawn     []string
	discarded []string
}

// DeckConfig configures NewDeck.
type DeckConfig struct {
	Name        string
	Animator    *Animator    // animator for drawn cards; may be nil
	Rand        RandSource   // nil uses an unseeded math/rand/v2 source
	Sink        EventSink    // optional
	CardOptions *CardOptions // nil uses DefaultCardOptions
}

// NewDeck creates a deck with every dealable atlas name available, in
// lookup order.
func NewDeck(atlas *Atlas, cfg DeckConfig) *Deck {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	opts := DefaultCardOptions()
	if cfg.CardOptions != nil {
		opts = *cfg.CardOptions
	}
	return &Deck{
		Name:        cfg.Name,
		CardOptions: opts,
		atlas:       atlas,
		animator:    cfg.Animator,
		rng:         rng,
		sink:        cfg.Sink,
		available:   atlas.Dealable(),
	}
}

// Atlas returns the deck's atlas.
func (d *Deck) Atlas() *Atlas { return d.atlas }

// SetEventSink replaces the transition listener.
func (d *Deck) SetEventSink(sink EventSink) { d.sink = sink }

// Available returns a copy of the available names.
func (d *Deck) Available() []string { return slices.Clone(d.available) }

// Drawn returns a copy of the drawn names in draw order.
func (d *Deck) Drawn() []string { return slices.Clone(d.drawn) }

// Discarded returns a copy of the discarded names in discard order.
func (d *Deck) Discarded() []string { return slices.Clone(d.discarded) }

// Remaining returns the number of available cards.
func (d *Deck) Remaining() int { return len(d.available) }

// Draw removes a uniformly random available name, marks it drawn and
// returns a new card for it.
func (d *Deck) Draw() (*Card, error) {
	if len(d.available) == 0 {
		return nil, ErrEmptyDeck
	}
	i := d.rng.IntN(len(d.available))
	name := d.available[i]

	card, err := NewCard(d.atlas, name, d.animator, d.CardOptions)
	if err != nil {
		return nil, err
	}
	d.available = slices.Delete(d.available, i, i+1)
	d.drawn = append(d.drawn, name)
	d.emit(DeckEvent{Deck: d.Name, Name: name, Card: card, From: StateAvailable, To: StateDrawn})
	return card, nil
}

// Discard moves the card's name to the discard pile. Discarding twice, or
// discarding a card that cannot be discarded, does nothing.
func (d *Deck) Discard(card *Card) error {
	if !card.canBeDiscarded {
		return nil
	}
	return d.discard(card.Name, card)
}

// DiscardName discards by name, skipping the card's capability check.
func (d *Deck) DiscardName(name string) error {
	return d.discard(name, nil)
}

func (d *Deck) discard(name string, card *Card) error {
	state, err := d.CardState(name)
	if err != nil {
		return err
	}
	switch state {
	case StateDiscarded:
		return nil
	case StateAvailable:
		d.available = removeName(d.available, name)
	case StateDrawn:
		d.drawn = removeName(d.drawn, name)
	}
	d.discarded = append(d.discarded, name)
	d.emit(DeckEvent{Deck: d.Name, Name: name, Card: card, From: state, To: StateDiscarded})
	return nil
}

// CardState reports where name currently sits. Names outside the dealable
// set (unknown or excluded) return ErrNotFound.
func (d *Deck) CardState(name string) (CardState, error) {
	switch {
	case slices.Contains(d.available, name):
		return StateAvailable, nil
	case slices.Contains(d.drawn, name):
		return StateDrawn, nil
	case slices.Contains(d.discarded, name):
		return StateDiscarded, nil
	}
	return 0, notFound(name)
}

// Reset returns every dealable name to the available pile in lookup order.
// Cards already created are not touched.
func (d *Deck) Reset() {
	d.available = d.atlas.Dealable()
	d.drawn = d.drawn[:0]
	d.discarded = d.discarded[:0]
	logger().Debug("deck reset", "deck", d.Name, "available", len(d.available))
}

func (d *Deck) emit(ev DeckEvent) {
	logger().Debug("deck transition", "deck", ev.Deck, "card", ev.Name,
		"from", ev.From.String(), "to", ev.To.String())
	if d.sink != nil {
		d.sink.EmitDeckEvent(ev)
	}
}

func removeName(names []string, name string) []string {
	if i := slices.Index(names, name); i >= 0 {
		return slices.Delete(names, i, i+1)
	}
	return names
}
