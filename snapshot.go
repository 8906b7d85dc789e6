package cardtable

import (
	"fmt"
	"slices"
)

// DeckSnapshot is the serializable pile state of a deck.
type DeckSnapshot struct {
	Deck      string   `json:"deck"`
	Available []string `json:"available"`
	Drawn     []string `json:"drawn"`
	Discarded []string `json:"discarded"`
}

// Snapshot captures the deck's current piles.
func (d *Deck) Snapshot() DeckSnapshot {
	return DeckSnapshot{
		Deck:      d.Name,
		Available: d.Available(),
		Drawn:     d.Drawn(),
		Discarded: d.Discarded(),
	}
}

// Restore replaces the deck's piles with snap. The snapshot must partition
// the atlas's dealable names exactly; otherwise the deck is left unchanged.
func (d *Deck) Restore(snap DeckSnapshot) error {
	want := d.atlas.Dealable()
	seen := make(map[string]struct{}, len(want))
	for _, pile := range [][]string{snap.Available, snap.Drawn, snap.Discarded} {
		for _, name := range pile {
			if !slices.Contains(want, name) {
				return fmt.Errorf("%w: %q is not dealable", ErrInvalidSnapshot, name)
			}
			if _, dup := seen[name]; dup {
				return fmt.Errorf("%w: %q appears twice", ErrInvalidSnapshot, name)
			}
			seen[name] = struct{}{}
		}
	}
	if len(seen) != len(want) {
		return fmt.Errorf("%w: %d of %d names present", ErrInvalidSnapshot, len(seen), len(want))
	}
	d.available = slices.Clone(snap.Available)
	d.drawn = slices.Clone(snap.Drawn)
	d.discarded = slices.Clone(snap.Discarded)
	return nil
}
