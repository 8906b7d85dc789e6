package cardtable

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a card name is not part of an atlas lookup
	// or not tracked by a deck.
	ErrNotFound = errors.New("cardtable: card not found")

	// ErrNotLoaded is returned by atlas geometry queries made before the
	// sheet image has finished loading.
	ErrNotLoaded = errors.New("cardtable: atlas sheet not loaded")

	// ErrAtlasLoad matches every *AtlasLoadError via errors.Is.
	ErrAtlasLoad = errors.New("cardtable: atlas load failed")

	// ErrEmptyDeck is returned by Deck.Draw when no cards are available.
	ErrEmptyDeck = errors.New("cardtable: deck is empty")

	// ErrCardBusy is returned when an animation is submitted for a card that
	// already has one in flight.
	ErrCardBusy = errors.New("cardtable: card is already animating")

	// ErrInvalidAtlasSpec is wrapped by AtlasSpec validation failures.
	ErrInvalidAtlasSpec = errors.New("cardtable: invalid atlas spec")

	// ErrInvalidSnapshot is wrapped by Deck.Restore when a snapshot does not
	// partition the deck's dealable names.
	ErrInvalidSnapshot = errors.New("cardtable: invalid deck snapshot")
)

// AtlasLoadError reports a failure to open or decode an atlas sheet image.
// The atlas stays unloaded; nothing is retried.
type AtlasLoadError struct {
	Source string // description of the image source
	Err    error  // underlying open/decode error
}

func (e *AtlasLoadError) Error() string {
	return fmt.Sprintf("cardtable: load atlas sheet %s: %v", e.Source, e.Err)
}

// Unwrap exposes both the cause and ErrAtlasLoad to errors.Is/As.
func (e *AtlasLoadError) Unwrap() []error {
	return []error{ErrAtlasLoad, e.Err}
}

func notFound(name string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}
