// Package cardtable renders an interactive virtual card table on
// [Ebitengine]: textured card quads in 3D drawn from a sprite atlas,
// animated by tweened transforms, and tracked through a per-deck lifecycle.
//
// # Quick start
//
//	spec, _ := cardtable.ParseAtlasSpec(descriptorJSON)
//	atlas, _ := cardtable.NewAtlas(spec)
//	if err := atlas.Load(ctx, cardtable.FileSource(os.DirFS("assets"), spec.TextureURL)); err != nil {
//		log.Fatal(err)
//	}
//
//	table := cardtable.NewTable(cardtable.Rect{Width: 1024, Height: 768})
//	deck := table.NewDeck(atlas, cardtable.DeckConfig{Name: "main"})
//	card, _ := table.DrawCard(deck)
//	card.Flip()
//
//	cardtable.Run(table, cardtable.RunConfig{Title: "Table", Width: 1024, Height: 768})
//
// # Atlas
//
// An [AtlasSpec] lists card names in the row-major order of a grid sprite
// sheet. [Atlas.Locate] maps a name to a [UVRegion]; the sheet size is only
// known once the image is loaded, so lookups before [Atlas.Load] (or
// [Atlas.LoadAsync]) fail with [ErrNotLoaded].
//
// # Animation
//
// [Card.Flip], [Card.Rotate] and [Card.Move] submit an [Animation] to the
// card's [Animator], which [Table.Update] advances once per tick. Progress
// is a [gween] tween eased by [Smoothstep]. A card runs one animation at a
// time; submitting another while it is busy returns [ErrCardBusy].
//
// # Decks
//
// A [Deck] partitions an atlas's dealable names into available, drawn and
// discarded piles. [Deck.Draw] samples without replacement from the
// available pile using an injectable [RandSource]; [Deck.Discard] is
// idempotent. Transitions can be observed through an [EventSink]; the
// cardtable/ecs module forwards them into a Donburi world, and the
// deckstore package persists [DeckSnapshot] values in SQLite.
//
// # Input and scripting
//
// [Table.CardAt] hit-tests the projected card quads and [Table.OnClick]
// reports clicks with the card under the pointer. A [TestRunner] plays a
// JSON script of deck and card actions one step per frame, which makes
// whole sessions reproducible in tests; [Table.Screenshot] captures frames
// along the way.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package cardtable
