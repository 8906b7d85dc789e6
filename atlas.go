package cardtable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
)

// BackName is the lookup entry holding the card-back artwork.
const BackName = "BACK"

// AtlasSpec describes how card artwork is packed into a sprite sheet.
// The order of Lookup is a contract with the image: entry i lives in grid
// cell i, counted row-major from the top-left.
type AtlasSpec struct {
	CardWidth  int      `json:"cardWidth"`
	CardHeight int      `json:"cardHeight"`
	HGap       int      `json:"hGap,omitempty"`
	VGap       int      `json:"vGap,omitempty"`
	TextureURL string   `json:"textureUrl,omitempty"`
	Lookup     []string `json:"lookup"`
	Excluded   []string `json:"excluded,omitempty"`
}

// ParseAtlasSpec decodes a JSON atlas descriptor and validates it.
func ParseAtlasSpec(jsonData []byte) (AtlasSpec, error) {
	var spec AtlasSpec
	if err := json.Unmarshal(jsonData, &spec); err != nil {
		return AtlasSpec{}, fmt.Errorf("cardtable: failed to parse atlas spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return AtlasSpec{}, err
	}
	return spec, nil
}

// Validate checks the descriptor for internal consistency.
func (s AtlasSpec) Validate() error {
	if s.CardWidth <= 0 || s.CardHeight <= 0 {
		return fmt.Errorf("%w: card size %dx%d must be positive", ErrInvalidAtlasSpec, s.CardWidth, s.CardHeight)
	}
	if s.HGap < 0 || s.VGap < 0 {
		return fmt.Errorf("%w: gaps (%d, %d) must not be negative", ErrInvalidAtlasSpec, s.HGap, s.VGap)
	}
	if len(s.Lookup) == 0 {
		return fmt.Errorf("%w: lookup is empty", ErrInvalidAtlasSpec)
	}
	seen := make(map[string]struct{}, len(s.Lookup))
	for _, name := range s.Lookup {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate lookup name %q", ErrInvalidAtlasSpec, name)
		}
		seen[name] = struct{}{}
	}
	for _, name := range s.Excluded {
		if _, ok := seen[name]; !ok {
			return fmt.Errorf("%w: excluded name %q is not in lookup", ErrInvalidAtlasSpec, name)
		}
	}
	return nil
}

// UVRegion is a normalized texture rectangle. V grows upward: V0 is the
// bottom edge of the cell and V1 the top edge.
type UVRegion struct {
	U0, U1 float64
	V0, V1 float64
}

// PixelRect converts the region back to a pixel rectangle (origin top-left)
// on a sheet of the given size.
func (r UVRegion) PixelRect(sheetW, sheetH int) image.Rectangle {
	w, h := float64(sheetW), float64(sheetH)
	return image.Rect(
		int(math.Round(r.U0*w)),
		int(math.Round((1-r.V1)*h)),
		int(math.Round(r.U1*w)),
		int(math.Round((1-r.V0)*h)),
	)
}

// sheet is the loaded state of an atlas. It is swapped in whole so a loader
// goroutine can publish it to the render loop.
type sheet struct {
	img    image.Image
	width  int
	height int
	ebi    *ebiten.Image // created on first draw
}

// Atlas maps card names to regions of a grid sprite sheet. Geometry queries
// fail with ErrNotLoaded until a sheet has been loaded.
type Atlas struct {
	spec      AtlasSpec
	index     map[string]int
	excluded  map[string]struct{}
	backIndex int
	sheet     atomic.Pointer[sheet]
}

// NewAtlas validates spec and returns an atlas awaiting its sheet image.
func NewAtlas(spec AtlasSpec) (*Atlas, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	a := &Atlas{
		spec:      spec,
		index:     make(map[string]int, len(spec.Lookup)),
		excluded:  make(map[string]struct{}, len(spec.Excluded)),
		backIndex: -1,
	}
	for i, name := range spec.Lookup {
		a.index[name] = i
	}
	for _, name := range spec.Excluded {
		a.excluded[name] = struct{}{}
	}
	if i, ok := a.index[BackName]; ok {
		a.backIndex = i
	}
	return a, nil
}

// Spec returns the descriptor the atlas was built from.
func (a *Atlas) Spec() AtlasSpec {
	return a.spec
}

// Index returns the lookup position of name.
func (a *Atlas) Index(name string) (int, error) {
	i, ok := a.index[name]
	if !ok {
		return -1, notFound(name)
	}
	return i, nil
}

// Names returns a copy of the lookup order.
func (a *Atlas) Names() []string {
	return append([]string(nil), a.spec.Lookup...)
}

// IsExcluded reports whether name is in the excluded set.
func (a *Atlas) IsExcluded(name string) bool {
	_, ok := a.excluded[name]
	return ok
}

// Dealable returns the lookup names minus the excluded ones, in lookup order.
func (a *Atlas) Dealable() []string {
	out := make([]string, 0, len(a.spec.Lookup)-len(a.excluded))
	for _, name := range a.spec.Lookup {
		if !a.IsExcluded(name) {
			out = append(out, name)
		}
	}
	return out
}

// Loaded reports whether the sheet image is available.
func (a *Atlas) Loaded() bool {
	return a.sheet.Load() != nil
}

// SheetSize returns the sheet dimensions in pixels.
func (a *Atlas) SheetSize() (width, height int, err error) {
	sh := a.sheet.Load()
	if sh == nil {
		return 0, 0, ErrNotLoaded
	}
	return sh.width, sh.height, nil
}

// SetSheet installs an already-decoded sheet image.
func (a *Atlas) SetSheet(img image.Image) error {
	b := img.Bounds()
	if b.Dx() < a.spec.CardWidth || b.Dy() < a.spec.CardHeight {
		return &AtlasLoadError{
			Source: "image",
			Err:    fmt.Errorf("sheet %dx%d is smaller than one %dx%d card", b.Dx(), b.Dy(), a.spec.CardWidth, a.spec.CardHeight),
		}
	}
	a.sheet.Store(&sheet{img: img, width: b.Dx(), height: b.Dy()})
	return nil
}

// Load opens and decodes the sheet from src, blocking until done.
// Failures are returned as *AtlasLoadError and leave the atlas unloaded.
func (a *Atlas) Load(ctx context.Context, src ImageSource) error {
	img, err := src.Open(ctx)
	if err != nil {
		logger().Warn("atlas load failed", "source", src.String(), "error", err)
		return &AtlasLoadError{Source: src.String(), Err: err}
	}
	if err := a.SetSheet(img); err != nil {
		var le *AtlasLoadError
		if errors.As(err, &le) {
			le.Source = src.String()
		}
		logger().Warn("atlas load failed", "source", src.String(), "error", err)
		return err
	}
	logger().Debug("atlas loaded", "source", src.String(), "cards", len(a.spec.Lookup))
	return nil
}

// LoadAsync runs Load on a new goroutine. The returned channel receives
// exactly one value (nil on success) and is then closed.
func (a *Atlas) LoadAsync(ctx context.Context, src ImageSource) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- a.Load(ctx, src)
	}()
	return done
}

// Image returns the sheet as an ebiten image, creating it on first use.
// Must be called from the game loop.
func (a *Atlas) Image() (*ebiten.Image, error) {
	sh := a.sheet.Load()
	if sh == nil {
		return nil, ErrNotLoaded
	}
	if sh.ebi == nil {
		if e, ok := sh.img.(*ebiten.Image); ok {
			sh.ebi = e
		} else {
			sh.ebi = ebiten.NewImageFromImage(sh.img)
		}
	}
	return sh.ebi, nil
}

// Locate returns the UV region of the named card's artwork.
func (a *Atlas) Locate(name string) (UVRegion, error) {
	sh := a.sheet.Load()
	if sh == nil {
		return UVRegion{}, ErrNotLoaded
	}
	i, ok := a.index[name]
	if !ok {
		return UVRegion{}, notFound(name)
	}
	return a.regionAt(sh, i), nil
}

// CardBack returns the region of the card-back artwork.
func (a *Atlas) CardBack() (UVRegion, error) {
	sh := a.sheet.Load()
	if sh == nil {
		return UVRegion{}, ErrNotLoaded
	}
	if a.backIndex < 0 {
		return UVRegion{}, notFound(BackName)
	}
	return a.regionAt(sh, a.backIndex), nil
}

// regionAt maps a lookup index to its UV cell. Pixel row 0 is the top of
// the image while v=0 is the bottom, hence the 1-y terms.
func (a *Atlas) regionAt(sh *sheet, i int) UVRegion {
	cw, ch := a.spec.CardWidth, a.spec.CardHeight
	perRow := sh.width / cw
	col := i % perRow
	row := i / perRow

	x := float64(col * (cw + a.spec.HGap))
	y := float64(row * (ch + a.spec.VGap))
	sw, shh := float64(sh.width), float64(sh.height)

	return UVRegion{
		U0: clamp01(x / sw),
		U1: clamp01((x + float64(cw)) / sw),
		V0: clamp01(1 - (y+float64(ch))/shh),
		V1: clamp01(1 - y/shh),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
