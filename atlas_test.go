package cardtable

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"math"
	"testing"
	"testing/fstest"
)

const approxEps = 1e-9

// --- Fixtures ---

const fiveCardSpecJSON = `{
  "cardWidth": 100,
  "cardHeight": 140,
  "textureUrl": "cards.png",
  "lookup": ["A", "B", "C", "D", "BACK"],
  "excluded": ["BACK"]
}`

func blankSheet(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, blankSheet(w, h)); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// newLoadedAtlas builds an atlas and installs a blank sheet of the given size.
func newLoadedAtlas(t *testing.T, spec AtlasSpec, sheetW, sheetH int) *Atlas {
	t.Helper()
	a, err := NewAtlas(spec)
	if err != nil {
		t.Fatalf("NewAtlas: %v", err)
	}
	if err := a.SetSheet(blankSheet(sheetW, sheetH)); err != nil {
		t.Fatalf("SetSheet: %v", err)
	}
	return a
}

func fiveCardAtlas(t *testing.T) *Atlas {
	t.Helper()
	spec, err := ParseAtlasSpec([]byte(fiveCardSpecJSON))
	if err != nil {
		t.Fatalf("ParseAtlasSpec: %v", err)
	}
	return newLoadedAtlas(t, spec, 400, 280)
}

func assertRegion(t *testing.T, got, want UVRegion) {
	t.Helper()
	if math.Abs(got.U0-want.U0) > approxEps || math.Abs(got.U1-want.U1) > approxEps ||
		math.Abs(got.V0-want.V0) > approxEps || math.Abs(got.V1-want.V1) > approxEps {
		t.Errorf("region = %+v, want %+v", got, want)
	}
}

// --- ParseAtlasSpec ---

func TestParseAtlasSpec_Fields(t *testing.T) {
	spec, err := ParseAtlasSpec([]byte(fiveCardSpecJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.CardWidth != 100 || spec.CardHeight != 140 {
		t.Errorf("card size = %dx%d, want 100x140", spec.CardWidth, spec.CardHeight)
	}
	if spec.HGap != 0 || spec.VGap != 0 {
		t.Errorf("gaps = (%d, %d), want defaults (0, 0)", spec.HGap, spec.VGap)
	}
	if spec.TextureURL != "cards.png" {
		t.Errorf("TextureURL = %q", spec.TextureURL)
	}
	if len(spec.Lookup) != 5 || spec.Lookup[4] != "BACK" {
		t.Errorf("Lookup = %v", spec.Lookup)
	}
}

func TestParseAtlasSpec_InvalidJSON(t *testing.T) {
	if _, err := ParseAtlasSpec([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestParseAtlasSpec_Invalid(t *testing.T) {
	cases := map[string]string{
		"zero width":      `{"cardWidth": 0, "cardHeight": 10, "lookup": ["A"]}`,
		"negative gap":    `{"cardWidth": 10, "cardHeight": 10, "hGap": -1, "lookup": ["A"]}`,
		"empty lookup":    `{"cardWidth": 10, "cardHeight": 10, "lookup": []}`,
		"duplicate name":  `{"cardWidth": 10, "cardHeight": 10, "lookup": ["A", "A"]}`,
		"unknown exclude": `{"cardWidth": 10, "cardHeight": 10, "lookup": ["A"], "excluded": ["Z"]}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAtlasSpec([]byte(data))
			if !errors.Is(err, ErrInvalidAtlasSpec) {
				t.Errorf("err = %v, want ErrInvalidAtlasSpec", err)
			}
		})
	}
}

// --- Locate ---

func TestLocate_Scenario(t *testing.T) {
	a := fiveCardAtlas(t)

	got, err := a.Locate("C")
	if err != nil {
		t.Fatalf("Locate(C): %v", err)
	}
	assertRegion(t, got, UVRegion{U0: 0.5, U1: 0.75, V0: 0.5, V1: 1.0})

	back, err := a.Locate("BACK")
	if err != nil {
		t.Fatalf("Locate(BACK): %v", err)
	}
	assertRegion(t, back, UVRegion{U0: 0, U1: 0.25, V0: 0, V1: 0.5})
}

func TestLocate_FirstCellIsTopLeft(t *testing.T) {
	a := fiveCardAtlas(t)
	got, err := a.Locate("A")
	if err != nil {
		t.Fatal(err)
	}
	assertRegion(t, got, UVRegion{U0: 0, U1: 0.25, V0: 0.5, V1: 1})
}

func TestLocate_NotFound(t *testing.T) {
	a := fiveCardAtlas(t)
	_, err := a.Locate("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLocate_NotLoaded(t *testing.T) {
	spec, _ := ParseAtlasSpec([]byte(fiveCardSpecJSON))
	a, err := NewAtlas(spec)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Locate("A"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Locate err = %v, want ErrNotLoaded", err)
	}
	if _, err := a.CardBack(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("CardBack err = %v, want ErrNotLoaded", err)
	}
	if _, _, err := a.SheetSize(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("SheetSize err = %v, want ErrNotLoaded", err)
	}
	if a.Loaded() {
		t.Error("Loaded() = true before any sheet")
	}
}

func TestLocate_WithGaps(t *testing.T) {
	spec := AtlasSpec{
		CardWidth:  10,
		CardHeight: 20,
		HGap:       2,
		VGap:       4,
		Lookup:     []string{"A", "B", "C", "D"},
	}
	// 34px wide: three 10px cells fit by floor(34/10), the gaps push the
	// third column to x=24.
	a := newLoadedAtlas(t, spec, 34, 44)

	got, err := a.Locate("C")
	if err != nil {
		t.Fatal(err)
	}
	assertRegion(t, got, UVRegion{
		U0: 24.0 / 34, U1: 34.0 / 34,
		V0: 1 - 20.0/44, V1: 1,
	})

	d, err := a.Locate("D")
	if err != nil {
		t.Fatal(err)
	}
	assertRegion(t, d, UVRegion{
		U0: 0, U1: 10.0 / 34,
		V0: 1 - 44.0/44, V1: 1 - 24.0/44,
	})
}

func TestLocate_ClampsAtSheetEdge(t *testing.T) {
	spec := AtlasSpec{CardWidth: 10, CardHeight: 10, HGap: 5, Lookup: []string{"A", "B"}}
	// floor(15/10) = 1 per row so B lands on row 1, partly below the sheet.
	a := newLoadedAtlas(t, spec, 15, 15)
	got, err := a.Locate("B")
	if err != nil {
		t.Fatal(err)
	}
	if got.V0 != 0 {
		t.Errorf("V0 = %v, want clamped 0", got.V0)
	}
	for _, v := range []float64{got.U0, got.U1, got.V0, got.V1} {
		if v < 0 || v > 1 {
			t.Errorf("component %v outside [0,1]", v)
		}
	}
}

func TestCardBack(t *testing.T) {
	a := fiveCardAtlas(t)
	back, err := a.CardBack()
	if err != nil {
		t.Fatal(err)
	}
	loc, _ := a.Locate(BackName)
	if back != loc {
		t.Errorf("CardBack = %+v, Locate(BACK) = %+v", back, loc)
	}
}

func TestCardBack_Missing(t *testing.T) {
	a := newLoadedAtlas(t, AtlasSpec{CardWidth: 10, CardHeight: 10, Lookup: []string{"A"}}, 10, 10)
	if _, err := a.CardBack(); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDealable_SkipsExcluded(t *testing.T) {
	a := fiveCardAtlas(t)
	got := a.Dealable()
	want := []string{"A", "B", "C", "D"}
	if len(got) != len(want) {
		t.Fatalf("Dealable = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Dealable[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if !a.IsExcluded("BACK") || a.IsExcluded("A") {
		t.Error("IsExcluded mismatch")
	}
}

func TestPixelRect_InvertsLocate(t *testing.T) {
	a := fiveCardAtlas(t)
	r, _ := a.Locate("BACK")
	got := r.PixelRect(400, 280)
	want := image.Rect(0, 140, 100, 280)
	if got != want {
		t.Errorf("PixelRect = %v, want %v", got, want)
	}
}

// --- Loading ---

func TestLoad_FromFS(t *testing.T) {
	spec, _ := ParseAtlasSpec([]byte(fiveCardSpecJSON))
	a, _ := NewAtlas(spec)
	fsys := fstest.MapFS{"cards.png": {Data: pngBytes(t, 400, 280)}}

	if err := a.Load(context.Background(), FileSource(fsys, spec.TextureURL)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	w, h, err := a.SheetSize()
	if err != nil || w != 400 || h != 280 {
		t.Fatalf("SheetSize = %d, %d, %v", w, h, err)
	}
	if _, err := a.Locate("C"); err != nil {
		t.Errorf("Locate after load: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	spec, _ := ParseAtlasSpec([]byte(fiveCardSpecJSON))
	a, _ := NewAtlas(spec)

	err := a.Load(context.Background(), FileSource(fstest.MapFS{}, "cards.png"))
	if !errors.Is(err, ErrAtlasLoad) {
		t.Fatalf("err = %v, want ErrAtlasLoad", err)
	}
	var le *AtlasLoadError
	if !errors.As(err, &le) || le.Source != "cards.png" {
		t.Errorf("expected *AtlasLoadError for cards.png, got %v", err)
	}
	if _, err := a.Locate("A"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Locate after failed load = %v, want ErrNotLoaded", err)
	}
}

func TestLoad_CorruptImage(t *testing.T) {
	spec, _ := ParseAtlasSpec([]byte(fiveCardSpecJSON))
	a, _ := NewAtlas(spec)
	fsys := fstest.MapFS{"cards.png": {Data: []byte("definitely not a png")}}

	if err := a.Load(context.Background(), FileSource(fsys, "cards.png")); !errors.Is(err, ErrAtlasLoad) {
		t.Fatalf("err = %v, want ErrAtlasLoad", err)
	}
	if a.Loaded() {
		t.Error("atlas loaded from corrupt data")
	}
}

func TestLoad_SheetSmallerThanCard(t *testing.T) {
	spec, _ := ParseAtlasSpec([]byte(fiveCardSpecJSON))
	a, _ := NewAtlas(spec)
	err := a.Load(context.Background(), StaticSource(blankSheet(50, 50)))
	if !errors.Is(err, ErrAtlasLoad) {
		t.Fatalf("err = %v, want ErrAtlasLoad", err)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	spec, _ := ParseAtlasSpec([]byte(fiveCardSpecJSON))
	a, _ := NewAtlas(spec)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := a.Load(ctx, FileSource(fstest.MapFS{"cards.png": {Data: pngBytes(t, 400, 280)}}, "cards.png"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if a.Loaded() {
		t.Error("atlas loaded despite canceled context")
	}
}

func TestLoadAsync(t *testing.T) {
	spec, _ := ParseAtlasSpec([]byte(fiveCardSpecJSON))
	a, _ := NewAtlas(spec)
	fsys := fstest.MapFS{"cards.png": {Data: pngBytes(t, 400, 280)}}

	done := a.LoadAsync(context.Background(), FileSource(fsys, "cards.png"))
	if err := <-done; err != nil {
		t.Fatalf("LoadAsync: %v", err)
	}
	if _, ok := <-done; ok {
		t.Error("channel should be closed after the result")
	}
	if !a.Loaded() {
		t.Error("atlas not loaded after LoadAsync")
	}
}

func TestLoadAsync_Failure(t *testing.T) {
	spec, _ := ParseAtlasSpec([]byte(fiveCardSpecJSON))
	a, _ := NewAtlas(spec)

	err := <-a.LoadAsync(context.Background(), FileSource(fstest.MapFS{}, "cards.png"))
	if !errors.Is(err, ErrAtlasLoad) {
		t.Fatalf("err = %v, want ErrAtlasLoad", err)
	}
	if _, err := a.Locate("A"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Locate = %v, want ErrNotLoaded", err)
	}
}
