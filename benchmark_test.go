package cardtable

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// setupBenchTable creates a Table with n cards spread over a grid, all
// sharing one 52-cell atlas.
func setupBenchTable(b *testing.B, n int) *Table {
	b.Helper()
	names := make([]string, 52)
	for i := range names {
		names[i] = fmt.Sprintf("c%02d", i)
	}
	atlas, err := NewAtlas(AtlasSpec{CardWidth: 32, CardHeight: 44, Lookup: names})
	if err != nil {
		b.Fatal(err)
	}
	if err := atlas.SetSheet(blankSheet(32*13, 44*4)); err != nil {
		b.Fatal(err)
	}

	tbl := NewTable(Rect{Width: 1280, Height: 720})
	for i := 0; i < n; i++ {
		c, err := NewCard(atlas, names[i%len(names)], nil, DefaultCardOptions())
		if err != nil {
			b.Fatal(err)
		}
		c.Position = mgl64.Vec3{float64(i%40)*0.2 - 4, float64(i/40)*0.2 - 2, float64(i%7) * 0.01}
		tbl.Add(c)
	}
	return tbl
}

// --- Rendering ---

func BenchmarkDraw_1000Cards_Static(b *testing.B) {
	tbl := setupBenchTable(b, 1000)
	screen := ebiten.NewImage(1280, 720)
	tbl.Draw(screen) // warmup

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		tbl.Draw(screen)
	}
}

func BenchmarkCollectSort_1000Cards(b *testing.B) {
	tbl := setupBenchTable(b, 1000)
	tbl.collect()
	tbl.mergeSort()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		tbl.collect()
		tbl.mergeSort()
	}
}

func BenchmarkBuildCardMesh(b *testing.B) {
	tbl := setupBenchTable(b, 1)
	c := tbl.Cards()[0]
	c.Orientation = mgl64.QuatRotate(0.3, axisUp)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = BuildCardMesh(c, tbl.camera, 416, 176)
	}
}

// --- Animation ---

func BenchmarkAnimatorUpdate_1000Flips(b *testing.B) {
	tbl := setupBenchTable(b, 1000)
	cards := tbl.Cards()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if tbl.animator.Idle() {
			b.StopTimer()
			for _, c := range cards {
				_ = c.Flip()
			}
			b.StartTimer()
		}
		tbl.animator.Update(1.0 / 60)
	}
}

// --- Atlas ---

func BenchmarkLocate(b *testing.B) {
	tbl := setupBenchTable(b, 1)
	atlas := tbl.Cards()[0].Atlas()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = atlas.Locate("c37")
	}
}
