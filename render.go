package cardtable

import "github.com/hajimehoshi/ebiten/v2"

// drawCommand is one card queued for drawing this frame.
type drawCommand struct {
	card  *Card
	mesh  CardMesh
	image *ebiten.Image
	order int // insertion order, for stability
}

// commandLessOrEqual returns true if a should draw before or at the same
// position as b: far cards first, then ZIndex, then insertion order.
func commandLessOrEqual(a, b drawCommand) bool {
	if a.mesh.Depth != b.mesh.Depth {
		return a.mesh.Depth > b.mesh.Depth
	}
	if a.card.ZIndex != b.card.ZIndex {
		return a.card.ZIndex < b.card.ZIndex
	}
	return a.order <= b.order
}

// collect builds a draw command for every visible card whose atlas is loaded.
func (t *Table) collect() {
	t.commands = t.commands[:0]
	for i, c := range t.cards {
		img, err := c.atlas.Image()
		if err != nil {
			continue
		}
		w, h, _ := c.atlas.SheetSize()
		mesh := BuildCardMesh(c, t.camera, w, h)
		if !mesh.Visible {
			continue
		}
		t.commands = append(t.commands, drawCommand{card: c, mesh: mesh, image: img, order: i})
	}
}

// mergeSort sorts t.commands in-place using t.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (t *Table) mergeSort() {
	n := len(t.commands)
	if n <= 1 {
		return
	}
	if cap(t.sortBuf) < n {
		t.sortBuf = make([]drawCommand, n)
	}
	t.sortBuf = t.sortBuf[:n]

	a := t.commands
	b := t.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(t.commands, t.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []drawCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}

// submit draws the sorted commands onto target.
func (t *Table) submit(target *ebiten.Image) {
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.Filter = ebiten.FilterLinear
	for i := range t.commands {
		cmd := &t.commands[i]
		target.DrawTriangles(cmd.mesh.Vertices[:], cardIndices, cmd.image, &op)
	}
}
