package cardtable

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// cardIndices splits a card quad (TL, TR, BR, BL) into two triangles.
var cardIndices = []uint16{0, 1, 2, 0, 2, 3}

// highlightTint brightens highlighted cards toward warm white.
var highlightTint = Color{1.15, 1.15, 0.85, 1}

// CardMesh is the screen-space geometry of one card for DrawTriangles.
type CardMesh struct {
	Vertices [4]ebiten.Vertex
	// Depth is the NDC depth of the card center; larger is farther.
	Depth float64
	// FrontVisible is true when the face (not the back) points at the eye.
	FrontVisible bool
	// Visible is false when any corner is behind the camera.
	Visible bool
}

// BuildCardMesh projects card through cam and textures it from a sheet of
// sheetW×sheetH pixels. The back is mirrored horizontally so its artwork
// reads correctly from behind.
func BuildCardMesh(card *Card, cam *Camera, sheetW, sheetH int) CardMesh {
	var m CardMesh
	hw, hh := card.Width/2, card.Height/2
	corners := [4]mgl64.Vec3{
		{-hw, hh, 0},
		{hw, hh, 0},
		{hw, -hh, 0},
		{-hw, -hh, 0},
	}

	normal := card.Orientation.Rotate(axisNormal)
	m.FrontVisible = normal.Dot(cam.Eye.Sub(card.Position)) >= 0

	var uv [4][2]float64
	if m.FrontVisible {
		r := card.Material.Front
		uv = [4][2]float64{{r.U0, r.V1}, {r.U1, r.V1}, {r.U1, r.V0}, {r.U0, r.V0}}
	} else {
		r := card.Material.Back
		uv = [4][2]float64{{r.U1, r.V1}, {r.U0, r.V1}, {r.U0, r.V0}, {r.U1, r.V0}}
	}

	tint := card.Material.Tint
	if card.Material.Highlighted {
		tint = tint.Mul(highlightTint)
	}
	cr := float32(clamp01(tint.R))
	cg := float32(clamp01(tint.G))
	cb := float32(clamp01(tint.B))
	ca := float32(clamp01(tint.A))

	_, _, depth, ok := cam.Project(card.Position)
	m.Depth = depth
	m.Visible = ok
	for i, corner := range corners {
		world := card.Position.Add(card.Orientation.Rotate(corner))
		x, y, _, inFront := cam.Project(world)
		if !inFront {
			m.Visible = false
		}
		m.Vertices[i] = ebiten.Vertex{
			DstX:   float32(x),
			DstY:   float32(y),
			SrcX:   float32(uv[i][0] * float64(sheetW)),
			SrcY:   float32((1 - uv[i][1]) * float64(sheetH)),
			ColorR: cr * ca,
			ColorG: cg * ca,
			ColorB: cb * ca,
			ColorA: ca,
		}
	}
	return m
}
