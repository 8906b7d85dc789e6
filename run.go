package cardtable

import "github.com/hajimehoshi/ebiten/v2"

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	// Resizable lets the user resize the window; the camera viewport
	// follows the window size.
	Resizable bool
}

// game adapts a Table to ebiten.Game.
type game struct {
	table *Table
	cfg   RunConfig
	fps   *fpsOverlay
}

func (g *game) Update() error {
	if g.fps != nil {
		g.fps.update(1.0 / float64(ebiten.TPS()))
	}
	return g.table.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.table.Draw(screen)
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

func (g *game) Layout(w, h int) (int, int) {
	if !g.cfg.Resizable {
		return g.cfg.Width, g.cfg.Height
	}
	cam := g.table.camera
	if cam.Viewport.Width != float64(w) || cam.Viewport.Height != float64(h) {
		cam.Viewport = Rect{Width: float64(w), Height: float64(h)}
		cam.MarkDirty()
	}
	return w, h
}

// Run opens a window and drives table until the window closes or an
// update callback returns an error.
func Run(table *Table, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1024
	}
	if cfg.Height <= 0 {
		cfg.Height = 768
	}
	g := &game{table: table, cfg: cfg}
	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	logger().Info("starting table", "title", cfg.Title, "width", cfg.Width, "height", cfg.Height)
	return ebiten.RunGame(g)
}
