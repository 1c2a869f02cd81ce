package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/mazechase/ecs"
	"github.com/milk9111/mazechase/ecs/component"
	"github.com/milk9111/mazechase/maze"
	"github.com/milk9111/mazechase/prefabs"
	"github.com/milk9111/mazechase/pursuit"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	hudHeight  = 40
)

// Game is the flat-colour debug view of a running session.
type Game struct {
	levelName string
	seed      uint64
	debug     bool

	session *Session
	watcher *prefabs.Watcher
	paused  bool
}

func NewGame(levelName string, seed uint64, debug bool) (*Game, error) {
	g := &Game{levelName: levelName, seed: seed, debug: debug}
	if err := g.load(); err != nil {
		return nil, err
	}

	w, err := prefabs.NewWatcher(filepath.Join("prefabs", "levels"), filepath.Join("prefabs", "scripts"))
	if err != nil {
		log.Printf("Game: hot reload disabled: %v", err)
	} else {
		g.watcher = w
	}
	return g, nil
}

func (g *Game) load() error {
	spec, err := prefabs.LoadLevelSpec(g.levelName)
	if err != nil {
		return err
	}
	s, err := NewSession(spec, resolveSeed(g.seed, spec.Seed), g.debug)
	if err != nil {
		return err
	}
	g.session = s
	return nil
}

func (g *Game) Update() error {
	g.pollWatcher()

	if ebiten.IsKeyPressed(ebiten.KeyR) && g.session.Done() {
		if err := g.load(); err != nil {
			log.Printf("Game: restart: %v", err)
		}
	}
	if g.session.Done() {
		return nil
	}
	g.session.Step()
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			switch {
			case prefabs.IsScriptFile(name):
				log.Printf("Game: script %s changed", filepath.Base(name))
				g.session.ReloadScripts()
			case prefabs.IsLevelFile(name) && filepath.Base(name) == levelFileName(g.levelName):
				log.Printf("Game: level %s changed, reloading", filepath.Base(name))
				if err := g.load(); err != nil {
					log.Printf("Game: reload %s: %v", g.levelName, err)
				}
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("Game: watcher: %v", err)
			}
			return
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	s := g.session
	scale, offX, offY := g.viewport(s.Grid)
	toScreen := func(x, z float64) (float32, float32) {
		col := x/s.Mapping.CellSize + float64(s.Mapping.Cols/2)
		row := z/s.Mapping.CellSize + float64(s.Mapping.Rows/2)
		return float32(offX + (col+0.5)*scale), float32(offY + (row+0.5)*scale)
	}

	for r := 0; r < s.Grid.Rows(); r++ {
		for c := 0; c < s.Grid.Cols(); c++ {
			clr := color.Color(colornames.Darkslategray)
			cell := maze.Cell{Row: r, Col: c}
			switch {
			case s.Grid.At(cell) == maze.Wall:
				clr = colornames.Saddlebrown
			case cell == s.Grid.Exit():
				clr = colornames.Seagreen
			case cell == s.Grid.Entrance():
				clr = colornames.Steelblue
			}
			vector.DrawFilledRect(screen, float32(offX+float64(c)*scale), float32(offY+float64(r)*scale), float32(scale), float32(scale), clr, false)
		}
	}

	ecs.ForEach2(s.World, component.EntityKindComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, k *component.EntityKind, t *component.Transform) {
		x, y := toScreen(t.X, t.Z)
		switch k.Kind {
		case component.KindToken:
			vector.DrawFilledCircle(screen, x, y, float32(scale*0.2), colornames.Gold, true)
		case component.KindDecoration:
			vector.DrawFilledCircle(screen, x, y, float32(scale*0.08), colornames.Olivedrab, true)
		}
	})

	ecs.ForEach2(s.World, component.SteeringComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, st *component.Steering, t *component.Transform) {
		px, py := toScreen(t.X, t.Z)
		var clr color.Color = colornames.Lightgrey
		if cue, ok := ecs.Get(s.World, e, component.ProximityCueComponent.Kind()); ok {
			clr = cueColor(cue.Current)
		}
		for i := st.Next; i < len(st.Waypoints); i++ {
			wx, wy := toScreen(st.Waypoints[i].X, st.Waypoints[i].Z)
			vector.StrokeLine(screen, px, py, wx, wy, 2, clr, true)
			px, py = wx, wy
		}
	})

	ecs.ForEach2(s.World, component.EntityKindComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, k *component.EntityKind, pb *component.PhysicsBody) {
		if pb.Body == nil {
			return
		}
		pos := pb.Body.Position()
		x, y := toScreen(pos.X, pos.Y)
		clr := colornames.Crimson
		if k.Kind == component.KindPlayer {
			clr = colornames.Deepskyblue
		}
		r := math.Max(2, pb.Radius/s.Mapping.CellSize*scale)
		vector.DrawFilledCircle(screen, x, y, float32(r), clr, true)
	})

	status := "running"
	switch {
	case s.Caught():
		status = "caught (R to restart)"
	case s.Escaped():
		status = "escaped (R to restart)"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s seed %d  tick %d  %s    FPS: %.2f", s.Spec.Name, s.Seed, s.Ticks(), status, ebiten.ActualFPS()))
}

// viewport fits the grid below the status line, keeping cells square.
func (g *Game) viewport(grid *maze.Grid) (scale, offX, offY float64) {
	availH := float64(baseHeight - hudHeight)
	scale = math.Min(float64(baseWidth)/float64(grid.Cols()), availH/float64(grid.Rows()))
	offX = (float64(baseWidth) - scale*float64(grid.Cols())) / 2
	offY = hudHeight + (availH-scale*float64(grid.Rows()))/2
	return scale, offX, offY
}

func cueColor(c pursuit.Cue) color.Color {
	switch c {
	case pursuit.CueNear:
		return colornames.Orangered
	case pursuit.CueDistant:
		return colornames.Khaki
	default:
		return colornames.Lightgrey
	}
}

func levelFileName(name string) string {
	base := filepath.Base(name)
	if filepath.Ext(base) == "" {
		base += ".yaml"
	}
	return base
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}
