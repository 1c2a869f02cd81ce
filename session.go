package main

import (
	"fmt"
	"log"

	"github.com/milk9111/mazechase/ecs"
	"github.com/milk9111/mazechase/ecs/component"
	"github.com/milk9111/mazechase/ecs/system"
	"github.com/milk9111/mazechase/maze"
	"github.com/milk9111/mazechase/prefabs"
	"github.com/milk9111/mazechase/pursuit"
)

const (
	agentRadiusFactor = 0.25
	agentMass         = 1.0
)

// Session owns everything one level run needs: the generated grid, the
// ECS world with its physics space, and the system schedule.
type Session struct {
	Spec      *prefabs.LevelSpec
	Seed      uint64
	Grid      *maze.Grid
	Mapping   maze.Mapping
	World     *ecs.World
	Physics   *ecs.PhysicsWorld
	Scheduler *ecs.Scheduler

	Player      ecs.Entity
	Pursuers    []ecs.Entity
	Keys        []maze.Cell
	Decorations []maze.Cell

	cues    *system.CueSystem
	debug   bool
	caught  bool
	escaped bool
}

// NewSession generates the maze for spec and spawns the player, pursuers,
// key tokens and decorations.
func NewSession(spec *prefabs.LevelSpec, seed uint64, debug bool) (*Session, error) {
	if spec == nil {
		return nil, fmt.Errorf("session: nil level spec")
	}

	grid, err := maze.NewSeededGenerator(seed).Generate(spec.Rows, spec.Cols)
	if err != nil {
		return nil, fmt.Errorf("session: generate %s: %w", spec.Name, err)
	}
	mapping := maze.NewMapping(grid, spec.CellSize)

	w := ecs.NewWorld()
	pw := ecs.NewPhysicsWorld(grid, mapping)
	w.SetPhysicsWorld(pw)

	pursuitSystem := system.NewPursuitSystem()
	physicsSystem := system.NewPhysicsSystem()
	if debug {
		pursuitSystem.Logf = log.Printf
		physicsSystem.Debug = true
	}
	cues := system.NewCueSystem()

	s := &Session{
		Spec:    spec,
		Seed:    seed,
		Grid:    grid,
		Mapping: mapping,
		World:   w,
		Physics: pw,
		Scheduler: ecs.NewScheduler(
			pursuitSystem,
			cues,
			system.NewSteeringSystem(),
			physicsSystem,
		),
		cues:  cues,
		debug: debug,
	}

	if err := ecs.Add(w, ecs.CreateEntity(w), component.MazeGridComponent.Kind(), &component.MazeGrid{Grid: grid, Mapping: mapping}); err != nil {
		return nil, fmt.Errorf("session: add grid: %w", err)
	}

	if s.Player, err = s.spawnPlayer(); err != nil {
		return nil, err
	}
	for i, ps := range spec.Pursuers {
		e, err := s.spawnPursuer(ps)
		if err != nil {
			return nil, fmt.Errorf("session: pursuer %d: %w", i, err)
		}
		s.Pursuers = append(s.Pursuers, e)
	}

	s.Keys = maze.KeyCells(grid, spec.Keys)
	if len(s.Keys) < spec.Keys {
		log.Printf("Session: level %s wants %d keys, maze has %d dead ends", spec.Name, spec.Keys, len(s.Keys))
	}
	for _, c := range s.Keys {
		if err := s.spawnMarker(c, component.KindToken); err != nil {
			return nil, err
		}
	}
	if spec.Decorations.Every > 0 {
		s.Decorations = maze.DecorationCells(grid, spec.Decorations.Every)
		for _, c := range s.Decorations {
			if err := s.spawnMarker(c, component.KindDecoration); err != nil {
				return nil, err
			}
		}
	}

	if debug {
		log.Printf("Session: level %s seed %d: %dx%d, %d walls, %d pursuers, %d keys, %d decorations",
			spec.Name, seed, grid.Rows(), grid.Cols(), pw.WallShapes(), len(s.Pursuers), len(s.Keys), len(s.Decorations))
	}
	return s, nil
}

func (s *Session) newController() *pursuit.Controller {
	return pursuit.NewController(s.Mapping,
		pursuit.WithHeight(s.Spec.TraversalHeight),
		pursuit.WithMaxNodes(s.Spec.MaxPlanNodes),
	)
}

// spawnAgent creates an entity with a body at cell. Pursuit stays gated
// until the body exists.
func (s *Session) spawnAgent(cell maze.Cell, kind component.Kind, p *component.Pursuit, speed float64) (ecs.Entity, error) {
	w := s.World
	e := ecs.CreateEntity(w)
	x, z := s.Mapping.CellToWorld(cell)

	if err := ecs.Add(w, e, component.EntityKindComponent.Kind(), &component.EntityKind{Kind: kind}); err != nil {
		return e, err
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: s.Spec.TraversalHeight, Z: z}); err != nil {
		return e, err
	}
	if err := ecs.Add(w, e, component.PursuitComponent.Kind(), p); err != nil {
		return e, err
	}
	if err := ecs.Add(w, e, component.SteeringComponent.Kind(), &component.Steering{Speed: speed, ArrivalRadius: s.Spec.ArrivalRadius}); err != nil {
		return e, err
	}

	body := s.Physics.AddAgent(e, kind, x, z, s.Spec.CellSize*agentRadiusFactor, agentMass)
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body); err != nil {
		return e, err
	}
	p.Ready = true
	return e, nil
}

func (s *Session) spawnPlayer() (ecs.Entity, error) {
	p := &component.Pursuit{
		Controller:   s.newController(),
		RepathFrames: s.Spec.ReplanEvery,
		Goal:         s.Grid.Exit(),
	}
	e, err := s.spawnAgent(s.Grid.Entrance(), component.KindPlayer, p, s.Spec.Player.Speed)
	if err != nil {
		return e, fmt.Errorf("session: player: %w", err)
	}
	if err := ecs.Add(s.World, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return e, fmt.Errorf("session: player: %w", err)
	}
	return e, nil
}

func (s *Session) spawnPursuer(ps prefabs.PursuerSpec) (ecs.Entity, error) {
	cell := nearestPassable(s.Grid, maze.Cell{Row: ps.SpawnRow, Col: ps.SpawnCol})
	p := &component.Pursuit{
		Controller:   s.newController(),
		RepathFrames: ps.ReplanEvery,
		ChasePlayer:  true,
	}
	e, err := s.spawnAgent(cell, component.KindPursuer, p, ps.Speed)
	if err != nil {
		return e, err
	}
	if err := ecs.Add(s.World, e, component.ProximityCueComponent.Kind(), &component.ProximityCue{Current: pursuit.CueNone, Script: ps.Script}); err != nil {
		return e, err
	}
	return e, nil
}

func (s *Session) spawnMarker(c maze.Cell, kind component.Kind) error {
	e := ecs.CreateEntity(s.World)
	x, z := s.Mapping.CellToWorld(c)
	if err := ecs.Add(s.World, e, component.EntityKindComponent.Kind(), &component.EntityKind{Kind: kind}); err != nil {
		return fmt.Errorf("session: %s at %s: %w", kind, c, err)
	}
	if err := ecs.Add(s.World, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: s.Spec.TraversalHeight, Z: z}); err != nil {
		return fmt.Errorf("session: %s at %s: %w", kind, c, err)
	}
	return nil
}

// nearestPassable returns c when it is open, otherwise the closest open
// cell by Manhattan distance, first in row-major order on ties.
func nearestPassable(g *maze.Grid, c maze.Cell) maze.Cell {
	if g.At(c).Passable() {
		return c
	}
	best, bestDist := g.Entrance(), -1
	for r := 0; r < g.Rows(); r++ {
		for col := 0; col < g.Cols(); col++ {
			cand := maze.Cell{Row: r, Col: col}
			if !g.At(cand).Passable() {
				continue
			}
			if d := cand.Manhattan(c); bestDist < 0 || d < bestDist {
				best, bestDist = cand, d
			}
		}
	}
	return best
}

// Step runs one simulation tick and folds the tick's events into the
// session outcome.
func (s *Session) Step() {
	if s.Done() {
		return
	}
	s.Scheduler.Update(s.World)

	for _, ev := range s.World.Events().Drain() {
		switch ev.Type {
		case ecs.EventCaught:
			if c, ok := ev.Data.(ecs.CaughtEvent); ok && c.Player == s.Player {
				s.caught = true
				log.Printf("Session: pursuer %s caught the player at tick %d", c.Pursuer, s.Ticks())
			}
		case ecs.EventArrived:
			if e, ok := ev.Data.(ecs.Entity); ok && e == s.Player && s.PlayerCell() == s.Grid.Exit() {
				s.escaped = true
				log.Printf("Session: player reached the exit at tick %d", s.Ticks())
			}
		case ecs.EventReplan:
			if r, ok := ev.Data.(ecs.ReplanEvent); ok && s.debug {
				log.Printf("Session: %s replanned, %d waypoints, path %d", r.Entity, r.Waypoints, r.PathLen)
			}
		}
	}
}

func (s *Session) Ticks() int {
	return s.Scheduler.Ticks()
}

func (s *Session) Caught() bool {
	return s.caught
}

func (s *Session) Escaped() bool {
	return s.escaped
}

func (s *Session) Done() bool {
	return s.caught || s.escaped
}

// PlayerCell is the cell under the player, or the entrance before the
// player has a position.
func (s *Session) PlayerCell() maze.Cell {
	if !s.Player.Valid() {
		return s.Grid.Entrance()
	}
	t, ok := ecs.Get(s.World, s.Player, component.TransformComponent.Kind())
	if !ok {
		return s.Grid.Entrance()
	}
	c, ok := s.Mapping.WorldToCell(t.X, t.Z)
	if !ok {
		return s.Grid.Entrance()
	}
	return c
}

// ReloadScripts makes every pursuer recompile its cue script on the next
// replan.
func (s *Session) ReloadScripts() {
	s.cues.Invalidate()
}
