package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/mazechase/ecs"
	"github.com/milk9111/mazechase/ecs/component"
	"github.com/milk9111/mazechase/maze"
	"github.com/milk9111/mazechase/pursuit"
)

func openField(t *testing.T) (*ecs.World, *component.MazeGrid) {
	t.Helper()
	g, err := maze.Parse(
		".....",
		".....",
		".....",
		".....",
		".....",
	)
	require.NoError(t, err)

	w := ecs.NewWorld()
	mg := &component.MazeGrid{Grid: g, Mapping: maze.NewMapping(g, 5)}
	require.NoError(t, ecs.Add(w, ecs.CreateEntity(w), component.MazeGridComponent.Kind(), mg))
	return w, mg
}

func placeAt(t *testing.T, w *ecs.World, e ecs.Entity, m maze.Mapping, c maze.Cell) {
	t.Helper()
	x, z := m.CellToWorld(c)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: 1, Z: z}))
}

func TestPursuitSystemChasesPlayer(t *testing.T) {
	w, mg := openField(t)

	player := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	placeAt(t, w, player, mg.Mapping, maze.Cell{Row: 2, Col: 4})

	chaser := ecs.CreateEntity(w)
	placeAt(t, w, chaser, mg.Mapping, maze.Cell{Row: 2, Col: 0})
	require.NoError(t, ecs.Add(w, chaser, component.PursuitComponent.Kind(), &component.Pursuit{ChasePlayer: true, Ready: true, RepathFrames: 50}))
	require.NoError(t, ecs.Add(w, chaser, component.SteeringComponent.Kind(), &component.Steering{}))

	ps := NewPursuitSystem()
	ps.Update(w)

	p, _ := ecs.Get(w, chaser, component.PursuitComponent.Kind())
	st, _ := ecs.Get(w, chaser, component.SteeringComponent.Kind())
	assert.Equal(t, 1, p.Replans, "first update plans immediately")
	assert.Equal(t, 5, p.PathLen)
	require.Len(t, st.Waypoints, 4)
	px, pz := mg.Mapping.CellToWorld(maze.Cell{Row: 2, Col: 4})
	assert.Equal(t, pursuit.Waypoint{X: px, Y: pursuit.DefaultHeight, Z: pz}, st.Waypoints[3])

	events := w.Events().Drain()
	require.Len(t, events, 1)
	assert.Equal(t, ecs.EventReplan, events[0].Type)
	assert.Equal(t, ecs.ReplanEvent{Entity: chaser, Waypoints: 4, PathLen: 5}, events[0].Data)

	st.Next = 2
	for i := 0; i < 49; i++ {
		ps.Update(w)
	}
	assert.Equal(t, 1, p.Replans, "cadence holds the next plan")
	ps.Update(w)
	assert.Equal(t, 2, p.Replans)
	assert.Equal(t, 2, st.Next, "an unchanged route keeps steering progress")
}

func TestPursuitSystemKeepsClearedRouteAfterFailedPlan(t *testing.T) {
	w, mg := openField(t)

	player := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	placeAt(t, w, player, mg.Mapping, maze.Cell{Row: 2, Col: 4})

	chaser := ecs.CreateEntity(w)
	placeAt(t, w, chaser, mg.Mapping, maze.Cell{Row: 2, Col: 0})
	require.NoError(t, ecs.Add(w, chaser, component.PursuitComponent.Kind(), &component.Pursuit{ChasePlayer: true, Ready: true, RepathFrames: 50}))
	require.NoError(t, ecs.Add(w, chaser, component.SteeringComponent.Kind(), &component.Steering{}))

	ps := NewPursuitSystem()
	ps.Update(w)
	p, _ := ecs.Get(w, chaser, component.PursuitComponent.Kind())
	st, _ := ecs.Get(w, chaser, component.SteeringComponent.Kind())
	require.Len(t, st.Waypoints, 4)

	// Chaser reaches the player's cell: the route is cleared.
	ct, _ := ecs.Get(w, chaser, component.TransformComponent.Kind())
	ct.X, ct.Z = mg.Mapping.CellToWorld(maze.Cell{Row: 2, Col: 4})
	p.Cadence.Trigger()
	ps.Update(w)
	assert.Equal(t, pursuit.OutcomeArrived, p.Controller.Outcome())
	assert.Empty(t, st.Waypoints)

	// Player leaves the grid: no plan, and the old route is not replayed.
	pt, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	pt.X = 1000
	p.Cadence.Trigger()
	ps.Update(w)
	assert.Equal(t, pursuit.OutcomeKept, p.Controller.Outcome())
	assert.Empty(t, st.Waypoints)
	assert.Zero(t, st.Next)
	assert.Equal(t, 3, p.Replans)
}

func TestPursuitSystemFailedPlanKeepsSteeringProgress(t *testing.T) {
	w, mg := openField(t)

	player := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	placeAt(t, w, player, mg.Mapping, maze.Cell{Row: 2, Col: 4})

	chaser := ecs.CreateEntity(w)
	placeAt(t, w, chaser, mg.Mapping, maze.Cell{Row: 2, Col: 0})
	require.NoError(t, ecs.Add(w, chaser, component.PursuitComponent.Kind(), &component.Pursuit{ChasePlayer: true, Ready: true, RepathFrames: 50}))
	require.NoError(t, ecs.Add(w, chaser, component.SteeringComponent.Kind(), &component.Steering{}))

	ps := NewPursuitSystem()
	ps.Update(w)
	p, _ := ecs.Get(w, chaser, component.PursuitComponent.Kind())
	st, _ := ecs.Get(w, chaser, component.SteeringComponent.Kind())
	require.Len(t, st.Waypoints, 4)
	route := append([]pursuit.Waypoint(nil), st.Waypoints...)
	st.Next = 2

	pt, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	pt.X = 1000
	p.Cadence.Trigger()
	ps.Update(w)
	assert.Equal(t, route, st.Waypoints)
	assert.Equal(t, 2, st.Next)
}

func TestPursuitSystemWaitsUntilReady(t *testing.T) {
	w, mg := openField(t)

	runner := ecs.CreateEntity(w)
	placeAt(t, w, runner, mg.Mapping, maze.Cell{Row: 4, Col: 2})
	require.NoError(t, ecs.Add(w, runner, component.PursuitComponent.Kind(), &component.Pursuit{Goal: maze.Cell{Row: 0, Col: 2}}))
	require.NoError(t, ecs.Add(w, runner, component.SteeringComponent.Kind(), &component.Steering{}))

	ps := NewPursuitSystem()
	ps.Update(w)
	p, _ := ecs.Get(w, runner, component.PursuitComponent.Kind())
	assert.Zero(t, p.Replans)
	assert.Nil(t, p.Controller)

	p.Ready = true
	ps.Update(w)
	st, _ := ecs.Get(w, runner, component.SteeringComponent.Kind())
	assert.Equal(t, 1, p.Replans)
	assert.Len(t, st.Waypoints, 4)
}

func TestPursuitSystemWithoutPlayerSkipsChasers(t *testing.T) {
	w, mg := openField(t)
	chaser := ecs.CreateEntity(w)
	placeAt(t, w, chaser, mg.Mapping, maze.Cell{Row: 0, Col: 0})
	require.NoError(t, ecs.Add(w, chaser, component.PursuitComponent.Kind(), &component.Pursuit{ChasePlayer: true, Ready: true}))

	NewPursuitSystem().Update(w)
	p, _ := ecs.Get(w, chaser, component.PursuitComponent.Kind())
	assert.Zero(t, p.Replans)
	assert.Empty(t, w.Events().Pending())
}

func TestSteeringSystemFollowsWaypoints(t *testing.T) {
	w, mg := openField(t)
	pw := ecs.NewPhysicsWorld(mg.Grid, mg.Mapping)
	w.SetPhysicsWorld(pw)

	e := ecs.CreateEntity(w)
	pb := pw.AddAgent(e, component.KindPursuer, 0, 0, 1, 1)
	require.NoError(t, ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), pb))
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Y: 1}))
	st := &component.Steering{
		Waypoints: []pursuit.Waypoint{{X: 5, Y: 1}, {X: 5, Y: 1, Z: 5}},
		Speed:     4,
	}
	require.NoError(t, ecs.Add(w, e, component.SteeringComponent.Kind(), st))

	ss := NewSteeringSystem()
	ss.Update(w)
	v := pb.Body.Velocity()
	assert.InDelta(t, 4, v.X, 1e-9)
	assert.InDelta(t, 0, v.Y, 1e-9)

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	tr.X = 4.8
	ss.Update(w)
	assert.Equal(t, 1, st.Next)
	v = pb.Body.Velocity()
	assert.InDelta(t, 0.16, v.X, 0.01)
	assert.Greater(t, v.Y, 0.0)
	assert.Empty(t, w.Events().Pending())

	tr.Z = 5
	ss.Update(w)
	assert.True(t, st.Done())
	assert.Equal(t, 0.0, pb.Body.Velocity().Length())
	events := w.Events().Drain()
	require.Len(t, events, 1)
	assert.Equal(t, ecs.EventArrived, events[0].Type)
	assert.Equal(t, e, events[0].Data)
}

func TestPhysicsSystemSyncsTransformsAndCatches(t *testing.T) {
	w, mg := openField(t)
	pw := ecs.NewPhysicsWorld(mg.Grid, mg.Mapping)
	w.SetPhysicsWorld(pw)

	player := ecs.CreateEntity(w)
	ppb := pw.AddAgent(player, component.KindPlayer, 0, 0, 1, 1)
	require.NoError(t, ecs.Add(w, player, component.PhysicsBodyComponent.Kind(), ppb))
	require.NoError(t, ecs.Add(w, player, component.TransformComponent.Kind(), &component.Transform{}))

	chaser := ecs.CreateEntity(w)
	cpb := pw.AddAgent(chaser, component.KindPursuer, 6, 0, 1, 1)
	require.NoError(t, ecs.Add(w, chaser, component.PhysicsBodyComponent.Kind(), cpb))
	require.NoError(t, ecs.Add(w, chaser, component.TransformComponent.Kind(), &component.Transform{X: 6}))
	require.NoError(t, ecs.Add(w, chaser, component.PursuitComponent.Kind(), &component.Pursuit{}))
	cpb.Body.SetVelocity(-30, 0)

	phys := NewPhysicsSystem()
	phys.Update(w)
	tr, _ := ecs.Get(w, chaser, component.TransformComponent.Kind())
	assert.InDelta(t, 6-30.0/60.0, tr.X, 1e-6)

	var caught []ecs.Event
	for i := 0; i < 30 && len(caught) == 0; i++ {
		phys.Update(w)
		for _, ev := range w.Events().Drain() {
			if ev.Type == ecs.EventCaught {
				caught = append(caught, ev)
			}
		}
	}
	require.Len(t, caught, 1)
	assert.Equal(t, ecs.CaughtEvent{Pursuer: chaser, Player: player}, caught[0].Data)
	p, _ := ecs.Get(w, chaser, component.PursuitComponent.Kind())
	assert.True(t, p.Caught)
}

func newCueEntity(t *testing.T, w *ecs.World, mg *component.MazeGrid, script string) (*component.ProximityCue, *component.Pursuit) {
	t.Helper()
	ctrl := pursuit.NewController(mg.Mapping, pursuit.WithLogf(nil))
	ax, az := mg.Mapping.CellToWorld(maze.Cell{Row: 2, Col: 0})
	tx, tz := mg.Mapping.CellToWorld(maze.Cell{Row: 2, Col: 4})
	require.Len(t, ctrl.Replan(mg.Grid, pursuit.Vec2{X: ax, Z: az}, pursuit.Vec2{X: tx, Z: tz}), 4)

	e := ecs.CreateEntity(w)
	p := &component.Pursuit{Controller: ctrl, Replans: 1, PathLen: ctrl.PathLen()}
	cue := &component.ProximityCue{Script: script}
	require.NoError(t, ecs.Add(w, e, component.PursuitComponent.Kind(), p))
	require.NoError(t, ecs.Add(w, e, component.ProximityCueComponent.Kind(), cue))
	return cue, p
}

func TestCueSystemRunsScriptOncePerReplan(t *testing.T) {
	w, mg := openField(t)
	cue, p := newCueEntity(t, w, mg, "proximity.tengo")

	cs := NewCueSystem()
	cs.Update(w)
	assert.Equal(t, pursuit.CueNear, cue.Current)
	assert.Equal(t, 1, cue.Changes)

	cs.Update(w)
	assert.Equal(t, 1, cue.Changes, "no replan, no rerun")

	cases := []struct {
		pathLen int
		want    pursuit.Cue
	}{
		{30, pursuit.CueDistant},
		{25, pursuit.CueNone},
		{50, pursuit.CueNone},
		{9, pursuit.CueNear},
	}
	for _, c := range cases {
		p.Replans++
		p.PathLen = c.pathLen
		cs.Update(w)
		assert.Equal(t, c.want, cue.Current, "path length %d", c.pathLen)
	}
}

func TestCueSystemScriptCanReadCurrentCue(t *testing.T) {
	w, mg := openField(t)
	cue, p := newCueEntity(t, w, mg, "always_near.tengo")

	cs := NewCueSystem()
	cs.LoadScript = func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join("testdata", name))
	}
	cs.Update(w)
	assert.Equal(t, pursuit.CueNear, cue.Current)

	p.Replans++
	p.PathLen = 40
	cs.Update(w)
	assert.Equal(t, pursuit.CueNear, cue.Current)
	assert.Equal(t, 1, cue.Changes)
}

func TestCueSystemFallsBackToThresholds(t *testing.T) {
	w, mg := openField(t)
	missing, _ := newCueEntity(t, w, mg, "missing.tengo")
	plain, _ := newCueEntity(t, w, mg, "")

	NewCueSystem().Update(w)
	assert.Equal(t, pursuit.CueNear, missing.Current)
	assert.Equal(t, pursuit.CueNear, plain.Current)
}
