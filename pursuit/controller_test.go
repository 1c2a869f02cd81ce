package pursuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/mazechase/maze"
)

func quietController(m maze.Mapping, opts ...Option) *Controller {
	return NewController(m, append([]Option{WithLogf(nil)}, opts...)...)
}

func corridorGrid(t *testing.T) *maze.Grid {
	t.Helper()
	g, err := maze.Parse(
		"#####",
		"#...#",
		"#.#.#",
		"#.#.#",
		"#####",
	)
	require.NoError(t, err)
	return g
}

func worldOf(m maze.Mapping, c maze.Cell) Vec2 {
	x, z := m.CellToWorld(c)
	return Vec2{X: x, Z: z}
}

func TestReplanProducesWaypoints(t *testing.T) {
	g := corridorGrid(t)
	m := maze.NewMapping(g, 5)
	ctrl := quietController(m)

	agent := worldOf(m, maze.Cell{Row: 3, Col: 1})
	target := worldOf(m, maze.Cell{Row: 3, Col: 3})
	wps := ctrl.Replan(g, agent, target)

	want := []maze.Cell{{Row: 2, Col: 1}, {Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 1, Col: 3}, {Row: 2, Col: 3}, {Row: 3, Col: 3}}
	require.Len(t, wps, len(want))
	for i, c := range want {
		x, z := m.CellToWorld(c)
		assert.Equal(t, Waypoint{X: x, Y: DefaultHeight, Z: z}, wps[i])
	}
	assert.Equal(t, 7, ctrl.PathLen())
	assert.Equal(t, CueNear, ctrl.Cue())
}

func TestReplanDoesNotMutateGrid(t *testing.T) {
	g := corridorGrid(t)
	before := g.String()
	m := maze.NewMapping(g, 5)

	quietController(m).Replan(g, worldOf(m, maze.Cell{Row: 3, Col: 1}), worldOf(m, maze.Cell{Row: 3, Col: 3}))
	assert.Equal(t, before, g.String())
}

func TestReplanIdempotentWithoutMovement(t *testing.T) {
	g := corridorGrid(t)
	m := maze.NewMapping(g, 5)
	ctrl := quietController(m)
	agent := worldOf(m, maze.Cell{Row: 3, Col: 1})
	target := worldOf(m, maze.Cell{Row: 1, Col: 3})

	first := ctrl.Replan(g, agent, target)
	second := ctrl.Replan(g, agent, target)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestReplanKeepsRouteWhenTargetSealed(t *testing.T) {
	g := corridorGrid(t)
	m := maze.NewMapping(g, 5)
	ctrl := quietController(m)
	agent := worldOf(m, maze.Cell{Row: 3, Col: 1})
	target := worldOf(m, maze.Cell{Row: 3, Col: 3})

	first := ctrl.Replan(g, agent, target)
	require.NotEmpty(t, first)
	assert.Equal(t, OutcomeReplaced, ctrl.Outcome())

	sealed := g.Clone()
	require.NoError(t, sealed.Set(maze.Cell{Row: 2, Col: 3}, maze.Wall))
	second := ctrl.Replan(sealed, agent, target)
	assert.Equal(t, first, second)
	assert.Equal(t, first, ctrl.Waypoints())
	assert.Equal(t, OutcomeKept, ctrl.Outcome())
}

func TestReplanSameCell(t *testing.T) {
	g := corridorGrid(t)
	m := maze.NewMapping(g, 5)
	ctrl := quietController(m)

	prev := ctrl.Replan(g, worldOf(m, maze.Cell{Row: 3, Col: 1}), worldOf(m, maze.Cell{Row: 1, Col: 1}))
	require.Len(t, prev, 2)

	here := worldOf(m, maze.Cell{Row: 1, Col: 1})
	near := Vec2{X: here.X + 1, Z: here.Z - 1}
	assert.Empty(t, ctrl.Replan(g, here, near))
	assert.Equal(t, OutcomeArrived, ctrl.Outcome())
	assert.Equal(t, prev, ctrl.Waypoints())
}

func TestReplanOutOfBoundsKeepsRoute(t *testing.T) {
	g := corridorGrid(t)
	m := maze.NewMapping(g, 5)
	ctrl := quietController(m)

	assert.Empty(t, ctrl.Replan(g, Vec2{X: 100, Z: 0}, Vec2{}))

	prev := ctrl.Replan(g, worldOf(m, maze.Cell{Row: 3, Col: 1}), worldOf(m, maze.Cell{Row: 1, Col: 3}))
	require.NotEmpty(t, prev)
	assert.Equal(t, prev, ctrl.Replan(g, worldOf(m, maze.Cell{Row: 3, Col: 1}), Vec2{X: 0, Z: -40}))
	assert.Equal(t, OutcomeKept, ctrl.Outcome())
}

func TestReplanOutcomeResetsEachCall(t *testing.T) {
	g := corridorGrid(t)
	m := maze.NewMapping(g, 5)
	ctrl := quietController(m)
	assert.Equal(t, OutcomeKept, ctrl.Outcome())

	cases := []struct {
		name   string
		agent  maze.Cell
		target Vec2
		want   Outcome
	}{
		{"planned", maze.Cell{Row: 3, Col: 1}, worldOf(m, maze.Cell{Row: 3, Col: 3}), OutcomeReplaced},
		{"same_cell", maze.Cell{Row: 3, Col: 3}, worldOf(m, maze.Cell{Row: 3, Col: 3}), OutcomeArrived},
		{"target_outside", maze.Cell{Row: 3, Col: 1}, Vec2{X: 100}, OutcomeKept},
		{"planned_again", maze.Cell{Row: 1, Col: 1}, worldOf(m, maze.Cell{Row: 3, Col: 3}), OutcomeReplaced},
	}
	for _, c := range cases {
		ctrl.Replan(g, worldOf(m, c.agent), c.target)
		assert.Equal(t, c.want, ctrl.Outcome(), c.name)
	}
}

func TestReplanWaypointsAreCopies(t *testing.T) {
	g := corridorGrid(t)
	m := maze.NewMapping(g, 5)
	ctrl := quietController(m)

	wps := ctrl.Replan(g, worldOf(m, maze.Cell{Row: 3, Col: 1}), worldOf(m, maze.Cell{Row: 3, Col: 3}))
	require.NotEmpty(t, wps)
	wps[0].X = 999
	assert.NotEqual(t, 999.0, ctrl.Waypoints()[0].X)
}

func TestReplanGeneratedMazeEndToEnd(t *testing.T) {
	g, err := maze.NewSeededGenerator(2024).Generate(9, 9)
	require.NoError(t, err)
	m := maze.NewMapping(g, maze.DefaultCellSize)
	ctrl := quietController(m, WithHeight(1.5))

	wps := ctrl.Replan(g, worldOf(m, g.Entrance()), worldOf(m, g.Exit()))
	require.NotEmpty(t, wps)

	last := wps[len(wps)-1]
	cell, ok := m.WorldToCell(last.X, last.Z)
	require.True(t, ok)
	assert.Equal(t, g.Exit(), cell)
	assert.Equal(t, 1.5, last.Y)

	prev := g.Entrance()
	for _, wp := range wps {
		c, ok := m.WorldToCell(wp.X, wp.Z)
		require.True(t, ok)
		assert.Equal(t, 1, prev.Manhattan(c))
		assert.NotEqual(t, maze.Wall, g.At(c))
		prev = c
	}
}

func TestReplanNodeCapKeepsRoute(t *testing.T) {
	g := corridorGrid(t)
	m := maze.NewMapping(g, 5)
	ctrl := quietController(m, WithMaxNodes(1))

	assert.Empty(t, ctrl.Replan(g, worldOf(m, maze.Cell{Row: 3, Col: 1}), worldOf(m, maze.Cell{Row: 3, Col: 3})))
	assert.Zero(t, ctrl.PathLen())
}

func TestCueThresholds(t *testing.T) {
	cases := []struct {
		pathLen int
		want    Cue
	}{
		{0, CueNone},
		{1, CueNear},
		{9, CueNear},
		{10, CueNone},
		{25, CueNone},
		{26, CueDistant},
		{49, CueDistant},
		{50, CueNone},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DefaultCueThresholds.Classify(c.pathLen), "len %d", c.pathLen)
	}
	assert.Equal(t, CueNear, ParseCue("near"))
	assert.Equal(t, CueNone, ParseCue("loud"))
}

func TestCadence(t *testing.T) {
	c := NewCadence(3)
	var fired []int
	for tick := 1; tick <= 9; tick++ {
		if c.Tick() {
			fired = append(fired, tick)
		}
	}
	assert.Equal(t, []int{3, 6, 9}, fired)

	c.Trigger()
	assert.True(t, c.Tick())
	assert.False(t, c.Tick())

	assert.Equal(t, DefaultReplanEvery, NewCadence(0).Every)
}
