package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/mazechase/maze"
)

func TestRenderRoute(t *testing.T) {
	g, err := maze.Parse(
		"#.#",
		"#.#",
		"#.#",
	)
	require.NoError(t, err)

	text, steps, err := renderRoute(g)
	require.NoError(t, err)
	assert.Equal(t, 3, steps)
	assert.Equal(t, "#T#\n#*#\n#A#", text)
	assert.Equal(t, maze.Open, g.At(g.Entrance()), "input grid is not stamped")
}

func TestRunPrintsMaze(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(&buf, 9, 9, 42, true))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "seed 42, 9x9", lines[0])
	assert.Equal(t, byte('T'), lines[1][4])
	assert.Equal(t, byte('A'), lines[9][4])
	assert.True(t, strings.HasPrefix(lines[10], "route: "))
}

func TestRunRejectsTinyMaze(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, run(&buf, 2, 9, 1, false), maze.ErrInvalidArgument)
}
