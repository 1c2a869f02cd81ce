package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/milk9111/mazechase/maze"
	"github.com/milk9111/mazechase/pathfind"
)

func main() {
	rows := flag.Int("rows", 21, "maze rows (at least 3)")
	cols := flag.Int("cols", 21, "maze columns (at least 3)")
	seed := flag.Uint64("seed", 0, "maze seed; 0 uses the clock")
	route := flag.Bool("route", false, "plan and draw the entrance to exit route")
	flag.Parse()

	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}

	if err := run(os.Stdout, *rows, *cols, s, *route); err != nil {
		log.Fatal(err)
	}
}

func run(out io.Writer, rows, cols int, seed uint64, route bool) error {
	g, err := maze.NewSeededGenerator(seed).Generate(rows, cols)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "seed %d, %dx%d\n", seed, rows, cols)
	if !route {
		fmt.Fprint(out, g.String())
		return nil
	}

	text, steps, err := renderRoute(g)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, text)
	fmt.Fprintf(out, "route: %d cells\n", steps)
	return nil
}

// renderRoute stamps the entrance and exit, plans between them and draws the
// route cells as '*'.
func renderRoute(g *maze.Grid) (string, int, error) {
	stamped := g.Clone()
	if err := stamped.Set(g.Entrance(), maze.AgentMarker); err != nil {
		return "", 0, err
	}
	if err := stamped.Set(g.Exit(), maze.TargetMarker); err != nil {
		return "", 0, err
	}

	path, err := pathfind.FindPath(stamped)
	if err != nil {
		return "", 0, fmt.Errorf("mazegen: plan: %w", err)
	}

	lines := strings.Split(strings.TrimRight(stamped.String(), "\n"), "\n")
	rows := make([][]byte, len(lines))
	for i, l := range lines {
		rows[i] = []byte(l)
	}
	for i, c := range path {
		if i == 0 || i == len(path)-1 {
			continue
		}
		rows[c.Row][c.Col] = '*'
	}

	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = string(r)
	}
	return strings.Join(out, "\n"), len(path), nil
}
