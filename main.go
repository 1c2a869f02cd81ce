package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/mazechase/common"
	"github.com/milk9111/mazechase/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	levelName := flag.String("level", "first_year", "level name in prefabs/levels/ (basename, .yaml optional)")
	seed := flag.Uint64("seed", 0, "maze seed; 0 uses the level's seed, or the clock when that is 0 too")
	headless := flag.Bool("headless", false, "run without a window and log the outcome")
	ticks := flag.Int("ticks", 60*common.TickRate, "tick limit in headless mode")
	flag.Parse()

	if *headless {
		runHeadless(*levelName, *seed, *ticks, *debug)
		return
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("mazechase")
	ebiten.SetTPS(common.TickRate)

	game, err := NewGame(*levelName, *seed, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

func runHeadless(levelName string, seed uint64, ticks int, debug bool) {
	spec, err := prefabs.LoadLevelSpec(levelName)
	if err != nil {
		log.Fatal(err)
	}
	s, err := NewSession(spec, resolveSeed(seed, spec.Seed), debug)
	if err != nil {
		log.Fatal(err)
	}

	for s.Ticks() < ticks && !s.Done() {
		s.Step()
	}

	outcome := "timeout"
	switch {
	case s.Caught():
		outcome = "caught"
	case s.Escaped():
		outcome = "escaped"
	}
	log.Printf("Headless: level %s seed %d finished after %d ticks: %s", spec.Name, s.Seed, s.Ticks(), outcome)
}

// resolveSeed prefers the flag, then the level, then the clock.
func resolveSeed(flagSeed, levelSeed uint64) uint64 {
	if flagSeed != 0 {
		return flagSeed
	}
	if levelSeed != 0 {
		return levelSeed
	}
	return uint64(time.Now().UnixNano())
}
