package prefabs

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidLevel = errors.New("prefabs: invalid level")

const (
	defaultCellSize        = 5.0
	defaultTraversalHeight = 1.0
	defaultReplanEvery     = 50
	defaultArrivalRadius   = 0.5
	defaultMaxPlanNodes    = 4096
	defaultPlayerSpeed     = 5.0
	defaultPursuerSpeed    = 4.0
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// AssetsSpec names the external assets of a level. Only identifiers are
// carried; loading them is left to the renderer.
type AssetsSpec struct {
	Wall   string `yaml:"wall"`
	Ground string `yaml:"ground"`
	Skybox string `yaml:"skybox"`
	Token  string `yaml:"token"`
}

type PlayerSpec struct {
	Speed float64 `yaml:"speed"`
}

type PursuerSpec struct {
	SpawnRow    int     `yaml:"spawn_row"`
	SpawnCol    int     `yaml:"spawn_col"`
	Speed       float64 `yaml:"speed"`
	Script      string  `yaml:"script"`
	ReplanEvery int     `yaml:"replan_every"`
}

type DecorationSpec struct {
	Every int `yaml:"every"`
}

// LevelSpec is the single parameterised description of a maze level.
type LevelSpec struct {
	Name            string         `yaml:"name"`
	Rows            int            `yaml:"rows"`
	Cols            int            `yaml:"cols"`
	CellSize        float64        `yaml:"cell_size"`
	TraversalHeight float64        `yaml:"traversal_height"`
	Seed            uint64         `yaml:"seed"`
	ReplanEvery     int            `yaml:"replan_every"`
	ArrivalRadius   float64        `yaml:"arrival_radius"`
	MaxPlanNodes    int            `yaml:"max_plan_nodes"`
	Assets          AssetsSpec     `yaml:"assets"`
	Player          PlayerSpec     `yaml:"player"`
	Pursuers        []PursuerSpec  `yaml:"pursuers"`
	Decorations     DecorationSpec `yaml:"decorations"`
	Keys            int            `yaml:"keys"`
}

func LoadLevelSpec(name string) (*LevelSpec, error) {
	spec, err := LoadSpec[LevelSpec](name)
	if err != nil {
		return nil, err
	}
	if err := spec.Normalize(); err != nil {
		return nil, fmt.Errorf("prefabs: level %s: %w", name, err)
	}
	return &spec, nil
}

// Normalize fills defaults and rejects values no level can run with.
func (s *LevelSpec) Normalize() error {
	if s == nil {
		return fmt.Errorf("%w: nil spec", ErrInvalidLevel)
	}
	s.Name = strings.TrimSpace(s.Name)
	if s.Rows < 3 || s.Cols < 3 {
		return fmt.Errorf("%w: size %dx%d, need at least 3x3", ErrInvalidLevel, s.Rows, s.Cols)
	}
	if s.CellSize < 0 || s.ArrivalRadius < 0 || s.ReplanEvery < 0 || s.MaxPlanNodes < 0 || s.Keys < 0 || s.Decorations.Every < 0 {
		return fmt.Errorf("%w: negative setting", ErrInvalidLevel)
	}

	if s.CellSize == 0 {
		s.CellSize = defaultCellSize
	}
	if s.TraversalHeight == 0 {
		s.TraversalHeight = defaultTraversalHeight
	}
	if s.ReplanEvery == 0 {
		s.ReplanEvery = defaultReplanEvery
	}
	if s.ArrivalRadius == 0 {
		s.ArrivalRadius = defaultArrivalRadius
	}
	if s.MaxPlanNodes == 0 {
		s.MaxPlanNodes = defaultMaxPlanNodes
	}
	if s.Player.Speed <= 0 {
		s.Player.Speed = defaultPlayerSpeed
	}

	for i := range s.Pursuers {
		p := &s.Pursuers[i]
		if p.SpawnRow < 0 || p.SpawnRow >= s.Rows || p.SpawnCol < 0 || p.SpawnCol >= s.Cols {
			return fmt.Errorf("%w: pursuer %d spawn (%d,%d) outside %dx%d", ErrInvalidLevel, i, p.SpawnRow, p.SpawnCol, s.Rows, s.Cols)
		}
		if p.Speed <= 0 {
			p.Speed = defaultPursuerSpeed
		}
		if p.ReplanEvery <= 0 {
			p.ReplanEvery = s.ReplanEvery
		}
		p.Script = strings.TrimSpace(p.Script)
	}
	return nil
}
