package system

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/mazechase/ecs"
	"github.com/milk9111/mazechase/ecs/component"
	"github.com/milk9111/mazechase/prefabs"
	"github.com/milk9111/mazechase/pursuit"
)

const cueDispatchScript = `
update(__engine)
`

type cueRuntime struct {
	scriptPath string
	compiled   *tengo.Compiled
	pending    pursuit.Cue
	chosen     bool
}

// CueSystem picks each pursuer's proximity cue after it replans. Entities
// with a script delegate the choice to it; the others, or a failing script,
// use the controller's built-in thresholds.
type CueSystem struct {
	// LoadScript reads a cue script by name. Defaults to prefabs.LoadScript.
	LoadScript func(name string) ([]byte, error)

	cache    map[ecs.Entity]*cueRuntime
	lastSeen map[ecs.Entity]int
}

func NewCueSystem() *CueSystem {
	return &CueSystem{
		LoadScript: prefabs.LoadScript,
		cache:      map[ecs.Entity]*cueRuntime{},
		lastSeen:   map[ecs.Entity]int{},
	}
}

func (cs *CueSystem) Update(w *ecs.World) {
	if cs == nil || w == nil {
		return
	}
	if cs.cache == nil {
		cs.cache = map[ecs.Entity]*cueRuntime{}
	}
	if cs.lastSeen == nil {
		cs.lastSeen = map[ecs.Entity]int{}
	}

	ecs.ForEach2(w, component.ProximityCueComponent.Kind(), component.PursuitComponent.Kind(), func(e ecs.Entity, cue *component.ProximityCue, p *component.Pursuit) {
		if p.Controller == nil || p.Replans == 0 {
			return
		}
		if seen, ok := cs.lastSeen[e]; ok && seen == p.Replans {
			return
		}
		cs.lastSeen[e] = p.Replans

		next := p.Controller.Cue()
		if strings.TrimSpace(cue.Script) != "" {
			chosen, err := cs.runScript(e, cue, p)
			if err != nil {
				log.Printf("CueSystem: entity %s script %s: %v", e, cue.Script, err)
			} else {
				next = chosen
			}
		}

		if next != cue.Current {
			cue.Current = next
			cue.Changes++
		}
	})

	for e := range cs.lastSeen {
		if !ecs.IsAlive(w, e) {
			delete(cs.lastSeen, e)
			delete(cs.cache, e)
		}
	}
}

func (cs *CueSystem) runScript(e ecs.Entity, cue *component.ProximityCue, p *component.Pursuit) (pursuit.Cue, error) {
	rt, err := cs.runtime(e, cue.Script)
	if err != nil {
		return pursuit.CueNone, err
	}

	rt.pending = cue.Current
	rt.chosen = false
	engine := buildCueEngine(rt, cue.Current, p.PathLen)
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return pursuit.CueNone, err
	}
	if err := rt.compiled.Run(); err != nil {
		return pursuit.CueNone, err
	}
	if !rt.chosen {
		return cue.Current, nil
	}
	return rt.pending, nil
}

func (cs *CueSystem) runtime(e ecs.Entity, scriptPath string) (*cueRuntime, error) {
	if rt, ok := cs.cache[e]; ok && rt != nil && rt.scriptPath == scriptPath {
		return rt, nil
	}

	load := cs.LoadScript
	if load == nil {
		load = prefabs.LoadScript
	}
	src, err := load(scriptPath)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + cueDispatchScript))
	_ = script.Add("__engine", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", scriptPath, err)
	}

	rt := &cueRuntime{scriptPath: scriptPath, compiled: compiled}
	cs.cache[e] = rt
	return rt, nil
}

// Invalidate drops cached scripts so edited files are recompiled.
func (cs *CueSystem) Invalidate() {
	if cs == nil {
		return
	}
	cs.cache = map[ecs.Entity]*cueRuntime{}
}

func buildCueEngine(rt *cueRuntime, current pursuit.Cue, pathLen int) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["path_len"] = &tengo.UserFunction{Name: "path_len", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(pathLen)}, nil
	}}

	values["current_cue"] = &tengo.UserFunction{Name: "current_cue", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: string(current)}, nil
	}}

	values["set_cue"] = &tengo.UserFunction{Name: "set_cue", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		rt.pending = pursuit.ParseCue(name)
		rt.chosen = true
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
