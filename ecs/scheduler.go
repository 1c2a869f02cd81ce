package ecs

// System updates a world once per simulation tick.
type System interface {
	Update(w *World)
}

// Scheduler runs systems in registration order.
type Scheduler struct {
	systems []System
	ticks   int
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs one tick of every system.
func (s *Scheduler) Update(w *World) {
	s.ticks++
	for _, system := range s.systems {
		system.Update(w)
	}
}

// Ticks returns the number of completed Update calls.
func (s *Scheduler) Ticks() int {
	return s.ticks
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
