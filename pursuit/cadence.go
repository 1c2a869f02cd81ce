package pursuit

// DefaultReplanEvery is the number of simulation ticks between plans.
const DefaultReplanEvery = 50

// Cadence rate-limits replanning to once every Every ticks.
type Cadence struct {
	Every   int
	counter int
}

// NewCadence returns a cadence firing every n ticks; n <= 0 uses
// DefaultReplanEvery.
func NewCadence(n int) *Cadence {
	if n <= 0 {
		n = DefaultReplanEvery
	}
	return &Cadence{Every: n}
}

// Tick advances one simulation tick and reports whether a plan is due.
func (c *Cadence) Tick() bool {
	every := c.Every
	if every <= 0 {
		every = DefaultReplanEvery
	}
	c.counter++
	if c.counter < every {
		return false
	}
	c.counter = 0
	return true
}

// Trigger makes the next Tick fire.
func (c *Cadence) Trigger() {
	every := c.Every
	if every <= 0 {
		every = DefaultReplanEvery
	}
	c.counter = every - 1
}
