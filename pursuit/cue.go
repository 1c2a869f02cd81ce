package pursuit

// Cue is a coarse proximity signal derived from the planned route length.
type Cue string

const (
	CueNone    Cue = "none"
	CueDistant Cue = "distant"
	CueNear    Cue = "near"
)

// ParseCue maps a cue name to a Cue. Unknown names are CueNone.
func ParseCue(s string) Cue {
	switch Cue(s) {
	case CueDistant:
		return CueDistant
	case CueNear:
		return CueNear
	default:
		return CueNone
	}
}

// CueThresholds bound the route lengths, in cells, of each cue. A route
// shorter than Near is near; one strictly between DistantMin and DistantMax
// is distant.
type CueThresholds struct {
	Near       int
	DistantMin int
	DistantMax int
}

var DefaultCueThresholds = CueThresholds{Near: 10, DistantMin: 25, DistantMax: 50}

// Classify returns the cue for a route of pathLen cells. Zero means no route.
func (t CueThresholds) Classify(pathLen int) Cue {
	switch {
	case pathLen <= 0:
		return CueNone
	case pathLen < t.Near:
		return CueNear
	case pathLen > t.DistantMin && pathLen < t.DistantMax:
		return CueDistant
	default:
		return CueNone
	}
}
