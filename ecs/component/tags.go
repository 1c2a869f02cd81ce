package component

// Kind classifies an entity. Systems query it instead of probing ad-hoc
// properties.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindPlayer
	KindPursuer
	KindToken
	KindDecoration
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindPursuer:
		return "pursuer"
	case KindToken:
		return "token"
	case KindDecoration:
		return "decoration"
	default:
		return "unknown"
	}
}

type EntityKind struct {
	Kind Kind
}

var EntityKindComponent = NewComponent[EntityKind]()

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()
