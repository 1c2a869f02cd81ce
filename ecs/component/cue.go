package component

import "github.com/milk9111/mazechase/pursuit"

// ProximityCue is the pursuer's current proximity signal, chosen by a
// script from the planned route length.
type ProximityCue struct {
	Current pursuit.Cue
	Script  string
	Changes int
}

var ProximityCueComponent = NewComponent[ProximityCue]()
