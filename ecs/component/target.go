package component

// Target marks a hostile entity towers may shoot at. Speed is the rate it
// walks along the +X axis, in units per second.
type Target struct {
	Speed float64
}

var TargetComponent = NewComponent[Target]()
