package courier

// State is the scheduling state of a courier.
//
// State transitions:
//
//	Idle ──> Filling ──> Draining ──> Idle
//	  │                     ▲
//	  └─────────────────────┘
//	 (a backlog filled in one step, or an explicit launch)
//
// Filling -> Draining happens on the add that fills the backlog, or when the
// dispatcher launches the remaining couriers after assignment. A drain whose
// gate wait is interrupted falls back to Filling (or Idle when nothing is left).
type State int

const (
	// Idle means the backlog is empty and no drain is scheduled.
	Idle State = iota
	// Filling means the backlog holds orders but no drain has been started.
	Filling
	// Draining means a drain routine holds or awaits the delivery gate.
	Draining
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Filling:
		return "Filling"
	case Draining:
		return "Draining"
	default:
		return "Unknown"
	}
}
