package match

// Outcome is the three-valued result of a scored match.
type Outcome int

const (
	// Unknown marks a match with a missing score.
	Unknown Outcome = iota
	HomeWin
	AwayWin
	Draw
)

// Outcomes lists the known outcomes in display order.
var Outcomes = []Outcome{HomeWin, AwayWin, Draw}

// Label returns the dashboard label for the outcome.
func (o Outcome) Label() string {
	switch o {
	case HomeWin:
		return "Victoria Local"
	case AwayWin:
		return "Victoria Visitante"
	case Draw:
		return "Empate"
	default:
		return ""
	}
}

func (o Outcome) String() string {
	if o == Unknown {
		return "unknown"
	}
	return o.Label()
}

// Points returns the points awarded to home and away under the 3/1/0 rule.
func (o Outcome) Points() (home, away int) {
	switch o {
	case HomeWin:
		return 3, 0
	case AwayWin:
		return 0, 3
	case Draw:
		return 1, 1
	default:
		return 0, 0
	}
}
