package domain

// Outcome is the three-way solver verdict. Solved and ProvenUnsolvable are
// definitive; BudgetExceeded means solvability is unknown and callers must
// treat it as a rejection, never as solvable.
type Outcome int

const (
	Solved Outcome = iota
	ProvenUnsolvable
	BudgetExceeded
)

func (o Outcome) String() string {
	switch o {
	case Solved:
		return "solved"
	case ProvenUnsolvable:
		return "unsolvable"
	default:
		return "budget_exceeded"
	}
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return []byte(`"` + o.String() + `"`), nil
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"solved"`:
		*o = Solved
	case `"unsolvable"`:
		*o = ProvenUnsolvable
	default:
		*o = BudgetExceeded
	}
	return nil
}

// DeriveMode selects how slot colors are derived from the top layer.
type DeriveMode string

const (
	DeriveDerangement DeriveMode = "derangement" // flow-based, zero same-cell matches
	DeriveRotate      DeriveMode = "rotate"      // cyclic shift over occupied cells
	DeriveSame        DeriveMode = "same"        // debug only, violates the mismatch invariant
)

// Sides is a bitmask of enabled lane entrances.
type Sides uint8

const (
	SideLeft Sides = 1 << iota
	SideRight
	SideTop
	SideBottom

	AllSides = SideLeft | SideRight | SideTop | SideBottom
)

func (s Sides) Has(side Sides) bool { return s&side != 0 }
