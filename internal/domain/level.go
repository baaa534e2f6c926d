package domain

import "time"

// Budget bounds a single solve. Zero values mean "no limit" for that axis.
type Budget struct {
	MaxNodes  int           `json:"maxNodes,omitempty" yaml:"max_nodes"`
	MaxDepth  int           `json:"maxDepth,omitempty" yaml:"max_depth"`
	TimeLimit time.Duration `json:"timeLimit,omitempty" yaml:"time_limit"`
}

// Telemetry is the solver's observation vector for one board. It is the
// sole input to the external difficulty scoring function.
type Telemetry struct {
	Solvable          bool    `json:"solvable"`
	SolutionLen       int     `json:"solutionLen"`
	Expanded          int     `json:"expanded"`
	RuntimeMS         int64   `json:"runtimeMs"`
	MinConveyorSlack  int     `json:"minConveyorSlack"`
	DeadlockProximity float64 `json:"deadlockProximity"`
}

// SolveResult is the solver's verdict plus telemetry. Solution is set only
// when Outcome == Solved and holds tap actions as component representative
// cells in play order.
type SolveResult struct {
	Outcome   Outcome   `json:"outcome"`
	Solution  []Pos     `json:"solution,omitempty"`
	Telemetry Telemetry `json:"telemetry"`
}

// Skeleton is a plain-data board candidate handed to the backward
// generator by external proposers (templates, image pipeline, LLM).
// Proposers have no access to simulation state; a skeleton becomes a
// Board only by passing generation and the solver gate.
type Skeleton struct {
	Palette []string `json:"palette"`
	Top     Grid     `json:"top"`
}

// GenParams tunes one generation attempt.
type GenParams struct {
	Seed             int64      `json:"seed,omitempty" yaml:"seed"`
	Mode             DeriveMode `json:"mode,omitempty" yaml:"mode"`
	MaxAttempts      int        `json:"maxAttempts,omitempty" yaml:"max_attempts"`
	MaxDominantShare float64    `json:"maxDominantShare,omitempty" yaml:"max_dominant_share"`
	SeamThickness    int        `json:"seamThickness,omitempty" yaml:"seam_thickness"`
}

// GenMeta records provenance for a generated level.
type GenMeta struct {
	Telemetry      Telemetry  `json:"telemetry"`
	Params         GenParams  `json:"params"`
	Attempts       int        `json:"attempts"`
	SlotsMode      DeriveMode `json:"slotsMode"`
	RotateShift    int        `json:"rotateShift,omitempty"`
	SameCellCount  int        `json:"sameCellCount"`
	RebalanceIters int        `json:"rebalanceIters,omitempty"`
}

// Level is the persisted representation exchanged across the gate
// boundary.
type Level struct {
	ID                 string   `json:"id"`
	Version            int      `json:"version"`
	W                  int      `json:"w"`
	H                  int      `json:"h"`
	Palette            []string `json:"palette"`
	Top                Grid     `json:"top"`
	Slots              Grid     `json:"slots"`
	BackwardPlaceOrder []Pos    `json:"backward_place_order"` // inner -> outer
	ForwardRemoveOrder []Pos    `json:"forward_remove_order"` // outer -> inner
	Solution           []Pos    `json:"solution,omitempty"`
	Meta               GenMeta  `json:"meta"`
	CreatedAt          int64    `json:"createdAt"`
}

// LevelMeta is a lightweight listing entry.
type LevelMeta struct {
	ID        string `json:"id"`
	W         int    `json:"w"`
	H         int    `json:"h"`
	Solvable  bool   `json:"solvable"`
	CreatedAt int64  `json:"createdAt"`
}

// Board returns the frozen board described by the level.
func (l *Level) Board() (*Board, error) {
	return NewBoard(l.Palette, l.Top, l.Slots, AllSides)
}
