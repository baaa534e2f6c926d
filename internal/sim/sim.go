// Package sim applies player actions to game states and deterministically
// resolves their automatic consequences. Resolution is zero-choice and
// strictly single-threaded: its exact sequencing is part of the game's
// observable contract, so it is never parallelized.
package sim

import (
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/lane"
)

// Shooter is an ammo-bearing unit on the conveyor. It is owned by exactly
// one State; branching copies the conveyor, never aliases it.
type Shooter struct {
	Color domain.Cell
	Ammo  int
}

// State is one search node's view of the game: what remains of the two
// layers plus the ordered conveyor. Grids are shared with the parent
// state until a mutation copies them, so sibling branches diverge only in
// the layers they actually touch.
type State struct {
	Top      domain.Grid
	Slots    domain.Grid
	Conveyor []Shooter
	Pending  []Shooter // only under AdmitQueue
}

// NewState is the initial stable state of a board.
func NewState(b *domain.Board) State {
	return State{Top: b.Top, Slots: b.Slots}
}

// Won reports the cleared terminal state.
func (s State) Won() bool { return s.Slots.OccupiedCount() == 0 }

// Key is the canonical identity used for search deduplication: both
// layers plus the conveyor as an ordered sequence. Order matters because
// it determines firing priority, so it is never collapsed to a multiset.
func (s State) Key() string {
	buf := make([]byte, 0, 2*len(s.Top.Cells)+2*len(s.Slots.Cells)+4*len(s.Conveyor)+8)
	for _, c := range s.Top.Cells {
		buf = append(buf, byte(uint16(c)>>8), byte(uint16(c)))
	}
	buf = append(buf, 0xFE)
	for _, c := range s.Slots.Cells {
		buf = append(buf, byte(uint16(c)>>8), byte(uint16(c)))
	}
	buf = append(buf, 0xFE)
	for _, sh := range s.Conveyor {
		buf = append(buf, byte(uint16(sh.Color)>>8), byte(uint16(sh.Color)), byte(sh.Ammo>>8), byte(sh.Ammo))
	}
	buf = append(buf, 0xFE)
	for _, sh := range s.Pending {
		buf = append(buf, byte(uint16(sh.Color)>>8), byte(uint16(sh.Color)), byte(sh.Ammo>>8), byte(sh.Ammo))
	}
	return string(buf)
}

// Apply performs a tap at p and resolves to the next stable state. The
// input state is never mutated. Errors: ErrInvalidAction when p does not
// hit a live component, ErrConveyorFull when admission rejects the tap.
func Apply(s State, p domain.Pos, sides domain.Sides, cfg Config) (State, error) {
	comp, ok := ComponentAt(s.Top, p)
	if !ok {
		return State{}, domain.ErrInvalidAction
	}

	sh := Shooter{Color: comp.Color, Ammo: len(comp.Cells)}
	next := State{Top: s.Top.Clone(), Slots: s.Slots}
	for _, c := range comp.Cells {
		next.Top.Cells[c.Y*next.Top.W+c.X] = domain.Empty
	}

	next.Conveyor = append([]Shooter(nil), s.Conveyor...)
	next.Pending = append([]Shooter(nil), s.Pending...)
	if len(next.Conveyor) >= cfg.Capacity {
		switch cfg.Admission {
		case AdmitQueue:
			next.Pending = append(next.Pending, sh)
		default:
			return State{}, domain.ErrConveyorFull
		}
	} else {
		next.Conveyor = append(next.Conveyor, sh)
	}

	return Resolve(next, sides, cfg), nil
}

// Resolve runs auto-fire to a fixed point: scan the conveyor in order,
// fire one ammo unit per matching shooter against the first reachable
// target of its color, recompute reachability after every clearance, and
// repeat until no shooter can fire. The caller must own the state's
// conveyor and pending slices; the slots grid is copied on first shot.
func Resolve(s State, sides domain.Sides, cfg Config) State {
	eng := lane.New(s.Slots, sides)
	slotsOwned := false

	for {
		fired := false
		for i := 0; i < len(s.Conveyor); {
			sh := s.Conveyor[i]
			tgt, ok := eng.FirstMatch(s.Slots, sh.Color)
			if !ok {
				i++
				continue
			}
			if !slotsOwned {
				s.Slots = s.Slots.Clone()
				slotsOwned = true
			}
			s.Slots.Cells[tgt.Y*s.Slots.W+tgt.X] = domain.Empty
			eng.Removed(s.Slots, tgt)
			fired = true

			sh.Ammo--
			if sh.Ammo == 0 {
				s.Conveyor = append(s.Conveyor[:i], s.Conveyor[i+1:]...)
				s = admitPending(s, cfg)
			} else {
				s.Conveyor[i] = sh
			}
			if cfg.Scan == ScanRestart {
				i = 0
			}
		}
		if !fired {
			return s
		}
	}
}

// Deadlocked reports the lose condition: conveyor at capacity with no
// shooter able to fire. Both must hold; a full conveyor with a live match
// is fine, as is an empty board of taps with conveyor slack.
func Deadlocked(s State, sides domain.Sides, cfg Config) bool {
	if len(s.Conveyor) < cfg.Capacity {
		return false
	}
	eng := lane.New(s.Slots, sides)
	for _, sh := range s.Conveyor {
		if _, ok := eng.FirstMatch(s.Slots, sh.Color); ok {
			return false
		}
	}
	return true
}

func admitPending(s State, cfg Config) State {
	for len(s.Pending) > 0 && len(s.Conveyor) < cfg.Capacity {
		s.Conveyor = append(s.Conveyor, s.Pending[0])
		s.Pending = s.Pending[1:]
	}
	return s
}
