package sim

// AdmissionPolicy decides what happens to a tap when the conveyor is at
// capacity. The exact in-game rule is not final, so the policy is a
// configuration surface rather than a hard-coded branch; the search
// engine is agnostic to the choice.
type AdmissionPolicy int

const (
	// AdmitReject rejects the tap outright (conservative default).
	AdmitReject AdmissionPolicy = iota
	// AdmitQueue parks the shooter off-conveyor and admits it as soon as
	// capacity frees during resolution.
	AdmitQueue
)

// ScanPolicy fixes the conveyor scan order within one resolution step.
type ScanPolicy int

const (
	// ScanRestart restarts the scan from the conveyor head after every
	// shot, so earlier shooters keep firing priority (default).
	ScanRestart ScanPolicy = iota
	// ScanResume holds the scan at the current shooter after a shot, so
	// it keeps firing until it has no match before the scan moves on;
	// the head regains priority only on the next pass.
	ScanResume
)

// Config is the simulator's rule surface. Whatever is chosen here must be
// held constant across a solve: Apply is a pure function of
// (state, action, config).
type Config struct {
	Capacity  int
	Admission AdmissionPolicy
	Scan      ScanPolicy
}

// DefaultConfig matches the current target-game rules.
func DefaultConfig() Config {
	return Config{Capacity: 5, Admission: AdmitReject, Scan: ScanRestart}
}
