package entity

// Phase is a nook's lifecycle stage, derived from wall-clock time and the
// stored status. Never persisted.
type Phase string

const (
	PhaseFillingUp Phase = "filling_up"
	PhaseArrival   Phase = "arrival"
	PhaseLive      Phase = "live"
	PhaseCompleted Phase = "completed"
	PhaseCancelled Phase = "cancelled"
)

// PhaseInfo pairs the phase with its display label.
type PhaseInfo struct {
	Phase Phase  `json:"phase"`
	Label string `json:"label"`
}

// CommitmentPhase is the time-until-start window that gates which commitment
// transitions are currently legal. Derived, never persisted.
type CommitmentPhase string

const (
	CommitmentPhaseTooEarly     CommitmentPhase = "too_early"
	CommitmentPhaseIntention    CommitmentPhase = "intention"
	CommitmentPhaseStatusUpdate CommitmentPhase = "status_update"
	CommitmentPhaseArrival      CommitmentPhase = "arrival"
	CommitmentPhaseEnded        CommitmentPhase = "ended"
)
