package service

import (
	"time"

	"github.com/RahulGiri5677/nookly-sub000/core/constants"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/entity"
)

// PhaseCalculator derives a nook's lifecycle phase and commitment phase from
// wall-clock time. Pure computation, no I/O; callers re-evaluate on a poll
// timer since the result changes with the clock alone.
type PhaseCalculator struct {
	// ArrivalLead is how long before start the gathering window opens.
	ArrivalLead time.Duration
	// IntentionLead / StatusUpdateLead / CommitmentArrivalLead bound the
	// commitment phases, measured before the scheduled start.
	IntentionLead         time.Duration
	StatusUpdateLead      time.Duration
	CommitmentArrivalLead time.Duration
}

// NewPhaseCalculator creates a calculator with the standard windows.
func NewPhaseCalculator() *PhaseCalculator {
	return &PhaseCalculator{
		ArrivalLead:           constants.ScanWindowHalfWidth,
		IntentionLead:         constants.IntentionOpensBeforeStart,
		StatusUpdateLead:      constants.StatusUpdateOpensBeforeStart,
		CommitmentArrivalLead: constants.ArrivalOpensBeforeStart,
	}
}

// Compute evaluates the lifecycle phase as an ordered decision list; the
// first matching rule wins.
func (pc *PhaseCalculator) Compute(start time.Time, durationMinutes int, status entity.NookStatus, now time.Time) entity.PhaseInfo {
	if status == entity.NookStatusCancelled {
		return entity.PhaseInfo{Phase: entity.PhaseCancelled, Label: "Cancelled"}
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	if !now.Before(end) {
		return entity.PhaseInfo{Phase: entity.PhaseCompleted, Label: "Completed"}
	}
	if !now.Before(start) {
		return entity.PhaseInfo{Phase: entity.PhaseLive, Label: "Happening Now"}
	}
	if !now.Before(start.Add(-pc.ArrivalLead)) {
		return entity.PhaseInfo{Phase: entity.PhaseArrival, Label: "Gathering"}
	}

	label := "Filling Up"
	if status == entity.NookStatusConfirmed {
		label = "Confirmed"
	}
	return entity.PhaseInfo{Phase: entity.PhaseFillingUp, Label: label}
}

// CommitmentPhase returns the window the current time falls into. The
// status-update window closes when the arrival surface (and the host's QR
// anchor) takes over, shortly before start.
func (pc *PhaseCalculator) CommitmentPhase(start time.Time, durationMinutes int, now time.Time) entity.CommitmentPhase {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	switch {
	case !now.Before(end):
		return entity.CommitmentPhaseEnded
	case !now.Before(start.Add(-pc.CommitmentArrivalLead)):
		return entity.CommitmentPhaseArrival
	case !now.Before(start.Add(-pc.StatusUpdateLead)):
		return entity.CommitmentPhaseStatusUpdate
	case !now.Before(start.Add(-pc.IntentionLead)):
		return entity.CommitmentPhaseIntention
	default:
		return entity.CommitmentPhaseTooEarly
	}
}
