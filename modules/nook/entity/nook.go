package entity

import (
	"time"

	"github.com/google/uuid"

	coreEntity "github.com/RahulGiri5677/nookly-sub000/core/entity"
)

// NookStatus is the stored lifecycle status of a nook. Cancelled is terminal.
type NookStatus string

const (
	NookStatusPending   NookStatus = "pending"
	NookStatusConfirmed NookStatus = "confirmed"
	NookStatusCancelled NookStatus = "cancelled"
)

// Nook is a scheduled small-group in-person gathering.
type Nook struct {
	HostID          uuid.UUID  `db:"host_id" json:"host_id"`
	Title           string     `db:"title" json:"title"`
	Description     *string    `db:"description" json:"description,omitempty"`
	Slug            string     `db:"slug" json:"slug"`
	Address         *string    `db:"address" json:"address,omitempty"`
	VenueCode       *string    `db:"venue_code" json:"venue_code,omitempty"`
	StartTime       time.Time  `db:"start_time" json:"start_time"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	Status          NookStatus `db:"status" json:"status"`
	MinPeople       int        `db:"min_people" json:"min_people"`
	MaxPeople       int        `db:"max_people" json:"max_people"`
	CurrentPeople   int        `db:"current_people" json:"current_people"`
	CancelledAt     *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CancelledBy     *uuid.UUID `db:"cancelled_by" json:"cancelled_by,omitempty"`
	coreEntity.BaseEntity
}

// EndTime is the scheduled end, derived from start and duration.
func (n *Nook) EndTime() time.Time {
	return n.StartTime.Add(time.Duration(n.DurationMinutes) * time.Minute)
}
