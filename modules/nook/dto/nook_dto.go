package dto

import (
	"time"

	"github.com/RahulGiri5677/nookly-sub000/modules/nook/entity"
)

type CreateNookRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Address         string `json:"address"`
	StartTime       string `json:"start_time"` // RFC3339
	DurationMinutes int    `json:"duration_minutes"`
	MinPeople       int    `json:"min_people"`
	MaxPeople       int    `json:"max_people"`
}

type UpdateNookRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Address         string `json:"address"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	MinPeople       int    `json:"min_people"`
	MaxPeople       int    `json:"max_people"`
}

type CommitmentUpdateRequest struct {
	Status string `json:"status"`
}

type CommitmentResponse struct {
	NookID          string `json:"nook_id"`
	UserID          string `json:"user_id"`
	Status          string `json:"status"`
	CommitmentPhase string `json:"commitment_phase"`
}

type ReadinessResponse struct {
	NookID          string         `json:"nook_id"`
	CommitmentPhase string         `json:"commitment_phase"`
	Counts          map[string]int `json:"counts"`
}

type MembershipResponse struct {
	NookID           string     `json:"nook_id"`
	UserID           string     `json:"user_id"`
	ApprovalStatus   string     `json:"approval_status"`
	CommitmentStatus string     `json:"commitment_status"`
	JoinedAt         time.Time  `json:"joined_at"`
	ArrivedAt        *time.Time `json:"arrived_at,omitempty"`
}

type NookResponse struct {
	ID              string               `json:"id"`
	HostID          string               `json:"host_id"`
	Title           string               `json:"title"`
	Description     *string              `json:"description,omitempty"`
	Slug            string               `json:"slug"`
	Address         *string              `json:"address,omitempty"`
	VenueCode       *string              `json:"venue_code,omitempty"`
	StartTime       time.Time            `json:"start_time"`
	EndTime         time.Time            `json:"end_time"`
	DurationMinutes int                  `json:"duration_minutes"`
	Status          string               `json:"status"`
	MinPeople       int                  `json:"min_people"`
	MaxPeople       int                  `json:"max_people"`
	CurrentPeople   int                  `json:"current_people"`
	Phase           entity.PhaseInfo     `json:"phase"`
	CommitmentPhase string               `json:"commitment_phase"`
	Members         []MembershipResponse `json:"members,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

type MyNooksResponse struct {
	Hosting []NookResponse `json:"hosting"`
	Joined  []NookResponse `json:"joined"`
}

func ToMembershipResponse(m *entity.Membership) MembershipResponse {
	return MembershipResponse{
		NookID:           m.NookID.String(),
		UserID:           m.UserID.String(),
		ApprovalStatus:   string(m.ApprovalStatus),
		CommitmentStatus: string(m.CommitmentStatus),
		JoinedAt:         m.CreatedAt,
		ArrivedAt:        m.ArrivedAt,
	}
}

func ToNookResponse(n *entity.Nook, phase entity.PhaseInfo, commitmentPhase entity.CommitmentPhase, members []entity.Membership) *NookResponse {
	resp := &NookResponse{
		ID:              n.ID.String(),
		HostID:          n.HostID.String(),
		Title:           n.Title,
		Description:     n.Description,
		Slug:            n.Slug,
		Address:         n.Address,
		VenueCode:       n.VenueCode,
		StartTime:       n.StartTime,
		EndTime:         n.EndTime(),
		DurationMinutes: n.DurationMinutes,
		Status:          string(n.Status),
		MinPeople:       n.MinPeople,
		MaxPeople:       n.MaxPeople,
		CurrentPeople:   n.CurrentPeople,
		Phase:           phase,
		CommitmentPhase: string(commitmentPhase),
		CreatedAt:       n.CreatedAt,
	}
	for i := range members {
		resp.Members = append(resp.Members, ToMembershipResponse(&members[i]))
	}
	return resp
}
