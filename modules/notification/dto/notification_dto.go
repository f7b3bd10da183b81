package dto

import "github.com/google/uuid"

type CreateNotificationRequest struct {
	UserID   uuid.UUID              `json:"user_id"`
	Title    string                 `json:"title"`
	Message  string                 `json:"message"`
	Category string                 `json:"category"`
	NookID   *uuid.UUID             `json:"nook_id,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

type MarkAsReadRequest struct {
	IDs []string `json:"ids"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}
