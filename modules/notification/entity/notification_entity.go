package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	coreEntity "github.com/RahulGiri5677/nookly-sub000/core/entity"
)

// Notification is a stored notification intent. Delivery (push, email) is an
// external concern; this row is the durable record of what should be said to
// whom.
type Notification struct {
	UserID   uuid.UUID  `db:"user_id" json:"user_id"`
	Title    string     `db:"title" json:"title"`
	Message  string     `db:"message" json:"message"`
	Category string     `db:"category" json:"category"`
	NookID   *uuid.UUID `db:"nook_id" json:"nook_id,omitempty"`
	Data     JSONB      `db:"data" json:"data"`
	IsRead   bool       `db:"is_read" json:"is_read"`
	coreEntity.BaseEntity
}

type JSONB map[string]interface{}

func (a JSONB) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *JSONB) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &a)
}

type PaginatedNotificationEntity = coreEntity.Pagination[Notification]
