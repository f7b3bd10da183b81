package utils

import (
	"fmt"

	"github.com/google/uuid"
)

func ToString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func ToUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
