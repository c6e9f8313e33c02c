package model

import (
	"github.com/google/uuid"
)

// ensureId fills a nil primary key before insert.
func ensureId(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
