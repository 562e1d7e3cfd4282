package models

import "github.com/google/uuid"

// Escrow tracks funds notionally locked against a project. One row per project.
// TotalLocked and TotalReleased are non-negative; each milestone release moves
// the same amount from locked to released.
type Escrow struct {
	ID            uuid.UUID `json:"id"`
	ProjectID     uuid.UUID `json:"project_id"`
	TotalLocked   int64     `json:"total_locked"`
	TotalReleased int64     `json:"total_released"`
}
