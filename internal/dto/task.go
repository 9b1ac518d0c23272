// Package dto holds the request and response shapes exchanged with clients.
// Stored entities are mapped to and from these types and never serialized.
package dto

import (
	"time"

	"task-tracker/internal/models"
)

type TaskPayload struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title" binding:"required,notblank,max=255"`
	Description string     `json:"description" binding:"max=4000"`
	ExpiryDate  *time.Time `json:"expiryDate"`
}

// ToTaskEntity leaves the ID unset so the store assigns it.
func ToTaskEntity(p TaskPayload) models.Task {
	return models.Task{
		Title:       p.Title,
		Description: p.Description,
		ExpiryDate:  p.ExpiryDate,
	}
}

func FromTaskEntity(t models.Task) TaskPayload {
	return TaskPayload{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		ExpiryDate:  t.ExpiryDate,
	}
}

func FromTaskEntities(tasks []models.Task) []TaskPayload {
	payloads := make([]TaskPayload, 0, len(tasks))
	for _, t := range tasks {
		payloads = append(payloads, FromTaskEntity(t))
	}
	return payloads
}
