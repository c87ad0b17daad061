package models

import "time"

// Learning statuses; the first is the default.
var LearningStatuses = []string{"NOT_STARTED", "IN_PROGRESS", "COMPLETED", "ON_HOLD"}

// LearningItem is an entry of the learning log.
type LearningItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	Progress    int       `json:"progress"`
	ResourceURL *string   `json:"resourceUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LearningPayload is the body of POST /learning and PUT /learning/{id}.
type LearningPayload struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
	Progress    int     `json:"progress"`
	ResourceURL *string `json:"resourceUrl"`
}
