package domain

import "time"

type Notification struct {
	ID          int32             `json:"id"`
	UserID      int32             `json:"user_id"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	IsRead      bool              `json:"is_read"`
	CreatedDate time.Time         `json:"created_date"`
}
