// internal/models/jobdescription.go
package models

import "time"

// JobDescription is a target role. Priority is used only as the
// default-selection tie-break: the lowest priority number wins.
type JobDescription struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
