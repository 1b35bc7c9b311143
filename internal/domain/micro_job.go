package domain

import "time"

// Micro-job statuses
const (
	MicroJobOpen      = "open"      // Accepting applicants
	MicroJobAssigned  = "assigned"  // Assigned to a student
	MicroJobCompleted = "completed" // Finished
)

// MicroJob Model - a small paid task posted on the tuition-credit job board
type MicroJob struct {
	ID             int       `json:"id" gorm:"primaryKey"`                  // Primary key
	Title          string    `json:"title" gorm:"not null"`                 // Job title
	Description    string    `json:"description" gorm:"not null"`           // Job description
	PostedBy       int       `json:"postedBy" gorm:"not null;index"`        // Foreign key to User
	SkillsRequired []string  `json:"skillsRequired" gorm:"serializer:json"` // Skills needed for the job
	Compensation   int       `json:"compensation" gorm:"not null"`          // Pay in whole dollars
	Status         string    `json:"status"`                                // open, assigned or completed
	CreatedAt      time.Time `json:"createdAt" gorm:"autoCreateTime"`       // Timestamp of creation
}
