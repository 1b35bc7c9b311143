package domain

import "time"

// Sponsorship statuses
const (
	SponsorshipActive    = "active"    // Ongoing sponsorship
	SponsorshipCompleted = "completed" // Fulfilled sponsorship
	SponsorshipCancelled = "cancelled" // Cancelled sponsorship
)

// Sponsorship Model - the funded relationship between a sponsor and a student
type Sponsorship struct {
	ID                int       `json:"id" gorm:"primaryKey"`            // Primary key
	SponsorID         int       `json:"sponsorId" gorm:"not null;index"` // Foreign key to SponsorProfile
	StudentID         int       `json:"studentId" gorm:"not null;index"` // Foreign key to StudentProfile
	ApplicationID     *int      `json:"applicationId"`                   // Optional foreign key to FundingApplication
	Amount            int       `json:"amount" gorm:"not null"`          // Sponsored amount in whole dollars
	Status            string    `json:"status"`                          // active, completed or cancelled
	PaymentID         string    `json:"paymentId"`                       // External payment-provider reference
	CreatedAt         time.Time `json:"createdAt" gorm:"autoCreateTime"` // Timestamp of creation
	MentorshipOffered bool      `json:"mentorshipOffered"`               // Whether mentorship is offered alongside funding
}
