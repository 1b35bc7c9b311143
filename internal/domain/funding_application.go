package domain

import "time"

// Funding application statuses
const (
	ApplicationPending  = "pending"  // Awaiting a decision
	ApplicationApproved = "approved" // Approved for funding
	ApplicationRejected = "rejected" // Rejected
)

// FundingApplication Model - a student's request for funding
type FundingApplication struct {
	ID        int            `json:"id" gorm:"primaryKey"`             // Primary key
	StudentID int            `json:"studentId" gorm:"not null;index"`  // Foreign key to StudentProfile
	Amount    int            `json:"amount" gorm:"not null"`           // Requested amount in whole dollars
	Purpose   string         `json:"purpose" gorm:"not null"`          // What the funding is for
	Status    string         `json:"status"`                           // pending, approved or rejected
	CreatedAt time.Time      `json:"createdAt" gorm:"autoCreateTime"`  // Timestamp of creation, immutable
	Documents map[string]any `json:"documents" gorm:"serializer:json"` // Opaque supporting documents blob
}
