package domain

// Sponsor types
const (
	SponsorIndividual = "individual" // Individual sponsor
	SponsorCorporate  = "corporate"  // Corporate sponsor
	SponsorNGO        = "ngo"        // NGO sponsor
)

// SponsorProfile Model - extended details for users with the sponsor role
type SponsorProfile struct {
	ID           int      `json:"id" gorm:"primaryKey"`              // Primary key
	UserID       int      `json:"userId" gorm:"not null;index"`      // Foreign key to User
	Type         *string  `json:"type"`                              // individual, corporate or ngo
	Organization *string  `json:"organization"`                      // Organization name
	Website      *string  `json:"website"`                           // Organization website
	FocusAreas   []string `json:"focusAreas" gorm:"serializer:json"` // Funding focus areas
	Bio          *string  `json:"bio"`                               // Free-form biography
}
