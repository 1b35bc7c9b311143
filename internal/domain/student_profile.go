package domain

// StudentProfile Model - extended details for users with the student role
type StudentProfile struct {
	ID              int            `json:"id" gorm:"primaryKey"`             // Primary key
	UserID          int            `json:"userId" gorm:"not null;index"`     // Foreign key to User
	Age             *int           `json:"age"`                              // Student age, optional
	EducationLevel  *string        `json:"educationLevel"`                   // e.g. secondary, undergraduate
	Course          *string        `json:"course"`                           // Course of study
	InstitutionName *string        `json:"institutionName"`                  // Institution attended
	FinancialNeed   *int           `json:"financialNeed"`                    // Needed amount in whole dollars, optional
	Skills          []string       `json:"skills" gorm:"serializer:json"`    // Ordered list of skills
	Bio             *string        `json:"bio"`                              // Free-form biography
	Documents       map[string]any `json:"documents" gorm:"serializer:json"` // Opaque supporting documents blob
}
