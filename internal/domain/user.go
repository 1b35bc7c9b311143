package domain

// User roles
const (
	RoleStudent = "student" // Students looking for funding
	RoleSponsor = "sponsor" // Sponsors providing funding
)

// User Model - common account record for both students and sponsors
type User struct {
	ID               int    `json:"id" gorm:"primaryKey"`            // Primary key
	Username         string `json:"username" gorm:"unique;not null"` // Unique username
	Password         string `json:"-" gorm:"not null"`               // Hashed password, never serialized
	Email            string `json:"email" gorm:"unique;not null"`    // Unique email address
	Role             string `json:"role" gorm:"not null"`            // Role: student or sponsor
	DisplayName      string `json:"displayName" gorm:"not null"`     // Public display name
	ProfileCompleted bool   `json:"profileCompleted"`                // Set once the matching-role profile exists
}
