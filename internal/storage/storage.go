package storage

import (
	"errors" // Sentinel errors

	"edubridge/internal/domain" // Importing domain models
)

// ErrNotFound is returned when a record id or lookup key matches nothing
var ErrNotFound = errors.New("record not found")

// StudentWithUser joins a student profile with its owning user
type StudentWithUser struct {
	domain.StudentProfile             // The student profile
	User                  domain.User // The owning user
}

// StudentWithApplication additionally carries the student's first pending application, if any
type StudentWithApplication struct {
	domain.StudentProfile                            // The student profile
	User                  domain.User                // The owning user
	Application           *domain.FundingApplication // First pending application in insertion order, nil if none
}

// Storage is the record store shared by all handlers.
// Records are keyed by monotonic per-kind integer ids; ids are never reused
// and no entity kind supports deletion. Partial updates are shallow merges:
// fields absent from the patch are preserved, fields present overwrite
// entirely (a new skills list replaces the old one wholesale).
type Storage interface {
	// User methods
	GetAllUsers() ([]domain.User, error)
	GetUser(id int) (*domain.User, error)
	GetUserByUsername(username string) (*domain.User, error)
	GetUserByEmail(email string) (*domain.User, error)
	CreateUser(user domain.User) (*domain.User, error)
	UpdateUser(id int, patch UserPatch) (*domain.User, error)

	// Student profile methods (looked up by owning user id, first match)
	GetStudentProfile(userID int) (*domain.StudentProfile, error)
	CreateStudentProfile(profile domain.StudentProfile) (*domain.StudentProfile, error)
	UpdateStudentProfile(userID int, patch StudentProfilePatch) (*domain.StudentProfile, error)

	// Sponsor profile methods (looked up by owning user id, first match)
	GetSponsorProfile(userID int) (*domain.SponsorProfile, error)
	CreateSponsorProfile(profile domain.SponsorProfile) (*domain.SponsorProfile, error)
	UpdateSponsorProfile(userID int, patch SponsorProfilePatch) (*domain.SponsorProfile, error)

	// Funding application methods
	GetFundingApplication(id int) (*domain.FundingApplication, error)
	GetStudentApplications(studentID int) ([]domain.FundingApplication, error)
	CreateFundingApplication(application domain.FundingApplication) (*domain.FundingApplication, error)
	UpdateFundingApplicationStatus(id int, status string) (*domain.FundingApplication, error)
	GetAllPendingApplications() ([]domain.FundingApplication, error)

	// Sponsorship methods
	CreateSponsorship(sponsorship domain.Sponsorship) (*domain.Sponsorship, error)
	GetSponsorships(sponsorID int) ([]domain.Sponsorship, error)
	GetStudentSponsorships(studentID int) ([]domain.Sponsorship, error)
	UpdateSponsorshipPaymentID(id int, paymentID string) (*domain.Sponsorship, error)

	// Micro-job methods
	CreateMicroJob(job domain.MicroJob) (*domain.MicroJob, error)
	GetAllMicroJobs() ([]domain.MicroJob, error)
	GetMicroJob(id int) (*domain.MicroJob, error)
	UpdateMicroJobStatus(id int, status string) (*domain.MicroJob, error)

	// Matching candidate joins
	GetAllStudentsForMatching() ([]StudentWithUser, error)
	GetStudentsForSponsorMatching() ([]StudentWithApplication, error)
}

// UserPatch is a shallow-merge partial update for a User
type UserPatch struct {
	Email            *string `json:"email"`            // New email, if set
	Password         *string `json:"-"`                // New password hash, if set
	DisplayName      *string `json:"displayName"`      // New display name, if set
	ProfileCompleted *bool   `json:"profileCompleted"` // New completion flag, if set
}

// Apply merges the non-nil patch fields over the user
func (p UserPatch) Apply(u *domain.User) {
	if p.Email != nil {
		u.Email = *p.Email // Overwrite email
	}
	if p.Password != nil {
		u.Password = *p.Password // Overwrite password hash
	}
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName // Overwrite display name
	}
	if p.ProfileCompleted != nil {
		u.ProfileCompleted = *p.ProfileCompleted // Overwrite completion flag
	}
}

// StudentProfilePatch is a shallow-merge partial update for a StudentProfile
type StudentProfilePatch struct {
	Age             *int            `json:"age"`             // New age, if set
	EducationLevel  *string         `json:"educationLevel"`  // New education level, if set
	Course          *string         `json:"course"`          // New course, if set
	InstitutionName *string         `json:"institutionName"` // New institution, if set
	FinancialNeed   *int            `json:"financialNeed"`   // New financial need, if set
	Skills          *[]string       `json:"skills"`          // Replacement skills list, if set
	Bio             *string         `json:"bio"`             // New bio, if set
	Documents       *map[string]any `json:"documents"`       // Replacement documents blob, if set
}

// Apply merges the non-nil patch fields over the profile
func (p StudentProfilePatch) Apply(sp *domain.StudentProfile) {
	if p.Age != nil {
		sp.Age = p.Age // Overwrite age
	}
	if p.EducationLevel != nil {
		sp.EducationLevel = p.EducationLevel // Overwrite education level
	}
	if p.Course != nil {
		sp.Course = p.Course // Overwrite course
	}
	if p.InstitutionName != nil {
		sp.InstitutionName = p.InstitutionName // Overwrite institution
	}
	if p.FinancialNeed != nil {
		sp.FinancialNeed = p.FinancialNeed // Overwrite financial need
	}
	if p.Skills != nil {
		sp.Skills = *p.Skills // Replace skills list wholesale
	}
	if p.Bio != nil {
		sp.Bio = p.Bio // Overwrite bio
	}
	if p.Documents != nil {
		sp.Documents = *p.Documents // Replace documents blob wholesale
	}
}

// SponsorProfilePatch is a shallow-merge partial update for a SponsorProfile
type SponsorProfilePatch struct {
	Type         *string   `json:"type"`         // New sponsor type, if set
	Organization *string   `json:"organization"` // New organization, if set
	Website      *string   `json:"website"`      // New website, if set
	FocusAreas   *[]string `json:"focusAreas"`   // Replacement focus areas, if set
	Bio          *string   `json:"bio"`          // New bio, if set
}

// Apply merges the non-nil patch fields over the profile
func (p SponsorProfilePatch) Apply(sp *domain.SponsorProfile) {
	if p.Type != nil {
		sp.Type = p.Type // Overwrite sponsor type
	}
	if p.Organization != nil {
		sp.Organization = p.Organization // Overwrite organization
	}
	if p.Website != nil {
		sp.Website = p.Website // Overwrite website
	}
	if p.FocusAreas != nil {
		sp.FocusAreas = *p.FocusAreas // Replace focus areas wholesale
	}
	if p.Bio != nil {
		sp.Bio = p.Bio // Overwrite bio
	}
}
