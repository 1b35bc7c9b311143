package storage

import (
	"errors" // Error inspection

	"edubridge/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// GormStorage is the MySQL-backed record store, selected when a database is
// configured. Autoincrement primary keys keep id assignment monotonic and
// ORDER BY id reproduces the in-memory backend's insertion-order scans.
// No entity kind is ever deleted.
type GormStorage struct {
	db *gorm.DB // Database handle
}

// NewGormStorage wraps a gorm connection in the Storage interface
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// translate maps gorm's not-found error onto the storage sentinel
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound // Missing record
	}
	return err // Anything else passes through
}

// User methods

// GetAllUsers returns every user in insertion order
func (s *GormStorage) GetAllUsers() ([]domain.User, error) {
	var users []domain.User
	// Fetch all users ordered by id
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, err // Return DB error
	}
	return users, nil
}

// GetUser returns the user with the given id
func (s *GormStorage) GetUser(id int) (*domain.User, error) {
	var user domain.User
	// Fetch by primary key
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, translate(err) // Not found or DB error
	}
	return &user, nil
}

// GetUserByUsername returns the first user with an exact username match
func (s *GormStorage) GetUserByUsername(username string) (*domain.User, error) {
	var user domain.User
	// First match in id order, case-sensitive via binary comparison
	if err := s.db.Where("BINARY username = ?", username).Order("id").First(&user).Error; err != nil {
		return nil, translate(err) // Not found or DB error
	}
	return &user, nil
}

// GetUserByEmail returns the first user with an exact email match
func (s *GormStorage) GetUserByEmail(email string) (*domain.User, error) {
	var user domain.User
	// First match in id order, case-sensitive via binary comparison
	if err := s.db.Where("BINARY email = ?", email).Order("id").First(&user).Error; err != nil {
		return nil, translate(err) // Not found or DB error
	}
	return &user, nil
}

// CreateUser inserts the record and lets MySQL assign the id
func (s *GormStorage) CreateUser(user domain.User) (*domain.User, error) {
	user.ID = 0                   // Let the autoincrement assign the id
	user.ProfileCompleted = false // New users start without a profile
	// Insert the user
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err // Return DB error (e.g. unique violation)
	}
	return &user, nil
}

// UpdateUser shallow-merges the patch over the stored user
func (s *GormStorage) UpdateUser(id int, patch UserPatch) (*domain.User, error) {
	var user domain.User
	// Fetch the current record
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, translate(err) // Not found or DB error
	}
	patch.Apply(&user) // Merge patch fields
	// Persist the merged record
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err // Return DB error
	}
	return &user, nil
}

// Student profile methods

// GetStudentProfile returns the first profile owned by the given user
func (s *GormStorage) GetStudentProfile(userID int) (*domain.StudentProfile, error) {
	var profile domain.StudentProfile
	// First match in id order (duplicates for the same user stay hidden)
	if err := s.db.Where("user_id = ?", userID).Order("id").First(&profile).Error; err != nil {
		return nil, translate(err) // Not found or DB error
	}
	return &profile, nil
}

// CreateStudentProfile inserts the record and lets MySQL assign the id
func (s *GormStorage) CreateStudentProfile(profile domain.StudentProfile) (*domain.StudentProfile, error) {
	profile.ID = 0 // Let the autoincrement assign the id
	if profile.Documents == nil {
		profile.Documents = map[string]any{} // Default empty documents blob
	}
	// Insert the profile
	if err := s.db.Create(&profile).Error; err != nil {
		return nil, err // Return DB error
	}
	return &profile, nil
}

// UpdateStudentProfile shallow-merges the patch over the user's profile
func (s *GormStorage) UpdateStudentProfile(userID int, patch StudentProfilePatch) (*domain.StudentProfile, error) {
	var profile domain.StudentProfile
	// Locate the first profile for this user, as the read side does
	if err := s.db.Where("user_id = ?", userID).Order("id").First(&profile).Error; err != nil {
		return nil, translate(err) // Not found or DB error
	}
	patch.Apply(&profile) // Merge patch fields
	// Persist the merged record
	if err := s.db.Save(&profile).Error; err != nil {
		return nil, err // Return DB error
	}
	return &profile, nil
}

// Sponsor profile methods

// GetSponsorProfile returns the first profile owned by the given user
func (s *GormStorage) GetSponsorProfile(userID int) (*domain.SponsorProfile, error) {
	var profile domain.SponsorProfile
	// First match in id order
	if err := s.db.Where("user_id = ?", userID).Order("id").First(&profile).Error; err != nil {
		return nil, translate(err) // Not found or DB error
	}
	return &profile, nil
}

// CreateSponsorProfile inserts the record and lets MySQL assign the id
func (s *GormStorage) CreateSponsorProfile(profile domain.SponsorProfile) (*domain.SponsorProfile, error) {
	profile.ID = 0 // Let the autoincrement assign the id
	// Insert the profile
	if err := s.db.Create(&profile).Error; err != nil {
		return nil, err // Return DB error
	}
	return &profile, nil
}

// UpdateSponsorProfile shallow-merges the patch over the user's profile
func (s *GormStorage) UpdateSponsorProfile(userID int, patch SponsorProfilePatch) (*domain.SponsorProfile, error) {
	var profile domain.SponsorProfile
	// Locate the first profile for this user, as the read side does
	if err := s.db.Where("user_id = ?", userID).Order("id").First(&profile).Error; err != nil {
		return nil, translate(err) // Not found or DB error
	}
	patch.Apply(&profile) // Merge patch fields
	// Persist the merged record
	if err := s.db.Save(&profile).Error; err != nil {
		return nil, err // Return DB error
	}
	return &profile, nil
}

// Funding application methods

// GetFundingApplication returns the application with the given id
func (s *GormStorage) GetFundingApplication(id int) (*domain.FundingApplication, error) {
	var application domain.FundingApplication
	// Fetch by primary key
	if err := s.db.First(&application, id).Error; err != nil {
		return nil, translate(err) // Not found or DB error
	}
	return &application, nil
}

// GetStudentApplications returns all of a student's applications in insertion order
func (s *GormStorage) GetStudentApplications(studentID int) ([]domain.FundingApplication, error) {
	applications := make([]domain.FundingApplication, 0)
	// All matches ordered by id
	if err := s.db.Where("student_id = ?", studentID).Order("id").Find(&applications).Error; err != nil {
		return nil, err // Return DB error
	}
	return applications, nil
}

// CreateFundingApplication inserts a new application with forced defaults.
// Any status or createdAt supplied by the caller is overwritten.
func (s *GormStorage) CreateFundingApplication(application domain.FundingApplication) (*domain.FundingApplication, error) {
	application.ID = 0                             // Let the autoincrement assign the id
	application.Status = domain.ApplicationPending // Applications always start pending
	if application.Documents == nil {
		application.Documents = map[string]any{} // Default empty documents blob
	}
	// Insert the application; gorm stamps CreatedAt
	if err := s.db.Create(&application).Error; err != nil {
		return nil, err // Return DB error
	}
	return &application, nil
}

// UpdateFundingApplicationStatus replaces the application's status.
// Any of the three states is accepted from any current state.
func (s *GormStorage) UpdateFundingApplicationStatus(id int, status string) (*domain.FundingApplication, error) {
	var application domain.FundingApplication
	// Fetch the current record
	if err := s.db.First(&application, id).Error; err != nil {
		return nil, translate(err) // Not found or DB error
	}
	application.Status = status // Overwrite status
	// Persist the updated record
	if err := s.db.Save(&application).Error; err != nil {
		return nil, err // Return DB error
	}
	return &application, nil
}

// GetAllPendingApplications returns applications still awaiting a decision
func (s *GormStorage) GetAllPendingApplications() ([]domain.FundingApplication, error) {
	applications := make([]domain.FundingApplication, 0)
	// Filter by status, ordered by id
	if err := s.db.Where("status = ?", domain.ApplicationPending).Order("id").Find(&applications).Error; err != nil {
		return nil, err // Return DB error
	}
	return applications, nil
}

// Sponsorship methods

// CreateSponsorship inserts a new sponsorship with forced defaults
func (s *GormStorage) CreateSponsorship(sponsorship domain.Sponsorship) (*domain.Sponsorship, error) {
	sponsorship.ID = 0                            // Let the autoincrement assign the id
	sponsorship.Status = domain.SponsorshipActive // Sponsorships always start active
	sponsorship.PaymentID = ""                    // Payment reference is attached later
	// Insert the sponsorship; gorm stamps CreatedAt
	if err := s.db.Create(&sponsorship).Error; err != nil {
		return nil, err // Return DB error
	}
	return &sponsorship, nil
}

// GetSponsorships returns all sponsorships created by a sponsor profile
func (s *GormStorage) GetSponsorships(sponsorID int) ([]domain.Sponsorship, error) {
	sponsorships := make([]domain.Sponsorship, 0)
	// All matches ordered by id
	if err := s.db.Where("sponsor_id = ?", sponsorID).Order("id").Find(&sponsorships).Error; err != nil {
		return nil, err // Return DB error
	}
	return sponsorships, nil
}

// GetStudentSponsorships returns all sponsorships benefiting a student profile
func (s *GormStorage) GetStudentSponsorships(studentID int) ([]domain.Sponsorship, error) {
	sponsorships := make([]domain.Sponsorship, 0)
	// All matches ordered by id
	if err := s.db.Where("student_id = ?", studentID).Order("id").Find(&sponsorships).Error; err != nil {
		return nil, err // Return DB error
	}
	return sponsorships, nil
}

// UpdateSponsorshipPaymentID attaches the external payment reference
func (s *GormStorage) UpdateSponsorshipPaymentID(id int, paymentID string) (*domain.Sponsorship, error) {
	var sponsorship domain.Sponsorship
	// Fetch the current record
	if err := s.db.First(&sponsorship, id).Error; err != nil {
		return nil, translate(err) // Not found or DB error
	}
	sponsorship.PaymentID = paymentID // Overwrite payment reference
	// Persist the updated record
	if err := s.db.Save(&sponsorship).Error; err != nil {
		return nil, err // Return DB error
	}
	return &sponsorship, nil
}

// Micro-job methods

// CreateMicroJob inserts a new micro-job with forced defaults
func (s *GormStorage) CreateMicroJob(job domain.MicroJob) (*domain.MicroJob, error) {
	job.ID = 0                       // Let the autoincrement assign the id
	job.Status = domain.MicroJobOpen // Micro-jobs always start open
	// Insert the job; gorm stamps CreatedAt
	if err := s.db.Create(&job).Error; err != nil {
		return nil, err // Return DB error
	}
	return &job, nil
}

// GetAllMicroJobs returns every micro-job in insertion order; callers filter by status
func (s *GormStorage) GetAllMicroJobs() ([]domain.MicroJob, error) {
	jobs := make([]domain.MicroJob, 0)
	// Fetch all jobs ordered by id
	if err := s.db.Order("id").Find(&jobs).Error; err != nil {
		return nil, err // Return DB error
	}
	return jobs, nil
}

// GetMicroJob returns the micro-job with the given id
func (s *GormStorage) GetMicroJob(id int) (*domain.MicroJob, error) {
	var job domain.MicroJob
	// Fetch by primary key
	if err := s.db.First(&job, id).Error; err != nil {
		return nil, translate(err) // Not found or DB error
	}
	return &job, nil
}

// UpdateMicroJobStatus replaces the job's status
func (s *GormStorage) UpdateMicroJobStatus(id int, status string) (*domain.MicroJob, error) {
	var job domain.MicroJob
	// Fetch the current record
	if err := s.db.First(&job, id).Error; err != nil {
		return nil, translate(err) // Not found or DB error
	}
	job.Status = status // Overwrite status
	// Persist the updated record
	if err := s.db.Save(&job).Error; err != nil {
		return nil, err // Return DB error
	}
	return &job, nil
}

// Matching candidate joins

// GetAllStudentsForMatching joins every student profile with its owning user.
// Profiles whose userId dangles are skipped.
func (s *GormStorage) GetAllStudentsForMatching() ([]StudentWithUser, error) {
	var profiles []domain.StudentProfile
	// Profiles in insertion order
	if err := s.db.Order("id").Find(&profiles).Error; err != nil {
		return nil, err // Return DB error
	}
	students := make([]StudentWithUser, 0, len(profiles))
	for _, p := range profiles {
		var user domain.User
		// Join the owning user
		if err := s.db.First(&user, p.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // Dangling userId, skip the candidate
			}
			return nil, err // Return DB error
		}
		students = append(students, StudentWithUser{StudentProfile: p, User: user})
	}
	return students, nil
}

// GetStudentsForSponsorMatching joins every student profile with its owning
// user and the student's first pending application in insertion order.
func (s *GormStorage) GetStudentsForSponsorMatching() ([]StudentWithApplication, error) {
	var profiles []domain.StudentProfile
	// Profiles in insertion order
	if err := s.db.Order("id").Find(&profiles).Error; err != nil {
		return nil, err // Return DB error
	}
	students := make([]StudentWithApplication, 0, len(profiles))
	for _, p := range profiles {
		var user domain.User
		// Join the owning user
		if err := s.db.First(&user, p.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // Dangling userId, skip the candidate
			}
			return nil, err // Return DB error
		}
		// First pending application by id, not latest by timestamp
		var pending *domain.FundingApplication
		var application domain.FundingApplication
		err := s.db.Where("student_id = ? AND status = ?", p.ID, domain.ApplicationPending).Order("id").First(&application).Error
		if err == nil {
			pending = &application // Found one
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err // Return DB error
		}
		students = append(students, StudentWithApplication{StudentProfile: p, User: user, Application: pending})
	}
	return students, nil
}
