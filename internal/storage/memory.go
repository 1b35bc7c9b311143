package storage

import (
	"sync" // Mutex guarding the maps
	"time" // Creation timestamps

	"edubridge/internal/domain" // Importing domain models
)

// MemStorage is the default in-process record store: one map and one
// monotonic id counter per entity kind. Ids start at 1 and are never reused,
// so iterating ids in ascending order reproduces insertion order exactly.
// The mutex only keeps map access safe; there is no versioning and no
// transaction spanning multiple writes (last write wins).
type MemStorage struct {
	mu sync.RWMutex // Guards everything below

	users               map[int]domain.User               // Users by id
	studentProfiles     map[int]domain.StudentProfile     // Student profiles by id
	sponsorProfiles     map[int]domain.SponsorProfile     // Sponsor profiles by id
	fundingApplications map[int]domain.FundingApplication // Funding applications by id
	sponsorships        map[int]domain.Sponsorship        // Sponsorships by id
	microJobs           map[int]domain.MicroJob           // Micro-jobs by id

	nextUserID               int // Next user id
	nextStudentProfileID     int // Next student profile id
	nextSponsorProfileID     int // Next sponsor profile id
	nextFundingApplicationID int // Next funding application id
	nextSponsorshipID        int // Next sponsorship id
	nextMicroJobID           int // Next micro-job id
}

// NewMemStorage creates an empty in-memory store with all counters at 1
func NewMemStorage() *MemStorage {
	return &MemStorage{
		users:                    make(map[int]domain.User),
		studentProfiles:          make(map[int]domain.StudentProfile),
		sponsorProfiles:          make(map[int]domain.SponsorProfile),
		fundingApplications:      make(map[int]domain.FundingApplication),
		sponsorships:             make(map[int]domain.Sponsorship),
		microJobs:                make(map[int]domain.MicroJob),
		nextUserID:               1,
		nextStudentProfileID:     1,
		nextSponsorProfileID:     1,
		nextFundingApplicationID: 1,
		nextSponsorshipID:        1,
		nextMicroJobID:           1,
	}
}

// User methods

// GetAllUsers returns every user in insertion order
func (s *MemStorage) GetAllUsers() ([]domain.User, error) {
	s.mu.RLock()         // Acquire read lock
	defer s.mu.RUnlock() // Release on return
	users := make([]domain.User, 0, len(s.users))
	// Ids are dense from 1, so ascending ids equal insertion order
	for id := 1; id < s.nextUserID; id++ {
		if u, ok := s.users[id]; ok {
			users = append(users, u) // Collect user
		}
	}
	return users, nil
}

// GetUser returns the user with the given id
func (s *MemStorage) GetUser(id int) (*domain.User, error) {
	s.mu.RLock()         // Acquire read lock
	defer s.mu.RUnlock() // Release on return
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound // No such user
	}
	return &u, nil
}

// GetUserByUsername scans for the first user with an exact username match
func (s *MemStorage) GetUserByUsername(username string) (*domain.User, error) {
	s.mu.RLock()         // Acquire read lock
	defer s.mu.RUnlock() // Release on return
	// Full scan, first match, case-sensitive
	for id := 1; id < s.nextUserID; id++ {
		if u, ok := s.users[id]; ok && u.Username == username {
			return &u, nil // Found
		}
	}
	return nil, ErrNotFound // No match
}

// GetUserByEmail scans for the first user with an exact email match
func (s *MemStorage) GetUserByEmail(email string) (*domain.User, error) {
	s.mu.RLock()         // Acquire read lock
	defer s.mu.RUnlock() // Release on return
	// Full scan, first match, case-sensitive
	for id := 1; id < s.nextUserID; id++ {
		if u, ok := s.users[id]; ok && u.Email == email {
			return &u, nil // Found
		}
	}
	return nil, ErrNotFound // No match
}

// CreateUser assigns the next user id and inserts the record
func (s *MemStorage) CreateUser(user domain.User) (*domain.User, error) {
	s.mu.Lock()         // Acquire write lock
	defer s.mu.Unlock() // Release on return
	user.ID = s.nextUserID
	s.nextUserID++                // Advance the counter, ids are never reused
	user.ProfileCompleted = false // New users start without a profile
	s.users[user.ID] = user       // Insert
	return &user, nil
}

// UpdateUser shallow-merges the patch over the stored user
func (s *MemStorage) UpdateUser(id int, patch UserPatch) (*domain.User, error) {
	s.mu.Lock()         // Acquire write lock
	defer s.mu.Unlock() // Release on return
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound // No such user
	}
	patch.Apply(&u) // Merge patch fields
	s.users[id] = u // Replace in place
	return &u, nil
}

// Student profile methods

// GetStudentProfile scans for the first profile owned by the given user
func (s *MemStorage) GetStudentProfile(userID int) (*domain.StudentProfile, error) {
	s.mu.RLock()         // Acquire read lock
	defer s.mu.RUnlock() // Release on return
	// Full scan, first match (duplicates for the same user stay hidden)
	for id := 1; id < s.nextStudentProfileID; id++ {
		if p, ok := s.studentProfiles[id]; ok && p.UserID == userID {
			return &p, nil // Found
		}
	}
	return nil, ErrNotFound // No profile for this user
}

// CreateStudentProfile assigns the next profile id and inserts the record
func (s *MemStorage) CreateStudentProfile(profile domain.StudentProfile) (*domain.StudentProfile, error) {
	s.mu.Lock()         // Acquire write lock
	defer s.mu.Unlock() // Release on return
	profile.ID = s.nextStudentProfileID
	s.nextStudentProfileID++ // Advance the counter
	if profile.Documents == nil {
		profile.Documents = map[string]any{} // Default empty documents blob
	}
	s.studentProfiles[profile.ID] = profile // Insert
	return &profile, nil
}

// UpdateStudentProfile shallow-merges the patch over the user's profile
func (s *MemStorage) UpdateStudentProfile(userID int, patch StudentProfilePatch) (*domain.StudentProfile, error) {
	s.mu.Lock()         // Acquire write lock
	defer s.mu.Unlock() // Release on return
	// Locate the first profile for this user, as the read side does
	for id := 1; id < s.nextStudentProfileID; id++ {
		if p, ok := s.studentProfiles[id]; ok && p.UserID == userID {
			patch.Apply(&p)           // Merge patch fields
			s.studentProfiles[id] = p // Replace in place
			return &p, nil
		}
	}
	return nil, ErrNotFound // No profile for this user
}

// Sponsor profile methods

// GetSponsorProfile scans for the first profile owned by the given user
func (s *MemStorage) GetSponsorProfile(userID int) (*domain.SponsorProfile, error) {
	s.mu.RLock()         // Acquire read lock
	defer s.mu.RUnlock() // Release on return
	// Full scan, first match
	for id := 1; id < s.nextSponsorProfileID; id++ {
		if p, ok := s.sponsorProfiles[id]; ok && p.UserID == userID {
			return &p, nil // Found
		}
	}
	return nil, ErrNotFound // No profile for this user
}

// CreateSponsorProfile assigns the next profile id and inserts the record
func (s *MemStorage) CreateSponsorProfile(profile domain.SponsorProfile) (*domain.SponsorProfile, error) {
	s.mu.Lock()         // Acquire write lock
	defer s.mu.Unlock() // Release on return
	profile.ID = s.nextSponsorProfileID
	s.nextSponsorProfileID++                // Advance the counter
	s.sponsorProfiles[profile.ID] = profile // Insert
	return &profile, nil
}

// UpdateSponsorProfile shallow-merges the patch over the user's profile
func (s *MemStorage) UpdateSponsorProfile(userID int, patch SponsorProfilePatch) (*domain.SponsorProfile, error) {
	s.mu.Lock()         // Acquire write lock
	defer s.mu.Unlock() // Release on return
	// Locate the first profile for this user, as the read side does
	for id := 1; id < s.nextSponsorProfileID; id++ {
		if p, ok := s.sponsorProfiles[id]; ok && p.UserID == userID {
			patch.Apply(&p)           // Merge patch fields
			s.sponsorProfiles[id] = p // Replace in place
			return &p, nil
		}
	}
	return nil, ErrNotFound // No profile for this user
}

// Funding application methods

// GetFundingApplication returns the application with the given id
func (s *MemStorage) GetFundingApplication(id int) (*domain.FundingApplication, error) {
	s.mu.RLock()         // Acquire read lock
	defer s.mu.RUnlock() // Release on return
	a, ok := s.fundingApplications[id]
	if !ok {
		return nil, ErrNotFound // No such application
	}
	return &a, nil
}

// GetStudentApplications returns all of a student's applications in insertion order
func (s *MemStorage) GetStudentApplications(studentID int) ([]domain.FundingApplication, error) {
	s.mu.RLock()         // Acquire read lock
	defer s.mu.RUnlock() // Release on return
	applications := make([]domain.FundingApplication, 0)
	// Full scan, all matches, insertion order
	for id := 1; id < s.nextFundingApplicationID; id++ {
		if a, ok := s.fundingApplications[id]; ok && a.StudentID == studentID {
			applications = append(applications, a) // Collect match
		}
	}
	return applications, nil
}

// CreateFundingApplication inserts a new application with forced defaults.
// Any status or createdAt supplied by the caller is overwritten.
func (s *MemStorage) CreateFundingApplication(application domain.FundingApplication) (*domain.FundingApplication, error) {
	s.mu.Lock()         // Acquire write lock
	defer s.mu.Unlock() // Release on return
	application.ID = s.nextFundingApplicationID
	s.nextFundingApplicationID++                   // Advance the counter
	application.Status = domain.ApplicationPending // Applications always start pending
	application.CreatedAt = time.Now()             // Creation timestamp, immutable afterwards
	if application.Documents == nil {
		application.Documents = map[string]any{} // Default empty documents blob
	}
	s.fundingApplications[application.ID] = application // Insert
	return &application, nil
}

// UpdateFundingApplicationStatus replaces the application's status.
// Any of the three states is accepted from any current state.
func (s *MemStorage) UpdateFundingApplicationStatus(id int, status string) (*domain.FundingApplication, error) {
	s.mu.Lock()         // Acquire write lock
	defer s.mu.Unlock() // Release on return
	a, ok := s.fundingApplications[id]
	if !ok {
		return nil, ErrNotFound // No such application
	}
	a.Status = status             // Overwrite status
	s.fundingApplications[id] = a // Replace in place
	return &a, nil
}

// GetAllPendingApplications returns applications still awaiting a decision
func (s *MemStorage) GetAllPendingApplications() ([]domain.FundingApplication, error) {
	s.mu.RLock()         // Acquire read lock
	defer s.mu.RUnlock() // Release on return
	applications := make([]domain.FundingApplication, 0)
	// Full scan filtered by status, insertion order
	for id := 1; id < s.nextFundingApplicationID; id++ {
		if a, ok := s.fundingApplications[id]; ok && a.Status == domain.ApplicationPending {
			applications = append(applications, a) // Collect pending application
		}
	}
	return applications, nil
}

// Sponsorship methods

// CreateSponsorship inserts a new sponsorship with forced defaults
func (s *MemStorage) CreateSponsorship(sponsorship domain.Sponsorship) (*domain.Sponsorship, error) {
	s.mu.Lock()         // Acquire write lock
	defer s.mu.Unlock() // Release on return
	sponsorship.ID = s.nextSponsorshipID
	s.nextSponsorshipID++                         // Advance the counter
	sponsorship.Status = domain.SponsorshipActive // Sponsorships always start active
	sponsorship.PaymentID = ""                    // Payment reference is attached later
	sponsorship.CreatedAt = time.Now()            // Creation timestamp
	s.sponsorships[sponsorship.ID] = sponsorship  // Insert
	return &sponsorship, nil
}

// GetSponsorships returns all sponsorships created by a sponsor profile
func (s *MemStorage) GetSponsorships(sponsorID int) ([]domain.Sponsorship, error) {
	s.mu.RLock()         // Acquire read lock
	defer s.mu.RUnlock() // Release on return
	sponsorships := make([]domain.Sponsorship, 0)
	// Full scan, all matches, insertion order
	for id := 1; id < s.nextSponsorshipID; id++ {
		if sp, ok := s.sponsorships[id]; ok && sp.SponsorID == sponsorID {
			sponsorships = append(sponsorships, sp) // Collect match
		}
	}
	return sponsorships, nil
}

// GetStudentSponsorships returns all sponsorships benefiting a student profile
func (s *MemStorage) GetStudentSponsorships(studentID int) ([]domain.Sponsorship, error) {
	s.mu.RLock()         // Acquire read lock
	defer s.mu.RUnlock() // Release on return
	sponsorships := make([]domain.Sponsorship, 0)
	// Full scan, all matches, insertion order
	for id := 1; id < s.nextSponsorshipID; id++ {
		if sp, ok := s.sponsorships[id]; ok && sp.StudentID == studentID {
			sponsorships = append(sponsorships, sp) // Collect match
		}
	}
	return sponsorships, nil
}

// UpdateSponsorshipPaymentID attaches the external payment reference
func (s *MemStorage) UpdateSponsorshipPaymentID(id int, paymentID string) (*domain.Sponsorship, error) {
	s.mu.Lock()         // Acquire write lock
	defer s.mu.Unlock() // Release on return
	sp, ok := s.sponsorships[id]
	if !ok {
		return nil, ErrNotFound // No such sponsorship
	}
	sp.PaymentID = paymentID // Overwrite payment reference
	s.sponsorships[id] = sp  // Replace in place
	return &sp, nil
}

// Micro-job methods

// CreateMicroJob inserts a new micro-job with forced defaults
func (s *MemStorage) CreateMicroJob(job domain.MicroJob) (*domain.MicroJob, error) {
	s.mu.Lock()         // Acquire write lock
	defer s.mu.Unlock() // Release on return
	job.ID = s.nextMicroJobID
	s.nextMicroJobID++               // Advance the counter
	job.Status = domain.MicroJobOpen // Micro-jobs always start open
	job.CreatedAt = time.Now()       // Creation timestamp
	s.microJobs[job.ID] = job        // Insert
	return &job, nil
}

// GetAllMicroJobs returns every micro-job in insertion order; callers filter by status
func (s *MemStorage) GetAllMicroJobs() ([]domain.MicroJob, error) {
	s.mu.RLock()         // Acquire read lock
	defer s.mu.RUnlock() // Release on return
	jobs := make([]domain.MicroJob, 0, len(s.microJobs))
	// Full scan, insertion order
	for id := 1; id < s.nextMicroJobID; id++ {
		if j, ok := s.microJobs[id]; ok {
			jobs = append(jobs, j) // Collect job
		}
	}
	return jobs, nil
}

// GetMicroJob returns the micro-job with the given id
func (s *MemStorage) GetMicroJob(id int) (*domain.MicroJob, error) {
	s.mu.RLock()         // Acquire read lock
	defer s.mu.RUnlock() // Release on return
	j, ok := s.microJobs[id]
	if !ok {
		return nil, ErrNotFound // No such job
	}
	return &j, nil
}

// UpdateMicroJobStatus replaces the job's status
func (s *MemStorage) UpdateMicroJobStatus(id int, status string) (*domain.MicroJob, error) {
	s.mu.Lock()         // Acquire write lock
	defer s.mu.Unlock() // Release on return
	j, ok := s.microJobs[id]
	if !ok {
		return nil, ErrNotFound // No such job
	}
	j.Status = status   // Overwrite status
	s.microJobs[id] = j // Replace in place
	return &j, nil
}

// Matching candidate joins

// GetAllStudentsForMatching joins every student profile with its owning user.
// Profiles whose userId dangles are skipped.
func (s *MemStorage) GetAllStudentsForMatching() ([]StudentWithUser, error) {
	s.mu.RLock()         // Acquire read lock
	defer s.mu.RUnlock() // Release on return
	students := make([]StudentWithUser, 0, len(s.studentProfiles))
	// Profiles in insertion order
	for id := 1; id < s.nextStudentProfileID; id++ {
		p, ok := s.studentProfiles[id]
		if !ok {
			continue // Gap, never happens without deletes
		}
		u, ok := s.users[p.UserID]
		if !ok {
			continue // Dangling userId, skip the candidate
		}
		students = append(students, StudentWithUser{StudentProfile: p, User: u})
	}
	return students, nil
}

// GetStudentsForSponsorMatching joins every student profile with its owning
// user and the student's first pending application found in insertion order.
func (s *MemStorage) GetStudentsForSponsorMatching() ([]StudentWithApplication, error) {
	s.mu.RLock()         // Acquire read lock
	defer s.mu.RUnlock() // Release on return
	students := make([]StudentWithApplication, 0, len(s.studentProfiles))
	// Profiles in insertion order
	for id := 1; id < s.nextStudentProfileID; id++ {
		p, ok := s.studentProfiles[id]
		if !ok {
			continue // Gap, never happens without deletes
		}
		u, ok := s.users[p.UserID]
		if !ok {
			continue // Dangling userId, skip the candidate
		}
		// First pending application in insertion order, not latest by timestamp
		var pending *domain.FundingApplication
		for appID := 1; appID < s.nextFundingApplicationID; appID++ {
			if a, ok := s.fundingApplications[appID]; ok && a.StudentID == p.ID && a.Status == domain.ApplicationPending {
				pending = &a // Keep the first match
				break
			}
		}
		students = append(students, StudentWithApplication{StudentProfile: p, User: u, Application: pending})
	}
	return students, nil
}
