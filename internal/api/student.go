package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"edubridge/internal/domain"  // Importing domain models
	"edubridge/internal/storage" // Record store interface

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// CreateStudentProfileRequest represents a student profile creation request
type CreateStudentProfileRequest struct {
	UserID          int            `json:"userId" binding:"required"` // Owning user must be provided
	Age             *int           `json:"age"`                       // Student age, optional
	EducationLevel  *string        `json:"educationLevel"`            // Education level, optional
	Course          *string        `json:"course"`                    // Course of study, optional
	InstitutionName *string        `json:"institutionName"`           // Institution, optional
	FinancialNeed   *int           `json:"financialNeed"`             // Needed amount, optional
	Skills          []string       `json:"skills"`                    // Skills list, optional
	Bio             *string        `json:"bio"`                       // Biography, optional
	Documents       map[string]any `json:"documents"`                 // Supporting documents, optional
}

// CreateStudentProfileHandler creates a profile for a student user and marks
// the account's profile as completed (a second store write, not transactional)
func CreateStudentProfileHandler(s storage.Storage, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateStudentProfileRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		// Check that the user exists
		user, err := s.GetUser(req.UserID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		// Only students can create student profiles
		if user.Role != domain.RoleStudent {
			c.JSON(http.StatusForbidden, gin.H{"message": "Only students can create student profiles"})
			return
		}
		// Create the profile
		profile, err := s.CreateStudentProfile(domain.StudentProfile{
			UserID:          req.UserID,          // Owning user
			Age:             req.Age,             // Age
			EducationLevel:  req.EducationLevel,  // Education level
			Course:          req.Course,          // Course
			InstitutionName: req.InstitutionName, // Institution
			FinancialNeed:   req.FinancialNeed,   // Financial need
			Skills:          req.Skills,          // Skills
			Bio:             req.Bio,             // Bio
			Documents:       req.Documents,       // Documents
		})
		if err != nil {
			// If creation fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		// Flip the user's completion flag as a second write
		completed := true
		if _, err := s.UpdateUser(user.ID, storage.UserPatch{ProfileCompleted: &completed}); err != nil {
			// The profile is already stored; log and carry on
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // Owning user
				"error":   err.Error(), // Error message
			}).Warn("Failed to mark profile completed")
		}
		// Log the profile creation
		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,    // Owning user
			"profile_id": profile.ID, // New profile ID
		}).Info("Student profile created")
		invalidateMatchCache(rdb) // The candidate set changed
		c.JSON(http.StatusCreated, profile)
	}
}

// GetStudentProfileHandler returns the profile owned by the given user
func GetStudentProfileHandler(s storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Param("userId")) // Parse the path parameter
		if err != nil {
			// If the id is not an integer, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
			return
		}
		// Fetch the profile
		profile, err := s.GetStudentProfile(userID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Student profile not found"})
				return
			}
			// Any other store failure is a server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// UpdateStudentProfileHandler shallow-merges a partial payload over the profile
func UpdateStudentProfileHandler(s storage.Storage, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Param("userId")) // Parse the path parameter
		if err != nil {
			// If the id is not an integer, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
			return
		}
		var patch storage.StudentProfilePatch // Bind partial payload; absent fields stay nil
		if err := c.ShouldBindJSON(&patch); err != nil {
			// If the body is malformed, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		// Merge the patch over the stored profile
		profile, err := s.UpdateStudentProfile(userID, patch)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Student profile not found"})
				return
			}
			// Any other store failure is a server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		invalidateMatchCache(rdb) // The candidate set changed
		c.JSON(http.StatusOK, profile)
	}
}
