package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"edubridge/internal/domain"  // Importing domain models
	"edubridge/internal/storage" // Record store interface

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// CreateSponsorshipRequest represents a sponsorship creation request
type CreateSponsorshipRequest struct {
	SponsorID         int  `json:"sponsorId" binding:"required"`   // Funding sponsor profile must be provided
	StudentID         int  `json:"studentId" binding:"required"`   // Benefiting student profile must be provided
	ApplicationID     *int `json:"applicationId"`                  // Application being fulfilled, optional
	Amount            int  `json:"amount" binding:"required,gt=0"` // Sponsored amount must be positive
	MentorshipOffered bool `json:"mentorshipOffered"`              // Whether mentorship is offered, optional
}

// CreateSponsorshipHandler creates a sponsorship; when it fulfils an
// application, that application is approved as a side effect.
func CreateSponsorshipHandler(s storage.Storage, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSponsorshipRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		// Create the sponsorship; the store forces status=active
		sponsorship, err := s.CreateSponsorship(domain.Sponsorship{
			SponsorID:         req.SponsorID,         // Funding sponsor
			StudentID:         req.StudentID,         // Benefiting student
			ApplicationID:     req.ApplicationID,     // Fulfilled application, if any
			Amount:            req.Amount,            // Sponsored amount
			MentorshipOffered: req.MentorshipOffered, // Mentorship flag
		})
		if err != nil {
			// If creation fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		// Fulfilling an application approves it
		if sponsorship.ApplicationID != nil {
			if _, err := s.UpdateFundingApplicationStatus(*sponsorship.ApplicationID, domain.ApplicationApproved); err != nil {
				// A dangling applicationId is representable; log and carry on
				logrus.WithFields(logrus.Fields{
					"sponsorship_id": sponsorship.ID,             // New sponsorship
					"application_id": *sponsorship.ApplicationID, // Referenced application
					"error":          err.Error(),                // Error message
				}).Warn("Failed to approve fulfilled application")
			}
		}
		// Log the sponsorship
		logrus.WithFields(logrus.Fields{
			"sponsorship_id": sponsorship.ID,        // New sponsorship ID
			"sponsor_id":     sponsorship.SponsorID, // Funding sponsor
			"student_id":     sponsorship.StudentID, // Benefiting student
			"amount":         sponsorship.Amount,    // Sponsored amount
		}).Info("Sponsorship created")
		invalidateMatchCache(rdb) // Approving an application changes the rankings
		c.JSON(http.StatusCreated, sponsorship)
	}
}

// ListSponsorSponsorshipsHandler returns a sponsor's sponsorships in insertion order
func ListSponsorSponsorshipsHandler(s storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		sponsorID, err := strconv.Atoi(c.Param("sponsorId")) // Parse the path parameter
		if err != nil {
			// If the id is not an integer, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid sponsor ID"})
			return
		}
		// Fetch the sponsor's sponsorships
		sponsorships, err := s.GetSponsorships(sponsorID)
		if err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, sponsorships)
	}
}

// ListStudentSponsorshipsHandler returns a student's sponsorships in insertion order
func ListStudentSponsorshipsHandler(s storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		studentID, err := strconv.Atoi(c.Param("studentId")) // Parse the path parameter
		if err != nil {
			// If the id is not an integer, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid student ID"})
			return
		}
		// Fetch the student's sponsorships
		sponsorships, err := s.GetStudentSponsorships(studentID)
		if err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, sponsorships)
	}
}
