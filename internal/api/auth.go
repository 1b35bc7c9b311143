package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"edubridge/internal/domain"  // Importing domain models
	"edubridge/internal/storage" // Record store interface
	"edubridge/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`                   // Username must be provided
	Password    string `json:"password" binding:"required"`                   // Password must be provided
	Email       string `json:"email" binding:"required"`                      // Email must be provided
	DisplayName string `json:"displayName" binding:"required"`                // Display name must be provided
	Role        string `json:"role" binding:"required,oneof=student sponsor"` // Role must be student or sponsor
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username or email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse is the login payload: the sanitized user plus a session token.
// The embedded user never serializes its password.
type AuthResponse struct {
	domain.User        // Sanitized user fields, flattened
	Token       string `json:"token"` // JWT token
}

// RegisterHandler creates a new user account
func RegisterHandler(s storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		// Check if the username is already taken
		if _, err := s.GetUserByUsername(req.Username); err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Username already exists"})
			return
		}
		// Check if the email is already in use
		if _, err := s.GetUserByEmail(req.Email); err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already in use"})
			return
		}
		// Hash the password before storing
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
			return
		}
		// Create the user
		user, err := s.CreateUser(domain.User{
			Username:    req.Username,    // Provided username
			Password:    string(hash),    // Hashed password
			Email:       req.Email,       // Provided email
			Role:        req.Role,        // Provided role
			DisplayName: req.DisplayName, // Provided display name
		})
		if err != nil {
			// If creation fails (e.g. unique violation on the DB backend), return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		// Log the registration
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,       // New user ID
			"username": user.Username, // Username
			"role":     user.Role,     // Role
		}).Info("User registered")
		// Return the user without the password
		c.JSON(http.StatusCreated, user)
	}
}

// LoginHandler authenticates a user and returns the user with a JWT token
func LoginHandler(s storage.Storage, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If either field is missing, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Username and password are required"})
			return
		}
		// Look the user up by exact username first
		user, err := s.GetUserByUsername(req.Username)
		if errors.Is(err, storage.ErrNotFound) && strings.Contains(req.Username, "@") {
			// Fall back to email lookup when the identifier looks like one
			user, err = s.GetUserByEmail(req.Username)
		}
		if err != nil {
			// No such user, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, user.Role, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
			return
		}
		// Log the login
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,       // User ID
			"username": user.Username, // Username
		}).Info("User logged in")
		// Return the user and the token
		c.JSON(http.StatusOK, AuthResponse{User: *user, Token: token})
	}
}

// MeHandler returns the authenticated user's account record
func MeHandler(s storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		// Fetch the user
		user, err := s.GetUser(userID.(int))
		if err != nil {
			// If the account vanished, return not found
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		// Return the user without the password
		c.JSON(http.StatusOK, user)
	}
}

// DebugUsersHandler lists every registered user without passwords
func DebugUsersHandler(s storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.GetAllUsers() // Fetch all users
		if err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		// Passwords are never serialized
		c.JSON(http.StatusOK, users)
	}
}
