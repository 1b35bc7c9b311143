package api

import (
	"math"     // Rounding dollar amounts to cents
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"edubridge/internal/storage" // Record store interface

	"github.com/gin-gonic/gin"                      // Gin web framework
	"github.com/sirupsen/logrus"                    // Logging library
	"github.com/stripe/stripe-go/v81"               // Stripe client
	"github.com/stripe/stripe-go/v81/paymentintent" // Payment intent API
)

// PaymentIntentRequest represents a payment-intent creation request.
// Amount is a decimal dollar value; it is converted to integer cents before
// the provider call.
type PaymentIntentRequest struct {
	Amount        float64 `json:"amount"`        // Dollar amount to hold
	SponsorshipID *int    `json:"sponsorshipId"` // Sponsorship being paid, optional
}

// CreatePaymentIntentHandler creates a monetary hold with the payment
// provider and records the intent id against the sponsorship if one was
// supplied. A single outbound call, awaited synchronously, no retry.
func CreatePaymentIntentHandler(s storage.Storage, stripeKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Fail fast when the provider is not configured
		if stripeKey == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Stripe not configured"})
			return
		}
		var req PaymentIntentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
			// Missing or non-positive amount, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid amount"})
			return
		}
		// Build the provider request; dollars become integer cents
		params := &stripe.PaymentIntentParams{
			Amount:   stripe.Int64(int64(math.Round(req.Amount * 100))), // Amount in cents
			Currency: stripe.String(string(stripe.CurrencyUSD)),         // USD only
		}
		if req.SponsorshipID != nil {
			params.AddMetadata("sponsorshipId", strconv.Itoa(*req.SponsorshipID)) // Tag the intent
		}
		// Create the payment intent
		intent, err := paymentintent.New(params)
		if err != nil {
			// Provider failure is a server error
			logrus.WithField("error", err.Error()).Error("Payment intent creation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating payment intent: " + err.Error()})
			return
		}
		// Persist the intent id against the sponsorship if one was supplied
		if req.SponsorshipID != nil {
			if _, err := s.UpdateSponsorshipPaymentID(*req.SponsorshipID, intent.ID); err != nil {
				// A dangling sponsorshipId is representable; log and carry on
				logrus.WithFields(logrus.Fields{
					"sponsorship_id": *req.SponsorshipID, // Referenced sponsorship
					"error":          err.Error(),        // Error message
				}).Warn("Failed to record payment id on sponsorship")
			}
		}
		// Log the intent
		logrus.WithFields(logrus.Fields{
			"payment_id": intent.ID,     // Provider intent id
			"amount":     params.Amount, // Amount in cents
		}).Info("Payment intent created")
		// Return the client-usable secret
		c.JSON(http.StatusOK, gin.H{"clientSecret": intent.ClientSecret})
	}
}
