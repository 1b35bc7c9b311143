package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"edubridge/internal/api"
	"edubridge/internal/config"
	"edubridge/internal/storage"

	"github.com/gin-gonic/gin"
)

// newTestRouter builds the same engine the server runs, backed by a fresh
// in-memory store, with caching disabled and no payment provider key unless
// the test supplies one.
func newTestRouter(stripeKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := &config.Config{AppPort: "5000", JWTSecret: "test-secret", StripeSecretKey: stripeKey}
	api.RegisterRoutes(r, storage.NewMemStorage(), nil, cfg)
	return r
}

// do performs a request against the engine and returns the recorder
func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decode unmarshals a JSON response body
func decode(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// message extracts the error envelope from a response
func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	decode(t, w, &body)
	msg, _ := body["message"].(string)
	return msg
}

// register creates an account and returns the decoded user
func register(t *testing.T, r *gin.Engine, username, email, role string) map[string]any {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username":    username,
		"password":    "secret123",
		"email":       email,
		"displayName": username,
		"role":        role,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, w.Code, w.Body.String())
	}
	var user map[string]any
	decode(t, w, &user)
	return user
}

func TestRegisterOmitsPassword(t *testing.T) {
	r := newTestRouter("")
	user := register(t, r, "maria", "maria@example.com", "student")

	if _, ok := user["password"]; ok {
		t.Fatalf("password must never be serialized: %v", user)
	}
	if user["username"] != "maria" || user["role"] != "student" {
		t.Fatalf("unexpected user payload: %v", user)
	}
	if user["profileCompleted"] != false {
		t.Fatalf("new accounts must start with profileCompleted=false: %v", user)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := newTestRouter("")
	register(t, r, "maria", "maria@example.com", "student")

	w := do(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": "maria", "password": "x", "email": "other@example.com",
		"displayName": "Maria", "role": "student",
	})
	if w.Code != http.StatusBadRequest || message(t, w) != "Username already exists" {
		t.Fatalf("duplicate username: status %d body %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": "maria2", "password": "x", "email": "maria@example.com",
		"displayName": "Maria", "role": "student",
	})
	if w.Code != http.StatusBadRequest || message(t, w) != "Email already in use" {
		t.Fatalf("duplicate email: status %d body %s", w.Code, w.Body.String())
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	r := newTestRouter("")
	w := do(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": "eve", "password": "x", "email": "eve@example.com",
		"displayName": "Eve", "role": "admin",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %d", w.Code)
	}
}

func TestLoginFlows(t *testing.T) {
	r := newTestRouter("")
	register(t, r, "maria", "maria@example.com", "student")

	// Login by username
	w := do(t, r, http.MethodPost, "/api/auth/login", gin.H{"username": "maria", "password": "secret123"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	decode(t, w, &resp)
	token, _ := resp["token"].(string)
	if token == "" {
		t.Fatalf("login must return a token: %v", resp)
	}
	if _, ok := resp["password"]; ok {
		t.Fatalf("password must never be serialized: %v", resp)
	}

	// The same identifier field accepts the email
	w = do(t, r, http.MethodPost, "/api/auth/login", gin.H{"username": "maria@example.com", "password": "secret123"})
	if w.Code != http.StatusOK {
		t.Fatalf("email login: status %d body %s", w.Code, w.Body.String())
	}

	// Wrong password
	w = do(t, r, http.MethodPost, "/api/auth/login", gin.H{"username": "maria", "password": "wrong"})
	if w.Code != http.StatusUnauthorized || message(t, w) != "Invalid credentials" {
		t.Fatalf("wrong password: status %d body %s", w.Code, w.Body.String())
	}

	// Missing fields
	w = do(t, r, http.MethodPost, "/api/auth/login", gin.H{"username": "maria"})
	if w.Code != http.StatusBadRequest || message(t, w) != "Username and password are required" {
		t.Fatalf("missing password: status %d body %s", w.Code, w.Body.String())
	}

	// The token works against the authenticated self lookup
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status %d body %s", rec.Code, rec.Body.String())
	}
	var me map[string]any
	decode(t, rec, &me)
	if me["username"] != "maria" {
		t.Fatalf("unexpected me payload: %v", me)
	}

	// No token
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me without token: status %d", rec.Code)
	}
}

func TestStudentProfileGuards(t *testing.T) {
	r := newTestRouter("")
	sponsor := register(t, r, "bigcorp", "corp@example.com", "sponsor")

	// Unknown user
	w := do(t, r, http.MethodPost, "/api/students/profile", gin.H{"userId": 999})
	if w.Code != http.StatusNotFound || message(t, w) != "User not found" {
		t.Fatalf("unknown user: status %d body %s", w.Code, w.Body.String())
	}

	// Wrong role
	w = do(t, r, http.MethodPost, "/api/students/profile", gin.H{"userId": sponsor["id"]})
	if w.Code != http.StatusForbidden || message(t, w) != "Only students can create student profiles" {
		t.Fatalf("wrong role: status %d body %s", w.Code, w.Body.String())
	}

	// Missing profile
	w = do(t, r, http.MethodGet, "/api/students/profile/999", nil)
	if w.Code != http.StatusNotFound || message(t, w) != "Student profile not found" {
		t.Fatalf("missing profile: status %d body %s", w.Code, w.Body.String())
	}

	// Non-numeric id
	w = do(t, r, http.MethodGet, "/api/students/profile/abc", nil)
	if w.Code != http.StatusBadRequest || message(t, w) != "Invalid user ID" {
		t.Fatalf("bad id: status %d body %s", w.Code, w.Body.String())
	}
}

func TestStudentProfilePartialUpdate(t *testing.T) {
	r := newTestRouter("")
	student := register(t, r, "maria", "maria@example.com", "student")
	userID := int(student["id"].(float64))

	w := do(t, r, http.MethodPost, "/api/students/profile", gin.H{
		"userId":          userID,
		"course":          "physics",
		"institutionName": "State University",
		"financialNeed":   1000,
		"skills":          []string{"math", "tutoring"},
		"bio":             "old bio",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create profile: status %d body %s", w.Code, w.Body.String())
	}

	// Profile creation flips the account flag
	w = do(t, r, http.MethodGet, "/api/debug/users", nil)
	var users []map[string]any
	decode(t, w, &users)
	if len(users) != 1 || users[0]["profileCompleted"] != true {
		t.Fatalf("profileCompleted must flip on profile creation: %v", users)
	}

	// Update only the bio; everything else must survive
	w = do(t, r, http.MethodPut, "/api/students/profile/1", gin.H{"bio": "new bio"})
	if w.Code != http.StatusOK {
		t.Fatalf("update profile: status %d body %s", w.Code, w.Body.String())
	}
	var profile map[string]any
	decode(t, w, &profile)
	if profile["bio"] != "new bio" {
		t.Fatalf("bio not updated: %v", profile)
	}
	if profile["course"] != "physics" || profile["institutionName"] != "State University" {
		t.Fatalf("untouched fields must be preserved: %v", profile)
	}
	if profile["financialNeed"] != float64(1000) {
		t.Fatalf("financial need must be preserved: %v", profile)
	}
}

func TestFundingApplicationLifecycle(t *testing.T) {
	r := newTestRouter("")
	student := register(t, r, "maria", "maria@example.com", "student")
	do(t, r, http.MethodPost, "/api/students/profile", gin.H{"userId": student["id"], "financialNeed": 1000})

	// Caller-supplied status and createdAt are stripped
	w := do(t, r, http.MethodPost, "/api/funding-applications", gin.H{
		"studentId": 1,
		"amount":    500,
		"purpose":   "books",
		"status":    "approved",
		"createdAt": "2020-01-01T00:00:00Z",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("file application: status %d body %s", w.Code, w.Body.String())
	}
	var app map[string]any
	decode(t, w, &app)
	if app["status"] != "pending" {
		t.Fatalf("applications must start pending: %v", app)
	}
	if created, _ := app["createdAt"].(string); created == "" || created[:4] == "2020" {
		t.Fatalf("caller-supplied createdAt must be ignored: %v", app)
	}

	// A second application, then reject it
	do(t, r, http.MethodPost, "/api/funding-applications", gin.H{"studentId": 1, "amount": 200, "purpose": "fees"})
	w = do(t, r, http.MethodPut, "/api/funding-applications/2/status", gin.H{"status": "rejected"})
	if w.Code != http.StatusOK {
		t.Fatalf("reject: status %d body %s", w.Code, w.Body.String())
	}

	// Pending view excludes the rejected one
	w = do(t, r, http.MethodGet, "/api/funding-applications/pending", nil)
	var pending []map[string]any
	decode(t, w, &pending)
	if len(pending) != 1 || pending[0]["amount"] != float64(500) {
		t.Fatalf("expected only the first application pending: %v", pending)
	}

	// The student view keeps both, in filing order
	w = do(t, r, http.MethodGet, "/api/funding-applications/student/1", nil)
	var all []map[string]any
	decode(t, w, &all)
	if len(all) != 2 || all[0]["purpose"] != "books" || all[1]["purpose"] != "fees" {
		t.Fatalf("student view must list every application in order: %v", all)
	}

	// No transition guard: a rejected application can go back to pending
	w = do(t, r, http.MethodPut, "/api/funding-applications/2/status", gin.H{"status": "pending"})
	if w.Code != http.StatusOK {
		t.Fatalf("retransition: status %d body %s", w.Code, w.Body.String())
	}

	// Out-of-range status
	w = do(t, r, http.MethodPut, "/api/funding-applications/1/status", gin.H{"status": "funded"})
	if w.Code != http.StatusBadRequest || message(t, w) != "Invalid status" {
		t.Fatalf("bad status: status %d body %s", w.Code, w.Body.String())
	}

	// Missing application
	w = do(t, r, http.MethodPut, "/api/funding-applications/99/status", gin.H{"status": "approved"})
	if w.Code != http.StatusNotFound || message(t, w) != "Funding application not found" {
		t.Fatalf("missing application: status %d body %s", w.Code, w.Body.String())
	}
}

func TestSponsorshipApprovesFulfilledApplication(t *testing.T) {
	r := newTestRouter("")
	student := register(t, r, "maria", "maria@example.com", "student")
	sponsor := register(t, r, "bigcorp", "corp@example.com", "sponsor")
	do(t, r, http.MethodPost, "/api/students/profile", gin.H{"userId": student["id"], "financialNeed": 1000})
	do(t, r, http.MethodPost, "/api/sponsors/profile", gin.H{"userId": sponsor["id"], "type": "corporate"})
	do(t, r, http.MethodPost, "/api/funding-applications", gin.H{"studentId": 1, "amount": 500, "purpose": "books"})

	w := do(t, r, http.MethodPost, "/api/sponsorships", gin.H{
		"sponsorId":     1,
		"studentId":     1,
		"applicationId": 1,
		"amount":        500,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create sponsorship: status %d body %s", w.Code, w.Body.String())
	}
	var sp map[string]any
	decode(t, w, &sp)
	if sp["status"] != "active" || sp["paymentId"] != "" {
		t.Fatalf("sponsorships must start active with no payment id: %v", sp)
	}

	// The fulfilled application is approved as a side effect
	w = do(t, r, http.MethodGet, "/api/funding-applications/student/1", nil)
	var apps []map[string]any
	decode(t, w, &apps)
	if apps[0]["status"] != "approved" {
		t.Fatalf("fulfilled application must be approved: %v", apps)
	}

	// List views
	w = do(t, r, http.MethodGet, "/api/sponsorships/sponsor/1", nil)
	var bySponsor []map[string]any
	decode(t, w, &bySponsor)
	if len(bySponsor) != 1 {
		t.Fatalf("sponsor view: %v", bySponsor)
	}
	w = do(t, r, http.MethodGet, "/api/sponsorships/student/abc", nil)
	if w.Code != http.StatusBadRequest || message(t, w) != "Invalid student ID" {
		t.Fatalf("bad student id: status %d body %s", w.Code, w.Body.String())
	}
}

func TestSponsorRecommendationsSoftFail(t *testing.T) {
	r := newTestRouter("")
	register(t, r, "bigcorp", "corp@example.com", "sponsor")

	// A sponsor without a profile gets an empty list, not an error
	w := do(t, r, http.MethodGet, "/api/ai/sponsor-recommendations/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("no profile: status %d body %s", w.Code, w.Body.String())
	}
	var results []map[string]any
	decode(t, w, &results)
	if len(results) != 0 {
		t.Fatalf("expected empty recommendations, got %v", results)
	}

	// Unknown user
	w = do(t, r, http.MethodGet, "/api/ai/sponsor-recommendations/99", nil)
	if w.Code != http.StatusNotFound || message(t, w) != "User not found" {
		t.Fatalf("unknown user: status %d body %s", w.Code, w.Body.String())
	}

	// Non-numeric id
	w = do(t, r, http.MethodGet, "/api/ai/sponsor-recommendations/abc", nil)
	if w.Code != http.StatusBadRequest || message(t, w) != "Invalid user ID" {
		t.Fatalf("bad id: status %d body %s", w.Code, w.Body.String())
	}
}

func TestMatchStudentsRanking(t *testing.T) {
	r := newTestRouter("")
	for i, need := range []any{500, nil, 800} {
		u := register(t, r, "stu"+string(rune('a'+i)), "stu"+string(rune('a'+i))+"@example.com", "student")
		body := gin.H{"userId": u["id"]}
		if need != nil {
			body["financialNeed"] = need
		}
		do(t, r, http.MethodPost, "/api/students/profile", body)
	}

	w := do(t, r, http.MethodGet, "/api/ai/match-students", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("match students: status %d body %s", w.Code, w.Body.String())
	}
	var results []map[string]any
	decode(t, w, &results)
	if len(results) != 3 {
		t.Fatalf("expected 3 ranked students, got %v", results)
	}

	// Highest need first, missing need last, score derived from the need
	if results[0]["matchScore"] != 0.8 || results[1]["matchScore"] != 0.5 || results[2]["matchScore"] != 0.5 {
		t.Fatalf("unexpected scores: %v", results)
	}
	first := results[0]["profile"].(map[string]any)
	last := results[2]["profile"].(map[string]any)
	if first["financialNeed"] != float64(800) || last["financialNeed"] != nil {
		t.Fatalf("unexpected order: %v", results)
	}
}

func TestMicroJobEndpoints(t *testing.T) {
	r := newTestRouter("")
	w := do(t, r, http.MethodPost, "/api/micro-jobs", gin.H{
		"title":        "Flyer design",
		"description":  "Design a flyer for a fundraiser",
		"postedBy":     1,
		"compensation": 50,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("post job: status %d body %s", w.Code, w.Body.String())
	}
	var job map[string]any
	decode(t, w, &job)
	if job["status"] != "open" {
		t.Fatalf("jobs must start open: %v", job)
	}

	w = do(t, r, http.MethodPut, "/api/micro-jobs/1/status", gin.H{"status": "assigned"})
	if w.Code != http.StatusOK {
		t.Fatalf("assign: status %d body %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodGet, "/api/micro-jobs", nil)
	var jobs []map[string]any
	decode(t, w, &jobs)
	if len(jobs) != 1 || jobs[0]["status"] != "assigned" {
		t.Fatalf("list must reflect the update: %v", jobs)
	}

	w = do(t, r, http.MethodPut, "/api/micro-jobs/1/status", gin.H{"status": "archived"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad status: status %d body %s", w.Code, w.Body.String())
	}
	w = do(t, r, http.MethodPut, "/api/micro-jobs/99/status", gin.H{"status": "completed"})
	if w.Code != http.StatusNotFound || message(t, w) != "Micro-job not found" {
		t.Fatalf("missing job: status %d body %s", w.Code, w.Body.String())
	}
}

func TestPaymentIntentGuards(t *testing.T) {
	// No provider key configured
	r := newTestRouter("")
	w := do(t, r, http.MethodPost, "/api/create-payment-intent", gin.H{"amount": 100})
	if w.Code != http.StatusInternalServerError || message(t, w) != "Stripe not configured" {
		t.Fatalf("unconfigured: status %d body %s", w.Code, w.Body.String())
	}

	// A key is present but the amount is invalid; rejected before any provider call
	r = newTestRouter("sk_test_dummy")
	w = do(t, r, http.MethodPost, "/api/create-payment-intent", gin.H{"amount": 0})
	if w.Code != http.StatusBadRequest || message(t, w) != "Invalid amount" {
		t.Fatalf("zero amount: status %d body %s", w.Code, w.Body.String())
	}
	w = do(t, r, http.MethodPost, "/api/create-payment-intent", gin.H{"amount": -5})
	if w.Code != http.StatusBadRequest || message(t, w) != "Invalid amount" {
		t.Fatalf("negative amount: status %d body %s", w.Code, w.Body.String())
	}
}

// TestSponsorMatchingEndToEnd walks the full flow from registration to an
// approved application via a sponsorship.
func TestSponsorMatchingEndToEnd(t *testing.T) {
	r := newTestRouter("")

	// Student registers and completes a profile with a high need
	student := register(t, r, "maria", "maria@example.com", "student")
	w := do(t, r, http.MethodPost, "/api/students/profile", gin.H{
		"userId":        student["id"],
		"financialNeed": 1000,
		"course":        "engineering",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("student profile: status %d body %s", w.Code, w.Body.String())
	}

	// Student files an application
	w = do(t, r, http.MethodPost, "/api/funding-applications", gin.H{
		"studentId": 1, "amount": 500, "purpose": "books",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("application: status %d body %s", w.Code, w.Body.String())
	}

	// Sponsor registers and completes a profile
	sponsor := register(t, r, "bigcorp", "corp@example.com", "sponsor")
	w = do(t, r, http.MethodPost, "/api/sponsors/profile", gin.H{
		"userId": sponsor["id"], "type": "corporate", "organization": "BigCorp",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("sponsor profile: status %d body %s", w.Code, w.Body.String())
	}

	// Recommendations surface the student with the pending application joined in
	w = do(t, r, http.MethodGet, "/api/ai/sponsor-recommendations/2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("recommendations: status %d body %s", w.Code, w.Body.String())
	}
	var recs []map[string]any
	decode(t, w, &recs)
	if len(recs) != 1 {
		t.Fatalf("expected one recommendation, got %v", recs)
	}
	rec := recs[0]
	if rec["displayName"] != "maria" || rec["hasPendingApplication"] != true {
		t.Fatalf("unexpected recommendation: %v", rec)
	}
	recApp := rec["application"].(map[string]any)
	if recApp["amount"] != float64(500) || recApp["status"] != "pending" {
		t.Fatalf("joined application: %v", recApp)
	}
	if rec["matchScore"] != 1.0 {
		t.Fatalf("expected matchScore 1.0 for need 1000, got %v", rec["matchScore"])
	}

	// Sponsor fulfils the application
	w = do(t, r, http.MethodPost, "/api/sponsorships", gin.H{
		"sponsorId": 1, "studentId": 1, "applicationId": 1, "amount": 500, "mentorshipOffered": true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("sponsorship: status %d body %s", w.Code, w.Body.String())
	}

	// The application is now approved and leaves the pending view
	w = do(t, r, http.MethodGet, "/api/funding-applications/pending", nil)
	var pending []map[string]any
	decode(t, w, &pending)
	if len(pending) != 0 {
		t.Fatalf("pending view must be empty after fulfilment: %v", pending)
	}
	w = do(t, r, http.MethodGet, "/api/funding-applications/student/1", nil)
	var apps []map[string]any
	decode(t, w, &apps)
	if apps[0]["status"] != "approved" {
		t.Fatalf("application must be approved: %v", apps)
	}

	// With no pending application left, the recommendation loses the flag
	w = do(t, r, http.MethodGet, "/api/ai/sponsor-recommendations/2", nil)
	decode(t, w, &recs)
	if recs[0]["hasPendingApplication"] != false {
		t.Fatalf("flag must clear once the application is approved: %v", recs[0])
	}
}
