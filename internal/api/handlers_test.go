package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"platefull-backend-go/internal/config"
	"platefull-backend-go/internal/core"
	"platefull-backend-go/internal/db"
	"platefull-backend-go/internal/identity"
	"platefull-backend-go/internal/middleware"
	"platefull-backend-go/internal/models"
	"platefull-backend-go/internal/objectstore"
)

type testServer struct {
	router  *gin.Engine
	objects *objectstore.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := db.NewMemoryStore()
	objects := objectstore.NewMemoryStore()
	userRepo := db.NewUserRepository(store)
	donationRepo := db.NewDonationRepository(store)
	ngoRepo := db.NewNGORepository(store)
	requestRepo := db.NewDonationRequestRepository(store)

	media := core.NewMediaService(objects, core.MediaOptions{})
	authService := core.NewAuthService(identity.NewMemoryProvider(), userRepo)

	router := gin.New()
	router.Use(middleware.RequestID())
	SetupRoutes(router,
		&config.Config{GinMode: gin.TestMode, Backend: config.BackendMemory},
		zap.NewNop(),
		middleware.NewAuthMiddleware(authService),
		nil,
		authService,
		core.NewUserService(userRepo, media),
		core.NewDonationService(donationRepo, userRepo, media),
		core.NewNGOService(ngoRepo, userRepo, media),
		core.NewDonationRequestService(requestRepo, donationRepo, ngoRepo),
	)
	return &testServer{router: router, objects: objects}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) signUp(t *testing.T, email string, role models.UserRole) *models.Session {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", models.SignUpRequest{
		Email: email, Password: "secret123", DisplayName: "<b>" + email + "</b>", Role: role,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d: %s", email, rec.Code, rec.Body.String())
	}
	var sess models.Session
	decode(t, rec, &sess)
	return &sess
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func donationBody(title string) models.CreateDonationRequest {
	return models.CreateDonationRequest{
		Title:         title,
		Description:   "Fresh <script>alert(1)</script>bread & rolls",
		Quantity:      12,
		Unit:          "loaves",
		ExpiryDate:    time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC),
		PickupAddress: "1 Main St",
		ContactPhone:  "555-0100",
		Category:      "bakery",
	}
}

func TestSignUpSignInAndMe(t *testing.T) {
	s := newTestServer(t)
	sess := s.signUp(t, "donor@example.com", models.RoleDonor)
	if sess.Profile == nil || sess.Profile.DisplayName != "donor@example.com" {
		t.Fatalf("expected sanitized profile display name, got %+v", sess.Profile)
	}

	rec := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", models.SignUpRequest{
		Email: "donor@example.com", Password: "secret123", DisplayName: "x", Role: models.RoleDonor,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup: expected 409, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/api/v1/auth/signin", "", models.SignInRequest{Email: "donor@example.com", Password: "wrong-pass"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodPost, "/api/v1/auth/signin", "", models.SignInRequest{Email: "donor@example.com", Password: "secret123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("signin: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "null" {
		t.Fatalf("anonymous me: expected null, got %d %s", rec.Code, rec.Body.String())
	}
	rec = s.do(t, http.MethodGet, "/api/v1/auth/me", sess.IDToken, nil)
	var me models.AuthUser
	decode(t, rec, &me)
	if me.UID != sess.User.UID {
		t.Fatalf("expected uid %s, got %s", sess.User.UID, me.UID)
	}

	if rec = s.do(t, http.MethodPost, "/api/v1/auth/signout", sess.IDToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("signout: expected 200, got %d", rec.Code)
	}
	if rec = s.do(t, http.MethodGet, "/api/v1/users/me", sess.IDToken, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token: expected 401, got %d", rec.Code)
	}
}

func TestSignUpValidation(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", models.SignUpRequest{
		Email: "x@example.com", Password: "123", DisplayName: "X", Role: "chef",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGoogleSignInDisabled(t *testing.T) {
	s := newTestServer(t)
	if rec := s.do(t, http.MethodGet, "/api/v1/auth/google/start", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when Google sign-in is not configured, got %d", rec.Code)
	}
}

func TestUserProfileUpdate(t *testing.T) {
	s := newTestServer(t)
	sess := s.signUp(t, "p@example.com", models.RoleDonor)

	phone := "555-0199"
	rec := s.do(t, http.MethodPut, "/api/v1/users/me", sess.IDToken, models.UserUpdate{Phone: &phone})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var user models.User
	decode(t, rec, &user)
	if user.Phone != phone || user.Role != models.RoleDonor {
		t.Fatalf("partial update lost fields: %+v", user)
	}

	if rec = s.do(t, http.MethodGet, "/api/v1/users/nobody", sess.IDToken, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing user: expected 404, got %d", rec.Code)
	}
}

func TestDonationLifecycle(t *testing.T) {
	s := newTestServer(t)
	donor := s.signUp(t, "d@example.com", models.RoleDonor)
	other := s.signUp(t, "o@example.com", models.RoleDonor)

	if rec := s.do(t, http.MethodPost, "/api/v1/donations", "", donationBody("Bread")); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: expected 401, got %d", rec.Code)
	}

	rec := s.do(t, http.MethodPost, "/api/v1/donations", donor.IDToken, donationBody("Bread"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created models.FoodDonation
	decode(t, rec, &created)
	if created.DonorID != donor.User.UID || created.Status != models.DonationAvailable {
		t.Fatalf("unexpected donation %+v", created)
	}
	if created.Description != "Fresh bread & rolls" {
		t.Fatalf("description not sanitized: %q", created.Description)
	}

	reserved := models.DonationReserved
	rec = s.do(t, http.MethodPatch, "/api/v1/donations/"+created.ID, other.IDToken, models.DonationUpdate{Status: &reserved})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign patch: expected 403, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodPatch, "/api/v1/donations/"+created.ID, donor.IDToken, models.DonationUpdate{Status: &reserved})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/donations?status=reserved", donor.IDToken, nil)
	var list []models.FoodDonation
	decode(t, rec, &list)
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("expected the reserved donation, got %+v", list)
	}
	if rec = s.do(t, http.MethodGet, "/api/v1/donations?status=gone", donor.IDToken, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown status: expected 400, got %d", rec.Code)
	}

	if rec = s.do(t, http.MethodDelete, "/api/v1/donations/"+created.ID, other.IDToken, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("foreign delete: expected 403, got %d", rec.Code)
	}
	if rec = s.do(t, http.MethodDelete, "/api/v1/donations/"+created.ID, donor.IDToken, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	if rec = s.do(t, http.MethodGet, "/api/v1/donations/"+created.ID, donor.IDToken, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("deleted donation: expected 404, got %d", rec.Code)
	}
}

func multipartImage(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(uploadField, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, w.FormDataContentType()
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		img.Set(x, x, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDonationImageUpload(t *testing.T) {
	s := newTestServer(t)
	donor := s.signUp(t, "img@example.com", models.RoleDonor)
	rec := s.do(t, http.MethodPost, "/api/v1/donations", donor.IDToken, donationBody("Soup"))
	var created models.FoodDonation
	decode(t, rec, &created)

	upload := func(data []byte) *httptest.ResponseRecorder {
		body, contentType := multipartImage(t, "soup.jpg", data)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/donations/"+created.ID+"/image", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+donor.IDToken)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		return rec
	}

	rec = upload([]byte("plain text, not an image"))
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "valid image file") {
		t.Fatalf("text upload: expected validation error, got %d %s", rec.Code, rec.Body.String())
	}

	rec = upload(jpegBytes(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		URL    string              `json:"url"`
		Record models.FoodDonation `json:"record"`
	}
	decode(t, rec, &resp)
	prefix := "memory://donations/" + created.ID + "/"
	if !strings.HasPrefix(resp.URL, prefix) || resp.Record.ImageURL != resp.URL {
		t.Fatalf("unexpected upload response %+v", resp)
	}
	if _, ok := s.objects.Get(strings.TrimPrefix(resp.URL, "memory://")); !ok {
		t.Fatal("image not stored")
	}

	s.do(t, http.MethodDelete, "/api/v1/donations/"+created.ID, donor.IDToken, nil)
	if _, ok := s.objects.Get(strings.TrimPrefix(resp.URL, "memory://")); ok {
		t.Fatal("image survived donation delete")
	}
}

func TestNGOAndRequests(t *testing.T) {
	s := newTestServer(t)
	donor := s.signUp(t, "give@example.com", models.RoleDonor)
	ngoUser := s.signUp(t, "ngo@example.com", models.RoleNGO)

	rec := s.do(t, http.MethodPost, "/api/v1/donations", donor.IDToken, donationBody("Rice"))
	var donation models.FoodDonation
	decode(t, rec, &donation)

	rec = s.do(t, http.MethodPost, "/api/v1/requests", ngoUser.IDToken, models.CreateDonationRequestRequest{DonationID: donation.ID})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("request without NGO profile: expected 403, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/api/v1/ngos", ngoUser.IDToken, models.CreateNGORequest{
		Name: "Food Bank", Address: "2 Side St", Phone: "555-0111", Email: "bank@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register NGO: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var ngo models.NGO
	decode(t, rec, &ngo)
	if ngo.ID != ngoUser.User.UID || ngo.Verified {
		t.Fatalf("unexpected NGO %+v", ngo)
	}

	name := "Taken"
	if rec = s.do(t, http.MethodPatch, "/api/v1/ngos/"+ngo.ID, donor.IDToken, models.NGOUpdate{Name: &name}); rec.Code != http.StatusForbidden {
		t.Fatalf("foreign NGO patch: expected 403, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodGet, "/api/v1/ngos?verified=false", donor.IDToken, nil)
	var ngos []models.NGO
	decode(t, rec, &ngos)
	if len(ngos) != 1 {
		t.Fatalf("expected one unverified NGO, got %d", len(ngos))
	}

	rec = s.do(t, http.MethodPost, "/api/v1/requests", ngoUser.IDToken, models.CreateDonationRequestRequest{DonationID: donation.ID, Message: "We can collect today"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create request: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var request models.DonationRequest
	decode(t, rec, &request)
	if request.DonorID != donor.User.UID || request.NGOName != "Food Bank" || request.Status != models.RequestPending {
		t.Fatalf("unexpected request %+v", request)
	}

	approved := models.RequestApproved
	outsider := s.signUp(t, "outsider@example.com", models.RoleDonor)
	if rec = s.do(t, http.MethodPatch, "/api/v1/requests/"+request.ID, outsider.IDToken, models.DonationRequestUpdate{Status: &approved}); rec.Code != http.StatusForbidden {
		t.Fatalf("outsider approve: expected 403, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodPatch, "/api/v1/requests/"+request.ID, donor.IDToken, models.DonationRequestUpdate{Status: &approved})
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/requests?donorId="+donor.User.UID+"&ngoId="+ngo.ID, donor.IDToken, nil)
	var requests []models.DonationRequest
	decode(t, rec, &requests)
	if len(requests) != 1 || requests[0].Status != models.RequestApproved {
		t.Fatalf("unexpected request listing %+v", requests)
	}

	if rec = s.do(t, http.MethodGet, "/api/v1/requests/missing", donor.IDToken, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing request: expected 404, got %d", rec.Code)
	}
}

func TestDonationTitleWithEncodedMarkup(t *testing.T) {
	s := newTestServer(t)
	donor := s.signUp(t, "enc@example.com", models.RoleDonor)

	rec := s.do(t, http.MethodPost, "/api/v1/donations", donor.IDToken, donationBody("&lt;script&gt;alert(1)&lt;/script&gt;"))
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "title must contain text") {
		t.Fatalf("encoded script title: expected 400, got %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, "/api/v1/donations", donor.IDToken, donationBody("&lt;b&gt;Soup&lt;/b&gt;"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created models.FoodDonation
	decode(t, rec, &created)
	if created.Title != "Soup" {
		t.Fatalf("expected encoded tags stripped, got %q", created.Title)
	}

	title := "&lt;img src=x onerror=alert(1)&gt;Stew"
	rec = s.do(t, http.MethodPatch, "/api/v1/donations/"+created.ID, donor.IDToken, models.DonationUpdate{Title: &title})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d", rec.Code)
	}
	decode(t, rec, &created)
	if created.Title != "Stew" {
		t.Fatalf("expected encoded tag stripped on patch, got %q", created.Title)
	}
}

func TestNGOVerificationIsAdminOnly(t *testing.T) {
	s := newTestServer(t)
	ngoUser := s.signUp(t, "verify-ngo@example.com", models.RoleNGO)
	admin := s.signUp(t, "admin@example.com", models.RoleAdmin)

	rec := s.do(t, http.MethodPost, "/api/v1/ngos", ngoUser.IDToken, models.CreateNGORequest{
		Name: "Food Bank", Address: "2 Side St", Phone: "555-0111", Email: "bank@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register NGO: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	path := "/api/v1/ngos/" + ngoUser.User.UID

	rec = s.do(t, http.MethodPatch, path, ngoUser.IDToken, map[string]any{"name": "Food Bank", "verified": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("owner patch: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var ngo models.NGO
	decode(t, rec, &ngo)
	if ngo.Verified {
		t.Fatal("owner patch verified its own NGO")
	}

	verify := map[string]any{"verified": true}
	if rec = s.do(t, http.MethodPut, path+"/verification", ngoUser.IDToken, verify); rec.Code != http.StatusForbidden {
		t.Fatalf("owner verification: expected 403, got %d", rec.Code)
	}
	if rec = s.do(t, http.MethodPut, path+"/verification", admin.IDToken, map[string]any{}); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing flag: expected 400, got %d", rec.Code)
	}
	if rec = s.do(t, http.MethodPut, "/api/v1/ngos/missing/verification", admin.IDToken, verify); rec.Code != http.StatusNotFound {
		t.Fatalf("missing NGO: expected 404, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodPut, path+"/verification", admin.IDToken, verify)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin verification: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &ngo)
	if !ngo.Verified {
		t.Fatal("expected NGO verified by admin")
	}
}

func TestStreamDonationsSendsCurrentSnapshot(t *testing.T) {
	s := newTestServer(t)
	donor := s.signUp(t, "stream@example.com", models.RoleDonor)
	s.do(t, http.MethodPost, "/api/v1/donations", donor.IDToken, donationBody("Apples"))

	srv := httptest.NewServer(s.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/donations/stream?donorId="+donor.User.UID, nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+donor.IDToken)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected event stream, got %q", ct)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		var snapshot []models.FoodDonation
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &snapshot); err != nil {
			t.Fatalf("decode snapshot %q: %v", line, err)
		}
		if len(snapshot) != 1 || snapshot[0].Title != "Apples" {
			t.Fatalf("unexpected snapshot %+v", snapshot)
		}
		return
	}
	t.Fatalf("stream ended without a snapshot: %v", scanner.Err())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "UP") {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}
