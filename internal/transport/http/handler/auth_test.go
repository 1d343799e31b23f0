package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/almasbek/pinpoint/internal/domain"
	"github.com/almasbek/pinpoint/internal/transport/http/handler"
	"github.com/almasbek/pinpoint/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuthUsecase implements the unexported authUsecaser interface via
// method matching.
type fakeAuthUsecase struct {
	signup         func(ctx context.Context, input usecase.SignupInput) (*domain.User, error)
	verifyEmail    func(ctx context.Context, rawToken string) error
	login          func(ctx context.Context, email, password string) (*domain.User, string, error)
	forgotPassword func(ctx context.Context, email string) error
	resetPassword  func(ctx context.Context, rawToken, newPassword string) error
}

func (f *fakeAuthUsecase) Signup(ctx context.Context, input usecase.SignupInput) (*domain.User, error) {
	return f.signup(ctx, input)
}

func (f *fakeAuthUsecase) VerifyEmail(ctx context.Context, rawToken string) error {
	return f.verifyEmail(ctx, rawToken)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	return f.login(ctx, email, password)
}

func (f *fakeAuthUsecase) ForgotPassword(ctx context.Context, email string) error {
	return f.forgotPassword(ctx, email)
}

func (f *fakeAuthUsecase) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	return f.resetPassword(ctx, rawToken, newPassword)
}

func newAuthEngine(uc *fakeAuthUsecase) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewAuthHandler(uc, logger)

	r := gin.New()
	r.POST("/api/signup", h.Signup)
	r.POST("/api/login", h.Login)
	r.GET("/api/verify/:token", h.VerifyEmail)
	r.POST("/api/verify-email", h.VerifyEmail)
	r.POST("/api/forgot-password", h.ForgotPassword)
	r.POST("/api/reset-password/:token", h.ResetPassword)
	r.POST("/api/logout", h.Logout)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

type envelopeBody struct {
	Status struct {
		StatusCode int    `json:"statusCode"`
		Status     string `json:"status"`
		Message    string `json:"message"`
	} `json:"status"`
	Data  json.RawMessage `json:"data"`
	Token *string         `json:"token"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelopeBody {
	t.Helper()
	var e envelopeBody
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, w.Body.String())
	}
	return e
}

var testUser = &domain.User{ID: "user-1", Email: "a@x.com", Username: "alice"}

// ---- Signup ----

func TestSignup_InvalidJSON_Returns400(t *testing.T) {
	w := doJSON(t, newAuthEngine(&fakeAuthUsecase{}), http.MethodPost, "/api/signup", `{bad json}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSignup_ShortPassword_Returns400(t *testing.T) {
	w := doJSON(t, newAuthEngine(&fakeAuthUsecase{}), http.MethodPost, "/api/signup",
		`{"email":"a@x.com","password":"12345","username":"alice"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSignup_LongUsername_Returns400(t *testing.T) {
	name := strings.Repeat("a", 31)
	w := doJSON(t, newAuthEngine(&fakeAuthUsecase{}), http.MethodPost, "/api/signup",
		`{"email":"a@x.com","password":"secret1","username":"`+name+`"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSignup_DuplicateEmail_Returns409(t *testing.T) {
	uc := &fakeAuthUsecase{
		signup: func(_ context.Context, _ usecase.SignupInput) (*domain.User, error) {
			return nil, domain.ErrDuplicateEmail
		},
	}
	w := doJSON(t, newAuthEngine(uc), http.MethodPost, "/api/signup",
		`{"email":"a@x.com","password":"secret1","username":"alice"}`)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
	if e := decodeEnvelope(t, w); e.Status.Status != "error" {
		t.Errorf("status.status = %q, want error", e.Status.Status)
	}
}

func TestSignup_Success_Returns201WithoutPasswordHash(t *testing.T) {
	uc := &fakeAuthUsecase{
		signup: func(_ context.Context, input usecase.SignupInput) (*domain.User, error) {
			return &domain.User{
				ID:           "user-1",
				Email:        input.Email,
				Username:     input.Username,
				PasswordHash: "$2a$10$notyourbusiness",
			}, nil
		},
	}
	w := doJSON(t, newAuthEngine(uc), http.MethodPost, "/api/signup",
		`{"email":"a@x.com","password":"secret1","username":"alice"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	e := decodeEnvelope(t, w)
	if e.Status.StatusCode != http.StatusCreated || e.Status.Status != "success" {
		t.Errorf("envelope status = %+v", e.Status)
	}
	if strings.Contains(string(e.Data), "notyourbusiness") {
		t.Error("response leaks the password hash")
	}
	if e.Token != nil {
		t.Error("signup must not return a token")
	}
}

// ---- VerifyEmail ----

func TestVerifyEmail_MissingToken_Returns400(t *testing.T) {
	w := doJSON(t, newAuthEngine(&fakeAuthUsecase{}), http.MethodPost, "/api/verify-email", `{}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestVerifyEmail_InvalidToken_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		verifyEmail: func(_ context.Context, _ string) error {
			return domain.ErrTokenInvalid
		},
	}
	w := doJSON(t, newAuthEngine(uc), http.MethodGet, "/api/verify/bad-token", "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestVerifyEmail_LinkToken_Returns200(t *testing.T) {
	var captured string
	uc := &fakeAuthUsecase{
		verifyEmail: func(_ context.Context, rawToken string) error {
			captured = rawToken
			return nil
		},
	}
	w := doJSON(t, newAuthEngine(uc), http.MethodGet, "/api/verify/sometoken", "")

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if captured != "sometoken" {
		t.Errorf("usecase received %q, want the path token", captured)
	}
}

func TestVerifyEmail_BodyToken_Returns200(t *testing.T) {
	var captured string
	uc := &fakeAuthUsecase{
		verifyEmail: func(_ context.Context, rawToken string) error {
			captured = rawToken
			return nil
		},
	}
	w := doJSON(t, newAuthEngine(uc), http.MethodPost, "/api/verify-email", `{"token":"sometoken"}`)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if captured != "sometoken" {
		t.Errorf("usecase received %q, want the body token", captured)
	}
}

// ---- Login ----

func TestLogin_UnknownUser_Returns404(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (*domain.User, string, error) {
			return nil, "", domain.ErrUserNotFound
		},
	}
	w := doJSON(t, newAuthEngine(uc), http.MethodPost, "/api/login",
		`{"email":"ghost@x.com","password":"secret1"}`)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 (unregistered email is not a credential failure)", w.Code)
	}
}

func TestLogin_WrongPassword_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (*domain.User, string, error) {
			return nil, "", domain.ErrInvalidCredentials
		},
	}
	w := doJSON(t, newAuthEngine(uc), http.MethodPost, "/api/login",
		`{"email":"a@x.com","password":"wrong"}`)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLogin_Success_Returns200WithToken(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (*domain.User, string, error) {
			return testUser, "header.payload.signature", nil
		},
	}
	w := doJSON(t, newAuthEngine(uc), http.MethodPost, "/api/login",
		`{"email":"a@x.com","password":"secret1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	e := decodeEnvelope(t, w)
	if e.Token == nil || *e.Token != "header.payload.signature" {
		t.Errorf("token = %v, want the session token", e.Token)
	}
}

// ---- ForgotPassword ----

func TestForgotPassword_InvalidEmail_Returns400(t *testing.T) {
	w := doJSON(t, newAuthEngine(&fakeAuthUsecase{}), http.MethodPost, "/api/forgot-password",
		`{"email":"not-an-email"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestForgotPassword_Success_Returns200(t *testing.T) {
	uc := &fakeAuthUsecase{
		forgotPassword: func(_ context.Context, _ string) error { return nil },
	}
	w := doJSON(t, newAuthEngine(uc), http.MethodPost, "/api/forgot-password",
		`{"email":"a@x.com"}`)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

// ---- ResetPassword ----

func TestResetPassword_ShortPassword_Returns400(t *testing.T) {
	w := doJSON(t, newAuthEngine(&fakeAuthUsecase{}), http.MethodPost, "/api/reset-password/sometoken",
		`{"newPassword":"short"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestResetPassword_ConsumedToken_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		resetPassword: func(_ context.Context, _, _ string) error {
			return domain.ErrTokenInvalid
		},
	}
	w := doJSON(t, newAuthEngine(uc), http.MethodPost, "/api/reset-password/stale",
		`{"newPassword":"newpass1"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestResetPassword_Success_Returns200(t *testing.T) {
	var gotToken, gotPassword string
	uc := &fakeAuthUsecase{
		resetPassword: func(_ context.Context, rawToken, newPassword string) error {
			gotToken, gotPassword = rawToken, newPassword
			return nil
		},
	}
	w := doJSON(t, newAuthEngine(uc), http.MethodPost, "/api/reset-password/sometoken",
		`{"newPassword":"newpass1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotToken != "sometoken" || gotPassword != "newpass1" {
		t.Errorf("usecase got (%q, %q)", gotToken, gotPassword)
	}
}

func TestResetPassword_InternalError_Returns500(t *testing.T) {
	uc := &fakeAuthUsecase{
		resetPassword: func(_ context.Context, _, _ string) error {
			return errors.New("db down")
		},
	}
	w := doJSON(t, newAuthEngine(uc), http.MethodPost, "/api/reset-password/sometoken",
		`{"newPassword":"newpass1"}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "db down") {
		t.Error("response leaks internal error details")
	}
}

// ---- Logout ----

func TestLogout_Returns200(t *testing.T) {
	w := doJSON(t, newAuthEngine(&fakeAuthUsecase{}), http.MethodPost, "/api/logout", "")

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
