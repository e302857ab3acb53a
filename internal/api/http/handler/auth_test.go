package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/studydeck/studydeck-server/internal/api/http/httpctx"
	"github.com/studydeck/studydeck-server/internal/mocks"
	"github.com/studydeck/studydeck-server/internal/model"
	"github.com/studydeck/studydeck-server/internal/service"
	"github.com/studydeck/studydeck-server/internal/testutil"
)

type authHandlerFixture struct {
	handler      *Auth
	userStore    *mocks.UserStore
	noteStore    *mocks.NoteStore
	balances     *mocks.BalanceProvider
	manager      *mocks.TokenManager
	refreshStore *mocks.RefreshTokenStore
}

func newAuthHandlerFixture(t *testing.T) authHandlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := authHandlerFixture{
		userStore:    &mocks.UserStore{},
		noteStore:    &mocks.NoteStore{},
		balances:     &mocks.BalanceProvider{},
		manager:      &mocks.TokenManager{},
		refreshStore: &mocks.RefreshTokenStore{},
	}

	log := testutil.MakeNoopLogger()
	tokenService := service.NewTokenService(f.manager, f.refreshStore, log)
	authService := service.NewAuth(f.userStore, f.noteStore, f.balances, tokenService, log)
	f.handler = NewAuth(authService, log)
	return f
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	f := newAuthHandlerFixture(t)

	f.userStore.On("GetByEmail", mock.Anything, "anna@kth.se").Return(model.User{}, model.ErrNotFound)
	f.userStore.On("Create", mock.Anything, mock.Anything).
		Return(model.User{ID: uuid.New(), Email: "anna@kth.se", Name: "Anna", University: "KTH"}, nil)
	f.manager.On("GenerateAccessToken", mock.Anything, "anna@kth.se").Return("access", nil)
	f.manager.On("GenerateRefreshToken", mock.Anything, "anna@kth.se").Return("refresh", "jti", nil)
	f.refreshStore.On("Create", mock.Anything, mock.Anything).Return(nil)

	r := gin.New()
	r.POST("/api/register", f.handler.Register)

	w := postJSON(t, r, "/api/register", gin.H{
		"email":      "anna@kth.se",
		"password":   "secret123",
		"name":       "Anna",
		"university": "KTH",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		User        struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "anna@kth.se", resp.User.Email)
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	f := newAuthHandlerFixture(t)

	f.userStore.On("GetByEmail", mock.Anything, "anna@kth.se").
		Return(model.User{ID: uuid.New(), Email: "anna@kth.se"}, nil)

	r := gin.New()
	r.POST("/api/register", f.handler.Register)

	w := postJSON(t, r, "/api/register", gin.H{
		"email":      "anna@kth.se",
		"password":   "secret123",
		"name":       "Anna",
		"university": "KTH",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email_taken")
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	f := newAuthHandlerFixture(t)

	r := gin.New()
	r.POST("/api/register", f.handler.Register)

	w := postJSON(t, r, "/api/register", gin.H{"email": "anna@kth.se"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	f := newAuthHandlerFixture(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.DefaultCost)
	require.NoError(t, err)
	f.userStore.On("GetByEmail", mock.Anything, "anna@kth.se").
		Return(model.User{ID: uuid.New(), Email: "anna@kth.se", PasswordHash: string(hash)}, nil)

	r := gin.New()
	r.POST("/api/login", f.handler.Login)

	w := postJSON(t, r, "/api/login", gin.H{"email": "anna@kth.se", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email or password")
}

func TestAuthHandler_Profile(t *testing.T) {
	f := newAuthHandlerFixture(t)

	userID := uuid.New()
	user := model.User{ID: userID, Email: "anna@kth.se", Name: "Anna", University: "KTH", Earnings: 500}

	f.userStore.On("GetByID", mock.Anything, userID).Return(user, nil)
	f.balances.On("Balance", mock.Anything, user).Return(model.Balance{
		Earnings:    500,
		Withdrawn:   150,
		Available:   350,
		CanWithdraw: true,
	}, nil)
	f.noteStore.On("CountByOwnerID", mock.Anything, userID).Return(2, nil)
	f.userStore.On("GetPurchasedNoteIDs", mock.Anything, userID).Return([]uuid.UUID{uuid.New()}, nil)

	r := gin.New()
	r.GET("/api/profile", func(c *gin.Context) {
		httpctx.SetUser(c, user)
		f.handler.Profile(c)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/profile", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var profile model.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, 350.0, profile.AvailableBalance)
	assert.True(t, profile.CanWithdraw)
	assert.Equal(t, 2, profile.NotesUploaded)
	assert.Equal(t, 1, profile.NotesPurchased)
}
