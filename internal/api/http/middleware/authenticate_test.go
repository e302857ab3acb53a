package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/studydeck/studydeck-server/internal/api/http/httpctx"
	"github.com/studydeck/studydeck-server/internal/apierrors"
	"github.com/studydeck/studydeck-server/internal/model"
	"github.com/studydeck/studydeck-server/internal/testutil"
)

type fakeAuthenticator struct {
	mock.Mock
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context, token string) (model.User, error) {
	args := f.Called(ctx, token)
	return args.Get(0).(model.User), args.Error(1)
}

func newAuthTestRouter(auth Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	m := NewAuthenticate(auth, testutil.MakeNoopLogger())
	r.GET("/protected", m.Handle, func(c *gin.Context) {
		user, _ := httpctx.GetUser(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	return r
}

func TestAuthenticate_ValidToken(t *testing.T) {
	auth := &fakeAuthenticator{}
	auth.On("Authenticate", mock.Anything, "good-token").
		Return(model.User{ID: uuid.New(), Email: "anna@kth.se"}, nil)

	r := newAuthTestRouter(auth)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anna@kth.se")
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	auth := &fakeAuthenticator{}

	r := newAuthTestRouter(auth)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	auth.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	auth := &fakeAuthenticator{}
	auth.On("Authenticate", mock.Anything, "bad-token").
		Return(model.User{}, apierrors.NewErrInvalidAuthorizationToken())

	r := newAuthTestRouter(auth)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_token")
}
