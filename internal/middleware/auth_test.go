package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"educrm/internal/authz"
	"educrm/internal/domain"
	jwtsvc "educrm/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRouter(jwt *jwtsvc.Service) (*gin.Engine, *authz.Viewer) {
	gin.SetMode(gin.TestMode)
	var seen authz.Viewer

	r := gin.New()
	authed := r.Group("/", Auth(jwt))
	authed.GET("/whoami", func(c *gin.Context) {
		seen = ViewerFromContext(c)
		c.Status(http.StatusOK)
	})
	staff := authed.Group("/", StaffOnly())
	staff.GET("/staff-only", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestAuth(t *testing.T) {
	jwt := jwtsvc.New("test-secret", time.Hour)
	r, seen := setupRouter(jwt)

	token, err := jwt.GenerateToken(42, string(domain.RoleCounselor), 10)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, authz.Viewer{ID: 42, Role: domain.RoleCounselor, OrgID: 10}, *seen)
}

func TestAuth_MissingHeader(t *testing.T) {
	jwt := jwtsvc.New("test-secret", time.Hour)
	r, _ := setupRouter(jwt)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_BadToken(t *testing.T) {
	jwt := jwtsvc.New("test-secret", time.Hour)
	r, _ := setupRouter(jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaffOnly(t *testing.T) {
	jwt := jwtsvc.New("test-secret", time.Hour)
	r, _ := setupRouter(jwt)

	staffToken, _ := jwt.GenerateToken(42, string(domain.RoleOrgAdmin), 10)
	studentToken, _ := jwt.GenerateToken(200, string(domain.RoleStudent), 10)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/staff-only", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/staff-only", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
