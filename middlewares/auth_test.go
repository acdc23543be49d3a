package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func authRouter(roles ...entity.Role) (*gin.Engine, *entity.Principal) {
	gin.SetMode(gin.TestMode)
	var seen entity.Principal
	r := gin.New()
	r.GET("/protected", AuthMiddleware(testSecret, roles...), func(c *gin.Context) {
		seen = Principal(c)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, &seen
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	r, seen := authRouter()
	token, err := utils.GenerateToken(42, entity.RoleCustomer, testSecret, time.Hour)
	require.NoError(t, err)

	w := doGet(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(42), seen.UserID)
	assert.Equal(t, entity.RoleCustomer, seen.Role)
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	r, _ := authRouter()

	w := doGet(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doGet(r, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	forged, err := utils.GenerateToken(42, entity.RoleCustomer, "other-secret", time.Hour)
	require.NoError(t, err)
	w = doGet(r, forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired, err := utils.GenerateToken(42, entity.RoleCustomer, testSecret, -time.Minute)
	require.NoError(t, err)
	w = doGet(r, expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareEnforcesRoles(t *testing.T) {
	r, _ := authRouter(entity.RoleAdmin)

	token, err := utils.GenerateToken(1, entity.RoleCustomer, testSecret, time.Hour)
	require.NoError(t, err)
	w := doGet(r, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin, err := utils.GenerateToken(1, entity.RoleAdmin, testSecret, time.Hour)
	require.NoError(t, err)
	w = doGet(r, admin)
	assert.Equal(t, http.StatusOK, w.Code)
}
