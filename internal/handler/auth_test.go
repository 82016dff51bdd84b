package handler

import (
	"GoVault/config"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeIdentity stands in for the auth middlewares and puts a resolved
// identity on the context.
func fakeIdentity(userID uint64, handle string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("handle", handle)
		c.Next()
	}
}

// TestAPILogout tests that bearer clients get a JSON no-op logout.
func TestAPILogout(t *testing.T) {
	config.InitConfig()
	h := New(nil, nil, nil)

	r := gin.New()
	api := r.Group("/api")
	api.Use(fakeIdentity(1, "alice"))
	api.POST("/logout", h.Logout)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expect 200, got %d", w.Code)
	}
	var resp struct {
		Code int `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Code != 0 {
		t.Fatalf("expect success envelope, got code %d", resp.Code)
	}
}
