package handler

import (
	"GoVault/internal/service"
	"GoVault/internal/storage"
	"GoVault/utils"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the opaque session token for browser flows.
const SessionCookie = "vault_session"

// Handler wires HTTP routes to the services. All state is injected at
// construction; handlers keep nothing of their own.
type Handler struct {
	Users    *service.Users
	Sessions *service.Sessions
	Files    *service.Files
}

// New creates the handler set.
func New(users *service.Users, sessions *service.Sessions, files *service.Files) *Handler {
	return &Handler{
		Users:    users,
		Sessions: sessions,
		Files:    files,
	}
}

// isAPI reports whether the request came through the JSON API group.
func isAPI(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// errStatus maps a service error to a status code and a safe message.
// Internal detail never reaches the response.
func errStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, "handle already taken"
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrContentMissing):
		return http.StatusNotFound, "file content missing"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "file not found"
	case errors.Is(err, service.ErrStorage):
		if storage.IsTransient(err) {
			return http.StatusServiceUnavailable, "storage temporarily unavailable, retry later"
		}
		return http.StatusBadGateway, "storage error"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// SessionMiddleware resolves the session cookie into the request
// context. Browser requests without a live session are redirected to
// the login page; API-style requests get a status code.
func (h *Handler) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil {
			h.rejectUnauthenticated(c)
			return
		}
		session, err := h.Sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			h.rejectUnauthenticated(c)
			return
		}
		c.Set("user_id", session.UserID)
		c.Set("handle", session.Handle)
		c.Set("session_token", session.Token)
		c.Next()
	}
}

func (h *Handler) rejectUnauthenticated(c *gin.Context) {
	if isAPI(c) || !acceptsHTML(c) {
		utils.Fail(c, http.StatusUnauthorized, "unauthorized")
		c.Abort()
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
	c.Abort()
}

func acceptsHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html") || accept == "" || strings.Contains(accept, "*/*")
}
