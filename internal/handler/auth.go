package handler

import (
	"GoVault/config"
	"GoVault/internal/dto"
	"GoVault/internal/view"
	"GoVault/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ShowHome renders the landing page.
func (h *Handler) ShowHome(c *gin.Context) {
	page := view.HomePage{}
	if token, err := c.Cookie(SessionCookie); err == nil {
		if session, err := h.Sessions.Resolve(c.Request.Context(), token); err == nil {
			page.LoggedIn = true
			page.Handle = session.Handle
		}
	}
	c.HTML(http.StatusOK, "home.html", page)
}

// ShowSignup renders the signup form.
func (h *Handler) ShowSignup(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", view.AuthPage{Title: "Sign up"})
}

// ShowLogin renders the login form.
func (h *Handler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", view.AuthPage{Title: "Log in"})
}

// Signup creates a user from the signup form.
func (h *Handler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "signup.html", view.AuthPage{
			Title: "Sign up",
			Error: "handle and password are required",
		})
		return
	}
	if _, err := h.Users.Create(req.Handle, req.Password); err != nil {
		status, msg := errStatus(err)
		c.HTML(status, "signup.html", view.AuthPage{
			Title: "Sign up",
			Error: msg,
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

// Login verifies credentials, issues a session and sets the cookie.
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", view.AuthPage{
			Title: "Log in",
			Error: "handle and password are required",
		})
		return
	}
	user, err := h.Users.Verify(req.Handle, req.Password)
	if err != nil {
		status, msg := errStatus(err)
		c.HTML(status, "login.html", view.AuthPage{
			Title: "Log in",
			Error: msg,
		})
		return
	}
	token, err := h.Sessions.Issue(c.Request.Context(), user)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", view.AuthPage{
			Title: "Log in",
			Error: "internal error",
		})
		return
	}
	h.setSessionCookie(c, token, int(h.Sessions.TTL().Seconds()))
	c.Redirect(http.StatusSeeOther, "/files")
}

// Logout revokes the session and clears the cookie.
func (h *Handler) Logout(c *gin.Context) {
	if token, ok := c.Get("session_token"); ok {
		_ = h.Sessions.Revoke(c.Request.Context(), token.(string))
	}
	h.setSessionCookie(c, "", -1)
	if isAPI(c) {
		utils.Success(c, nil)
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", config.AppConfig.CookieSecure, true)
}

// APILogin verifies credentials and returns a bearer token for API clients.
func (h *Handler) APILogin(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "handle and password are required")
		return
	}
	user, err := h.Users.Verify(req.Handle, req.Password)
	if err != nil {
		status, msg := errStatus(err)
		utils.Fail(c, status, msg)
		return
	}
	token, err := utils.GenerateToken(user.ID, user.Handle)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	utils.Success(c, dto.LoginResponse{
		Token:  token,
		UserID: user.ID,
		Handle: user.Handle,
	})
}

// APISignup creates a user from a JSON request.
func (h *Handler) APISignup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "handle and password are required")
		return
	}
	user, err := h.Users.Create(req.Handle, req.Password)
	if err != nil {
		status, msg := errStatus(err)
		utils.Fail(c, status, msg)
		return
	}
	utils.Success(c, gin.H{"user_id": user.ID, "handle": user.Handle})
}
