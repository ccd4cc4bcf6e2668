package handlers

import (
	"errors"
	"net/http"

	"Tasker/internal/auth"
	dom "Tasker/internal/domain"
	"Tasker/internal/dto"
	"Tasker/internal/response"
	"Tasker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles login, register and logout. sessions may be nil, in
// which case only bearer tokens are issued.
type AuthHandler struct {
	sessions *auth.Store
	tokens   *auth.TokenManager
	userSvc  *service.UserService
	log      logrus.FieldLogger
	expose   bool
	secure   bool
}

// NewAuthHandler returns a new AuthHandler. secure marks the session cookie Secure.
func NewAuthHandler(sessions *auth.Store, tokens *auth.TokenManager, userSvc *service.UserService, log logrus.FieldLogger, expose, secure bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, tokens: tokens, userSvc: userSvc, log: log, expose: expose, secure: secure}
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  response.Envelope{data=dto.AuthData}
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		h.log.WithError(err).WithField("op", "login").Error("credential check failed")
		response.Internal(c, "Login failed", err, h.expose)
		return
	}
	h.signIn(c, http.StatusOK, "Logged in successfully", user)
}

// Register godoc
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Credentials"
// @Success      201   {object}  response.Envelope{data=dto.AuthData}
// @Failure      400   {object}  response.Envelope
// @Failure      409   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusBadRequest, "Username and password are required")
			return
		}
		if errors.Is(err, service.ErrUsernameTaken) {
			response.Fail(c, http.StatusConflict, "Username already taken")
			return
		}
		h.log.WithError(err).WithField("op", "register").Error("registration failed")
		response.Internal(c, "Registration failed", err, h.expose)
		return
	}
	h.signIn(c, http.StatusCreated, "User registered successfully", user)
}

// Logout godoc
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, err := c.Cookie(auth.SessionCookieName)
	if err == nil && sessionID != "" && h.sessions != nil {
		if err := h.sessions.Delete(c.Request.Context(), sessionID); err != nil {
			h.log.WithError(err).Warn("session delete failed")
		}
	}
	c.SetCookie(auth.SessionCookieName, "", -1, "/", "", h.secure, true)
	response.OK(c, http.StatusOK, "Logged out successfully", nil)
}

// signIn issues a bearer token and, when sessions are enabled, a session cookie.
func (h *AuthHandler) signIn(c *gin.Context, status int, message string, user dom.User) {
	token, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		h.log.WithError(err).Error("token issue failed")
		response.Internal(c, "Failed to issue token", err, h.expose)
		return
	}
	if h.sessions != nil {
		sessionID, err := h.sessions.Create(c.Request.Context(), user.ID)
		if err != nil {
			h.log.WithError(err).Error("session create failed")
			response.Internal(c, "Failed to create session", err, h.expose)
			return
		}
		c.SetCookie(auth.SessionCookieName, sessionID, int(h.sessions.TTL().Seconds()), "/", "", h.secure, true)
	}
	response.OK(c, status, message, dto.AuthData{
		User:  dto.UserResponse{ID: user.ID, Username: user.Username},
		Token: token,
	})
}
