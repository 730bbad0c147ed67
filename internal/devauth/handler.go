// internal/devauth/handler.go
package devauth

import (
	"errors"
	"net/http"

	xerrors "fittech-client/internal/pkg/errors"
	"fittech-client/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler exposes the auth endpoints the storefront client talks to.
// Responses are flat JSON objects, not enveloped: the client decodes
// top-level fields directly.
type Handler struct {
	users    *UserStore
	issuer   *Issuer
	refresh  *RefreshStore
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewHandler(users *UserStore, issuer *Issuer, refresh *RefreshStore, hub *Hub, logger *zap.Logger) *Handler {
	return &Handler{
		users:   users,
		issuer:  issuer,
		refresh: refresh,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dev server, every origin is fine.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenPairResponse struct {
	UserID       int64  `json:"userId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserRole     string `json:"userRole"`
	UserEmail    string `json:"userEmail"`
	UserName     string `json:"userName"`
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// Login checks credentials and issues a fresh token pair.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		h.logger.Warn("login rejected", zap.String("email", req.Email))
		fail(c, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	access, err := h.issuer.Issue(u)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "could not issue token")
		return
	}

	h.logger.Info("user logged in",
		zap.Int64("user_id", u.ID),
		zap.String("role", string(u.Role)),
	)
	h.hub.Publish("login", u.Email)

	c.JSON(http.StatusOK, tokenPairResponse{
		UserID:       u.ID,
		AccessToken:  access,
		RefreshToken: h.refresh.Mint(u.ID),
		UserRole:     string(u.Role),
		UserEmail:    u.Email,
		UserName:     u.Name,
	})
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Register creates an account. It does not log the account in; the client
// follows up with an explicit login.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.users.Create(req.Email, req.Password, req.Name, session.Role(req.Role))
	if err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			fail(c, http.StatusConflict, "Email is already registered.")
			return
		}
		fail(c, http.StatusBadRequest, "registration failed")
		return
	}

	h.logger.Info("user registered", zap.Int64("user_id", u.ID), zap.String("email", u.Email))
	h.hub.Publish("register", u.Email)

	c.JSON(http.StatusCreated, gin.H{
		"userId":   u.ID,
		"userRole": string(u.Role),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh rotates a token pair. The presented refresh token is consumed
// even when rejected, so a stolen token can be replayed at most once.
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "refreshToken is required")
		return
	}

	userID, ok := h.refresh.Redeem(req.RefreshToken)
	if !ok {
		fail(c, http.StatusUnauthorized, "Refresh token is invalid or expired.")
		return
	}
	u, ok := h.users.Get(userID)
	if !ok {
		fail(c, http.StatusUnauthorized, "Account no longer exists.")
		return
	}

	access, err := h.issuer.Issue(u)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "could not issue token")
		return
	}

	h.hub.Publish("refresh", u.Email)
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  access,
		"refreshToken": h.refresh.Mint(u.ID),
	})
}

// Validate reports whether a refresh token is still usable, without
// consuming it.
func (h *Handler) Validate(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "refreshToken is required")
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": h.refresh.Valid(req.RefreshToken)})
}

// Logout revokes the caller's refresh tokens when a bearer token is
// presented. A bare logout still succeeds: the client clears its own state
// regardless and the server should not get in the way.
func (h *Handler) Logout(c *gin.Context) {
	if claims, ok := h.bearerClaims(c); ok {
		h.refresh.RevokeUser(claims.UserID)
		h.hub.Publish("logout", claims.Email)
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the account behind the bearer token.
func (h *Handler) Me(c *gin.Context) {
	claims, ok := h.bearerClaims(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"userId":    claims.UserID,
		"userRole":  string(claims.Role),
		"userEmail": claims.Email,
		"userName":  claims.Name,
	})
}

// WebSocket upgrades the connection and attaches it to the event hub.
func (h *Handler) WebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	h.hub.Serve(conn)
}

func (h *Handler) bearerClaims(c *gin.Context) (*Claims, bool) {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return nil, false
	}
	claims, err := h.issuer.Verify(header[len(prefix):])
	if err != nil {
		return nil, false
	}
	return claims, true
}
