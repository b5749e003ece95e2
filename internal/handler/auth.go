package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-api/internal/config"
	"github.com/iliyamo/movie-ticket-api/internal/utils"
)

// AuthHandler implements the admin login endpoint. There is no user table
// in this service: a single admin principal is configured through the
// environment and its password is bcrypt-hashed once at startup. The token
// it issues carries the ADMIN role and unlocks the cache-clear endpoint.
type AuthHandler struct {
	Cfg       config.Config
	adminHash string // bcrypt hash of the configured admin password
}

// NewAuthHandler hashes the configured admin password and returns the
// handler. Hashing up front means the plain credential is compared through
// bcrypt on every login rather than with string equality.
func NewAuthHandler(cfg config.Config) (*AuthHandler, error) {
	hash, err := utils.HashPassword(cfg.AdminPass, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{Cfg: cfg, adminHash: hash}, nil
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Login handles POST /v1/auth/login. Wrong email and wrong password get
// the same response so the endpoint does not confirm which half matched.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	if req.Email != strings.ToLower(h.Cfg.AdminEmail) || !utils.VerifyPassword(h.adminHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, req.Email, "ADMIN", h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, loginResp{Token: access.Token, Expires: access.Exp})
}
