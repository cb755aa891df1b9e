package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/softjobs/softjobs-backend/internal/config"
	"github.com/softjobs/softjobs-backend/internal/domain/user"
	"github.com/softjobs/softjobs-backend/internal/http/middlewares"
	"github.com/softjobs/softjobs-backend/internal/service"
)

// Keep this small interface so tests can fake it easily.
type AuthFlow interface {
	Register(ctx context.Context, email, password, rol, lenguage string) (user.PublicUser, error)
	Login(ctx context.Context, email, password string) (string, error)
	FetchProfile(ctx context.Context, email string) (user.PublicUser, error)
}

type UsersHandler struct {
	auth AuthFlow
	log  *slog.Logger
}

func NewUsersHandler(auth AuthFlow, log *slog.Logger) *UsersHandler {
	if log == nil {
		log = slog.Default()
	}

	return &UsersHandler{auth: auth, log: log}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"` // bcrypt input limit
	Rol      string `json:"rol"`
	Lenguage string `json:"lenguage"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *UsersHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	email, password, ok := trimmedCredentials(ctx, req.Email, req.Password)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	u, err := h.auth.Register(cctx, email, password, req.Rol, req.Lenguage)

	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			RespondConflict(ctx, "user_exists", "User already exists.")
			return
		}

		h.log.Error("register failed", "err", err)
		RespondInternal(ctx, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"usuario": u,
	})
}

func (h *UsersHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	email, password, ok := trimmedCredentials(ctx, req.Email, req.Password)

	if !ok {
		return
	}

	// bcrypt compare dominates; DB lookup itself is quick
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	token, err := h.auth.Login(cctx, email, password)

	if err != nil {
		// unknown email and wrong password collapse into the same answer
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidPassword) {
			RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}

		h.log.Error("login failed", "err", err)
		RespondInternal(ctx, "Could not log in")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
	})
}

func (h *UsersHandler) Profile(ctx *gin.Context) {
	email, ok := middlewares.EmailFromContext(ctx)

	if !ok || email == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.auth.FetchProfile(cctx, email)

	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		h.log.Error("profile fetch failed", "err", err)
		RespondInternal(ctx, "Could not fetch profile")
		return
	}

	// clients consume a single-element array
	ctx.JSON(http.StatusOK, []user.PublicUser{u})
}

// trimmedCredentials rejects bodies whose fields are blank after trimming,
// which the binding tags alone do not catch.
func trimmedCredentials(ctx *gin.Context, email, password string) (string, string, bool) {
	email = strings.TrimSpace(email)

	if email == "" || strings.TrimSpace(password) == "" {
		RespondBadRequest(ctx, "Email and password must not be blank", nil)
		return "", "", false
	}

	return email, password, true
}
