package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/duynhne/social-service/internal/logger"
	logicv1 "github.com/duynhne/social-service/internal/logic/v1"
	"github.com/duynhne/social-service/middleware"
)

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	ctx, span := startSpan(c, "auth.register")
	defer span.End()

	req := middleware.Body[RegisterRequest](c)
	res, err := h.svc.Auth.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("Registration failed")
		fail(c, span, err)
		return
	}

	logger.FromContext(ctx).Info().Int64("user_id", res.User.ID).Msg("Registration successful")
	c.JSON(http.StatusCreated, gin.H{"user": res.User, "token": res.Token})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := startSpan(c, "auth.login")
	defer span.End()

	req := middleware.Body[LoginRequest](c)
	res, err := h.svc.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Warn().Err(err).Msg("Login failed")

		switch {
		case errors.Is(err, logicv1.ErrInvalidCredentials), errors.Is(err, logicv1.ErrUserNotFound):
			// Unknown email and wrong password are indistinguishable.
			_ = c.Error(&middleware.StatusError{Status: http.StatusUnauthorized, Message: MsgInvalidCredentials, Err: err})
		default:
			_ = c.Error(err)
		}
		return
	}

	span.SetAttributes(attribute.Int64("user.id", res.User.ID))
	logger.FromContext(ctx).Info().Int64("user_id", res.User.ID).Msg("Login successful")
	c.JSON(http.StatusOK, gin.H{"token": res.Token, "user": res.User})
}

// GetMe handles GET /auth/me.
func (h *Handler) GetMe(c *gin.Context) {
	ctx, span := startSpan(c, "auth.me")
	defer span.End()

	user, err := h.svc.Auth.Me(ctx, caller(c))
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Search handles GET /search.
func (h *Handler) Search(c *gin.Context) {
	ctx, span := startSpan(c, "search")
	defer span.End()

	q := middleware.Query[SearchQuery](c)
	res, err := h.svc.Search.Search(ctx, q.Q)
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
