package middleware

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/duynhne/social-service/internal/core/domain"
	"github.com/duynhne/social-service/internal/logger"
)

// Error envelope messages.
const (
	MsgDuplicate      = "A record with that value already exists"
	MsgRecordNotFound = "Record not found"
	MsgInvalidData    = "Invalid data provided"
	MsgInternal       = "Internal server error"
)

const pgUniqueViolation = "23505"
const pgNotNullViolation = "23502"

// ErrorResponse is the single-message error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusError carries an explicit HTTP status and client-facing message.
// Handlers raise it for outcomes they decide themselves (e.g. "Post not found").
type StatusError struct {
	Status  int
	Message string
	Err     error
}

// NewStatusError returns a StatusError without an underlying cause.
func NewStatusError(status int, message string) *StatusError {
	return &StatusError{Status: status, Message: message}
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *StatusError) Unwrap() error { return e.Err }

// Normalize maps an error to its HTTP status and envelope. Checks run in
// order and the first match wins.
func Normalize(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{Error: MsgInternal}
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.Status, ErrorResponse{Error: se.Message}
	}

	var pgErr *pgconn.PgError
	isPg := errors.As(err, &pgErr)

	switch {
	case isPg && pgErr.Code == pgUniqueViolation:
		return http.StatusConflict, ErrorResponse{Error: MsgDuplicate}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		return http.StatusNotFound, ErrorResponse{Error: MsgRecordNotFound}
	case isPg && !isInputShapeCode(pgErr.Code):
		return http.StatusBadRequest, ErrorResponse{Error: "Database error: " + pgErr.Code}
	case isPg:
		return http.StatusBadRequest, ErrorResponse{Error: MsgInvalidData}
	}

	if msg := err.Error(); msg != "" {
		return http.StatusInternalServerError, ErrorResponse{Error: msg}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: MsgInternal}
}

// isInputShapeCode reports data exceptions (class 22) and missing required
// columns, i.e. values the store refused because of their shape.
func isInputShapeCode(code string) bool {
	return strings.HasPrefix(code, "22") || code == pgNotNullViolation
}

// ErrorHandler is the terminal stage: it renders the last error a handler
// attached with c.Error, unless a response has already been written.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, body := Normalize(err)

		l := logger.FromContext(c.Request.Context())
		if status >= http.StatusInternalServerError {
			l.Error().Err(err).Int("status", status).Msg("Request failed")
		} else {
			l.Warn().Err(err).Int("status", status).Msg("Request rejected")
		}
		c.JSON(status, body)
	}
}

// Recovery converts panics into the error envelope. Panics carrying an
// error go through Normalize; string panics surface their text.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.FromContext(c.Request.Context()).Error().
			Interface("panic", recovered).
			Bytes("stack", debug.Stack()).
			Msg("Panic recovered")

		status, body := http.StatusInternalServerError, ErrorResponse{Error: MsgInternal}
		switch v := recovered.(type) {
		case error:
			status, body = Normalize(v)
		case string:
			if v != "" {
				body = ErrorResponse{Error: v}
			}
		}
		c.AbortWithStatusJSON(status, body)
	})
}
