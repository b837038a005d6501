package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
)

// ErrTokenExpired matches errors caused by an expired access token
var ErrTokenExpired = errors.New("access token expired")

// Error is a failure reported by the burger API
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("burger api: status %d", e.Status)
	}
	return fmt.Sprintf("burger api: status %d: %s", e.Status, e.Message)
}

// ServerMessage returns the message sent by the server
func (e *Error) ServerMessage() string {
	return e.Message
}

// Is makes errors.Is(err, ErrTokenExpired) hold for "jwt expired" replies
func (e *Error) Is(target error) bool {
	return target == ErrTokenExpired && e.Message == models.MsgTokenExpired
}

// IsUnauthorized reports whether err means the caller is not (or no longer) authenticated
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
	}
	return false
}
