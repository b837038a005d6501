package selectors

import (
	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/store"
)

func User(s *store.State) *models.Profile {
	return s.User.User
}

// IsAuthChecked reports whether the initial session check has completed,
// whatever its outcome
func IsAuthChecked(s *store.State) bool {
	return s.User.IsAuthChecked
}

func UserError(s *store.State) string {
	return s.User.Error
}

func IsAuthenticated(s *store.State) bool {
	return s.User.User != nil
}
