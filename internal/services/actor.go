package services

import "github.com/protrack/protrack-api/internal/models"

// Actor is the authenticated identity behind a request. Every service
// operation takes it explicitly; nothing reads ambient request state.
type Actor struct {
	ID       uint64
	Username string
	Role     models.Role
}
