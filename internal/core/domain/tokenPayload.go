package domain

import (
	"github.com/google/uuid"
)

type OperatorRole string

const (
	RoleAdmin    OperatorRole = "admin"
	RoleOperator OperatorRole = "operator"
)

// TokenPayload identifies the back-office operator behind a session.
type TokenPayload struct {
	OperatorID uuid.UUID
	Role       OperatorRole
}
