package ports

import "github.com/sm8ta/webike_rental_manager/internal/core/domain"

type TokenService interface {
	VerifyToken(token string) (*domain.TokenPayload, error)
}
