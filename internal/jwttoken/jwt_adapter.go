package jwttoken

import (
	"guardhq/internal/platform/middleware"
	id "guardhq/pkg/domain"
)

// MiddlewareAdapter bridges the token service to the transport middleware's
// TokenValidator interface without the middleware importing this package.
type MiddlewareAdapter struct {
	service *Service
}

func NewMiddlewareAdapter(service *Service) *MiddlewareAdapter {
	return &MiddlewareAdapter{service: service}
}

// ValidateToken validates the token and converts claims to middleware form.
func (a *MiddlewareAdapter) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	actorID, err := id.ParseActorID(claims.ActorID)
	if err != nil {
		return nil, err
	}
	return &middleware.TokenClaims{ActorID: actorID}, nil
}
