package jwtauth

import (
	"rdhub/internal/platform/middleware"
)

// Adapter bridges the Service to the middleware's TokenValidator interface.
type Adapter struct {
	service *Service
}

func NewAdapter(service *Service) *Adapter {
	return &Adapter{service: service}
}

func (a *Adapter) Validate(tokenString string) (*middleware.AdminClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.AdminClaims{
		Subject: claims.Subject,
		Role:    claims.Role,
	}, nil
}
