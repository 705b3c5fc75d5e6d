package service

import (
	"context"
	"fmt"

	"github.com/hugohenrick/erp-pdv/internal/domain/principal"
)

// CapabilityService resolve o mapa efetivo de permissões de um operador
type CapabilityService struct {
	principals principal.Repository
}

// NewCapabilityService cria uma nova instância de CapabilityService
func NewCapabilityService(principals principal.Repository) *CapabilityService {
	return &CapabilityService{principals: principals}
}

// Resolve carrega o operador e devolve seu mapa de permissões e limites
func (s *CapabilityService) Resolve(ctx context.Context, principalID string) (principal.Capabilities, error) {
	p, err := s.principals.FindByID(ctx, principalID)
	if err != nil {
		return principal.Capabilities{}, fmt.Errorf("operador %s: %w", principalID, err)
	}

	if !p.IsActive() {
		return principal.Capabilities{}, fmt.Errorf("operador %s: %w", principalID, principal.ErrNotActive)
	}

	return p.Capabilities, nil
}
