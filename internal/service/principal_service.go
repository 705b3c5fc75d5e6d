package service

import (
	"context"
	"fmt"

	"github.com/hugohenrick/erp-pdv/internal/domain/principal"
	"github.com/hugohenrick/erp-pdv/pkg/auth"
)

// PrincipalService implementa autenticação e administração de operadores
type PrincipalService struct {
	principals principal.Repository
	jwt        *auth.JWTService
}

// NewPrincipalService cria uma nova instância de PrincipalService
func NewPrincipalService(principals principal.Repository, jwt *auth.JWTService) *PrincipalService {
	return &PrincipalService{principals: principals, jwt: jwt}
}

// LoginResult carrega o operador autenticado e seu token
type LoginResult struct {
	Principal *principal.Principal `json:"principal"`
	Token     string               `json:"token"`
}

// Login autentica por login e senha. Operador inexistente e senha errada
// retornam o mesmo erro; operador inativo é rejeitado mesmo com a senha certa.
func (s *PrincipalService) Login(ctx context.Context, handle, password string) (*LoginResult, error) {
	p, err := s.principals.FindByHandle(ctx, handle)
	if err != nil {
		return nil, auth.ErrInvalidCredentials
	}
	if !p.CheckPassword(password) {
		return nil, auth.ErrInvalidCredentials
	}
	if !p.IsActive() {
		return nil, fmt.Errorf("operador %s: %w", p.ID, principal.ErrNotActive)
	}

	token, err := s.jwt.GenerateToken(p)
	if err != nil {
		return nil, fmt.Errorf("operador %s: %w", p.ID, err)
	}

	return &LoginResult{Principal: p, Token: token}, nil
}

// Create cadastra um novo operador com seu mapa de permissões
func (s *PrincipalService) Create(ctx context.Context, handle, name, password string, caps principal.Capabilities) (*principal.Principal, error) {
	p, err := principal.NewPrincipal(handle, name, password, caps)
	if err != nil {
		return nil, err
	}
	if err := s.principals.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("operador %s: %w", p.ID, err)
	}
	return p, nil
}

// Update altera nome, permissões e situação de um operador. Senha só muda
// quando informada.
func (s *PrincipalService) Update(ctx context.Context, id, name, password string, caps principal.Capabilities, active bool) (*principal.Principal, error) {
	p, err := s.principals.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("operador %s: %w", id, err)
	}

	if name != "" {
		p.Name = name
	}
	p.Capabilities = caps
	p.Active = active

	if password != "" {
		if err := p.SetPassword(password); err != nil {
			return nil, fmt.Errorf("operador %s: %w", id, err)
		}
	}

	if err := s.principals.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("operador %s: %w", id, err)
	}
	return p, nil
}

// UpdateTheme grava a preferência de tema do próprio operador
func (s *PrincipalService) UpdateTheme(ctx context.Context, id string, theme principal.Theme) error {
	if theme != principal.ThemeLight && theme != principal.ThemeDark {
		theme = principal.ThemeLight
	}
	if err := s.principals.UpdateTheme(ctx, id, theme); err != nil {
		return fmt.Errorf("operador %s: %w", id, err)
	}
	return nil
}

// FindByID retorna um operador pelo ID
func (s *PrincipalService) FindByID(ctx context.Context, id string) (*principal.Principal, error) {
	p, err := s.principals.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("operador %s: %w", id, err)
	}
	return p, nil
}

// List retorna os operadores com paginação
func (s *PrincipalService) List(ctx context.Context, limit, offset int) ([]*principal.Principal, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.principals.List(ctx, limit, offset)
}
