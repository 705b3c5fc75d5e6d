package service

import (
	"context"
	"fmt"

	"github.com/hugohenrick/erp-pdv/internal/domain/organization"
	"github.com/hugohenrick/erp-pdv/pkg/pkcs12"
)

// OrganizationService implementa o cadastro de organizações, estabelecimentos
// e terminais, incluindo o armazenamento das credenciais fiscais.
type OrganizationService struct {
	organizations organization.Repository
	terminals     organization.TerminalRepository
}

// NewOrganizationService cria uma nova instância de OrganizationService
func NewOrganizationService(organizations organization.Repository, terminals organization.TerminalRepository) *OrganizationService {
	return &OrganizationService{organizations: organizations, terminals: terminals}
}

// Create cadastra uma nova organização
func (s *OrganizationService) Create(ctx context.Context, o *organization.Organization) error {
	if err := s.organizations.Create(ctx, o); err != nil {
		return fmt.Errorf("organização %s: %w", o.ID, err)
	}
	return nil
}

// Update altera os dados cadastrais de uma organização
func (s *OrganizationService) Update(ctx context.Context, o *organization.Organization) error {
	if err := s.organizations.Update(ctx, o); err != nil {
		return fmt.Errorf("organização %s: %w", o.ID, err)
	}
	return nil
}

// FindByID retorna uma organização pelo ID
func (s *OrganizationService) FindByID(ctx context.Context, id string) (*organization.Organization, error) {
	o, err := s.organizations.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("organização %s: %w", id, err)
	}
	return o, nil
}

// List retorna as organizações com paginação
func (s *OrganizationService) List(ctx context.Context, limit, offset int) ([]*organization.Organization, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.organizations.List(ctx, limit, offset)
}

// StoreCertificate valida e armazena o certificado A1 da organização. O blob
// só é aceito se decodificar com a senha informada e estiver dentro da
// validade; depois de armazenado, é tratado como opaco.
func (s *OrganizationService) StoreCertificate(ctx context.Context, organizationID string, pfxData []byte, password string) (*pkcs12.Info, error) {
	o, err := s.organizations.FindByID(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("organização %s: %w", organizationID, err)
	}

	info, err := pkcs12.Inspect(pfxData, password)
	if err != nil {
		return nil, fmt.Errorf("organização %s: %w", organizationID, err)
	}

	o.Certificate = pfxData
	o.CertificatePassword = password

	if err := s.organizations.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("organização %s: %w", organizationID, err)
	}
	return info, nil
}

// CreatePlace cadastra um estabelecimento subordinado a uma organização
func (s *OrganizationService) CreatePlace(ctx context.Context, p *organization.FiscalPlace) error {
	if _, err := s.organizations.FindByID(ctx, p.OrganizationID); err != nil {
		return fmt.Errorf("organização %s: %w", p.OrganizationID, err)
	}
	if err := s.organizations.CreatePlace(ctx, p); err != nil {
		return fmt.Errorf("estabelecimento %s: %w", p.ID, err)
	}
	return nil
}

// ListPlaces retorna os estabelecimentos de uma organização
func (s *OrganizationService) ListPlaces(ctx context.Context, organizationID string) ([]*organization.FiscalPlace, error) {
	return s.organizations.ListPlaces(ctx, organizationID)
}

// EffectiveDocument resolve o CNPJ de trabalho de um estabelecimento
func (s *OrganizationService) EffectiveDocument(ctx context.Context, placeID string) (string, error) {
	place, err := s.organizations.FindPlaceByID(ctx, placeID)
	if err != nil {
		return "", fmt.Errorf("estabelecimento %s: %w", placeID, err)
	}
	org, err := s.organizations.FindByID(ctx, place.OrganizationID)
	if err != nil {
		return "", fmt.Errorf("organização %s: %w", place.OrganizationID, err)
	}
	return place.EffectiveDocument(org), nil
}

// CreateTerminal cadastra um terminal de venda. As contas de destino por meio
// de pagamento ficam no próprio terminal; sem elas a finalização rejeita o
// pagamento correspondente.
func (s *OrganizationService) CreateTerminal(ctx context.Context, t *organization.Terminal) error {
	if _, err := s.organizations.FindPlaceByID(ctx, t.FiscalPlaceID); err != nil {
		return fmt.Errorf("estabelecimento %s: %w", t.FiscalPlaceID, err)
	}
	if err := s.terminals.Create(ctx, t); err != nil {
		return fmt.Errorf("terminal %s: %w", t.ID, err)
	}
	return nil
}

// UpdateTerminal altera a configuração de um terminal
func (s *OrganizationService) UpdateTerminal(ctx context.Context, t *organization.Terminal) error {
	if err := s.terminals.Update(ctx, t); err != nil {
		return fmt.Errorf("terminal %s: %w", t.ID, err)
	}
	return nil
}

// FindTerminalByHostname localiza o terminal pelo nome da máquina, usado na
// identificação automática do ponto de venda.
func (s *OrganizationService) FindTerminalByHostname(ctx context.Context, hostname string) (*organization.Terminal, error) {
	t, err := s.terminals.FindByHostname(ctx, hostname)
	if err != nil {
		return nil, fmt.Errorf("terminal %q: %w", hostname, err)
	}
	return t, nil
}

// ListTerminals retorna os terminais de um estabelecimento
func (s *OrganizationService) ListTerminals(ctx context.Context, fiscalPlaceID string) ([]*organization.Terminal, error) {
	return s.terminals.List(ctx, fiscalPlaceID)
}
