package dto

import "github.com/hugohenrick/erp-pdv/internal/domain/principal"

// PrincipalRequest representa os dados de um operador para criação ou
// atualização. A senha é obrigatória na criação e opcional na atualização.
type PrincipalRequest struct {
	Handle       string                 `json:"handle"`
	Name         string                 `json:"name" binding:"required"`
	Password     string                 `json:"password"`
	Capabilities principal.Capabilities `json:"capabilities"`
	Active       bool                   `json:"active"`
}
