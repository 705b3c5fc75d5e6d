package dto

import "github.com/hugohenrick/erp-pdv/internal/domain/principal"

// LoginRequest representa os dados de autenticação de um operador
type LoginRequest struct {
	Handle   string `json:"handle" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse representa a resposta de autenticação com o token JWT
type LoginResponse struct {
	Token     string               `json:"token"`
	Principal *principal.Principal `json:"principal"`
}

// ThemeRequest representa a troca de tema do próprio operador
type ThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}
