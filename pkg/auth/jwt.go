package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hugohenrick/erp-pdv/internal/domain/principal"
)

// Erros específicos
var (
	ErrInvalidCredentials = errors.New("login ou senha inválidos")

	ErrInvalidToken  = errors.New("token inválido")
	ErrExpiredToken  = errors.New("token expirado")
	ErrInvalidClaims = errors.New("claims inválidas")
	ErrMissingJWTKey = errors.New("chave secreta JWT não configurada")
)

// JWTClaims representa as claims personalizadas do token JWT.
// O núcleo transacional só consome o id do operador já resolvido; o restante
// das claims existe para conveniência do front-end.
type JWTClaims struct {
	PrincipalID string `json:"principal_id"`
	Handle      string `json:"handle"`
	jwt.RegisteredClaims
}

// JWTService implementa serviços relacionados a tokens JWT
type JWTService struct {
	secretKey  []byte
	expiration time.Duration
}

// NewJWTService cria uma nova instância de JWTService
func NewJWTService() (*JWTService, error) {
	secretKey := os.Getenv("JWT_SECRET_KEY")
	if secretKey == "" {
		return nil, ErrMissingJWTKey
	}

	// Duração padrão de 24 horas se não for configurado
	expirationStr := os.Getenv("JWT_EXPIRATION_HOURS")
	expiration := 24 * time.Hour
	if expirationStr != "" {
		expirationHours, err := time.ParseDuration(expirationStr + "h")
		if err == nil {
			expiration = expirationHours
		}
	}

	return &JWTService{
		secretKey:  []byte(secretKey),
		expiration: expiration,
	}, nil
}

// GenerateToken gera um token JWT para o operador
func (s *JWTService) GenerateToken(p *principal.Principal) (string, error) {
	expirationTime := time.Now().Add(s.expiration)

	claims := JWTClaims{
		PrincipalID: p.ID,
		Handle:      p.Handle,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "erp-pdv-api",
			Subject:   p.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken valida um token JWT e retorna as claims se for válido
func (s *JWTService) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Verificar o método de assinatura
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}
