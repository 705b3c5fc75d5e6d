package principal

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound    = errors.New("operador não encontrado")
	ErrEmptyHandle = errors.New("login não pode ser vazio")
	ErrEmptyName   = errors.New("nome não pode ser vazio")
	ErrNotActive   = errors.New("operador não está ativo")
)

// Theme representa a preferência de tema do operador
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Principal representa um operador do sistema. Somente um administrador pode
// alterá-lo; o próprio operador só pode trocar o tema.
type Principal struct {
	ID           string       `json:"id"`
	Handle       string       `json:"handle"`
	Name         string       `json:"name"`
	PasswordHash string       `json:"-"`
	Theme        Theme        `json:"theme"`
	Capabilities Capabilities `json:"capabilities"`
	Active       bool         `json:"active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewPrincipal cria um novo operador
func NewPrincipal(handle, name, password string, caps Capabilities) (*Principal, error) {
	if handle == "" {
		return nil, ErrEmptyHandle
	}
	if name == "" {
		return nil, ErrEmptyName
	}

	p := &Principal{
		ID:           uuid.New().String(),
		Handle:       handle,
		Name:         name,
		Theme:        ThemeLight,
		Capabilities: caps,
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := p.SetPassword(password); err != nil {
		return nil, err
	}

	return p, nil
}

// SetPassword configura a senha do operador com hash
func (p *Principal) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifica se a senha fornecida é válida
func (p *Principal) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password))
	return err == nil
}

// IsActive verifica se o operador está ativo
func (p *Principal) IsActive() bool {
	return p.Active
}
