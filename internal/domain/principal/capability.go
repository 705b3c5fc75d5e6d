package principal

import (
	"encoding/json"
	"errors"
)

var ErrCapabilitiesInvalid = errors.New("mapa de permissões inválido")

// FieldPolicy define a política de acesso a um campo de formulário
type FieldPolicy string

const (
	FieldFull   FieldPolicy = "Full"
	FieldRead   FieldPolicy = "Read"
	FieldHidden FieldPolicy = "Hidden"
)

// Nomes de capacidades consultadas pelo núcleo transacional
const (
	CapOpenCash            = "open_cash"
	CapCloseWithDivergence = "close_with_divergence"
	CapFinalizeFiscal      = "finalize_fiscal"
	CapFinalizeNonFiscal   = "finalize_non_fiscal"
	CapUnlimitedDiscount   = "unlimited_discount"
)

// LimitMaxDiscountPct é o limite numérico de desconto global em percentual
const LimitMaxDiscountPct = "max_discount_pct"

// Capabilities é o mapa efetivo de permissões de um operador: módulos e
// formulários habilitados, política por campo e limites numéricos.
type Capabilities struct {
	Modules map[string]bool                   `json:"modules"`
	Forms   map[string]bool                   `json:"forms"`
	Fields  map[string]map[string]FieldPolicy `json:"fields"`
	Limits  map[string]float64                `json:"limits"`
}

// DecodeCapabilities decodifica o blob JSON armazenado no banco
func DecodeCapabilities(blob []byte) (Capabilities, error) {
	var caps Capabilities
	if len(blob) == 0 {
		return caps, nil
	}
	if err := json.Unmarshal(blob, &caps); err != nil {
		return caps, ErrCapabilitiesInvalid
	}
	return caps, nil
}

// Encode serializa o mapa de permissões como JSON compacto
func (c Capabilities) Encode() ([]byte, error) {
	return json.Marshal(c)
}

// HasModule verifica se o módulo está habilitado
func (c Capabilities) HasModule(module string) bool {
	return c.Modules[module]
}

// Has verifica se o formulário/capacidade está habilitado
func (c Capabilities) Has(form string) bool {
	return c.Forms[form]
}

// Check retorna a política de acesso ao campo; o padrão é acesso total quando
// nada foi configurado.
func (c Capabilities) Check(form, field string) FieldPolicy {
	fields, ok := c.Fields[form]
	if !ok {
		return FieldFull
	}
	policy, ok := fields[field]
	if !ok {
		return FieldFull
	}
	return policy
}

// Limit retorna um limite numérico; ok indica se foi configurado
func (c Capabilities) Limit(name string) (float64, bool) {
	v, ok := c.Limits[name]
	return v, ok
}

// MaxDiscountPct retorna o limite de desconto global em percentual.
// Sem configuração, o limite é zero (nenhum desconto global permitido).
func (c Capabilities) MaxDiscountPct() float64 {
	if c.Has(CapUnlimitedDiscount) {
		return 100
	}
	v, ok := c.Limit(LimitMaxDiscountPct)
	if !ok {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
