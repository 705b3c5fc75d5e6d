package principal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeCapabilities(t *testing.T) {
	blob := []byte(`{
		"modules": {"pdv": true, "financeiro": false},
		"forms": {"open_cash": true, "finalize_fiscal": true},
		"fields": {"venda": {"desconto": "Read", "preco": "Hidden"}},
		"limits": {"max_discount_pct": 10}
	}`)

	caps, err := DecodeCapabilities(blob)
	assert.NoError(t, err)
	assert.True(t, caps.HasModule("pdv"))
	assert.False(t, caps.HasModule("financeiro"))
	assert.True(t, caps.Has(CapOpenCash))
	assert.False(t, caps.Has(CapCloseWithDivergence))
	assert.Equal(t, 10.0, caps.MaxDiscountPct())
}

func TestDecodeCapabilitiesMalformed(t *testing.T) {
	_, err := DecodeCapabilities([]byte(`{"modules": [1,2]}`))
	assert.ErrorIs(t, err, ErrCapabilitiesInvalid)
}

func TestDecodeCapabilitiesEmptyBlob(t *testing.T) {
	caps, err := DecodeCapabilities(nil)
	assert.NoError(t, err)
	assert.False(t, caps.Has(CapOpenCash))
}

func TestCheckFieldPolicyDefaultsToFull(t *testing.T) {
	caps, err := DecodeCapabilities([]byte(`{"fields": {"venda": {"desconto": "Read"}}}`))
	assert.NoError(t, err)

	assert.Equal(t, FieldRead, caps.Check("venda", "desconto"))
	// Campo e formulário não configurados têm acesso total
	assert.Equal(t, FieldFull, caps.Check("venda", "quantidade"))
	assert.Equal(t, FieldFull, caps.Check("estoque", "qualquer"))
}

func TestMaxDiscountPct(t *testing.T) {
	// Sem limite configurado, nenhum desconto global é permitido
	var caps Capabilities
	assert.Equal(t, 0.0, caps.MaxDiscountPct())

	// Capacidade irrestrita libera 100%
	caps.Forms = map[string]bool{CapUnlimitedDiscount: true}
	assert.Equal(t, 100.0, caps.MaxDiscountPct())

	// Limite fora da faixa é saturado
	caps = Capabilities{Limits: map[string]float64{LimitMaxDiscountPct: 250}}
	assert.Equal(t, 100.0, caps.MaxDiscountPct())
	caps = Capabilities{Limits: map[string]float64{LimitMaxDiscountPct: -5}}
	assert.Equal(t, 0.0, caps.MaxDiscountPct())
}
