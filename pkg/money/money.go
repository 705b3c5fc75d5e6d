package money

import "math"

// Tolerance é a tolerância usada em todas as comparações monetárias do sistema.
const Tolerance = 0.01

// Round2 arredonda um valor para 2 casas decimais, meio sempre para longe de zero.
func Round2(v float64) float64 {
	return math.Trunc(v*100+math.Copysign(0.5, v)) / 100
}

// Equal compara dois valores monetários dentro da tolerância
func Equal(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance+1e-9
}

// GreaterOrEqual verifica se a >= b dentro da tolerância
func GreaterOrEqual(a, b float64) bool {
	return a >= b-Tolerance-1e-9
}

// IsPositive verifica se o valor é positivo além da tolerância
func IsPositive(v float64) bool {
	return v > Tolerance
}

// SpreadResidue ajusta a primeira linha para que a soma das linhas feche com o
// total esperado. O resíduo máximo absorvido é de 1 centavo; diferenças maiores
// são devolvidas sem ajuste para o chamador tratar como erro de validação.
func SpreadResidue(lines []float64, expected float64) ([]float64, float64) {
	if len(lines) == 0 {
		return lines, Round2(expected)
	}

	sum := 0.0
	for _, l := range lines {
		sum += l
	}
	residue := Round2(expected - sum)

	if residue != 0 && math.Abs(residue) <= Tolerance+1e-9 {
		lines[0] = Round2(lines[0] + residue)
		return lines, 0
	}

	return lines, residue
}
