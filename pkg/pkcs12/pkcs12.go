package pkcs12

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"time"

	"software.sslmate.com/src/go-pkcs12"
)

var (
	ErrCertificadoInvalido = errors.New("certificado A1 inválido ou senha incorreta")
	ErrCertificadoVencido  = errors.New("certificado A1 vencido")
)

// Info resume os dados relevantes de um certificado A1
type Info struct {
	Subject   string
	Issuer    string
	NotBefore time.Time
	NotAfter  time.Time
}

// Inspect decodifica um certificado PKCS12 e retorna seus dados básicos.
// Usado antes de armazenar credenciais fiscais de uma organização.
func Inspect(pfxData []byte, password string) (*Info, error) {
	_, certificate, _, err := pkcs12.DecodeChain(pfxData, password)
	if err != nil || certificate == nil {
		return nil, ErrCertificadoInvalido
	}

	info := &Info{
		Subject:   certificate.Subject.CommonName,
		Issuer:    certificate.Issuer.CommonName,
		NotBefore: certificate.NotBefore,
		NotAfter:  certificate.NotAfter,
	}

	if time.Now().After(certificate.NotAfter) {
		return info, ErrCertificadoVencido
	}

	return info, nil
}

// ToPEM converte um certificado PKCS12 para blocos PEM
func ToPEM(pfxData []byte, password string) ([]*pem.Block, error) {
	// Decodificar o arquivo PKCS12
	privateKey, certificate, caCerts, err := pkcs12.DecodeChain(pfxData, password)
	if err != nil {
		return nil, err
	}

	var blocks []*pem.Block

	// Adicionar o certificado principal
	if certificate != nil {
		blocks = append(blocks, &pem.Block{
			Type:  "CERTIFICATE",
			Bytes: certificate.Raw,
		})
	}

	// Adicionar certificados da cadeia (CA)
	for _, cert := range caCerts {
		blocks = append(blocks, &pem.Block{
			Type:  "CERTIFICATE",
			Bytes: cert.Raw,
		})
	}

	// Adicionar chave privada se disponível
	if privateKey != nil {
		pkData, err := x509.MarshalPKCS8PrivateKey(privateKey)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, &pem.Block{
			Type:  "PRIVATE KEY",
			Bytes: pkData,
		})
	}

	return blocks, nil
}
