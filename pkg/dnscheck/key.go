package dnscheck

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

// ErrInvalidDKIMKey indicates key material that is not a usable RSA private key.
var ErrInvalidDKIMKey = errors.New("dnscheck: invalid dkim key")

// ParseDKIMKey parses a PEM-encoded RSA private key in PKCS#1 or PKCS#8 form.
func ParseDKIMKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidDKIMKey)
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDKIMKey, err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA key", ErrInvalidDKIMKey)
	}
	return key, nil
}
