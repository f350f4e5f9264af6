package keys

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodePrivateKey parses a base64 PKCS8 DER RSA private key.
func DecodePrivateKey(encoded string) (*rsa.PrivateKey, error) {
	der, err := decodeBase64(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: private key is not valid base64: %v", ErrKeyFormat, err)
	}
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: private key is not PKCS8: %v", ErrKeyFormat, err)
	}
	priv, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: private key is %T, want RSA", ErrKeyFormat, parsed)
	}
	return priv, nil
}

// DecodePublicKey parses a base64 X.509 SubjectPublicKeyInfo DER RSA key.
func DecodePublicKey(encoded string) (*rsa.PublicKey, error) {
	der, err := decodeBase64(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: public key is not valid base64: %v", ErrKeyFormat, err)
	}
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: public key is not X.509: %v", ErrKeyFormat, err)
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: public key is %T, want RSA", ErrKeyFormat, parsed)
	}
	return pub, nil
}

// EncodePrivateKey renders priv in the format DecodePrivateKey accepts.
func EncodePrivateKey(priv *rsa.PrivateKey) (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return "", fmt.Errorf("marshal private key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(der), nil
}

// EncodePublicKey renders pub in the format DecodePublicKey accepts.
func EncodePublicKey(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("marshal public key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(der), nil
}

// decodeBase64 accepts padded or unpadded standard base64 and ignores
// whitespace, which env files and secret stores tend to introduce.
func decodeBase64(encoded string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, encoded)
	if cleaned == "" {
		return nil, fmt.Errorf("empty input")
	}
	if der, err := base64.StdEncoding.DecodeString(cleaned); err == nil {
		return der, nil
	}
	return base64.RawStdEncoding.DecodeString(cleaned)
}

func fingerprint(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("marshal public key: %w", err)
	}
	sum := sha256.Sum256(der)
	return "SHA256:" + base64.RawStdEncoding.EncodeToString(sum[:]), nil
}
