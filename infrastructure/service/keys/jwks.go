package keys

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
)

// JWK is the public RSA signing key entry of a key set. It deliberately has
// no fields for private parameters (d, p, q, dp, dq, qi).
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKS is the document served at /.well-known/jwks.json.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// PublicJWK renders an RSA public key as a signing JWK.
func PublicJWK(pub *rsa.PublicKey, keyID string) JWK {
	return JWK{
		Kty: "RSA",
		Use: "sig",
		Alg: Algorithm,
		Kid: keyID,
		N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}
}

// JWKS returns the key set for this material: exactly one public key.
func (m *KeyMaterial) JWKS() JWKS {
	return JWKS{Keys: []JWK{PublicJWK(m.publicKey, m.keyID)}}
}

// JWKSJSON is JWKS serialized.
func (m *KeyMaterial) JWKSJSON() ([]byte, error) {
	return json.Marshal(m.JWKS())
}
