package keys

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/fixora/expense-tracker/infrastructure/config"
	"github.com/fixora/expense-tracker/infrastructure/service/logger"
)

// Algorithm is the only signing algorithm this service uses.
const Algorithm = "RS256"

// GeneratedKeyBits is the modulus size of development key pairs. Configured
// keys smaller than this are rejected as well.
const GeneratedKeyBits = 2048

var (
	// ErrConfiguration: key material is required but absent.
	ErrConfiguration = errors.New("jwt key configuration error")
	// ErrKeyFormat: supplied key material cannot be decoded or is unusable.
	ErrKeyFormat = errors.New("jwt key format error")
	// ErrNoTerminal is returned by TerminalSink when its output is not an
	// interactive terminal.
	ErrNoTerminal = errors.New("diagnostic output is not an interactive terminal")
)

// Provenance records where the key pair came from.
type Provenance string

const (
	ProvenanceConfigured Provenance = "configured"
	ProvenanceGenerated  Provenance = "generated"
)

// KeyMaterial is the process-wide signing key pair. It is built once before
// the server starts and is read-only afterwards, so it is shared by pointer
// without locking.
type KeyMaterial struct {
	privateKey  *rsa.PrivateKey
	publicKey   *rsa.PublicKey
	keyID       string
	provenance  Provenance
	fingerprint string
}

func (m *KeyMaterial) PrivateKey() *rsa.PrivateKey { return m.privateKey }
func (m *KeyMaterial) PublicKey() *rsa.PublicKey   { return m.publicKey }
func (m *KeyMaterial) KeyID() string               { return m.keyID }
func (m *KeyMaterial) Algorithm() string           { return Algorithm }
func (m *KeyMaterial) Provenance() Provenance      { return m.provenance }

// Fingerprint is the SHA-256 of the public key's DER encoding. Safe to log.
func (m *KeyMaterial) Fingerprint() string { return m.fingerprint }

// DiagnosticSink receives generated development key material. Implementations
// must not persist what they receive.
type DiagnosticSink interface {
	EmitGeneratedKeys(m *KeyMaterial) error
}

// Options drive NewKeyProvider.
type Options struct {
	PrivateKeyBase64 string
	PublicKeyBase64  string
	KeyID            string
	// Production forbids falling back to generated keys.
	Production bool
	// Sink, when set, receives generated keys in non-production profiles.
	Sink   DiagnosticSink
	Logger logger.Logger
}

// OptionsFromConfig maps the service configuration onto provider options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		PrivateKeyBase64: cfg.JWTPrivateKey,
		PublicKeyBase64:  cfg.JWTPublicKey,
		KeyID:            cfg.JWTKeyID,
		Production:       cfg.IsProduction(),
	}
}

// NewKeyProvider resolves the signing key material for this process.
//
// Both keys configured: they are decoded and adopted. Only one configured:
// ErrKeyFormat. Neither configured: ErrConfiguration in production, otherwise
// a fresh 2048-bit pair is generated. Every error is fatal for startup.
func NewKeyProvider(ctx context.Context, opts Options) (*KeyMaterial, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	log = log.WithFields(map[string]interface{}{"component": "key_provider"})

	if opts.KeyID == "" {
		opts.KeyID = config.DefaultKeyID
	}

	hasPrivate := opts.PrivateKeyBase64 != ""
	hasPublic := opts.PublicKeyBase64 != ""

	switch {
	case hasPrivate && hasPublic:
		material, err := loadConfigured(opts)
		if err != nil {
			log.Error(ctx, "Failed to load configured JWT keys", err, nil)
			return nil, err
		}
		log.Info(ctx, "Loaded JWT keys from configuration", material.logFields())
		return material, nil

	case hasPrivate != hasPublic:
		err := fmt.Errorf("%w: JWT_PRIVATE_KEY and JWT_PUBLIC_KEY must be configured together", ErrKeyFormat)
		log.Error(ctx, "Incomplete JWT key configuration", err, map[string]interface{}{
			"private_key_set": hasPrivate,
			"public_key_set":  hasPublic,
		})
		return nil, err

	case opts.Production:
		err := fmt.Errorf("%w: JWT keys must be configured for production; set JWT_PRIVATE_KEY and JWT_PUBLIC_KEY", ErrConfiguration)
		log.Error(ctx, "Refusing to start without JWT keys", err, nil)
		return nil, err
	}

	log.Warn(ctx, "No JWT keys configured, generating ephemeral development keys", map[string]interface{}{
		"key_id": opts.KeyID,
		"bits":   GeneratedKeyBits,
	})

	started := time.Now()
	material, err := Generate(opts.KeyID)
	if err != nil {
		log.Error(ctx, "Failed to generate development JWT keys", err, nil)
		return nil, err
	}
	logger.LogPerformance(ctx, log, "rsa_key_generation", time.Since(started), nil)
	log.Info(ctx, "Generated development JWT keys; tokens will not survive a restart", material.logFields())

	if opts.Sink != nil {
		if err := opts.Sink.EmitGeneratedKeys(material); err != nil {
			log.Info(ctx, "Development key material not emitted", map[string]interface{}{"reason": err.Error()})
		}
	}

	return material, nil
}

// Generate creates a fresh key pair with provenance "generated".
func Generate(keyID string) (*KeyMaterial, error) {
	priv, err := rsa.GenerateKey(rand.Reader, GeneratedKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generate rsa key: %w", err)
	}
	return newKeyMaterial(priv, keyID, ProvenanceGenerated)
}

// FromPrivateKey wraps an existing key pair with provenance "configured".
func FromPrivateKey(priv *rsa.PrivateKey, keyID string) (*KeyMaterial, error) {
	if priv == nil {
		return nil, fmt.Errorf("%w: nil private key", ErrKeyFormat)
	}
	return newKeyMaterial(priv, keyID, ProvenanceConfigured)
}

func loadConfigured(opts Options) (*KeyMaterial, error) {
	priv, err := DecodePrivateKey(opts.PrivateKeyBase64)
	if err != nil {
		return nil, err
	}
	pub, err := DecodePublicKey(opts.PublicKeyBase64)
	if err != nil {
		return nil, err
	}
	if !priv.PublicKey.Equal(pub) {
		return nil, fmt.Errorf("%w: public key does not match private key", ErrKeyFormat)
	}
	if pub.N.BitLen() < GeneratedKeyBits {
		return nil, fmt.Errorf("%w: rsa key is %d bits, need at least %d", ErrKeyFormat, pub.N.BitLen(), GeneratedKeyBits)
	}
	return newKeyMaterial(priv, opts.KeyID, ProvenanceConfigured)
}

func newKeyMaterial(priv *rsa.PrivateKey, keyID string, provenance Provenance) (*KeyMaterial, error) {
	if err := priv.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFormat, err)
	}
	pub := &priv.PublicKey
	fp, err := fingerprint(pub)
	if err != nil {
		return nil, err
	}
	return &KeyMaterial{
		privateKey:  priv,
		publicKey:   pub,
		keyID:       keyID,
		provenance:  provenance,
		fingerprint: fp,
	}, nil
}

func (m *KeyMaterial) logFields() map[string]interface{} {
	return map[string]interface{}{
		"key_id":      m.keyID,
		"algorithm":   Algorithm,
		"provenance":  string(m.provenance),
		"fingerprint": m.fingerprint,
		"bits":        m.publicKey.N.BitLen(),
	}
}
