package keys

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// TerminalSink prints generated development keys to an interactive terminal
// so a developer can copy them into a local .env. It refuses to write when
// the descriptor is redirected to a file, pipe or log collector.
type TerminalSink struct {
	out        io.Writer
	isTerminal func() bool
}

// NewTerminalSink writes to f only while f is a terminal.
func NewTerminalSink(f *os.File) *TerminalSink {
	return &TerminalSink{
		out:        f,
		isTerminal: func() bool { return term.IsTerminal(int(f.Fd())) },
	}
}

func (s *TerminalSink) EmitGeneratedKeys(m *KeyMaterial) error {
	if m.Provenance() != ProvenanceGenerated {
		return fmt.Errorf("refusing to print %s key material", m.Provenance())
	}
	if !s.isTerminal() {
		return ErrNoTerminal
	}
	privateKey, err := EncodePrivateKey(m.PrivateKey())
	if err != nil {
		return err
	}
	publicKey, err := EncodePublicKey(m.PublicKey())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(s.out, `
*** NON-PRODUCTION EPHEMERAL JWT KEYS (terminal only, not logged, do not persist) ***
JWT_KEY_ID=%s
JWT_PRIVATE_KEY=%s
JWT_PUBLIC_KEY=%s
*** END NON-PRODUCTION KEYS ***

`, m.KeyID(), privateKey, publicKey)
	return err
}
