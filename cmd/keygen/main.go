package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fixora/expense-tracker/infrastructure/config"
	"github.com/fixora/expense-tracker/infrastructure/service/keys"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "keygen",
		Short:        "Manage the RS256 signing keys of the expense tracker API",
		SilenceUsage: true,
	}

	var keyID string
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a 2048-bit key pair and print it as environment variables",
		Long: `Generate a fresh RSA key pair for JWT_PRIVATE_KEY / JWT_PUBLIC_KEY.

The output contains the private key. Write it straight into your secret
store; do not commit it or paste it into logs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			material, err := keys.Generate(keyID)
			if err != nil {
				return err
			}
			return writeEnv(out, material)
		},
	}
	generateCmd.Flags().StringVar(&keyID, "kid", config.DefaultKeyID, "key id published in the JWKS and token headers")

	jwksCmd := &cobra.Command{
		Use:   "jwks",
		Short: "Print the JWKS for the keys configured in the environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts := keys.OptionsFromConfig(cfg)
			// Never generate here: a JWKS for throwaway keys is useless.
			opts.Production = true
			material, err := keys.NewKeyProvider(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return writeJWKS(out, material)
		},
	}

	root.AddCommand(generateCmd, jwksCmd)
	root.SetContext(context.Background())
	return root
}

func writeEnv(out io.Writer, material *keys.KeyMaterial) error {
	privateKey, err := keys.EncodePrivateKey(material.PrivateKey())
	if err != nil {
		return err
	}
	publicKey, err := keys.EncodePublicKey(material.PublicKey())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "# %s\nJWT_KEY_ID=%s\nJWT_PRIVATE_KEY=%s\nJWT_PUBLIC_KEY=%s\n",
		material.Fingerprint(), material.KeyID(), privateKey, publicKey)
	return err
}

func writeJWKS(out io.Writer, material *keys.KeyMaterial) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(material.JWKS())
}
