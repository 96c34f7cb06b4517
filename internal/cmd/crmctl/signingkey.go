package crmctl

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// SigningKeyEnv is the variable the web process reads its JWT key from.
const SigningKeyEnv = "CRMDESK_JWT_SIGNING_KEY"

// WriteSigningKey reads n random bytes and writes them as an env assignment.
func WriteSigningKey(out io.Writer, reader io.Reader, n int) error {
	if n <= 0 {
		return errors.New("bytes must be greater than zero")
	}
	if out == nil {
		return errors.New("output is required")
	}
	if reader == nil {
		reader = rand.Reader
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return fmt.Errorf("generate random bytes: %w", err)
	}
	_, err := fmt.Fprintf(out, "%s=%s\n", SigningKeyEnv, hex.EncodeToString(buf))
	return err
}

// NewSigningKeyCommand prints a fresh JWT signing key.
func NewSigningKeyCommand() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "signing-key",
		Short: "Generate a hex JWT signing key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return WriteSigningKey(cmd.OutOrStdout(), nil, n)
		},
	}
	cmd.Flags().IntVar(&n, "bytes", 32, "number of random bytes")
	return cmd
}
