package commands

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"bee/internal/cert"
	"bee/internal/crypto"
)

func (c *cli) certCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cert", Short: "Manage certificates"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "root NAME",
			Short: "Self-sign the key NAME as a trust anchor",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				pass, err := c.passphrase()
				if err != nil {
					return err
				}
				if _, err := c.wire.Keys.SelfSign(pass, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Root certificate stored for %q.\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "issue ISSUER HOLDER",
			Short: "Certify the public key HOLDER with the key ISSUER",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				pass, err := c.passphrase()
				if err != nil {
					return err
				}
				if _, err := c.wire.Keys.Issue(pass, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Certificate for %q issued by %q.\n", args[1], args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "show NAME",
			Short: "Describe a stored certificate",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				der, err := c.wire.Keys.Cert(args[0])
				if err != nil {
					return err
				}
				crt, err := cert.Parse(der)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Holder:      %s\n", crt.Holder)
				fmt.Fprintf(out, "Issuer:      %s\n", crt.Issuer)
				fmt.Fprintf(out, "Level:       %d\n", int(crt.Level))
				fmt.Fprintf(out, "Fingerprint: %s\n", crypto.Fingerprint(crt.PubKey))
				return nil
			},
		},
		&cobra.Command{
			Use:   "import NAME FILE",
			Short: "Store the DER certificate in FILE under NAME",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				der, err := os.ReadFile(args[1])
				if err != nil {
					return errors.Wrap(err, "failed to read certificate")
				}
				return c.wire.Keys.ImportCert(args[0], der)
			},
		},
		&cobra.Command{
			Use:   "export NAME FILE",
			Short: "Write the stored certificate NAME to FILE",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				der, err := c.wire.Keys.Cert(args[0])
				if err != nil {
					return err
				}
				return errors.Wrap(os.WriteFile(args[1], der, 0o644), "failed to write certificate")
			},
		},
	)
	return cmd
}
