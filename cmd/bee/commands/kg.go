package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) kgCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "kg", Short: "Generate and show key pairs"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "gen NAME",
			Short: "Generate a key pair and store it securely",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				pass, err := c.passphrase()
				if err != nil {
					return err
				}
				pk, fp, err := c.wire.Keys.Generate(pass, args[0], c.wire.Config.Level)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Key %q created (level %d).\nFingerprint: %s\n", pk.Name, int(pk.Level), fp)
				return nil
			},
		},
		&cobra.Command{
			Use:   "pub NAME",
			Short: "Print a public key in hex",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				pk, err := c.wire.Keys.Public(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%x\n", pk.Pub)
				return nil
			},
		},
		&cobra.Command{
			Use:   "fp NAME",
			Short: "Print a public key fingerprint",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				fp, err := c.wire.Keys.Fingerprint(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Fingerprint: %s\n", fp)
				return nil
			},
		},
	)
	return cmd
}
