package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"bee/internal/app"
	"bee/internal/crypto"
	"bee/internal/domain"
)

// openerFlags are the credential flags shared by dec and val.
type openerFlags struct {
	pwd, key, cert, anchor string
}

func (f *openerFlags) add(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.pwd, pwdFlag, "", "password the container was sealed with")
	cmd.Flags().StringVar(&f.key, keyFlag, "", "stored private key to open the container with")
	cmd.Flags().StringVar(&f.cert, certFlag, "", "stored certificate the container must be addressed to")
	cmd.Flags().StringVar(&f.anchor, anchorFlag, "", "stored trust anchor for the certificate in the header")
}

func (c *cli) opener(f *openerFlags) (domain.Opener, error) {
	as := domain.Opener{Password: f.pwd, Key: f.key, Cert: f.cert, Anchor: f.anchor}
	if f.key != "" {
		pass, err := c.passphrase()
		if err != nil {
			return domain.Opener{}, err
		}
		as.Passphrase = pass
	}
	return as, nil
}

func (c *cli) encCmd() *cobra.Command {
	var (
		to    domain.Addressee
		adata string
	)
	cmd := &cobra.Command{
		Use:   "enc IN OUT",
		Short: "Encrypt IN into the container OUT",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to.Iter = c.wire.Config.Iter
			return c.wire.Containers.Encrypt(args[0], args[1], to, c.wire.Config.Itag, []byte(adata))
		},
	}
	cmd.Flags().StringVar(&to.Password, pwdFlag, "", "seal with a password")
	cmd.Flags().StringVar(&to.Peer, peerFlag, "", "seal for a stored public key")
	cmd.Flags().BoolVar(&to.WithCert, withCertFlag, false, "take the peer key from its stored certificate and carry it")
	cmd.Flags().StringVar(&adata, adataFlag, "", "associated data bound to the container")
	cmd.Flags().Int(app.IterKey, crypto.MinIter, "PBKDF2 iterations for --pwd")
	_ = c.v.BindPFlag(app.IterKey, cmd.Flags().Lookup(app.IterKey))
	cmd.Flags().Uint(app.ItagKey, 0, "intermediate tag period in MiB, 0 for none")
	_ = c.v.BindPFlag(app.ItagKey, cmd.Flags().Lookup(app.ItagKey))
	return cmd
}

func (c *cli) decCmd() *cobra.Command {
	var (
		f     openerFlags
		adata string
	)
	cmd := &cobra.Command{
		Use:   "dec IN OUT",
		Short: "Decrypt the container IN into OUT",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			as, err := c.opener(&f)
			if err != nil {
				return err
			}
			return c.wire.Containers.Decrypt(args[0], args[1], as, []byte(adata))
		},
	}
	f.add(cmd)
	cmd.Flags().StringVar(&adata, adataFlag, "", "associated data bound to the container")
	return cmd
}

func (c *cli) valCmd() *cobra.Command {
	var f openerFlags
	cmd := &cobra.Command{
		Use:   "val IN",
		Short: "Check that the container IN opens with the given credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			as, err := c.opener(&f)
			if err != nil {
				return err
			}
			if err := c.wire.Containers.Validate(args[0], as); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
	f.add(cmd)
	return cmd
}

func (c *cli) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect IN",
		Short: "Describe the header of the container IN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := c.wire.Containers.Inspect(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Keyload: %s\n", info.Kind)
			fmt.Fprintf(out, "Header:  %d octets\n", info.HeaderLen)
			fmt.Fprintf(out, "Itag:    %d\n", info.Itag)
			switch info.Kind {
			case "pke":
				fmt.Fprintf(out, "Level:   %d\n", int(info.Level))
				if len(info.Cert) > 0 {
					fmt.Fprintf(out, "Cert:    %d octets\n", len(info.Cert))
				}
			case "pwd":
				fmt.Fprintf(out, "Iter:    %d\n", info.Iter)
			}
			return nil
		},
	}
}
