package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"bee/internal/app"
	"bee/internal/domain"
)

func (c *cli) accCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "acc", Short: "Maintain accumulators"}
	cmd.AddCommand(c.accInitCmd(), c.accAddCmd(), c.accDerCmd(), c.accProveCmd(),
		c.accVerifyCmd(), c.accValidateCmd())
	return cmd
}

// nameArg returns the accumulator name, or nil when the flag was not given.
func nameArg(cmd *cobra.Command, name string) []byte {
	if !cmd.Flags().Changed(nameFlag) {
		return nil
	}
	return []byte(name)
}

func (c *cli) member(name string) (domain.KeyRef, error) {
	pass, err := c.passphrase()
	if err != nil {
		return domain.KeyRef{}, err
	}
	return domain.KeyRef{Name: name, Passphrase: pass}, nil
}

func (c *cli) accInitCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "init PATH",
		Short: "Create an empty accumulator file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.wire.Accumulators.Init(args[0], c.wire.Config.Level, nameArg(cmd, name))
		},
	}
	cmd.Flags().StringVar(&name, nameFlag, "", "derive the initial point from this name")
	return cmd
}

func (c *cli) accAddCmd() *cobra.Command {
	var (
		signer, signerPass string
		chain              []string
	)
	cmd := &cobra.Command{
		Use:   "add PATH MEMBER",
		Short: "Add the key MEMBER and sign the new entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.member(args[1])
			if err != nil {
				return err
			}
			if signer == "" {
				return fmt.Errorf("signer required (--%s)", signerFlag)
			}
			s := domain.KeyRef{Name: signer, Passphrase: signerPass}
			if s.Passphrase == "" {
				s.Passphrase = m.Passphrase
			}
			return c.wire.Accumulators.Add(args[0], m, s, chain)
		},
	}
	cmd.Flags().StringVar(&signer, signerFlag, "", "stored key signing the entry")
	cmd.Flags().StringVar(&signerPass, signerPassFlag, "", "passphrase of the signer (default -p)")
	cmd.Flags().StringSliceVar(&chain, chainFlag, nil, "stored certificates from below the anchor down to the signer")
	return cmd
}

func (c *cli) accDerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "der PATH MEMBER",
		Short: "Print the derived public key of MEMBER",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.member(args[1])
			if err != nil {
				return err
			}
			pub, err := c.wire.Accumulators.Der(args[0], m)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%x\n", pub)
			return nil
		},
	}
}

func (c *cli) accProveCmd() *cobra.Command {
	var adata string
	cmd := &cobra.Command{
		Use:   "prove PATH MEMBER",
		Short: "Prove that a derived key belongs to some member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.member(args[1])
			if err != nil {
				return err
			}
			pub, proof, err := c.wire.Accumulators.Prove(args[0], m, []byte(adata))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%x\n%x\n", pub, proof)
			return nil
		},
	}
	cmd.Flags().StringVar(&adata, adataFlag, "", "data bound to the proof")
	return cmd
}

func (c *cli) accVerifyCmd() *cobra.Command {
	var adata string
	cmd := &cobra.Command{
		Use:   "verify PATH PUB PROOF",
		Short: "Verify a proof printed by prove",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := hex.DecodeString(args[1])
			if err != nil {
				return errors.Wrap(domain.ErrBadInput, "public key is not hex")
			}
			proof, err := hex.DecodeString(args[2])
			if err != nil {
				return errors.Wrap(domain.ErrBadInput, "proof is not hex")
			}
			if err := c.wire.Accumulators.Verify(args[0], pub, []byte(adata), proof); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
	cmd.Flags().StringVar(&adata, adataFlag, "", "data bound to the proof")
	return cmd
}

func (c *cli) accValidateCmd() *cobra.Command {
	var anchor, name string
	cmd := &cobra.Command{
		Use:   "validate PATH",
		Short: "Check the signed history of an accumulator file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if anchor == "" {
				return fmt.Errorf("trust anchor required (--%s)", anchorFlag)
			}
			err := c.wire.Accumulators.Validate(cmd.Context(), args[0], nameArg(cmd, name), anchor, c.wire.Config.Workers)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
	cmd.Flags().StringVar(&anchor, anchorFlag, "", "stored trust anchor certificate")
	cmd.Flags().StringVar(&name, nameFlag, "", "expected accumulator name")
	cmd.Flags().Int(app.WorkersKey, 0, "validation workers, 0 for one per CPU")
	_ = c.v.BindPFlag(app.WorkersKey, cmd.Flags().Lookup(app.WorkersKey))
	return cmd
}
