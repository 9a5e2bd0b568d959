package commands

import (
	"fmt"
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"bee/internal/domain"
)

const dialTimeout = 10 * time.Second

// handshakeFlags are the protocol options shared by the bake subcommands.
type handshakeFlags struct {
	self, peer, anchor, pwd string
	helloa, hellob          string
	kca, kcb                bool
}

func (f *handshakeFlags) add(cmd *cobra.Command, withSelf bool) {
	if withSelf {
		cmd.Flags().StringVar(&f.self, selfFlag, "", "stored key of this party (bmqv, bsts)")
		cmd.Flags().StringVar(&f.peer, peerFlag, "", "stored certificate of the other party (bmqv)")
	}
	cmd.Flags().StringVar(&f.anchor, anchorFlag, "", "stored trust anchor for peer certificates (bmqv, bsts)")
	cmd.Flags().StringVar(&f.pwd, pwdFlag, "", "shared password (bpace)")
	cmd.Flags().StringVar(&f.helloa, helloaFlag, "", "hello string of A")
	cmd.Flags().StringVar(&f.hellob, hellobFlag, "", "hello string of B")
	cmd.Flags().BoolVar(&f.kca, kcaFlag, false, "key confirmation by A")
	cmd.Flags().BoolVar(&f.kcb, kcbFlag, false, "key confirmation by B")
}

func (c *cli) handshake(protocol string, initiator bool, f *handshakeFlags) (domain.Handshake, error) {
	h := domain.Handshake{
		Protocol:  protocol,
		Initiator: initiator,
		Peer:      f.peer,
		Anchor:    f.anchor,
		Password:  f.pwd,
		Level:     c.wire.Config.Level,
		Helloa:    []byte(f.helloa),
		Hellob:    []byte(f.hellob),
		Kca:       f.kca,
		Kcb:       f.kcb,
	}
	if protocol != "bpace" {
		pass, err := c.passphrase()
		if err != nil {
			return domain.Handshake{}, err
		}
		h.Self = domain.KeyRef{Name: f.self, Passphrase: pass}
	}
	return h, nil
}

func (c *cli) bakeCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "bake", Short: "Run BMQV, BSTS or BPACE key agreement"}
	cmd.AddCommand(c.bakeDemoCmd(), c.bakeListenCmd(), c.bakeDialCmd())
	return cmd
}

func (c *cli) bakeDemoCmd() *cobra.Command {
	var (
		f    handshakeFlags
		a, b string
	)
	cmd := &cobra.Command{
		Use:       "demo bmqv|bsts|bpace",
		Short:     "Run both parties in process over a pipe",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bmqv", "bsts", "bpace"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ha, err := c.handshake(args[0], true, &f)
			if err != nil {
				return err
			}
			hb := ha
			hb.Initiator = false
			ha.Self.Name, ha.Peer = a, b
			hb.Self.Name, hb.Peer = b, a

			ca, cb := net.Pipe()
			type result struct {
				key []byte
				err error
			}
			ch := make(chan result, 1)
			go func() {
				defer cb.Close()
				k, err := c.wire.Sessions.Handshake(cb, hb)
				ch <- result{k, err}
			}()
			ka, errA := c.wire.Sessions.Handshake(ca, ha)
			ca.Close()
			rb := <-ch
			if errA != nil {
				return errors.Wrap(errA, "party A")
			}
			if rb.err != nil {
				return errors.Wrap(rb.err, "party B")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "A: %x\nB: %x\n", ka, rb.key)
			if string(ka) != string(rb.key) {
				return errors.Wrap(domain.ErrAuth, "keys differ")
			}
			fmt.Fprintln(out, "keys match")
			return nil
		},
	}
	f.add(cmd, false)
	cmd.Flags().StringVar(&a, partyAFlag, "", "stored key of party A (bmqv, bsts)")
	cmd.Flags().StringVar(&b, partyBFlag, "", "stored key of party B (bmqv, bsts)")
	return cmd
}

func (c *cli) bakeListenCmd() *cobra.Command {
	var f handshakeFlags
	cmd := &cobra.Command{
		Use:   "listen ADDR bmqv|bsts|bpace",
		Short: "Accept one connection and run the protocol as party B",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := c.handshake(args[1], false, &f)
			if err != nil {
				return err
			}
			l, err := net.Listen("tcp", args[0])
			if err != nil {
				return errors.Wrap(err, "failed to listen")
			}
			defer l.Close()
			fmt.Fprintf(cmd.ErrOrStderr(), "Listening on %s\n", l.Addr())
			conn, err := l.Accept()
			if err != nil {
				return errors.Wrap(err, "failed to accept")
			}
			defer conn.Close()
			key, err := c.wire.Sessions.Handshake(conn, h)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%x\n", key)
			return nil
		},
	}
	f.add(cmd, true)
	return cmd
}

func (c *cli) bakeDialCmd() *cobra.Command {
	var f handshakeFlags
	cmd := &cobra.Command{
		Use:   "dial ADDR bmqv|bsts|bpace",
		Short: "Connect to a listener and run the protocol as party A",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := c.handshake(args[1], true, &f)
			if err != nil {
				return err
			}
			conn, err := net.DialTimeout("tcp", args[0], dialTimeout)
			if err != nil {
				return errors.Wrap(err, "failed to connect")
			}
			defer conn.Close()
			key, err := c.wire.Sessions.Handshake(conn, h)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%x\n", key)
			return nil
		},
	}
	f.add(cmd, true)
	return cmd
}
