package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bee/internal/app"
)

// cli carries state shared by all subcommands of one invocation.
type cli struct {
	v      *viper.Viper
	wire   *app.Wire
	closer io.Closer
}

// Execute runs the bee command line with os.Args.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	c := &cli{v: viper.GetViper()}
	defer c.close()
	return c.root().ExecuteContext(ctx)
}

func (c *cli) close() {
	if c.closer != nil {
		_ = c.closer.Close()
	}
}

func (c *cli) root() *cobra.Command {
	root := &cobra.Command{
		Use:           "bee",
		Short:         "Key agreement, encrypted containers and accumulators",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(c.v)
			if err != nil {
				return err
			}
			if c.closer, err = app.InitLog(cfg.LogLevel, cfg.LogPath); err != nil {
				return err
			}
			c.wire, err = app.NewWire(cfg)
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.String(app.HomeKey, "", "state directory (default ~/.bee)")
	_ = c.v.BindPFlag(app.HomeKey, flags.Lookup(app.HomeKey))
	flags.UintP(app.LogLevelKey, "v", 0, "verbosity: 0 warn, 1 info, 2 debug, 3 trace")
	_ = c.v.BindPFlag(app.LogLevelKey, flags.Lookup(app.LogLevelKey))
	flags.String(app.LogKey, "-", "log file, - for stderr")
	_ = c.v.BindPFlag(app.LogKey, flags.Lookup(app.LogKey))
	flags.Int(app.LevelKey, 128, "security level for new keys and accumulators (128, 192, 256)")
	_ = c.v.BindPFlag(app.LevelKey, flags.Lookup(app.LevelKey))
	flags.StringP(passphraseFlag, "p", "", "passphrase protecting stored keys")
	_ = c.v.BindPFlag(passphraseFlag, flags.Lookup(passphraseFlag))

	root.AddCommand(c.kgCmd(), c.certCmd(), c.encCmd(), c.decCmd(), c.valCmd(),
		c.inspectCmd(), c.accCmd(), c.bakeCmd())
	return root
}

// passphrase returns the key passphrase from -p or BEE_PASSPHRASE.
func (c *cli) passphrase() (string, error) {
	p := c.v.GetString(passphraseFlag)
	if p == "" {
		return "", fmt.Errorf("passphrase required (-p)")
	}
	return p, nil
}
