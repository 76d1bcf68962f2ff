// Package cli wires configuration, storage, brokers and the HTTP API into the
// orderboard commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Lixing-Zhang/orderboard/internal/config"
	"github.com/Lixing-Zhang/orderboard/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app is the state shared by every command
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	log     *slog.Logger
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "orderboard",
		Short:         "Order lifecycle engine and status boards for quick-service restaurants",
		Long:          `orderboard runs the order API that manager consoles talk to, and the kitchen and bar boards that poll it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bindFlags(cmd.Flags()); err != nil {
				return err
			}
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.New(cfg.LogLevel)
			slog.SetDefault(a.log)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	bindFlag(root.PersistentFlags(), "log-level", "log_level")

	root.AddCommand(
		newServeCommand(a),
		newBoardCommand(a),
		newTokenCommand(a),
		newExportCommand(a),
		newDemoCommand(a),
	)
	return root
}

const configKeyAnnotation = "orderboard/config-key"

// bindFlag maps a flag onto a config key. Bindings are applied just before
// the config is loaded, and only for the command being run, so two commands
// may each bind a flag to the same key.
func bindFlag(flags *pflag.FlagSet, name, key string) {
	if err := flags.SetAnnotation(name, configKeyAnnotation, []string{key}); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", name, err))
	}
}

func (a *app) bindFlags(flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[configKeyAnnotation]
		if len(keys) == 1 && err == nil {
			err = a.v.BindPFlag(keys[0], f)
		}
	})
	return err
}

// Execute runs the CLI and returns the process exit code
func Execute(ctx context.Context) int {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
