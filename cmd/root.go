package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/WuKongIM/zdb/internal/options"
	"github.com/WuKongIM/zdb/pkg/zblog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	ctx     = newZDBContext(options.New())
	rootCmd = &cobra.Command{
		Use:   "zdb",
		Short: "zdb, an offline inspector for the persisted state of a raft partition.",
		Long: `zdb reads the raft metadata, the column family state store and the journal of one
partition and prints them as JSON, tables or graphviz dot.

zdb never writes. Run it while the broker owning the partition is stopped, or on a copy of
the partition directory. Reading files that a running broker is writing is undefined: the
state store refuses to open while its lock is held, but raft metadata and journal segments
carry no lock and may read as corrupt or with a shorter tail.`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file")
	flags.String("schema", "", "yaml column family table overriding the built-in one")
	flags.Bool("strict", true, "abort scans on records that fail to decode")
	flags.String("dangling", "fail", "missing causal parents in the log: fail or warn")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("log-dir", "", "also write rotated log files into this directory")

	rootCmd.AddCommand(newRaftCMD(ctx).CMD())
	rootCmd.AddCommand(newStateCMD(ctx).CMD())
	rootCmd.AddCommand(newJobsCMD(ctx).CMD())
	rootCmd.AddCommand(newProcessCMD(ctx).CMD())
	rootCmd.AddCommand(newLogCMD(ctx).CMD())
	rootCmd.AddCommand(newVersionCMD().CMD())
}

func initConfig(cmd *cobra.Command) error {
	vp := viper.New()
	if cfgFile != "" {
		vp.SetConfigFile(cfgFile)
		if err := vp.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	vp.SetEnvPrefix("zdb")
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	vp.AutomaticEnv()

	flags := rootCmd.PersistentFlags()
	_ = vp.BindPFlag("schema", flags.Lookup("schema"))
	_ = vp.BindPFlag("strict", flags.Lookup("strict"))
	_ = vp.BindPFlag("dangling", flags.Lookup("dangling"))
	_ = vp.BindPFlag("logger.level", flags.Lookup("log-level"))
	_ = vp.BindPFlag("logger.dir", flags.Lookup("log-dir"))
	if f := cmd.Flags().Lookup("format"); f != nil {
		_ = vp.BindPFlag("format", f)
	}

	opts := options.New()
	if err := opts.ConfigureWithViper(vp); err != nil {
		return err
	}
	ctx.opts = opts
	zblog.Configure(ctx.opts.LogOptions())
	if used := ctx.opts.ConfigFileUsed(); used != "" {
		zblog.Debug("using config file", zap.String("path", used))
	}
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		zblog.Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		_ = zblog.Sync()
		os.Exit(1)
	}
	_ = zblog.Sync()
}
