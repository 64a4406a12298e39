package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ezoic/crispdm/internal/config"
	"github.com/ezoic/crispdm/pkg/log"
)

// app carries the state shared by the commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "crispdm",
		Short: "Linear regression walked through the CRISP-DM phases",
		Long: "crispdm fits a least-squares line to synthetic noisy data and presents " +
			"business understanding, data understanding, data preparation, modeling, " +
			"evaluation and deployment as an interactive web page or a one-off report.",
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./crispdm.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error, disabled")
	_ = a.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newServeCmd(a), newReportCmd(a))
	return root
}

// initConfig layers the config file, environment and flags over the
// defaults and configures logging.
func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	used, err := config.ReadFile(a.v, a.cfgFile)
	if err != nil {
		return err
	}

	cfg, err := config.Decode(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log.SetupLogger(cfg.Log.Level)
	if used != "" {
		log.GetLogger().Debug().Str("config.file", used).Msg("Using config file")
	}
	return nil
}
