package main

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/suffix-labs/echo-signer/pkg/api"
	"github.com/suffix-labs/echo-signer/pkg/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const configFlag = "config"

// app carries state shared by all subcommands of one invocation.
type app struct {
	v   *viper.Viper
	cfg *config.Config
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "echo-signer",
		Short:         "Offline key management and transaction signing for Echo",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.String(configFlag, "", "config file (yaml, json or toml)")
	flags.String("chain-id", "", "hex chain id the transaction is bound to")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error)")
	flags.String("key-prefix", "", "public key text prefix")
	flags.Bool("testnet", false, "use testnet WIF version bytes")
	flags.Duration("expiration-offset", 0, "offset added to head block time for the expiration")

	for key, flag := range map[string]string{
		config.KeyChainID:          "chain-id",
		config.KeyLogLevel:         "log-level",
		config.KeyKeyPrefix:        "key-prefix",
		config.KeyTestnet:          "testnet",
		config.KeyExpirationOffset: "expiration-offset",
	} {
		// BindPFlag only fails for a nil flag
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newKeygenCmd(a),
		newPubkeyCmd(a),
		newTransferCmd(a),
		newRecoverCmd(a),
		newBase58Cmd(),
		newVersionCmd(),
	)
	return root
}

// load reads configuration and sets up logging.
func (a *app) load(cmd *cobra.Command) error {
	configFile, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return errors.Wrap(err, "failed to read config flag")
	}

	cfg, err := config.Load(a.v, configFile)
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	a.cfg = cfg

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	setupLogging(cmd.ErrOrStderr(), level)
	return nil
}

func setupLogging(w io.Writer, level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()
	api.SetLogger(log.With().Str("component", "api").Logger())
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute command")
		os.Exit(1)
	}
}
