package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/zowe/imperative-go/internal/infrastructure/system"
)

// Flag names and the settings keys they override.
const (
	flagConfig       = "config"
	flagProfileTypes = "profile-types"
	flagProfileRoot  = "profile-root"
	flagCredentials  = "credential-manager"
	flagFormat       = "format"
	flagNoColor      = "no-color"

	keyTypesFile      = "profiles.types_file"
	keyRootDir        = "profiles.root_dir"
	keyProduct        = "profiles.product"
	keyCredentialKind = "credentials.kind"
	keyFormat         = "output.format"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "imperative",
	Short: "Manage connection profiles for mainframe tooling",
	Long: `Imperative manages typed connection profiles. Each profile type is described
by a schema; profiles are stored one file per profile, secure fields are kept
in a credential vault, and profiles can reference profiles of other types.

The profile commands are generated from the profile type configurations, either
the built-in types or the file named by --profile-types.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	addProfilesCommand(rootCmd, profileTypesFromArgs(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, flagConfig, "", "settings file (default is $HOME/.imperative/settings.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	flags.String(flagProfileTypes, "", "profile type configurations (JSON, JSONC or YAML); built-in types when unset")
	flags.String(flagProfileRoot, "", "directory holding one directory per profile type")
	flags.String(flagCredentials, "", "credential manager: vault, memory or none")
	flags.String(flagFormat, "table", "output format: table, json, yaml, junit, sarif")
	flags.BoolVar(&noColor, flagNoColor, false, "disable colored output")

	bindFlag(keyTypesFile, flagProfileTypes)
	bindFlag(keyRootDir, flagProfileRoot)
	bindFlag(keyCredentialKind, flagCredentials)
	bindFlag(keyFormat, flagFormat)
	viper.SetDefault(keyProduct, system.DefaultConfig().Profiles.Product)
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// initConfig loads configuration from the settings file and environment.
// IMPERATIVE_PROFILES_TYPES_FILE overrides profiles.types_file and so on.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(system.DefaultHome())
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
	}

	viper.SetEnvPrefix("IMPERATIVE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "file", viper.ConfigFileUsed())
	}
}

// profileTypesFromArgs resolves the profile types file before cobra parses
// the command line, since the profile commands are generated from it.
func profileTypesFromArgs(args []string) string {
	fs := pflag.NewFlagSet("bootstrap", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.BoolP("help", "h", false, "")
	typesFile := fs.String(flagProfileTypes, "", "")
	fs.StringVar(&cfgFile, flagConfig, "", "")
	_ = fs.Parse(args)

	if *typesFile != "" {
		return *typesFile
	}
	initConfig()
	return viper.GetString(keyTypesFile)
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	// Using TextHandler for CLI friendliness
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
