package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sesuite-go/sesuite/pkg/config"
	"github.com/sesuite-go/sesuite/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	flagToken      string
	flagBaseURL    string
	flagUserID     string
	flagConfigFile string
	flagLogLevel   string
	flagLogFormat  string
	flagLogFile    string
	flagTimeout    string
	jsonOutput     bool
	jsonPath       string

	// cfg is the merged configuration of the running command.
	cfg *config.Config
	// logger is built from cfg before every command.
	logger = logging.Nop()
	// logFile is closed when the command finishes.
	logFile io.Closer

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sesuite",
	Short: "sesuite drives SE Suite workflows from the command line",
	Long: `sesuite calls the SE Suite workflow and form web services: it starts and
cancels workflows, executes activities, attaches files, queries tables and
downloads files.

Configuration can be provided via flags, environment variables (SESUITE_*),
a local .sesuiterc.yaml or a global ~/.config/sesuite/config.yaml.`,
	SilenceUsage:       true,
	SilenceErrors:      true, // We handle errors in Execute()
	PersistentPreRunE:  loadConfig,
	PersistentPostRunE: closeLogFile,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagToken, "token", "", "Authorization token (env SESUITE_TOKEN)")
	pf.StringVar(&flagBaseURL, "base-url", "", "SE Suite base URL (default "+config.DefaultBaseURL+")")
	pf.StringVar(&flagUserID, "user", "", "Acting user id for operations that accept one")
	pf.StringVar(&flagConfigFile, "config", "", "Config file path")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFormat, "log-format", "", "Log format: text or json")
	pf.StringVar(&flagLogFile, "log-file", "", "Also write JSON logs to this file")
	pf.StringVar(&flagTimeout, "timeout", "", "Request timeout, e.g. 30s (default none)")
	pf.BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	pf.StringVar(&jsonPath, "jsonpath", "", "Print only the values selected by a JSONPath from the JSON result, e.g. '$.recordId'")
}

// loadConfig merges config files, environment and flags, then builds the logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.LoadAll(flagConfigFile)
	if err != nil {
		return err
	}

	flags, err := flagConfig(cmd.Flags())
	if err != nil {
		return err
	}
	config.MergeConfig(loaded, flags, config.SourceFlag)

	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded
	jsonOutput = cfg.JSON

	logCfg := logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: cmd.ErrOrStderr(),
	}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		logCfg.Files = []io.Writer{f}
	}
	logger = logging.New(logCfg)
	logger.Debug("configuration loaded", slog.Any("sources", cfg.Sources))
	return nil
}

// flagConfig collects the persistent flags that were set on the command line.
func flagConfig(fs *pflag.FlagSet) (*config.Config, error) {
	c := &config.Config{SetFields: map[string]bool{}}
	set := func(name, key string, dst *string, value string) {
		if fs.Changed(name) {
			*dst = value
			c.SetFields[key] = true
		}
	}
	set("token", "token", &c.Token, flagToken)
	set("base-url", "baseUrl", &c.BaseURL, flagBaseURL)
	set("user", "userId", &c.UserID, flagUserID)
	set("log-level", "logLevel", &c.LogLevel, flagLogLevel)
	set("log-format", "logFormat", &c.LogFormat, flagLogFormat)
	set("log-file", "logFile", &c.LogFile, flagLogFile)

	if fs.Changed("timeout") {
		d, err := config.ParseTimeout(flagTimeout)
		if err != nil {
			return nil, err
		}
		c.Timeout = d
	}
	if fs.Changed("json") {
		c.JSON = jsonOutput
		c.SetFields["json"] = true
	}
	return c, nil
}

func closeLogFile(*cobra.Command, []string) error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}
