package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sesuite-go/sesuite/pkg/config"
)

var configYAML bool

// ConfigOutput is the JSON form of the config command.
type ConfigOutput struct {
	Config   *config.Config `json:"config"`
	HasToken bool           `json:"hasToken"`
	// TokenExpiresAt is set for JWT tokens carrying an exp claim.
	TokenExpiresAt *time.Time        `json:"tokenExpiresAt,omitempty"`
	Sources        map[string]string `json:"sources"`
	Files          []string          `json:"files,omitempty"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration with source annotations",
	Example: `  sesuite config
  sesuite config --json
  sesuite config --yaml > .sesuiterc.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configYAML {
			// The token is never written back out.
			c := *cfg
			c.Token = ""
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(&c); err != nil {
				return err
			}
			return enc.Close()
		}

		out := ConfigOutput{
			Config:   cfg,
			HasToken: cfg.Token != "",
			Sources:  cfg.Sources,
			Files:    loadedFiles(),
		}
		if exp, ok := config.TokenExpiry(cfg.Token); ok {
			out.TokenExpiresAt = &exp
		}
		return printResult(cmd, out, func(w io.Writer) {
			fmt.Fprintln(w, "Effective Configuration:")
			fmt.Fprintln(w)
			token := "(not set)"
			if out.HasToken {
				token = "(set)"
			}
			if out.TokenExpiresAt != nil {
				token = "(set, expires " + out.TokenExpiresAt.Format(time.RFC3339) + ")"
			}
			printConfigValue(w, "baseUrl", cfg.BaseURL)
			printConfigValue(w, "token", token)
			printConfigValue(w, "userId", cfg.UserID)
			printConfigValue(w, "timeout", cfg.Timeout)
			printConfigValue(w, "downloadDir", cfg.DownloadDir)
			printConfigValue(w, "logLevel", cfg.LogLevel)
			printConfigValue(w, "logFormat", cfg.LogFormat)
			if cfg.LogFile != "" {
				printConfigValue(w, "logFile", cfg.LogFile)
			}
			printConfigValue(w, "json", cfg.JSON)

			if len(out.Files) > 0 {
				fmt.Fprintln(w)
				fmt.Fprintln(w, "Files loaded:")
				for _, f := range out.Files {
					fmt.Fprintf(w, "  • %s\n", f)
				}
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&configYAML, "yaml", false, "Print the configuration as a YAML config file")
}

// loadedFiles lists the config files that took part in the merge.
func loadedFiles() []string {
	var files []string
	if p, err := config.FindGlobalConfig(); err == nil && p != "" {
		files = append(files, p+" (global)")
	}
	if p, err := config.FindLocalConfig(); err == nil && p != "" {
		files = append(files, p+" (local)")
	}
	if flagConfigFile != "" {
		files = append(files, flagConfigFile+" (file)")
	}
	return files
}

// printConfigValue prints a config value with source annotation.
func printConfigValue(w io.Writer, name string, value any) {
	source := cfg.Sources[name]
	if source == "" {
		source = config.SourceDefault
	}
	fmt.Fprintf(w, "  %-14s %v  (%s)\n", name+":", value, source)
}
