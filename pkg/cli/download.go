package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sesuite-go/sesuite/pkg/cli/internal/output"
	"github.com/sesuite-go/sesuite/pkg/sesuite"
	"github.com/sesuite-go/sesuite/pkg/util"
)

var downloadDir string

// DownloadResult is the output of download.
type DownloadResult struct {
	Path string `json:"path"`
}

var downloadCmd = &cobra.Command{
	Use:   "download <file-hash> <file-name>",
	Short: "Download a file by the hash returned from table-record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Token == "" {
			return errNoToken
		}
		dir := cfg.DownloadDir
		if cmd.Flags().Changed("dir") {
			dir = downloadDir
		}

		if name, ok := util.SafeFilePath(args[1]); ok {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				output.Warn(cmd.ErrOrStderr(), "overwriting %s", filepath.Join(dir, name))
			}
		}

		opts := []sesuite.DownloadOption{
			sesuite.WithDownloadBaseURL(cfg.BaseURL),
			sesuite.WithDownloadDir(dir),
		}
		if cfg.Timeout > 0 {
			opts = append(opts, sesuite.WithDownloadHTTPClient(&http.Client{Timeout: cfg.Timeout}))
		}
		path, err := sesuite.Download(cmd.Context(), cfg.Token, args[0], args[1], opts...)
		if err != nil {
			return describe(err)
		}
		logger.Info("file downloaded", "hash", args[0], "path", path)

		return printResult(cmd, DownloadResult{Path: path}, func(w io.Writer) {
			fmt.Fprintln(w, path)
		})
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().StringVar(&downloadDir, "dir", "", "Directory to write to (default "+sesuite.DefaultDownloadDir+")")
}
