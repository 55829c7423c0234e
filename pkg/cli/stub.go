package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sesuite-go/sesuite/pkg/cli/internal/parse"
	"github.com/sesuite-go/sesuite/pkg/sesuitetest"
	"github.com/sesuite-go/sesuite/pkg/soap"
)

var (
	stubAddr     string
	stubToken    string
	stubReplies  []string
	stubFails    []string
	stubFiles    []string
	stubScenario string
)

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Run a local SE Suite stub server",
	Long: `Run a local server that answers the workflow and form web services and the
file gateway with canned replies. Point --base-url at it to try commands
without an SE Suite installation.

--scenario loads replies, conditional replies and files from a YAML file;
--reply, --fail and --file entries are applied after it.`,
	Example: `  sesuite stub --addr 127.0.0.1:8080 --fail cancelWorkflow="already closed"
  sesuite --base-url http://127.0.0.1:8080 --token x cancel-workflow WF-1 --explanation dup`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		h, err := stubHandler()
		if err != nil {
			return err
		}

		ln, err := net.Listen("tcp", stubAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", stubAddr, err)
		}
		return serveStub(cmd.Context(), cmd.ErrOrStderr(), ln, h)
	},
}

func init() {
	rootCmd.AddCommand(stubCmd)
	stubCmd.Flags().StringVar(&stubAddr, "addr", "127.0.0.1:8080", "Listen address")
	stubCmd.Flags().StringVar(&stubToken, "require-token", "", "Reject requests whose Authorization header differs")
	stubCmd.Flags().StringArrayVar(&stubReplies, "reply", nil, "Successful reply as action=detail (repeatable)")
	stubCmd.Flags().StringArrayVar(&stubFails, "fail", nil, "Failure reply as action=detail (repeatable)")
	stubCmd.Flags().StringArrayVar(&stubFiles, "file", nil, "Served file as hash=path (repeatable)")
	stubCmd.Flags().StringVar(&stubScenario, "scenario", "", "YAML scenario file")
}

func stubHandler() (*sesuitetest.Handler, error) {
	h := sesuitetest.NewHandler(sesuitetest.WithToken(stubToken), sesuitetest.WithLogger(logger))

	if stubScenario != "" {
		s, err := sesuitetest.LoadScenario(stubScenario)
		if err != nil {
			return nil, err
		}
		if err := h.Apply(s); err != nil {
			return nil, err
		}
	}

	for _, set := range []struct {
		pairs []string
		reply func(string) sesuitetest.Reply
	}{
		{stubReplies, sesuitetest.Success},
		{stubFails, sesuitetest.Failure},
	} {
		replies, err := parse.Map(set.pairs)
		if err != nil {
			return nil, err
		}
		for name, detail := range replies {
			action := soap.Action(name)
			if !action.Valid() {
				return nil, fmt.Errorf("unknown action %q", name)
			}
			h.Reply(action, set.reply(detail))
		}
	}

	files, err := parse.Map(stubFiles)
	if err != nil {
		return nil, err
	}
	for hash, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read stub file: %w", err)
		}
		h.File(hash, sesuitetest.File{Data: data})
	}
	return h, nil
}

// serveStub serves h on ln until ctx is done.
func serveStub(ctx context.Context, w io.Writer, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := "http://" + ln.Addr().String()
	logger.Info("stub listening", slog.String("url", url))
	fmt.Fprintf(w, "Stub listening on %s (press Ctrl+C to stop)\n", url)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("stub shutdown: %w", err)
	}
	logger.Info("stub stopped")
	return nil
}
