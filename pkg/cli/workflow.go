package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/sesuite-go/sesuite/pkg/attribute"
	"github.com/sesuite-go/sesuite/pkg/cli/internal/parse"
	"github.com/sesuite-go/sesuite/pkg/sesuite"
)

var (
	actionSequence int
	activityOrder  string

	newProcessID     string
	newTitle         string
	entityID         string
	entityFields     []string
	relationshipID   string
	relationFields   []string
	cancelReason     string
	promptForMissing = promptExplanation
)

var executeActivityCmd = &cobra.Command{
	Use:   "execute-activity <workflow-id> <activity-id>",
	Short: "Execute a workflow activity",
	Example: `  # Approve activity "approval" of workflow WF-123 with the first action
  sesuite execute-activity WF-123 approval --action 1`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDetail(cmd, func(ctx context.Context, c *sesuite.Client) (string, error) {
			return c.ExecuteActivity(ctx, args[0], args[1], actionSequence)
		})
	},
}

var executeSystemActivityCmd = &cobra.Command{
	Use:   "execute-system-activity <workflow-id> <activity-id>",
	Short: "Execute a system activity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDetail(cmd, func(ctx context.Context, c *sesuite.Client) (string, error) {
			return c.ExecuteSystemActivity(ctx, args[0], args[1], activityOrder)
		})
	},
}

var newWorkflowCmd = &cobra.Command{
	Use:   "new-workflow",
	Short: "Create a workflow and fill its form",
	Example: `  sesuite new-workflow --process PURCHASE --title "Laptop" \
    --entity purchase --field amount=1200 --field vendor=ACME \
    --relationship items --relationship-field sku=LT-01`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		entities, relationships, err := attributeFlags()
		if err != nil {
			return err
		}
		req := sesuite.NewWorkflowRequest{
			UserID:        cfg.UserID,
			ProcessID:     newProcessID,
			WorkflowTitle: newTitle,
			EntityID:      entityID,
			Entities:      entities,
			Relationships: relationships,
		}
		return runRecord(cmd, func(ctx context.Context, c *sesuite.Client) (string, string, error) {
			return c.NewWorkflowEditData(ctx, req)
		})
	},
}

var attachCmd = &cobra.Command{
	Use:   "attach <workflow-id> <activity-id> <file|pattern>...",
	Short: "Attach files to a workflow activity",
	Long: `Attach files to a workflow activity, one call per file. Arguments may be
glob patterns; ** matches across directories.`,
	Example: `  sesuite attach WF-123 upload invoice.pdf
  sesuite attach WF-123 upload 'scans/**/*.pdf'`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandFiles(args[2:])
		if err != nil {
			return err
		}

		results := make([]AttachResult, 0, len(files))
		err = withClient(cmd, func(ctx context.Context, c *sesuite.Client) error {
			for _, f := range files {
				detail, recordID, err := c.NewAttachment(ctx, sesuite.AttachmentRequest{
					UserID:     cfg.UserID,
					WorkflowID: args[0],
					ActivityID: args[1],
					FilePath:   f,
				})
				if err != nil {
					return fmt.Errorf("%s: %w", f, err)
				}
				results = append(results, AttachResult{File: f, Detail: detail, RecordID: recordID})
			}
			return nil
		})
		if err != nil {
			return describe(err)
		}
		return printResult(cmd, results, func(w io.Writer) {
			for _, r := range results {
				fmt.Fprintf(w, "%s: %s\nrecord: %s\n", r.File, r.Detail, r.RecordID)
			}
		})
	},
}

var cancelWorkflowCmd = &cobra.Command{
	Use:   "cancel-workflow <workflow-id>",
	Short: "Cancel a workflow",
	Long: `Cancel a workflow. The explanation is required; when --explanation is not
given and stdin is a terminal, it is asked for interactively.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		explanation := cancelReason
		if explanation == "" {
			var err error
			if explanation, err = promptForMissing(); err != nil {
				return err
			}
		}
		return runDetail(cmd, func(ctx context.Context, c *sesuite.Client) (string, error) {
			return c.CancelWorkflow(ctx, cfg.UserID, args[0], explanation)
		})
	},
}

var childRecordCmd = &cobra.Command{
	Use:   "child-record <workflow-id>",
	Short: "Add a record to a relationship grid of a workflow",
	Example: `  sesuite child-record WF-123 --entity purchase --relationship items \
    --field qty=2 --relationship-field sku=LT-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if relationshipID == "" {
			return errors.New("--relationship is required")
		}
		entities, relationships, err := attributeFlags()
		if err != nil {
			return err
		}
		req := sesuite.ChildEntityRequest{
			WorkflowID:             args[0],
			EntityID:               entityID,
			EntityAttributes:       entities,
			RelationshipID:         relationshipID,
			RelationshipAttributes: relationships,
		}
		return runDetail(cmd, func(ctx context.Context, c *sesuite.Client) (string, error) {
			return c.NewChildEntityRecord(ctx, req)
		})
	},
}

func init() {
	rootCmd.AddCommand(executeActivityCmd, executeSystemActivityCmd, newWorkflowCmd,
		attachCmd, cancelWorkflowCmd, childRecordCmd)

	executeActivityCmd.Flags().IntVar(&actionSequence, "action", 1, "Action sequence to execute")
	executeSystemActivityCmd.Flags().StringVar(&activityOrder, "order", "", "Activity order")

	newWorkflowCmd.Flags().StringVar(&newProcessID, "process", "", "Process id")
	newWorkflowCmd.Flags().StringVar(&newTitle, "title", "", "Workflow title")
	_ = newWorkflowCmd.MarkFlagRequired("process")
	_ = newWorkflowCmd.MarkFlagRequired("title")

	for _, c := range []*cobra.Command{newWorkflowCmd, childRecordCmd} {
		c.Flags().StringVar(&entityID, "entity", "", "Entity (form table) id")
		c.Flags().StringArrayVar(&entityFields, "field", nil, "Entity field as id=value (repeatable)")
		c.Flags().StringVar(&relationshipID, "relationship", "", "Relationship (grid) id")
		c.Flags().StringArrayVar(&relationFields, "relationship-field", nil, "Relationship field as id=value (repeatable)")
	}
	_ = childRecordCmd.MarkFlagRequired("entity")

	cancelWorkflowCmd.Flags().StringVar(&cancelReason, "explanation", "", "Why the workflow is cancelled")
}

// expandFiles expands glob patterns in args. Arguments without glob
// characters are kept as given; a pattern matching no file is an error.
func expandFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			files = append(files, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		files = append(files, matches...)
	}
	return files, nil
}

// attributeFlags turns --field and --relationship-field into attributes.
func attributeFlags() ([]attribute.Entity, []attribute.Relationship, error) {
	fields, err := parse.Fields(entityFields)
	if err != nil {
		return nil, nil, err
	}
	relFields, err := parse.Fields(relationFields)
	if err != nil {
		return nil, nil, err
	}
	if len(relFields) > 0 && relationshipID == "" {
		return nil, nil, errors.New("--relationship-field requires --relationship")
	}
	return slices.Collect(attribute.Entities(fields...)),
		slices.Collect(attribute.Relationships(relationshipID, relFields...)),
		nil
}

func runDetail(cmd *cobra.Command, fn func(context.Context, *sesuite.Client) (string, error)) error {
	var detail string
	err := withClient(cmd, func(ctx context.Context, c *sesuite.Client) error {
		var err error
		detail, err = fn(ctx, c)
		return err
	})
	if err != nil {
		return describe(err)
	}
	return printResult(cmd, Result{Detail: detail}, func(w io.Writer) {
		fmt.Fprintln(w, detail)
	})
}

func runRecord(cmd *cobra.Command, fn func(context.Context, *sesuite.Client) (string, string, error)) error {
	var detail, recordID string
	err := withClient(cmd, func(ctx context.Context, c *sesuite.Client) error {
		var err error
		detail, recordID, err = fn(ctx, c)
		return err
	})
	if err != nil {
		return describe(err)
	}
	return printResult(cmd, Result{Detail: detail, RecordID: recordID}, func(w io.Writer) {
		fmt.Fprintf(w, "%s\nrecord: %s\n", detail, recordID)
	})
}

// describe prefixes operation errors with the failing side and status.
func describe(err error) error {
	var opErr *sesuite.OperationError
	if !errors.As(err, &opErr) {
		return err
	}
	kind := "workflow"
	if errors.Is(err, sesuite.ErrFormOperationFailed) {
		kind = "form"
	}
	if opErr.StatusCode != 0 && opErr.StatusCode != http.StatusOK {
		return fmt.Errorf("%s operation failed (HTTP %d): %w", kind, opErr.StatusCode, err)
	}
	return fmt.Errorf("%s operation failed: %w", kind, err)
}
