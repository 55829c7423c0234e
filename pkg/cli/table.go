package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sesuite-go/sesuite/pkg/attribute"
	"github.com/sesuite-go/sesuite/pkg/cli/internal/output"
	"github.com/sesuite-go/sesuite/pkg/cli/internal/parse"
	"github.com/sesuite-go/sesuite/pkg/sesuite"
)

var (
	tableFilters []string
	tablePage    int
)

var tableRecordCmd = &cobra.Command{
	Use:   "table-record <table-id>",
	Short: "Query a form table",
	Example: `  # Find the customer with code 42
  sesuite table-record customers --field code=42`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filters, err := parse.Fields(tableFilters)
		if err != nil {
			return err
		}
		fields := slices.Collect(attribute.TableFields(filters...))

		var result TableResult
		err = withClient(cmd, func(ctx context.Context, c *sesuite.Client) error {
			var err error
			result.Detail, result.Records, err = c.GetTableRecord(ctx, args[0], fields, tablePage)
			return err
		})
		if err != nil {
			return describe(err)
		}

		return printResult(cmd, result, func(w io.Writer) {
			if result.Detail != "" {
				fmt.Fprintln(w, result.Detail)
			}
			keys := make([]string, 0, len(result.Records))
			for k := range result.Records {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			tw := output.Table(w)
			fmt.Fprintln(tw, "FIELD\tVALUE")
			for _, k := range keys {
				fmt.Fprintf(tw, "%s\t%s\n", k, result.Records[k])
			}
			_ = tw.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(tableRecordCmd)
	tableRecordCmd.Flags().StringArrayVar(&tableFilters, "field", nil, "Filter as id=value (repeatable)")
	tableRecordCmd.Flags().IntVar(&tablePage, "page", 1, "Result page")
}
