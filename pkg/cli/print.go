package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/sesuite-go/sesuite/pkg/cli/internal/output"
)

// printResult outputs a single operation result.
//
// Contract: when --json is active, ONLY the JSON encoding of data is written
// to stdout. Human-readable prose (progress messages, hints) must go to stderr
// or be omitted entirely. textFn is called only in text mode.
//
// --jsonpath takes precedence over both and prints the selected values of the
// JSON encoding, one per line; strings are printed unquoted.
func printResult(cmd *cobra.Command, data any, textFn func(w io.Writer)) error {
	if jsonPath != "" {
		return printJSONPath(cmd.OutOrStdout(), data, jsonPath)
	}
	if jsonOutput {
		return output.JSON(cmd.OutOrStdout(), data)
	}
	textFn(cmd.OutOrStdout())
	return nil
}

func printJSONPath(w io.Writer, data any, path string) error {
	x, err := jp.ParseString(path)
	if err != nil {
		return fmt.Errorf("invalid --jsonpath %q: %w", path, err)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	doc, err := oj.Parse(raw)
	if err != nil {
		return err
	}
	for _, v := range x.Get(doc) {
		if s, ok := v.(string); ok {
			fmt.Fprintln(w, s)
			continue
		}
		fmt.Fprintln(w, oj.JSON(v, &oj.Options{Sort: true}))
	}
	return nil
}

// Result is the output of operations returning a Detail.
type Result struct {
	Detail   string `json:"detail"`
	RecordID string `json:"recordId,omitempty"`
}

// AttachResult is the output of attach, one per file.
type AttachResult struct {
	File     string `json:"file"`
	Detail   string `json:"detail"`
	RecordID string `json:"recordId,omitempty"`
}

// TableResult is the output of table-record.
type TableResult struct {
	Detail  string            `json:"detail"`
	Records map[string]string `json:"records"`
}
