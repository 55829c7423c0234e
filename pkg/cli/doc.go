// Package cli provides the command-line interface for sesuite.
//
// Workflow commands:
//   - execute-activity: Execute a workflow activity
//   - execute-system-activity: Execute a system activity
//   - new-workflow: Create a workflow and fill its form
//   - attach: Attach files or glob matches to a workflow activity
//   - cancel-workflow: Cancel a workflow
//   - child-record: Add a record to a relationship grid
//
// Form commands:
//   - table-record: Query a table
//   - download: Download a file by hash
//
// Tooling:
//   - templates: List the request templates
//   - render: Render a request template
//   - stub: Run a local SE Suite stub server
//   - config: Show the effective configuration
//   - version: Show sesuite version
//
// Every command prints text by default, indented JSON with --json, and only
// the values selected by a JSONPath with --jsonpath.
package cli
