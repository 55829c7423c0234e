package sesuite

import (
	"context"

	"github.com/sesuite-go/sesuite/pkg/attribute"
	"github.com/sesuite-go/sesuite/pkg/soap"
	"github.com/sesuite-go/sesuite/pkg/template"
)

// Table record response tags, read from the form namespace.
const (
	tableKeyTag   = "TableFieldID"
	tableValueTag = "TableFieldValues"
)

// GetTableRecord queries tableID for records matching every field filter and
// returns the Detail and the record as a map keyed by lower-cased field id.
// Pagination below 1 is treated as 1.
//
// The request goes to the form endpoint, but the service reports Status and
// Detail in the workflow namespace, so they are read from there.
func (c *Client) GetTableRecord(ctx context.Context, tableID string, fields []attribute.TableField, pagination int) (string, map[string]string, error) {
	if pagination < 1 {
		pagination = 1
	}

	rendered, err := attribute.RenderTableFields(c.engine, fields)
	if err != nil {
		return "", nil, err
	}

	body, err := c.call(ctx, soap.Form, soap.Form, soap.ActionGetTableRecord, template.Values{
		"TableID":     tableID,
		"TableFields": rendered,
		"Pagination":  pagination,
	})
	if err != nil {
		return "", nil, err
	}

	out, err := c.readOutcome(body, soap.Workflow, soap.Form, soap.ActionGetTableRecord)
	if err != nil {
		return "", nil, err
	}

	records := out.doc.In(soap.Form.Name()).FindDict(tableKeyTag, tableValueTag)
	return out.detail, records, nil
}
