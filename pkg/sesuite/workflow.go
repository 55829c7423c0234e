package sesuite

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sesuite-go/sesuite/pkg/attribute"
	"github.com/sesuite-go/sesuite/pkg/soap"
	"github.com/sesuite-go/sesuite/pkg/template"
)

// NewWorkflowRequest describes a workflow to create. UserID and EntityID are
// optional; entities and relationships are only sent when EntityID is set.
type NewWorkflowRequest struct {
	UserID        string
	ProcessID     string
	WorkflowTitle string
	EntityID      string
	Entities      []attribute.Entity
	Relationships []attribute.Relationship
}

// AttachmentRequest describes a file to attach to a workflow activity.
// The file is read from FilePath and sent under its base name.
type AttachmentRequest struct {
	UserID     string
	WorkflowID string
	ActivityID string
	FilePath   string
}

// ChildEntityRequest describes a record to add to a relationship (grid) of
// a workflow's main entity.
type ChildEntityRequest struct {
	WorkflowID             string
	EntityID               string
	EntityAttributes       []attribute.Entity
	RelationshipID         string
	RelationshipAttributes []attribute.Relationship
}

// ExecuteActivity executes an activity of a workflow, choosing the action at
// actionSequence, and returns the service's Detail.
func (c *Client) ExecuteActivity(ctx context.Context, workflowID, activityID string, actionSequence int) (string, error) {
	out, err := c.workflowCall(ctx, soap.ActionExecuteActivity, template.Values{
		"WorkflowID":     workflowID,
		"ActivityID":     activityID,
		"ActionSequence": actionSequence,
	})
	if err != nil {
		return "", err
	}
	return out.detail, nil
}

// ExecuteSystemActivity executes a system activity of a workflow and returns
// the service's Detail.
func (c *Client) ExecuteSystemActivity(ctx context.Context, workflowID, activityID, activityOrder string) (string, error) {
	out, err := c.workflowCall(ctx, soap.ActionExecuteSystemActivity, template.Values{
		"WorkflowID":    workflowID,
		"ActivityID":    activityID,
		"ActivityOrder": activityOrder,
	})
	if err != nil {
		return "", err
	}
	return out.detail, nil
}

// NewWorkflowEditData creates a workflow and fills its form. It returns the
// Detail and the RecordID of the new workflow.
func (c *Client) NewWorkflowEditData(ctx context.Context, req NewWorkflowRequest) (detail, recordID string, err error) {
	entities, err := attribute.RenderEntities(c.engine, req.Entities)
	if err != nil {
		return "", "", err
	}
	relationships, err := attribute.RenderRelationships(c.engine, req.Relationships)
	if err != nil {
		return "", "", err
	}

	out, err := c.workflowCall(ctx, soap.ActionNewWorkflowEditData, template.Values{
		"UserID":        req.UserID,
		"ProcessID":     req.ProcessID,
		"WorkflowTitle": req.WorkflowTitle,
		"EntityID":      req.EntityID,
		"Entities":      entities,
		"Relationships": relationships,
	})
	if err != nil {
		return "", "", err
	}
	recordID, _ = out.doc.FindOne("RecordID")
	return out.detail, recordID, nil
}

// NewAttachment uploads a file to a workflow activity. It returns the Detail
// and the RecordID of the attachment.
func (c *Client) NewAttachment(ctx context.Context, req AttachmentRequest) (detail, recordID string, err error) {
	if c.transport == nil {
		return "", "", ErrSessionNotStarted
	}
	content, err := encodeFile(req.FilePath)
	if err != nil {
		return "", "", err
	}

	out, err := c.workflowCall(ctx, soap.ActionNewAttachment, template.Values{
		"UserID":      req.UserID,
		"WorkflowID":  req.WorkflowID,
		"ActivityID":  req.ActivityID,
		"FileName":    filepath.Base(req.FilePath),
		"FileContent": content,
	})
	if err != nil {
		return "", "", err
	}
	recordID, _ = out.doc.FindOne("RecordID")
	return out.detail, recordID, nil
}

// CancelWorkflow cancels a workflow with explanation. userID is optional.
func (c *Client) CancelWorkflow(ctx context.Context, userID, workflowID, explanation string) (string, error) {
	out, err := c.workflowCall(ctx, soap.ActionCancelWorkflow, template.Values{
		"UserID":      userID,
		"WorkflowID":  workflowID,
		"Explanation": explanation,
	})
	if err != nil {
		return "", err
	}
	return out.detail, nil
}

// NewChildEntityRecord adds a record to the relationship RelationshipID of
// the workflow's entity EntityID and returns the service's Detail.
func (c *Client) NewChildEntityRecord(ctx context.Context, req ChildEntityRequest) (string, error) {
	entities, err := attribute.RenderEntities(c.engine, req.EntityAttributes)
	if err != nil {
		return "", err
	}
	relationships, err := attribute.RenderRelationships(c.engine, req.RelationshipAttributes)
	if err != nil {
		return "", err
	}

	out, err := c.workflowCall(ctx, soap.ActionNewChildEntityRecord, template.Values{
		"WorkflowID":             req.WorkflowID,
		"EntityID":               req.EntityID,
		"RelationshipID":         req.RelationshipID,
		"EntityAttributes":       entities,
		"RelationshipAttributes": relationships,
	})
	if err != nil {
		return "", err
	}
	return out.detail, nil
}

// encodeFile reads path and returns its bytes in standard base64.
func encodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read attachment: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

