package sesuitetest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sesuite-go/sesuite/pkg/soap"
)

// Scenario is a YAML description of stub replies and served files.
//
//	replies:
//	  - action: cancelWorkflow
//	    when: WorkflowID == "WF-closed"
//	    status: FAILURE
//	    detail: workflow already closed
//	  - action: getTableRecord
//	    records: {name: ACME}
//	files:
//	  abc123: ./report.pdf
type Scenario struct {
	Replies []ScenarioReply   `yaml:"replies"`
	Files   map[string]string `yaml:"files"`
}

// ScenarioReply is one entry of a Scenario.
type ScenarioReply struct {
	Action     string            `yaml:"action"`
	When       string            `yaml:"when,omitempty"`
	HTTPStatus int               `yaml:"httpStatus,omitempty"`
	Body       string            `yaml:"body,omitempty"`
	Status     string            `yaml:"status,omitempty"`
	Detail     string            `yaml:"detail,omitempty"`
	RecordID   string            `yaml:"recordId,omitempty"`
	Records    map[string]string `yaml:"records,omitempty"`
}

// Reply converts the entry to a Reply. Status defaults to SUCCESS.
func (r ScenarioReply) Reply() Reply {
	status := r.Status
	if status == "" {
		status = "SUCCESS"
	}
	return Reply{
		HTTPStatus: r.HTTPStatus,
		Raw:        r.Body,
		Status:     status,
		Detail:     r.Detail,
		RecordID:   r.RecordID,
		Records:    r.Records,
	}
}

// LoadScenario reads a scenario file. Relative file paths in it are resolved
// against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for hash, p := range s.Files {
		if !filepath.IsAbs(p) {
			s.Files[hash] = filepath.Join(dir, p)
		}
	}
	return &s, nil
}

// Apply configures h from s. Entries with a condition become rules, the
// others plain replies.
func (h *Handler) Apply(s *Scenario) error {
	var errs []error
	for i, r := range s.Replies {
		action := soap.Action(r.Action)
		if !action.Valid() {
			errs = append(errs, fmt.Errorf("replies[%d]: unknown action %q", i, r.Action))
			continue
		}
		if r.When == "" {
			h.Reply(action, r.Reply())
			continue
		}
		if err := h.When(action, r.When, r.Reply()); err != nil {
			errs = append(errs, fmt.Errorf("replies[%d]: %w", i, err))
		}
	}
	for hash, p := range s.Files {
		data, err := os.ReadFile(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("files[%s]: %w", hash, err))
			continue
		}
		h.File(hash, File{Data: data})
	}
	return errors.Join(errs...)
}
