package soap

import (
	"strings"
)

// SOAP 1.1 envelope namespace used by every request template.
const SOAP11Namespace = "http://schemas.xmlsoap.org/soap/envelope/"

// ContentType is the Content-Type sent with every SOAP request.
const ContentType = "text/xml; charset=utf-8"

// Component identifies one of the SE Suite sub-services.
type Component string

const (
	// Workflow is the workflow engine component.
	Workflow Component = "wf"
	// Form is the form/table engine component.
	Form Component = "fm"
)

// componentNames maps each component to the name used in namespaces and
// SOAPAction headers.
var componentNames = map[Component]string{
	Workflow: "workflow",
	Form:     "form",
}

// Components returns every known component.
func Components() []Component {
	return []Component{Workflow, Form}
}

// LookupComponent resolves a component from its code ("wf") or name ("workflow").
func LookupComponent(s string) (Component, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range componentNames {
		if string(c) == s || name == s {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c is a known component.
func (c Component) Valid() bool {
	_, ok := componentNames[c]
	return ok
}

// Name returns the lowercase component name ("workflow" or "form").
// It is the XML namespace prefix used in responses.
func (c Component) Name() string {
	return componentNames[c]
}

// Namespace returns the component's XML namespace URI.
func (c Component) Namespace() string {
	return NamespaceFor(c.Name())
}

// URL returns the component's web service endpoint under baseURL.
func (c Component) URL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/apigateway/se/ws/" + string(c) + "_ws.php"
}

// String returns the component code.
func (c Component) String() string {
	return string(c)
}

// NamespaceFor resolves a namespace prefix to its URI (urn:<prefix>).
func NamespaceFor(prefix string) string {
	return "urn:" + prefix
}

// Action is a SOAP action accepted by the SE Suite web service.
type Action string

// Supported actions.
const (
	ActionExecuteActivity       Action = "executeActivity"
	ActionExecuteSystemActivity Action = "executeSystemActivity"
	ActionNewWorkflowEditData   Action = "newWorkflowEditData"
	ActionGetTableRecord        Action = "getTableRecord"
	ActionNewAttachment         Action = "newAttachment"
	ActionCancelWorkflow        Action = "cancelWorkflow"
	ActionNewChildEntityRecord  Action = "newChildEntityRecord"
)

// actionTemplates maps each action to its request template.
var actionTemplates = map[Action]string{
	ActionExecuteActivity:       "actions/execute_activity.xml",
	ActionExecuteSystemActivity: "actions/execute_system_activity.xml",
	ActionNewWorkflowEditData:   "actions/new_workflow_edit_data.xml",
	ActionGetTableRecord:        "actions/get_table_record.xml",
	ActionNewAttachment:         "actions/new_attachment.xml",
	ActionCancelWorkflow:        "actions/cancel_workflow.xml",
	ActionNewChildEntityRecord:  "actions/new_child_entity_record.xml",
}

// Actions returns every supported action in a stable order.
func Actions() []Action {
	return []Action{
		ActionExecuteActivity,
		ActionExecuteSystemActivity,
		ActionNewWorkflowEditData,
		ActionGetTableRecord,
		ActionNewAttachment,
		ActionCancelWorkflow,
		ActionNewChildEntityRecord,
	}
}

// Valid reports whether a is a supported action.
func (a Action) Valid() bool {
	_, ok := actionTemplates[a]
	return ok
}

// Template returns the name of the request template for a.
func (a Action) Template() string {
	return actionTemplates[a]
}

// Header returns the SOAPAction header value for a on component c. The
// gateway routes on the component code (urn:wf#...), not on its name.
func (a Action) Header(c Component) string {
	return "urn:" + string(c) + "#" + string(a)
}

// String returns the action identifier.
func (a Action) String() string {
	return string(a)
}
