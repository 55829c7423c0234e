// Package template renders the XML request bodies sent to SE Suite.
//
// Templates are Go text/template files embedded in the binary under
// templates/. There is one template per SOAP action and one fragment
// template per attribute kind:
//
//	actions/execute_activity.xml
//	actions/execute_system_activity.xml
//	actions/new_workflow_edit_data.xml
//	actions/get_table_record.xml
//	actions/new_attachment.xml
//	actions/cancel_workflow.xml
//	actions/new_child_entity_record.xml
//	attributes/entity.xml
//	attributes/relationship.xml
//	attributes/tablefield.xml
//
// # Usage
//
//	engine := template.New()
//	body, err := engine.Render("actions/cancel_workflow.xml", template.Values{
//	    "WorkflowID":  "WF-10",
//	    "Explanation": "duplicate request",
//	    "UserID":      nil,
//	})
//
// # Escaping
//
// Every plain value is XML-escaped before it reaches the template, so
// caller-supplied text can never break the envelope. Values of type Fragment
// (or []Fragment) are trusted XML produced by another template and are
// inserted as-is; this is how attribute lists are embedded into action
// requests.
//
// A key that is not present in Values renders as "<no value>", so callers
// pass every key a template references, using nil for optional ones.
package template
