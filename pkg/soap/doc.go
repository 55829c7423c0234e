// Package soap provides the wire-level pieces for talking to the SE Suite
// SOAP web service.
//
// The service is split into two components, each with its own endpoint and
// XML namespace:
//
//   - Workflow ("wf"): https://<host>/apigateway/se/ws/wf_ws.php, namespace urn:workflow
//   - Form ("fm"):     https://<host>/apigateway/se/ws/fm_ws.php, namespace urn:form
//
// Every request names one of a fixed set of actions in its SOAPAction header,
// formatted as urn:<code>#<action>, e.g. urn:wf#executeActivity.
//
// # Extracting values
//
// Responses are parsed once into a Document bound to a component namespace:
//
//	doc, err := soap.Parse(body, soap.Workflow.Name())
//	if err != nil {
//	    return err
//	}
//	status, _ := doc.FindOne("Status")
//	detail, _ := doc.FindOne("Detail")
//
// FindOne returns the text of the first matching descendant, FindMany returns
// every match in document order, and FindDict pairs two tag lists into a map
// after stripping the response envelope entries the service adds around them.
//
// # Transport
//
// Transport posts a rendered body to a component endpoint with the SE Suite
// headers. It performs exactly one request per call and never retries.
//
//	tr := soap.NewTransport()
//	resp, err := tr.Call(ctx, &soap.Request{
//	    BaseURL:   "https://sesuite.example.com",
//	    Token:     token,
//	    Component: soap.Workflow,
//	    Action:    soap.ActionExecuteActivity,
//	    Body:      body,
//	})
package soap
