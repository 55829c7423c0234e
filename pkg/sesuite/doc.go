// Package sesuite is a client for the SE Suite SOAP web service.
//
// A Client holds one HTTP session. Open it before calling any operation and
// Close it when done, or use With to scope the session to a function:
//
//	err := sesuite.With(token, func(c *sesuite.Client) error {
//		detail, err := c.ExecuteActivity(ctx, "WF-123", "approve", 1)
//		if err != nil {
//			return err
//		}
//		log.Println(detail)
//		return nil
//	})
//
// Every operation renders a request template, posts it to the workflow or form
// endpoint and inspects the Status element of the answer. A non-200 answer or
// a FAILURE status is returned as an *OperationError that matches
// ErrWorkflowOperationFailed or ErrFormOperationFailed with errors.Is.
//
// A Client is not safe for concurrent use.
package sesuite
