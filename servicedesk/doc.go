// Package servicedesk provides a client for the Jira Service Desk REST API.
//
// Every call maps one documented endpoint under {host}/rest/servicedeskapi/
// to exactly one HTTP request authenticated with HTTP Basic auth. Responses
// are returned unmodified: the package never decodes bodies and never treats
// a 4xx or 5xx status as an error.
//
// # Usage
//
//	client, err := servicedesk.New(
//		servicedesk.WithHost("https://example.atlassian.net/"),
//		servicedesk.WithCredentials("agent@example.com", "api-token"),
//		servicedesk.WithLogger(logger),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.Requests().GetCustomerRequestByIDOrKey(ctx, "SD-1", "")
//	if err != nil {
//		// connection-level failure, errors.Is(err, servicedesk.ErrConnection)
//	}
//	if !resp.IsSuccess() {
//		// inspect resp.StatusCode and resp.Body
//	}
//
// # Resources
//
//   - Info: instance version and build information
//   - Requests: customer requests, comments, participants, SLAs, attachments
//   - ServiceDesks: service desks, request types, queues, temporary files
//
// Endpoints the service still marks as experimental send the
// X-ExperimentalApi: opt-in header automatically.
//
// # Low-level access
//
// Endpoints without a facade method can be reached through the dispatcher:
//
//	req, err := servicedesk.NewRequest(servicedesk.MethodGet, "organization")
//	if err != nil {
//		return err
//	}
//	resp, err := client.Service().Do(ctx, req.WithQuery(servicedesk.NewQuery().SetInt("limit", 10)))
package servicedesk
