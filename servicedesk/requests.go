package servicedesk

import (
	"context"
	"strconv"
)

// RequestService exposes the customer request resource and its
// comment, participant, SLA and attachment sub-resources.
type RequestService struct {
	service *Service
}

// NewRequestService creates a RequestService over service
func NewRequestService(service *Service) *RequestService {
	return &RequestService{service: service}
}

// CreateCustomerRequest creates a customer request in a service desk. The
// service desk, the request type and the fields mandatory for that type are
// required; the field list is available from
// ServiceDeskService.GetRequestTypeFields.
func (s *RequestService) CreateCustomerRequest(ctx context.Context, request CustomerRequest) (*Response, error) {
	req, err := NewRequest(MethodPost, "request")
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req.WithBody(request))
}

// GetMyCustomerRequests returns the requests the caller created or
// participates in, most recently active first.
func (s *RequestService) GetMyCustomerRequests(ctx context.Context, opts MyRequestsOptions) (*Response, error) {
	q := NewQuery().
		SetString("searchTerm", opts.SearchTerm).
		SetString("requestOwnership", opts.RequestOwnership).
		SetString("requestStatus", opts.RequestStatus).
		SetString("serviceDeskId", opts.ServiceDeskID).
		SetString("requestTypeId", opts.RequestTypeID).
		SetString("expand", opts.Expand)
	opts.Page.apply(q)

	req, err := NewRequest(MethodGet, "request")
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req.WithQuery(q))
}

// GetCustomerRequestByIDOrKey returns a single request. A non-empty expand
// is appended as an extra path segment.
func (s *RequestService) GetCustomerRequestByIDOrKey(ctx context.Context, issueIDOrKey, expand string) (*Response, error) {
	path := "request/" + issueIDOrKey
	if expand != "" {
		path += "/" + expand
	}

	req, err := NewRequest(MethodGet, path)
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req)
}

// CreateRequestComment adds a public or internal comment authored by the
// caller. Which visibilities are allowed depends on the caller's role.
func (s *RequestService) CreateRequestComment(ctx context.Context, issueIDOrKey, body string, public bool) (*Response, error) {
	req, err := NewRequest(MethodPost, "request/"+issueIDOrKey+"/comment")
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req.WithBody(Comment{Body: body, Public: public}))
}

// GetRequestComments returns a page of comments on a request.
func (s *RequestService) GetRequestComments(ctx context.Context, issueIDOrKey string, opts CommentsOptions) (*Response, error) {
	q := NewQuery().
		SetBoolPtr("public", opts.Public).
		SetBoolPtr("internal", opts.Internal)
	opts.Page.apply(q)

	req, err := NewRequest(MethodGet, "request/"+issueIDOrKey+"/comment")
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req.WithQuery(q))
}

// GetRequestCommentByID returns one comment the caller is allowed to see.
func (s *RequestService) GetRequestCommentByID(ctx context.Context, issueIDOrKey string, commentID int) (*Response, error) {
	req, err := NewRequest(MethodGet, "request/"+issueIDOrKey+"/comment/"+strconv.Itoa(commentID))
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req)
}

// GetRequestParticipants returns a page of users participating in a request.
func (s *RequestService) GetRequestParticipants(ctx context.Context, issueIDOrKey string, page Page) (*Response, error) {
	req, err := NewRequest(MethodGet, "request/"+issueIDOrKey+"/participant")
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req.WithQuery(page.apply(NewQuery())))
}

// AddRequestParticipants adds users as participants of a request.
func (s *RequestService) AddRequestParticipants(ctx context.Context, issueIDOrKey string, usernames ...string) (*Response, error) {
	req, err := NewRequest(MethodPost, "request/"+issueIDOrKey+"/participant")
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req.WithBody(participants(usernames)))
}

// RemoveRequestParticipants removes users from the participants of a request.
func (s *RequestService) RemoveRequestParticipants(ctx context.Context, issueIDOrKey string, usernames ...string) (*Response, error) {
	req, err := NewRequest(MethodDelete, "request/"+issueIDOrKey+"/participant")
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req.WithBody(participants(usernames)))
}

// GetSLAInformation returns a page of SLA records for a request. The caller
// must be an agent.
func (s *RequestService) GetSLAInformation(ctx context.Context, issueIDOrKey string, page Page) (*Response, error) {
	req, err := NewRequest(MethodGet, "request/"+issueIDOrKey+"/sla")
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req.WithQuery(page.apply(NewQuery())))
}

// GetSLAInformationByID returns one SLA metric of a request.
func (s *RequestService) GetSLAInformationByID(ctx context.Context, issueIDOrKey string, slaMetricID int) (*Response, error) {
	req, err := NewRequest(MethodGet, "request/"+issueIDOrKey+"/sla/"+strconv.Itoa(slaMetricID))
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req)
}

// CreateAttachment turns temporary attachments, created with
// ServiceDeskService.AttachTemporaryFile, into attachments on a request.
func (s *RequestService) CreateAttachment(ctx context.Context, issueIDOrKey string, attachment Attachment) (*Response, error) {
	req, err := NewRequest(MethodPost, "request/"+issueIDOrKey+"/attachment")
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req.WithBody(attachment).Experimental())
}

func participants(usernames []string) Participants {
	if usernames == nil {
		usernames = []string{}
	}
	return Participants{Usernames: usernames}
}
