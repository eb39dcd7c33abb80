package servicedesk

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// attachmentPartName is the multipart field the service reads uploads from
const attachmentPartName = "file"

// ServiceDeskService exposes service desks, their request types and queues,
// and temporary file uploads.
type ServiceDeskService struct {
	service *Service
}

// NewServiceDeskService creates a ServiceDeskService over service
func NewServiceDeskService(service *Service) *ServiceDeskService {
	return &ServiceDeskService{service: service}
}

// GetServiceDesks returns a page of the service desks on the instance.
func (s *ServiceDeskService) GetServiceDesks(ctx context.Context, page Page) (*Response, error) {
	req, err := NewRequest(MethodGet, "servicedesk")
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req.WithQuery(page.apply(NewQuery())))
}

// GetServiceDeskByID returns a single service desk.
func (s *ServiceDeskService) GetServiceDeskByID(ctx context.Context, serviceDeskID int) (*Response, error) {
	req, err := NewRequest(MethodGet, deskPath(serviceDeskID))
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req)
}

// GetRequestTypes returns a page of the request types of a service desk.
func (s *ServiceDeskService) GetRequestTypes(ctx context.Context, serviceDeskID int, page Page) (*Response, error) {
	req, err := NewRequest(MethodGet, deskPath(serviceDeskID)+"/requesttype")
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req.WithQuery(page.apply(NewQuery())))
}

// GetRequestTypeByID returns a single request type.
func (s *ServiceDeskService) GetRequestTypeByID(ctx context.Context, serviceDeskID, requestTypeID int) (*Response, error) {
	req, err := NewRequest(MethodGet, requestTypePath(serviceDeskID, requestTypeID))
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req)
}

// GetRequestTypeFields returns the fields needed to raise a request of the
// given type, along with the caller's canRaiseOnBehalfOf and
// canAddRequestParticipants permissions.
func (s *ServiceDeskService) GetRequestTypeFields(ctx context.Context, serviceDeskID, requestTypeID int) (*Response, error) {
	req, err := NewRequest(MethodGet, requestTypePath(serviceDeskID, requestTypeID)+"/field")
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req)
}

// GetQueues returns a page of the queues of a service desk. With
// includeCount each queue carries an issueCount. The caller must be an
// agent of the service desk.
func (s *ServiceDeskService) GetQueues(ctx context.Context, serviceDeskID int, includeCount bool, page Page) (*Response, error) {
	q := NewQuery().SetBool("includeCount", includeCount)
	page.apply(q)

	req, err := NewRequest(MethodGet, deskPath(serviceDeskID)+"/queue")
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req.WithQuery(q).Experimental())
}

// GetIssuesInQueue returns a page of the issues in a queue, limited to the
// fields the queue is configured to show.
func (s *ServiceDeskService) GetIssuesInQueue(ctx context.Context, serviceDeskID, queueID int, page Page) (*Response, error) {
	req, err := NewRequest(MethodGet, deskPath(serviceDeskID)+"/queue/"+strconv.Itoa(queueID)+"/issue")
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req.WithQuery(page.apply(NewQuery())).Experimental())
}

// AttachTemporaryFile uploads the file at path as a temporary attachment.
// The response lists temporary attachment IDs for
// RequestService.CreateAttachment.
func (s *ServiceDeskService) AttachTemporaryFile(ctx context.Context, serviceDeskID int, path string) (*Response, error) {
	return s.AttachTemporaryFiles(ctx, serviceDeskID, path)
}

// AttachTemporaryFiles uploads several files in a single request, one
// "file" part per path.
func (s *ServiceDeskService) AttachTemporaryFiles(ctx context.Context, serviceDeskID int, paths ...string) (*Response, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one file is required")
	}

	parts := make([]Part, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("failed to open attachment: %w", err)
		}
		defer f.Close()

		parts = append(parts, Part{
			Name:     attachmentPartName,
			Filename: filepath.Base(p),
			Content:  f,
		})
	}

	return s.attach(ctx, serviceDeskID, parts)
}

// AttachTemporaryFileReader uploads the content of r as a temporary
// attachment named filename.
func (s *ServiceDeskService) AttachTemporaryFileReader(ctx context.Context, serviceDeskID int, filename string, r io.Reader) (*Response, error) {
	return s.attach(ctx, serviceDeskID, []Part{{
		Name:     attachmentPartName,
		Filename: filename,
		Content:  r,
	}})
}

func (s *ServiceDeskService) attach(ctx context.Context, serviceDeskID int, parts []Part) (*Response, error) {
	req, err := NewRequest(MethodPost, deskPath(serviceDeskID)+"/attachTemporaryFile")
	if err != nil {
		return nil, err
	}

	req.WithHeaders(map[string]string{
		TokenHeader: TokenNoCheck,
	}).WithMultipart(parts...).Experimental()

	return s.service.Do(ctx, req)
}

func deskPath(serviceDeskID int) string {
	return "servicedesk/" + strconv.Itoa(serviceDeskID)
}

func requestTypePath(serviceDeskID, requestTypeID int) string {
	return deskPath(serviceDeskID) + "/requesttype/" + strconv.Itoa(requestTypeID)
}
