package servicedesk

import "context"

// InfoService exposes the info resource
type InfoService struct {
	service *Service
}

// NewInfoService creates an InfoService over service
func NewInfoService(service *Service) *InfoService {
	return &InfoService{service: service}
}

// Get returns runtime information about the service desk instance:
// version, platform version and build details.
func (s *InfoService) Get(ctx context.Context) (*Response, error) {
	req, err := NewRequest(MethodGet, "info")
	if err != nil {
		return nil, err
	}
	return s.service.Do(ctx, req)
}
