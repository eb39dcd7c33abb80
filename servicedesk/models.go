package servicedesk

// Pagination defaults used when a Page leaves Limit unset
const (
	DefaultStart = 0
	DefaultLimit = 50
)

// Page selects a window of a paged collection. start and limit are always
// sent. A Limit of zero or less is sent as DefaultLimit and a negative Start
// as DefaultStart, so Page{} requests the first DefaultLimit items.
type Page struct {
	Start int
	Limit int
}

func (p Page) apply(q *Query) *Query {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	start := p.Start
	if start < 0 {
		start = DefaultStart
	}
	return q.SetInt("start", start).SetInt("limit", limit)
}

// CustomerRequest is the payload for creating a customer request
type CustomerRequest struct {
	ServiceDeskID       string         `json:"serviceDeskId"`
	RequestTypeID       string         `json:"requestTypeId"`
	RequestFieldValues  map[string]any `json:"requestFieldValues"`
	RaiseOnBehalfOf     string         `json:"raiseOnBehalfOf,omitempty"`
	RequestParticipants []string       `json:"requestParticipants,omitempty"`
}

// Comment is the payload for creating a request comment
type Comment struct {
	Body   string `json:"body"`
	Public bool   `json:"public"`
}

// AdditionalComment is prepended to attachments added to a request
type AdditionalComment struct {
	Body string `json:"body"`
}

// Attachment converts temporary attachments into permanent ones on a request
type Attachment struct {
	TemporaryAttachmentIDs []string           `json:"temporaryAttachmentIds"`
	Public                 bool               `json:"public"`
	AdditionalComment      *AdditionalComment `json:"additionalComment,omitempty"`
}

// Participants is the payload for adding or removing request participants
type Participants struct {
	Usernames []string `json:"usernames"`
}

// MyRequestsOptions filters the customer requests visible to the caller.
// Empty fields are left out of the query string.
type MyRequestsOptions struct {
	SearchTerm       string
	RequestOwnership string
	RequestStatus    string
	ServiceDeskID    string
	RequestTypeID    string
	Expand           string
	Page
}

// CommentsOptions filters the comments of a request. A nil Public or
// Internal leaves the service default (true) in place.
type CommentsOptions struct {
	Public   *bool
	Internal *bool
	Page
}

// Bool returns a pointer to b, for optional boolean parameters
func Bool(b bool) *bool {
	return &b
}
