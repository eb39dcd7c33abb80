package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/s0up4200/servicedesk/servicedesk"
)

var (
	// request create
	createDesk         string
	createType         string
	createFields       []string
	createOnBehalfOf   string
	createParticipants []string

	// request list
	listOpts   servicedesk.MyRequestsOptions
	listFilter string

	// request get
	getExpand string

	// request comment
	commentPublic       bool
	commentListPublic   bool
	commentListInternal bool
	commentPage         servicedesk.Page

	// request participant / sla
	participantPage servicedesk.Page
	slaPage         servicedesk.Page

	// request attach
	attachTempIDs []string
	attachPublic  bool
	attachComment string
)

// requestCmd groups the customer request commands
var requestCmd = &cobra.Command{
	Use:     "request",
	Aliases: []string{"req"},
	Short:   "Create and inspect customer requests",
}

var requestCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a customer request",
	Long: `Create a customer request in a service desk.

Field values are given as key=value. Values that are JSON objects or arrays
are sent as-is, everything else is sent as a string:

  jsd request create --desk 10 --type 25 \
    --field summary="Printer on fire" \
    --field components='[{"name":"Hardware"}]'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := parseFields(createFields)
		if err != nil {
			return err
		}
		resp, err := client.Requests().CreateCustomerRequest(cmd.Context(), servicedesk.CustomerRequest{
			ServiceDeskID:       createDesk,
			RequestTypeID:       createType,
			RequestFieldValues:  fields,
			RaiseOnBehalfOf:     createOnBehalfOf,
			RequestParticipants: createParticipants,
		})
		if err != nil {
			return err
		}
		return respond(cmd, resp, "")
	},
}

var requestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the customer requests visible to you",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.Requests().GetMyCustomerRequests(cmd.Context(), listOpts)
		if err != nil {
			return err
		}
		return respond(cmd, resp, listFilter)
	},
}

var requestGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Show a customer request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.Requests().GetCustomerRequestByIDOrKey(cmd.Context(), args[0], getExpand)
		if err != nil {
			return err
		}
		return respond(cmd, resp, "")
	},
}

var requestCommentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage request comments",
}

var requestCommentAddCmd = &cobra.Command{
	Use:   "add KEY BODY",
	Short: "Add a comment to a request",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.Requests().CreateRequestComment(cmd.Context(), args[0], args[1], commentPublic)
		if err != nil {
			return err
		}
		return respond(cmd, resp, "")
	},
}

var requestCommentListCmd = &cobra.Command{
	Use:   "list KEY",
	Short: "List the comments of a request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := servicedesk.CommentsOptions{Page: commentPage}
		if cmd.Flags().Changed("public") {
			opts.Public = servicedesk.Bool(commentListPublic)
		}
		if cmd.Flags().Changed("internal") {
			opts.Internal = servicedesk.Bool(commentListInternal)
		}
		resp, err := client.Requests().GetRequestComments(cmd.Context(), args[0], opts)
		if err != nil {
			return err
		}
		return respond(cmd, resp, "")
	},
}

var requestCommentGetCmd = &cobra.Command{
	Use:   "get KEY ID",
	Short: "Show a single comment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("comment id", args[1])
		if err != nil {
			return err
		}
		resp, err := client.Requests().GetRequestCommentByID(cmd.Context(), args[0], id)
		if err != nil {
			return err
		}
		return respond(cmd, resp, "")
	},
}

var requestParticipantCmd = &cobra.Command{
	Use:   "participant",
	Short: "Manage request participants",
}

var requestParticipantListCmd = &cobra.Command{
	Use:   "list KEY",
	Short: "List the participants of a request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.Requests().GetRequestParticipants(cmd.Context(), args[0], participantPage)
		if err != nil {
			return err
		}
		return respond(cmd, resp, "")
	},
}

var requestParticipantAddCmd = &cobra.Command{
	Use:   "add KEY USERNAME...",
	Short: "Add participants to a request",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.Requests().AddRequestParticipants(cmd.Context(), args[0], args[1:]...)
		if err != nil {
			return err
		}
		return respond(cmd, resp, "")
	},
}

var requestParticipantRemoveCmd = &cobra.Command{
	Use:   "remove KEY USERNAME...",
	Short: "Remove participants from a request",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.Requests().RemoveRequestParticipants(cmd.Context(), args[0], args[1:]...)
		if err != nil {
			return err
		}
		return respond(cmd, resp, "")
	},
}

var requestSLACmd = &cobra.Command{
	Use:   "sla",
	Short: "Show SLA information for a request",
}

var requestSLAListCmd = &cobra.Command{
	Use:   "list KEY",
	Short: "List the SLA metrics of a request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.Requests().GetSLAInformation(cmd.Context(), args[0], slaPage)
		if err != nil {
			return err
		}
		return respond(cmd, resp, "")
	},
}

var requestSLAGetCmd = &cobra.Command{
	Use:   "get KEY METRIC",
	Short: "Show a single SLA metric",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("sla metric id", args[1])
		if err != nil {
			return err
		}
		resp, err := client.Requests().GetSLAInformationByID(cmd.Context(), args[0], id)
		if err != nil {
			return err
		}
		return respond(cmd, resp, "")
	},
}

var requestAttachCmd = &cobra.Command{
	Use:   "attach KEY",
	Short: "Attach uploaded temporary files to a request",
	Long: `Attach temporary files to a request. Upload the files first with
"jsd servicedesk upload" and pass the returned temporaryAttachmentId values.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		attachment := servicedesk.Attachment{
			TemporaryAttachmentIDs: attachTempIDs,
			Public:                 attachPublic,
		}
		if attachComment != "" {
			attachment.AdditionalComment = &servicedesk.AdditionalComment{Body: attachComment}
		}
		resp, err := client.Requests().CreateAttachment(cmd.Context(), args[0], attachment)
		if err != nil {
			return err
		}
		return respond(cmd, resp, "")
	},
}

func init() {
	requestCreateCmd.Flags().StringVar(&createDesk, "desk", "", "service desk id")
	requestCreateCmd.Flags().StringVar(&createType, "type", "", "request type id")
	requestCreateCmd.Flags().StringArrayVar(&createFields, "field", nil, "request field value as key=value (repeatable)")
	requestCreateCmd.Flags().StringVar(&createOnBehalfOf, "on-behalf-of", "", "raise the request on behalf of this customer")
	requestCreateCmd.Flags().StringSliceVar(&createParticipants, "participant", nil, "usernames to add as participants")
	requestCreateCmd.MarkFlagRequired("desk")
	requestCreateCmd.MarkFlagRequired("type")

	requestListCmd.Flags().StringVar(&listOpts.SearchTerm, "search", "", "text to search for in the request summary")
	requestListCmd.Flags().StringVar(&listOpts.RequestOwnership, "ownership", "", "OWNED_REQUESTS, PARTICIPATED_REQUESTS or ALL_REQUESTS")
	requestListCmd.Flags().StringVar(&listOpts.RequestStatus, "status", "", "OPEN_REQUESTS, CLOSED_REQUESTS or ALL_REQUESTS")
	requestListCmd.Flags().StringVar(&listOpts.ServiceDeskID, "desk", "", "only requests from this service desk")
	requestListCmd.Flags().StringVar(&listOpts.RequestTypeID, "type", "", "only requests of this request type")
	requestListCmd.Flags().StringVar(&listOpts.Expand, "expand", "", "comma separated list of entities to expand")
	requestListCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "filter expression applied to the returned values")
	addPageFlags(requestListCmd, &listOpts.Page)

	requestGetCmd.Flags().StringVar(&getExpand, "expand", "", "entity to expand, e.g. participant or sla")

	requestCommentAddCmd.Flags().BoolVar(&commentPublic, "public", false, "make the comment visible to customers")
	requestCommentListCmd.Flags().BoolVar(&commentListPublic, "public", true, "include public comments")
	requestCommentListCmd.Flags().BoolVar(&commentListInternal, "internal", true, "include internal comments")
	addPageFlags(requestCommentListCmd, &commentPage)
	requestCommentCmd.AddCommand(requestCommentAddCmd, requestCommentListCmd, requestCommentGetCmd)

	addPageFlags(requestParticipantListCmd, &participantPage)
	requestParticipantCmd.AddCommand(requestParticipantListCmd, requestParticipantAddCmd, requestParticipantRemoveCmd)

	addPageFlags(requestSLAListCmd, &slaPage)
	requestSLACmd.AddCommand(requestSLAListCmd, requestSLAGetCmd)

	requestAttachCmd.Flags().StringSliceVar(&attachTempIDs, "temp-id", nil, "temporary attachment ids (repeatable)")
	requestAttachCmd.Flags().BoolVar(&attachPublic, "public", false, "make the attachments visible to customers")
	requestAttachCmd.Flags().StringVar(&attachComment, "comment", "", "comment to add with the attachments")
	requestAttachCmd.MarkFlagRequired("temp-id")

	requestCmd.AddCommand(
		requestCreateCmd,
		requestListCmd,
		requestGetCmd,
		requestCommentCmd,
		requestParticipantCmd,
		requestSLACmd,
		requestAttachCmd,
	)
}

// addPageFlags registers --start and --limit bound to page
func addPageFlags(cmd *cobra.Command, page *servicedesk.Page) {
	cmd.Flags().IntVar(&page.Start, "start", servicedesk.DefaultStart, "index of the first item to return")
	cmd.Flags().IntVar(&page.Limit, "limit", servicedesk.DefaultLimit, "maximum number of items to return")
}

// parseFields converts key=value pairs into request field values
func parseFields(pairs []string) (map[string]any, error) {
	fields := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q: expected key=value", pair)
		}

		trimmed := strings.TrimSpace(value)
		if (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) && gjson.Valid(trimmed) {
			fields[key] = json.RawMessage(trimmed)
			continue
		}
		fields[key] = value
	}
	return fields, nil
}

func parseID(name, s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", name, s)
	}
	return id, nil
}
