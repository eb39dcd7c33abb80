package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/servicedesk/servicedesk"
)

var (
	deskPage       servicedesk.Page
	deskListFilter string
	queueCount     bool
)

// serviceDeskCmd groups the service desk commands
var serviceDeskCmd = &cobra.Command{
	Use:     "servicedesk",
	Aliases: []string{"sd"},
	Short:   "Inspect service desks, request types and queues",
}

var serviceDeskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the service desks visible to you",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.ServiceDesks().GetServiceDesks(cmd.Context(), deskPage)
		if err != nil {
			return err
		}
		return respond(cmd, resp, deskListFilter)
	},
}

var serviceDeskGetCmd = &cobra.Command{
	Use:   "get DESK",
	Short: "Show a service desk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args, "service desk id")
		if err != nil {
			return err
		}
		resp, err := client.ServiceDesks().GetServiceDeskByID(cmd.Context(), ids[0])
		if err != nil {
			return err
		}
		return respond(cmd, resp, "")
	},
}

var serviceDeskRequestTypesCmd = &cobra.Command{
	Use:   "requesttypes DESK",
	Short: "List the request types of a service desk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args, "service desk id")
		if err != nil {
			return err
		}
		resp, err := client.ServiceDesks().GetRequestTypes(cmd.Context(), ids[0], deskPage)
		if err != nil {
			return err
		}
		return respond(cmd, resp, deskListFilter)
	},
}

var serviceDeskRequestTypeCmd = &cobra.Command{
	Use:   "requesttype DESK TYPE",
	Short: "Show a request type",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args, "service desk id", "request type id")
		if err != nil {
			return err
		}
		resp, err := client.ServiceDesks().GetRequestTypeByID(cmd.Context(), ids[0], ids[1])
		if err != nil {
			return err
		}
		return respond(cmd, resp, "")
	},
}

var serviceDeskFieldsCmd = &cobra.Command{
	Use:   "fields DESK TYPE",
	Short: "List the fields of a request type",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args, "service desk id", "request type id")
		if err != nil {
			return err
		}
		resp, err := client.ServiceDesks().GetRequestTypeFields(cmd.Context(), ids[0], ids[1])
		if err != nil {
			return err
		}
		return respond(cmd, resp, "")
	},
}

var serviceDeskQueuesCmd = &cobra.Command{
	Use:   "queues DESK",
	Short: "List the queues of a service desk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args, "service desk id")
		if err != nil {
			return err
		}
		resp, err := client.ServiceDesks().GetQueues(cmd.Context(), ids[0], queueCount, deskPage)
		if err != nil {
			return err
		}
		return respond(cmd, resp, deskListFilter)
	},
}

var serviceDeskQueueIssuesCmd = &cobra.Command{
	Use:   "queue-issues DESK QUEUE",
	Short: "List the issues in a queue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args, "service desk id", "queue id")
		if err != nil {
			return err
		}
		resp, err := client.ServiceDesks().GetIssuesInQueue(cmd.Context(), ids[0], ids[1], deskPage)
		if err != nil {
			return err
		}
		return respond(cmd, resp, deskListFilter)
	},
}

var serviceDeskUploadCmd = &cobra.Command{
	Use:   "upload DESK FILE...",
	Short: "Upload files as temporary attachments",
	Long: `Upload one or more files as temporary attachments. Each file is sent in
its own request; up to upload.concurrency uploads run at once. Pass the
returned temporaryAttachmentId values to "jsd request attach".`,
	Args: cobra.MinimumNArgs(2),
	RunE: runUpload,
}

func init() {
	for _, c := range []*cobra.Command{
		serviceDeskListCmd,
		serviceDeskRequestTypesCmd,
		serviceDeskQueuesCmd,
		serviceDeskQueueIssuesCmd,
	} {
		addPageFlags(c, &deskPage)
		c.Flags().StringVarP(&deskListFilter, "filter", "f", "", "filter expression applied to the returned values")
	}
	serviceDeskQueuesCmd.Flags().BoolVar(&queueCount, "count", false, "include the issue count of each queue")

	serviceDeskCmd.AddCommand(
		serviceDeskListCmd,
		serviceDeskGetCmd,
		serviceDeskRequestTypesCmd,
		serviceDeskRequestTypeCmd,
		serviceDeskFieldsCmd,
		serviceDeskQueuesCmd,
		serviceDeskQueueIssuesCmd,
		serviceDeskUploadCmd,
	)
}

func runUpload(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[:1], "service desk id")
	if err != nil {
		return err
	}
	files := args[1:]
	results := uploadFiles(cmd.Context(), client.ServiceDesks(), ids[0], files, cfg.Upload.Concurrency)

	var failed int
	for i, result := range results {
		if result.Err != nil {
			failed++
			logger.Error().Err(result.Err).Str("file", files[i]).Msg("Upload failed")
			continue
		}
		logger.Info().Str("file", files[i]).Int("status", result.Response.StatusCode).Msg("Uploaded temporary file")
		if err := respond(cmd, result.Response, ""); err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d uploads", errRequestFailed, failed, len(results))
	}
	return nil
}

// uploadResult is the outcome of one file upload
type uploadResult struct {
	Response *servicedesk.Response
	Err      error
}

// uploadFiles attaches each file in its own call, at most limit at a time.
// A failing file does not cancel the others. Results are returned in the
// order of paths.
func uploadFiles(ctx context.Context, desks *servicedesk.ServiceDeskService, serviceDeskID int, paths []string, limit int) []uploadResult {
	results := make([]uploadResult, len(paths))

	var g errgroup.Group
	g.SetLimit(max(limit, 1))

	for i, path := range paths {
		g.Go(func() error {
			resp, err := desks.AttachTemporaryFile(ctx, serviceDeskID, path)
			if err != nil {
				err = fmt.Errorf("failed to upload %s: %w", filepath.Base(path), err)
			}
			results[i] = uploadResult{Response: resp, Err: err}
			return nil
		})
	}

	g.Wait()
	return results
}

// parseIDs converts positional arguments into numeric ids, one name per arg
func parseIDs(args []string, names ...string) ([]int, error) {
	ids := make([]int, len(names))
	for i, name := range names {
		id, err := parseID(name, args[i])
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
