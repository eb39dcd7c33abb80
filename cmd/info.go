package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

// minimumServerVersion is the oldest release serving every endpoint jsd uses
var minimumServerVersion = semver.MustParse("3.0.0")

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show service desk version and build information",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	resp, err := client.Info().Get(cmd.Context())
	if err != nil {
		return err
	}

	if resp.IsSuccess() {
		v, err := serverVersion(resp.Body)
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("Could not determine service desk version")
		case v.LT(minimumServerVersion):
			logger.Warn().
				Str("version", v.String()).
				Str("minimum", minimumServerVersion.String()).
				Msg("Service desk is older than the oldest supported release, some commands may fail")
		default:
			logger.Debug().Str("version", v.String()).Msg("Service desk version supported")
		}
	}

	return respond(cmd, resp, "")
}

// serverVersion extracts the version field of an info response
func serverVersion(body []byte) (semver.Version, error) {
	raw := gjson.GetBytes(body, "version").String()
	if raw == "" {
		return semver.Version{}, fmt.Errorf("response has no version field")
	}
	v, err := semver.ParseTolerant(raw)
	if err != nil {
		return semver.Version{}, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	return v, nil
}
