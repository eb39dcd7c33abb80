package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/s0up4200/servicedesk/filter"
	"github.com/s0up4200/servicedesk/servicedesk"
)

// errRequestFailed is returned when the service answered with a non-2xx status
var errRequestFailed = errors.New("request failed")

type outputOptions struct {
	Query  string // gjson path applied last
	Raw    bool   // body only, unformatted
	Filter string // expression applied to the page's values
	Color  bool
}

// writeResponse prints the status line to errOut and the selected body to
// out. Any non-2xx status is reported as an error after the body is printed.
func writeResponse(out, errOut io.Writer, resp *servicedesk.Response, opts outputOptions) error {
	if !opts.Raw {
		fmt.Fprintln(errOut, statusLine(resp, opts.Color))
	}

	body := resp.Body
	if resp.IsSuccess() {
		var err error
		if body, err = selectBody(body, opts); err != nil {
			return err
		}
	}

	if len(body) > 0 {
		if !opts.Raw && gjson.ValidBytes(body) {
			body = pretty.Pretty(body)
			if opts.Color {
				body = pretty.Color(body, pretty.TerminalStyle)
			}
		}
		out.Write(body)
		if body[len(body)-1] != '\n' {
			fmt.Fprintln(out)
		}
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("%w: %s", errRequestFailed, resp.Status)
	}
	return nil
}

// selectBody narrows a successful body with the filter and query options
func selectBody(body []byte, opts outputOptions) ([]byte, error) {
	if opts.Filter != "" {
		values := gjson.GetBytes(body, "values")
		if !values.IsArray() {
			return nil, fmt.Errorf("--filter needs a paged response with a values array")
		}

		f, err := filter.Compile(opts.Filter)
		if err != nil {
			return nil, err
		}

		items, _ := values.Value().([]any)
		matched, err := f.Apply(items)
		if err != nil {
			return nil, err
		}

		if body, err = json.Marshal(matched); err != nil {
			return nil, fmt.Errorf("failed to encode filtered values: %w", err)
		}
	}

	if opts.Query != "" {
		result := gjson.GetBytes(body, opts.Query)
		if !result.Exists() {
			return nil, nil
		}
		if result.Type == gjson.String {
			return []byte(result.Str), nil
		}
		return []byte(result.Raw), nil
	}

	return body, nil
}

func statusLine(resp *servicedesk.Response, enabled bool) string {
	var c *color.Color
	switch {
	case resp.IsSuccess():
		c = color.New(color.FgGreen, color.Bold)
	case resp.StatusCode >= 500:
		c = color.New(color.FgRed, color.Bold)
	default:
		c = color.New(color.FgYellow, color.Bold)
	}
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d", resp.StatusCode)
	}
	return c.Sprint(status)
}
