package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/kbukum/jolt/httpclient"
)

// printResponse writes the status line and the body. A query narrows a
// JSON body to the gjson result; raw skips all formatting.
func printResponse(w io.Writer, resp *httpclient.Response, query string, raw bool) error {
	fmt.Fprintln(w, statusLine(resp))

	body := resp.Body
	if query != "" {
		if !gjson.ValidBytes(body) {
			return fmt.Errorf("--query needs a JSON response")
		}
		result := gjson.GetBytes(body, query)
		if !result.Exists() {
			return fmt.Errorf("--query %q matched nothing", query)
		}
		body = []byte(result.Raw)
		if result.Type == gjson.String && !raw {
			body = []byte(result.Str)
		}
	}

	if len(body) == 0 {
		return nil
	}
	if !raw && gjson.ValidBytes(body) {
		body = pretty.Pretty(body)
		if !color.NoColor {
			body = pretty.Color(body, nil)
		}
	}
	_, err := w.Write(body)
	if err == nil && !bytes.HasSuffix(body, []byte("\n")) {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

// statusLine renders "<status> <url>" coloured by status class.
func statusLine(resp *httpclient.Response) string {
	var c *color.Color
	switch {
	case resp.StatusCode >= 500:
		c = color.New(color.FgRed, color.Bold)
	case resp.StatusCode >= 400:
		c = color.New(color.FgRed)
	case resp.StatusCode >= 300:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgGreen)
	}
	return c.Sprint(resp.Status) + " " + resp.URL
}
