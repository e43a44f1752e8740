package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

func newClient(apiURL, token string) *resty.Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(apiURL, "/")).
		SetTimeout(5 * time.Minute).
		SetHeader("Accept", "application/json")
	if token != "" {
		c.SetAuthToken(token)
	}
	return c
}

func runGet(c *resty.Client, path string, out io.Writer) error {
	resp, err := c.R().Get(path)
	if err != nil {
		return err
	}
	return printBody(resp, out)
}

func runRefresh(c *resty.Client, userID string, out io.Writer) error {
	if userID == "" {
		return fmt.Errorf("user id required")
	}
	resp, err := c.R().Post("/circle/refresh/" + userID)
	if err != nil {
		return err
	}
	return printBody(resp, out)
}

func runRefreshAll(c *resty.Client, wait bool, out io.Writer) error {
	req := c.R()
	if wait {
		req.SetQueryParam("wait", "true")
	}
	resp, err := req.Post("/circle/refresh-all")
	if err != nil {
		return err
	}
	return printBody(resp, out)
}

func runJob(c *resty.Client, jobID string, cancel bool, out io.Writer) error {
	var (
		resp *resty.Response
		err  error
	)
	if cancel {
		resp, err = c.R().Post("/circle/refresh-all/" + jobID + "/cancel")
	} else {
		resp, err = c.R().Get("/circle/refresh-all/" + jobID)
	}
	if err != nil {
		return err
	}
	return printBody(resp, out)
}

// printBody pretty-prints a successful JSON body and turns anything else
// into an error carrying the status and the server's message.
func printBody(resp *resty.Response, out io.Writer) error {
	if resp.IsError() {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(resp.Body(), &e) == nil && e.Error != "" {
			return fmt.Errorf("http %d: %s", resp.StatusCode(), e.Error)
		}
		return fmt.Errorf("http %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, resp.Body(), "", "  "); err != nil {
		_, err = out.Write(resp.Body())
		return err
	}
	buf.WriteByte('\n')
	_, err := io.Copy(out, &buf)
	return err
}
