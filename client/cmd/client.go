package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/sdcio/fea-server/pkg/server"
)

// apiClient talks to the HTTP API of a fea-server.
type apiClient struct {
	base   string
	client *http.Client
}

func newAPIClient(addr string) *apiClient {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = nil
	// only connection failures are retried, a commit is never repeated
	rc.CheckRetry = func(ctx context.Context, rsp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, rsp, err)
		}
		return false, nil
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return &apiClient{
		base:   strings.TrimSuffix(addr, "/") + "/api/v1",
		client: rc.StandardClient(),
	}
}

// do sends the request and decodes a JSON response into out. Error
// responses are turned into errors naming the failed operation.
func (c *apiClient) do(ctx context.Context, method, path string, body []byte, out any) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, r)
	if err != nil {
		return err
	}
	rsp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		er := &server.ErrorResponse{}
		if err := json.NewDecoder(rsp.Body).Decode(er); err != nil || er.Error == "" {
			return fmt.Errorf("%s %s: %s", method, path, rsp.Status)
		}
		if er.Operation != "" {
			return fmt.Errorf("%s: %s (operation %q)", rsp.Status, er.Error, er.Operation)
		}
		return fmt.Errorf("%s: %s", rsp.Status, er.Error)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(rsp.Body).Decode(out)
}
