// utils/http.go
package utils

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

// NewServiceRequest builds an authenticated GET against a sibling platform
// service, safely joining base URL and path and encoding query params.
func NewServiceRequest(ctx context.Context, baseURL, endpointPath, serviceToken string, params map[string]string) (*http.Request, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base service URL '%s': %w", baseURL, err)
	}

	endpoint := base.JoinPath(endpointPath)
	q := endpoint.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request to %s: %w", endpoint.String(), err)
	}
	req.Header.Set("X-Service-Token", serviceToken)
	return req, nil
}
