package net

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"
)

const (
	maxIdleConns = 10
	clientAgent  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/100.0.4896.88 Safari/537.36"
)

// GetHTTPClient returns a client with a cookie jar and the given overall
// request timeout. Job boards commonly set session cookies on redirect.
func GetHTTPClient(timeout time.Duration) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	return &http.Client{
		Jar:     jar,
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          maxIdleConns,
			IdleConnTimeout:       timeout,
			ResponseHeaderTimeout: timeout,
		},
	}, nil
}
