package net

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// GetHTTPClient returns a client sharing the package transport.
func GetHTTPClient() (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("error creating cookie jar: %w", err)
	}

	return &http.Client{
		Jar:       jar,
		Timeout:   time.Duration(timeoutInSeconds) * time.Second,
		Transport: reqTransport,
	}, nil
}
