package net

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/oauth2"
)

const (
	maxIdleConns          = 10
	timeoutInSecondsLimit = 60
	clientAgent           = "benford/1.0 (+https://github.com/mchmarny/benford)"
)

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          maxIdleConns,
		IdleConnTimeout:       timeoutInSecondsLimit * time.Second,
		ResponseHeaderTimeout: timeoutInSecondsLimit * time.Second,
	}
}

// GetHTTPClient returns a plain HTTP client with a cookie jar.
func GetHTTPClient() (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("error creating cookie jar: %w", err)
	}
	return &http.Client{
		Jar:       jar,
		Transport: newTransport(),
	}, nil
}

// GetOAuthClient returns a client which sends token as a bearer token.
func GetOAuthClient(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: newTransport()})
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{
			TokenType:   "Bearer",
			AccessToken: token,
		},
	)
	return oauth2.NewClient(ctx, ts)
}

// GetClient returns an OAuth client when token is set and a plain one otherwise.
func GetClient(ctx context.Context, token string) (*http.Client, error) {
	if token != "" {
		return GetOAuthClient(ctx, token), nil
	}
	return GetHTTPClient()
}
