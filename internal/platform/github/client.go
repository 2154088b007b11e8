// Package github provides authenticated GitHub API clients.
package github

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	gogithub "github.com/google/go-github/v68/github"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultAPIURL = "https://api.github.com"

// NewAppClient creates a GitHub API client authenticated as a GitHub App installation.
// The ghinstallation transport automatically handles token renewal.
func NewAppClient(appID, installationID int64, privateKeyPEM, apiURL string) (*gogithub.Client, error) {
	transport, err := ghinstallation.New(otelhttp.NewTransport(http.DefaultTransport), appID, installationID, []byte(privateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("creating github installation transport: %w", err)
	}
	if isEnterprise(apiURL) {
		transport.BaseURL = strings.TrimSuffix(apiURL, "/")
	}
	return withBaseURL(gogithub.NewClient(&http.Client{Transport: transport}), apiURL)
}

// NewTokenClient creates a GitHub API client authenticated with a token,
// such as the GITHUB_TOKEN of a workflow run.
func NewTokenClient(token, apiURL string) (*gogithub.Client, error) {
	httpClient := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	return withBaseURL(gogithub.NewClient(httpClient).WithAuthToken(token), apiURL)
}

func withBaseURL(client *gogithub.Client, apiURL string) (*gogithub.Client, error) {
	if !isEnterprise(apiURL) {
		return client, nil
	}
	c, err := client.WithEnterpriseURLs(apiURL, apiURL)
	if err != nil {
		return nil, fmt.Errorf("configuring github api url %q: %w", apiURL, err)
	}
	return c, nil
}

func isEnterprise(apiURL string) bool {
	return apiURL != "" && strings.TrimSuffix(apiURL, "/") != defaultAPIURL
}
