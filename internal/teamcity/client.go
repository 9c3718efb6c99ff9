// Package teamcity provides a minimal client for the TeamCity REST API.
package teamcity

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
)

const (
	buildsPath     = "app/rest/builds"
	projectsPath   = "app/rest/projects"
	buildTypesPath = "app/rest/buildTypes"
	usersPath      = "app/rest/users"

	projectFields   = "count,project(id,name,parentProjectId,buildTypes(count,buildType(id,name)))"
	buildTypeFields = "count,buildType(id,name,projectId," +
		"builds($locator(running:false,canceled:false,count:1),build(number,status,statusText,branchName)))"
	userFields = "count,user(username,name)"

	// buildFields limits the builds response to what the watcher consumes.
	buildFields = "count,build(id,number,status,state,branchName,webUrl,buildTypeId," +
		"running-info(percentageComplete,elapsedSeconds,estimatedTotalSeconds,currentStageText)," +
		"triggered(type,user(username,name)),lastChanges(change(username)))"

	// DefaultTimeout bounds a single API request.
	DefaultTimeout = 30 * time.Second
)

var (
	ErrUnauthorized = errors.New("teamcity: unauthorized")
	ErrNotFound     = errors.New("teamcity: not found")
)

// Options configures a Client.
type Options struct {
	URL                string
	Token              string
	InsecureSkipVerify bool
	Timeout            time.Duration
	Log                io.Writer
}

// Client wraps a REST client bound to one TeamCity server.
type Client struct {
	rest    *api.RESTClient
	baseURL *url.URL
}

// NewClient creates a client for the server at opts.URL.
func NewClient(opts Options) (*Client, error) {
	if opts.URL == "" {
		return nil, errors.New("teamcity url not defined")
	}

	if opts.Token == "" {
		return nil, errors.New("teamcity token not defined")
	}

	base, err := url.Parse(strings.TrimSuffix(opts.URL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid teamcity url %q: %w", opts.URL, err)
	}

	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid teamcity url %q: scheme must be http or https", opts.URL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // self-hosted servers
	}

	rest, err := api.NewRESTClient(api.ClientOptions{
		Host:               base.Host,
		AuthToken:          opts.Token,
		Timeout:            timeout,
		Log:                opts.Log,
		SkipDefaultHeaders: true,
		Transport:          &bearerTransport{token: opts.Token, base: transport},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	return &Client{rest: rest, baseURL: base}, nil
}

// Builds fetches the most recent builds of a build configuration, running or not.
func (c *Client) Builds(ctx context.Context, buildTypeID string) ([]Build, error) {
	query := url.Values{}
	query.Set("locator", BuildsLocator(buildTypeID))
	query.Set("fields", buildFields)

	var resp BuildsResponse
	if err := c.get(ctx, buildsPath, query, &resp); err != nil {
		return nil, fmt.Errorf("failed to get builds for %s: %w", buildTypeID, err)
	}

	return resp.Build, nil
}

// Projects lists every project visible to the token with its build
// configurations.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	query := url.Values{}
	query.Set("fields", projectFields)

	var resp ProjectsResponse
	if err := c.get(ctx, projectsPath, query, &resp); err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}

	return resp.Project, nil
}

// BuildTypes lists the build configurations of a project and its
// subprojects, each with its latest finished build.
func (c *Client) BuildTypes(ctx context.Context, projectID string) ([]BuildType, error) {
	query := url.Values{}
	query.Set("locator", fmt.Sprintf("affectedProject:(id:%s)", projectID))
	query.Set("fields", buildTypeFields)

	var resp BuildTypesResponse
	if err := c.get(ctx, buildTypesPath, query, &resp); err != nil {
		return nil, fmt.Errorf("failed to get build configurations of %s: %w", projectID, err)
	}

	return resp.BuildType, nil
}

// Users lists the server's users sorted by display name, then username.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	query := url.Values{}
	query.Set("fields", userFields)

	var resp UsersResponse
	if err := c.get(ctx, usersPath, query, &resp); err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	users := resp.User
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].DisplayName() < users[j].DisplayName()
	})

	return users, nil
}

// get issues a GET for path relative to the server root and decodes the JSON
// body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL.JoinPath(path)
	endpoint.RawQuery = query.Encode()

	resp, err := c.rest.RequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// BaseURL returns the server root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// BuildsLocator returns the locator used to list builds of a build configuration.
func BuildsLocator(buildTypeID string) string {
	return fmt.Sprintf("buildType:(id:%s),running:any,count:200,canceled:any,branch:default:any", buildTypeID)
}

func classify(err error) error {
	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}

	switch httpErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return err
	}
}

// bearerTransport sets TeamCity's bearer auth and JSON accept headers.
type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("Accept", "application/json")

	return t.base.RoundTrip(req)
}
