package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/fruitpie/internal/client/models"
	"github.com/dmitrijs2005/fruitpie/internal/common"
	"github.com/dmitrijs2005/fruitpie/internal/logging"
	"github.com/google/uuid"
)

// maxErrorBody caps how much of an error response is read for its detail.
const maxErrorBody = 64 << 10

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	log     logging.Logger
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Msg string `json:"msg"`
}

func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server base url %q: scheme and host required", baseURL)
	}
	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		log:     log.With("component", "api"),
	}, nil
}

func (c *HTTPClient) endpoint(elem ...string) string {
	return c.baseURL.JoinPath(elem...).String()
}

// RequestToken exchanges credentials for an access token.
func (c *HTTPClient) RequestToken(ctx context.Context, username string, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("token"), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", readAPIError(resp)
	}

	var body tokenResponse
	if err := decode(resp.Body, &body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access_token", ErrMalformedResponse)
	}
	return body.AccessToken, nil
}

// CurrentUser asks the server who owns token. Any non-2xx answer means the
// token is not usable and is reported as ErrUnauthorized.
func (c *HTTPClient) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("users", "me"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, readAPIError(resp))
	}

	var user models.User
	if err := decode(resp.Body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates an account. It does not authenticate.
func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) error {
	payload, err := json.Marshal(reg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("users", "register"), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return readAPIError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	id := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, id)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed",
			"method", req.Method, "path", req.URL.Path, "request_id", id, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, req.Method, req.URL.Path, err)
	}

	c.log.Debug(ctx, "request completed",
		"method", req.Method, "path", req.URL.Path, "request_id", id,
		"status", resp.StatusCode, "elapsed", time.Since(start))
	return resp, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func decode(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// readAPIError turns a non-2xx response into *APIError. The detail may be a
// plain string or a list of validation issues; any other JSON leaves it
// empty. A body that is not JSON at all is reported as ErrMalformedResponse.
func readAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("%w: status %d: %v", ErrMalformedResponse, resp.StatusCode, err)
	}

	if !json.Valid(data) {
		return fmt.Errorf("%w: status %d: error body is not json", ErrMalformedResponse, resp.StatusCode)
	}

	var body errorResponse
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return apiErr
	}

	var text string
	if err := json.Unmarshal(body.Detail, &text); err == nil {
		apiErr.Detail = text
		return apiErr
	}

	var issues []validationIssue
	if err := json.Unmarshal(body.Detail, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, i := range issues {
			if i.Msg != "" {
				msgs = append(msgs, i.Msg)
			}
		}
		apiErr.Detail = strings.Join(msgs, "; ")
	}
	return apiErr
}
