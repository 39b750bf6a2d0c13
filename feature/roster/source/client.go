package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"roster-sync/feature/roster/models"
)

const (
	authPath     = "Autenticar"
	employeePath = "auditeris/getemployee"

	// maxBodyBytes caps how much of a response is read into memory.
	maxBodyBytes = 64 << 20
)

// Payload is one downloaded employee list.
type Payload struct {
	Company   models.Company
	FetchedAt time.Time
	// Body is the response body exactly as received.
	Body      []byte
	Employees []Employee
}

// Client downloads employee lists from the personnel API.
type Client struct {
	cfg  Config
	http *http.Client
	now  func() time.Time
}

// NewClient creates a client. A nil httpClient gets one with the
// configured timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{cfg: cfg, http: httpClient, now: time.Now}
}

// Fetch authenticates and downloads the employee list of company.
func (c *Client) Fetch(ctx context.Context, company models.Company) (*Payload, error) {
	rut, err := c.cfg.CompanyRUT(company)
	if err != nil {
		return nil, &FetchError{Company: string(company), Err: err}
	}

	token, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	body, err := c.download(ctx, token, company, rut)
	if err != nil {
		return nil, err
	}

	employees, err := Decode(body)
	if err != nil {
		return nil, &FetchError{Company: string(company), Err: err}
	}

	return &Payload{
		Company:   company,
		FetchedAt: c.now().UTC(),
		Body:      body,
		Employees: employees,
	}, nil
}

// Decode parses an employee list response body.
func Decode(body []byte) ([]Employee, error) {
	var resp employeeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode employee list: %w", err)
	}
	return resp.Result, nil
}

func (c *Client) authenticate(ctx context.Context) (string, error) {
	reqBody, err := json.Marshal(authRequest{User: c.cfg.User, Password: c.cfg.Password})
	if err != nil {
		return "", &AuthError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(authPath), bytes.NewReader(reqBody))
	if err != nil {
		return "", &AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &AuthError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &AuthError{StatusCode: resp.StatusCode}
	}

	var out authResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&out); err != nil {
		return "", &AuthError{Err: fmt.Errorf("failed to decode token: %w", err)}
	}
	if out.Token == "" {
		return "", &AuthError{Err: fmt.Errorf("empty token")}
	}
	return out.Token, nil
}

func (c *Client) download(ctx context.Context, token string, company models.Company, rut string) ([]byte, error) {
	reqBody, err := json.Marshal(employeeRequest{CompanyRUT: rut, Movements: "S"})
	if err != nil {
		return nil, &FetchError{Company: string(company), Err: err}
	}

	// The API expects the filter as a JSON body even on GET.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(employeePath), bytes.NewReader(reqBody))
	if err != nil {
		return nil, &FetchError{Company: string(company), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Company: string(company), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Company: string(company), StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{Company: string(company), Err: err}
	}
	return body, nil
}

func (c *Client) endpoint(path string) string {
	base := c.cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + path
}
