// Package recordsapi is the HTTP client for the upstream patient-records
// service. All persistence lives there; this package only shapes requests
// and decodes the service's somewhat loose response formats.
package recordsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/psisafety/clinic-portal/internal/domain/records"
)

// TokenProvider yields the bearer token for the current request context.
// An empty string means the call goes out unauthenticated.
type TokenProvider func(ctx context.Context) string

// APIError is a non-2xx reply from the records service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("records api: status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	http   *resty.Client
	token  TokenProvider
	logger zerolog.Logger
}

func New(baseURL string, timeout time.Duration, token TokenProvider, logger zerolog.Logger) *Client {
	c := &Client{
		token:  token,
		logger: logger.With().Str("component", "recordsapi").Logger(),
	}
	c.http = resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetHeader("Content-Type", "application/json").
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			// The upstream does not always label its replies, so decode
			// as JSON regardless of the Content-Type it sends back.
			req.ForceContentType("application/json")
			if tok := c.token(req.Context()); tok != "" {
				req.SetAuthToken(tok)
			}
			return nil
		})
	return c
}

func (c *Client) check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("records api: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn().
			Int("status", resp.StatusCode()).
			Str("url", resp.Request.URL).
			Msg("upstream error")
		return &APIError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}
	return nil
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the upstream auth reply. Only the token is used; the rest
// is passed back to the caller for display.
type LoginResult struct {
	Token     string `json:"token"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Login exchanges credentials for a bearer token. It goes out without the
// context token: the token provider has nothing to offer yet.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var out LoginResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(creds).
		SetResult(&out).
		Post("/Auth/login")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("records api: login reply carried no token")
	}
	return &out, nil
}

func (c *Client) ListPatients(ctx context.Context) ([]records.Patient, error) {
	var out []records.Patient
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/Patients")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPatient(ctx context.Context, id int64) (*records.Patient, error) {
	var out records.Patient
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/Patients/" + strconv.FormatInt(id, 10))
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePatient(ctx context.Context, p records.PatientPayload) (*records.Patient, error) {
	var out records.Patient
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(p).
		SetResult(&out).
		Post("/Patients")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePatient(ctx context.Context, id int64, p records.PatientPayload) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(p).
		Put("/Patients/" + strconv.FormatInt(id, 10))
	return c.check(resp, err)
}

func (c *Client) DeletePatient(ctx context.Context, id int64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/Patients/" + strconv.FormatInt(id, 10))
	return c.check(resp, err)
}

// arrayOrObject tolerates endpoints that answer with a bare object, an
// array, or a null where a list is expected.
func arrayOrObject(raw []byte, dst interface{}) error {
	trimmed := json.RawMessage(raw)
	for len(trimmed) > 0 && (trimmed[0] == ' ' || trimmed[0] == '\n' || trimmed[0] == '\t' || trimmed[0] == '\r') {
		trimmed = trimmed[1:]
	}
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	if trimmed[0] == '[' {
		return json.Unmarshal(trimmed, dst)
	}
	// Single object: wrap it so it decodes into the slice.
	wrapped := append(append([]byte{'['}, trimmed...), ']')
	return json.Unmarshal(wrapped, dst)
}

func (c *Client) ListAddresses(ctx context.Context, patientID int64) ([]records.AddressRecord, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("patientId", strconv.FormatInt(patientID, 10)).
		Get("/Addresses")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	var out []records.AddressRecord
	if err := arrayOrObject(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("records api: decode addresses: %w", err)
	}
	return out, nil
}

func (c *Client) CreateAddress(ctx context.Context, p records.AddressPayload) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(p).
		Post("/Addresses")
	return c.check(resp, err)
}

func (c *Client) UpdateAddress(ctx context.Context, id int64, p records.AddressPayload) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(p).
		Put("/Addresses/" + strconv.FormatInt(id, 10))
	return c.check(resp, err)
}

// ListDetails fetches the health details for a patient. The upstream keeps a
// single resource for all three variants; the healthType field in each row
// says which one it is.
func (c *Client) ListDetails(ctx context.Context, patientID int64) ([]records.DetailPayload, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("patientId", strconv.FormatInt(patientID, 10)).
		Get("/PatientDetails")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	var out []records.DetailPayload
	if err := arrayOrObject(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("records api: decode details: %w", err)
	}
	return out, nil
}

func (c *Client) CreateDetail(ctx context.Context, d records.DetailSubmission) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(d).
		Post("/PatientDetails")
	return c.check(resp, err)
}

func (c *Client) UpdateDetail(ctx context.Context, id int64, d records.DetailSubmission) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(d).
		Put("/PatientDetails/" + strconv.FormatInt(id, 10))
	return c.check(resp, err)
}
