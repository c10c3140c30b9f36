package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nanoklima/airq/internal/logging"
	"github.com/nanoklima/airq/internal/protocol"
)

const (
	// DefaultTimeout is the default HTTP request timeout. Hitting it
	// usually means the device and the host are not on the same network.
	DefaultTimeout = 15 * time.Second

	// formContentType is what the device expects for config posts
	formContentType = "application/x-www-form-urlencoded"
)

// supportedSubjects are the routes known to return an encrypted envelope
var supportedSubjects = map[string]bool{
	"config":  true,
	"log":     true,
	"data":    true,
	"average": true,
	"ping":    true,
	"blink":   true,
}

// Client talks to a single air-Q device. The password is folded into the
// derived key at construction; the client itself never retains it.
type Client struct {
	// Address is the device's IP address or mDNS name. An IP is often
	// the more robust option across router setups.
	Address string

	// BaseURL is the HTTP anchor all routes hang off
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	key protocol.Key
	log *zap.Logger
}

// New creates a client for the device at address using the given
// password.
func New(address, password string) *Client {
	return &Client{
		Address:    address,
		BaseURL:    "http://" + address,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		key:        protocol.DeriveKey(password),
		log:        logging.GetLogger(),
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// Key exposes the derived key, for callers that need to feed it to the
// protocol layer directly (the simulator does in tests).
func (c *Client) Key() protocol.Key {
	return c.key
}

// getBody performs a GET and returns the raw response body
func (c *Client) getBody(ctx context.Context, subject string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/"+subject, nil)
	if err != nil {
		return nil, &DeviceError{Type: ErrTypeUsage, Subject: subject, Err: err}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logging.LogRequest(c.Address, http.MethodGet, subject, 0, err)
		return nil, &DeviceError{Type: ErrTypeNetwork, Subject: subject, Err: err}
	}
	defer resp.Body.Close()

	logging.LogRequest(c.Address, http.MethodGet, subject, resp.StatusCode, nil)

	if resp.StatusCode != http.StatusOK {
		return nil, &DeviceError{
			Type:    ErrTypeHTTP,
			Subject: subject,
			Err:     fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &DeviceError{Type: ErrTypeNetwork, Subject: subject, Err: err}
	}
	return body, nil
}

// getDecoded performs a GET and decodes the encrypted envelope
func (c *Client) getDecoded(ctx context.Context, subject string) (json.RawMessage, error) {
	body, err := c.getBody(ctx, subject)
	if err != nil {
		return nil, err
	}

	inner, err := protocol.DecodeResponse(body, c.key)
	if err != nil {
		logging.LogDecodeFailure(c.Address, subject, err)
		return nil, classifyDecodeError(subject, err)
	}
	return inner, nil
}

// postDecoded encrypts payload, posts it as the request form field, and
// decodes the encrypted response
func (c *Client) postDecoded(ctx context.Context, subject string, payload interface{}) (json.RawMessage, error) {
	form, err := protocol.EncodeRequest(payload, c.key)
	if err != nil {
		return nil, &DeviceError{Type: ErrTypeUsage, Subject: subject, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/"+subject, strings.NewReader(form))
	if err != nil {
		return nil, &DeviceError{Type: ErrTypeUsage, Subject: subject, Err: err}
	}
	req.Header.Set("Content-Type", formContentType)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logging.LogRequest(c.Address, http.MethodPost, subject, 0, err)
		return nil, &DeviceError{Type: ErrTypeNetwork, Subject: subject, Err: err}
	}
	defer resp.Body.Close()

	logging.LogRequest(c.Address, http.MethodPost, subject, resp.StatusCode, nil)

	if resp.StatusCode != http.StatusOK {
		return nil, &DeviceError{
			Type:    ErrTypeHTTP,
			Subject: subject,
			Err:     fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &DeviceError{Type: ErrTypeNetwork, Subject: subject, Err: err}
	}

	inner, err := protocol.DecodeResponse(body, c.key)
	if err != nil {
		logging.LogDecodeFailure(c.Address, subject, err)
		return nil, classifyDecodeError(subject, err)
	}
	return inner, nil
}

// postConfig sends one configuration change and logs the device's reply,
// which is a human-readable success or error string
func (c *Client) postConfig(ctx context.Context, payload interface{}) error {
	inner, err := c.postDecoded(ctx, "config", payload)
	if err != nil {
		return err
	}

	var reply string
	if err := json.Unmarshal(inner, &reply); err == nil {
		c.log.Debug("Device config reply",
			zap.String("device", c.Address),
			zap.String("reply", reply),
		)
	}
	return nil
}
