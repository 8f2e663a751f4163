// Package e2etest drives a running server over its JSON API the same way a
// browser client would.
package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tkoskim/breachpoint/internal/errors"
	"github.com/tkoskim/breachpoint/internal/models"
)

type Client struct {
	client *http.Client
	url    string
}

func NewClient(url string) *Client {
	return &Client{
		client: &http.Client{},
		url:    url,
	}
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			c.url+urlPath,
			nil,
		); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = c.client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// Do sends a request with an optional JSON body and returns the response without
// inspecting the status code.
func (c *Client) Do(ctx context.Context, method, urlPath string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshal body")
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, reader)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}

// doJSON sends a request and decodes a 2xx response into out. Non-2xx responses
// become errors carrying the server's message.
func (c *Client) doJSON(ctx context.Context, method, urlPath string, body, out any) error {
	resp, err := c.Do(ctx, method, urlPath, body)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var serverMessage struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&serverMessage)
		return errors.New("unexpected status code",
			slog.Int("status", resp.StatusCode),
			slog.String("message", serverMessage.Message))
	}
	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

type RegisteredUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Register creates a user account and returns its id.
func (c *Client) Register(ctx context.Context, username, password string) (*RegisteredUser, error) {
	var user RegisteredUser
	body := map[string]string{"username": username, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/users", body, &user); err != nil {
		return nil, errors.Wrap(err, "register user")
	}
	return &user, nil
}

func (c *Client) Suspects(ctx context.Context) ([]models.Suspect, error) {
	var suspects []models.Suspect
	if err := c.doJSON(ctx, http.MethodGet, "/api/suspects", nil, &suspects); err != nil {
		return nil, errors.Wrap(err, "list suspects")
	}
	return suspects, nil
}

func (c *Client) Evidence(ctx context.Context) ([]models.EvidenceItem, error) {
	var evidence []models.EvidenceItem
	if err := c.doJSON(ctx, http.MethodGet, "/api/evidence", nil, &evidence); err != nil {
		return nil, errors.Wrap(err, "list evidence")
	}
	return evidence, nil
}

func (c *Client) Decisions(ctx context.Context) ([]models.Decision, error) {
	var decisions []models.Decision
	if err := c.doJSON(ctx, http.MethodGet, "/api/decisions", nil, &decisions); err != nil {
		return nil, errors.Wrap(err, "list decisions")
	}
	return decisions, nil
}

type ChoiceOutcome struct {
	Success      bool                `json:"success"`
	UserProgress models.UserProgress `json:"userProgress"`
	Outcome      string              `json:"outcome"`
}

// Choose records a decision option for the user and returns the updated progress.
func (c *Client) Choose(ctx context.Context, decisionID, userID int64, optionID string) (*ChoiceOutcome, error) {
	var outcome ChoiceOutcome
	body := map[string]any{"userId": userID, "optionId": optionID}
	urlPath := "/api/decisions/" + itoa(decisionID) + "/choose"
	if err := c.doJSON(ctx, http.MethodPost, urlPath, body, &outcome); err != nil {
		return nil, errors.Wrap(err, "choose option")
	}
	return &outcome, nil
}

func (c *Client) Progress(ctx context.Context, userID int64) (*models.UserProgress, error) {
	var progress models.UserProgress
	if err := c.doJSON(ctx, http.MethodGet, "/api/progress/"+itoa(userID), nil, &progress); err != nil {
		return nil, errors.Wrap(err, "get progress")
	}
	return &progress, nil
}

// UpdateProgress applies a partial progress update. fields uses the wire names,
// e.g. {"timeRemaining": 1000}.
func (c *Client) UpdateProgress(ctx context.Context, userID int64, fields map[string]any) (*models.UserProgress, error) {
	var progress models.UserProgress
	if err := c.doJSON(ctx, http.MethodPut, "/api/progress/"+itoa(userID), fields, &progress); err != nil {
		return nil, errors.Wrap(err, "update progress")
	}
	return &progress, nil
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
