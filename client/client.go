// Package client is a Go client for the Mercari Mini API. The session token
// lives on the Client value and is sent on every authenticated request; there
// is no process-wide session state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"mercari_mini_back_end_go/models"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	token string
	user  models.PublicUser
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: http.DefaultClient,
	}
}

// APIError is a non-2xx response decoded into the server's message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type session struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// Register creates an account and starts a session with the returned token.
func (c *Client) Register(ctx context.Context, name, email, password string) (models.PublicUser, error) {
	var s session
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &s)
	if err != nil {
		return models.PublicUser{}, err
	}
	c.token = s.Token
	c.user = s.User
	return s.User, nil
}

// Login authenticates and stores the session token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (models.PublicUser, error) {
	var s session
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &s)
	if err != nil {
		return models.PublicUser{}, err
	}
	c.token = s.Token
	c.user = s.User
	return s.User, nil
}

// Logout drops the session token.
func (c *Client) Logout() {
	c.token = ""
	c.user = models.PublicUser{}
}

// LoggedIn reports whether the client holds a session token.
func (c *Client) LoggedIn() bool {
	return c.token != ""
}

// User returns the summary stored at login time.
func (c *Client) User() models.PublicUser {
	return c.user
}

func (c *Client) ListItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := c.do(ctx, http.MethodGet, "/api/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MyItems returns the items listed by the logged-in user.
func (c *Client) MyItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := c.do(ctx, http.MethodGet, "/api/items/me", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) GetItem(ctx context.Context, id string) (models.Item, error) {
	var item models.Item
	if err := c.do(ctx, http.MethodGet, "/api/items/"+id, nil, &item); err != nil {
		return models.Item{}, err
	}
	return item, nil
}

func (c *Client) CreateItem(ctx context.Context, req models.CreateItemRequest) (models.Item, error) {
	var item models.Item
	if err := c.do(ctx, http.MethodPost, "/api/items", req, &item); err != nil {
		return models.Item{}, err
	}
	return item, nil
}

func (c *Client) UpdateItem(ctx context.Context, id string, patch models.UpdateItemRequest) (models.Item, error) {
	var item models.Item
	if err := c.do(ctx, http.MethodPut, "/api/items/"+id, patch, &item); err != nil {
		return models.Item{}, err
	}
	return item, nil
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/items/"+id, nil, nil)
}

// Buy marks an item sold and refetches it, mirroring the detail-page flow.
func (c *Client) Buy(ctx context.Context, id string) (models.Item, error) {
	sold := true
	if _, err := c.UpdateItem(ctx, id, models.UpdateItemRequest{Sold: &sold}); err != nil {
		return models.Item{}, err
	}
	return c.GetItem(ctx, id)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: "Unexpected error"}
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Message != "" {
			apiErr.Message = payload.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
