// Package client is the API-client collaborator for the PickleMatch
// HTTP API: it wraps the JSON endpoints, attaches the bearer token to
// authenticated calls, and surfaces server error envelopes as typed
// errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrUnauthorized = errors.New("unauthorized")

// APIError carries the status and `{"error": ...}` message of a failed
// request. 401s also match ErrUnauthorized via errors.Is, so callers
// can force a local sign-out without string matching.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

type User struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Avatar      *string `json:"avatar"`
	DateOfBirth *string `json:"date_of_birth"`
	Location    string  `json:"location"`
	PlayerRank  string  `json:"player_rank"`
	Elo         int     `json:"elo"`
	Description string  `json:"description"`
}

type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

type SignUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// ProfileUpdate is a partial update; nil fields are omitted from the
// request and left untouched by the server.
type ProfileUpdate struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Location    *string `json:"location,omitempty"`
	PlayerRank  *string `json:"player_rank,omitempty"`
	Elo         *int    `json:"elo,omitempty"`
	Description *string `json:"description,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
	store   TokenStore
}

func New(baseURL string, store TokenStore) *Client {
	if store == nil {
		store = &MemoryTokenStore{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
	}
}

func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	if err := c.store.SetToken(resp.Token); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/signin", body, &resp); err != nil {
		return nil, err
	}
	if err := c.store.SetToken(resp.Token); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SignOut revokes the session server-side and clears the stored token
// either way, so a failed network call never leaves the client
// half-signed-in.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if clearErr := c.store.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	return c.userCall(ctx, http.MethodGet, "/api/auth/me", nil)
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	return c.userCall(ctx, http.MethodGet, "/api/profile", nil)
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	return c.userCall(ctx, http.MethodPut, "/api/profile", update)
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next}
	return c.doJSON(ctx, http.MethodPut, "/api/profile/password", body, nil)
}

// UploadAvatar posts the image at path as a multipart form and returns
// the user with the new avatar reference.
func (c *Client) UploadAvatar(ctx context.Context, path string) (*User, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := createImagePart(w, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/profile/avatar", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resp struct {
		User *User `json:"user"`
	}
	if err := c.send(req, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) DeleteAvatar(ctx context.Context) (*User, error) {
	return c.userCall(ctx, http.MethodDelete, "/api/profile/avatar", nil)
}

func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/api/health", nil, nil)
}

func (c *Client) userCall(ctx context.Context, method, path string, body interface{}) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	if err := c.doJSON(ctx, method, path, body, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	token, err := c.store.Token()
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// createImagePart builds the `avatar` form part with a real image
// content type; CreateFormFile would label it application/octet-stream
// and the server would refuse it.
func createImagePart(w *multipart.Writer, filename string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="avatar"; filename=%q`, filename))
	ct := mime.TypeByExtension(filepath.Ext(filename))
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	return w.CreatePart(h)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
		apiErr.Message = envelope.Error
	} else {
		apiErr.Message = resp.Status
	}
	return apiErr
}
