// Package client talks to the GameHub HTTP API. After Register or Login the
// client keeps the session token and sends it as a bearer token on every
// later request.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vaughan-dsouza/gamehub/internal/models"
)

// DefaultTimeout matches the Timeout a caller gets from New with a nil
// http.Client.
const DefaultTimeout = 15 * time.Second

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gamehub: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("gamehub: %d %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Session struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type Me struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Client struct {
	base string
	http *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), http: hc}
}

// Token returns the current session token, or "" before a login.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken installs a token obtained elsewhere.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ===== Auth =====

func (c *Client) Register(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/api/auth/register", email, password)
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/api/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var s Session
	if err := c.do(ctx, http.MethodPost, path, body, &s); err != nil {
		return nil, err
	}
	c.SetToken(s.Token)
	return &s, nil
}

func (c *Client) Me(ctx context.Context) (*Me, error) {
	var me Me
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// ===== Games =====

func (c *Client) ListGames(ctx context.Context, search string) ([]models.Game, error) {
	games := []models.Game{}
	if err := c.do(ctx, http.MethodGet, listPath("/api/games", search), nil, &games); err != nil {
		return nil, err
	}
	return games, nil
}

func (c *Client) GetGame(ctx context.Context, id int64) (*models.Game, error) {
	var g models.Game
	if err := c.do(ctx, http.MethodGet, itemPath("/api/games", id), nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) AddGame(ctx context.Context, name string, genre *string, releaseYear *int) (*models.Game, error) {
	in := models.Game{Name: name, Genre: genre, ReleaseYear: releaseYear}
	var out models.Game
	if err := c.do(ctx, http.MethodPost, "/api/games", gameBody(in), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateGame(ctx context.Context, g models.Game) error {
	return c.do(ctx, http.MethodPut, itemPath("/api/games", g.ID), g, nil)
}

func (c *Client) DeleteGame(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath("/api/games", id), nil, nil)
}

// ===== Players =====

func (c *Client) ListPlayers(ctx context.Context, search string) ([]models.Player, error) {
	players := []models.Player{}
	if err := c.do(ctx, http.MethodGet, listPath("/api/players", search), nil, &players); err != nil {
		return nil, err
	}
	return players, nil
}

func (c *Client) GetPlayer(ctx context.Context, id int64) (*models.Player, error) {
	var p models.Player
	if err := c.do(ctx, http.MethodGet, itemPath("/api/players", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) AddPlayer(ctx context.Context, name string, email *string) (*models.Player, error) {
	body := map[string]any{"name": name}
	if email != nil {
		body["email"] = *email
	}
	var out models.Player
	if err := c.do(ctx, http.MethodPost, "/api/players", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePlayer(ctx context.Context, p models.Player) error {
	return c.do(ctx, http.MethodPut, itemPath("/api/players", p.ID), p, nil)
}

func (c *Client) DeletePlayer(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath("/api/players", id), nil, nil)
}

// ===== plumbing =====

// gameBody leaves id out of create requests.
func gameBody(g models.Game) map[string]any {
	body := map[string]any{"name": g.Name}
	if g.Genre != nil {
		body["genre"] = *g.Genre
	}
	if g.ReleaseYear != nil {
		body["releaseYear"] = *g.ReleaseYear
	}
	return body
}

func listPath(base, search string) string {
	if strings.TrimSpace(search) == "" {
		return base
	}
	return base + "?search=" + url.QueryEscape(search)
}

func itemPath(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("gamehub: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("gamehub: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gamehub: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("gamehub: decode response: %w", err)
		}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Error  string              `json:"error"`
		Errors map[string][]string `json:"errors"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload); err == nil {
		apiErr.Message = payload.Error
		apiErr.Fields = payload.Errors
	}
	return apiErr
}
