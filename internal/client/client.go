// Package client is a typed client for the chessd archive API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chessnav/internal/core"
)

// APIError is a non-2xx response from the server
type APIError struct {
	Status int
	Body   core.ErrorResponse
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%d %s: %s", e.Status, e.Body.Code, e.Body.Error)
	if e.Body.Details != "" {
		msg += " (" + e.Body.Details + ")"
	}
	return msg
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(u string) {
	c.BaseURL = strings.TrimRight(u, "/")
}

// do sends a request and returns the raw body of a successful response
func (c *Client) do(method, path string, body any) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(respBody, &apiErr.Body); err != nil || apiErr.Body.Code == "" {
			apiErr.Body = core.ErrorResponse{Error: strings.TrimSpace(string(respBody))}
		}
		return nil, apiErr
	}
	return respBody, nil
}

func (c *Client) doJSON(method, path string, body, result any) error {
	data, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) Health() (*core.HealthResponse, error) {
	var resp core.HealthResponse
	err := c.doJSON(http.MethodGet, "/health", nil, &resp)
	return &resp, err
}

// ListGames lists archived games, filtered by player when not empty
func (c *Client) ListGames(player string) (*core.GameListResponse, error) {
	path := "/api/v1/games"
	if player != "" {
		path += "?player=" + url.QueryEscape(player)
	}
	var resp core.GameListResponse
	err := c.doJSON(http.MethodGet, path, nil, &resp)
	return &resp, err
}

func (c *Client) GetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doJSON(http.MethodGet, "/api/v1/games/"+url.PathEscape(gameID), nil, &resp)
	return &resp, err
}

func (c *Client) ImportGame(req core.ImportGameRequest) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doJSON(http.MethodPost, "/api/v1/games", req, &resp)
	return &resp, err
}

// Position fetches the board of a game after ply half-moves
func (c *Client) Position(gameID string, ply int) (*core.PositionResponse, error) {
	var resp core.PositionResponse
	path := fmt.Sprintf("/api/v1/games/%s/positions/%d", url.PathEscape(gameID), ply)
	err := c.doJSON(http.MethodGet, path, nil, &resp)
	return &resp, err
}

func (c *Client) PGN(gameID string) (string, error) {
	data, err := c.do(http.MethodGet, "/api/v1/games/"+url.PathEscape(gameID)+"/pgn", nil)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
