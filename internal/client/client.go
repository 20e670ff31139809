// Package client talks to a running rttrainer server over its REST and
// websocket API.
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

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/curbz/rt-trainer/internal/scenario"
	"github.com/curbz/rt-trainer/internal/state"
)

// Scenario is a server-side session.
type Scenario struct {
	ID    string      `json:"id"`
	Seed  uint32      `json:"seed"`
	State state.State `json:"state"`
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New returns a client for the server at baseURL, e.g. "http://127.0.0.1:8080".
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("error parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return &Client{baseURL: u, http: &http.Client{Timeout: 10 * time.Second}}, nil
}

func (c *Client) url(path string) string {
	return c.baseURL.String() + path
}

// Create starts a scenario on the server.
func (c *Client) Create(ctx context.Context, p scenario.Params) (Scenario, error) {
	var s Scenario
	err := c.do(ctx, http.MethodPost, "/api/v1/scenarios", p, http.StatusCreated, &s)
	return s, err
}

func (c *Client) Get(ctx context.Context, id string) (Scenario, error) {
	var s Scenario
	err := c.do(ctx, http.MethodGet, "/api/v1/scenarios/"+url.PathEscape(id), nil, http.StatusOK, &s)
	return s, err
}

// Transmit sends one transmission over REST.
func (c *Client) Transmit(ctx context.Context, id, message string) (scenario.Turn, error) {
	var t scenario.Turn
	body := map[string]string{"message": message}
	err := c.do(ctx, http.MethodPost, "/api/v1/scenarios/"+url.PathEscape(id)+"/transmissions", body, http.StatusOK, &t)
	return t, err
}

func (c *Client) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	fullURL := c.url(path)
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logrus.Debugf("Querying rttrainer api: %s %s", method, fullURL)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error performing HTTP %s to %s: %w", method, fullURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response body: %w", err)
	}
	return nil
}

// StatusError is a non-success reply from the server.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("received status code %d from rttrainer server: %s", e.Code, e.Body)
}

// Stream is a websocket connection to one scenario. It is not safe for
// concurrent use.
type Stream struct {
	conn *websocket.Conn
}

// Connect opens the websocket for scenario id.
func (c *Client) Connect(ctx context.Context, id string) (*Stream, error) {
	u := *c.baseURL
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path += "/ws/v1/scenarios/" + url.PathEscape(id)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, &StatusError{Code: resp.StatusCode, Body: err.Error()}
		}
		return nil, fmt.Errorf("could not connect to rttrainer websocket: %w", err)
	}
	return &Stream{conn: conn}, nil
}

// Send transmits one message and waits for its turn.
func (s *Stream) Send(message string) (scenario.Turn, error) {
	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
		return scenario.Turn{}, fmt.Errorf("error writing message: %w", err)
	}
	_, b, err := s.conn.ReadMessage()
	if err != nil {
		return scenario.Turn{}, fmt.Errorf("error reading turn: %w", err)
	}

	var probe struct {
		Error json.RawMessage `json:"error"`
		State json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return scenario.Turn{}, fmt.Errorf("error decoding turn: %w", err)
	}
	if probe.State == nil {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(b, &e)
		return scenario.Turn{}, fmt.Errorf("server error: %s", e.Error)
	}

	var t scenario.Turn
	if err := json.Unmarshal(b, &t); err != nil {
		return scenario.Turn{}, fmt.Errorf("error decoding turn: %w", err)
	}
	return t, nil
}

// Close sends a normal close frame and closes the connection.
func (s *Stream) Close() error {
	_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return s.conn.Close()
}
