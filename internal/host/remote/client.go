package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/atomicstack/scene-popup-control/internal/host"
	"github.com/atomicstack/scene-popup-control/internal/logging/events"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is a host.Provider talking to a remote scene host. One connection is
// shared by all calls; a single reader goroutine routes responses by id.
type Client struct {
	url    string
	dialer *websocket.Dialer

	mu      sync.Mutex
	conn    *websocket.Conn
	pending map[string]chan response
	done    chan struct{}
	readErr error

	writeMu sync.Mutex
}

// NewClient returns a client for the host at url (ws:// or wss://).
func NewClient(url string) *Client {
	return &Client{url: url, dialer: websocket.DefaultDialer}
}

// Scene is a handle to a scene on the remote host.
type Scene struct {
	client *Client
	id     string
	index  int
}

// ID returns the host-assigned scene identifier.
func (s *Scene) ID() string { return s.id }

func (s *Scene) Name(ctx context.Context) (string, error) {
	var name string
	if err := s.client.call(ctx, MethodSceneName, sceneParams{ID: s.id}, &name); err != nil {
		return "", err
	}
	return name, nil
}

func (s *Scene) Sources(ctx context.Context) ([]host.Source, error) {
	var sources []host.Source
	if err := s.client.call(ctx, MethodSceneSources, sceneParams{ID: s.id}, &sources); err != nil {
		return nil, err
	}
	if sources == nil {
		sources = []host.Source{}
	}
	return sources, nil
}

func (c *Client) Ready(ctx context.Context, opts host.ReadyOptions) error {
	if opts.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.DialTimeout)
		defer cancel()
	}
	header := http.Header{}
	for k, v := range opts.Headers {
		header.Set(k, v)
	}
	conn, _, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		events.Host.ReadyFailed("remote", err)
		return fmt.Errorf("dial %s: %w", c.url, err)
	}
	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn = conn
	c.pending = make(map[string]chan response)
	c.done = make(chan struct{})
	c.readErr = nil
	done := c.done
	c.mu.Unlock()
	go c.readLoop(conn, done)

	if err := c.call(ctx, MethodReady, struct{}{}, nil); err != nil {
		events.Host.ReadyFailed("remote", err)
		_ = c.Close()
		return err
	}
	events.Host.Ready("remote")
	return nil
}

func (c *Client) SceneCount(ctx context.Context) (int, error) {
	var raw json.RawMessage
	if err := c.call(ctx, MethodSceneCount, nil, &raw); err != nil {
		return 0, err
	}
	var count *int
	if err := json.Unmarshal(raw, &count); err != nil || count == nil {
		return 0, fmt.Errorf("%w: %q", host.ErrMalformedCount, string(raw))
	}
	return *count, nil
}

func (c *Client) SceneByIndex(ctx context.Context, index int) (host.Scene, error) {
	var ref sceneRef
	if err := c.call(ctx, MethodSceneGet, indexParams{Index: index}, &ref); err != nil {
		return nil, err
	}
	if ref.ID == "" {
		return nil, fmt.Errorf("%w: index %d", host.ErrSceneNotFound, index)
	}
	return &Scene{client: c, id: ref.ID, index: index}, nil
}

func (c *Client) SetActiveScene(ctx context.Context, scene host.Scene) error {
	s, ok := scene.(*Scene)
	if !ok || s.client != c {
		return host.ErrForeignScene
	}
	return c.call(ctx, MethodSceneActivate, sceneParams{ID: s.id}, nil)
}

func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	c.writeMu.Lock()
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	return conn.Close()
}

func (c *Client) call(ctx context.Context, method string, params interface{}, out interface{}) error {
	req := request{ID: uuid.NewString(), Method: method}
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("encode %s params: %w", method, err)
		}
		req.Params = data
	}

	ch := make(chan response, 1)
	c.mu.Lock()
	conn, done := c.conn, c.done
	if conn == nil {
		c.mu.Unlock()
		return host.ErrNotReady
	}
	c.pending[req.ID] = ch
	c.mu.Unlock()
	defer c.forget(req.ID)

	events.Host.Request(method, req.ID)
	c.writeMu.Lock()
	err := conn.WriteJSON(req)
	c.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("send %s: %w", method, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return c.closedErr()
	case resp := <-ch:
		if resp.Error != "" {
			err := &CallError{Method: method, Message: resp.Error}
			events.Host.Response(method, req.ID, err)
			return err
		}
		events.Host.Response(method, req.ID, nil)
		if out == nil {
			return nil
		}
		if raw, ok := out.(*json.RawMessage); ok {
			*raw = resp.Result
			return nil
		}
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
		return nil
	}
}

func (c *Client) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) readLoop(conn *websocket.Conn, done chan struct{}) {
	for {
		var resp response
		if err := conn.ReadJSON(&resp); err != nil {
			c.mu.Lock()
			c.readErr = err
			c.mu.Unlock()
			close(done)
			events.Host.Disconnected(err)
			return
		}
		c.mu.Lock()
		ch := c.pending[resp.ID]
		delete(c.pending, resp.ID)
		c.mu.Unlock()
		if ch != nil {
			ch <- resp
		}
	}
}

func (c *Client) closedErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return fmt.Errorf("%w: %v", ErrClosed, c.readErr)
	}
	return ErrClosed
}
