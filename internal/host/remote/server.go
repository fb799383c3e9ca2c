package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/atomicstack/scene-popup-control/internal/host"
	"github.com/atomicstack/scene-popup-control/internal/logging"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Server publishes a ready host.Provider to remote clients.
type Server struct {
	provider host.Provider
	upgrader websocket.Upgrader
}

// NewServer wraps provider. The provider must already be ready.
func NewServer(provider host.Provider) *Server {
	return &Server{
		provider: provider,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Routes returns the HTTP handler: /ws speaks the protocol, /healthz answers ok.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/ws", s.serveWS)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)
	return r
}

// session is one client connection with its own scene handle table.
type session struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu     sync.Mutex
	scenes map[string]host.Scene
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error(fmt.Errorf("upgrade: %w", err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess := &session{conn: conn, scenes: make(map[string]host.Scene)}
	var wg sync.WaitGroup
	for {
		var req request
		if err := conn.ReadJSON(&req); err != nil {
			cancel()
			wg.Wait()
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess.reply(s.handle(ctx, sess, req))
		}()
	}
}

func (sess *session) reply(resp response) {
	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()
	if err := sess.conn.WriteJSON(resp); err != nil {
		logging.Error(fmt.Errorf("write response %s: %w", resp.ID, err))
	}
}

func (s *Server) handle(ctx context.Context, sess *session, req request) response {
	result, err := s.dispatch(ctx, sess, req)
	resp := response{ID: req.ID}
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	if result != nil {
		data, err := json.Marshal(result)
		if err != nil {
			resp.Error = err.Error()
			return resp
		}
		resp.Result = data
	}
	return resp
}

func (s *Server) dispatch(ctx context.Context, sess *session, req request) (interface{}, error) {
	switch req.Method {
	case MethodReady:
		return nil, nil
	case MethodSceneCount:
		return s.provider.SceneCount(ctx)
	case MethodSceneGet:
		var p indexParams
		if err := decodeParams(req, &p); err != nil {
			return nil, err
		}
		scene, err := s.provider.SceneByIndex(ctx, p.Index)
		if err != nil {
			return nil, err
		}
		id := uuid.NewString()
		sess.mu.Lock()
		sess.scenes[id] = scene
		sess.mu.Unlock()
		return sceneRef{ID: id}, nil
	case MethodSceneName:
		scene, err := sess.lookup(req)
		if err != nil {
			return nil, err
		}
		return scene.Name(ctx)
	case MethodSceneSources:
		scene, err := sess.lookup(req)
		if err != nil {
			return nil, err
		}
		return scene.Sources(ctx)
	case MethodSceneActivate:
		scene, err := sess.lookup(req)
		if err != nil {
			return nil, err
		}
		return nil, s.provider.SetActiveScene(ctx, scene)
	default:
		return nil, fmt.Errorf("unknown method %q", req.Method)
	}
}

func (sess *session) lookup(req request) (host.Scene, error) {
	var p sceneParams
	if err := decodeParams(req, &p); err != nil {
		return nil, err
	}
	sess.mu.Lock()
	scene, ok := sess.scenes[p.ID]
	sess.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: id %q", host.ErrSceneNotFound, p.ID)
	}
	return scene, nil
}

func decodeParams(req request, out interface{}) error {
	if len(req.Params) == 0 {
		return fmt.Errorf("%s: missing params", req.Method)
	}
	if err := json.Unmarshal(req.Params, out); err != nil {
		return fmt.Errorf("%s: bad params: %w", req.Method, err)
	}
	return nil
}
