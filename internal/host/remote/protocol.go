// Package remote speaks the scene host protocol over a WebSocket. Client is a
// host.Provider for a remote host; Server exposes any local host.Provider to
// remote panels.
//
// Every message is a JSON object. Requests carry an id, a method and optional
// params; the response echoes the id with either a result or an error string.
// Responses may arrive in any order.
package remote

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	MethodReady         = "ready"
	MethodSceneCount    = "scene.count"
	MethodSceneGet      = "scene.get"
	MethodSceneName     = "scene.name"
	MethodSceneSources  = "scene.sources"
	MethodSceneActivate = "scene.activate"
)

// ErrClosed is returned for calls made on, or pending when, the connection closes.
var ErrClosed = errors.New("remote host connection closed")

type request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type response struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type indexParams struct {
	Index int `json:"index"`
}

type sceneParams struct {
	ID string `json:"id"`
}

type sceneRef struct {
	ID string `json:"id"`
}

// CallError is an error reported by the remote host for one call.
type CallError struct {
	Method  string
	Message string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("remote %s: %s", e.Method, e.Message)
}
