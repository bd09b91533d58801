package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// ApiMock is a stub HTTP server for third-party APIs. Responses are keyed by
// method and path; a "*" path segment matches any value.
type ApiMock struct {
	mu        sync.Mutex
	server    *httptest.Server
	responses map[string]map[int]stubResponse
	defaults  map[string]stubResponse
	requests  map[string][]ReceivedRequest
}

type stubResponse struct {
	status int
	body   any
}

// ReceivedRequest is a request the mock served.
type ReceivedRequest struct {
	Path    string
	Query   map[string]string
	Headers map[string]string
	Body    map[string]any
}

func NewApiServer() *ApiMock {
	return &ApiMock{
		responses: map[string]map[int]stubResponse{},
		defaults:  map[string]stubResponse{},
		requests:  map[string][]ReceivedRequest{},
	}
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.serve))
}

func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *ApiMock) GetUrl() string {
	return a.server.URL
}

// SetResponse stubs the index-th call to method and path. An index of -1
// sets the response for every call without a specific stub.
func (a *ApiMock) SetResponse(index int, method, path string, status int, response any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + " " + path
	stub := stubResponse{status: status, body: response}
	if index == -1 {
		a.defaults[key] = stub
		return
	}
	if a.responses[key] == nil {
		a.responses[key] = map[int]stubResponse{}
	}
	a.responses[key][index] = stub
}

// Requests returns the calls received for method and path pattern.
func (a *ApiMock) Requests(method, path string) []ReceivedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := a.matchKey(a.requestKeys(), method, path)
	return append([]ReceivedRequest(nil), a.requests[key]...)
}

// Reset drops every stub and recorded request.
func (a *ApiMock) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses = map[string]map[int]stubResponse{}
	a.defaults = map[string]stubResponse{}
	a.requests = map[string][]ReceivedRequest{}
}

func (a *ApiMock) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	received := ReceivedRequest{
		Path:    r.URL.Path,
		Query:   map[string]string{},
		Headers: map[string]string{},
		Body:    map[string]any{},
	}
	_ = json.Unmarshal(body, &received.Body)
	for key, value := range r.URL.Query() {
		received.Query[key] = value[0]
	}
	for key, value := range r.Header {
		received.Headers[key] = value[0]
	}

	a.mu.Lock()
	stubKeys := make([]string, 0, len(a.responses)+len(a.defaults))
	for key := range a.responses {
		stubKeys = append(stubKeys, key)
	}
	for key := range a.defaults {
		stubKeys = append(stubKeys, key)
	}
	key := a.matchKey(stubKeys, r.Method, r.URL.Path)
	if key == "" {
		key = r.Method + " " + r.URL.Path
	}
	index := len(a.requests[key])
	a.requests[key] = append(a.requests[key], received)

	stub, ok := a.responses[key][index]
	if !ok {
		stub, ok = a.defaults[key]
	}
	a.mu.Unlock()

	if !ok {
		stub = stubResponse{status: http.StatusNotFound, body: map[string]any{"error": "no stub"}}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(stub.status)
	_ = json.NewEncoder(w).Encode(stub.body)
}

func (a *ApiMock) requestKeys() []string {
	keys := make([]string, 0, len(a.requests))
	for key := range a.requests {
		keys = append(keys, key)
	}
	return keys
}

func (a *ApiMock) matchKey(keys []string, method, path string) string {
	exact := method + " " + path
	for _, key := range keys {
		if key == exact {
			return key
		}
	}
	for _, key := range keys {
		keyMethod, keyPath, _ := strings.Cut(key, " ")
		if keyMethod == method && matchPath(keyPath, path) {
			return key
		}
	}
	return ""
}

func matchPath(pattern, path string) bool {
	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(path, "/")
	if len(patternParts) != len(pathParts) {
		return false
	}
	for i := range patternParts {
		if patternParts[i] != "*" && pathParts[i] != "*" && patternParts[i] != pathParts[i] {
			return false
		}
	}
	return true
}
