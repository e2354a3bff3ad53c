// Package teamsnaptest provides an in-process fake of the TeamSnap API for
// tests.
package teamsnaptest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/teamsnap-tools/teamsnap/pkg/collection"
)

// Version is the API version reported by Root.
const Version = "3.867.0"

type route struct {
	status int
	body   []byte
}

// Server answers requests routed by method and path with canned
// Collection+JSON documents. Unknown routes get a 404.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]route
	requests []string
}

// NewServer starts a Server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{routes: map[string]route{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	req := r.Method + " " + r.URL.Path
	if r.URL.RawQuery != "" {
		req += "?" + r.URL.RawQuery
	}
	s.requests = append(s.requests, req)
	rt, ok := s.routes[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.collection+json")
	w.WriteHeader(rt.status)
	_, _ = w.Write(rt.body)
}

// Handle answers method and path with resp.
func (s *Server) Handle(method, path string, resp *collection.Response) {
	body, err := json.Marshal(resp)
	if err != nil {
		panic(err)
	}
	s.HandleStatus(method, path, http.StatusOK, string(body))
}

// HandleStatus answers method and path with a raw status and body.
func (s *Server) HandleStatus(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = route{status: status, body: []byte(body)}
}

// Requests returns "METHOD /path?query" for every request received.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Items builds a response whose items carry the given attributes. Fields are
// emitted in key order.
func Items(items ...map[string]any) *collection.Response {
	c := &collection.Collection{Version: Version}
	for _, attrs := range items {
		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		item := collection.Item{}
		for _, k := range keys {
			item.Data = append(item.Data, collection.Field{Name: k, Value: attrs[k]})
		}
		c.Items = append(c.Items, item)
	}
	return &collection.Response{Collection: c}
}

// Root builds an API root response advertising links.
func Root(version string, links ...collection.Link) *collection.Response {
	return &collection.Response{Collection: &collection.Collection{
		Version: version,
		Links:   links,
	}}
}
