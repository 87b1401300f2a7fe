package render

import (
	"net/http"
	"sync"
)

// Call is one recorded Render invocation.
type Call struct {
	Page    string
	Status  int
	Context Context
}

// Recorder is a Renderer that keeps every call for inspection in tests.
// It writes the page name as the response body.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Render records the call and writes a minimal response.
func (r *Recorder) Render(w http.ResponseWriter, req *http.Request, status int, page string, data Context) error {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Page: page, Status: status, Context: data})
	r.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write([]byte(page))
	return err
}

// Last returns the most recent call, or a zero Call.
func (r *Recorder) Last() Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Call{}
	}
	return r.calls[len(r.calls)-1]
}

// Calls returns a copy of all recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Reset forgets recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}
