package openai

import (
	"context"
	"net/http"
	"sync/atomic"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type callStatusKey struct{}

// callStatus captures the HTTP status of the request made for one Complete
// call, so error replies can be classified regardless of how the client
// library words its error.
type callStatus struct {
	code atomic.Int32
}

func (s *callStatus) Code() int {
	return int(s.code.Load())
}

func withCallStatus(ctx context.Context, s *callStatus) context.Context {
	return context.WithValue(ctx, callStatusKey{}, s)
}

// statusRecorder wraps a Doer and records response status codes into the
// callStatus carried by the request context.
type statusRecorder struct {
	next Doer
}

func (r *statusRecorder) Do(req *http.Request) (*http.Response, error) {
	resp, err := r.next.Do(req)
	if err == nil && resp != nil {
		if s, ok := req.Context().Value(callStatusKey{}).(*callStatus); ok {
			s.code.Store(int32(resp.StatusCode))
		}
	}
	return resp, err
}
