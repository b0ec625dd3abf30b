package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestMiddleware_AssignsRequestID(t *testing.T) {
	logger := NewMockHandlerLogger()

	var seen string
	h := NewRequestMiddleware(logger).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetRequestIDFromContext(r)
		if !ok || id == "" {
			t.Fatalf("expected request id in context")
		}
		seen = id
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
	if got := rr.Header().Get("X-Request-ID"); got == "" || got != seen {
		t.Fatalf("expected response header to carry request id %q, got %q", seen, got)
	}
	if len(seen) != 36 {
		t.Fatalf("expected uuid request id, got %q", seen)
	}

	msgs := logger.Messages()
	if len(msgs) != 1 || msgs[0] != "INFO: Request completed" {
		t.Fatalf("unexpected log messages: %v", msgs)
	}
}

func TestRequestMiddleware_KeepsIncomingRequestID(t *testing.T) {
	h := NewRequestMiddleware(NewMockHandlerLogger()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := GetRequestIDFromContext(r)
		if id != "trace-123" {
			t.Fatalf("expected incoming request id, got %q", id)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Header().Get("X-Request-ID") != "trace-123" {
		t.Fatalf("expected request id to be echoed, got %q", rr.Header().Get("X-Request-ID"))
	}
}

func TestRequestMiddleware_RecoversPanic(t *testing.T) {
	logger := NewMockHandlerLogger()
	h := NewRequestMiddleware(logger).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodPost, "/convert", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"error":"internal_error"`) {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}

	found := false
	for _, msg := range logger.Messages() {
		if strings.HasPrefix(msg, "ERROR: Recovered from panic") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected panic to be logged, got %v", logger.Messages())
	}
}

func TestRequestMiddleware_PanicAfterHeadersKeepsStatus(t *testing.T) {
	h := NewRequestMiddleware(NewMockHandlerLogger()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("partial"))
		panic("late")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if rr.Body.String() != "partial" {
		t.Fatalf("unexpected body: %q", rr.Body.String())
	}
}
