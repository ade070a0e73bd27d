package httpadapter

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusRecorderCapturesStatusAndSize(t *testing.T) {
	rec := httptest.NewRecorder()
	recorder := &statusRecorder{ResponseWriter: rec, statusCode: http.StatusOK}

	recorder.WriteHeader(http.StatusTeapot)
	if _, err := recorder.Write([]byte("short and stout")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if recorder.statusCode != http.StatusTeapot {
		t.Fatalf("statusCode = %d", recorder.statusCode)
	}
	if recorder.bytesWritten != len("short and stout") {
		t.Fatalf("bytesWritten = %d", recorder.bytesWritten)
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("underlying status = %d", rec.Code)
	}
}

func TestAccessLogMiddlewarePassesResponseThrough(t *testing.T) {
	handler := accessLogMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"nope"}`))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != `{"error":"nope"}` {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
