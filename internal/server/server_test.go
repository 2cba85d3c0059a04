package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/handler"
	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/logger"
	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/pkg/models"
)

type fakeParser struct {
	resp      handler.Response
	body      string
	requestID bool
}

func (f *fakeParser) Handle(ctx context.Context, body []byte) handler.Response {
	f.body = string(body)
	l := logger.FromContext(ctx, zerolog.Nop())
	f.requestID = l.GetLevel() != zerolog.Disabled
	return f.resp
}

type availability bool

func (a availability) Available() bool { return bool(a) }

func newTestServer(parser Parser, ocrUp bool) *Server {
	return New(Config{
		Addr:            ":0",
		MaxRequestBytes: 64,
		OCREngine:       "tesseract",
	}, parser, availability(ocrUp), zerolog.New(nil))
}

func TestHealth(t *testing.T) {
	s := newTestServer(&fakeParser{}, false)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("health body is not JSON: %v", err)
	}
	want := HealthResponse{Status: "ok", OCREngine: "tesseract", OCRAvailable: false}
	if got != want {
		t.Errorf("health = %+v, want %+v", got, want)
	}
}

func TestParseRoutes(t *testing.T) {
	for _, path := range []string{"/", "/parse"} {
		t.Run(path, func(t *testing.T) {
			parser := &fakeParser{resp: handler.Response{
				StatusCode: http.StatusBadRequest,
				Body:       []byte(`{"error":"Missing pdf_base64 in input data"}`),
			}}
			s := newTestServer(parser, true)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
			s.Handler().ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			if rec.Body.String() != string(parser.resp.Body) {
				t.Errorf("body = %s, want %s", rec.Body.String(), parser.resp.Body)
			}
			if parser.body != `{}` {
				t.Errorf("parser received %q, want %q", parser.body, `{}`)
			}
			if !parser.requestID {
				t.Errorf("request context carries no logger")
			}
		})
	}
}

func TestParseBodyTooLarge(t *testing.T) {
	parser := &fakeParser{}
	s := newTestServer(parser, true)

	rec := httptest.NewRecorder()
	body := `{"pdf_base64":"` + strings.Repeat("A", 128) + `"}`
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	var got models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if got.Error != MsgBodyTooLarge {
		t.Errorf("error = %q, want %q", got.Error, MsgBodyTooLarge)
	}
	if parser.body != "" {
		t.Errorf("parser ran on an oversized body")
	}
}

func TestRequestID(t *testing.T) {
	s := newTestServer(&fakeParser{}, true)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Errorf("missing generated %s header", RequestIDHeader)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "req-123" {
		t.Errorf("%s = %q, want %q", RequestIDHeader, got, "req-123")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(&fakeParser{}, true)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/parse", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

// brokenWriter accepts headers but fails every body write.
type brokenWriter struct {
	header http.Header
	status int
}

func (w *brokenWriter) Header() http.Header {
	if w.header == nil {
		w.header = http.Header{}
	}
	return w.header
}

func (w *brokenWriter) WriteHeader(status int) { w.status = status }

func (w *brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestParseWriteFailureIsLogged(t *testing.T) {
	var logs bytes.Buffer
	parser := &fakeParser{resp: handler.Response{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"status":"success","extracted_text":"x","ocr_results":[]}`),
	}}
	s := New(Config{MaxRequestBytes: 1024, OCREngine: "tesseract"}, parser, availability(true), zerolog.New(&logs))

	w := &brokenWriter{}
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(`{}`))
	req.Header.Set(RequestIDHeader, "req-broken")
	s.Handler().ServeHTTP(w, req)

	if w.status != http.StatusOK {
		t.Errorf("status = %d, want 200", w.status)
	}
	var failure string
	for _, line := range strings.Split(logs.String(), "\n") {
		if strings.Contains(line, "Failed to write response") {
			failure = line
		}
	}
	if failure == "" {
		t.Fatalf("logs = %s, want write failure entry", logs.String())
	}
	if !strings.Contains(failure, `"request_id":"req-broken"`) || !strings.Contains(failure, "connection reset by peer") {
		t.Errorf("write failure entry = %s, want request id and cause", failure)
	}
}
