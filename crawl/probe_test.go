package crawl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProber_HeadSucceeds(t *testing.T) {
	var methods []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}))
	defer server.Close()

	p := NewProber(5*time.Second, nil)
	ct := p.ContentType(context.Background(), server.URL)

	assert.Equal(t, "text/html; charset=utf-8", ct)
	assert.Equal(t, []string{http.MethodHead}, methods, "GET fallback not needed")
}

func TestProber_FallsBackToRangedGet(t *testing.T) {
	var sawRange string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		sawRange = r.Header.Get("Range")
		w.Header().Set("Content-Type", "application/pdf")
		w.WriteHeader(http.StatusPartialContent)
		w.Write([]byte("%PDF-"))
	}))
	defer server.Close()

	p := NewProber(5*time.Second, nil)
	ct := p.ContentType(context.Background(), server.URL)

	assert.Equal(t, "application/pdf", ct)
	assert.Equal(t, "bytes=0-1023", sawRange)
}

func TestProber_BothAttemptsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	p := NewProber(5*time.Second, nil)
	assert.Empty(t, p.ContentType(context.Background(), server.URL))
}

func TestProber_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	p := NewProber(time.Second, nil)
	assert.Empty(t, p.ContentType(context.Background(), url))
}
