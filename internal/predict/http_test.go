package predict

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abhisek/lungchat/internal/interview"
)

func submission() interview.Submission {
	rec := interview.NewAnswerRecord([]string{"GENDER", "AGE", "SMOKING_STATUS"})
	rec.Set("GENDER", interview.IntValue(1))
	rec.Set("AGE", interview.IntValue(61))
	rec.Set("SMOKING_STATUS", interview.StringValue("2"))
	return interview.Submission{
		SessionID: "sess-1",
		Record:    rec,
		Answers: []interview.RawAnswer{
			{Key: "GENDER", Label: "Gen:", Raw: "Male"},
			{Key: "AGE", Label: "Vârsta:", Raw: "61"},
			{Key: "SMOKING_STATUS", Label: "Fumezi?", Raw: "Yes"},
		},
	}
}

func newServer(t *testing.T, h http.HandlerFunc) *HTTPPredictor {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.Endpoint = srv.URL + "/predict"
	p, err := NewHTTPPredictor(cfg)
	if err != nil {
		t.Fatalf("new predictor: %v", err)
	}
	return p
}

func TestHTTPPredictor_PostsRecord(t *testing.T) {
	var (
		method, path, ctype string
		body                []byte
	)
	p := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		method, path, ctype = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"prediction":"YES","probability":0.91}`)
	})

	label, err := p.Predict(context.Background(), submission())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if label != "YES" {
		t.Fatalf("label = %q, want YES", label)
	}
	if method != http.MethodPost || path != "/predict" || ctype != "application/json" {
		t.Fatalf("request = %s %s (%s)", method, path, ctype)
	}
	if want := `{"GENDER":1,"AGE":61,"SMOKING_STATUS":"2"}`; string(body) != want {
		t.Fatalf("body = %s, want %s", body, want)
	}
}

func TestHTTPPredictor_LabelPassedThrough(t *testing.T) {
	p := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"prediction":"yes"}`)
	})
	label, err := p.Predict(context.Background(), submission())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if label != "yes" {
		t.Fatalf("label = %q, want verbatim yes", label)
	}
}

func TestHTTPPredictor_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"server error", http.StatusInternalServerError, `oops`, func(t *testing.T, err error) {
			var s *ErrStatus
			if !errors.As(err, &s) || s.StatusCode != 500 || s.Body != "oops" {
				t.Fatalf("err = %T %v", err, err)
			}
			if !Retryable(err) {
				t.Fatal("5xx should be retryable")
			}
		}},
		{"bad request", http.StatusBadRequest, ``, func(t *testing.T, err error) {
			var s *ErrStatus
			if !errors.As(err, &s) || s.StatusCode != 400 {
				t.Fatalf("err = %T %v", err, err)
			}
			if Retryable(err) {
				t.Fatal("4xx should not be retryable")
			}
		}},
		{"not json", http.StatusOK, `<html>`, func(t *testing.T, err error) {
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("err = %T %v", err, err)
			}
		}},
		{"missing field", http.StatusOK, `{"result":"YES"}`, func(t *testing.T, err error) {
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("err = %T %v", err, err)
			}
		}},
		{"wrong type", http.StatusOK, `{"prediction":1}`, func(t *testing.T, err error) {
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("err = %T %v", err, err)
			}
			if Retryable(err) {
				t.Fatal("invalid response should not be retryable")
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			_, err := p.Predict(context.Background(), submission())
			if err == nil {
				t.Fatal("expected error")
			}
			tt.check(t, err)
		})
	}
}

func TestHTTPPredictor_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfg := DefaultConfig()
	cfg.Endpoint = url
	p, err := NewHTTPPredictor(cfg)
	if err != nil {
		t.Fatalf("new predictor: %v", err)
	}
	_, err = p.Predict(context.Background(), submission())
	var u *ErrUnavailable
	if !errors.As(err, &u) {
		t.Fatalf("err = %T %v, want ErrUnavailable", err, err)
	}
	if !Retryable(err) {
		t.Fatal("transport failure should be retryable")
	}
}

func TestHTTPPredictor_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	cfg := DefaultConfig()
	cfg.Endpoint = srv.URL
	cfg.Timeout = 20 * time.Millisecond
	p, err := NewHTTPPredictor(cfg)
	if err != nil {
		t.Fatalf("new predictor: %v", err)
	}

	_, err = p.Predict(context.Background(), submission())
	var u *ErrUnavailable
	if !errors.As(err, &u) {
		t.Fatalf("err = %T %v, want ErrUnavailable", err, err)
	}
}

func TestHTTPPredictor_Cancelled(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	p := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case started <- struct{}{}:
		default:
		}
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	// Registered after newServer so it runs before srv.Close.
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()
	_, err := p.Predict(ctx, submission())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled in chain", err)
	}
	if Retryable(err) {
		t.Fatal("cancellation should not be retryable")
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("requests = %d, want 1", n)
	}
}
