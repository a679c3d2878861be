package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/config"
)

type stubService struct {
	name     string
	startErr error
	block    bool
	stopped  atomic.Bool
}

func (s *stubService) Name() string { return s.name }

func (s *stubService) Start(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return nil
	}
	return s.startErr
}

func (s *stubService) Stop(context.Context) error {
	s.stopped.Store(true)
	return nil
}

func TestRunnerStopsAllServicesOnFailure(t *testing.T) {
	errBind := errors.New("bind failed")
	failing := &stubService{name: "http", startErr: errBind}
	blocking := &stubService{name: "worker", block: true}
	closed := false
	runner := NewRunner(failing, blocking)
	runner.onStop = func() { closed = true }

	err := runner.Run(context.Background(), time.Second, nil)
	if !errors.Is(err, errBind) || err.Error() != "http: bind failed" {
		t.Fatalf("expected start error, got %v", err)
	}
	if !failing.stopped.Load() || !blocking.stopped.Load() {
		t.Fatalf("all services should be stopped")
	}
	if !closed {
		t.Fatalf("onStop hook should run")
	}
}

func TestRunnerCanceledContextIsClean(t *testing.T) {
	blocking := &stubService{name: "http", block: true}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewRunner(blocking).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("canceled context should return nil, got %v", err)
	}
}

func TestBuildRunnerRejectsUnknownMode(t *testing.T) {
	if _, err := BuildRunner(nil, ModeAll); err == nil {
		t.Fatalf("expected error for nil config")
	}
	if _, err := BuildRunner(&config.Config{}, "cron"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestNewRunnerSkipsNilServices(t *testing.T) {
	if err := NewRunner(nil).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("runner with only nil services should fail")
	}
}

func TestHTTPServiceServesUntilCanceled(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	svc := NewHTTPService("127.0.0.1:0", handler)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewRunner(svc).Run(ctx, time.Second, nil) }()

	select {
	case <-svc.Ready():
	case <-time.After(5 * time.Second):
		t.Fatalf("http service did not start")
	}
	resp, err := http.Get("http://" + svc.Addr() + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "ok" {
		t.Fatalf("unexpected body: %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runner should exit cleanly, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("runner did not stop")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		raw     string
		want    Mode
		wantErr bool
	}{
		{raw: "", want: ModeAll},
		{raw: " API ", want: ModeAPI},
		{raw: "worker", want: ModeWorker},
		{raw: "cron", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.raw)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Fatalf("ParseMode(%q) = %q, %v", tt.raw, got, err)
		}
	}
	if !ModeAll.runsWorker(true) || ModeAll.runsWorker(false) || !ModeWorker.runsWorker(false) || ModeAPI.runsWorker(true) {
		t.Fatalf("unexpected worker selection")
	}
	if !ModeAPI.servesAPI() || ModeWorker.servesAPI() {
		t.Fatalf("unexpected api selection")
	}
}
