package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/auctionhouse/internal/adapter/lock"
	"github.com/polkiloo/auctionhouse/internal/config"
	"github.com/polkiloo/auctionhouse/internal/pkg/clock"
	testhelpers "github.com/polkiloo/auctionhouse/internal/test"
	"github.com/polkiloo/auctionhouse/internal/worker"
)

func newTestScheduler(facade worker.SettlementFacade) *worker.SettlementScheduler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return worker.NewSettlementScheduler(facade, lock.NewLocalLocker(nil), clock.System{}, time.Hour, time.Second, time.Minute, 1, logger)
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
}

func TestNewSettlementSchedulerUsesConfig(t *testing.T) {
	scheduler := newSettlementScheduler(workerParams{
		Locker: lock.NewLocalLocker(nil),
		Clock:  clock.System{},
		Config: &config.Config{SettlementPollInterval: 15 * time.Second, SettlementRetryDelay: time.Second, LockTTL: time.Minute, WorkerPoolSize: 4},
		Logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
	if scheduler == nil {
		t.Fatal("expected settlement scheduler instance")
	}
	if scheduler.Pending() != 0 {
		t.Fatalf("expected empty queue, got %d", scheduler.Pending())
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	settlements := &testhelpers.SettlementFacadeStub{}
	scheduler := newTestScheduler(settlements)
	cfg := &config.Config{ShutdownTimeout: 100 * time.Millisecond}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     logger,
		Server:     server,
		Scheduler:  scheduler,
		Config:     cfg,
	})

	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(recorder.Hooks))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := recorder.Start(ctx); err != nil {
		t.Fatalf("on start failed: %v", err)
	}
	cancel()

	scheduler.ScheduleSettlement(1, time.Now())
	deadline := time.After(time.Second)
	for len(settlements.Settled()) == 0 {
		select {
		case <-deadline:
			t.Fatal("expected scheduler to run after start")
		case <-time.After(5 * time.Millisecond):
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = recorder.Stop(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}
	if shutdowner.Calls() != 0 {
		t.Fatalf("clean start must not request shutdown, got %d calls", shutdowner.Calls())
	}
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	server := &http.Server{Addr: "bad addr"}
	scheduler := newTestScheduler(&testhelpers.SettlementFacadeStub{})

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     logger,
		Server:     server,
		Scheduler:  scheduler,
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	if err := recorder.Start(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}

	_ = recorder.Stop(context.Background())
}

func TestLifecycleRecorderOrder(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	var order []string
	for _, name := range []string{"storage", "scheduler"} {
		recorder.Append(fx.Hook{
			OnStart: func(context.Context) error { order = append(order, "start "+name); return nil },
			OnStop:  func(context.Context) error { order = append(order, "stop "+name); return nil },
		})
	}
	recorder.Append(fx.Hook{})

	if err := recorder.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := recorder.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	want := []string{"start storage", "start scheduler", "stop scheduler", "stop storage"}
	if len(order) != len(want) {
		t.Fatalf("unexpected hook order %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("unexpected hook order %v", order)
		}
	}
}

func TestShutdownerStub(t *testing.T) {
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	if err := shutdowner.Shutdown(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case <-shutdowner.Called:
	default:
		t.Fatal("expected shutdown notification")
	}
	if shutdowner.Calls() != 1 {
		t.Fatalf("expected one call, got %d", shutdowner.Calls())
	}
}
