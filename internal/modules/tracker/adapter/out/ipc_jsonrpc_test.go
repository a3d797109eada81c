package out_test

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	trackerout "deskwatch/internal/modules/tracker/adapter/out"
)

type fakeIPCHandler struct {
	mu      sync.Mutex
	working bool
	seconds float64
	toggles []string
	stops   int
	err     error
}

func (f *fakeIPCHandler) Elapsed(context.Context) (bool, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.working, f.seconds, f.err
}

func (f *fakeIPCHandler) Toggle(_ context.Context, owner, action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.toggles = append(f.toggles, owner+":"+action)
	return nil
}

func (f *fakeIPCHandler) Stop(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return nil
}

func (f *fakeIPCHandler) snapshot() ([]string, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.toggles...), f.stops
}

func serveIPC(t *testing.T, handler *fakeIPCHandler) string {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "watch.sock")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- trackerout.NewJSONRPCServer().Serve(ctx, socketPath, handler)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("serve: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("server did not shut down")
		}
	})
	waitForSocket(t, socketPath)
	return socketPath
}

func waitForSocket(t *testing.T, socketPath string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if conn, err := net.Dial("unix", socketPath); err == nil {
			_ = conn.Close()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("ipc socket never came up")
}

func TestIPCRoundtrip(t *testing.T) {
	t.Parallel()
	handler := &fakeIPCHandler{working: true, seconds: 90}
	socketPath := serveIPC(t, handler)
	client := trackerout.NewJSONRPCClient()
	ctx := context.Background()

	working, seconds, err := client.Elapsed(ctx, socketPath)
	if err != nil {
		t.Fatalf("elapsed: %v", err)
	}
	if !working || seconds != 90 {
		t.Fatalf("elapsed = (%v, %v), want (true, 90)", working, seconds)
	}

	if err := client.Toggle(ctx, socketPath, "alice", "start"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := client.Stop(ctx, socketPath); err != nil {
		t.Fatalf("stop: %v", err)
	}

	toggles, stops := handler.snapshot()
	if len(toggles) != 1 || toggles[0] != "alice:start" {
		t.Fatalf("toggles = %v", toggles)
	}
	if stops != 1 {
		t.Fatalf("stops = %d, want 1", stops)
	}
}

func TestIPCPropagatesHandlerError(t *testing.T) {
	t.Parallel()
	handler := &fakeIPCHandler{err: errors.New("no open session")}
	socketPath := serveIPC(t, handler)
	client := trackerout.NewJSONRPCClient()

	err := client.Toggle(context.Background(), socketPath, "alice", "stop")
	if err == nil || !strings.Contains(err.Error(), "no open session") {
		t.Fatalf("toggle error = %v, want handler message", err)
	}
}

func TestIPCDialFailsFast(t *testing.T) {
	t.Parallel()
	client := trackerout.NewJSONRPCClient()
	socketPath := filepath.Join(t.TempDir(), "missing.sock")
	if _, _, err := client.Elapsed(context.Background(), socketPath); err == nil {
		t.Fatal("dialing a missing socket must fail")
	}
}

func TestIPCServerReplacesStaleSocket(t *testing.T) {
	t.Parallel()
	handler := &fakeIPCHandler{}
	socketPath := filepath.Join(t.TempDir(), "watch.sock")

	// First server run leaves a socket file behind only if it crashes; simulate
	// by serving, cancelling, then serving again on the same path.
	for i := 0; i < 2; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- trackerout.NewJSONRPCServer().Serve(ctx, socketPath, handler)
		}()
		waitForSocket(t, socketPath)
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("serve run %d: %v", i, err)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("serve run %d did not stop", i)
		}
	}
}
