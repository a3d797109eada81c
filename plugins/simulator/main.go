// Command simulator is a sensor source plugin that emits synthetic
// occupancy transitions, for developing without hardware attached.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	sensorrpc "deskwatch/internal/modules/sensor/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

type server struct {
	mu      sync.Mutex
	present bool
	next    time.Time
	rng     *rand.Rand
}

func newServer() *server {
	return &server{
		next: time.Now().Add(2 * time.Second),
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *server) GetMetadata(_ context.Context, _ *sensorrpc.Empty) (*sensorrpc.Metadata, error) {
	return &sensorrpc.Metadata{Name: "simulator", Version: "1.0.0"}, nil
}

// ReadLine blocks until the next scheduled transition, emitting an
// occasional heartbeat the host is expected to discard.
func (s *server) ReadLine(ctx context.Context, _ *sensorrpc.Empty) (*sensorrpc.ReadLineResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wait := time.Until(s.next)
	if wait > 10*time.Second {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(10 * time.Second):
		}
		return &sensorrpc.ReadLineResponse{Line: "STATUS:ok\n"}, nil
	}
	if wait > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	s.present = !s.present
	flag := 0
	dwell := time.Duration(15+s.rng.Intn(20)) * time.Second
	if s.present {
		flag = 1
		dwell = time.Duration(45+s.rng.Intn(60)) * time.Second
	}
	s.next = time.Now().Add(dwell)
	line := fmt.Sprintf("PRESENCE:%d,TIME:%d\n", flag, time.Now().Unix())
	return &sensorrpc.ReadLineResponse{Line: line}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: sensorrpc.HandshakeConfig,
		Plugins:         sensorrpc.PluginMap(newServer()),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
