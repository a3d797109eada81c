package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	sensorrpc "deskwatch/internal/modules/sensor/adapter/out/rpc"
	sensorout "deskwatch/internal/modules/sensor/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const pluginStartTimeout = 3 * time.Second

// PluginSource treats an out-of-process sensor plugin as a line source.
// Unlike a command-style plugin host it keeps one connection alive for the
// life of the source, since reads are a continuous stream.
type PluginSource struct {
	mu     sync.Mutex
	binary string
	log    hclog.Logger

	client *plugin.Client
	rpc    sensorrpc.SensorSourceClient
}

func NewPluginSource(binary string, log hclog.Logger) sensorout.LineSource {
	return &PluginSource{binary: binary, log: log}
}

func (s *PluginSource) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rpc != nil {
		return nil
	}
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  sensorrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          sensorrpc.PluginMap(nil),
		Cmd:              exec.Command(s.binary),
		Managed:          true,
		StartTimeout:     pluginStartTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return fmt.Errorf("start sensor plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(sensorrpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return fmt.Errorf("dispense sensor plugin: %w", err)
	}
	typed, ok := raw.(sensorrpc.SensorSourceClient)
	if !ok {
		client.Kill()
		return fmt.Errorf("sensor plugin rpc client type mismatch")
	}
	meta, err := typed.GetMetadata(ctx)
	if err != nil {
		client.Kill()
		return fmt.Errorf("sensor plugin metadata: %w", err)
	}
	s.log.Info("sensor plugin open", "name", meta.Name, "version", meta.Version)
	s.client = client
	s.rpc = typed
	return nil
}

func (s *PluginSource) ReadLine(ctx context.Context) (string, error) {
	s.mu.Lock()
	rpcClient := s.rpc
	s.mu.Unlock()
	if rpcClient == nil {
		return "", fmt.Errorf("sensor plugin is not open")
	}
	// No call deadline: the plugin blocks until it has a line, mirroring a
	// blocking device read.
	resp, err := rpcClient.ReadLine(ctx)
	if err != nil {
		return "", fmt.Errorf("plugin read line: %w", err)
	}
	return resp.Line, nil
}

func (s *PluginSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.Kill()
		s.client = nil
		s.rpc = nil
	}
	return nil
}
