package out

import (
	"context"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"path/filepath"
	"time"

	trackerout "deskwatch/internal/modules/tracker/port/out"
)

// JSON-RPC over a unix socket connects short-lived CLI commands to the
// daemon that owns the current-session slot.

type JSONRPCServer struct{}

type JSONRPCClient struct{}

func NewJSONRPCServer() trackerout.IPCServer {
	return &JSONRPCServer{}
}

func NewJSONRPCClient() trackerout.IPCClient {
	return &JSONRPCClient{}
}

type rpcHandler struct {
	h trackerout.IPCHandler
}

type ElapsedResp struct {
	Working bool
	Seconds float64
}

type ToggleReq struct {
	Owner  string
	Action string
}

type Empty struct{}

func (s *rpcHandler) Elapsed(_ Empty, resp *ElapsedResp) error {
	working, seconds, err := s.h.Elapsed(context.Background())
	if err != nil {
		return err
	}
	resp.Working = working
	resp.Seconds = seconds
	return nil
}

func (s *rpcHandler) Toggle(req ToggleReq, _ *Empty) error {
	return s.h.Toggle(context.Background(), req.Owner, req.Action)
}

func (s *rpcHandler) Stop(_ Empty, _ *Empty) error {
	return s.h.Stop(context.Background())
}

func (s *JSONRPCServer) Serve(ctx context.Context, socketPath string, handler trackerout.IPCHandler) error {
	if err := os.MkdirAll(filepath.Dir(socketPath), 0o755); err != nil {
		return fmt.Errorf("create ipc dir: %w", err)
	}
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale ipc socket: %w", err)
	}
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen ipc socket: %w", err)
	}
	if err := os.Chmod(socketPath, 0o600); err != nil {
		_ = ln.Close()
		return fmt.Errorf("chmod ipc socket: %w", err)
	}
	defer ln.Close()

	rpcSrv := rpc.NewServer()
	if err := rpcSrv.RegisterName("Tracker", &rpcHandler{h: handler}); err != nil {
		return fmt.Errorf("register ipc handler: %w", err)
	}

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-stop:
		}
	}()
	defer close(stop)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return err
		}
		go rpcSrv.ServeCodec(jsonrpc.NewServerCodec(conn))
	}
}

func (c *JSONRPCClient) Elapsed(ctx context.Context, socketPath string) (bool, float64, error) {
	client, err := dialClient(ctx, socketPath)
	if err != nil {
		return false, 0, err
	}
	defer client.Close()
	resp := ElapsedResp{}
	if err := client.Call("Tracker.Elapsed", Empty{}, &resp); err != nil {
		return false, 0, err
	}
	return resp.Working, resp.Seconds, nil
}

func (c *JSONRPCClient) Toggle(ctx context.Context, socketPath, owner, action string) error {
	client, err := dialClient(ctx, socketPath)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Call("Tracker.Toggle", ToggleReq{Owner: owner, Action: action}, &Empty{})
}

func (c *JSONRPCClient) Stop(ctx context.Context, socketPath string) error {
	client, err := dialClient(ctx, socketPath)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Call("Tracker.Stop", Empty{}, &Empty{})
}

func dialClient(ctx context.Context, socketPath string) (*rpc.Client, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, err
	}
	_ = conn.SetDeadline(time.Now().Add(10 * time.Second))
	return rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn)), nil
}
