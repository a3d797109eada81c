package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey     = "sensor"
	serviceName      = "deskwatch.sensor.v1.SensorSource"
	jsonCodecName    = "json"
	methodGetMeta    = "/" + serviceName + "/GetMetadata"
	methodReadLine   = "/" + serviceName + "/ReadLine"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "DESKWATCH_SENSOR",
	MagicCookieValue: "deskwatch",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ReadLineResponse carries one raw sensor line. The call blocks plugin-side
// until a line is available.
type ReadLineResponse struct {
	Line string `json:"line"`
}

type SensorSourceServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	ReadLine(ctx context.Context, in *Empty) (*ReadLineResponse, error)
}

type SensorSourceClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	ReadLine(ctx context.Context) (*ReadLineResponse, error)
}

type sensorSourceClient struct {
	conn *grpc.ClientConn
}

func NewSensorSourceClient(conn *grpc.ClientConn) SensorSourceClient {
	return &sensorSourceClient{conn: conn}
}

func (c *sensorSourceClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMeta, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sensorSourceClient) ReadLine(ctx context.Context) (*ReadLineResponse, error) {
	out := &ReadLineResponse{}
	if err := c.conn.Invoke(ctx, methodReadLine, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterSensorSourceServer(server grpc.ServiceRegistrar, impl SensorSourceServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*SensorSourceServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMeta}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "ReadLine",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.ReadLine(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodReadLine}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.ReadLine(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/sensor-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl SensorSourceServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterSensorSourceServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewSensorSourceClient(conn), nil
}

func PluginMap(impl SensorSourceServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
