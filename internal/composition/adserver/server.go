// Package adserver assembles the daemon service and its RPC surface from
// configuration.
package adserver

import (
	"adgate/go-client/internal/adapters/rpc"
	"adgate/go-client/internal/bootstrap/adconfig"
	"adgate/go-client/internal/composition/adservice"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Runtime bundles the server with the service whose lifecycle it owns.
type Runtime struct {
	Server  *rpc.Server
	Service *adservice.Service
}

// NewRPCServer loads configuration, builds the daemon service, and wraps it
// in the HTTP/JSON-RPC server. rpcAddr, when non-empty, overrides the
// configured listen address.
func NewRPCServer(rpcAddr, configPath string) (*Runtime, error) {
	cfg := adconfig.LoadFromPath(configPath)
	if rpcAddr != "" {
		cfg.RPCAddr = rpcAddr
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc, err := adservice.Build(cfg, registry)
	if err != nil {
		return nil, err
	}
	srv := rpc.NewServer(cfg, svc, svc.Metrics(), registry, svc.Logger())
	return &Runtime{Server: srv, Service: svc}, nil
}

// Close releases the service's resources after the server has stopped.
func (r *Runtime) Close() error {
	return r.Service.Close()
}
