// Package healthprobe polls cluster members over the standard gRPC health
// service and feeds the results into the placement ring, so routing skips
// nodes that stopped serving even while gossip still lists them.
package healthprobe

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthv1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/anthanhphan/go-replication-core/pkg/shard"
	"github.com/anthanhphan/gosdk/logger"
)

// checker is the slice of the health client the prober needs.
type checker interface {
	Check(ctx context.Context, in *healthv1.HealthCheckRequest, opts ...grpc.CallOption) (*healthv1.HealthCheckResponse, error)
}

// ClientFactory dials a member and returns its health client plus a closer.
type ClientFactory func(addr string) (checker, func() error, error)

type Prober struct {
	ring     *shard.Ring
	interval time.Duration
	timeout  time.Duration
	factory  ClientFactory
	stop     chan struct{}

	mu      sync.Mutex
	clients map[string]checker
	closers map[string]func() error
}

// NewProber creates a prober over the given ring. A nil factory dials
// plaintext gRPC connections.
func NewProber(ring *shard.Ring, interval, timeout time.Duration, factory ClientFactory) *Prober {
	if factory == nil {
		factory = grpcFactory
	}
	return &Prober{
		ring:     ring,
		interval: interval,
		timeout:  timeout,
		factory:  factory,
		stop:     make(chan struct{}),
		clients:  make(map[string]checker),
		closers:  make(map[string]func() error),
	}
}

func grpcFactory(addr string) (checker, func() error, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, err
	}
	return healthv1.NewHealthClient(conn), conn.Close, nil
}

// Start probes all members on the configured interval until the context is
// cancelled or Stop is called.
func (p *Prober) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.ProbeAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
			p.ProbeAll(ctx)
		}
	}
}

// Stop ends the probe loop and closes all connections.
func (p *Prober) Stop() {
	close(p.stop)
	p.mu.Lock()
	defer p.mu.Unlock()
	for addr, closeFn := range p.closers {
		if err := closeFn(); err != nil {
			logger.Warnw("Health connection close failed", "addr", addr, "error", err.Error())
		}
	}
	p.clients = make(map[string]checker)
	p.closers = make(map[string]func() error)
}

// ProbeAll checks every ring member once and updates its status. Members
// that already left are not probed.
func (p *Prober) ProbeAll(ctx context.Context) {
	for _, node := range p.ring.Nodes() {
		if node.Status == shard.NodeStatusLeft || node.Addr == "" {
			continue
		}

		serving := p.probe(ctx, node.Addr)
		status := shard.NodeStatusHealthy
		if !serving {
			status = shard.NodeStatusUnhealthy
		}
		if status != node.Status {
			logger.Infow("Member health changed",
				"node_id", node.ID, "addr", node.Addr, "status", string(status))
			p.ring.SetNodeStatus(node.ID, status)
		}
	}
}

func (p *Prober) probe(ctx context.Context, addr string) bool {
	client, err := p.client(addr)
	if err != nil {
		logger.Warnw("Health dial failed", "addr", addr, "error", err.Error())
		return false
	}

	checkCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := client.Check(checkCtx, &healthv1.HealthCheckRequest{})
	if err != nil {
		return false
	}
	return resp.GetStatus() == healthv1.HealthCheckResponse_SERVING
}

func (p *Prober) client(addr string) (checker, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok := p.clients[addr]; ok {
		return client, nil
	}
	client, closeFn, err := p.factory(addr)
	if err != nil {
		return nil, err
	}
	p.clients[addr] = client
	p.closers[addr] = closeFn
	return client, nil
}
