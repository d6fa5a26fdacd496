package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	grpcHandler "github.com/anthanhphan/go-replication-core/internal/coordinator/adapter/inbound/grpc"
	httpHandler "github.com/anthanhphan/go-replication-core/internal/coordinator/adapter/inbound/http"
	"github.com/anthanhphan/go-replication-core/internal/coordinator/adapter/outbound/healthprobe"
	"github.com/anthanhphan/go-replication-core/internal/coordinator/adapter/outbound/localstore"
	"github.com/anthanhphan/go-replication-core/internal/coordinator/config"
	"github.com/anthanhphan/go-replication-core/internal/coordinator/service"
	"github.com/anthanhphan/go-replication-core/pkg/gossip"
	"github.com/anthanhphan/go-replication-core/pkg/idempotency"
	"github.com/anthanhphan/go-replication-core/pkg/idgen"
	"github.com/anthanhphan/go-replication-core/pkg/replication"
	"github.com/anthanhphan/go-replication-core/pkg/resilience"
	"github.com/anthanhphan/go-replication-core/pkg/shard"
	"github.com/anthanhphan/gosdk/logger"
	"github.com/redis/go-redis/v9"
)

const (
	probeInterval = 10 * time.Second
	probeTimeout  = 2 * time.Second
)

type App struct {
	cfg       *config.Config
	server    *httpHandler.Server
	healthSrv *grpcHandler.HealthServer
	gossip    *gossip.Adapter
	prober    *healthprobe.Prober
	pool      *resilience.WorkerPool
}

func New(configPath string) (*App, error) {
	// 1. Load Config
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Initialize Logger
	logger.InitLogger(&cfg.Logger)

	// 3. Idempotency guard and Snowflake clock. With Redis configured both
	// survive restarts and are shared between coordinators; without it the
	// process falls back to in-memory equivalents.
	var guard idempotency.Guard[string]
	var clock idgen.Clock
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		guard = idempotency.NewRedisGuard(redisClient, time.Duration(cfg.App.IdempotencyTTLMS)*time.Millisecond)
		clock = idgen.NewRedisClock(redisClient)
	} else {
		guard = idempotency.NewMemoryGuard[string]()
	}

	idGen, err := idgen.New(cfg.App.NodeID, clock)
	if err != nil {
		return nil, fmt.Errorf("failed to init snowflake: %w", err)
	}

	// 4. Placement ring and gossip membership
	vnodes := cfg.App.VNodesPerNode
	if vnodes <= 0 {
		vnodes = shard.DefaultVNodesPerNode
	}
	ring := shard.NewRing(vnodes)

	// Gossip advertises the gRPC health port so peers' probers reach a
	// registered health service, not the HTTP listener. Binding before
	// gossip starts pins the advertised port.
	healthSrv, err := grpcHandler.NewHealthServer(cfg.Server.HealthAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind health endpoint %q: %w", cfg.Server.HealthAddr, err)
	}
	healthPort, err := portOf(healthSrv.Addr())
	if err != nil {
		return nil, fmt.Errorf("invalid health addr %q: %w", healthSrv.Addr(), err)
	}
	gossipAdapter, err := gossip.NewAdapter(
		fmt.Sprintf("coordinator-%d", cfg.App.NodeID),
		cfg.Gossip.BindAddr, cfg.Gossip.BindPort, healthPort, ring)
	if err != nil {
		return nil, fmt.Errorf("failed to start gossip: %w", err)
	}

	// 5. Fan-out executor over a bounded worker pool
	workers := cfg.App.ParallelWrites
	if workers <= 0 {
		workers = 4
	}
	pool := resilience.NewWorkerPool(workers, workers*2)
	fanout := replication.NewFanout(pool, time.Duration(cfg.App.WriteTimeoutMS)*time.Millisecond)

	// 6. Adapters & Services
	store := localstore.New()
	svc, err := service.NewCoordinatorService(cfg, ring, store, guard, idGen, fanout)
	if err != nil {
		return nil, fmt.Errorf("failed to build coordinator: %w", err)
	}
	for name, balance := range cfg.App.SeedAccounts {
		svc.Accounts().SetBalance(name, balance)
	}

	prober := healthprobe.NewProber(ring, probeInterval, probeTimeout, nil)

	// 7. HTTP Server
	httpServer := httpHandler.NewServer(cfg, svc)

	return &App{
		cfg:       cfg,
		server:    httpServer,
		healthSrv: healthSrv,
		gossip:    gossipAdapter,
		prober:    prober,
		pool:      pool,
	}, nil
}

func (a *App) Run() error {
	healthErrCh := make(chan error, 1)
	go func() {
		if err := a.healthSrv.Serve(); err != nil {
			healthErrCh <- err
		}
	}()

	if err := a.gossip.Join(a.cfg.Gossip.Seeds); err != nil {
		return fmt.Errorf("cluster join failed: %w", err)
	}

	go a.prober.Start(context.Background())

	logger.Infow("Coordinator starting", "addr", a.cfg.Server.Addr)
	serverErrCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			serverErrCh <- err
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case sig := <-stop:
		logger.Infow("Shutdown signal received", "signal", sig.String())
	case err := <-serverErrCh:
		runErr = fmt.Errorf("http server failed: %w", err)
		logger.Errorw("Coordinator server exited unexpectedly", "error", err.Error())
	case err := <-healthErrCh:
		runErr = fmt.Errorf("health server failed: %w", err)
		logger.Errorw("Health endpoint exited unexpectedly", "error", err.Error())
	}

	logger.Info("Shutting down coordinator")
	a.healthSrv.SetServing(false)
	a.prober.Stop()
	if err := a.gossip.Leave(); err != nil {
		logger.Warnw("Gossip leave failed", "error", err.Error())
	}
	a.pool.Close()
	a.healthSrv.Stop()
	if err := a.server.Stop(context.Background()); err != nil {
		logger.Errorw("Coordinator shutdown error", "error", err.Error())
		if runErr == nil {
			runErr = err
		}
	}

	return runErr
}

func portOf(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(portStr)
}
