package service

import (
	"context"

	"github.com/anthanhphan/go-replication-core/internal/coordinator/config"
	"github.com/anthanhphan/go-replication-core/internal/coordinator/port"
	"github.com/anthanhphan/go-replication-core/pkg/idempotency"
	"github.com/anthanhphan/go-replication-core/pkg/idgen"
	"github.com/anthanhphan/go-replication-core/pkg/quorum"
	"github.com/anthanhphan/go-replication-core/pkg/replication"
	"github.com/anthanhphan/go-replication-core/pkg/shard"
)

// CoordinatorService is the facade that wires the use-case services for
// replicated writes, quorum reads, and transfer sagas.
type CoordinatorService struct {
	cfg         *config.Config
	ring        *shard.Ring
	store       port.NodeStore
	guard       idempotency.Guard[string]
	idGen       *idgen.Snowflake
	fanout      *replication.Fanout
	partitioner *shard.Partitioner
	accounts    *AccountStore

	policies   quorum.Composite[quorum.Majority, quorum.Majority]
	readLevel  quorum.Level
	writeLevel quorum.Level

	writeUseCase    *writeService
	transferUseCase *transferService
}

// Ensure CoordinatorService implements port.Coordinator.
var _ port.Coordinator = (*CoordinatorService)(nil)

// NewCoordinatorService builds the coordinator facade and all use-case
// services. The configured consistency levels are resolved here once; an
// unknown level name fails construction rather than the first request.
func NewCoordinatorService(cfg *config.Config, ring *shard.Ring, store port.NodeStore, guard idempotency.Guard[string], idGen *idgen.Snowflake, fanout *replication.Fanout) (*CoordinatorService, error) {
	readLevel, err := quorum.ParseLevel(cfg.App.ReadConsistency)
	if err != nil {
		return nil, err
	}
	writeLevel, err := quorum.ParseLevel(cfg.App.WriteConsistency)
	if err != nil {
		return nil, err
	}

	svc := &CoordinatorService{
		cfg:         cfg,
		ring:        ring,
		store:       store,
		guard:       guard,
		idGen:       idGen,
		fanout:      fanout,
		partitioner: shard.NewPartitioner(cfg.App.ShardCount),
		accounts:    NewAccountStore(nil),
		policies:    quorum.NewComposite[quorum.Majority, quorum.Majority](),
		readLevel:   readLevel,
		writeLevel:  writeLevel,
	}

	svc.writeUseCase = newWriteService(svc)
	svc.transferUseCase = newTransferService(svc)

	return svc, nil
}

// Accounts exposes the account store for seeding and inspection.
func (s *CoordinatorService) Accounts() *AccountStore {
	return s.accounts
}

// PutKey delegates to the write use-case service.
func (s *CoordinatorService) PutKey(ctx context.Context, key string, value []byte, opID string) (port.WriteReceipt, error) {
	return s.writeUseCase.putKey(ctx, key, value, opID)
}

// GetKey delegates to the write use-case service's read path.
func (s *CoordinatorService) GetKey(ctx context.Context, key string) ([]byte, error) {
	return s.writeUseCase.getKey(ctx, key)
}

// Transfer delegates to the transfer use-case service.
func (s *CoordinatorService) Transfer(ctx context.Context, moves []port.Move) error {
	return s.transferUseCase.transfer(ctx, moves)
}

// Balance returns an account balance, false when unknown.
func (s *CoordinatorService) Balance(account string) (int64, bool) {
	return s.accounts.Balance(account)
}

// Topology lists the ring's current membership.
func (s *CoordinatorService) Topology() []shard.Node {
	return s.ring.Nodes()
}

// replicationFactor returns the configured replica count, at least 1.
func (s *CoordinatorService) replicationFactor() int {
	if s.cfg.App.ReplicationFactor < 1 {
		return 1
	}
	return s.cfg.App.ReplicationFactor
}
