package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/anthanhphan/go-replication-core/internal/coordinator/port"
	"github.com/anthanhphan/go-replication-core/pkg/disterrors"
	"github.com/anthanhphan/go-replication-core/pkg/shard"
	"github.com/anthanhphan/gosdk/logger"
)

// writeService coordinates replicated writes and quorum reads over the
// placement ring.
type writeService struct {
	core *CoordinatorService
}

// newWriteService creates the write use-case service.
func newWriteService(core *CoordinatorService) *writeService {
	return &writeService{core: core}
}

// putKey replicates one key write across the ring's replica set. An opID the
// guard has already seen returns a replayed receipt without touching any
// node; a fresh opID is recorded only after the write quorum is met, so a
// failed attempt stays retryable under the same identifier.
func (s *writeService) putKey(ctx context.Context, key string, value []byte, opID string) (port.WriteReceipt, error) {
	if opID == "" {
		id, err := s.core.idGen.Next()
		if err != nil {
			return port.WriteReceipt{}, disterrors.Configurationf("operation id generation: %v", err)
		}
		opID = strconv.FormatInt(id, 10)
	}

	receipt := port.WriteReceipt{
		Key:   key,
		OpID:  opID,
		Shard: s.core.partitioner.ShardOf([]byte(key)),
	}

	if s.core.guard != nil && s.core.guard.Seen(opID) {
		receipt.Replayed = true
		logger.Infow("Write replayed", "key", key, "op_id", opID)
		return receipt, nil
	}

	replicas := s.core.ring.ReplicasFor([]byte(key), s.core.replicationFactor())
	if len(replicas) == 0 {
		return receipt, disterrors.Configurationf("placement ring has no nodes")
	}

	byID := make(map[string]shard.Node, len(replicas))
	for _, node := range replicas {
		byID[node.ID] = node
	}
	targets := shard.NodeIDs(replicas)
	need := s.core.policies.RequiredWrite(len(targets), s.core.writeLevel)

	res, err := s.core.fanout.Do(ctx, targets, need, func(ctx context.Context, target string) error {
		return s.core.store.WriteKey(ctx, byID[target], key, value)
	})
	receipt.Replicas = targets
	receipt.Acks = res.Acks
	receipt.Required = res.Required
	if err != nil {
		logger.Errorw("Write quorum failed",
			"key", key, "op_id", opID, "acks", res.Acks, "required", res.Required, "error", err.Error())
		return receipt, err
	}

	if s.core.guard != nil {
		s.core.guard.Record(opID)
	}
	logger.Infow("Write replicated",
		"key", key, "op_id", opID, "acks", res.Acks, "required", res.Required)
	return receipt, nil
}

// getKey reads a key from its replica set under the configured read
// consistency. Replicas are consulted in placement order until the read
// quorum is met; the first successful copy is returned.
func (s *writeService) getKey(ctx context.Context, key string) ([]byte, error) {
	replicas := s.core.ring.ReplicasFor([]byte(key), s.core.replicationFactor())
	if len(replicas) == 0 {
		return nil, disterrors.Configurationf("placement ring has no nodes")
	}

	need := s.core.policies.RequiredRead(len(replicas), s.core.readLevel)

	var value []byte
	got := false
	acks := 0
	notFound := 0
	for _, node := range replicas {
		v, err := s.core.store.ReadKey(ctx, node, key)
		if err != nil {
			if errors.Is(err, port.ErrKeyNotFound) {
				notFound++
			} else {
				logger.Warnw("Replica read failed", "key", key, "node", node.ID, "error", err.Error())
			}
			continue
		}
		if !got {
			value = v
			got = true
		}
		acks++
		if acks >= need {
			return value, nil
		}
	}

	if notFound == len(replicas) {
		return nil, port.ErrKeyNotFound
	}
	return nil, disterrors.Networkf("read acks %d/%d", acks, need)
}
