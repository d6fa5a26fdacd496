package service

import (
	"context"
	"strconv"

	"github.com/anthanhphan/go-replication-core/internal/coordinator/port"
	"github.com/anthanhphan/go-replication-core/pkg/disterrors"
	"github.com/anthanhphan/go-replication-core/pkg/saga"
	"github.com/anthanhphan/gosdk/logger"
)

// transferService applies multi-account transfers as sagas: one step per
// move, compensated in reverse order when a later move fails.
type transferService struct {
	core *CoordinatorService
}

// newTransferService creates the transfer use-case service.
func newTransferService(core *CoordinatorService) *transferService {
	return &transferService{core: core}
}

// transfer applies the moves as one all-or-nothing sequence. Each step moves
// funds locally and then replicates both touched balances; a step whose
// replication fails undoes its own move before reporting failure, so every
// step is all-or-nothing too. Compensation reverses the move and replicates
// the restored balances. The first failing step's error is returned after
// rollback.
func (s *transferService) transfer(ctx context.Context, moves []port.Move) error {
	if len(moves) == 0 {
		return disterrors.Configurationf("transfer requires at least one move")
	}
	for _, mv := range moves {
		if mv.Amount <= 0 {
			return disterrors.Configurationf("move amount must be positive, got %d", mv.Amount)
		}
		if mv.From == mv.To {
			return disterrors.Configurationf("move source and destination are both %q", mv.From)
		}
	}

	sg := saga.New()
	for _, mv := range moves {
		mv := mv
		sg.Then(saga.Func{
			ExecuteFn: func(ctx context.Context) error {
				if err := s.core.accounts.Move(mv.From, mv.To, mv.Amount); err != nil {
					return err
				}
				if err := s.replicateBalances(ctx, mv.From, mv.To); err != nil {
					// The saga compensates only steps that reported
					// success, so a failing step must leave no local
					// effect behind.
					if uerr := s.core.accounts.Move(mv.To, mv.From, mv.Amount); uerr != nil {
						logger.Errorw("Failed to undo unreplicated move",
							"from", mv.From, "to", mv.To, "amount", mv.Amount, "error", uerr.Error())
					}
					return err
				}
				return nil
			},
			CompensateFn: func(ctx context.Context) error {
				if err := s.core.accounts.Move(mv.To, mv.From, mv.Amount); err != nil {
					return err
				}
				return s.replicateBalances(ctx, mv.From, mv.To)
			},
		})
	}

	if err := sg.Run(ctx); err != nil {
		logger.Warnw("Transfer rolled back",
			"moves", len(moves), "state", sg.State().String(), "error", err.Error())
		return err
	}

	logger.Infow("Transfer committed", "moves", len(moves))
	return nil
}

// replicateBalances writes the current balance of each account to its
// replica set so reads anywhere in the cluster observe the transfer.
func (s *transferService) replicateBalances(ctx context.Context, accounts ...string) error {
	for _, name := range accounts {
		balance, ok := s.core.accounts.Balance(name)
		if !ok {
			continue
		}
		value := []byte(strconv.FormatInt(balance, 10))
		if _, err := s.core.writeUseCase.putKey(ctx, accountKey(name), value, ""); err != nil {
			return err
		}
	}
	return nil
}

// accountKey namespaces balance records in the replicated key space.
func accountKey(name string) string {
	return "acct/" + name
}
