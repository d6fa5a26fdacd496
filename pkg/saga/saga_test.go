package saga

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/anthanhphan/go-replication-core/pkg/disterrors"
)

// accountStore is the external, non-transactional state the saga steps
// mutate.
type accountStore struct {
	mu       sync.Mutex
	balances map[string]int
}

func newAccountStore(balances map[string]int) *accountStore {
	return &accountStore{balances: balances}
}

func (s *accountStore) balance(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[name]
}

func (s *accountStore) transfer(from, to string, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balances[from] < amount {
		return disterrors.Storagef("insufficient funds: %s has %d, needs %d", from, s.balances[from], amount)
	}
	s.balances[from] -= amount
	s.balances[to] += amount
	return nil
}

// transferStep moves money forward and compensates by moving it back.
type transferStep struct {
	store       *accountStore
	from, to    string
	amount      int
	compensated int
}

func (t *transferStep) Execute(ctx context.Context) error {
	return t.store.transfer(t.from, t.to, t.amount)
}

func (t *transferStep) Compensate(ctx context.Context) error {
	t.compensated++
	return t.store.transfer(t.to, t.from, t.amount)
}

func TestSaga_Commit(t *testing.T) {
	store := newAccountStore(map[string]int{"alice": 1000, "bob": 500, "charlie": 200})

	s := New().
		Then(&transferStep{store: store, from: "alice", to: "bob", amount: 100}).
		Then(&transferStep{store: store, from: "bob", to: "charlie", amount: 50})

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Expected commit, got %v", err)
	}
	if s.State() != Committed {
		t.Errorf("Expected Committed state, got %s", s.State())
	}

	want := map[string]int{"alice": 900, "bob": 550, "charlie": 250}
	for name, balance := range want {
		if got := store.balance(name); got != balance {
			t.Errorf("%s: expected %d, got %d", name, balance, got)
		}
	}
	for i, st := range s.StepStates() {
		if st != Executed {
			t.Errorf("step %d: expected Executed, got %d", i, st)
		}
	}
}

func TestSaga_FirstStepFails(t *testing.T) {
	store := newAccountStore(map[string]int{"alice": 50, "bob": 500})

	step := &transferStep{store: store, from: "alice", to: "bob", amount: 100}
	s := New().Then(step)

	err := s.Run(context.Background())
	if err == nil {
		t.Fatal("Expected insufficient funds failure")
	}
	if !errors.Is(err, disterrors.ErrStorage) {
		t.Errorf("Expected storage category, got %v", err)
	}
	if s.State() != RolledBack {
		t.Errorf("Expected RolledBack state, got %s", s.State())
	}

	// No step succeeded, so nothing is compensated and balances are intact.
	if step.compensated != 0 {
		t.Errorf("Compensate ran %d times for a step that never executed", step.compensated)
	}
	if store.balance("alice") != 50 || store.balance("bob") != 500 {
		t.Errorf("Balances mutated: alice=%d bob=%d", store.balance("alice"), store.balance("bob"))
	}
}

func TestSaga_PartialRollback(t *testing.T) {
	store := newAccountStore(map[string]int{"alice": 1000, "bob": 10, "charlie": 0})

	first := &transferStep{store: store, from: "alice", to: "bob", amount: 100}
	// bob ends up with 110, but the second step needs more than that.
	second := &transferStep{store: store, from: "bob", to: "charlie", amount: 500}

	s := New().Then(first).Then(second)

	err := s.Run(context.Background())
	if err == nil {
		t.Fatal("Expected second step to fail")
	}
	if !errors.Is(err, disterrors.ErrStorage) {
		t.Errorf("Expected the step-2 error to surface, got %v", err)
	}

	if first.compensated != 1 {
		t.Errorf("Expected exactly one compensation of step 1, got %d", first.compensated)
	}
	if second.compensated != 0 {
		t.Errorf("Failed step must not be compensated, got %d", second.compensated)
	}

	// Step 1's effect is restored.
	if store.balance("alice") != 1000 || store.balance("bob") != 10 || store.balance("charlie") != 0 {
		t.Errorf("State not restored: alice=%d bob=%d charlie=%d",
			store.balance("alice"), store.balance("bob"), store.balance("charlie"))
	}

	states := s.StepStates()
	if states[0] != Compensated {
		t.Errorf("step 1: expected Compensated, got %d", states[0])
	}
	if states[1] != Pending {
		t.Errorf("step 2: expected Pending, got %d", states[1])
	}
}

// recordingStep logs execute/compensate calls into a shared trace.
type recordingStep struct {
	name    string
	trace   *[]string
	mu      *sync.Mutex
	execErr error
	compErr error
}

func (r *recordingStep) Execute(ctx context.Context) error {
	r.mu.Lock()
	*r.trace = append(*r.trace, "exec:"+r.name)
	r.mu.Unlock()
	return r.execErr
}

func (r *recordingStep) Compensate(ctx context.Context) error {
	r.mu.Lock()
	*r.trace = append(*r.trace, "comp:"+r.name)
	r.mu.Unlock()
	return r.compErr
}

func TestSaga_CompensationOrderIsReversed(t *testing.T) {
	var trace []string
	var mu sync.Mutex

	boom := errors.New("boom")
	s := New().
		Then(&recordingStep{name: "a", trace: &trace, mu: &mu}).
		Then(&recordingStep{name: "b", trace: &trace, mu: &mu}).
		Then(&recordingStep{name: "c", trace: &trace, mu: &mu}).
		Then(&recordingStep{name: "d", trace: &trace, mu: &mu, execErr: boom})

	err := s.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Expected original failure, got %v", err)
	}

	want := []string{"exec:a", "exec:b", "exec:c", "exec:d", "comp:c", "comp:b", "comp:a"}
	if len(trace) != len(want) {
		t.Fatalf("Expected trace %v, got %v", want, trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("Expected trace %v, got %v", want, trace)
		}
	}
}

func TestSaga_CompensationFailureDoesNotHaltRollback(t *testing.T) {
	var trace []string
	var mu sync.Mutex

	boom := errors.New("boom")
	compFail := errors.New("undo failed")
	s := New().
		Then(&recordingStep{name: "a", trace: &trace, mu: &mu}).
		Then(&recordingStep{name: "b", trace: &trace, mu: &mu, compErr: compFail}).
		Then(&recordingStep{name: "c", trace: &trace, mu: &mu, execErr: boom})

	err := s.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Rollback errors must not replace the original failure, got %v", err)
	}

	// Both compensations attempted despite b's failure.
	want := []string{"exec:a", "exec:b", "exec:c", "comp:b", "comp:a"}
	for i := range want {
		if i >= len(trace) || trace[i] != want[i] {
			t.Fatalf("Expected trace %v, got %v", want, trace)
		}
	}

	compErrs := s.CompensationErrors()
	if len(compErrs) != 1 || !errors.Is(compErrs[0], compFail) {
		t.Errorf("Expected the compensation failure to be observed, got %v", compErrs)
	}
}

func TestSaga_SingleUse(t *testing.T) {
	s := New().Then(Func{})

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("First run should commit, got %v", err)
	}

	err := s.Run(context.Background())
	if !errors.Is(err, disterrors.ErrInvalidState) {
		t.Errorf("Second run must report invalid state, got %v", err)
	}
}

func TestSaga_EmptyCommits(t *testing.T) {
	s := New()
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Empty saga should commit, got %v", err)
	}
	if s.State() != Committed {
		t.Errorf("Expected Committed, got %s", s.State())
	}
}
