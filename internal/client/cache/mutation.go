package cache

import (
	"errors"
	"fmt"
	"sync"
)

// MutationState is the lifecycle of one write.
type MutationState int

const (
	MutationIdle MutationState = iota
	MutationPending
	MutationOptimistic
	MutationSucceeded
	MutationFailed
	MutationRolledBack
)

var stateNames = map[MutationState]string{
	MutationIdle:       "idle",
	MutationPending:    "pending",
	MutationOptimistic: "optimistic-applied",
	MutationSucceeded:  "settled-success",
	MutationFailed:     "settled-failure",
	MutationRolledBack: "rolled-back",
}

func (m MutationState) String() string {
	if n, ok := stateNames[m]; ok {
		return n
	}
	return fmt.Sprintf("MutationState(%d)", int(m))
}

var ErrMutationStarted = errors.New("mutation already started")

// Mutation tracks one write against the server together with the optimistic
// patches it applied, so they can be undone if the write fails.
type Mutation struct {
	store *Store
	name  string

	mu    sync.Mutex
	state MutationState
	undo  []UndoToken
}

func (s *Store) NewMutation(name string) *Mutation {
	return &Mutation{store: s, name: name}
}

func (m *Mutation) Name() string { return m.name }

func (m *Mutation) State() MutationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Begin moves an idle mutation to pending.
func (m *Mutation) Begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != MutationIdle {
		return fmt.Errorf("%s: %w", m.name, ErrMutationStarted)
	}
	m.state = MutationPending
	return nil
}

// Patch applies an optimistic change to key on behalf of m. It reports
// false when the entry holds no data.
func Patch[T any](m *Mutation, key Key, mutate func(T) T) bool {
	token, ok := ApplyPatch(m.store, key, mutate)
	if !ok {
		return false
	}
	m.mu.Lock()
	m.undo = append(m.undo, token)
	m.state = MutationOptimistic
	m.mu.Unlock()
	return true
}

// Settle records the outcome of the write. On failure every optimistic
// patch is rolled back, newest first. err is returned unchanged.
func (m *Mutation) Settle(err error) error {
	m.mu.Lock()
	if err == nil {
		m.state = MutationSucceeded
		m.undo = nil
		m.mu.Unlock()
		return nil
	}
	m.state = MutationFailed
	undo := m.undo
	m.undo = nil
	m.mu.Unlock()

	if len(undo) == 0 {
		return err
	}
	for i := len(undo) - 1; i >= 0; i-- {
		m.store.Rollback(undo[i])
	}

	m.mu.Lock()
	m.state = MutationRolledBack
	m.mu.Unlock()
	return err
}
