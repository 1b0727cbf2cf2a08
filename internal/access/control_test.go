package access

import (
	"testing"

	"escrowd/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store for persistence assertions.
type memStore struct {
	sets      map[string]*models.RoleSet
	operators map[string]map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		sets:      make(map[string]*models.RoleSet),
		operators: make(map[string]map[string]bool),
	}
}

func (m *memStore) Load(component string) (*models.RoleSet, []models.RoleOperator, error) {
	rs, ok := m.sets[component]
	if !ok {
		return nil, nil, nil
	}
	var ops []models.RoleOperator
	for addr := range m.operators[component] {
		ops = append(ops, models.RoleOperator{Component: component, Address: addr})
	}
	copied := *rs
	return &copied, ops, nil
}

func (m *memStore) Save(rs *models.RoleSet) error {
	copied := *rs
	m.sets[rs.Component] = &copied
	return nil
}

func (m *memStore) SetOperator(component, address string, enabled bool) error {
	if m.operators[component] == nil {
		m.operators[component] = make(map[string]bool)
	}
	if enabled {
		m.operators[component][address] = true
	} else {
		delete(m.operators[component], address)
	}
	return nil
}

func TestControlOwnership(t *testing.T) {
	ctl, err := NewControl("processor", "owner", nil)
	require.NoError(t, err)

	t.Run("owner passes checks", func(t *testing.T) {
		assert.NoError(t, ctl.RequireOwner("owner"))
		assert.NoError(t, ctl.RequireOperator("owner"))
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		assert.ErrorIs(t, ctl.RequireOwner("mallory"), ErrUnauthorized)
		assert.ErrorIs(t, ctl.RequireOperator("mallory"), ErrUnauthorized)
	})

	t.Run("only owner can transfer", func(t *testing.T) {
		assert.ErrorIs(t, ctl.TransferOwnership("mallory", "mallory"), ErrUnauthorized)
		assert.ErrorIs(t, ctl.TransferOwnership("owner", ""), ErrInvalidOwner)

		require.NoError(t, ctl.TransferOwnership("owner", "heir"))
		assert.Equal(t, "heir", ctl.Owner())
		assert.ErrorIs(t, ctl.RequireOwner("owner"), ErrUnauthorized)
	})
}

func TestControlOperators(t *testing.T) {
	ctl, err := NewControl("gateway", "owner", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, ctl.SetOperator("mallory", "mallory", true), ErrUnauthorized)

	require.NoError(t, ctl.SetOperator("owner", "worker", true))
	assert.True(t, ctl.IsOperator("worker"))
	assert.NoError(t, ctl.RequireOperator("worker"))

	// Operators cannot manage the allow-list.
	assert.ErrorIs(t, ctl.SetOperator("worker", "friend", true), ErrUnauthorized)

	require.NoError(t, ctl.SetOperator("owner", "worker", false))
	assert.ErrorIs(t, ctl.RequireOperator("worker"), ErrUnauthorized)
}

func TestControlPause(t *testing.T) {
	ctl, err := NewControl("wallet", "owner", nil)
	require.NoError(t, err)

	assert.NoError(t, ctl.RequireNotPaused())

	assert.ErrorIs(t, ctl.Pause("mallory"), ErrUnauthorized)
	require.NoError(t, ctl.Pause("owner"))
	assert.ErrorIs(t, ctl.RequireNotPaused(), ErrPaused)

	require.NoError(t, ctl.Unpause("owner"))
	assert.NoError(t, ctl.RequireNotPaused())
}

func TestControlPersistence(t *testing.T) {
	store := newMemStore()

	ctl, err := NewControl("processor", "owner", store)
	require.NoError(t, err)
	require.NoError(t, ctl.SetOperator("owner", "worker", true))
	require.NoError(t, ctl.Pause("owner"))
	require.NoError(t, ctl.TransferOwnership("owner", "heir"))

	// A fresh control over the same store restores the persisted state,
	// ignoring the supplied owner.
	restored, err := NewControl("processor", "someone-else", store)
	require.NoError(t, err)
	assert.Equal(t, "heir", restored.Owner())
	assert.True(t, restored.Paused())
	assert.True(t, restored.IsOperator("worker"))
}
