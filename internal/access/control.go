// Package access implements the role registry shared by every engine
// component: a single owner, an allow-list of privileged operators, and a
// pause flag gating mutating entry points.
package access

import (
	"sync"

	"escrowd/internal/models"
)

// Store persists role state across restarts. A nil store keeps the control
// purely in memory, which is what tests use.
type Store interface {
	Load(component string) (*models.RoleSet, []models.RoleOperator, error)
	Save(rs *models.RoleSet) error
	SetOperator(component, address string, enabled bool) error
}

// Control is the role state of one component. All mutation is funneled
// through owner-checked setters; the owner can always add or remove
// operators and toggle pause, regardless of operator membership.
type Control struct {
	mu        sync.Mutex
	component string
	owner     string
	operators map[string]bool
	paused    bool
	store     Store
}

// NewControl builds a control with the given owner. When store is non-nil,
// previously persisted state for the component takes precedence over the
// supplied owner.
func NewControl(component, owner string, store Store) (*Control, error) {
	c := &Control{
		component: component,
		owner:     owner,
		operators: make(map[string]bool),
		store:     store,
	}
	if store == nil {
		return c, nil
	}

	rs, operators, err := store.Load(component)
	if err != nil {
		return nil, err
	}
	if rs == nil {
		if err := store.Save(&models.RoleSet{Component: component, Owner: owner}); err != nil {
			return nil, err
		}
		return c, nil
	}
	c.owner = rs.Owner
	c.paused = rs.Paused
	for _, op := range operators {
		c.operators[op.Address] = true
	}
	return c, nil
}

// Owner returns the current administrative principal.
func (c *Control) Owner() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owner
}

// Paused reports whether the component is paused.
func (c *Control) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// IsOperator reports whether addr is an allow-listed operator.
func (c *Control) IsOperator(addr string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.operators[addr]
}

// RequireOwner fails with ErrUnauthorized unless caller is the owner.
func (c *Control) RequireOwner(caller string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.owner {
		return ErrUnauthorized
	}
	return nil
}

// RequireOperator fails with ErrUnauthorized unless caller is the owner or
// an allow-listed operator.
func (c *Control) RequireOperator(caller string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.owner && !c.operators[caller] {
		return ErrUnauthorized
	}
	return nil
}

// RequireNotPaused fails with ErrPaused while the component is paused.
func (c *Control) RequireNotPaused() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return ErrPaused
	}
	return nil
}

// TransferOwnership hands the component to a new non-empty principal.
func (c *Control) TransferOwnership(caller, newOwner string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.owner {
		return ErrUnauthorized
	}
	if newOwner == "" {
		return ErrInvalidOwner
	}
	c.owner = newOwner
	return c.persist()
}

// SetOperator toggles allow-list membership for addr.
func (c *Control) SetOperator(caller, addr string, enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.owner {
		return ErrUnauthorized
	}
	if enabled {
		c.operators[addr] = true
	} else {
		delete(c.operators, addr)
	}
	if c.store != nil {
		return c.store.SetOperator(c.component, addr, enabled)
	}
	return nil
}

// Pause stops every mutating entry point except pull-withdrawal paths.
func (c *Control) Pause(caller string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.owner {
		return ErrUnauthorized
	}
	c.paused = true
	return c.persist()
}

// Unpause re-enables mutating entry points.
func (c *Control) Unpause(caller string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.owner {
		return ErrUnauthorized
	}
	c.paused = false
	return c.persist()
}

// persist saves owner and pause state. Callers must hold the mutex.
func (c *Control) persist() error {
	if c.store == nil {
		return nil
	}
	return c.store.Save(&models.RoleSet{
		Component: c.component,
		Owner:     c.owner,
		Paused:    c.paused,
	})
}
