package gadgets

import "context"

// Repo persists gadgets. Get returns errors.ErrNotFound for unknown ids and
// Update returns errors.ErrUpdateFailed when no stored record was changed.
// Concurrent updates of one gadget are last-write-wins.
type Repo interface {
	Create(ctx context.Context, gadget *Gadget) error
	Get(ctx context.Context, id string) (*Gadget, error)
	// List returns every gadget, or only those in status when it is non-empty.
	List(ctx context.Context, status Status) ([]*Gadget, error)
	Names(ctx context.Context) ([]string, error)
	Update(ctx context.Context, gadget *Gadget) error
}
