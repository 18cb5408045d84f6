package fakegadgetrepo

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-gadget-server/gadgets"
	apperrors "github.com/jrsteele09/go-gadget-server/internal/errors"
)

var _ gadgets.Repo = (*FakeGadgetRepo)(nil)

// FakeGadgetRepo keeps gadgets in memory in insertion order.
type FakeGadgetRepo struct {
	gadgets map[string]gadgets.Gadget
	order   []string
	lock    sync.RWMutex
}

func NewFakeGadgetRepo() *FakeGadgetRepo {
	return &FakeGadgetRepo{
		gadgets: make(map[string]gadgets.Gadget),
	}
}

func (gr *FakeGadgetRepo) Create(_ context.Context, gadget *gadgets.Gadget) error {
	gr.lock.Lock()
	defer gr.lock.Unlock()

	if gadget.ID == "" {
		gadget.ID = uuid.New().String()
	}
	if _, exists := gr.gadgets[gadget.ID]; !exists {
		gr.order = append(gr.order, gadget.ID)
	}
	gr.gadgets[gadget.ID] = clone(gadget)
	return nil
}

func (gr *FakeGadgetRepo) Get(_ context.Context, id string) (*gadgets.Gadget, error) {
	gr.lock.RLock()
	defer gr.lock.RUnlock()

	g, ok := gr.gadgets[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := clone(&g)
	return &c, nil
}

func (gr *FakeGadgetRepo) List(_ context.Context, status gadgets.Status) ([]*gadgets.Gadget, error) {
	gr.lock.RLock()
	defer gr.lock.RUnlock()

	list := make([]*gadgets.Gadget, 0, len(gr.order))
	for _, id := range gr.order {
		g := gr.gadgets[id]
		if status != "" && g.Status != status {
			continue
		}
		c := clone(&g)
		list = append(list, &c)
	}
	return list, nil
}

func (gr *FakeGadgetRepo) Names(_ context.Context) ([]string, error) {
	gr.lock.RLock()
	defer gr.lock.RUnlock()

	names := make([]string, 0, len(gr.order))
	for _, id := range gr.order {
		names = append(names, gr.gadgets[id].Name)
	}
	return names, nil
}

func (gr *FakeGadgetRepo) Update(_ context.Context, gadget *gadgets.Gadget) error {
	gr.lock.Lock()
	defer gr.lock.Unlock()

	if _, ok := gr.gadgets[gadget.ID]; !ok {
		return apperrors.ErrUpdateFailed
	}
	gr.gadgets[gadget.ID] = clone(gadget)
	return nil
}

func clone(g *gadgets.Gadget) gadgets.Gadget {
	c := *g
	if g.DecommissionedOn != nil {
		t := *g.DecommissionedOn
		c.DecommissionedOn = &t
	}
	return c
}
