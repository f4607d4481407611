package application

import (
	"context"
	"errors"
	"fmt"
	"github.com/RaikyD/remit-desk/internal/domain"
	"github.com/RaikyD/remit-desk/internal/repository"
	"sort"
	"sync"
)

// memStore is an in-memory CustomerRepo and OrderRepo.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	customers map[int64]domain.Customer
	orders    map[int64]domain.Order
	insertErr error
}

func newMemStore() *memStore {
	return &memStore{customers: map[int64]domain.Customer{}, orders: map[int64]domain.Order{}}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) InsertCustomer(_ context.Context, c *domain.Customer) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	cp.ID = m.id()
	m.customers[cp.ID] = cp
	return cp.ID, nil
}

func (m *memStore) UpdateCustomer(_ context.Context, id int64, c *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[id]; !ok {
		return fmt.Errorf("customer %d: %w", id, domain.ErrNotFound)
	}
	cp := *c
	cp.ID = id
	m.customers[id] = cp
	return nil
}

func (m *memStore) DeleteCustomer(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[id]; !ok {
		return fmt.Errorf("customer %d: %w", id, domain.ErrNotFound)
	}
	delete(m.customers, id)
	return nil
}

func (m *memStore) GetCustomer(_ context.Context, id int64) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer %d: %w", id, domain.ErrNotFound)
	}
	return &c, nil
}

func (m *memStore) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) InsertOrder(_ context.Context, o *domain.Order) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	for _, existing := range m.orders {
		if existing.TrackingNumber == o.TrackingNumber {
			return 0, fmt.Errorf("insert order %s: %w", o.TrackingNumber, repository.ErrDuplicateTracking)
		}
	}
	cp := *o
	cp.ID = m.id()
	m.orders[cp.ID] = cp
	return cp.ID, nil
}

func (m *memStore) UpdateOrder(_ context.Context, id int64, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.orders[id]
	if !ok {
		return fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	cp := *o
	cp.ID = id
	cp.TrackingNumber = existing.TrackingNumber
	m.orders[id] = cp
	return nil
}

func (m *memStore) DeleteOrder(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	delete(m.orders, id)
	return nil
}

func (m *memStore) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	return &o, nil
}

func (m *memStore) joined(o domain.Order) *domain.OrderWithSender {
	ow := &domain.OrderWithSender{Order: o}
	c, ok := m.customers[o.SenderID]
	if !ok {
		return ow
	}
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	ow.SenderName = c.Name
	ow.SenderDriverLicense = deref(c.DriverLicense)
	ow.SenderBirthDate = deref(c.BirthDate)
	ow.SenderAddress = deref(c.Address)
	ow.SenderPhone = deref(c.Phone)
	return ow
}

func (m *memStore) GetOrderJoined(_ context.Context, id int64) (*domain.OrderWithSender, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	return m.joined(o), nil
}

func (m *memStore) GetOrderByTracking(_ context.Context, code string) (*domain.TrackedOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.TrackingNumber == code {
			return m.joined(o).Tracked(), nil
		}
	}
	return nil, fmt.Errorf("tracking number %s: %w", code, domain.ErrNotFound)
}

func (m *memStore) ListOrders(_ context.Context) ([]domain.OrderWithSender, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.OrderWithSender, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, *m.joined(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type seqGenerator struct{ n int }

func (g *seqGenerator) Next() string {
	g.n++
	return fmt.Sprintf("%08X", g.n)
}

type fixedGenerator []string

func (g *fixedGenerator) Next() string {
	code := (*g)[0]
	if len(*g) > 1 {
		*g = (*g)[1:]
	}
	return code
}

type recordingPublisher struct {
	events []domain.OrderEvent
	err    error
}

func (p *recordingPublisher) PublishOrderEvent(_ context.Context, e domain.OrderEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type stubRenderer struct {
	calls int
	err   error
}

func (r *stubRenderer) Render(o *domain.OrderWithSender) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-" + o.TrackingNumber), nil
}

var errBoom = errors.New("boom")
