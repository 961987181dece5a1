package storage

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"campus-canteen/order-svc/internal/domain"
	"campus-canteen/order-svc/internal/queue"
)

const orderLockStripes = 64

// MemoryStore keeps everything in process. It backs single-instance
// deployments (STORAGE=memory) and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	vendors  map[string]domain.Vendor
	menu     map[string]domain.MenuItem
	users    map[string]domain.User
	orders   map[string]*domain.Order
	messages map[string][]domain.Message

	// Transitions on one order serialize on its stripe; unrelated orders
	// rarely share one.
	orderLocks [orderLockStripes]sync.Mutex
	queue      *queue.Allocator
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		vendors:  make(map[string]domain.Vendor),
		menu:     make(map[string]domain.MenuItem),
		users:    make(map[string]domain.User),
		orders:   make(map[string]*domain.Order),
		messages: make(map[string][]domain.Message),
		queue:    queue.NewAllocator(),
		now:      time.Now,
	}
}

func (s *MemoryStore) orderLock(id string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &s.orderLocks[h.Sum32()%orderLockStripes]
}

// Vendors

func (s *MemoryStore) ListVendors(_ context.Context, onlyApproved bool) ([]domain.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vendors := []domain.Vendor{}
	for _, v := range s.vendors {
		if onlyApproved && !v.Approved {
			continue
		}
		vendors = append(vendors, v)
	}
	sort.Slice(vendors, func(i, j int) bool {
		if !vendors[i].CreatedAt.Equal(vendors[j].CreatedAt) {
			return vendors[i].CreatedAt.After(vendors[j].CreatedAt)
		}
		return vendors[i].ID < vendors[j].ID
	})
	return vendors, nil
}

func (s *MemoryStore) GetVendor(_ context.Context, id string) (*domain.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vendors[id]
	if !ok {
		return nil, domain.NotFound("vendor %s not found", id)
	}
	return &v, nil
}

func (s *MemoryStore) UpsertVendor(_ context.Context, v *domain.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.vendors[v.ID]; ok {
		v.CreatedAt = existing.CreatedAt
	} else {
		v.CreatedAt = s.now()
	}
	s.vendors[v.ID] = *v
	return nil
}

func (s *MemoryStore) EnsureVendor(_ context.Context, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vendors[id]; !ok {
		s.vendors[id] = domain.Vendor{ID: id, Name: name, CreatedAt: s.now()}
	}
	return nil
}

func (s *MemoryStore) SetVendorApproved(_ context.Context, id string, approved bool) (*domain.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vendors[id]
	if !ok {
		return nil, domain.NotFound("vendor %s not found", id)
	}
	v.Approved = approved
	s.vendors[id] = v
	return &v, nil
}

// DeleteVendor refuses under the store lock while the vendor has open orders.
func (s *MemoryStore) DeleteVendor(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vendors[id]; !ok {
		return domain.NotFound("vendor %s not found", id)
	}
	for _, o := range s.orders {
		if o.VendorID == id && !o.Status.Terminal() {
			return domain.VendorBusy("vendor %s still has open orders", id)
		}
	}
	delete(s.vendors, id)
	for itemID, m := range s.menu {
		if m.VendorID == id {
			delete(s.menu, itemID)
		}
	}
	for userID, u := range s.users {
		if u.VendorID == id {
			u.VendorID = ""
			s.users[userID] = u
		}
	}
	return nil
}

// Menu items

func (s *MemoryStore) ListMenuItems(_ context.Context, vendorID string) ([]domain.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := []domain.MenuItem{}
	for _, m := range s.menu {
		if m.VendorID == vendorID {
			items = append(items, m)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *MemoryStore) GetMenuItem(_ context.Context, itemID, vendorID string) (*domain.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.menu[itemID]
	if !ok || m.VendorID != vendorID {
		return nil, domain.NotFound("menu item %s not found for vendor %s", itemID, vendorID)
	}
	return &m, nil
}

func (s *MemoryStore) CreateMenuItem(_ context.Context, m *domain.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vendors[m.VendorID]; !ok {
		return domain.VendorUnavailable(domain.ErrNotFound, "vendor %s not found", m.VendorID)
	}
	m.CreatedAt = s.now()
	s.menu[m.ID] = *m
	return nil
}

func (s *MemoryStore) UpdateMenuItem(_ context.Context, itemID, vendorID string, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.menu[itemID]
	if !ok || m.VendorID != vendorID {
		return nil, domain.NotFound("menu item %s not found for vendor %s", itemID, vendorID)
	}
	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.Price != nil {
		m.Price = *patch.Price
	}
	s.menu[itemID] = m
	return &m, nil
}

func (s *MemoryStore) SetMenuItemApproved(_ context.Context, itemID string, approved bool) (*domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.menu[itemID]
	if !ok {
		return nil, domain.NotFound("menu item %s not found", itemID)
	}
	m.Approved = approved
	s.menu[itemID] = m
	return &m, nil
}

func (s *MemoryStore) DeleteMenuItem(_ context.Context, itemID, vendorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.menu[itemID]
	if !ok || m.VendorID != vendorID {
		return domain.NotFound("menu item %s not found", itemID)
	}
	delete(s.menu, itemID)
	return nil
}

// Users

func (s *MemoryStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.NotFound("user %s not found", id)
	}
	return &u, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		s.users[u.ID] = *u
	}
	return nil
}

// Orders

func (s *MemoryStore) CreateOrder(_ context.Context, order *domain.Order) error {
	stored := order.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = &stored
	return nil
}

func (s *MemoryStore) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.NotFound("order %s not found", id)
	}
	c := o.Clone()
	return &c, nil
}

func (s *MemoryStore) ListOrders(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := []domain.Order{}
	for _, o := range s.orders {
		if filter.StudentID != "" && o.StudentID != filter.StudentID {
			continue
		}
		if filter.VendorID != "" && o.VendorID != filter.VendorID {
			continue
		}
		orders = append(orders, o.Clone())
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
	return orders, nil
}

func (s *MemoryStore) HasOpenOrders(_ context.Context, vendorID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.VendorID == vendorID && !o.Status.Terminal() {
			return true, nil
		}
	}
	return false, nil
}

// transition applies fn to a private copy of the order while holding the
// order's lock and stores the copy only if fn succeeds.
func (s *MemoryStore) transition(id string, fn func(o *domain.Order) error) (*domain.Order, error) {
	lock := s.orderLock(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	current, ok := s.orders[id]
	var working domain.Order
	if ok {
		working = current.Clone()
	}
	s.mu.RUnlock()
	if !ok {
		return nil, domain.NotFound("order %s not found", id)
	}

	if err := fn(&working); err != nil {
		return nil, err
	}
	stored := working.Clone()
	s.mu.Lock()
	s.orders[id] = &stored
	s.mu.Unlock()
	return &working, nil
}

func (s *MemoryStore) MarkPaid(_ context.Context, id string, at time.Time) (*domain.Order, error) {
	return s.transition(id, func(o *domain.Order) error {
		return o.MarkPaid(at)
	})
}

// Accept holds the order lock across allocation, so a losing concurrent
// accept fails its status check before reaching the allocator.
func (s *MemoryStore) Accept(_ context.Context, id string) (*domain.Order, error) {
	return s.transition(id, func(o *domain.Order) error {
		if err := o.Check(domain.TransitionAccept); err != nil {
			return err
		}
		_, err := s.queue.Allocate(o.VendorID, o.Accept)
		return err
	})
}

func (s *MemoryStore) Reject(_ context.Context, id string) (*domain.Order, error) {
	return s.transition(id, func(o *domain.Order) error {
		return o.Reject()
	})
}

// Messages

func (s *MemoryStore) AppendMessage(_ context.Context, m *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[m.OrderID]; !ok {
		return domain.NotFound("order %s not found", m.OrderID)
	}
	s.messages[m.OrderID] = append(s.messages[m.OrderID], *m)
	return nil
}

func (s *MemoryStore) ListMessages(_ context.Context, orderID string) ([]domain.Message, error) {
	s.mu.RLock()
	history := append([]domain.Message{}, s.messages[orderID]...)
	s.mu.RUnlock()

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Ts.Before(history[j].Ts)
	})
	return history, nil
}
