package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"campus-canteen/order-svc/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPaidOrder(t *testing.T, s *MemoryStore, id, vendorID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.CreateOrder(ctx, &domain.Order{
		ID: id, StudentID: "s1", VendorID: vendorID, Status: domain.StatusCreated, CreatedAt: time.Now(),
		Items: []domain.OrderItem{{ID: id + "_i", OrderID: id, MenuItemID: "m1", Name: "Rice", Price: 40, Qty: 1}},
	}))
	_, err := s.MarkPaid(ctx, id, time.Now())
	require.NoError(t, err)
}

func TestMemoryStore_ConcurrentAcceptsGetDistinctNumbers(t *testing.T) {
	s := NewMemoryStore()
	const n = 40
	for i := 0; i < n; i++ {
		seedPaidOrder(t, s, fmt.Sprintf("ord_%d", i), "v1")
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o, err := s.Accept(context.Background(), fmt.Sprintf("ord_%d", i))
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			numbers = append(numbers, *o.QueueNumber)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	sort.Ints(numbers)
	require.Len(t, numbers, n)
	for i, got := range numbers {
		assert.Equal(t, i+1, got)
	}
}

func TestMemoryStore_DoubleAcceptAllocatesOnce(t *testing.T) {
	s := NewMemoryStore()
	seedPaidOrder(t, s, "ord_1", "v1")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Accept(context.Background(), "ord_1")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrInvalidTransition):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 7, conflicts)
	assert.Equal(t, 1, s.queue.Current("v1"))

	o, err := s.GetOrder(context.Background(), "ord_1")
	require.NoError(t, err)
	assert.Equal(t, 1, *o.QueueNumber)
}

func TestMemoryStore_AcceptUnpaidLeavesCounter(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.CreateOrder(ctx, &domain.Order{ID: "ord_1", VendorID: "v1", Status: domain.StatusCreated}))

	_, err := s.Accept(ctx, "ord_1")
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	assert.Equal(t, 0, s.queue.Current("v1"))

	o, err := s.GetOrder(ctx, "ord_1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCreated, o.Status)
}

func TestMemoryStore_VendorsCountIndependently(t *testing.T) {
	s := NewMemoryStore()
	seedPaidOrder(t, s, "a1", "va")
	seedPaidOrder(t, s, "b1", "vb")
	seedPaidOrder(t, s, "a2", "va")

	ctx := context.Background()
	a1, err := s.Accept(ctx, "a1")
	require.NoError(t, err)
	b1, err := s.Accept(ctx, "b1")
	require.NoError(t, err)
	a2, err := s.Accept(ctx, "a2")
	require.NoError(t, err)

	assert.Equal(t, 1, *a1.QueueNumber)
	assert.Equal(t, 1, *b1.QueueNumber)
	assert.Equal(t, 2, *a2.QueueNumber)
}

func TestMemoryStore_ReturnedOrdersAreCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.CreateOrder(ctx, &domain.Order{
		ID: "ord_1", VendorID: "v1", Status: domain.StatusCreated,
		Items: []domain.OrderItem{{ID: "i1", Name: "Rice", Price: 40, Qty: 1}},
	}))

	o, err := s.GetOrder(ctx, "ord_1")
	require.NoError(t, err)
	o.Items[0].Price = 1
	o.Status = domain.StatusAccepted

	again, err := s.GetOrder(ctx, "ord_1")
	require.NoError(t, err)
	assert.Equal(t, int64(40), again.Items[0].Price)
	assert.Equal(t, domain.StatusCreated, again.Status)
}

func TestMemoryStore_ListOrdersNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.CreateOrder(ctx, &domain.Order{ID: "old", StudentID: "s1", VendorID: "v1", CreatedAt: base}))
	require.NoError(t, s.CreateOrder(ctx, &domain.Order{ID: "new", StudentID: "s1", VendorID: "v2", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, s.CreateOrder(ctx, &domain.Order{ID: "other", StudentID: "s2", VendorID: "v1", CreatedAt: base}))

	orders, err := s.ListOrders(ctx, domain.OrderFilter{StudentID: "s1"})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "new", orders[0].ID)
	assert.Equal(t, "old", orders[1].ID)

	orders, err = s.ListOrders(ctx, domain.OrderFilter{VendorID: "v1"})
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestMemoryStore_Messages(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	err := s.AppendMessage(ctx, &domain.Message{ID: "m0", OrderID: "ghost", Text: "hi"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, s.CreateOrder(ctx, &domain.Order{ID: "ord_1", VendorID: "v1"}))
	t0 := time.Now()
	require.NoError(t, s.AppendMessage(ctx, &domain.Message{ID: "m2", OrderID: "ord_1", Text: "later", Ts: t0.Add(time.Second)}))
	require.NoError(t, s.AppendMessage(ctx, &domain.Message{ID: "m1", OrderID: "ord_1", Text: "first", Ts: t0}))
	require.NoError(t, s.AppendMessage(ctx, &domain.Message{ID: "m3", OrderID: "ord_1", Text: "same tick", Ts: t0.Add(time.Second)}))

	history, err := s.ListMessages(ctx, "ord_1")
	require.NoError(t, err)
	ids := make([]string, 0, len(history))
	for _, m := range history {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids)

	empty, err := s.ListMessages(ctx, "ord_2")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStore_Catalog(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	err := s.CreateMenuItem(ctx, &domain.MenuItem{ID: "m1", VendorID: "v1"})
	assert.Equal(t, domain.ReasonVendorUnavailable, domain.ReasonOf(err))

	require.NoError(t, s.EnsureVendor(ctx, "v1", "Vendor v1"))
	require.NoError(t, s.EnsureVendor(ctx, "v1", "renamed"))
	v, err := s.GetVendor(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "Vendor v1", v.Name)
	assert.False(t, v.Approved)

	approved, err := s.ListVendors(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, approved)

	require.NoError(t, s.CreateMenuItem(ctx, &domain.MenuItem{ID: "m1", VendorID: "v1", Name: "Rice", Price: 40, Approved: true}))
	_, err = s.GetMenuItem(ctx, "m1", "v2")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	price := int64(45)
	m, err := s.UpdateMenuItem(ctx, "m1", "v1", domain.MenuItemPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Rice", m.Name)
	assert.Equal(t, int64(45), m.Price)

	require.NoError(t, s.CreateOrder(ctx, &domain.Order{ID: "ord_1", VendorID: "v1", Status: domain.StatusCreated}))
	err = s.DeleteVendor(ctx, "v1")
	assert.Equal(t, domain.ReasonVendorBusy, domain.ReasonOf(err))
	_, err = s.Reject(ctx, "ord_1")
	require.NoError(t, err)

	require.NoError(t, s.DeleteVendor(ctx, "v1"))
	items, err := s.ListMenuItems(ctx, "v1")
	require.NoError(t, err)
	assert.Empty(t, items)
}
