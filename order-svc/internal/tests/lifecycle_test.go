package tests

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"testing"
	"time"

	"campus-canteen/order-svc/internal/booking"
	"campus-canteen/order-svc/internal/domain"
	"campus-canteen/order-svc/internal/service"
	"campus-canteen/order-svc/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	room  domain.Room
	event string
}

type recordingNotifier struct {
	mu       sync.Mutex
	events   []published
	payloads []any
}

func (n *recordingNotifier) Publish(room domain.Room, eventType string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, published{room: room, event: eventType})
	n.payloads = append(n.payloads, payload)
}

// payloadsFor returns, in publish order, what was sent to room as eventType.
func (n *recordingNotifier) payloadsFor(room domain.Room, eventType string) []any {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []any
	for i, e := range n.events {
		if e.room == room && e.event == eventType {
			out = append(out, n.payloads[i])
		}
	}
	return out
}

func (n *recordingNotifier) snapshot() []published {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]published(nil), n.events...)
}

type lifecycleFixture struct {
	store    *storage.MemoryStore
	notifier *recordingNotifier
	orders   *service.OrderService
	chat     *service.ChatService
}

func newLifecycleFixture(t *testing.T, clock func() time.Time) lifecycleFixture {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.UpsertVendor(ctx, &domain.Vendor{ID: "v1", Name: "Noodles", Approved: true}))
	require.NoError(t, store.UpsertVendor(ctx, &domain.Vendor{ID: "v2", Name: "Drinks", Approved: true}))
	require.NoError(t, store.CreateMenuItem(ctx, &domain.MenuItem{ID: "m1", VendorID: "v1", Name: "Pad Thai", Price: 50, Approved: true}))
	require.NoError(t, store.CreateMenuItem(ctx, &domain.MenuItem{ID: "m2", VendorID: "v2", Name: "Tea", Price: 20, Approved: true}))

	gate, err := booking.New(booking.Options{Timezone: "Asia/Bangkok", OpenAt: "08:00", CloseAt: "10:00", Clock: clock})
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	catalog := service.NewCatalogService(store, store)
	return lifecycleFixture{
		store:    store,
		notifier: notifier,
		orders:   service.NewOrderService(store, catalog, catalog, gate, notifier, nil),
		chat:     service.NewChatService(store, store, notifier),
	}
}

func insideWindow() time.Time {
	bangkok := time.FixedZone("ICT", 7*3600)
	return time.Date(2026, 3, 2, 8, 30, 0, 0, bangkok)
}

func (f lifecycleFixture) paidOrder(t *testing.T, vendorID, itemID string) *domain.Order {
	t.Helper()
	order, err := f.orders.Create(context.Background(), service.CreateOrderInput{
		StudentID: "6401", VendorID: vendorID, Items: []service.OrderLine{{MenuItemID: itemID, Qty: 1}},
	})
	require.NoError(t, err)
	_, err = f.orders.MarkPaid(context.Background(), order.ID)
	require.NoError(t, err)
	return order
}

func TestLifecycle_HappyPath(t *testing.T) {
	f := newLifecycleFixture(t, insideWindow)
	ctx := context.Background()

	order, err := f.orders.Create(ctx, service.CreateOrderInput{
		StudentID: "6401", VendorID: "v1", Items: []service.OrderLine{{MenuItemID: "m1", Qty: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), order.Total)

	paid, err := f.orders.MarkPaid(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)

	accepted, err := f.orders.Accept(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, accepted.QueueNumber)
	assert.Equal(t, 1, *accepted.QueueNumber)
	assert.Equal(t, *paid.PaidAt, *accepted.PaidAt)

	assert.Equal(t, []published{
		{domain.VendorRoom("v1"), domain.EventOrderNew},
		{domain.VendorRoom("v1"), domain.EventOrderPaid},
		{domain.StudentRoom("6401"), domain.EventOrderUpdate},
		{domain.StudentRoom("6401"), domain.EventOrderUpdate},
	}, f.notifier.snapshot())
}

func TestLifecycle_BookingClosedCreatesNothing(t *testing.T) {
	outside := func() time.Time { return insideWindow().Add(2 * time.Hour) }
	f := newLifecycleFixture(t, outside)

	_, err := f.orders.Create(context.Background(), service.CreateOrderInput{
		StudentID: "6401", VendorID: "v1", Items: []service.OrderLine{{MenuItemID: "m1"}},
	})

	assert.Equal(t, domain.ReasonBookingClosed, domain.ReasonOf(err))
	orders, err := f.store.ListOrders(context.Background(), domain.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, f.notifier.snapshot())
}

func TestLifecycle_ItemOfOtherVendorRejected(t *testing.T) {
	f := newLifecycleFixture(t, insideWindow)

	_, err := f.orders.Create(context.Background(), service.CreateOrderInput{
		StudentID: "6401", VendorID: "v1", Items: []service.OrderLine{{MenuItemID: "m1"}, {MenuItemID: "m2"}},
	})

	assert.Equal(t, domain.ReasonItemUnavailable, domain.ReasonOf(err))
	orders, _ := f.store.ListOrders(context.Background(), domain.OrderFilter{})
	assert.Empty(t, orders, "no partial order is stored")
}

func TestLifecycle_ConcurrentAcceptsAreGapFree(t *testing.T) {
	f := newLifecycleFixture(t, insideWindow)
	const n = 25
	ids := make([]string, n)
	for i := range ids {
		ids[i] = f.paidOrder(t, "v1", "m1").ID
	}
	other := f.paidOrder(t, "v2", "m2")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			o, err := f.orders.Accept(context.Background(), id)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			numbers = append(numbers, *o.QueueNumber)
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	sort.Ints(numbers)
	want := make([]int, n)
	for i := range want {
		want[i] = i + 1
	}
	assert.Equal(t, want, numbers)

	o, err := f.orders.Accept(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, *o.QueueNumber, "vendor counters are independent")
}

func TestLifecycle_RacingAcceptAndReject(t *testing.T) {
	f := newLifecycleFixture(t, insideWindow)
	order := f.paidOrder(t, "v1", "m1")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() { defer wg.Done(); _, errs[0] = f.orders.Accept(context.Background(), order.ID) }()
	go func() { defer wg.Done(); _, errs[1] = f.orders.Reject(context.Background(), order.ID) }()
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one transition wins")

	final, err := f.store.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	if final.Status == domain.StatusAccepted {
		assert.Equal(t, 1, *final.QueueNumber)
	} else {
		assert.Nil(t, final.QueueNumber)
	}
}

func TestLifecycle_ChatHistoryIsOrdered(t *testing.T) {
	base := insideWindow()
	tick := 0
	f := newLifecycleFixture(t, insideWindow)
	order := f.paidOrder(t, "v1", "m1")
	f.chat.WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})

	for i := 0; i < 5; i++ {
		_, err := f.chat.Append(context.Background(), order.ID, "6401", fmt.Sprintf("msg %d", i))
		require.NoError(t, err)
	}

	history, err := f.chat.ListSince(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, history, 5)
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].Ts.Before(history[i-1].Ts))
	}
	assert.Equal(t, "msg 0", history[0].Text)
}

func TestLifecycle_LiveChatMatchesHistory(t *testing.T) {
	base := insideWindow()
	tick := 0
	f := newLifecycleFixture(t, insideWindow)
	order := f.paidOrder(t, "v1", "m1")
	f.chat.WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})

	senders := []string{"6401", "v1", ""}
	for i, from := range senders {
		_, err := f.chat.Append(context.Background(), order.ID, from, fmt.Sprintf("line %d", i))
		require.NoError(t, err)
	}

	live := f.notifier.payloadsFor(domain.OrderRoom(order.ID), domain.EventChatMessage)
	history, err := f.chat.ListSince(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, live, len(senders))
	require.Len(t, history, len(senders))

	for i, payload := range live {
		msg, ok := payload.(domain.Message)
		require.True(t, ok, "chat payload is a domain.Message, got %T", payload)
		assert.Equal(t, history[i].ID, msg.ID)
		assert.Equal(t, history[i].OrderID, msg.OrderID)
		assert.Equal(t, history[i].From, msg.From)
		assert.Equal(t, history[i].Text, msg.Text)
		assert.True(t, history[i].Ts.Equal(msg.Ts))
	}
	assert.Equal(t, "unknown", history[2].From)
}

func TestLifecycle_TotalIgnoresLaterPriceEdits(t *testing.T) {
	f := newLifecycleFixture(t, insideWindow)
	ctx := context.Background()

	order, err := f.orders.Create(ctx, service.CreateOrderInput{
		StudentID: "6401", VendorID: "v1", Items: []service.OrderLine{{MenuItemID: "m1", Qty: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(100), order.Total)

	newPrice, newName := int64(75), "Pad Thai Special"
	_, err = f.store.UpdateMenuItem(ctx, "m1", "v1", domain.MenuItemPatch{Name: &newName, Price: &newPrice})
	require.NoError(t, err)

	stored, err := f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), stored.Total)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, int64(50), stored.Items[0].Price)
	assert.Equal(t, "Pad Thai", stored.Items[0].Name)

	_, err = f.orders.MarkPaid(ctx, order.ID)
	require.NoError(t, err)
	accepted, err := f.orders.Accept(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), accepted.Total, "transitions keep the snapshot")
}

func TestLifecycle_OversizedQuantityStoresNothing(t *testing.T) {
	f := newLifecycleFixture(t, insideWindow)
	ctx := context.Background()

	_, err := f.orders.Create(ctx, service.CreateOrderInput{
		StudentID: "6401", VendorID: "v1", Items: []service.OrderLine{{MenuItemID: "m1", Qty: math.MaxInt / 40}},
	})

	assert.Equal(t, domain.ReasonValidation, domain.ReasonOf(err))
	orders, err := f.store.ListOrders(ctx, domain.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, f.notifier.snapshot())

	order, err := f.orders.Create(ctx, service.CreateOrderInput{
		StudentID: "6401", VendorID: "v1", Items: []service.OrderLine{{MenuItemID: "m1", Qty: domain.MaxItemQty}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50*domain.MaxItemQty), order.Total)
}
