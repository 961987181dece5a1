package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoom_StringAndParse(t *testing.T) {
	tests := []struct {
		room Room
		want string
	}{
		{StudentRoom("6401"), "student:6401"},
		{VendorRoom("v1"), "vendor:v1"},
		{OrderRoom("ord:with:colons"), "order:ord:with:colons"},
	}
	for _, testCase := range tests {
		assert.Equal(t, testCase.want, testCase.room.String())
		parsed, err := ParseRoom(testCase.want)
		require.NoError(t, err)
		assert.Equal(t, testCase.room, parsed)
	}
}

func TestParseRoom_Rejects(t *testing.T) {
	for _, raw := range []string{"", "student", "student:", "admin:1"} {
		_, err := ParseRoom(raw)
		assert.Error(t, err, raw)
	}
}

func TestRoom_KindsDoNotCollide(t *testing.T) {
	assert.NotEqual(t, StudentRoom("1"), VendorRoom("1"))
}

func TestNewOrderEvent(t *testing.T) {
	q := 4
	at := time.Now()
	o := &Order{ID: "ord_1", VendorID: "v1", StudentID: "s1", Status: StatusAccepted, Total: 80, QueueNumber: &q}

	evt := NewOrderEvent(EventOrderUpdate, o, at)
	assert.Equal(t, EventOrderUpdate, evt.Type)
	assert.Equal(t, 4, evt.QueueNumber)
	assert.Equal(t, int64(80), evt.Total)
	assert.Equal(t, at, evt.Timestamp)
}

func TestErrors_KindAndReason(t *testing.T) {
	err := VendorUnavailable(ErrIneligible, "vendor %s is not approved", "v1")
	assert.True(t, errors.Is(err, ErrIneligible))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, ReasonVendorUnavailable, ReasonOf(err))
	assert.Equal(t, "vendor v1 is not approved", err.Error())

	assert.Equal(t, ReasonInternal, ReasonOf(errors.New("boom")))
	assert.Equal(t, ReasonBookingClosed, ReasonOf(WindowClosed("closed")))
}
