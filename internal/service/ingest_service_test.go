package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/example/salestats/internal/datamodels/order"
)

func TestIngestProcess(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := NewIngestService(repo, nil, zaptest.NewLogger(t))

	err := svc.Process(context.Background(), &OrderMessage{
		OrderID:     "o1",
		CustomerID:  "C1",
		Products:    `[{'productId':'P1','quantity':2,'priceAtPurchase':10}]`,
		TotalAmount: 20,
		OrderDate:   "2024-03-05T12:00:00Z",
		Status:      order.StatusCompleted,
	})
	require.NoError(t, err)
	require.Len(t, repo.orders, 1)

	o := repo.orders[0]
	assert.Equal(t, "o1", o.ID)
	assert.Equal(t, "C1", o.CustomerID)
	assert.Equal(t, 20.0, o.TotalAmount)
	assert.Equal(t, order.StatusCompleted, o.Status)
	assert.Equal(t, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), o.OrderDate.UTC())
}

// 消息不带订单 ID 时由入库侧补一个
func TestIngestProcessGeneratesID(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := NewIngestService(repo, nil, zaptest.NewLogger(t))

	err := svc.Process(context.Background(), &OrderMessage{
		CustomerID:  "C1",
		Products:    `[]`,
		TotalAmount: 5,
		OrderDate:   "2024-03-05",
		Status:      order.StatusPending,
	})
	require.NoError(t, err)
	require.Len(t, repo.orders, 1)
	assert.NotEmpty(t, repo.orders[0].ID)
}

func TestIngestProcessBadMessages(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := NewIngestService(repo, nil, zaptest.NewLogger(t))

	cases := []OrderMessage{
		{CustomerID: "", TotalAmount: 10, OrderDate: "2024-03-05", Status: order.StatusCompleted},
		{CustomerID: "C1", TotalAmount: -1, OrderDate: "2024-03-05", Status: order.StatusCompleted},
		{CustomerID: "C1", TotalAmount: 10, OrderDate: "2024-03-05", Status: "shipped"},
		{CustomerID: "C1", TotalAmount: 10, OrderDate: "someday", Status: order.StatusCompleted},
	}
	for _, m := range cases {
		err := svc.Process(context.Background(), &m)
		require.ErrorIs(t, err, ErrBadMessage)
	}
	assert.Empty(t, repo.orders)
}

func TestIngestProcessStoreError(t *testing.T) {
	storeErr := errors.New("store unavailable")
	repo := &fakeOrderRepo{err: storeErr}
	svc := NewIngestService(repo, nil, zaptest.NewLogger(t))

	err := svc.Process(context.Background(), &OrderMessage{
		CustomerID:  "C1",
		TotalAmount: 10,
		OrderDate:   "2024-03-05",
		Status:      order.StatusCompleted,
	})
	require.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrBadMessage)
}
