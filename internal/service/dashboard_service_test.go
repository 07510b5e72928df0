package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatsCountsByStatus(t *testing.T) {
	f := newOrderFixture(t)
	dash := NewDashboardService(f.orders, f.products)

	first, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)
	third, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)

	require.NoError(t, f.svc.MarkReadyForPickup(first.ID, actor))
	require.NoError(t, f.svc.CancelOrder(third.ID, CancelInput{Reason: "Other"}, actor))

	stats, err := dash.GetStats()
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.Equal(t, int64(1), stats.ReadyOrders)
	assert.Equal(t, int64(0), stats.CompletedOrders)
	assert.Equal(t, int64(1), stats.CancelledOrders)
}

func TestGetStatsEmptyStore(t *testing.T) {
	f := newOrderFixture(t)
	dash := NewDashboardService(f.orders, f.products)

	stats, err := dash.GetStats()
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.TotalOrders)
	assert.Equal(t, int64(0), stats.PendingOrders)
}
