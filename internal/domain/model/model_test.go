package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	for _, s := range OrderStatuses() {
		got, err := ParseOrderStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseOrderStatus("  payment received ")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusPaymentReceived, got)

	_, err = ParseOrderStatus("Shipped")
	assert.Error(t, err)
	assert.False(t, OrderStatus("Shipped").Valid())
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("ADMIN")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("owner")
	assert.Error(t, err)
}

func TestOrder_AppendAdminNote(t *testing.T) {
	at := time.Date(2025, 3, 4, 5, 6, 0, 0, time.UTC)
	var o Order

	o.AppendAdminNote(at, "boss", "  packed ")
	require.NotNil(t, o.AdminNotes)
	assert.Equal(t, "[2025-03-04 05:06 UTC] boss: packed", *o.AdminNotes)

	o.AppendAdminNote(at.Add(time.Hour), "ops", "shipped")
	lines := strings.Split(*o.AdminNotes, "\n")
	assert.Equal(t, []string{
		"[2025-03-04 05:06 UTC] boss: packed",
		"[2025-03-04 06:06 UTC] ops: shipped",
	}, lines)

	o.AppendAdminNote(at, "ops", "   ")
	assert.Len(t, strings.Split(*o.AdminNotes, "\n"), 2)
}

func TestProduct_DisplayImage(t *testing.T) {
	url := "https://cdn.example/p.png"
	mime := "image/png"

	p := Product{ID: 7, Image: &url}
	assert.Equal(t, url, *p.DisplayImage())

	p.ImageMimeType = &mime
	p.ImageData = []byte{0x89}
	assert.True(t, p.HasInlineImage())
	assert.Equal(t, "/products/7/image", *p.DisplayImage())

	assert.Nil(t, Product{ID: 1}.DisplayImage())
}

func TestAddress_SnapshotIsIndependent(t *testing.T) {
	city := "Berlin"
	a := Address{City: &city}
	snap := a.Snapshot()

	city = "Paris"
	assert.Equal(t, "Berlin", *snap.City)
	assert.Nil(t, snap.Country)
}

func policyFor(child, parent string) (Reference, bool) {
	for _, r := range ReferentialPolicies {
		if r.ChildTable == child && r.ParentTable == parent {
			return r, true
		}
	}
	return Reference{}, false
}

func TestReferentialPolicies(t *testing.T) {
	r, ok := policyFor(TableOrderItems, TableProducts)
	require.True(t, ok)
	assert.Equal(t, DeleteRestrict, r.OnDelete)

	r, ok = policyFor(TableProducts, TableProductCategories)
	require.True(t, ok)
	assert.Equal(t, DeleteCascade, r.OnDelete)

	_, ok = policyFor(TableUsers, TableOrders)
	assert.False(t, ok)
}
