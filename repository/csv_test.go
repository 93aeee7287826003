package repository

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/akinalp/masala/models"
	"github.com/akinalp/masala/pkg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder(id string, created time.Time) *models.Order {
	return &models.Order{
		OrderID: id,
		Customer: models.Customer{
			Name: "Asha", Email: "asha@example.com", Phone: "9999999999",
			Address: "12, MG Road", City: "Ujjain", Pincode: "456001",
		},
		Items: []models.CartItem{
			{Name: "Garam Masala", Quantity: 2, Price: decimal.NewFromInt(120), Weight: "100g"},
			{Name: "Haldi, \"Premium\"", Quantity: 1, Price: decimal.RequireFromString("89.50"), Weight: "200g"},
		},
		Total:         decimal.RequireFromString("329.50"),
		PaymentMethod: "razorpay",
		PaymentStatus: "paid",
		CreatedAt:     created,
	}
}

func TestCSVOrderRepo_CreateListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewCSVOrderRepo(t.TempDir())

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, sampleOrder("ORD00000001", base)))
	require.NoError(t, repo.Create(ctx, sampleOrder("ORD00000002", base.Add(time.Minute))))

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "ORD00000002", orders[0].OrderID)
	assert.Equal(t, "ORD00000001", orders[1].OrderID)

	got := orders[1]
	assert.Equal(t, "12, MG Road", got.Address)
	assert.True(t, decimal.RequireFromString("329.5").Equal(got.Total))
	assert.Equal(t, base, got.CreatedAt)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Haldi, \"Premium\"", got.Items[1].Name)
	assert.True(t, decimal.RequireFromString("89.50").Equal(got.Items[1].Price))
}

func TestCSVOrderRepo_EmptyFile(t *testing.T) {
	repo := NewCSVOrderRepo(t.TempDir())

	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = repo.GetByOrderID(context.Background(), "ORD1")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestCSVOrderRepo_LegacyAndShortRows(t *testing.T) {
	dir := t.TempDir()
	content := "2024-12-31 23:59:59,ORD11111111,Old,old@example.com,1,Addr,City,123,500,cod,pending,,\n" +
		"broken,row\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, OrdersFile), []byte(content), 0o644))

	repo := NewCSVOrderRepo(dir)
	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1, "rows with fewer than 13 columns are skipped")

	assert.Equal(t, "ORD11111111", orders[0].OrderID)
	assert.Empty(t, orders[0].Items)
	assert.True(t, decimal.NewFromInt(500).Equal(orders[0].Total))

	exists, err := repo.Exists(context.Background(), "ORD11111111")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCSVOrderRepo_RowWithoutSignatureColumn(t *testing.T) {
	dir := t.TempDir()
	content := `2025-01-02 03:04:05,ORD22222222,Ravi,ravi@example.com,2,Addr,City,456,240,razorpay,paid,order_1,pay_1,"[{""name"":""Jeera"",""quantity"":2,""price"":120,""weight"":""50g""}]"` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, OrdersFile), []byte(content), 0o644))

	o, err := NewCSVOrderRepo(dir).GetByOrderID(context.Background(), "ORD22222222")
	require.NoError(t, err)
	assert.Equal(t, "pay_1", o.RazorpayPaymentID)
	assert.Empty(t, o.RazorpaySignature)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Jeera", o.Items[0].Name)
}

func TestCSVOrderRepo_GetByOrderID(t *testing.T) {
	ctx := context.Background()
	repo := NewCSVOrderRepo(t.TempDir())
	require.NoError(t, repo.Create(ctx, sampleOrder("ORD00000009", time.Now())))

	o, err := repo.GetByOrderID(ctx, "ORD00000009")
	require.NoError(t, err)
	assert.Equal(t, "Asha", o.Name)

	exists, err := repo.Exists(ctx, "ORD00000010")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCSVStatusRepo_Upsert(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := NewCSVStatusRepo(dir)

	require.NoError(t, repo.Upsert(ctx, "ORD1", models.ShippingShipped))
	require.NoError(t, repo.Upsert(ctx, "ORD2", models.ShippingPending))
	require.NoError(t, repo.Upsert(ctx, "ORD1", models.ShippingDelivered))

	statuses, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]models.ShippingStatus{
		"ORD1": models.ShippingDelivered,
		"ORD2": models.ShippingPending,
	}, statuses)

	raw, err := os.ReadFile(filepath.Join(dir, StatusFile))
	require.NoError(t, err)
	assert.Equal(t, "ORD1,Delivered\nORD2,Pending\n", string(raw))

	tmp, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, tmp, "temp files must not be left behind")
}

func TestCSVStatusRepo_ConcurrentUpsertsDoNotLoseWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewCSVStatusRepo(t.TempDir())

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "ORD" + string(rune('A'+i))
			assert.NoError(t, repo.Upsert(ctx, id, models.ShippingShipped))
		}(i)
	}
	wg.Wait()

	statuses, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, statuses, n)
}

func TestCSVContactRepo(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	legacy := "2024-01-01 09:00:00,Old,old@example.com,,Hi,Legacy row\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ContactFile), []byte(legacy), 0o644))

	repo := NewCSVContactRepo(dir)
	require.NoError(t, repo.Create(ctx, &models.ContactMessage{
		ID: "m-1", Name: "Ravi", Email: "ravi@example.com", Subject: "Bulk",
		Message: "line one\nline two", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	msgs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "m-1", msgs[0].ID)
	assert.Equal(t, "line one\nline two", msgs[0].Message)
	assert.Equal(t, "", msgs[1].ID)
	assert.Equal(t, "Legacy row", msgs[1].Message)
}

func TestMemoryAdminRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAdminRepo()

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	user := &models.AdminUser{ID: "a1", Email: "admin@example.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, user))
	assert.ErrorIs(t, repo.Create(ctx, user), pkg.ErrAlreadyExists)

	got, err := repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}
