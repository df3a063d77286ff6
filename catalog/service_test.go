package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookstore/domain"
	"bookstore/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.March, 14, 16, 30, 0, 0, time.UTC)

func newSeededService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(store.NewInMemoryStore(), store.NewInMemoryLedger(),
		WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, svc.Seed(context.Background(), DefaultProducts()))
	return svc
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func Test_Service_AddProduct(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		title    string
		author   string
		category string
		price    decimal.Decimal
		quantity int
		wantKind domain.ErrorKind
		field    string
	}{
		{name: "Success - accented text", title: "  Rayuela  ", author: "Julio Cortázar", category: "Novel", price: dec("35.5"), quantity: 2},
		{name: "Error - digits in title", title: "123Book", author: "Author", category: "Cat", price: dec("10"), quantity: 1, wantKind: domain.KindInvalidField, field: "title"},
		{name: "Error - duplicate after trim", title: " El Principito ", author: "Someone", category: "Children", price: dec("1"), quantity: 1, wantKind: domain.KindDuplicateTitle},
		{name: "Error - duplicate with bad fields", title: "El Principito", author: "", category: "", price: dec("-1"), quantity: 0, wantKind: domain.KindDuplicateTitle},
		{name: "Error - invalid author", title: "Ficciones", author: "J. L. Borges", category: "Stories", price: dec("20"), quantity: 1, wantKind: domain.KindInvalidField, field: "author"},
		{name: "Error - invalid category", title: "Ficciones", author: "Borges", category: "Sci Fi 2", price: dec("20"), quantity: 1, wantKind: domain.KindInvalidField, field: "category"},
		{name: "Error - zero price", title: "Ficciones", author: "Borges", category: "Stories", price: decimal.Zero, quantity: 1, wantKind: domain.KindInvalidField, field: "price"},
		{name: "Error - zero quantity", title: "Ficciones", author: "Borges", category: "Stories", price: dec("20"), quantity: 0, wantKind: domain.KindInvalidField, field: "quantity"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newSeededService(t)

			p, err := svc.AddProduct(ctx, tc.title, tc.author, tc.category, tc.price, tc.quantity)
			if tc.wantKind != domain.KindNone {
				require.Error(t, err)
				assert.Equal(t, tc.wantKind, domain.KindOf(err))
				if tc.field != "" {
					var ife *domain.InvalidFieldError
					require.True(t, errors.As(err, &ife))
					assert.Equal(t, tc.field, ife.Field)
				}
				return
			}

			require.NoError(t, err)
			got, ok := svc.GetProduct(ctx, tc.title)
			require.True(t, ok)
			assert.Equal(t, p, got)
			assert.Equal(t, "Rayuela", got.Title)
			assert.Equal(t, "Julio Cortázar", got.Author)
			assert.True(t, got.Price.Equal(dec("35.5")))
			assert.Equal(t, 2, got.Quantity)
		})
	}
}

func Test_Service_AddDuplicateKeepsExisting(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	_, err := svc.AddProduct(ctx, "El Principito", "Otro Autor", "Novel", dec("99"), 99)
	require.True(t, domain.IsDuplicateTitleError(err))

	got, ok := svc.GetProduct(ctx, "El Principito")
	require.True(t, ok)
	assert.Equal(t, "Antoine de Saint-Exupéry", got.Author)
	assert.Equal(t, 8, got.Quantity)
	assert.True(t, got.Price.Equal(dec("30")))
}

func Test_Service_AddProductTinyPrice(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	p, err := svc.AddProduct(ctx, "Ficciones", "Borges", "Stories", dec("1e-400"), 1)
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(dec("1e-400")))

	// the update path agrees with add
	require.NoError(t, svc.UpdatePrice(ctx, "Ficciones", dec("2e-400")))
}

func Test_Service_UpdatesNeverUpsert(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	err := svc.UpdatePrice(ctx, "Rayuela", dec("10"))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	err = svc.UpdateQuantity(ctx, "Rayuela", 3)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, ok := svc.GetProduct(ctx, "Rayuela")
	assert.False(t, ok)
}

func Test_Service_UpdatePriceAndQuantity(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	require.NoError(t, svc.UpdatePrice(ctx, " El Principito ", dec("32.90")))
	require.NoError(t, svc.UpdateQuantity(ctx, "El Principito", 12))

	got, _ := svc.GetProduct(ctx, "El Principito")
	assert.True(t, got.Price.Equal(dec("32.9")))
	assert.Equal(t, 12, got.Quantity)

	assert.Equal(t, domain.KindInvalidField, domain.KindOf(svc.UpdatePrice(ctx, "El Principito", dec("-1"))))
}

// Stock can reach zero through a sale but never through an explicit update.
func Test_Service_ZeroStockAsymmetry(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	err := svc.UpdateQuantity(ctx, "Historia mínima de Colombia", 0)
	assert.Equal(t, domain.KindInvalidField, domain.KindOf(err))

	_, err = svc.RegisterSale(ctx, "Ana", "Historia mínima de Colombia", 4, decimal.Zero)
	require.NoError(t, err)

	got, _ := svc.GetProduct(ctx, "Historia mínima de Colombia")
	assert.Equal(t, 0, got.Quantity)

	available, err := svc.AvailableProducts(ctx)
	require.NoError(t, err)
	for _, p := range available {
		assert.NotEqual(t, "Historia mínima de Colombia", p.Title)
	}
	assert.Len(t, available, 4)
}

func Test_Service_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	_, err := svc.RegisterSale(ctx, "Ana", "Fundamentos de Python", 1, decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, "Fundamentos de Python"))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(svc.DeleteProduct(ctx, "Fundamentos de Python")))

	sales, err := svc.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "Fundamentos de Python", sales[0].ProductTitle)
}

func Test_Service_ListInventoryIsCopy(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	inv, err := svc.ListInventory(ctx)
	require.NoError(t, err)
	require.Len(t, inv, 5)

	p := inv["El Principito"]
	p.Quantity = 1000
	inv["El Principito"] = p
	delete(inv, "Cien años de soledad")

	got, _ := svc.GetProduct(ctx, "El Principito")
	assert.Equal(t, 8, got.Quantity)
	_, ok := svc.GetProduct(ctx, "Cien años de soledad")
	assert.True(t, ok)
}

func Test_TotalInventoryValue(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	inv, err := svc.ListInventory(ctx)
	require.NoError(t, err)
	assert.True(t, TotalInventoryValue(inv).Equal(dec("1450.00")), "got %s", TotalInventoryValue(inv))
	assert.True(t, TotalInventoryValue(nil).IsZero())
}

func Test_Service_FindProducts(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	novels, err := svc.FindProducts(ctx, domain.ListFilter{Category: "Novel", SortBy: "price", Order: "desc"})
	require.NoError(t, err)
	require.Len(t, novels, 2)
	assert.Equal(t, "La casa de los espíritus", novels[0].Title)
	assert.Equal(t, "Cien años de soledad", novels[1].Title)
}

func Test_Service_RecoversPanics(t *testing.T) {
	ctx := context.Background()
	svc := NewService(panicStore{}, store.NewInMemoryLedger())

	_, err := svc.AddProduct(ctx, "Rayuela", "Cortazar", "Novel", dec("1"), 1)
	require.Error(t, err)
	assert.True(t, domain.IsUnexpectedError(err))

	_, ok := svc.GetProduct(ctx, "Rayuela")
	assert.False(t, ok)

	err = svc.UpdatePrice(ctx, "Rayuela", dec("2"))
	assert.Equal(t, domain.KindUnexpected, domain.KindOf(err))
}

// panicStore simulates a store failing at runtime
type panicStore struct{ domain.ProductStore }

func (panicStore) Get(context.Context, string) (domain.Product, error) {
	panic("store exploded")
}

func (panicStore) UpdatePrice(context.Context, string, decimal.Decimal) error {
	var m map[string]int
	m["boom"]++
	return nil
}
