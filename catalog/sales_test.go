package catalog

import (
	"context"
	"testing"
	"time"

	"bookstore/domain"
	"bookstore/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockOf(t *testing.T, svc *Service, title string) int {
	t.Helper()
	p, ok := svc.GetProduct(context.Background(), title)
	require.True(t, ok, "product %q missing", title)
	return p.Quantity
}

func Test_Service_RegisterSale_Scenario(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	sale, err := svc.RegisterSale(ctx, "Ana", "El Principito", 3, dec("5.0"))
	require.NoError(t, err)
	assert.Equal(t, 5, stockOf(t, svc, "El Principito"))
	assert.True(t, sale.Gross.Equal(dec("90.00")))
	assert.True(t, sale.Net.Equal(dec("85.00")))
	assert.True(t, sale.Price.Equal(dec("30")))
	assert.Equal(t, "Antoine de Saint-Exupéry", sale.Author)
	assert.Equal(t, time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC), sale.Date)
	assert.NotEqual(t, uuid.Nil, sale.ID)

	_, err = svc.RegisterSale(ctx, "Ana", "El Principito", 6, decimal.Zero)
	require.Error(t, err)
	assert.Equal(t, domain.KindInsufficientStock, domain.KindOf(err))
	assert.Equal(t, 5, stockOf(t, svc, "El Principito"))

	sales, err := svc.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func Test_Service_RegisterSale_FailuresAreAtomic(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		client   string
		title    string
		qty      int
		discount decimal.Decimal
		wantKind domain.ErrorKind
	}{
		{name: "unknown product", client: "Ana", title: "Rayuela", qty: 1, discount: decimal.Zero, wantKind: domain.KindNotFound},
		{name: "zero quantity", client: "Ana", title: "El Principito", qty: 0, discount: decimal.Zero, wantKind: domain.KindInvalidField},
		{name: "negative quantity", client: "Ana", title: "El Principito", qty: -2, discount: decimal.Zero, wantKind: domain.KindInvalidField},
		{name: "over stock", client: "Ana", title: "El Principito", qty: 9, discount: decimal.Zero, wantKind: domain.KindInsufficientStock},
		{name: "negative discount", client: "Ana", title: "El Principito", qty: 1, discount: dec("-1"), wantKind: domain.KindInvalidDiscount},
		{name: "discount equals gross", client: "Ana", title: "El Principito", qty: 2, discount: dec("60"), wantKind: domain.KindInvalidDiscount},
		{name: "discount above gross", client: "Ana", title: "El Principito", qty: 1, discount: dec("31"), wantKind: domain.KindInvalidDiscount},
		{name: "invalid client", client: "R2D2", title: "El Principito", qty: 1, discount: decimal.Zero, wantKind: domain.KindInvalidField},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newSeededService(t)

			_, err := svc.RegisterSale(ctx, tc.client, tc.title, tc.qty, tc.discount)
			require.Error(t, err)
			assert.Equal(t, tc.wantKind, domain.KindOf(err))

			assert.Equal(t, 8, stockOf(t, svc, "El Principito"))
			sales, err := svc.ListSales(ctx)
			require.NoError(t, err)
			assert.Empty(t, sales)
		})
	}
}

func Test_Service_StockNeverNegative(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	for _, qty := range []int{3, 3, 3, 1, 1, 5} {
		before := stockOf(t, svc, "Cien años de soledad")
		_, err := svc.RegisterSale(ctx, "Luis", "Cien años de soledad", qty, decimal.Zero)
		after := stockOf(t, svc, "Cien años de soledad")
		if qty > before {
			require.Error(t, err)
			assert.Equal(t, before, after)
		} else {
			require.NoError(t, err)
			assert.Equal(t, before-qty, after)
		}
		assert.GreaterOrEqual(t, after, 0)
	}
	assert.Equal(t, 0, stockOf(t, svc, "Cien años de soledad"))
}

func Test_Service_CanSell(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	assert.NoError(t, svc.CanSell(ctx, "El Principito", 8))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(svc.CanSell(ctx, "Paula", 1)))
	assert.Equal(t, domain.KindInvalidField, domain.KindOf(svc.CanSell(ctx, "El Principito", 0)))
	assert.Equal(t, domain.KindInsufficientStock, domain.KindOf(svc.CanSell(ctx, "El Principito", 9)))
	assert.Equal(t, 8, stockOf(t, svc, "El Principito"))
}

func Test_Service_SaleIsSnapshot(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	_, err := svc.RegisterSale(ctx, "Ana", "La casa de los espíritus", 2, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, svc.UpdatePrice(ctx, "La casa de los espíritus", dec("75")))
	require.NoError(t, svc.DeleteProduct(ctx, "La casa de los espíritus"))

	sales, err := svc.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.True(t, sales[0].Price.Equal(dec("50")))
	assert.True(t, sales[0].Gross.Equal(dec("100")))
	assert.Equal(t, "Isabel Allende", sales[0].Author)

	sales[0].Client = "Mutated"
	again, _ := svc.ListSales(ctx)
	assert.Equal(t, "Ana", again[0].Client)
}

func Test_Service_TopProducts(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	mustSell := func(title string, qty int) {
		t.Helper()
		_, err := svc.RegisterSale(ctx, "Ana", title, qty, decimal.Zero)
		require.NoError(t, err)
	}

	top, err := svc.TopProducts(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, top)

	mustSell("Fundamentos de Python", 2)
	mustSell("El Principito", 1)
	mustSell("Cien años de soledad", 4)
	mustSell("El Principito", 1)
	mustSell("Historia mínima de Colombia", 1)

	top, err = svc.TopProducts(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []domain.ProductSales{
		{Title: "Cien años de soledad", Quantity: 4},
		{Title: "Fundamentos de Python", Quantity: 2},
		{Title: "El Principito", Quantity: 2},
	}, top)

	all, err := svc.TopProducts(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "Historia mínima de Colombia", all[3].Title)

	none, err := svc.TopProducts(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func Test_Service_SalesByAuthorAndIncome(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	_, err := svc.RegisterSale(ctx, "Ana", "El Principito", 3, dec("5"))
	require.NoError(t, err)
	_, err = svc.RegisterSale(ctx, "Luis", "La casa de los espíritus", 1, dec("10.50"))
	require.NoError(t, err)
	_, err = svc.RegisterSale(ctx, "Marta", "El Principito", 1, decimal.Zero)
	require.NoError(t, err)

	byAuthor, err := svc.SalesByAuthor(ctx)
	require.NoError(t, err)
	require.Len(t, byAuthor, 2)
	assert.Equal(t, "Antoine de Saint-Exupéry", byAuthor[0].Author)
	assert.True(t, byAuthor[0].Net.Equal(dec("115")))
	assert.Equal(t, "Isabel Allende", byAuthor[1].Author)
	assert.True(t, byAuthor[1].Net.Equal(dec("39.50")))

	gross, net, err := svc.IncomeSummary(ctx)
	require.NoError(t, err)
	assert.True(t, gross.Equal(dec("170")), "gross %s", gross)
	assert.True(t, net.Equal(dec("154.50")), "net %s", net)

	sales, _ := svc.ListSales(ctx)
	sumGross, sumNet := decimal.Zero, decimal.Zero
	for _, s := range sales {
		assert.True(t, s.Net.Equal(s.Gross.Sub(s.Discount)))
		sumGross = sumGross.Add(s.Gross)
		sumNet = sumNet.Add(s.Net)
	}
	assert.True(t, gross.Equal(sumGross))
	assert.True(t, net.Equal(sumNet))
}

func Test_Service_RegisterSale_RestoresStockWhenLedgerFails(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewInMemoryStore(), failingLedger{})
	require.NoError(t, svc.Seed(ctx, DefaultProducts()))

	_, err := svc.RegisterSale(ctx, "Ana", "El Principito", 2, decimal.Zero)
	require.Error(t, err)
	assert.True(t, domain.IsUnexpectedError(err))
	assert.Equal(t, 8, stockOf(t, svc, "El Principito"))
}

type failingLedger struct{}

func (failingLedger) Append(context.Context, domain.Sale) error {
	return assert.AnError
}

func (failingLedger) List(context.Context) ([]domain.Sale, error) {
	return nil, nil
}
