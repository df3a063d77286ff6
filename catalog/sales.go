package catalog

import (
	"context"
	"sort"
	"strings"
	"time"

	"bookstore/domain"
	"bookstore/util"

	"github.com/shopspring/decimal"
)

// CanSell reports whether qty units of title could be sold right now.
func (s *Service) CanSell(ctx context.Context, title string, qty int) (err error) {
	defer s.recoverOp("checking sale", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.products.Get(ctx, strings.TrimSpace(title))
	if err != nil {
		return err
	}
	if !util.IsPositiveInteger(qty) {
		return domain.NewInvalidFieldError("quantity", "must be greater than zero", qty)
	}
	if qty > p.Quantity {
		return domain.NewInsufficientStockError(p.Title, qty, p.Quantity)
	}
	return nil
}

// RegisterSale sells qty units of title to client, decrementing stock and
// appending a snapshot to the ledger. Discount must satisfy 0 <= discount < gross.
func (s *Service) RegisterSale(ctx context.Context, client, title string, qty int, discount decimal.Decimal) (sale domain.Sale, err error) {
	defer s.recoverOp("registering sale", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	client = strings.TrimSpace(client)
	if !util.IsValidText(client) {
		return domain.Sale{}, domain.NewInvalidFieldError("client", "must contain only letters and spaces", client)
	}

	quantity := decimal.NewFromInt(int64(qty))
	p, err := s.products.Withdraw(ctx, strings.TrimSpace(title), qty, func(p domain.Product) error {
		gross := p.Price.Mul(quantity)
		if discount.IsNegative() || discount.GreaterThanOrEqual(gross) {
			return domain.NewInvalidDiscountError(discount, gross)
		}
		return nil
	})
	if err != nil {
		return domain.Sale{}, err
	}

	gross := p.Price.Mul(quantity)
	sale = domain.Sale{
		ID:           s.newID(),
		Client:       client,
		ProductTitle: p.Title,
		Author:       p.Author,
		Quantity:     qty,
		Date:         dateOf(s.now()),
		Price:        p.Price,
		Gross:        gross,
		Discount:     discount,
		Net:          gross.Sub(discount),
	}

	// stock is already withdrawn; the commit must not be abandoned halfway
	commitCtx := context.WithoutCancel(ctx)
	if err := s.sales.Append(commitCtx, sale); err != nil {
		if rerr := s.products.UpdateQuantity(commitCtx, p.Title, p.Quantity); rerr != nil {
			s.logger.Error("restoring stock failed", "title", p.Title, "error", rerr)
		}
		return domain.Sale{}, domain.NewUnexpectedError("registering sale", err)
	}
	return sale, nil
}

// ListSales returns a copy of every recorded sale in registration order.
func (s *Service) ListSales(ctx context.Context) (out []domain.Sale, err error) {
	defer s.recoverOp("listing sales", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sales.List(ctx)
}

// TopProducts returns up to n titles by total units sold, highest first.
// Titles with equal totals keep the order in which they were first sold.
func (s *Service) TopProducts(ctx context.Context, n int) (out []domain.ProductSales, err error) {
	defer s.recoverOp("building top products", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	sales, err := s.sales.List(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []domain.ProductSales{}, nil
	}

	index := make(map[string]int)
	totals := make([]domain.ProductSales, 0)
	for _, sale := range sales {
		i, ok := index[sale.ProductTitle]
		if !ok {
			i = len(totals)
			index[sale.ProductTitle] = i
			totals = append(totals, domain.ProductSales{Title: sale.ProductTitle})
		}
		totals[i].Quantity += sale.Quantity
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Quantity > totals[j].Quantity
	})
	if len(totals) > n {
		totals = totals[:n]
	}
	return totals, nil
}

// SalesByAuthor sums net income per author as recorded on each sale,
// in the order authors first appear in the ledger.
func (s *Service) SalesByAuthor(ctx context.Context) (out []domain.AuthorIncome, err error) {
	defer s.recoverOp("grouping sales by author", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	sales, err := s.sales.List(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	out = make([]domain.AuthorIncome, 0)
	for _, sale := range sales {
		i, ok := index[sale.Author]
		if !ok {
			i = len(out)
			index[sale.Author] = i
			out = append(out, domain.AuthorIncome{Author: sale.Author, Net: decimal.Zero})
		}
		out[i].Net = out[i].Net.Add(sale.Net)
	}
	return out, nil
}

// IncomeSummary returns total gross and total net income across all sales.
func (s *Service) IncomeSummary(ctx context.Context) (gross, net decimal.Decimal, err error) {
	defer s.recoverOp("summarizing income", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	sales, err := s.sales.List(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	gross, net = decimal.Zero, decimal.Zero
	for _, sale := range sales {
		gross = gross.Add(sale.Gross)
		net = net.Add(sale.Net)
	}
	return gross, net, nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
