package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"bookstore/catalog"
	"bookstore/domain"
	"bookstore/util"

	"github.com/shopspring/decimal"
)

const menuText = `
=== Inventory & Sales System ===
1. Add product
2. Search product
3. Update price
4. Update quantity
5. Delete product
6. View inventory
7. Total inventory value
8. Register sale
9. View sales
10. Reports (Top %d, by author, income)
11. Quit
`

// prompter reads console input, asking again until a value is well formed.
type prompter struct {
	r *bufio.Reader
	w io.Writer
}

func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.w, label)
	s, err := p.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && s != "" {
			return strings.TrimSpace(s), nil
		}
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) text(label string) (string, error) {
	for {
		s, err := p.line(label)
		if err != nil {
			return "", err
		}
		if util.IsValidText(s) {
			return s, nil
		}
		fmt.Fprintln(p.w, "Please enter only letters and spaces (not empty).")
	}
}

func (p *prompter) number(label string) (decimal.Decimal, error) {
	for {
		s, err := p.line(label)
		if err != nil {
			return decimal.Zero, err
		}
		d, perr := util.ParsePositiveNumber(s)
		switch {
		case perr == nil:
			return d, nil
		case errors.Is(perr, util.ErrNotPositive):
			fmt.Fprintln(p.w, "Enter a number greater than 0.")
		default:
			fmt.Fprintln(p.w, "Please enter a valid decimal number (e.g., 12.50).")
		}
	}
}

func (p *prompter) integer(label string) (int, error) {
	for {
		s, err := p.line(label)
		if err != nil {
			return 0, err
		}
		n, perr := util.ParsePositiveInteger(s)
		switch {
		case perr == nil:
			return n, nil
		case errors.Is(perr, util.ErrNotPositive):
			fmt.Fprintln(p.w, "Enter an integer greater than 0.")
		default:
			fmt.Fprintln(p.w, "Please enter a valid integer (e.g., 3).")
		}
	}
}

func (p *prompter) discount(label string) (decimal.Decimal, error) {
	for {
		s, err := p.line(label)
		if err != nil {
			return decimal.Zero, err
		}
		d, perr := util.ParseDiscount(s)
		if perr == nil {
			return d, nil
		}
		fmt.Fprintln(p.w, "Enter a discount of 0 or more, or press Enter for none.")
	}
}

type menu struct {
	svc *catalog.Service
	in  *prompter
	out io.Writer
	top int
}

// runMenu drives the numbered menu until the user quits or input ends.
func runMenu(ctx context.Context, svc *catalog.Service, in io.Reader, out io.Writer, top int) error {
	m := &menu{
		svc: svc,
		in:  &prompter{r: bufio.NewReader(in), w: out},
		out: out,
		top: top,
	}
	actions := map[string]func(context.Context) error{
		"1":  m.addProduct,
		"2":  m.searchProduct,
		"3":  m.updatePrice,
		"4":  m.updateQuantity,
		"5":  m.deleteProduct,
		"6":  m.viewInventory,
		"7":  m.totalValue,
		"8":  m.registerSale,
		"9":  m.viewSales,
		"10": m.reports,
	}

	fmt.Fprintln(out, "Welcome to the bookstore inventory & sales system.")
	for {
		fmt.Fprintf(out, menuText, top)
		choice, err := m.in.line("Choose an option (1-11): ")
		if err != nil {
			return endOfInput(out, err)
		}
		if choice == "11" {
			fmt.Fprintln(out, "Thank you. Goodbye!")
			return nil
		}
		action, ok := actions[choice]
		if !ok {
			fmt.Fprintln(out, "Please select a valid option (1-11).")
			continue
		}
		if err := m.dispatch(ctx, action); err != nil {
			return endOfInput(out, err)
		}
	}
}

func endOfInput(out io.Writer, err error) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(out, "\nGoodbye!")
		return nil
	}
	return err
}

// dispatch runs one menu action. Input errors are returned; anything else,
// including a panic, is reported and the menu carries on.
func (m *menu) dispatch(ctx context.Context, action func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("menu action panicked", "panic", r)
			fmt.Fprintf(m.out, "An unexpected error occurred: %v\n", r)
			err = nil
		}
	}()
	return action(ctx)
}

// notify prints the outcome of a catalog call.
func (m *menu) notify(err error, success string) {
	if err != nil {
		fmt.Fprintln(m.out, failureMessage(err))
		return
	}
	fmt.Fprintln(m.out, success)
}

func (m *menu) addProduct(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- Add product ---")
	title, err := m.in.text("Title: ")
	if err != nil {
		return err
	}
	author, err := m.in.text("Author: ")
	if err != nil {
		return err
	}
	category, err := m.in.text("Category: ")
	if err != nil {
		return err
	}
	price, err := m.in.number("Price: ")
	if err != nil {
		return err
	}
	qty, err := m.in.integer("Quantity in stock: ")
	if err != nil {
		return err
	}

	p, err := m.svc.AddProduct(ctx, title, author, category, price, qty)
	if err == nil {
		slog.Info("product added", "title", p.Title)
	}
	m.notify(err, fmt.Sprintf("Product '%s' added successfully.", p.Title))
	return nil
}

func (m *menu) searchProduct(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- Search product ---")
	title, err := m.in.text("Product title: ")
	if err != nil {
		return err
	}
	p, ok := m.svc.GetProduct(ctx, title)
	if !ok {
		fmt.Fprintln(m.out, "Product not found.")
		return nil
	}
	printProduct(m.out, p)
	return nil
}

func (m *menu) updatePrice(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- Update price ---")
	title, err := m.in.text("Product title: ")
	if err != nil {
		return err
	}
	price, err := m.in.number("New price: ")
	if err != nil {
		return err
	}
	m.notify(m.svc.UpdatePrice(ctx, title, price), "Price updated successfully.")
	return nil
}

func (m *menu) updateQuantity(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- Update quantity ---")
	title, err := m.in.text("Product title: ")
	if err != nil {
		return err
	}
	qty, err := m.in.integer("New quantity: ")
	if err != nil {
		return err
	}
	m.notify(m.svc.UpdateQuantity(ctx, title, qty), "Quantity updated successfully.")
	return nil
}

func (m *menu) deleteProduct(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- Delete product ---")
	title, err := m.in.text("Product title: ")
	if err != nil {
		return err
	}
	m.notify(m.svc.DeleteProduct(ctx, title), fmt.Sprintf("Product '%s' deleted.", title))
	return nil
}

func (m *menu) viewInventory(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- Inventory ---")
	products, err := m.svc.FindProducts(ctx, domain.ListFilter{SortBy: "title"})
	if err != nil {
		fmt.Fprintln(m.out, failureMessage(err))
		return nil
	}
	printInventory(m.out, products)
	return nil
}

func (m *menu) totalValue(ctx context.Context) error {
	inv, err := m.svc.ListInventory(ctx)
	if err != nil {
		fmt.Fprintln(m.out, failureMessage(err))
		return nil
	}
	fmt.Fprintf(m.out, "\nTotal inventory value: %s\n", money(catalog.TotalInventoryValue(inv)))
	return nil
}

func (m *menu) registerSale(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- Register sale ---")
	client, err := m.in.text("Client name: ")
	if err != nil {
		return err
	}

	available, err := m.svc.AvailableProducts(ctx)
	if err != nil {
		fmt.Fprintln(m.out, failureMessage(err))
		return nil
	}
	if len(available) == 0 {
		fmt.Fprintln(m.out, "No products available to sell.")
		return nil
	}
	for i, p := range available {
		fmt.Fprintf(m.out, "%d. %s (stock: %d) - Price: %s\n", i+1, p.Title, p.Quantity, money(p.Price))
	}

	var idx int
	for {
		idx, err = m.in.integer("Choose product number: ")
		if err != nil {
			return err
		}
		if idx <= len(available) {
			break
		}
		fmt.Fprintln(m.out, "Invalid product number (1-"+strconv.Itoa(len(available))+").")
	}
	selected := available[idx-1]

	qty, err := m.in.integer("Quantity to sell: ")
	if err != nil {
		return err
	}
	discount, err := m.in.discount("Discount (press Enter if none): ")
	if err != nil {
		return err
	}

	sale, err := m.svc.RegisterSale(ctx, client, selected.Title, qty, discount)
	if err != nil {
		fmt.Fprintln(m.out, failureMessage(err))
		return nil
	}
	slog.Info("sale registered", "sale_id", sale.ID, "title", sale.ProductTitle, "net", sale.Net.String())
	fmt.Fprintf(m.out, "Sale registered successfully. Net: %s\n", money(sale.Net))
	return nil
}

func (m *menu) viewSales(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- Registered sales ---")
	sales, err := m.svc.ListSales(ctx)
	if err != nil {
		fmt.Fprintln(m.out, failureMessage(err))
		return nil
	}
	printSales(m.out, sales)
	return nil
}

func (m *menu) reports(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- Reports ---")
	r, err := buildReport(ctx, m.svc, m.top)
	if err != nil {
		fmt.Fprintln(m.out, failureMessage(err))
		return nil
	}
	printReport(m.out, r)
	return nil
}
