// Package cli provides the Cobra-based console for the bookstore.
package cli

import (
	"bookstore/catalog"
	"bookstore/domain"
	"bookstore/store"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rootCmd = &cobra.Command{
		Use:           "bookstore",
		Short:         "Bookstore inventory and sales console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// tests and the shell reuse an existing catalog
			if catalogSvc != nil {
				return nil
			}

			if cfg := viper.GetString("config"); cfg != "" {
				viper.SetConfigFile(cfg)
				if err := viper.ReadInConfig(); err != nil {
					return err
				}
			}

			slog.SetDefault(slog.New(
				slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: parseLevel(viper.GetString("log-level"))}),
			))

			svc := catalog.NewService(store.NewInMemoryStore(), store.NewInMemoryLedger(),
				catalog.WithLogger(slog.Default()))
			if viper.GetBool("seed") {
				if err := svc.Seed(cmd.Context(), catalog.DefaultProducts()); err != nil {
					return err
				}
			}
			catalogSvc = svc
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd.Context(), catalogSvc, cmd.InOrStdin(), cmd.OutOrStdout(), viper.GetInt("top"))
		},
	}

	catalogSvc *catalog.Service
)

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func printJSON(w io.Writer, v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level")
	rootCmd.PersistentFlags().Bool("seed", true, "start with the default catalog")
	rootCmd.PersistentFlags().Int("top", 3, "number of titles in the best-sellers report")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("seed", rootCmd.PersistentFlags().Lookup("seed"))
	viper.BindPFlag("top", rootCmd.PersistentFlags().Lookup("top"))
	viper.SetEnvPrefix("BOOKSTORE")
	viper.AutomaticEnv()

	rootCmd.AddCommand(&cobra.Command{
		Use:   "menu",
		Short: "Interactive numbered menu (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd.Context(), catalogSvc, cmd.InOrStdin(), cmd.OutOrStdout(), viper.GetInt("top"))
		},
	})
	rootCmd.AddCommand(newShellCmd())

	// add
	var title, author, category string
	var price decimalFlag
	var quantity int
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			p, err := catalogSvc.AddProduct(cmd.Context(), title, author, category, price.Decimal, quantity)
			if err != nil {
				slog.Error("add failed", "title", title, "error", err)
				return present(err)
			}
			slog.Info("product added", "title", p.Title, "duration_ms", time.Since(start).Milliseconds())
			printJSON(cmd.OutOrStdout(), p)
			return nil
		},
	}
	addCmd.Flags().StringVar(&title, "title", "", "title")
	addCmd.Flags().StringVar(&author, "author", "", "author")
	addCmd.Flags().StringVar(&category, "category", "", "category")
	addCmd.Flags().Var(&price, "price", "unit price")
	addCmd.Flags().IntVar(&quantity, "quantity", 0, "units in stock")
	rootCmd.AddCommand(addCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get <title>",
		Short: "Get product by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := catalogSvc.GetProduct(cmd.Context(), strings.Join(args, " "))
			if !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), "Product not found.")
				return nil
			}
			printJSON(cmd.OutOrStdout(), p)
			return nil
		},
	}
	rootCmd.AddCommand(getCmd)

	// update-price
	var newPrice decimalFlag
	updatePriceCmd := &cobra.Command{
		Use:   "update-price <title>",
		Short: "Update a product's price",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := strings.Join(args, " ")
			if err := catalogSvc.UpdatePrice(cmd.Context(), t, newPrice.Decimal); err != nil {
				slog.Error("update price failed", "title", t, "error", err)
				return present(err)
			}
			slog.Info("price updated", "title", t, "price", newPrice.String())
			fmt.Fprintln(cmd.OutOrStdout(), "Price updated successfully.")
			return nil
		},
	}
	updatePriceCmd.Flags().Var(&newPrice, "price", "new unit price")
	rootCmd.AddCommand(updatePriceCmd)

	// update-quantity
	var newQuantity int
	updateQuantityCmd := &cobra.Command{
		Use:   "update-quantity <title>",
		Short: "Update a product's stock",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := strings.Join(args, " ")
			if err := catalogSvc.UpdateQuantity(cmd.Context(), t, newQuantity); err != nil {
				slog.Error("update quantity failed", "title", t, "error", err)
				return present(err)
			}
			slog.Info("quantity updated", "title", t, "quantity", newQuantity)
			fmt.Fprintln(cmd.OutOrStdout(), "Quantity updated successfully.")
			return nil
		},
	}
	updateQuantityCmd.Flags().IntVar(&newQuantity, "quantity", 0, "new units in stock")
	rootCmd.AddCommand(updateQuantityCmd)

	// delete
	var force bool
	deleteCmd := &cobra.Command{
		Use:   "delete <title>",
		Short: "Delete a product",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := strings.Join(args, " ")
			if !force {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete %s? (y/N): ", t)
				resp, _ := inputReader(cmd).ReadString('\n')
				resp = strings.TrimSpace(resp)
				if resp != "y" && resp != "Y" {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}
			if err := catalogSvc.DeleteProduct(cmd.Context(), t); err != nil {
				return present(err)
			}
			slog.Info("product deleted", "title", t)
			fmt.Fprintf(cmd.OutOrStdout(), "Product '%s' deleted.\n", strings.TrimSpace(t))
			return nil
		},
	}
	deleteCmd.Flags().BoolVar(&force, "force", false, "skip confirmation")
	rootCmd.AddCommand(deleteCmd)

	// list
	var lCategory, lSort, lOrder, lOutput string
	var lMin, lMax decimalFlag
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := domain.ListFilter{
				Category: lCategory,
				SortBy:   lSort,
				Order:    lOrder,
			}
			if lMin.set {
				filter.MinPrice = &lMin.Decimal
			}
			if lMax.set {
				filter.MaxPrice = &lMax.Decimal
			}
			out, err := catalogSvc.FindProducts(cmd.Context(), filter)
			if err != nil {
				return present(err)
			}
			if lOutput == "json" {
				printJSON(cmd.OutOrStdout(), out)
				return nil
			}
			printInventory(cmd.OutOrStdout(), out)
			return nil
		},
	}
	listCmd.Flags().StringVar(&lCategory, "category", "", "category")
	listCmd.Flags().Var(&lMin, "min-price", "min price")
	listCmd.Flags().Var(&lMax, "max-price", "max price")
	listCmd.Flags().StringVar(&lSort, "sort-by", "title", "sort field: title|author|price|quantity")
	listCmd.Flags().StringVar(&lOrder, "order", "asc", "sort order")
	listCmd.Flags().StringVar(&lOutput, "output", "", "output format")
	rootCmd.AddCommand(listCmd)

	// value
	rootCmd.AddCommand(&cobra.Command{
		Use:   "value",
		Short: "Total inventory value",
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := catalogSvc.ListInventory(cmd.Context())
			if err != nil {
				return present(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total inventory value: %s\n", money(catalog.TotalInventoryValue(inv)))
			return nil
		},
	})

	// sell
	var client, sTitle string
	var sQuantity int
	var discount decimalFlag
	sellCmd := &cobra.Command{
		Use:   "sell",
		Short: "Register a sale",
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			sale, err := catalogSvc.RegisterSale(cmd.Context(), client, sTitle, sQuantity, discount.Decimal)
			if err != nil {
				slog.Error("sale failed", "title", sTitle, "client", client, "error", err)
				return present(err)
			}
			slog.Info("sale registered", "sale_id", sale.ID, "title", sale.ProductTitle,
				"net", sale.Net.String(), "duration_ms", time.Since(start).Milliseconds())
			printJSON(cmd.OutOrStdout(), sale)
			return nil
		},
	}
	sellCmd.Flags().StringVar(&client, "client", "", "client name")
	sellCmd.Flags().StringVar(&sTitle, "title", "", "product title")
	sellCmd.Flags().IntVar(&sQuantity, "quantity", 0, "units sold")
	sellCmd.Flags().Var(&discount, "discount", "discount amount")
	rootCmd.AddCommand(sellCmd)

	// sales
	var salesOutput string
	salesCmd := &cobra.Command{
		Use:   "sales",
		Short: "List registered sales",
		RunE: func(cmd *cobra.Command, args []string) error {
			sales, err := catalogSvc.ListSales(cmd.Context())
			if err != nil {
				return present(err)
			}
			if salesOutput == "json" {
				printJSON(cmd.OutOrStdout(), sales)
				return nil
			}
			printSales(cmd.OutOrStdout(), sales)
			return nil
		},
	}
	salesCmd.Flags().StringVar(&salesOutput, "output", "", "output format")
	rootCmd.AddCommand(salesCmd)

	// report
	var reportOutput string
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Best sellers, income by author and income summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := buildReport(cmd.Context(), catalogSvc, viper.GetInt("top"))
			if err != nil {
				return present(err)
			}
			if reportOutput == "json" {
				printJSON(cmd.OutOrStdout(), r)
				return nil
			}
			printReport(cmd.OutOrStdout(), r)
			return nil
		},
	}
	reportCmd.Flags().StringVar(&reportOutput, "output", "", "output format")
	rootCmd.AddCommand(reportCmd)
}

func buildReport(ctx context.Context, svc *catalog.Service, n int) (report, error) {
	top, err := svc.TopProducts(ctx, n)
	if err != nil {
		return report{}, err
	}
	byAuthor, err := svc.SalesByAuthor(ctx)
	if err != nil {
		return report{}, err
	}
	gross, net, err := svc.IncomeSummary(ctx)
	if err != nil {
		return report{}, err
	}
	return report{N: n, Top: top, ByAuthor: byAuthor, Gross: gross, Net: net}, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
