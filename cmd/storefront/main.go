// Command storefront is a terminal shopper for the storefront API. It lists
// and inspects products and places orders through the same page models a
// browser front end would use.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/Lixing-Zhang/storefront/internal/storefront"
	"github.com/Lixing-Zhang/storefront/pkg/logger"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

const usage = `usage: storefront [-api URL] [-timeout D] [-lang TAG] <command> [args]

commands:
  products [-category ID] [-sort name-asc|price-asc|price-desc]
  product <id>
  order -item ID:QTY [-item ID:QTY ...] [-email ADDRESS]
`

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	apiURL := fs.String("api", getEnv("STOREFRONT_API_URL", "http://localhost:8080"), "storefront API base URL")
	timeout := fs.Duration("timeout", 15*time.Second, "request timeout")
	langFlag := fs.String("lang", "en", "BCP 47 language tag used to sort product names")
	logLevel := fs.String("log-level", getEnv("LOG_LEVEL", "warn"), "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log := logger.NewWithWriter(stderr, *logLevel)

	lang, err := language.Parse(*langFlag)
	if err != nil {
		return fmt.Errorf("invalid -lang %q: %w", *langFlag, err)
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	api := storefront.NewClient(*apiURL, &http.Client{Timeout: *timeout})
	log.Debug("using storefront api", "url", *apiURL)

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "products":
		return runProducts(ctx, api, lang, rest, stdout, stderr)
	case "product":
		return runProduct(ctx, api, rest, stdout)
	case "order":
		return runOrder(ctx, api, log, rest, stdout, stderr)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runProducts(ctx context.Context, api storefront.API, lang language.Tag, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	fs.SetOutput(stderr)
	category := fs.String("category", storefront.AllCategories, "category id, or all")
	sortFlag := fs.String("sort", string(storefront.SortNameAsc), "name-asc, price-asc or price-desc")
	if err := fs.Parse(args); err != nil {
		return err
	}

	order, err := storefront.ParseSortOrder(*sortFlag)
	if err != nil {
		return err
	}

	page := storefront.NewProductListPage(api, lang)
	defer page.Teardown()

	if err := page.Load(ctx); err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	page.SetCategory(*category)
	page.SetSort(order)

	view := page.View()
	names := make(map[string]string, len(view.Categories))
	for _, c := range view.Categories {
		names[c.ID] = c.Name
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range view.Products {
		stock := "in stock"
		if !p.InStock {
			stock = "out of stock"
		}
		category := names[p.CategoryID]
		if category == "" {
			category = p.CategoryID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, category, storefront.FormatMoney(p.Currency, p.Price), stock)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "\nShowing %d of %d products\n", len(view.Products), view.Total)
	return nil
}

func runProduct(ctx context.Context, api storefront.API, args []string, stdout io.Writer) error {
	id := ""
	if len(args) > 0 {
		id = args[0]
	}

	page := storefront.NewProductDetailPage(api)
	defer page.Teardown()

	err := page.Load(ctx, id)
	view := page.View()
	if view.Err != nil {
		return errors.New(view.Message())
	}
	if view.Product == nil {
		if err == nil {
			err = ctx.Err()
		}
		if err == nil {
			err = errors.New("product was not loaded")
		}
		return err
	}

	p := view.Product
	stock := "In stock"
	if !p.InStock {
		stock = "Out of stock"
	}
	fmt.Fprintf(stdout, "%s\n%s\n\nPrice:    %s\nCategory: %s\nStatus:   %s\n",
		p.Name, p.Description, storefront.FormatMoney(p.Currency, p.Price), p.CategoryID, stock)
	if len(p.Tags) > 0 {
		fmt.Fprintf(stdout, "Tags:     %s\n", strings.Join(p.Tags, ", "))
	}
	return nil
}

// itemFlags collects repeated -item ID:QTY values
type itemFlags []storefront.CartItem

func (f *itemFlags) String() string {
	parts := make([]string, 0, len(*f))
	for _, it := range *f {
		parts = append(parts, fmt.Sprintf("%s:%d", it.ProductID, it.Quantity))
	}
	return strings.Join(parts, ",")
}

func (f *itemFlags) Set(value string) error {
	id, qty, found := strings.Cut(value, ":")
	if id == "" {
		return fmt.Errorf("item %q has no product id", value)
	}
	quantity := 1.0
	if found {
		q, err := strconv.ParseFloat(qty, 64)
		if err != nil {
			return fmt.Errorf("item %q has an invalid quantity", value)
		}
		quantity = q
	}
	*f = append(*f, storefront.CartItem{ProductID: id, Quantity: storefront.ClampQuantity(quantity)})
	return nil
}

func runOrder(ctx context.Context, api storefront.API, log *slog.Logger, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("order", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var items itemFlags
	fs.Var(&items, "item", "cart line as ID:QTY (repeatable)")
	email := fs.String("email", "", "customer email (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	page := storefront.NewCartPage(api, items...)
	defer page.Teardown()

	if err := page.Load(ctx); err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}

	view := page.View()
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tQTY\tUNIT\tLINE")
	for _, row := range view.Rows {
		name := row.Item.ProductID + " (unknown product)"
		if !row.Unknown() {
			name = row.Product.Name
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", name, row.Item.Quantity,
			storefront.FormatMoney(row.Currency, row.UnitPrice),
			storefront.FormatMoney(row.Currency, row.LineTotal))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Total: %s\n\n", storefront.FormatMoney(view.Currency, view.Total))

	order, err := page.PlaceOrder(ctx, *email)
	if err != nil {
		log.Warn("order rejected", "error", err)
		return errors.New(storefront.ErrorMessage(err, "Failed to place order"))
	}

	placed := page.View()
	fmt.Fprintf(stdout, "Order %s placed: %s\n", order.ID, storefront.FormatMoney(order.Currency, order.TotalAmount))
	log.Info("order placed", "order_id", order.ID, "display_currency", placed.PlacedCurrency)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
