// Команда cartctl — локальный клиент корзины: состояние хранится в файле,
// остатки берутся из REST API склада или из встроенного демо-каталога.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cartstore/internal/app"
	"github.com/vladislavdragonenkov/cartstore/internal/cart"
	"github.com/vladislavdragonenkov/cartstore/internal/domain"
	"github.com/vladislavdragonenkov/cartstore/internal/notify"
	"github.com/vladislavdragonenkov/cartstore/internal/service/inventory"
	"github.com/vladislavdragonenkov/cartstore/internal/storage/file"
)

const usage = `usage: cartctl <command> [args]

commands:
  list            show cart contents
  add ID          add one unit of product ID
  remove ID       remove product ID from the cart
  set ID AMOUNT   set the amount of product ID

environment:
  CART_FILE_DIR          directory with cart snapshots (default ./data)
  CART_KEY               snapshot key (default @RocketShoes:cart)
  CART_INVENTORY_DRIVER  mock|http (default mock)
  CART_INVENTORY_URL     inventory API base URL
`

var errUsage = errors.New("invalid usage")

func main() {
	err := run(context.Background(), os.Args[1:], os.LookupEnv, os.Stdout)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		_, _ = fmt.Fprintf(os.Stderr, "%v\n\n%s", err, usage)
		os.Exit(2)
	default:
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, lookup app.EnvLookup, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: command is required", errUsage)
	}

	cfg, warnings := app.LoadConfigFromEnv(lookup)
	logger := log.New()
	if err := app.ConfigureLogger(logger, "warn", "text", os.Stderr); err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	store, err := openStore(ctx, cfg, logger.WithField("component", "cartctl"))
	if err != nil {
		return err
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list":
		return printCart(out, store.Cart())
	case "add":
		id, err := parseID(rest, 1)
		if err != nil {
			return err
		}
		return report(out, store, domain.OperationAdd, id, store.AddProduct(ctx, id))
	case "remove":
		id, err := parseID(rest, 1)
		if err != nil {
			return err
		}
		return report(out, store, domain.OperationRemove, id, store.RemoveProduct(ctx, id))
	case "set":
		id, err := parseID(rest, 2)
		if err != nil {
			return err
		}
		amount, err := strconv.Atoi(rest[1])
		if err != nil {
			return fmt.Errorf("%w: amount must be an integer", errUsage)
		}
		return report(out, store, domain.OperationUpdate, id, store.UpdateProductAmount(ctx, id, amount))
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func openStore(ctx context.Context, cfg app.Config, logger *log.Entry) (*cart.Store, error) {
	snapshots, err := file.NewSnapshotStore(cfg.FileDir)
	if err != nil {
		return nil, err
	}

	var inv domain.InventoryClient
	switch cfg.InventoryDriver {
	case app.InventoryDriverHTTP:
		client, err := inventory.NewClient(cfg.InventoryURL, cfg.InventoryTimeout, nil)
		if err != nil {
			return nil, err
		}
		inv = client
	default:
		inv = inventory.NewDemoService()
	}

	store := cart.NewStore(cfg.CartKey, inv, snapshots, notify.NewLogNotifier(logger), logger)
	store.Initialize(ctx)
	return store, nil
}

func parseID(args []string, want int) (int64, error) {
	if len(args) != want {
		return 0, fmt.Errorf("%w: expected %d argument(s)", errUsage, want)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid product id %q", errUsage, args[0])
	}
	return id, nil
}

// report печатает сообщение для пользователя и, при успехе, корзину.
func report(out io.Writer, store *cart.Store, op domain.Operation, productID int64, opErr error) error {
	_, _ = fmt.Fprintln(out, cart.Describe(op, productID, 0, opErr).Message)
	if opErr != nil {
		return opErr
	}
	return printCart(out, store.Cart())
}

func printCart(out io.Writer, c domain.Cart) error {
	if len(c) == 0 {
		_, err := fmt.Fprintln(out, "cart is empty")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tAMOUNT\tSUBTOTAL")
	for _, e := range c {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
			e.Product.ID, e.Product.Title, e.Product.Price.StringFixed(2), e.Amount, e.Subtotal().StringFixed(2))
	}
	_, _ = fmt.Fprintf(tw, "\t\t\tTOTAL\t%s\n", c.Total().StringFixed(2))
	return tw.Flush()
}
