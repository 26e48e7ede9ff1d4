package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/YelzhanWeb/ordertaker/internal/adapter/amqp"
	"github.com/YelzhanWeb/ordertaker/internal/adapter/csvimport"
	httpAdapter "github.com/YelzhanWeb/ordertaker/internal/adapter/http"
	"github.com/YelzhanWeb/ordertaker/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/ordertaker/internal/domain"
	"github.com/YelzhanWeb/ordertaker/internal/interfaces"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the JSON HTTP API",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "HTTP port (overrides http.port)"},
		},
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			port := rt.cfg.HTTP.Port
			if c.IsSet("port") {
				port = c.Int("port")
			}

			server := &http.Server{
				Addr:         fmt.Sprintf(":%d", port),
				Handler:      httpAdapter.NewRouter(rt.catalog, rt.orders, rt.logger),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			g, ctx := errgroup.WithContext(c.Context)

			g.Go(func() error {
				rt.logger.Info("service_started", fmt.Sprintf("Order taker listening on port %d", port), "startup", map[string]interface{}{
					"port":           port,
					"storage_driver": rt.cfg.Storage.Driver,
					"notifications":  rt.cfg.RabbitMQ.Enabled,
				})
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			g.Go(func() error {
				<-ctx.Done()
				rt.logger.Info("shutdown_initiated", "Shutting down order taker", "shutdown", nil)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})

			return g.Wait()
		}),
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "replace the catalog with the products in a CSV file",
		ArgsUsage: "<file.csv>",
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			path := c.Args().First()
			if path == "" {
				return errors.New("a CSV file is required")
			}

			res, err := rt.catalog.ImportFile(c.Context, path)
			out := c.App.Writer
			for _, row := range res.Rejected {
				fmt.Fprintf(out, "skipped line %d (%s): %s\n", row.Line, row.Reason, row.Raw)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "✓ Loaded %d products\n", len(res.Products))
			return nil
		}),
	}
}

func productsCommand() *cli.Command {
	return &cli.Command{
		Name:  "products",
		Usage: "list the catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "only products whose name contains this text"},
			&cli.StringFlag{Name: "id", Usage: "show a single product"},
		},
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			var (
				products []domain.Product
				err      error
			)
			switch {
			case c.String("id") != "":
				var p domain.Product
				p, err = rt.catalog.Product(c.Context, c.String("id"))
				products = []domain.Product{p}
			case c.String("search") != "":
				products, err = rt.catalog.Search(c.Context, c.String("search"))
			default:
				products, err = rt.catalog.Products(c.Context)
			}
			if err != nil {
				return err
			}

			printProducts(c.App.Writer, products)
			return nil
		}),
	}
}

func templateCommand() *cli.Command {
	return &cli.Command{
		Name:  "template",
		Usage: "print a sample catalog CSV",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprintln(c.App.Writer, csvimport.Template())
			return err
		},
	}
}

func ordersCommand() *cli.Command {
	return &cli.Command{
		Name:  "orders",
		Usage: "list orders",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Value:   string(domain.FilterAll),
				Usage:   "one of " + filterKeys(),
			},
		},
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			filter, ok := domain.ParseFilter(c.String("filter"))
			if !ok {
				fmt.Fprintf(c.App.ErrWriter, "unknown filter %q, showing all orders\n", c.String("filter"))
			}

			orders, err := rt.orders.Orders(c.Context, filter)
			if err != nil {
				return err
			}

			printOrders(c.App.Writer, orders)
			return nil
		}),
	}
}

func orderCommand() *cli.Command {
	return &cli.Command{
		Name:      "order",
		Usage:     "place an order from product ids",
		ArgsUsage: "<product-id>=<quantity>...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "method", Value: string(domain.DeliveryMethodPickup), Usage: "pickup or delivery"},
			&cli.StringFlag{Name: "pickup-time"},
			&cli.StringFlag{Name: "address"},
			&cli.StringFlag{Name: "landmark"},
			&cli.StringFlag{Name: "notes"},
			&cli.StringFlag{Name: "payment", Value: string(domain.PaymentStatusNotPaid), Usage: "paid or not_paid"},
		},
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			items, err := parseItemArgs(c.Args().Slice())
			if err != nil {
				return err
			}

			placed, err := rt.orders.PlaceOrder(c.Context, createOrderCommand(c, items))
			if err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "✓ Order %s saved, total $%s\n", placed.ID, placed.TotalAmount.StringFixed(2))
			return printMessage(c, rt, placed.ID)
		}),
	}
}

func setStatusCommand() *cli.Command {
	return &cli.Command{
		Name:      "set-status",
		Usage:     "change the fulfillment status of an order",
		ArgsUsage: "<order-id> <new|preparing|ready|completed>",
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			if c.NArg() != 2 {
				return errors.New("expected an order id and a status")
			}
			status, err := domain.ParseStatus(c.Args().Get(1))
			if err != nil {
				return err
			}

			updated, err := rt.orders.UpdateStatus(c.Context, c.Args().Get(0), status)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "✓ %s is now %s\n", updated.ID, updated.Status)
			return nil
		}),
	}
}

func setPaymentCommand() *cli.Command {
	return &cli.Command{
		Name:      "set-payment",
		Usage:     "change the payment status of an order",
		ArgsUsage: "<order-id> <paid|not_paid>",
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			if c.NArg() != 2 {
				return errors.New("expected an order id and a payment status")
			}
			status, err := domain.ParsePaymentStatus(c.Args().Get(1))
			if err != nil {
				return err
			}

			updated, err := rt.orders.UpdatePaymentStatus(c.Context, c.Args().Get(0), status)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "✓ %s is now %s\n", updated.ID, updated.PaymentStatus)
			return nil
		}),
	}
}

func messageCommand() *cli.Command {
	return &cli.Command{
		Name:      "message",
		Usage:     "print the customer message and WhatsApp link for an order",
		ArgsUsage: "<order-id>",
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			if c.NArg() != 1 {
				return errors.New("expected an order id")
			}
			return printMessage(c, rt, c.Args().First())
		}),
	}
}

func clearOrdersCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear-orders",
		Usage: "delete every order and reset the order counter",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "confirm deletion"},
		},
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			if !c.Bool("yes") {
				return errors.New("refusing to delete all orders without --yes")
			}
			if err := rt.orders.ClearOrders(c.Context); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "✓ All orders deleted")
			return nil
		}),
	}
}

func clearProductsCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear-products",
		Usage: "delete the catalog",
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			if err := rt.catalog.Clear(c.Context); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "✓ Catalog cleared")
			return nil
		}),
	}
}

func notificationsCommand() *cli.Command {
	return &cli.Command{
		Name:  "notifications",
		Usage: "print order status updates published to RabbitMQ",
		Action: func(c *cli.Context) error {
			rt, err := setup(c)
			if err != nil {
				return err
			}
			defer rt.close()

			if rt.mq == nil {
				return errors.New("rabbitmq is disabled; set rabbitmq.enabled to true")
			}

			consumer := rabbitmq.NewConsumer(rt.mq, rt.logger)
			handler := amqp.NewNotificationHandler(rt.logger, c.App.Writer)

			rt.logger.Info("service_started", "Notification subscriber started", "startup", nil)
			err = consumer.ConsumeNotifications(c.Context, handler.HandleNotification)
			if errors.Is(err, context.Canceled) {
				rt.logger.Info("shutdown_initiated", "Shutting down notification subscriber", "shutdown", nil)
				return nil
			}
			return err
		},
	}
}

func createOrderCommand(c *cli.Context, items []itemArg) interfaces.CreateOrderCommand {
	cmd := interfaces.CreateOrderCommand{
		DeliveryMethod:   c.String("method"),
		PickupTime:       c.String("pickup-time"),
		DeliveryAddress:  c.String("address"),
		DeliveryLandmark: c.String("landmark"),
		SpecialNotes:     c.String("notes"),
		PaymentStatus:    c.String("payment"),
	}
	for _, item := range items {
		cmd.Items = append(cmd.Items, interfaces.CreateOrderItemCommand{ProductID: item.productID, Quantity: item.quantity})
	}
	return cmd
}

func printMessage(c *cli.Context, rt *runtime, id string) error {
	msg, err := rt.orders.Message(c.Context, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "\n%s\n\n%s\n", msg.Text, msg.Link)
	return nil
}

func printProducts(out io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(out, "No products loaded")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tIN STOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t$%s\t%d\n", p.ID, p.Name, p.Price.StringFixed(2), p.AvailableQuantity)
	}
	_ = tw.Flush()
}

func printOrders(out io.Writer, orders []domain.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(out, "No orders found")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tITEMS\tTOTAL\tMETHOD\tPAYMENT\tSTATUS")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%d\t$%s\t%s\t%s\t%s\n",
			o.ID, o.CreatedAt.Local().Format("2006-01-02 15:04"), len(o.Items),
			o.TotalAmount.StringFixed(2), o.DeliveryMethod, o.PaymentStatus, o.Status)
	}
	_ = tw.Flush()
}

func filterKeys() string {
	keys := make([]string, 0, len(domain.Filters()))
	for _, f := range domain.Filters() {
		keys = append(keys, string(f))
	}
	return strings.Join(keys, ", ")
}
