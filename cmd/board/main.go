// Command board is a terminal staff board: it logs in, loads the recent
// orders and keeps them current from the realtime channel.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"qrcafe/internal/client"
	"qrcafe/internal/client/board"
	"qrcafe/internal/core/application/readmodel"
	"qrcafe/internal/core/ports"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func main() {
	_ = godotenv.Load(".env")

	apiURL := flag.String("api", envOr("BOARD_API_URL", "http://localhost:8080"), "base URL of the order API")
	username := flag.String("username", os.Getenv("BOARD_USERNAME"), "staff username")
	password := flag.String("password", os.Getenv("BOARD_PASSWORD"), "staff password")
	limit := flag.Int("limit", ports.DefaultListLimit, "orders to load on every snapshot")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.NewAPIClient(*apiURL, 10*time.Second)
	login := func(ctx context.Context) error {
		_, err := api.Login(ctx, *username, *password)
		return err
	}
	if err := login(ctx); err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	sub, err := client.NewSubscriber(*apiURL, api, logger)
	if err != nil {
		log.Fatalf("Invalid API URL: %v", err)
	}
	sub.OnUnauthorized(login)

	b := board.New()
	sub.OnSnapshot(func(ctx context.Context) error {
		return client.RetryUnauthorized(ctx, login, func(ctx context.Context) error {
			orders, err := api.ListRecent(ctx, *limit)
			if err != nil {
				return err
			}
			b.Reset(orders)
			render(os.Stdout, b)
			return nil
		})
	})
	apply := func(kind ports.OrderEventKind, view readmodel.OrderView) {
		if b.Apply(kind, view) {
			render(os.Stdout, b)
		}
	}
	sub.On(ports.OrderCreated, apply)
	sub.On(ports.OrderUpdated, apply)

	if err = sub.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Board stopped: %v", err)
	}
}

func render(w io.Writer, b *board.Board) {
	counts := b.Counts()
	fmt.Fprint(w, "\033[H\033[2J")
	fmt.Fprintf(w, "pending %d  preparing %d  ready %d  total %d\n\n",
		counts.Pending, counts.Preparing, counts.Ready, counts.Total)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tSTATUS\tTABLE\tCUSTOMER\tITEMS\tTOTAL\tPLACED")
	for _, o := range b.Orders() {
		items := 0
		for _, li := range o.LineItems {
			items += li.Quantity
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			o.OrderID, o.Status, o.Table, o.CustomerName, items, o.Total, o.CreatedAt.Local().Format("15:04"))
	}
	_ = tw.Flush()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
