// Command gyf-submit drives the widget runtime without a browser: it opens the
// form, types the given text, submits it and reports what a visitor would see.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dimitrije/gyf-api/internal/widget"
)

func main() {
	websiteID := flag.String("website-id", "", "workspace id the feedback belongs to")
	endpoint := flag.String("endpoint", "http://localhost:8080/api/feedback", "ingestion endpoint")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Parse()

	text := strings.Join(flag.Args(), " ")

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var shown []string
	client := widget.NewClient(*endpoint, &http.Client{Timeout: *timeout})
	w, err := widget.Init(widget.Config{WebsiteID: *websiteID}, client,
		widget.WithLogger(log),
		widget.WithNotifier(widget.NotifierFunc(func(message string) {
			shown = append(shown, message)
			fmt.Println(message)
		})),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gyf-submit: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w.Open()
	if err := w.SetDraft(text); err != nil {
		fmt.Fprintf(os.Stderr, "gyf-submit: %v\n", err)
		os.Exit(1)
	}
	if !w.Submit(ctx) {
		os.Exit(1)
	}
	w.Wait()

	if len(shown) == 0 || shown[len(shown)-1] != widget.MsgThankYou {
		os.Exit(1)
	}
}
