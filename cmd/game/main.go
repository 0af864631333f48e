package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/tatianab/gamebook/internal/app"
	"github.com/tatianab/gamebook/internal/config"
	"github.com/tatianab/gamebook/internal/graph"
	"github.com/tatianab/gamebook/internal/tui"
)

func main() {
	bookID := flag.String("book", "", "open this book directly instead of showing the picker")
	validate := flag.Bool("validate", false, "check the structure of -book and exit")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Printf("Error initializing: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if *validate {
		if *bookID == "" {
			fmt.Println("-validate needs -book")
			os.Exit(2)
		}
		code := report(ctx, a, *bookID)
		a.Close()
		os.Exit(code)
	}

	if err := tui.Run(tui.Deps{
		Source:        a.Source,
		Sink:          a.Sink,
		Logger:        a.Logger,
		ToastDuration: cfg.ToastDuration,
		BookID:        *bookID,
	}); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// report prints the validation result for one book and returns the exit code.
func report(ctx context.Context, a *app.App, bookID string) int {
	book, err := a.Source.LoadBook(ctx, bookID)
	if err != nil {
		fmt.Printf("Error loading %q: %v\n", bookID, err)
		return 1
	}

	res, err := graph.Validate(book)
	if err != nil {
		a.Logger.Info("Book failed validation", zap.String("bookID", bookID), zap.Error(err))
		fmt.Printf("%s: invalid\n  %v\n", bookID, err)
		return 3
	}

	fmt.Printf("%s: ok\n", bookID)
	if book.Title != "" {
		fmt.Printf("  title:     %s\n", book.Title)
	}
	fmt.Printf("  start:     %s\n", res.StartID)
	fmt.Printf("  sections:  %d\n", len(book.Sections))
	fmt.Printf("  reachable: %s\n", strings.Join(res.ReachableIDs(), ", "))
	return 0
}
