package main

import (
	"context"
	"fmt"

	"bookquery/internal/book"

	"github.com/spf13/cobra"
)

type demoStep struct {
	title string
	run   func(ctx context.Context) (any, error)
}

// demoSteps walks through every query of the collection with sample arguments.
func demoSteps(svc *book.Service) []demoStep {
	return []demoStep{
		{"Books in genre Fiction", func(ctx context.Context) (any, error) { return svc.FindByGenre(ctx, "Fiction") }},
		{"Books published after 1950", func(ctx context.Context) (any, error) { return svc.FindPublishedAfter(ctx, 1950) }},
		{"Books by George Orwell", func(ctx context.Context) (any, error) { return svc.FindByAuthor(ctx, "George Orwell") }},
		{"Set price of The Alchemist to 12.99", func(ctx context.Context) (any, error) { return svc.UpdatePrice(ctx, "The Alchemist", 12.99) }},
		{"Delete Moby Dick", func(ctx context.Context) (any, error) {
			n, err := svc.DeleteByTitle(ctx, "Moby Dick")
			return map[string]int64{"deleted": n}, err
		}},
		{"In stock and published after 2010", func(ctx context.Context) (any, error) { return svc.FindInStockAfterYear(ctx, 2010) }},
		{"In stock: title, author, price", func(ctx context.Context) (any, error) { return svc.FindInStockProjected(ctx) }},
		{"Sorted by price ascending", func(ctx context.Context) (any, error) { return svc.SortByPrice(ctx, book.Ascending) }},
		{"Sorted by price descending", func(ctx context.Context) (any, error) { return svc.SortByPrice(ctx, book.Descending) }},
		{"-- Page 1 --", func(ctx context.Context) (any, error) { return svc.GetPage(ctx, 1, 0) }},
		{"-- Page 2 --", func(ctx context.Context) (any, error) { return svc.GetPage(ctx, 2, 0) }},
		{"Average price by genre", func(ctx context.Context) (any, error) { return svc.AvgPriceByGenre(ctx) }},
		{"Author with the most books", func(ctx context.Context) (any, error) { return svc.AuthorWithMostBooks(ctx) }},
		{"Books by publication period", func(ctx context.Context) (any, error) { return svc.CountByDecadeBucket(ctx) }},
		{"Create title index", func(ctx context.Context) (any, error) { return svc.CreateTitleIndex(ctx) }},
		{"Create author/published_year index", func(ctx context.Context) (any, error) { return svc.CreateAuthorYearIndex(ctx) }},
	}
}

func newDemoCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run every query once against the current collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, step := range demoSteps(e.svc) {
				fmt.Fprintf(e.out, "\n%s\n", step.title)
				v, err := step.run(cmd.Context())
				if err != nil {
					return fmt.Errorf("%s: %w", step.title, err)
				}
				if err := e.print(v); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
