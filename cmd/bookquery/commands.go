package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"bookquery/internal/book"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

type env struct {
	svc *book.Service
	out io.Writer
}

func (e *env) print(v any) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.out, string(data))
	return err
}

// newRootCmd builds a fresh command tree; the shell calls it once per line
// so flag values never leak between lines.
func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "bookquery",
		Short:         "Query the books collection",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(e.out)

	root.AddCommand(
		&cobra.Command{
			Use:   "find-by-genre <genre>",
			Short: "List books in a genre",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				books, err := e.svc.FindByGenre(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				return e.print(books)
			},
		},
		&cobra.Command{
			Use:   "published-after <year>",
			Short: "List books published after a year",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				year, err := parseYear(args[0])
				if err != nil {
					return err
				}
				books, err := e.svc.FindPublishedAfter(cmd.Context(), year)
				if err != nil {
					return err
				}
				return e.print(books)
			},
		},
		&cobra.Command{
			Use:   "find-by-author <author>",
			Short: "List books by an author",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				books, err := e.svc.FindByAuthor(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				return e.print(books)
			},
		},
		&cobra.Command{
			Use:   "find-by-title <title>",
			Short: "List books with a title",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				books, err := e.svc.FindByTitle(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				return e.print(books)
			},
		},
		&cobra.Command{
			Use:   "update-price <price> <title>",
			Short: "Set the price of the first book with a title",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				price, err := strconv.ParseFloat(args[0], 64)
				if err != nil || price < 0 {
					return fmt.Errorf("invalid price %q", args[0])
				}
				res, err := e.svc.UpdatePrice(cmd.Context(), strings.Join(args[1:], " "), price)
				if err != nil {
					return err
				}
				return e.print(res)
			},
		},
		&cobra.Command{
			Use:   "delete <title>",
			Short: "Delete the first book with a title",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := e.svc.DeleteByTitle(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				return e.print(map[string]int64{"deleted": n})
			},
		},
		&cobra.Command{
			Use:   "in-stock-after <year>",
			Short: "List in-stock books published after a year",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				year, err := parseYear(args[0])
				if err != nil {
					return err
				}
				books, err := e.svc.FindInStockAfterYear(cmd.Context(), year)
				if err != nil {
					return err
				}
				return e.print(books)
			},
		},
		newInStockCmd(e),
		newSortByPriceCmd(e),
		newPageCmd(e),
		&cobra.Command{
			Use:   "avg-price-by-genre",
			Short: "Average price per genre",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := e.svc.AvgPriceByGenre(cmd.Context())
				if err != nil {
					return err
				}
				return e.print(out)
			},
		},
		&cobra.Command{
			Use:   "top-author",
			Short: "Author with the most books",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := e.svc.AuthorWithMostBooks(cmd.Context())
				if err != nil {
					return err
				}
				return e.print(out)
			},
		},
		&cobra.Command{
			Use:   "year-buckets",
			Short: "Count books per publication period",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := e.svc.CountByDecadeBucket(cmd.Context())
				if err != nil {
					return err
				}
				return e.print(out)
			},
		},
		&cobra.Command{
			Use:   "create-title-index",
			Short: "Create the title index",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				name, err := e.svc.CreateTitleIndex(cmd.Context())
				if err != nil {
					return err
				}
				return e.print(map[string]string{"index": name})
			},
		},
		&cobra.Command{
			Use:   "create-author-year-index",
			Short: "Create the author/published_year index",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				name, err := e.svc.CreateAuthorYearIndex(cmd.Context())
				if err != nil {
					return err
				}
				return e.print(map[string]string{"index": name})
			},
		},
		newDemoCmd(e),
		newShellCmd(e),
	)
	return root
}

func newInStockCmd(e *env) *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "in-stock",
		Short: "List in-stock books with selected fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projection := make([]book.Field, 0, len(fields))
			for _, name := range fields {
				f, err := book.ParseField(strings.TrimSpace(name))
				if err != nil {
					return err
				}
				projection = append(projection, f)
			}
			docs, err := e.svc.FindInStockProjected(cmd.Context(), projection...)
			if err != nil {
				return err
			}
			return e.print(docs)
		},
	}
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "fields to return (default title,author,price)")
	return cmd
}

func newSortByPriceCmd(e *env) *cobra.Command {
	var desc bool
	cmd := &cobra.Command{
		Use:   "sort-by-price",
		Short: "List every book ordered by price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := book.Ascending
			if desc {
				dir = book.Descending
			}
			books, err := e.svc.SortByPrice(cmd.Context(), dir)
			if err != nil {
				return err
			}
			return e.print(books)
		},
	}
	cmd.Flags().BoolVar(&desc, "desc", false, "sort most expensive first")
	return cmd
}

func newPageCmd(e *env) *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "page <n>",
		Short: "Show one page of the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid page %q", args[0])
			}
			books, err := e.svc.GetPage(cmd.Context(), n, size)
			if err != nil {
				return err
			}
			return e.print(books)
		},
	}
	cmd.Flags().IntVar(&size, "size", 0, "page size (default from PAGE_SIZE)")
	return cmd
}

func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return year, nil
}
