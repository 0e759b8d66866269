package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/shopadmin/internal/model"
	"github.com/example/shopadmin/internal/store"
	"github.com/example/shopadmin/internal/validation"
)

// NewProductsCommand groups the product management commands.
func NewProductsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage products",
	}

	cmd.AddCommand(
		newProductsListCommand(),
		newProductsSearchCommand(),
		newProductsGetCommand(),
		newProductsCreateCommand(),
		newProductsUpdateCommand(),
		newProductsDeleteCommand(),
	)

	return cmd
}

func newProductsListCommand() *cobra.Command {
	var (
		categoryID string
		offset     int
		limit      int
		page       int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return err
			}
			if err := app.RequireSession(); err != nil {
				return err
			}

			params := store.FetchParams{Offset: offset, Limit: limit, CategoryID: categoryID}
			if err := app.Products.Fetch(cmd.Context(), params); err != nil {
				return fmt.Errorf("failed to load products: %s", app.Products.Err())
			}

			// The pager owns keeping the page in range.
			total := app.Products.TotalPages()
			if total < 1 {
				total = 1
			}
			if page < 1 {
				page = 1
			}
			if page > total {
				page = total
			}
			app.Products.SetCurrentPage(page)

			printProductTable(cmd.OutOrStdout(), app.Products.Visible())
			fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d (%d items)\n",
				app.Products.CurrentPage(), total, len(app.Products.Items()))
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryID, "category", "", "filter by category id")
	cmd.Flags().IntVar(&offset, "offset", 0, "server-side offset")
	cmd.Flags().IntVar(&limit, "limit", 100, "server-side limit")
	cmd.Flags().IntVar(&page, "page", 1, "page of the fetched window to display")

	return cmd
}

func newProductsSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Search products by free text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return err
			}
			if err := app.RequireSession(); err != nil {
				return err
			}

			app.Products.SetSearchQuery(args[0])
			app.Products.SetCurrentPage(1)
			if err := app.Products.Search(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("search failed: %s", app.Products.Err())
			}

			items := app.Products.Items()
			printProductTable(cmd.OutOrStdout(), items)
			fmt.Fprintf(cmd.OutOrStdout(), "%d results for %q\n", len(items), args[0])
			return nil
		},
	}
}

func newProductsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <slug>",
		Short: "Show a product's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return err
			}
			if err := app.RequireSession(); err != nil {
				return err
			}

			product, err := app.Products.FetchBySlug(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load product: %s", app.Products.Err())
			}

			printProductDetail(cmd.OutOrStdout(), product)
			return nil
		},
	}
}

type productFlags struct {
	name        string
	description string
	price       float64
	categoryID  string
	images      []string
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "product name")
	cmd.Flags().StringVar(&f.description, "description", "", "product description")
	cmd.Flags().Float64Var(&f.price, "price", 0, "product price")
	cmd.Flags().StringVar(&f.categoryID, "category", "", "category id")
	cmd.Flags().StringArrayVar(&f.images, "image", nil, "image URL (repeatable, 1-5)")
}

// validate runs the form contract locally; nothing is sent when it fails.
func (f *productFlags) validate() error {
	fieldErrors := validation.ValidateProduct(validation.ProductInput{
		Name:        f.name,
		Description: f.description,
		Price:       f.price,
		CategoryID:  f.categoryID,
		Images:      f.images,
	})
	if fieldErrors == nil {
		return nil
	}

	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	lines := make([]string, 0, len(fields))
	for _, field := range fields {
		lines = append(lines, fmt.Sprintf("  %s: %s", field, fieldErrors[field]))
	}
	return fmt.Errorf("invalid input:\n%s", strings.Join(lines, "\n"))
}

func newProductsCreateCommand() *cobra.Command {
	var flags productFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}

			app, err := NewApp()
			if err != nil {
				return err
			}
			if err := app.RequireSession(); err != nil {
				return err
			}

			product, err := app.Products.Create(cmd.Context(), model.CreateProductDto{
				Name:        flags.name,
				Description: flags.description,
				Price:       flags.price,
				CategoryID:  flags.categoryID,
				Images:      flags.images,
			})
			if err != nil {
				return fmt.Errorf("failed to create product: %s", app.Products.Err())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", product.Slug)
			printProductDetail(cmd.OutOrStdout(), product)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newProductsUpdateCommand() *cobra.Command {
	var flags productFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}

			app, err := NewApp()
			if err != nil {
				return err
			}
			if err := app.RequireSession(); err != nil {
				return err
			}

			product, err := app.Products.Update(cmd.Context(), args[0], model.UpdateProductDto{
				Name:        flags.name,
				Description: flags.description,
				Price:       flags.price,
				CategoryID:  flags.categoryID,
				Images:      flags.images,
			})
			if err != nil {
				return fmt.Errorf("failed to update product: %s", app.Products.Err())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", product.ID)
			printProductDetail(cmd.OutOrStdout(), product)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newProductsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return err
			}
			if err := app.RequireSession(); err != nil {
				return err
			}

			if err := app.Products.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete product: %s", app.Products.Err())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func printProductTable(out io.Writer, products []model.Product) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLUG\tNAME\tPRICE\tCATEGORY")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n", p.ID, p.Slug, p.Name, p.Price, p.Category.Name)
	}
	w.Flush()
}

func printProductDetail(out io.Writer, p *model.Product) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%s\n", p.ID)
	fmt.Fprintf(w, "Slug\t%s\n", p.Slug)
	fmt.Fprintf(w, "Name\t%s\n", p.Name)
	fmt.Fprintf(w, "Description\t%s\n", p.Description)
	fmt.Fprintf(w, "Price\t%.2f\n", p.Price)
	fmt.Fprintf(w, "Category\t%s (%s)\n", p.Category.Name, p.Category.ID)
	fmt.Fprintf(w, "Images\t%s\n", strings.Join(p.Images, ", "))
	fmt.Fprintf(w, "Created\t%s\n", p.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Updated\t%s\n", p.UpdatedAt.Format("2006-01-02 15:04"))
	w.Flush()
}
