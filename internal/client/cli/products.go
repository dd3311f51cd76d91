package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/farmdash/internal/client/models"
	"github.com/dmitrijs2005/farmdash/internal/common"
)

const defaultPerPage = 10

// ListProducts prints one page of products, optionally of one category.
func (a *App) ListProducts(ctx context.Context, category string, page, perPage int) error {
	ps, err := a.productService.ListProducts(ctx)
	if err != nil {
		return err
	}
	ps = models.FilterProductsByCategory(ps, category)
	if len(ps) == 0 {
		fmt.Fprintln(a.out, "No products found")
		return nil
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	items, pages := models.Paginate(ps, page, perPage)

	rows := make([][]string, 0, len(items))
	for _, p := range items {
		rows = append(rows, []string{
			p.ID,
			p.Name,
			p.Category,
			p.Price.StringFixed(2),
			string(p.Unit),
			fmt.Sprintf("%.1f", p.Rating),
			statusLabel(p.IsActive),
		})
	}
	if err := renderTable(a.out, []string{"ID", "Name", "Category", "Price", "Unit", "Rating", "Status"}, rows, 3, 5); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Page %d of %d (%d products)\n", clampPage(page, pages), pages, len(ps))
	return nil
}

func (a *App) ShowProduct(ctx context.Context, id string) error {
	p, err := a.productService.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("product %s: %w", id, common.ErrorNotFound)
	}
	return renderDetail(a.out, [][2]string{
		{"ID", p.ID},
		{"Name", p.Name},
		{"Code", p.ProductCode},
		{"Category", strings.TrimSpace(p.Category + " / " + p.Subcategory)},
		{"Price", p.Price.StringFixed(2) + " per " + string(p.Unit)},
		{"Rating", fmt.Sprintf("%.1f", p.Rating)},
		{"Image", p.Image},
		{"Description", p.Description},
		{"Vitamins", nutrients(p.Vitamins)},
		{"Minerals", nutrients(p.Minerals)},
		{"Dietary fiber", p.DietaryFiber},
		{"Antioxidants", p.Antioxidants},
		{"Health benefits", strings.Join(p.HealthBenefits, "\n")},
		{"Status", statusLabel(p.IsActive)},
	})
}

func nutrients(ns []models.Nutrient) string {
	parts := make([]string, 0, len(ns))
	for _, n := range ns {
		if n.Amount != "" {
			parts = append(parts, n.Name+" ("+n.Amount+")")
		} else {
			parts = append(parts, n.Name)
		}
	}
	return strings.Join(parts, ", ")
}

// CreateProduct prompts for the description and the health benefits when
// interactive is set and they were not given.
func (a *App) CreateProduct(ctx context.Context, in models.ProductInput, interactive bool) error {
	if interactive {
		var err error
		if in.Description == "" {
			if in.Description, err = getSimpleText(a.reader, "Description", a.out); err != nil {
				return err
			}
		}
		if len(in.HealthBenefits) == 0 {
			if in.HealthBenefits, err = GetMultiline(a.reader, "Health benefits, one per line", a.out); err != nil {
				return err
			}
		}
	}

	p, err := a.productService.CreateProduct(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Product %s created (id %s)\n", p.Name, p.ID)
	return nil
}

func (a *App) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) error {
	if err := a.productService.UpdateProduct(ctx, id, patch); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Product %s updated\n", id)
	return nil
}

func (a *App) DeleteProduct(ctx context.Context, id string) error {
	if err := a.productService.DeleteProduct(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Product %s deleted\n", id)
	return nil
}

func clampPage(page, pages int) int {
	if page < 1 {
		return 1
	}
	if pages > 0 && page > pages {
		return pages
	}
	return page
}
