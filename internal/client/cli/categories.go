package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/farmdash/internal/client/models"
)

// ListCategories prints the categories ordered by display order, optionally
// narrowed to those matching search.
func (a *App) ListCategories(ctx context.Context, search string) error {
	cs, err := a.categoryService.ListCategories(ctx)
	if err != nil {
		return err
	}
	cs = models.FilterCategories(models.SortCategoriesByDisplayOrder(cs), search)
	if len(cs) == 0 {
		fmt.Fprintln(a.out, "No categories found")
		return nil
	}

	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		rows = append(rows, []string{
			c.ID,
			c.Name,
			truncate(c.Description, 40),
			strconv.Itoa(c.DisplayOrder),
			statusLabel(c.IsActive),
		})
	}
	return renderTable(a.out, []string{"ID", "Name", "Description", "Order", "Status"}, rows, 3)
}

func (a *App) ShowCategory(ctx context.Context, id string) error {
	c, err := a.categoryService.GetCategoryByID(ctx, id)
	if err != nil {
		return err
	}
	return renderDetail(a.out, [][2]string{
		{"ID", c.ID},
		{"Name", c.Name},
		{"Description", c.Description},
		{"Image", c.ImageURL},
		{"Display order", strconv.Itoa(c.DisplayOrder)},
		{"Status", statusLabel(c.IsActive)},
	})
}

// CreateCategory prompts for the name and description when they are empty.
func (a *App) CreateCategory(ctx context.Context, in models.CategoryInput) error {
	var err error
	if in.Name == "" {
		if in.Name, err = getSimpleText(a.reader, "Category name", a.out); err != nil {
			return err
		}
	}
	if in.Description == "" {
		if in.Description, err = getSimpleText(a.reader, "Description", a.out); err != nil {
			return err
		}
	}

	c, err := a.categoryService.CreateCategory(ctx, in)
	if err != nil {
		return err
	}
	if c != nil {
		fmt.Fprintf(a.out, "Category %s created (id %s)\n", c.Name, c.ID)
	} else {
		fmt.Fprintln(a.out, "Category created")
	}
	return nil
}

func (a *App) UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) error {
	if err := a.categoryService.UpdateCategory(ctx, id, patch); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Category %s updated\n", id)
	return nil
}

func (a *App) SetCategoryStatus(ctx context.Context, id string, active bool) error {
	if err := a.categoryService.UpdateCategoryStatus(ctx, id, active); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Category %s is now %s\n", id, statusLabel(active))
	return nil
}

func (a *App) DeleteCategory(ctx context.Context, id string) error {
	if err := a.categoryService.DeleteCategory(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Category %s deleted\n", id)
	return nil
}
