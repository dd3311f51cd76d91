package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/farmdash/internal/client/models"
)

// ListFarmers prints one page of the fetched farmer profiles, optionally
// narrowed to those matching search.
func (a *App) ListFarmers(ctx context.Context, search string, page, perPage int) error {
	fs, err := a.farmerService.ListFarmers(ctx)
	if err != nil {
		return err
	}
	fs = models.SearchFarmers(fs, search)
	if len(fs) == 0 {
		fmt.Fprintln(a.out, "No farmers found")
		return nil
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	items, pages := models.Paginate(fs, page, perPage)

	rows := make([][]string, 0, len(items))
	for _, f := range items {
		created := ""
		if !f.CreatedAt.IsZero() {
			created = f.CreatedAt.Local().Format("2006-01-02")
		}
		rows = append(rows, []string{
			f.ID,
			f.FarmerName,
			f.FarmName,
			joinNonEmpty(", ", f.Village, f.District, f.State),
			f.Mobile,
			strconv.Itoa(f.ExperienceYears),
			f.FarmSize,
			profileLabel(f.IsCompleted),
			created,
		})
	}
	headers := []string{"ID", "Farmer", "Farm", "Location", "Mobile", "Experience", "Size", "Profile", "Joined"}
	if err := renderTable(a.out, headers, rows, 5); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Page %d of %d (%d farmers)\n", clampPage(page, pages), pages, len(fs))
	return nil
}

func (a *App) DeleteFarmer(ctx context.Context, id string) error {
	if err := a.farmerService.DeleteFarmer(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Farmer %s deleted\n", id)
	return nil
}

func profileLabel(completed bool) string {
	if completed {
		return activeColor.Sprint("complete")
	}
	return inactiveColor.Sprint("incomplete")
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}
