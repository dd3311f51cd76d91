package cli

import (
	"fmt"

	"github.com/dmitrijs2005/farmdash/internal/client/models"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newCommandTree returns the resource commands. get yields the App at run
// time, after the root command has opened it. Live views are only offered
// inside the REPL, where they outlive a single command.
func newCommandTree(get func() *App, interactive bool) []*cobra.Command {
	cmds := []*cobra.Command{
		newLoginCmd(get),
		{
			Use:   "logout",
			Short: "Forget the stored credential",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return get().Logout(cmd.Context())
			},
		},
		{
			Use:   "whoami",
			Short: "Show the session behind the stored credential",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return get().Whoami(cmd.Context())
			},
		},
		newCategoriesCmd(get),
		newProductsCmd(get),
		newFarmersCmd(get),
	}
	if interactive {
		cmds = append(cmds,
			&cobra.Command{
				Use:   "watch <categories|products|farmers>",
				Short: "Print a notice whenever a cached list changes",
				Args:  cobra.ExactArgs(1),
				RunE: func(_ *cobra.Command, args []string) error {
					return get().Watch(args[0])
				},
			},
			&cobra.Command{
				Use:   "unwatch <categories|products|farmers>",
				Short: "Stop a live view",
				Args:  cobra.ExactArgs(1),
				RunE: func(_ *cobra.Command, args []string) error {
					return get().Unwatch(args[0])
				},
			},
		)
	}
	return cmds
}

func newLoginCmd(get func() *App) *cobra.Command {
	var mobile string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with mobile number and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return get().Login(cmd.Context(), mobile)
		},
	}
	cmd.Flags().StringVar(&mobile, "mobile", "", "mobile number (prompted when empty)")
	return cmd
}

func newCategoriesCmd(get func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage product categories",
	}

	var search string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories by display order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return get().ListCategories(cmd.Context(), search)
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "only categories whose name or description contains this")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return get().ShowCategory(cmd.Context(), args[0])
		},
	}

	var in models.CategoryInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a category (name and description are prompted when omitted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return get().CreateCategory(cmd.Context(), in)
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "category name")
	create.Flags().StringVar(&in.Description, "description", "", "category description")
	create.Flags().StringVar(&in.ImageURL, "image-url", "", "image URL")
	create.Flags().IntVar(&in.DisplayOrder, "display-order", 0, "position in listings")
	create.Flags().BoolVar(&in.IsActive, "active", true, "whether the category is visible")

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return get().UpdateCategory(cmd.Context(), args[0], categoryPatchFromFlags(cmd.Flags()))
		},
	}
	update.Flags().String("name", "", "category name")
	update.Flags().String("description", "", "category description")
	update.Flags().String("image-url", "", "image URL")
	update.Flags().Int("display-order", 0, "position in listings")
	update.Flags().Bool("active", true, "whether the category is visible")

	status := &cobra.Command{
		Use:       "status <id> <active|inactive>",
		Short:     "Activate or deactivate a category",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"active", "inactive"},
		RunE: func(cmd *cobra.Command, args []string) error {
			active, err := parseStatus(args[1])
			if err != nil {
				return err
			}
			return get().SetCategoryStatus(cmd.Context(), args[0], active)
		},
	}

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a category",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return get().DeleteCategory(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, show, create, update, status, del)
	return cmd
}

func newProductsCmd(get func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product", "prod"},
		Short:   "Manage product listings",
	}

	var (
		category      string
		page, perPage int
	)
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List products page by page",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return get().ListProducts(cmd.Context(), category, page, perPage)
		},
	}
	list.Flags().StringVarP(&category, "category", "c", "", "only products of this category")
	list.Flags().IntVarP(&page, "page", "p", 1, "page number")
	list.Flags().IntVar(&perPage, "per-page", defaultPerPage, "products per page")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return get().ShowProduct(cmd.Context(), args[0])
		},
	}

	var interactive bool
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := productInputFromFlags(cmd.Flags())
			if err != nil {
				return err
			}
			return get().CreateProduct(cmd.Context(), in, interactive)
		},
	}
	productFlags(create.Flags())
	create.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for the description and health benefits")

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := productPatchFromFlags(cmd.Flags())
			if err != nil {
				return err
			}
			return get().UpdateProduct(cmd.Context(), args[0], patch)
		},
	}
	productFlags(update.Flags())

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a product",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return get().DeleteProduct(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, show, create, update, del)
	return cmd
}

func newFarmersCmd(get func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "farmers",
		Aliases: []string{"farmer"},
		Short:   "Browse and remove farmer profiles",
	}

	var (
		search        string
		page, perPage int
	)
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List farmer profiles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return get().ListFarmers(cmd.Context(), search, page, perPage)
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "match names, location or phone numbers")
	list.Flags().IntVarP(&page, "page", "p", 1, "page number")
	list.Flags().IntVar(&perPage, "per-page", defaultPerPage, "farmers per page")

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a farmer profile",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return get().DeleteFarmer(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, del)
	return cmd
}

func parseStatus(s string) (bool, error) {
	switch s {
	case "active", "on", "true":
		return true, nil
	case "inactive", "off", "false":
		return false, nil
	}
	return false, fmt.Errorf("status must be active or inactive, got %q", s)
}

func categoryPatchFromFlags(fs *pflag.FlagSet) models.CategoryPatch {
	var p models.CategoryPatch
	if fs.Changed("name") {
		v, _ := fs.GetString("name")
		p.Name = &v
	}
	if fs.Changed("description") {
		v, _ := fs.GetString("description")
		p.Description = &v
	}
	if fs.Changed("image-url") {
		v, _ := fs.GetString("image-url")
		p.ImageURL = &v
	}
	if fs.Changed("display-order") {
		v, _ := fs.GetInt("display-order")
		p.DisplayOrder = &v
	}
	if fs.Changed("active") {
		v, _ := fs.GetBool("active")
		p.IsActive = &v
	}
	return p
}

// productFlags registers the editable product fields on fs.
func productFlags(fs *pflag.FlagSet) {
	fs.String("name", "", "product name")
	fs.String("category", "", "category name")
	fs.String("subcategory", "", "subcategory name")
	fs.String("price", "0", "price per unit")
	fs.String("unit", string(models.UnitKg), "unit: kg, liter, dozen or piece")
	fs.String("image-url", "", "image URL")
	fs.String("bg-image-url", "", "background image URL")
	fs.String("description", "", "product description")
	fs.StringArray("vitamin", nil, "vitamin as name or name=amount (repeatable)")
	fs.StringArray("mineral", nil, "mineral as name or name=amount (repeatable)")
	fs.String("dietary-fiber", "", "dietary fiber content")
	fs.String("antioxidants", "", "antioxidant content")
	fs.StringArray("benefit", nil, "health benefit (repeatable)")
	fs.Bool("active", true, "whether the product is listed")
	fs.String("off-reference", "", "Open Food Facts reference")
}

func productInputFromFlags(fs *pflag.FlagSet) (models.ProductInput, error) {
	in := models.ProductInput{}
	in.Name, _ = fs.GetString("name")
	in.Category, _ = fs.GetString("category")
	in.Subcategory, _ = fs.GetString("subcategory")
	in.ImageURL, _ = fs.GetString("image-url")
	in.BgImageURL, _ = fs.GetString("bg-image-url")
	in.Description, _ = fs.GetString("description")
	in.DietaryFiber, _ = fs.GetString("dietary-fiber")
	in.Antioxidants, _ = fs.GetString("antioxidants")
	in.HealthBenefits, _ = fs.GetStringArray("benefit")
	in.IsActive, _ = fs.GetBool("active")
	in.OffReference, _ = fs.GetString("off-reference")

	unit, _ := fs.GetString("unit")
	in.Unit = models.Unit(unit)

	raw, _ := fs.GetString("price")
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return in, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	in.Price = price

	vitamins, _ := fs.GetStringArray("vitamin")
	if in.Vitamins, err = models.NutrientsFromStrings("vitamins", vitamins); err != nil {
		return in, err
	}
	minerals, _ := fs.GetStringArray("mineral")
	if in.Minerals, err = models.NutrientsFromStrings("minerals", minerals); err != nil {
		return in, err
	}
	return in, nil
}

// productPatchFromFlags turns the flags set on the command line into a
// patch; flags left at their default are not sent.
func productPatchFromFlags(fs *pflag.FlagSet) (models.ProductPatch, error) {
	var p models.ProductPatch
	str := func(name string, dst **string) {
		if fs.Changed(name) {
			v, _ := fs.GetString(name)
			*dst = &v
		}
	}
	str("name", &p.Name)
	str("category", &p.Category)
	str("subcategory", &p.Subcategory)
	str("image-url", &p.ImageURL)
	str("bg-image-url", &p.BgImageURL)
	str("description", &p.Description)
	str("dietary-fiber", &p.DietaryFiber)
	str("antioxidants", &p.Antioxidants)
	str("off-reference", &p.OffReference)

	if fs.Changed("price") {
		raw, _ := fs.GetString("price")
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return p, fmt.Errorf("invalid price %q: %w", raw, err)
		}
		p.Price = &price
	}
	if fs.Changed("unit") {
		raw, _ := fs.GetString("unit")
		u := models.Unit(raw)
		p.Unit = &u
	}
	if fs.Changed("active") {
		v, _ := fs.GetBool("active")
		p.IsActive = &v
	}

	var err error
	if fs.Changed("vitamin") {
		vs, _ := fs.GetStringArray("vitamin")
		if p.Vitamins, err = models.NutrientsFromStrings("vitamins", vs); err != nil {
			return p, err
		}
	}
	if fs.Changed("mineral") {
		ms, _ := fs.GetStringArray("mineral")
		if p.Minerals, err = models.NutrientsFromStrings("minerals", ms); err != nil {
			return p, err
		}
	}
	if fs.Changed("benefit") {
		p.HealthBenefits, _ = fs.GetStringArray("benefit")
	}
	return p, nil
}
