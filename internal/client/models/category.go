package models

import (
	"slices"
	"strings"
)

// DefaultDisplayOrder is used when the gateway or the form omits an order.
const DefaultDisplayOrder = 1

// Category is a normalized product category.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url,omitempty"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

// RawCategory is a category as served by the gateway. Both snake and camel
// spellings of the active flag occur in the wild.
type RawCategory struct {
	ID            FlexString `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	ImageURL      string     `json:"image_url"`
	DisplayOrder  FlexString `json:"display_order"`
	IsActive      *bool      `json:"is_active"`
	IsActiveCamel *bool      `json:"isActive"`
}

// NormalizeCategory maps the wire shape into a Category. A missing or
// non-positive display order becomes DefaultDisplayOrder; a missing active
// flag means active.
func NormalizeCategory(r RawCategory) Category {
	c := Category{
		ID:           r.ID.String(),
		Name:         r.Name,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		DisplayOrder: r.DisplayOrder.Int(),
		IsActive:     true,
	}
	if c.DisplayOrder <= 0 {
		c.DisplayOrder = DefaultDisplayOrder
	}
	switch {
	case r.IsActive != nil:
		c.IsActive = *r.IsActive
	case r.IsActiveCamel != nil:
		c.IsActive = *r.IsActiveCamel
	}
	return c
}

func NormalizeCategories(raw []RawCategory) []Category {
	out := make([]Category, 0, len(raw))
	for _, r := range raw {
		out = append(out, NormalizeCategory(r))
	}
	return out
}

// CategoryInput is the create payload.
type CategoryInput struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url,omitempty"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

// Validate checks required fields and fills the default display order.
func (in *CategoryInput) Validate() error {
	if err := required("name", in.Name); err != nil {
		return err
	}
	if err := required("description", in.Description); err != nil {
		return err
	}
	if in.DisplayOrder < 0 {
		return &ValidationError{Field: "display_order", Reason: "must be a positive integer"}
	}
	if in.DisplayOrder == 0 {
		in.DisplayOrder = DefaultDisplayOrder
	}
	return nil
}

// CategoryPatch is the partial update payload; nil fields are not sent.
type CategoryPatch struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (p CategoryPatch) Validate() error {
	if p.Name != nil {
		if err := required("name", *p.Name); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := required("description", *p.Description); err != nil {
			return err
		}
	}
	if p.DisplayOrder != nil && *p.DisplayOrder <= 0 {
		return &ValidationError{Field: "display_order", Reason: "must be a positive integer"}
	}
	return nil
}

// SortCategoriesByDisplayOrder returns a copy ordered by ascending display
// order. Ties keep the gateway's order.
func SortCategoriesByDisplayOrder(cs []Category) []Category {
	out := slices.Clone(cs)
	slices.SortStableFunc(out, func(a, b Category) int {
		return a.DisplayOrder - b.DisplayOrder
	})
	return out
}

// FilterCategories keeps categories whose name or description contains term,
// ignoring case. An empty term keeps everything.
func FilterCategories(cs []Category, term string) []Category {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return slices.Clone(cs)
	}
	out := make([]Category, 0, len(cs))
	for _, c := range cs {
		if strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.Description), term) {
			out = append(out, c)
		}
	}
	return out
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
