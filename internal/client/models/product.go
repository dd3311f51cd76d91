package models

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// PlaceholderImageURL is shown when a product has neither image.
const PlaceholderImageURL = "https://images.unsplash.com/photo-1546470427-227e9e3a0e6e?w=400"

// DefaultRating is reported when the gateway omits a rating. The value is
// passed through, never computed.
const DefaultRating = 4.5

// Unit is the selling unit of a product.
type Unit string

const (
	UnitKg    Unit = "kg"
	UnitLiter Unit = "liter"
	UnitDozen Unit = "dozen"
	UnitPiece Unit = "piece"
)

var Units = []Unit{UnitKg, UnitLiter, UnitDozen, UnitPiece}

func (u Unit) Valid() bool { return slices.Contains(Units, u) }

// Nutrient is one vitamin or mineral annotation. The gateway sends either
// {"name","amount"} objects or bare names.
type Nutrient struct {
	Name   string `json:"name"`
	Amount string `json:"amount,omitempty"`
}

func (n *Nutrient) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Nutrient{Name: s}
		return nil
	}
	type plain Nutrient
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*n = Nutrient(p)
	return nil
}

// NutrientsFromStrings parses "name=amount" (or bare "name") items.
func NutrientsFromStrings(field string, items []string) ([]Nutrient, error) {
	out := make([]Nutrient, 0, len(items))
	for _, item := range items {
		parts := strings.Split(item, "=")
		if len(parts) > 2 || isBlank(parts[0]) {
			return nil, &ValidationError{Field: field, Reason: "item must be name or name=amount"}
		}
		n := Nutrient{Name: strings.TrimSpace(parts[0])}
		if len(parts) == 2 {
			n.Amount = strings.TrimSpace(parts[1])
		}
		out = append(out, n)
	}
	return out, nil
}

// Lines is a list of free-text lines. On the wire it may be an array or a
// single newline-separated string.
type Lines []string

func (l *Lines) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = ParseHealthBenefits(s)
		return nil
	}
	var ss []string
	if err := json.Unmarshal(b, &ss); err != nil {
		return err
	}
	*l = ss
	return nil
}

// ParseHealthBenefits splits free text into one benefit per non-blank line.
func ParseHealthBenefits(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Product is a normalized product listing.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Subcategory    string          `json:"subcategory,omitempty"`
	ProductCode    string          `json:"productCode,omitempty"`
	Price          decimal.Decimal `json:"price"`
	Unit           Unit            `json:"unit"`
	Image          string          `json:"image"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	BgImageURL     string          `json:"bgImageUrl,omitempty"`
	Rating         float64         `json:"rating"`
	Description    string          `json:"description"`
	Vitamins       []Nutrient      `json:"vitamins"`
	Minerals       []Nutrient      `json:"minerals"`
	DietaryFiber   string          `json:"dietaryFiber,omitempty"`
	Antioxidants   string          `json:"antioxidants,omitempty"`
	HealthBenefits []string        `json:"healthBenefits"`
	IsActive       bool            `json:"isActive"`
	OffReference   string          `json:"offReference,omitempty"`
}

// RawProduct is a product as served by the gateway.
type RawProduct struct {
	ID             FlexString      `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Subcategory    string          `json:"subcategory"`
	ProductCode    FlexString      `json:"productCode"`
	Price          decimal.Decimal `json:"price"`
	Unit           string          `json:"unit"`
	ImageURL       string          `json:"imageUrl"`
	BgImageURL     string          `json:"bgImageUrl"`
	Rating         *float64        `json:"rating"`
	Description    string          `json:"description"`
	Vitamins       []Nutrient      `json:"vitamins"`
	Minerals       []Nutrient      `json:"minerals"`
	DietaryFiber   string          `json:"dietaryFiber"`
	Antioxidants   string          `json:"antioxidants"`
	HealthBenefits Lines           `json:"healthBenefits"`
	IsActive       *bool           `json:"isActive"`
	OffReference   string          `json:"offReference"`
}

// DisplayImage picks the primary image, then the background image, then the
// placeholder.
func DisplayImage(imageURL, bgImageURL string) string {
	switch {
	case !isBlank(imageURL):
		return imageURL
	case !isBlank(bgImageURL):
		return bgImageURL
	default:
		return PlaceholderImageURL
	}
}

func NormalizeProduct(r RawProduct) Product {
	p := Product{
		ID:             r.ID.String(),
		Name:           r.Name,
		Category:       r.Category,
		Subcategory:    r.Subcategory,
		ProductCode:    r.ProductCode.String(),
		Price:          r.Price,
		Unit:           Unit(r.Unit),
		Image:          DisplayImage(r.ImageURL, r.BgImageURL),
		ImageURL:       r.ImageURL,
		BgImageURL:     r.BgImageURL,
		Rating:         DefaultRating,
		Description:    r.Description,
		Vitamins:       nonNil(r.Vitamins),
		Minerals:       nonNil(r.Minerals),
		DietaryFiber:   r.DietaryFiber,
		Antioxidants:   r.Antioxidants,
		HealthBenefits: nonNil([]string(r.HealthBenefits)),
		IsActive:       true,
		OffReference:   r.OffReference,
	}
	if r.Rating != nil {
		p.Rating = *r.Rating
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	return p
}

func NormalizeProducts(raw []RawProduct) []Product {
	out := make([]Product, 0, len(raw))
	for _, r := range raw {
		out = append(out, NormalizeProduct(r))
	}
	return out
}

// ProductInput is the create payload.
type ProductInput struct {
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Subcategory    string          `json:"subcategory,omitempty"`
	Price          decimal.Decimal `json:"price"`
	Unit           Unit            `json:"unit"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	BgImageURL     string          `json:"bgImageUrl,omitempty"`
	Description    string          `json:"description"`
	Vitamins       []Nutrient      `json:"vitamins"`
	Minerals       []Nutrient      `json:"minerals"`
	DietaryFiber   string          `json:"dietaryFiber,omitempty"`
	Antioxidants   string          `json:"antioxidants,omitempty"`
	HealthBenefits []string        `json:"healthBenefits"`
	IsActive       bool            `json:"isActive"`
	OffReference   string          `json:"offReference,omitempty"`
}

// MarshalJSON writes the price as a JSON number.
func (in ProductInput) MarshalJSON() ([]byte, error) {
	type wire ProductInput
	return json.Marshal(struct {
		wire
		Price json.Number `json:"price"`
	}{wire(in), json.Number(in.Price.String())})
}

func (in *ProductInput) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"name", in.Name},
		{"category", in.Category},
		{"description", in.Description},
	} {
		if err := required(f.name, f.value); err != nil {
			return err
		}
	}
	if in.Price.IsNegative() {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if !in.Unit.Valid() {
		return &ValidationError{Field: "unit", Reason: "must be one of kg, liter, dozen, piece"}
	}
	in.Vitamins = nonNil(in.Vitamins)
	in.Minerals = nonNil(in.Minerals)
	in.HealthBenefits = nonNil(in.HealthBenefits)
	return nil
}

// ProductPatch is the partial update payload; nil fields are not sent.
type ProductPatch struct {
	Name           *string          `json:"name,omitempty"`
	Category       *string          `json:"category,omitempty"`
	Subcategory    *string          `json:"subcategory,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	Unit           *Unit            `json:"unit,omitempty"`
	ImageURL       *string          `json:"imageUrl,omitempty"`
	BgImageURL     *string          `json:"bgImageUrl,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Vitamins       []Nutrient       `json:"vitamins,omitempty"`
	Minerals       []Nutrient       `json:"minerals,omitempty"`
	DietaryFiber   *string          `json:"dietaryFiber,omitempty"`
	Antioxidants   *string          `json:"antioxidants,omitempty"`
	HealthBenefits []string         `json:"healthBenefits,omitempty"`
	IsActive       *bool            `json:"isActive,omitempty"`
	OffReference   *string          `json:"offReference,omitempty"`
}

// MarshalJSON writes the price, when set, as a JSON number.
func (p ProductPatch) MarshalJSON() ([]byte, error) {
	type wire ProductPatch
	var price *json.Number
	if p.Price != nil {
		n := json.Number(p.Price.String())
		price = &n
	}
	return json.Marshal(struct {
		wire
		Price *json.Number `json:"price,omitempty"`
	}{wire(p), price})
}

func (p ProductPatch) Validate() error {
	if p.Name != nil {
		if err := required("name", *p.Name); err != nil {
			return err
		}
	}
	if p.Category != nil {
		if err := required("category", *p.Category); err != nil {
			return err
		}
	}
	if p.Price != nil && p.Price.IsNegative() {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if p.Unit != nil && !p.Unit.Valid() {
		return &ValidationError{Field: "unit", Reason: "must be one of kg, liter, dozen, piece"}
	}
	return nil
}

// Apply merges the supplied fields into a copy of pr. A new primary image
// also becomes the display image.
func (p ProductPatch) Apply(pr Product) Product {
	set(&pr.Name, p.Name)
	set(&pr.Category, p.Category)
	set(&pr.Subcategory, p.Subcategory)
	set(&pr.Price, p.Price)
	set(&pr.Unit, p.Unit)
	set(&pr.ImageURL, p.ImageURL)
	set(&pr.BgImageURL, p.BgImageURL)
	set(&pr.Description, p.Description)
	set(&pr.DietaryFiber, p.DietaryFiber)
	set(&pr.Antioxidants, p.Antioxidants)
	set(&pr.IsActive, p.IsActive)
	set(&pr.OffReference, p.OffReference)
	if p.Vitamins != nil {
		pr.Vitamins = slices.Clone(p.Vitamins)
	}
	if p.Minerals != nil {
		pr.Minerals = slices.Clone(p.Minerals)
	}
	if p.HealthBenefits != nil {
		pr.HealthBenefits = slices.Clone(p.HealthBenefits)
	}
	if p.ImageURL != nil && !isBlank(*p.ImageURL) {
		pr.Image = *p.ImageURL
	}
	return pr
}

// FilterProductsByCategory keeps products of the named category; "" and
// "All" keep everything.
func FilterProductsByCategory(ps []Product, category string) []Product {
	if category == "" || category == "All" {
		return slices.Clone(ps)
	}
	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
