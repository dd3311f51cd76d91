// Package services contains the application services of the dashboard
// client: the query executors and mutation executors for categories,
// products and farmers, and the authentication service.
//
// Reads go through a cache.Store so concurrent views share one request per
// resource. Writes go straight to the Gateway and then either patch the
// cached lists optimistically (products) or invalidate the tags they outdate
// (categories, farmers).
package services

import "github.com/dmitrijs2005/farmdash/internal/client/cache"

const (
	tagCategory = "Category"
	tagProduct  = "Product"
	tagFarmer   = "Farmer"
)

var (
	categoriesKey = cache.NewKey("categories", "list")
	productsKey   = cache.NewKey("products", "list")
)

func categoryKey(id string) cache.Key { return cache.NewKey("category", id) }
func productKey(id string) cache.Key  { return cache.NewKey("product", id) }
func farmersKey(limit, offset int) cache.Key {
	return cache.NewKey("farmers", limit, offset)
}
