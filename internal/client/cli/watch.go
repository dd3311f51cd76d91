package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/farmdash/internal/client/cache"
	"github.com/dmitrijs2005/farmdash/internal/client/models"
)

// watchable lists the resources a REPL session can keep a live view of.
var watchable = []string{"categories", "products", "farmers"}

// Watch keeps the named list subscribed, printing a notice each time its
// cached state changes. A watched list is never evicted by the sweeper.
func (a *App) Watch(resource string) error {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()

	if _, ok := a.watches[resource]; ok {
		fmt.Fprintf(a.out, "Already watching %s\n", resource)
		return nil
	}

	var sub *cache.Subscription
	switch resource {
	case "categories":
		_, sub = a.categoryService.SubscribeCategories(func(s cache.Snapshot[[]models.Category]) {
			a.notice(resource, len(s.Data), s.IsFetching, s.Err)
		})
	case "products":
		_, sub = a.productService.SubscribeProducts(func(s cache.Snapshot[[]models.Product]) {
			a.notice(resource, len(s.Data), s.IsFetching, s.Err)
		})
	case "farmers":
		_, sub = a.farmerService.SubscribeFarmers(func(s cache.Snapshot[[]models.Farmer]) {
			a.notice(resource, len(s.Data), s.IsFetching, s.Err)
		})
	default:
		return fmt.Errorf("cannot watch %q, choose one of: %s", resource, strings.Join(watchable, ", "))
	}

	a.watches[resource] = sub
	fmt.Fprintf(a.out, "Watching %s\n", resource)
	return nil
}

// Unwatch drops the live view of resource, letting its entry age out.
func (a *App) Unwatch(resource string) error {
	a.watchMu.Lock()
	sub, ok := a.watches[resource]
	delete(a.watches, resource)
	a.watchMu.Unlock()

	if !ok {
		return fmt.Errorf("not watching %q", resource)
	}
	sub.Unsubscribe()
	fmt.Fprintf(a.out, "Stopped watching %s\n", resource)
	return nil
}

// Watching returns the watched resources in a stable order.
func (a *App) Watching() []string {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	out := make([]string, 0, len(a.watches))
	for r := range a.watches {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

func (a *App) unwatchAll() {
	a.watchMu.Lock()
	subs := a.watches
	a.watches = map[string]*cache.Subscription{}
	a.watchMu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}

func (a *App) notice(resource string, n int, fetching bool, err error) {
	switch {
	case fetching:
		printNotice(a.out, "[%s] refreshing", resource)
	case err != nil:
		printError(a.out, fmt.Errorf("%s: %w", resource, err))
	default:
		printNotice(a.out, "[%s] %d records", resource, n)
	}
}
