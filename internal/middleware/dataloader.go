package middleware

import (
	"net/http"

	"github.com/jmallet/catql/internal/catalogloader"
)

// DataLoaderMiddleware attaches a request-scoped category loader so that
// include hydration within one request batches its lookups.
func DataLoaderMiddleware(fetcher catalogloader.CategoryFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loader := catalogloader.NewCategoryLoader(fetcher)
			ctx := catalogloader.WithContext(r.Context(), loader)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
