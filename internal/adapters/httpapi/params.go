package httpapi

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/Overland-East-Bay/household-fpl-api/internal/domain"
)

const householdIDParam = "householdId"

// householdIDFromPath binds the {householdId} path segment (simple style).
// The binder unescapes its input, so it is always handed the escaped segment.
func householdIDFromPath(r *http.Request) (domain.HouseholdID, error) {
	raw := chi.URLParam(r, householdIDParam)
	if !routedOnRawPath(r) {
		raw = url.PathEscape(raw)
	}

	var id string
	err := runtime.BindStyledParameterWithLocation("simple", false, householdIDParam, runtime.ParamLocationPath, raw, &id)
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter %s: %w", householdIDParam, err)
	}
	return domain.HouseholdID(id), nil
}

// routedOnRawPath reports whether chi matched against the escaped URL.RawPath. It does so only
// when RawPath is set and no middleware (StripSlashes) has overridden the route path.
func routedOnRawPath(r *http.Request) bool {
	if r.URL.RawPath == "" {
		return false
	}
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePath != "" {
		return false
	}
	return true
}
