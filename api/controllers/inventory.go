package controllers

import (
	"net/http"
	"strings"

	"github.com/pkock/brewhub-backend/api/responses"
	"github.com/pkock/brewhub-backend/api/validators"
	"github.com/pkock/brewhub-backend/internal/inventory"
	"github.com/pkock/brewhub-backend/pkg/enums"
	pkgerrors "github.com/pkock/brewhub-backend/pkg/errors"
	"github.com/pkock/brewhub-backend/pkg/logger"
)

// IngredientCreate lists a new ingredient under the authenticated retailer.
func IngredientCreate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		retailerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body inventory.CreateIngredientInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), retailerID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// IngredientUpdate applies a partial update to an owned ingredient.
func IngredientUpdate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		retailerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ingredientID, err := validators.ParsePathUUID(r, "ingredientID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body inventory.UpdateIngredientInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), retailerID, ingredientID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// IngredientGet returns a single ingredient.
func IngredientGet(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ingredientID, err := validators.ParsePathUUID(r, "ingredientID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), ingredientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// IngredientListMine returns the authenticated retailer's inventory, including
// inactive rows.
func IngredientListMine(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		retailerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := ingredientFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForRetailer(r.Context(), retailerID, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// IngredientCatalog returns the customer-facing listing of active ingredients.
func IngredientCatalog(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := ingredientFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		retailerID, err := validators.ParseQueryUUID(r, "retailer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.RetailerID = retailerID

		list, err := svc.ListCatalog(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// IngredientDeactivate withdraws an ingredient from the catalog.
func IngredientDeactivate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		retailerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ingredientID, err := validators.ParsePathUUID(r, "ingredientID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), retailerID, ingredientID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

// maxQueryLen bounds free-text search input from query strings.
const maxQueryLen = 200

func ingredientFilters(r *http.Request) (inventory.IngredientFilters, error) {
	filters := inventory.IngredientFilters{
		Query:        validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLen),
		LowStockOnly: r.URL.Query().Get("low_stock") == "true",
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		category, err := enums.ParseIngredientCategory(raw)
		if err != nil {
			return inventory.IngredientFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid category").WithDetails(map[string]any{"field": "category"})
		}
		filters.Category = &category
	}
	return filters, nil
}
