package handler

import (
	"context"
	"errors"
	"net/http"

	"countme-core/internal/provider/openfoodfacts"
	"countme-core/internal/service"
	"countme-core/pkg/response"

	"github.com/gorilla/mux"
)

type SearchHandler struct {
	service *service.SearchService
	lookup  *openfoodfacts.Client
}

func NewSearchHandler(service *service.SearchService, lookup *openfoodfacts.Client) *SearchHandler {
	return &SearchHandler{
		service: service,
		lookup:  lookup,
	}
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, "Query parameter q is required")
		return
	}

	results, err := h.service.Search(r.Context(), query)
	if err != nil {
		// A superseded query is not a failure; the newer request answers.
		if errors.Is(err, context.Canceled) {
			response.JSON(w, http.StatusOK, []any{})
			return
		}
		response.ServiceUnavailable(w, "Nutrition search unavailable")
		return
	}
	response.Success(w, results)
}

func (h *SearchHandler) LookupBarcode(w http.ResponseWriter, r *http.Request) {
	barcode := mux.Vars(r)["code"]
	if barcode == "" {
		response.BadRequest(w, "Barcode is required")
		return
	}

	result, err := h.lookup.LookupBarcode(r.Context(), barcode)
	if err != nil {
		response.NotFound(w, "No product found for barcode")
		return
	}
	response.Success(w, result)
}
