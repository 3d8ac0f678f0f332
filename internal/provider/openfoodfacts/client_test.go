package openfoodfacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchParsesOpenFoodFactsResponse(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search_terms"); got != "yogurt" {
			t.Errorf("unexpected search terms %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "products": [
    {
      "_id": "111",
      "product_name": "Yogurt Cup",
      "brands": "Brand Co",
      "serving_quantity": 170,
      "serving_quantity_unit": "g",
      "nutriments": {
        "energy-kcal_serving": 120,
        "proteins_serving": 10,
        "carbohydrates_serving": 15,
        "fat_serving": 2
      }
    },
    {
      "_id": "222",
      "product_name": "",
      "nutriments": {}
    },
    {
      "code": "333",
      "product_name": "Plain Yogurt",
      "nutriments": {
        "energy-kcal_100g": 61
      }
    }
  ]
}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	results, err := c.Search(context.Background(), "yogurt", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected unnamed product dropped, got %d results", len(results))
	}

	first := results[0]
	if first.ID != "111" || first.Name != "Yogurt Cup" || first.BrandName != "Brand Co" {
		t.Errorf("unexpected first result: %+v", first)
	}
	if first.Calories != 120 {
		t.Errorf("expected per-serving calories 120, got %v", first.Calories)
	}
	if first.ServingSize == nil || *first.ServingSize != 170 || first.ServingUnit != "g" {
		t.Errorf("unexpected serving: %v %q", first.ServingSize, first.ServingUnit)
	}
	if first.Protein == nil || *first.Protein != 10 {
		t.Errorf("unexpected protein: %v", first.Protein)
	}

	second := results[1]
	if second.ID != "333" {
		t.Errorf("expected code used when _id absent, got %q", second.ID)
	}
	if second.Calories != 61 {
		t.Errorf("expected per-100g fallback, got %v", second.Calories)
	}
	if second.ServingSize != nil {
		t.Errorf("expected no serving for second result, got %v", second.ServingSize)
	}
}

func TestSearchReportsUpstreamFailure(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	if _, err := c.Search(context.Background(), "yogurt", 10); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}

func TestLookupBarcodeParsesProduct(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "status": 1,
  "product": {
    "code": "12345678",
    "product_name": "Granola Bar",
    "serving_size": "40 g",
    "nutriments": {
      "energy-kcal_serving": 180,
      "fat_serving": 6
    }
  }
}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	item, err := c.LookupBarcode(context.Background(), "12345678")
	if err != nil {
		t.Fatalf("lookup barcode: %v", err)
	}
	if item.Name != "Granola Bar" || item.Calories != 180 {
		t.Fatalf("unexpected parsed item: %+v", item)
	}
	if item.ServingSize == nil || *item.ServingSize != 40 || item.ServingUnit != "g" {
		t.Errorf("unexpected serving parsed from serving_size: %v %q", item.ServingSize, item.ServingUnit)
	}
}

func TestLookupBarcodeNotFound(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": 0, "product": {}}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	if _, err := c.LookupBarcode(context.Background(), "00000000"); err == nil {
		t.Fatal("expected error for unknown barcode")
	}
}
