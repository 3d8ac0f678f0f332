// Package openfoodfacts queries the Open Food Facts API for nutrition data.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"countme-core/internal/domain"
)

const defaultBaseURL = "https://world.openfoodfacts.org"

const userAgent = "countme-core/1.0 (+https://github.com/countme/countme-core)"

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Search queries the full-text product search and maps each hit to a
// suggestion. Hits without a product name are dropped; nutrient values are
// per serving when the product declares one, per 100g otherwise.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.NutritionSearchResult, error) {
	if limit <= 0 {
		limit = 10
	}
	u := fmt.Sprintf("%s/cgi/search.pl?search_terms=%s&search_simple=1&action=process&json=1&page_size=%d",
		c.baseURL(), url.QueryEscape(strings.TrimSpace(query)), limit)

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var parsed offSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode openfoodfacts search response: %w", err)
	}

	out := make([]domain.NutritionSearchResult, 0, len(parsed.Products))
	for _, p := range parsed.Products {
		if strings.TrimSpace(p.ProductName) == "" {
			continue
		}
		out = append(out, toResult(p))
	}
	return out, nil
}

// LookupBarcode fetches a single product by its barcode.
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*domain.NutritionSearchResult, error) {
	u := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL(), url.PathEscape(strings.TrimSpace(barcode)))

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var parsed offResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode openfoodfacts response: %w", err)
	}
	if parsed.Status != 1 || strings.TrimSpace(parsed.Product.ProductName) == "" {
		return nil, fmt.Errorf("no openfoodfacts product found for barcode %q", barcode)
	}

	result := toResult(parsed.Product)
	return &result, nil
}

func (c *Client) baseURL() string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	return base
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create openfoodfacts request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute openfoodfacts request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read openfoodfacts response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openfoodfacts request failed with status %d", resp.StatusCode)
	}
	return body, nil
}

func toResult(p offProduct) domain.NutritionSearchResult {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		id = strings.TrimSpace(p.Code)
	}

	servingSize, servingUnit := parseServing(p)
	return domain.NutritionSearchResult{
		ID:          id,
		Name:        strings.TrimSpace(p.ProductName),
		BrandName:   strings.TrimSpace(p.Brands),
		Calories:    nutrientValue(p.Nutriments, "energy-kcal"),
		ServingSize: servingSize,
		ServingUnit: servingUnit,
		Protein:     optionalNutrient(p.Nutriments, "proteins"),
		Carbs:       optionalNutrient(p.Nutriments, "carbohydrates"),
		Fats:        optionalNutrient(p.Nutriments, "fat"),
	}
}

// nutrientValue prefers the per-serving amount and falls back to per 100g.
func nutrientValue(n map[string]any, base string) float64 {
	for _, key := range []string{base + "_serving", base + "_100g"} {
		if v, ok := parseFloatAny(n[key]); ok {
			return v
		}
	}
	return 0
}

func optionalNutrient(n map[string]any, base string) *float64 {
	for _, key := range []string{base + "_serving", base + "_100g"} {
		if v, ok := parseFloatAny(n[key]); ok {
			return &v
		}
	}
	return nil
}

func parseFloatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func parseServing(p offProduct) (*float64, string) {
	if p.ServingQuantity > 0 {
		unit := strings.TrimSpace(p.ServingQuantityUnit)
		if unit == "" {
			unit = "g"
		}
		q := p.ServingQuantity
		return &q, unit
	}
	if strings.TrimSpace(p.ServingSize) != "" {
		parts := strings.Fields(strings.TrimSpace(p.ServingSize))
		if len(parts) >= 2 {
			if val, err := strconv.ParseFloat(strings.ReplaceAll(parts[0], ",", ""), 64); err == nil && val > 0 {
				return &val, parts[1]
			}
		}
	}
	return nil, ""
}

type offResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type offProduct struct {
	ID                  string         `json:"_id"`
	Code                string         `json:"code"`
	ProductName         string         `json:"product_name"`
	Brands              string         `json:"brands"`
	ServingSize         string         `json:"serving_size"`
	ServingQuantity     float64        `json:"serving_quantity"`
	ServingQuantityUnit string         `json:"serving_quantity_unit"`
	Nutriments          map[string]any `json:"nutriments"`
}

type offSearchResponse struct {
	Products []offProduct `json:"products"`
}
