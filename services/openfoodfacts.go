package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pricejoshua/wehavefoodathome-backend/logger"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const offUserAgent = "WeHaveFoodAtHome-Backend/1.0 (Food Tracking App)"

// ExternalProduct is a catalog candidate built from an Open Food Facts record.
type ExternalProduct struct {
	Barcode     string         `json:"barcode"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Brand       string         `json:"brand,omitempty"`
	Category    string         `json:"category,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	Metadata    map[string]any `json:"metadata"`
}

// BarcodeCache stores lookups as JSON strings. A miss is reported as ok == false.
type BarcodeCache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type OpenFoodFactsClient struct {
	baseURL string
	client  *http.Client
	cache   BarcodeCache
	ttl     time.Duration
}

// NewOpenFoodFactsClient builds a client; cache may be nil.
func NewOpenFoodFactsClient(baseURL string, timeout time.Duration, cache BarcodeCache, ttl time.Duration) *OpenFoodFactsClient {
	return &OpenFoodFactsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		cache:   cache,
		ttl:     ttl,
	}
}

// Lookup returns (nil, nil) when Open Food Facts does not know the barcode.
func (c *OpenFoodFactsClient) Lookup(ctx context.Context, barcode string) (*ExternalProduct, error) {
	key := "off:" + barcode
	if c.cache != nil {
		if raw, ok, err := c.cache.Get(ctx, key); err != nil {
			logger.GetLogger().Warn("barcode cache read failed", zap.String("barcode", barcode), zap.Error(err))
		} else if ok {
			var p ExternalProduct
			if err := json.Unmarshal([]byte(raw), &p); err == nil {
				return &p, nil
			}
		}
	}

	url := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", offUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Open Food Facts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read Open Food Facts response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Open Food Facts API error %d: %s", resp.StatusCode, body)
	}

	p := parseOpenFoodFacts(barcode, body)
	if p == nil {
		return nil, nil
	}

	if c.cache != nil {
		if raw, err := json.Marshal(p); err == nil {
			if err := c.cache.Set(ctx, key, string(raw), c.ttl); err != nil {
				logger.GetLogger().Warn("barcode cache write failed", zap.String("barcode", barcode), zap.Error(err))
			}
		}
	}
	return p, nil
}

func parseOpenFoodFacts(barcode string, body []byte) *ExternalProduct {
	doc := gjson.ParseBytes(body)
	product := doc.Get("product")
	if doc.Get("status").Int() == 0 || !product.Exists() {
		return nil
	}

	name := product.Get("product_name").String()
	if name == "" {
		name = "Product " + barcode
	}
	brands := product.Get("brands").String()
	categories := product.Get("categories").String()

	var mainCategory string
	if categories != "" {
		mainCategory = strings.TrimSpace(strings.Split(categories, ",")[0])
	}

	var parts []string
	if brands != "" {
		parts = append(parts, "Brand: "+brands)
	}
	if categories != "" {
		parts = append(parts, "Categories: "+categories)
	}

	meta := map[string]any{"barcode": barcode}
	for key, field := range map[string]string{
		"ingredients":      "ingredients_text",
		"allergens":        "allergens",
		"serving_size":     "serving_size",
		"nutriscore_grade": "nutriscore_grade",
		"ecoscore_grade":   "ecoscore_grade",
	} {
		if v := product.Get(field); v.Exists() {
			meta[key] = v.String()
		}
	}
	if n := product.Get("nutriments"); n.IsObject() {
		meta["nutriments"] = n.Value()
	}

	return &ExternalProduct{
		Barcode:     barcode,
		Name:        name,
		Description: strings.Join(parts, " | "),
		Brand:       brands,
		Category:    mainCategory,
		ImageURL:    product.Get("image_url").String(),
		Metadata:    meta,
	}
}
