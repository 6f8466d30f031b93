package receipts

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"
)

const visionPrompt = `You are a receipt parsing assistant. Analyze this receipt image and extract all relevant information.

Return a JSON object with the following structure:
{
  "vendor": {
    "name": "Store name",
    "address": "Store address if visible",
    "phone": "Phone number if visible"
  },
  "date": "YYYY-MM-DD format",
  "total": 0.00,
  "subtotal": 0.00,
  "tax": 0.00,
  "currency_code": "USD",
  "payment_method": "Cash/Card/etc",
  "line_items": [
    {
      "description": "Item name",
      "quantity": 1,
      "price": 0.00,
      "total": 0.00,
      "type": "food" or "product" or "alcohol" or "discount" or "fee"
    }
  ]
}

Important:
- Extract ALL line items from the receipt
- Classify items as 'food', 'product', 'alcohol', 'discount', or 'fee'
- Include quantities (default to 1 if not specified)
- Be precise with numbers
- Return ONLY valid JSON, no markdown formatting`

// VisionReceipt is the JSON shape the vision models are asked to produce.
type VisionReceipt struct {
	Vendor struct {
		Name    string  `json:"name"`
		Address *string `json:"address"`
		Phone   *string `json:"phone"`
	} `json:"vendor"`
	Date          *string      `json:"date"`
	Total         float64      `json:"total"`
	Subtotal      *float64     `json:"subtotal"`
	Tax           *float64     `json:"tax"`
	LineItems     []VisionItem `json:"line_items"`
	CurrencyCode  *string      `json:"currency_code"`
	PaymentMethod *string      `json:"payment_method"`
}

type VisionItem struct {
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	Price       *float64 `json:"price"`
	Total       *float64 `json:"total"`
	Type        string   `json:"type"`
}

// stripFences removes a surrounding ```json or ``` markdown fence.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	s = strings.TrimSuffix(strings.TrimRightFunc(s, unicode.IsSpace), "```")
	return strings.TrimSpace(s)
}

// decodeVision parses model output (possibly fenced) into a VisionReceipt.
func decodeVision(text string) (*VisionReceipt, error) {
	var v VisionReceipt
	if err := json.Unmarshal([]byte(stripFences(text)), &v); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	return &v, nil
}

// fromVision maps a vision model reply onto the canonical Receipt.
func fromVision(v *VisionReceipt, source, owner string, score float64, now time.Time) *Receipt {
	r := newReceipt(now)
	r.Category = "receipt"
	r.DocumentType = "receipt"
	r.CurrencyCode = "USD"
	if v.CurrencyCode != nil && *v.CurrencyCode != "" {
		r.CurrencyCode = *v.CurrencyCode
	}
	if v.Date != nil {
		r.Date = parseDate(*v.Date)
	}
	r.Total = v.Total
	if v.Subtotal != nil {
		r.Subtotal = *v.Subtotal
	}
	r.Tax = v.Tax
	r.Payment.Type = v.PaymentMethod
	r.ReferenceNumber = fmt.Sprintf("%s-%d", owner, now.UnixMilli())
	r.Meta = Meta{
		Language:        []string{"en"},
		OCRScore:        score,
		Owner:           owner,
		Pages:           []Page{},
		ProcessedPages:  1,
		Source:          source,
		SourceDocuments: []Page{},
		TotalPages:      1,
	}

	r.Vendor.Name = v.Vendor.Name
	r.Vendor.RawName = v.Vendor.Name
	r.Vendor.Address = v.Vendor.Address
	r.Vendor.RawAddress = v.Vendor.Address
	r.Vendor.PhoneNumber = v.Vendor.Phone

	for i, it := range v.LineItems {
		desc := it.Description
		norm := lower(desc)
		item := LineItem{
			Description:           &desc,
			FullDescription:       &desc,
			ID:                    int64(i + 1),
			NormalizedDescription: &norm,
			Order:                 i,
			Price:                 it.Price,
			Quantity:              it.Quantity,
			Tags:                  []string{},
			Text:                  desc,
			Total:                 it.Total,
			Type:                  ParseItemType(it.Type),
		}
		if item.Total == nil && it.Price != nil && *it.Price != 0 {
			t := *it.Price * it.Quantity
			item.Total = &t
		}
		r.LineItems = append(r.LineItems, item)
	}
	return r
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

// parseDate returns nil for dates in none of the known layouts.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func lower(s string) string { return strings.ToLower(s) }
