package receipts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"```json {\"a\":1}```":    `{"a":1}`,
	}
	for in, want := range cases {
		assert.Equal(t, want, stripFences(in), in)
	}
}

func TestParseItemType(t *testing.T) {
	require.NotNil(t, ParseItemType("FOOD"))
	assert.Equal(t, ItemFood, *ParseItemType("FOOD"))
	assert.Equal(t, ItemFee, *ParseItemType("fee"))
	assert.Nil(t, ParseItemType("snack"))
	assert.Nil(t, ParseItemType(""))
}

func TestFromVision(t *testing.T) {
	v, err := decodeVision("```json\n" + `{
		"vendor": {"name": "Corner Shop", "address": "1 Main St"},
		"date": "2024-03-05",
		"total": 12.5,
		"line_items": [
			{"description": "Whole Milk", "quantity": 2, "price": 1.5, "type": "Food"},
			{"description": "Bag Fee", "quantity": 1, "price": 0.1, "total": 0.1, "type": "fee"},
			{"description": "Mystery", "quantity": 1, "type": "other"}
		]
	}` + "\n```")
	require.NoError(t, err)

	now := time.UnixMilli(1700000000000)
	r := fromVision(v, "claude-vision", "claude", 0.95, now)

	assert.Equal(t, "USD", r.CurrencyCode)
	assert.Equal(t, "receipt", r.Category)
	assert.Equal(t, "receipt", r.DocumentType)
	assert.Equal(t, "claude-1700000000000", r.ReferenceNumber)
	assert.Equal(t, 12.5, r.Total)
	assert.Equal(t, 0.0, r.Subtotal)
	assert.Nil(t, r.Tax)
	require.NotNil(t, r.Date)
	assert.Equal(t, "2024-03-05", r.Date.Format("2006-01-02"))

	assert.Equal(t, []string{"en"}, r.Meta.Language)
	assert.Equal(t, 0.95, r.Meta.OCRScore)
	assert.Equal(t, "claude", r.Meta.Owner)
	assert.Equal(t, "claude-vision", r.Meta.Source)
	assert.Equal(t, 1, r.Meta.ProcessedPages)
	assert.Equal(t, 1, r.Meta.TotalPages)

	assert.Equal(t, "Corner Shop", r.Vendor.Name)
	assert.Equal(t, "Corner Shop", r.Vendor.RawName)
	require.NotNil(t, r.Vendor.RawAddress)
	assert.Equal(t, "1 Main St", *r.Vendor.RawAddress)
	assert.Nil(t, r.Vendor.PhoneNumber)

	require.Len(t, r.LineItems, 3)
	milk := r.LineItems[0]
	assert.Equal(t, int64(1), milk.ID)
	assert.Equal(t, 0, milk.Order)
	assert.Equal(t, "whole milk", *milk.NormalizedDescription)
	assert.Equal(t, "Whole Milk", milk.Text)
	require.NotNil(t, milk.Total)
	assert.Equal(t, 3.0, *milk.Total)
	assert.Equal(t, ItemFood, *milk.Type)

	fee := r.LineItems[1]
	assert.Equal(t, int64(2), fee.ID)
	assert.Equal(t, 0.1, *fee.Total)

	mystery := r.LineItems[2]
	assert.Nil(t, mystery.Total)
	assert.Nil(t, mystery.Type)
}

func TestFromVisionKeepsCurrency(t *testing.T) {
	v, err := decodeVision(`{"vendor":{"name":"x"},"total":1,"currency_code":"EUR","line_items":[]}`)
	require.NoError(t, err)
	r := fromVision(v, "groq-llama-vision", "groq", 0.9, time.Now())
	assert.Equal(t, "EUR", r.CurrencyCode)
	assert.Empty(t, r.LineItems)
	assert.NotNil(t, r.LineItems)
}

func TestDecodeVisionRejectsGarbage(t *testing.T) {
	_, err := decodeVision("I could not read this receipt.")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	assert.NotNil(t, parseDate("2024-01-02"))
	assert.NotNil(t, parseDate("2024-01-02 10:11:12"))
	assert.NotNil(t, parseDate("2024-01-02T10:11:12Z"))
	assert.Nil(t, parseDate("yesterday"))
}
