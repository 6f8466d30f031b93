package receipts

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

type VeryfiCredentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	APIKey       string
}

func (c VeryfiCredentials) complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.Username != "" && c.APIKey != ""
}

// VeryfiParser submits receipts to Veryfi's documents API by URL.
type VeryfiParser struct {
	creds   VeryfiCredentials
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewVeryfiParser(creds VeryfiCredentials, baseURL string, client *http.Client) *VeryfiParser {
	return &VeryfiParser{
		creds:   creds,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		now:     time.Now,
	}
}

func (p *VeryfiParser) Name() string { return "Veryfi" }

// ParseReceipt ignores mimeType; Veryfi sniffs the document itself.
func (p *VeryfiParser) ParseReceipt(ctx context.Context, imageURL, _ string) (*Receipt, error) {
	body, err := json.Marshal(map[string]string{"file_url": imageURL})
	if err != nil {
		return nil, err
	}

	ts := strconv.FormatInt(p.now().UnixMilli(), 10)
	resp, err := postJSON(ctx, p.client, p.baseURL+"/documents", body, map[string]string{
		"CLIENT-ID":                  p.creds.ClientID,
		"AUTHORIZATION":              fmt.Sprintf("apikey %s:%s", p.creds.Username, p.creds.APIKey),
		"X-Veryfi-Request-Timestamp": ts,
		"X-Veryfi-Request-Signature": p.signature(ts, imageURL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt with Veryfi: %w", err)
	}
	return fromVeryfi(gjson.ParseBytes(resp), p.now()), nil
}

// signature is base64(HMAC-SHA256(secret, "timestamp:<ts>,file_url:<url>")).
func (p *VeryfiParser) signature(ts, fileURL string) string {
	mac := hmac.New(sha256.New, []byte(p.creds.ClientSecret))
	mac.Write([]byte("timestamp:" + ts + ",file_url:" + fileURL))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// fromVeryfi copies the typed fields Veryfi returned and leaves everything else empty.
func fromVeryfi(doc gjson.Result, now time.Time) *Receipt {
	r := newReceipt(now)
	r.ID = doc.Get("id").Int()
	r.CurrencyCode = strOr(doc.Get("currency_code"), "")
	if d := optStr(doc.Get("date")); d != nil {
		r.Date = parseDate(*d)
	}
	if t := optNum(doc.Get("total")); t != nil {
		r.Total = *t
	}

	v := doc.Get("vendor")
	r.Vendor = Vendor{
		Name:        strOr(v.Get("name"), ""),
		Logo:        strOr(v.Get("logo"), ""),
		RawName:     strOr(v.Get("raw_name"), ""),
		Address:     optStr(v.Get("address")),
		PhoneNumber: optStr(v.Get("phone_number")),
		RawAddress:  optStr(v.Get("raw_address")),
		Lat:         optNum(v.Get("lat")),
		Lng:         optNum(v.Get("lng")),
		Web:         optStr(v.Get("web")),
		Category:    optStr(v.Get("category")),
		VATNumber:   optStr(v.Get("vat_number")),
		Type:        optStr(v.Get("type")),
		Email:       optStr(v.Get("email")),
	}

	doc.Get("line_items").ForEach(func(_, it gjson.Result) bool {
		item := LineItem{
			Description:           optStr(it.Get("description")),
			Discount:              optNum(it.Get("discount")),
			FullDescription:       optStr(it.Get("full_description")),
			ID:                    it.Get("id").Int(),
			NormalizedDescription: optStr(it.Get("normalized_description")),
			Order:                 int(it.Get("order").Int()),
			Price:                 optNum(it.Get("price")),
			Section:               optStr(it.Get("section")),
			SKU:                   optStr(it.Get("sku")),
			Tags:                  []string{},
			Tax:                   optNum(it.Get("tax")),
			Text:                  strOr(it.Get("text"), ""),
			Total:                 optNum(it.Get("total")),
			UnitOfMeasure:         optStr(it.Get("unit_of_measure")),
		}
		if q := optNum(it.Get("quantity")); q != nil {
			item.Quantity = *q
		}
		if t := optStr(it.Get("type")); t != nil {
			item.Type = ParseItemType(*t)
		}
		it.Get("tags").ForEach(func(_, tag gjson.Result) bool {
			item.Tags = append(item.Tags, tag.String())
			return true
		})
		r.LineItems = append(r.LineItems, item)
		return true
	})
	return r
}

func optStr(r gjson.Result) *string {
	if r.Type != gjson.String {
		return nil
	}
	s := r.String()
	return &s
}

func strOr(r gjson.Result, def string) string {
	if s := optStr(r); s != nil {
		return *s
	}
	return def
}

func optNum(r gjson.Result) *float64 {
	if r.Type != gjson.Number {
		return nil
	}
	f := r.Float()
	return &f
}
