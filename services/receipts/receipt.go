// Package receipts turns receipt images into a canonical Receipt using one of several
// third-party vision or OCR providers.
package receipts

import "time"

type ItemType string

const (
	ItemAlcohol  ItemType = "alcohol"
	ItemDiscount ItemType = "discount"
	ItemFee      ItemType = "fee"
	ItemFood     ItemType = "food"
	ItemProduct  ItemType = "product"
)

// ParseItemType matches case-insensitively and returns nil for anything unknown.
func ParseItemType(s string) *ItemType {
	switch t := ItemType(lower(s)); t {
	case ItemAlcohol, ItemDiscount, ItemFee, ItemFood, ItemProduct:
		return &t
	default:
		return nil
	}
}

// Receipt is the provider-independent result. Fields that no provider fills are kept
// so clients see a stable shape; they serialise as null.
type Receipt struct {
	AccountNumber           *string    `json:"account_number"`
	Cashback                *float64   `json:"cashback"`
	Category                string     `json:"category"`
	CreatedDate             time.Time  `json:"created_date"`
	CurrencyCode            string     `json:"currency_code"`
	Date                    *time.Time `json:"date"`
	DeliveryDate            *string    `json:"delivery_date"`
	Discount                *float64   `json:"discount"`
	DocumentReferenceNumber *string    `json:"document_reference_number"`
	DocumentTitle           *string    `json:"document_title"`
	DocumentType            string     `json:"document_type"`
	DueDate                 *string    `json:"due_date"`
	DuplicateOf             *int64     `json:"duplicate_of"`
	ExternalID              *string    `json:"external_id"`
	ID                      int64      `json:"id"`
	ImgFileName             string     `json:"img_file_name"`
	ImgThumbnailURL         string     `json:"img_thumbnail_url"`
	ImgURL                  string     `json:"img_url"`
	Insurance               *string    `json:"insurance"`
	InvoiceNumber           *string    `json:"invoice_number"`
	IsDuplicate             bool       `json:"is_duplicate"`
	IsMoneyIn               bool       `json:"is_money_in"`
	LineItems               []LineItem `json:"line_items"`
	Meta                    Meta       `json:"meta"`
	Notes                   *string    `json:"notes"`
	OCRText                 string     `json:"ocr_text"`
	OrderDate               *string    `json:"order_date"`
	Payment                 Payment    `json:"payment"`
	PDFURL                  string     `json:"pdf_url"`
	PurchaseOrderNumber     *string    `json:"purchase_order_number"`
	ReferenceNumber         string     `json:"reference_number"`
	Rounding                *float64   `json:"rounding"`
	ServiceEndDate          *string    `json:"service_end_date"`
	ServiceStartDate        *string    `json:"service_start_date"`
	Shipping                *float64   `json:"shipping"`
	StoreNumber             *string    `json:"store_number"`
	Subtotal                float64    `json:"subtotal"`
	Tags                    []string   `json:"tags"`
	Tax                     *float64   `json:"tax"`
	TaxLines                []TaxLine  `json:"tax_lines"`
	Tip                     *float64   `json:"tip"`
	Total                   float64    `json:"total"`
	TotalWeight             *float64   `json:"total_weight"`
	TrackingNumber          *string    `json:"tracking_number"`
	UpdatedDate             time.Time  `json:"updated_date"`
	Vendor                  Vendor     `json:"vendor"`
}

type LineItem struct {
	Date                  *string   `json:"date"`
	Description           *string   `json:"description"`
	Discount              *float64  `json:"discount"`
	DiscountRate          *float64  `json:"discount_rate"`
	EndDate               *string   `json:"end_date"`
	FullDescription       *string   `json:"full_description"`
	HSN                   *string   `json:"hsn"`
	ID                    int64     `json:"id"`
	Lot                   *string   `json:"lot"`
	NormalizedDescription *string   `json:"normalized_description"`
	Order                 int       `json:"order"`
	Price                 *float64  `json:"price"`
	Quantity              float64   `json:"quantity"`
	Reference             *string   `json:"reference"`
	Section               *string   `json:"section"`
	SKU                   *string   `json:"sku"`
	StartDate             *string   `json:"start_date"`
	Tags                  []string  `json:"tags"`
	Tax                   *float64  `json:"tax"`
	TaxRate               *float64  `json:"tax_rate"`
	Text                  string    `json:"text"`
	Total                 *float64  `json:"total"`
	Type                  *ItemType `json:"type"`
	UnitOfMeasure         *string   `json:"unit_of_measure"`
	UPC                   *string   `json:"upc"`
	Weight                *float64  `json:"weight"`
}

type Meta struct {
	Language        []string `json:"language"`
	OCRScore        float64  `json:"ocr_score"`
	Owner           string   `json:"owner"`
	Pages           []Page   `json:"pages"`
	ProcessedPages  int      `json:"processed_pages"`
	Source          string   `json:"source"`
	SourceDocuments []Page   `json:"source_documents"`
	TotalPages      int      `json:"total_pages"`
}

type Page struct {
	Height   int      `json:"height"`
	Width    int      `json:"width"`
	Language []string `json:"language,omitempty"`
	SizeKB   int      `json:"size_kb,omitempty"`
}

type Payment struct {
	CardNumber  *string `json:"card_number"`
	DisplayName *string `json:"display_name"`
	Terms       *string `json:"terms"`
	Type        *string `json:"type"`
}

type TaxLine struct {
	Base  *float64 `json:"base"`
	Name  *string  `json:"name"`
	Order int      `json:"order"`
	Rate  float64  `json:"rate"`
	Total float64  `json:"total"`
}

type Vendor struct {
	AccountNumber *string  `json:"account_number"`
	Address       *string  `json:"address"`
	Category      *string  `json:"category"`
	Email         *string  `json:"email"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	Logo          string   `json:"logo"`
	Name          string   `json:"name"`
	PhoneNumber   *string  `json:"phone_number"`
	RawAddress    *string  `json:"raw_address"`
	RawName       string   `json:"raw_name"`
	Type          *string  `json:"type"`
	VATNumber     *string  `json:"vat_number"`
	Web           *string  `json:"web"`
}

// newReceipt returns an empty receipt with the collection fields set to empty slices.
func newReceipt(now time.Time) *Receipt {
	return &Receipt{
		CreatedDate: now,
		UpdatedDate: now,
		LineItems:   []LineItem{},
		Tags:        []string{},
		TaxLines:    []TaxLine{},
		Meta: Meta{
			Language:        []string{},
			Pages:           []Page{},
			SourceDocuments: []Page{},
		},
	}
}
