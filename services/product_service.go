package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/metrics"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
	"github.com/pricejoshua/wehavefoodathome-backend/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SourceDatabase      = "database"
	SourceOpenFoodFacts = "open_food_facts"
)

var ErrInvalidImage = errors.New("invalid image data")

type BarcodeLookup interface {
	Lookup(ctx context.Context, barcode string) (*ExternalProduct, error)
}

type LabelDetector interface {
	DetectLabels(ctx context.Context, image []byte) ([]string, error)
}

type ProductService struct {
	db     *gorm.DB
	off    BarcodeLookup
	labels LabelDetector
}

// NewProductService wires the catalog. off and labels may be nil, which disables the
// barcode fallback and photo recognition respectively.
func NewProductService(db *gorm.DB, off BarcodeLookup, labels LabelDetector) *ProductService {
	return &ProductService{db: db, off: off, labels: labels}
}

type ProductInput struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Category    *int64         `json:"category"`
	Metadata    datatypes.JSON `json:"metadata"`
}

type BarcodeResult struct {
	models.Product
	Source string `json:"source"`
}

type Recognition struct {
	Labels   []string         `json:"labels"`
	Products []models.Product `json:"products"`
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, translate("list products", err)
	}
	return out, nil
}

func (s *ProductService) Search(ctx context.Context, query string) ([]models.Product, error) {
	var out []models.Product
	err := s.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+query+"%").
		Order("name ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate("search products", err)
	}
	return out, nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate("get product", err)
	}
	return &p, nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	p := &models.Product{CategoryID: in.Category, Description: in.Description, Metadata: in.Metadata}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if err := s.db.WithContext(ctx).Omit("Category").Create(p).Error; err != nil {
		return nil, translate("create product", err)
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, in ProductInput) (*models.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.Name != nil {
		p.Name = *in.Name
		updates["name"] = p.Name
	}
	if in.Description != nil {
		p.Description = in.Description
		updates["description"] = *in.Description
	}
	if in.Category != nil {
		p.CategoryID = in.Category
		updates["category"] = *in.Category
	}
	if in.Metadata != nil {
		p.Metadata = in.Metadata
		updates["metadata"] = in.Metadata
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, translate("update product", err)
		}
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return translate("delete product", s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error)
}

func (s *ProductService) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, translate("list categories", err)
	}
	return out, nil
}

// ByBarcode checks the catalog first, then Open Food Facts. A product found externally
// is added to the catalog before it is returned.
func (s *ProductService) ByBarcode(ctx context.Context, barcode string) (*BarcodeResult, error) {
	var p models.Product
	err := s.db.WithContext(ctx).
		Where(datatypes.JSONQuery("metadata").Equals(barcode, "barcode")).
		First(&p).Error
	if err == nil {
		metrics.RecordBarcodeLookup(SourceDatabase)
		return &BarcodeResult{Product: p, Source: SourceDatabase}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translate("find product by barcode", err)
	}

	if s.off == nil {
		metrics.RecordBarcodeLookup("miss")
		return nil, ErrNotFound
	}
	ext, err := s.off.Lookup(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if ext == nil {
		metrics.RecordBarcodeLookup("miss")
		return nil, ErrNotFound
	}

	created, err := s.createFromExternal(ctx, ext)
	if err != nil {
		return nil, err
	}
	metrics.RecordBarcodeLookup(SourceOpenFoodFacts)
	return &BarcodeResult{Product: *created, Source: SourceOpenFoodFacts}, nil
}

func (s *ProductService) createFromExternal(ctx context.Context, ext *ExternalProduct) (*models.Product, error) {
	meta, err := json.Marshal(ext.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode product metadata: %w", err)
	}
	p := &models.Product{Name: ext.Name, Metadata: datatypes.JSON(meta)}
	if ext.Description != "" {
		d := ext.Description
		p.Description = &d
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ext.Category != "" {
			var c models.Category
			if err := tx.Where(models.Category{Name: ext.Category}).FirstOrCreate(&c).Error; err != nil {
				return err
			}
			p.CategoryID = &c.ID
		}
		return tx.Omit("Category").Create(p).Error
	})
	if err != nil {
		return nil, translate("create product from barcode", err)
	}
	return p, nil
}

// Recognize labels a product photo and returns catalog products matching any label.
func (s *ProductService) Recognize(ctx context.Context, imageBase64 string) (*Recognition, error) {
	if s.labels == nil {
		return nil, errors.New("image recognition is not configured")
	}
	_, img, err := utils.DecodeDataURI(imageBase64)
	if err != nil || len(img) == 0 {
		return nil, ErrInvalidImage
	}

	labels, err := s.labels.DetectLabels(ctx, img)
	if err != nil {
		return nil, err
	}
	out := &Recognition{Labels: labels, Products: []models.Product{}}
	if len(labels) == 0 {
		return out, nil
	}

	conds := make([]string, len(labels))
	args := make([]any, len(labels))
	for i, l := range labels {
		conds[i] = "name ILIKE ?"
		args[i] = "%" + l + "%"
	}
	if err := s.db.WithContext(ctx).Where(strings.Join(conds, " OR "), args...).Limit(20).Find(&out.Products).Error; err != nil {
		return nil, translate("match recognized labels", err)
	}
	return out, nil
}
