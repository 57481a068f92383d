package repository

import (
	"errors"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/entity"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/apperr"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) List() ([]entity.Product, error) {
	var out []entity.Product
	err := r.DB.Where("active = ?", true).Order("id").Find(&out).Error
	return out, err
}

// GetBasics fetches what checkout needs to price and validate an item.
func (r *ProductRepository) GetBasics(id uint) (entity.Product, error) {
	var p entity.Product
	err := r.DB.Select("id, name, category, price, active").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, apperr.ErrNotFound
	}
	return p, err
}
