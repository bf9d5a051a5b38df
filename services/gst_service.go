package services

import (
	"errors"

	"havana-backend/models"

	"gorm.io/gorm"
)

// GSTService resolves the configured tax rates into TaxConfig snapshots.
type GSTService struct {
	DB *gorm.DB
}

func NewGSTService(db *gorm.DB) *GSTService {
	return &GSTService{DB: db}
}

// Current returns the latest configured rate as a TaxConfig, falling back to
// the default 6% + 6% split when nothing is configured yet.
func (s *GSTService) Current() TaxConfig {
	var rate models.GSTRate
	err := s.DB.Order("id DESC").First(&rate).Error
	if err != nil || (rate.CGST == 0 && rate.SGST == 0) {
		return DefaultTaxConfig()
	}
	return TaxConfig{CGSTRate: rate.CGST, SGSTRate: rate.SGST}
}

// Update replaces the fields of an existing rate row.
func (s *GSTService) Update(id uint, updates models.GSTRate) (models.GSTRate, error) {
	var rate models.GSTRate
	if err := s.DB.First(&rate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.GSTRate{}, ErrNotFound
		}
		return models.GSTRate{}, err
	}
	rate.TotalGST = updates.TotalGST
	rate.CGST = updates.CGST
	rate.SGST = updates.SGST
	if err := s.DB.Save(&rate).Error; err != nil {
		return models.GSTRate{}, err
	}
	return rate, nil
}
