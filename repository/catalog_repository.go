package repository

import (
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"

	"gorm.io/gorm"
)

// CatalogRepository is the read-only catalog contract the core depends on.
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func (r *CatalogRepository) GetMenuItem(id uint) (*entity.MenuItem, error) {
	var m entity.MenuItem
	if err := r.DB.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *CatalogRepository) GetRestaurant(tx *gorm.DB, id uint) (*entity.Restaurant, error) {
	var rest entity.Restaurant
	if err := tx.Preload("DeliveryPartners").First(&rest, id).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *CatalogRepository) RestaurantExists(id uint) (bool, error) {
	var cnt int64
	if err := r.DB.Model(&entity.Restaurant{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *CatalogRepository) GetAddressForUser(userID, addressID uint) (*entity.SavedAddress, error) {
	var a entity.SavedAddress
	if err := r.DB.Where("id = ? AND user_id = ?", addressID, userID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *CatalogRepository) CreateAddress(a *entity.SavedAddress) error {
	return r.DB.Create(a).Error
}

func (r *CatalogRepository) ListAddressesForUser(userID uint) ([]entity.SavedAddress, error) {
	var out []entity.SavedAddress
	err := r.DB.Where("user_id = ?", userID).Order("id").Find(&out).Error
	return out, err
}
