package configs

import (
	"time"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SeedDemoData fills an empty database with a small working set so the API
// is usable right after first boot. It is a no-op on a populated database.
func SeedDemoData() error {
	db := DB()

	var count int64
	db.Model(&entity.Restaurant{}).Count(&count)
	if count > 0 {
		log.Info().Msg("database already seeded, skipping")
		return nil
	}

	r1 := entity.Restaurant{Name: "Spice Route", OwnerUserID: 2, IsApproved: true}
	r2 := entity.Restaurant{Name: "Noodle Bar", OwnerUserID: 3, IsApproved: true}
	if err := db.Create(&r1).Error; err != nil {
		return err
	}
	if err := db.Create(&r2).Error; err != nil {
		return err
	}

	items := []entity.MenuItem{
		{Name: "Paneer Tikka", Price: decimal.NewFromFloat(8.50), IsAvailable: true, RestaurantID: r1.ID},
		{Name: "Butter Naan", Price: decimal.NewFromFloat(1.50), IsAvailable: true, RestaurantID: r1.ID},
		{Name: "Pad Thai", Price: decimal.NewFromFloat(9.00), IsAvailable: true, RestaurantID: r2.ID},
		{Name: "Tom Yum", Price: decimal.NewFromFloat(6.75), IsAvailable: true, RestaurantID: r2.ID},
	}
	if err := db.Create(&items).Error; err != nil {
		return err
	}

	coupon := entity.Coupon{
		Code:            "WELCOME10",
		DiscountPercent: decimal.NewFromInt(10),
		StartTime:       time.Now(),
		EndTime:         time.Now().Add(30 * 24 * time.Hour),
		IsActive:        true,
	}
	if err := db.Create(&coupon).Error; err != nil {
		return err
	}

	partner := entity.DeliveryPartner{
		UserID:              4,
		Name:                "City Couriers",
		VehicleNumber:       "KA-01-1234",
		MaxOrders:           3,
		AssignedRestaurants: []entity.Restaurant{r1, r2},
	}
	if err := db.Create(&partner).Error; err != nil {
		return err
	}

	person := entity.DeliveryPerson{
		UserID:      5,
		Name:        "Ravi",
		Status:      entity.DeliveryIdle,
		IsAvailable: true,
		PartnerID:   partner.ID,
	}
	if err := db.Create(&person).Error; err != nil {
		return err
	}

	log.Info().Msg("seeded demo restaurants, menu items, coupon and delivery fleet")
	return nil
}
