package services

import (
	"errors"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/apperr"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartService struct {
	DB          *gorm.DB
	Repo        *repository.CartRepository
	CatalogRepo *repository.CatalogRepository
	Coupons     *CouponService
}

func NewCartService(db *gorm.DB, repo *repository.CartRepository, catalog *repository.CatalogRepository, coupons *CouponService) *CartService {
	return &CartService{DB: db, Repo: repo, CatalogRepo: catalog, Coupons: coupons}
}

func (s *CartService) gate(p entity.Principal) error {
	if !p.Is(entity.RoleCustomer) {
		return apperr.ErrForbiddenRole
	}
	return nil
}

// Add upserts the (user, menu item) line; a repeat add increments quantity.
func (s *CartService) Add(p entity.Principal, menuItemID uint, qty int) error {
	if err := s.gate(p); err != nil {
		return err
	}
	if qty < 1 {
		return apperr.ErrQuantityInvalid
	}

	item, err := s.CatalogRepo.GetMenuItem(menuItemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrMenuItemNotFound
	}
	if err != nil {
		return err
	}
	if !item.IsAvailable {
		return apperr.WithMessage(apperr.ErrMenuItemNotFound, "menu item is currently unavailable")
	}

	return s.Repo.Upsert(s.DB, p.UserID, menuItemID, qty)
}

type CartLineOut struct {
	ID              uint            `json:"id"`
	MenuItemID      uint            `json:"menuItemId"`
	MenuItemName    string          `json:"menuItemName"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Total           decimal.Decimal `json:"total"`
	DiscountedTotal decimal.Decimal `json:"discountedTotal"`
}

type CartGroupOut struct {
	RestaurantID   uint            `json:"restaurantId"`
	RestaurantName string          `json:"restaurantName"`
	Items          []CartLineOut   `json:"items"`
	Total          decimal.Decimal `json:"total"`
}

// List groups the cart by restaurant with per-line and coupon-discounted
// totals. Read-only.
func (s *CartService) List(p entity.Principal) ([]CartGroupOut, error) {
	if err := s.gate(p); err != nil {
		return nil, err
	}

	lines, err := s.Repo.ListForUser(p.UserID)
	if err != nil {
		return nil, err
	}

	groups := make(map[uint]*CartGroupOut)
	var order []uint
	for _, line := range lines {
		rest := line.MenuItem.Restaurant
		g, ok := groups[rest.ID]
		if !ok {
			g = &CartGroupOut{RestaurantID: rest.ID, RestaurantName: rest.Name, Total: decimal.Zero}
			groups[rest.ID] = g
			order = append(order, rest.ID)
		}

		total := LineTotal(line.MenuItem.Price, line.Quantity)
		discounted := total
		if cp := line.AppliedCoupon; cp != nil && cp.AppliesTo(rest.ID, line.MenuItemID) {
			discounted = DiscountedTotal(total, cp.DiscountPercent)
		}

		g.Items = append(g.Items, CartLineOut{
			ID:              line.ID,
			MenuItemID:      line.MenuItemID,
			MenuItemName:    line.MenuItem.Name,
			Quantity:        line.Quantity,
			UnitPrice:       line.MenuItem.Price,
			Total:           total,
			DiscountedTotal: discounted,
		})
		g.Total = g.Total.Add(discounted).Round(2)
	}

	out := make([]CartGroupOut, 0, len(order))
	for _, id := range order {
		out = append(out, *groups[id])
	}
	return out, nil
}

// Update sets a line's quantity; zero deletes the line and reports deletion,
// not an error.
func (s *CartService) Update(p entity.Principal, lineID uint, qty int) (deleted bool, err error) {
	if err := s.gate(p); err != nil {
		return false, err
	}
	if qty < 0 {
		return false, apperr.ErrQuantityInvalid
	}

	line, err := s.Repo.GetLineForUser(p.UserID, lineID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, apperr.ErrCartLineNotFound
	}
	if err != nil {
		return false, err
	}

	if qty == 0 {
		return true, s.Repo.Delete(s.DB, line.ID)
	}
	return false, s.Repo.UpdateQuantity(s.DB, line.ID, qty)
}

func (s *CartService) Remove(p entity.Principal, lineID uint) error {
	if err := s.gate(p); err != nil {
		return err
	}
	line, err := s.Repo.GetLineForUser(p.UserID, lineID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrCartLineNotFound
	}
	if err != nil {
		return err
	}
	return s.Repo.Delete(s.DB, line.ID)
}

type CouponApplyOut struct {
	OriginalTotal   decimal.Decimal `json:"originalTotal"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountedTotal decimal.Decimal `json:"discountedTotal"`
}

// ApplyCoupon validates the code against the ledger, consumes the usage and
// stamps the coupon on all current lines.
func (s *CartService) ApplyCoupon(p entity.Principal, code string) (*CouponApplyOut, error) {
	if !p.Is(entity.RoleCustomer, entity.RoleAdmin) {
		return nil, apperr.ErrForbiddenRole
	}

	cp, err := s.Coupons.Validate(code, p.UserID)
	if err != nil {
		return nil, err
	}

	lines, err := s.Repo.ListForUser(p.UserID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, apperr.ErrCartEmpty
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(LineTotal(line.MenuItem.Price, line.Quantity))
	}
	discounted := DiscountedTotal(subtotal, cp.DiscountPercent)

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Coupons.RecordUsage(tx, p.UserID, cp.ID); err != nil {
			return err
		}
		id := cp.ID
		return s.Repo.StampCoupon(tx, p.UserID, &id)
	})
	if err != nil {
		return nil, err
	}

	return &CouponApplyOut{
		OriginalTotal:   subtotal,
		DiscountPercent: cp.DiscountPercent,
		DiscountedTotal: discounted,
	}, nil
}

func (s *CartService) RemoveCoupon(p entity.Principal) error {
	if !p.Is(entity.RoleCustomer, entity.RoleAdmin) {
		return apperr.ErrForbiddenRole
	}
	return s.Repo.StampCoupon(s.DB, p.UserID, nil)
}
