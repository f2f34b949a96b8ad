package services

import (
	"context"
	"errors"

	"storefront-service/database"
	"storefront-service/models"

	"go.uber.org/zap"
)

// CartRepository is the persistence contract for cart snapshots.
type CartRepository interface {
	GetCart(ctx context.Context, cartID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, cartID string) error
}

type CartService struct {
	repo   CartRepository
	logger *zap.Logger
}

func NewCartService(repo CartRepository, logger *zap.Logger) *CartService {
	return &CartService{repo: repo, logger: logger}
}

// load always yields a usable cart: missing and malformed snapshots
// both degrade to an empty cart, never an error to the caller.
func (s *CartService) load(ctx context.Context, cartID string) (*models.Cart, error) {
	cart, err := s.repo.GetCart(ctx, cartID)
	if errors.Is(err, database.ErrMalformedSnapshot) {
		s.logger.Warn("Discarding malformed cart snapshot", zap.String("cart_id", cartID))
		err = nil
	}
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &models.Cart{ID: cartID, Items: []models.CartItem{}}
	}
	return cart, nil
}

func (s *CartService) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	return s.load(ctx, cartID)
}

// AddItem adds a variant to the cart. An entry with the same compound
// key has its quantity incremented; a new entry snapshots the variant's
// pricing at add time. Insertion order is preserved for display.
func (s *CartService) AddItem(ctx context.Context, cartID string, req models.AddItemRequest) (*models.Cart, error) {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	itemID := models.ItemKey(req.Product.ID, req.Variant.ID)
	found := false
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{
			ID:            itemID,
			ProductID:     req.Product.ID,
			VariantID:     req.Variant.ID,
			Name:          req.Product.Name,
			VariantName:   req.Variant.Name,
			Price:         req.Variant.Price,
			OriginalPrice: req.Variant.OriginalPrice,
			Savings:       req.Variant.Savings,
			Image:         req.Product.Image,
			PackQuantity:  req.Variant.PackQuantity,
			Quantity:      quantity,
		})
	}

	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets an item's quantity to exactly q. A quantity of
// zero or less removes the item.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID, itemID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, cartID, itemID)
	}

	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = quantity
			break
		}
	}

	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops an item by its compound key. Removing an absent key
// leaves the cart unchanged.
func (s *CartService) RemoveItem(ctx context.Context, cartID, itemID string) (*models.Cart, error) {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart deletes the snapshot outright. Clearing an empty or absent
// cart is a no-op success; the checkout flow relies on that.
func (s *CartService) ClearCart(ctx context.Context, cartID string) error {
	return s.repo.DeleteCart(ctx, cartID)
}
