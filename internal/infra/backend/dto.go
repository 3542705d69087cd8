package backend

import (
	"time"

	"dinein/internal/domain/entity"

	"github.com/shopspring/decimal"
)

type customerDTO struct {
	ID          string `json:"_id"`
	PhoneNumber string `json:"phoneNumber"`
	Name        string `json:"name"`
}

func (d *customerDTO) toEntity() *entity.Customer {
	if d == nil {
		return nil
	}

	return &entity.Customer{ID: d.ID, PhoneNumber: d.PhoneNumber, Name: d.Name}
}

type restaurantDTO struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type tableDTO struct {
	ID          string `json:"_id"`
	TableNumber string `json:"tableNumber"`
}

type sessionInfoDTO struct {
	Restaurant restaurantDTO `json:"restaurant"`
	Table      tableDTO      `json:"table"`
	StartTime  time.Time     `json:"startTime"`
}

func (d *sessionInfoDTO) toEntity() *entity.TableSession {
	if d == nil {
		return nil
	}

	return &entity.TableSession{
		Restaurant: entity.RestaurantRef{ID: d.Restaurant.ID, Name: d.Restaurant.Name},
		Table:      entity.TableRef{ID: d.Table.ID, TableNumber: d.Table.TableNumber},
		StartTime:  d.StartTime,
		Active:     true,
	}
}

type sendOTPData struct {
	OTP string `json:"otp"`
}

type verifyOTPData struct {
	Token string `json:"token"`
}

type profileData struct {
	Customer    *customerDTO    `json:"customer"`
	SessionInfo *sessionInfoDTO `json:"sessionInfo"`
}

type scanTableData struct {
	Restaurant restaurantDTO `json:"restaurant"`
	Table      tableDTO      `json:"table"`
	Session    struct {
		StartTime time.Time `json:"startTime"`
	} `json:"session"`
}

type categoryRefDTO struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type productDTO struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    *categoryRefDTO `json:"category"`
	IsAvailable *bool           `json:"isAvailable"`
}

func (d productDTO) toEntity() entity.Product {
	product := entity.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Available:   d.IsAvailable == nil || *d.IsAvailable,
	}
	if d.Category != nil {
		product.CategoryID = d.Category.ID
	}

	return product
}

type menuData struct {
	Categories []categoryRefDTO `json:"categories"`
	Products   []productDTO     `json:"products"`
}

type addonDTO struct {
	ID    string          `json:"_id,omitempty"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type cartItemDTO struct {
	ID                  string     `json:"_id"`
	Product             productDTO `json:"product"`
	Quantity            int        `json:"quantity"`
	SelectedAddons      []addonDTO `json:"selectedAddons"`
	SpecialInstructions string     `json:"specialInstructions"`
}

type cartData struct {
	Cart *struct {
		Items []cartItemDTO `json:"items"`
	} `json:"cart"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func (d cartData) toEntity() *entity.Cart {
	cart := &entity.Cart{Lines: []entity.CartLine{}, Total: d.TotalAmount}
	if d.Cart == nil {
		return cart
	}

	for _, item := range d.Cart.Items {
		line := entity.CartLine{
			ID:                  item.ID,
			ProductID:           item.Product.ID,
			Name:                item.Product.Name,
			UnitPrice:           item.Product.Price,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		}
		for _, addon := range item.SelectedAddons {
			line.Addons = append(line.Addons, entity.Addon{ID: addon.ID, Name: addon.Name, Price: addon.Price})
		}
		cart.Lines = append(cart.Lines, line)
	}

	return cart
}

type addToCartRequest struct {
	ProductID           string     `json:"productId"`
	Quantity            int        `json:"quantity"`
	SelectedAddons      []addonDTO `json:"selectedAddons"`
	SpecialInstructions string     `json:"specialInstructions"`
}

type orderItemDTO struct {
	ID                  string          `json:"_id"`
	Product             *productDTO     `json:"product"`
	Price               decimal.Decimal `json:"price"`
	Quantity            int             `json:"quantity"`
	Status              string          `json:"status"`
	SpecialInstructions string          `json:"specialInstructions"`
}

type orderDTO struct {
	ID                  string          `json:"_id"`
	Status              string          `json:"status"`
	Items               []orderItemDTO  `json:"items"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	SpecialInstructions string          `json:"specialInstructions"`
	CreatedAt           time.Time       `json:"createdAt"`
}

func (d *orderDTO) toEntity() *entity.Order {
	if d == nil {
		return nil
	}

	order := &entity.Order{
		ID:                  d.ID,
		Status:              d.Status,
		TotalAmount:         d.TotalAmount,
		SpecialInstructions: d.SpecialInstructions,
		CreatedAt:           d.CreatedAt,
	}
	for _, item := range d.Items {
		out := entity.OrderItem{
			ID:                  item.ID,
			Price:               item.Price,
			Quantity:            item.Quantity,
			Status:              item.Status,
			SpecialInstructions: item.SpecialInstructions,
		}
		if item.Product != nil {
			out.ProductID = item.Product.ID
			out.Name = item.Product.Name
		}
		order.Items = append(order.Items, out)
	}

	return order
}

type ordersData struct {
	Orders []orderDTO `json:"orders"`
}

type orderData struct {
	Order *orderDTO `json:"order"`
}
