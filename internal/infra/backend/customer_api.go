package backend

import (
	"context"
	"net/http"
	"net/url"

	"dinein/internal/domain/entity"
	domainerrors "dinein/internal/domain/errors"
	"dinein/internal/domain/service"
	"dinein/internal/errors"
)

type customerAPI struct {
	*client
}

// NewCustomerAPI creates the HTTP implementation of the ordering backend.
func NewCustomerAPI(params Params) service.CustomerAPI {
	return &customerAPI{client: newClient(params)}
}

func (a *customerAPI) SendOTP(ctx context.Context, phoneNumber string) (*entity.OTPRequest, error) {
	var data sendOTPData
	body := map[string]string{"phoneNumber": phoneNumber}
	if err := a.do(ctx, domainerrors.OperationGeneric, http.MethodPost, "/customer/send-otp", body, &data); err != nil {
		return nil, errors.Wrap(err, "send otp")
	}

	return &entity.OTPRequest{PhoneNumber: phoneNumber, DevOTP: data.OTP}, nil
}

func (a *customerAPI) VerifyOTP(ctx context.Context, phoneNumber, otp string) (string, error) {
	var data verifyOTPData
	body := map[string]string{"phoneNumber": phoneNumber, "otp": otp}
	if err := a.do(ctx, domainerrors.OperationVerifyCode, http.MethodPost, "/customer/verify-otp", body, &data); err != nil {
		return "", errors.Wrap(err, "verify otp")
	}
	if data.Token == "" {
		return "", errors.WithStack(domainerrors.ErrInvalidCode.WithDetails("no token issued"))
	}

	return data.Token, nil
}

func (a *customerAPI) GetProfile(ctx context.Context) (*entity.Customer, *entity.TableSession, error) {
	var data profileData
	if err := a.do(ctx, domainerrors.OperationGeneric, http.MethodGet, "/customer/profile", nil, &data); err != nil {
		return nil, nil, errors.Wrap(err, "get profile")
	}

	return data.Customer.toEntity(), data.SessionInfo.toEntity(), nil
}

func (a *customerAPI) UpdateProfile(ctx context.Context, name string) error {
	body := map[string]string{"name": name}

	return errors.Wrap(a.do(ctx, domainerrors.OperationGeneric, http.MethodPut, "/customer/profile", body, nil), "update profile")
}

func (a *customerAPI) ScanTable(ctx context.Context, identifier string) (*entity.TableSession, error) {
	var data scanTableData
	path := "/customer/scan-table/" + url.PathEscape(identifier)
	if err := a.do(ctx, domainerrors.OperationBindTable, http.MethodPost, path, nil, &data); err != nil {
		return nil, errors.Wrap(err, "scan table")
	}

	return &entity.TableSession{
		Restaurant: entity.RestaurantRef{ID: data.Restaurant.ID, Name: data.Restaurant.Name},
		Table:      entity.TableRef{ID: data.Table.ID, TableNumber: data.Table.TableNumber},
		StartTime:  data.Session.StartTime,
		Active:     true,
	}, nil
}

func (a *customerAPI) Checkout(ctx context.Context) error {
	return errors.Wrap(a.do(ctx, domainerrors.OperationGeneric, http.MethodPost, "/customer/checkout", nil, nil), "checkout")
}

func (a *customerAPI) GetMenu(ctx context.Context) (*entity.Menu, error) {
	var data menuData
	if err := a.do(ctx, domainerrors.OperationGeneric, http.MethodGet, "/customer/menu", nil, &data); err != nil {
		return nil, errors.Wrap(err, "get menu")
	}

	menu := &entity.Menu{
		Categories: make([]entity.Category, 0, len(data.Categories)),
		Products:   make([]entity.Product, 0, len(data.Products)),
	}
	for _, category := range data.Categories {
		menu.Categories = append(menu.Categories, entity.Category{
			ID:          category.ID,
			Name:        category.Name,
			Description: category.Description,
		})
	}
	for _, product := range data.Products {
		menu.Products = append(menu.Products, product.toEntity())
	}

	return menu, nil
}

func (a *customerAPI) GetCart(ctx context.Context) (*entity.Cart, error) {
	var data cartData
	if err := a.do(ctx, domainerrors.OperationGeneric, http.MethodGet, "/customer/cart", nil, &data); err != nil {
		return nil, errors.Wrap(err, "get cart")
	}

	return data.toEntity(), nil
}

func (a *customerAPI) AddToCart(ctx context.Context, input service.CartItemInput) error {
	body := addToCartRequest{
		ProductID:           input.ProductID,
		Quantity:            input.Quantity,
		SelectedAddons:      make([]addonDTO, 0, len(input.Addons)),
		SpecialInstructions: input.SpecialInstructions,
	}
	for _, addon := range input.Addons {
		body.SelectedAddons = append(body.SelectedAddons, addonDTO{ID: addon.ID, Name: addon.Name, Price: addon.Price})
	}

	return errors.Wrap(a.do(ctx, domainerrors.OperationGeneric, http.MethodPost, "/customer/cart", body, nil), "add to cart")
}

func (a *customerAPI) UpdateCartItem(ctx context.Context, lineID string, quantity int) error {
	body := map[string]int{"quantity": quantity}
	path := "/customer/cart/" + url.PathEscape(lineID)

	return errors.Wrap(a.do(ctx, domainerrors.OperationGeneric, http.MethodPut, path, body, nil), "update cart item")
}

func (a *customerAPI) RemoveCartItem(ctx context.Context, lineID string) error {
	path := "/customer/cart/" + url.PathEscape(lineID)

	return errors.Wrap(a.do(ctx, domainerrors.OperationGeneric, http.MethodDelete, path, nil, nil), "remove cart item")
}

func (a *customerAPI) ClearCart(ctx context.Context) error {
	return errors.Wrap(a.do(ctx, domainerrors.OperationGeneric, http.MethodDelete, "/customer/cart", nil, nil), "clear cart")
}

func (a *customerAPI) PlaceOrder(ctx context.Context, specialInstructions string) (*entity.Order, error) {
	var data orderData
	body := map[string]string{"specialInstructions": specialInstructions}
	if err := a.do(ctx, domainerrors.OperationGeneric, http.MethodPost, "/customer/orders", body, &data); err != nil {
		return nil, errors.Wrap(err, "place order")
	}
	if data.Order == nil {
		return nil, errors.WithStack(domainerrors.ErrServer.WithDetails("no order returned"))
	}

	return data.Order.toEntity(), nil
}

func (a *customerAPI) ListOrders(ctx context.Context) ([]entity.Order, error) {
	var data ordersData
	if err := a.do(ctx, domainerrors.OperationGeneric, http.MethodGet, "/customer/orders", nil, &data); err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	orders := make([]entity.Order, 0, len(data.Orders))
	for i := range data.Orders {
		orders = append(orders, *data.Orders[i].toEntity())
	}

	return orders, nil
}

func (a *customerAPI) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	var data orderData
	path := "/customer/orders/" + url.PathEscape(orderID)
	if err := a.do(ctx, domainerrors.OperationGeneric, http.MethodGet, path, nil, &data); err != nil {
		return nil, errors.Wrap(err, "get order")
	}
	if data.Order == nil {
		return nil, errors.WithStack(domainerrors.ErrNotFound)
	}

	return data.Order.toEntity(), nil
}
