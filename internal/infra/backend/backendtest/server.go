// Package backendtest runs an in-process ordering backend for tests.
package backendtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	DefaultOTP   = "123456"
	DefaultToken = "tok-1"
)

// Table is a table the backend knows about.
type Table struct {
	ID             string
	TableNumber    string
	RestaurantID   string
	RestaurantName string
	Occupied       bool
}

// Product is a menu product.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	CategoryID  string
}

type cartItem struct {
	ID                  string
	ProductID           string
	Quantity            int
	SpecialInstructions string
}

type order struct {
	ID                  string
	Items               []cartItem
	Total               float64
	SpecialInstructions string
	CreatedAt           time.Time
}

type failure struct {
	status  int
	message string
}

// Server is a stateful fake of the customer API.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	otp          string
	token        string
	devOTP       bool
	phone        string
	customerName string
	tables       map[string]Table
	products     []Product
	categories   [][2]string
	session      *Table
	sessionStart time.Time
	cart         []cartItem
	orders       []order
	nextID       int
	failures     map[string][]failure
	holds        map[string]chan struct{}
	calls        []string
	revoked      bool
}

// New starts a backend seeded with two tables and a small menu.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		otp:   DefaultOTP,
		token: DefaultToken,
		tables: map[string]Table{
			"T1": {ID: "T1", TableNumber: "1", RestaurantID: "r1", RestaurantName: "Spice Route"},
			"T2": {ID: "T2", TableNumber: "2", RestaurantID: "r1", RestaurantName: "Spice Route"},
		},
		products: []Product{
			{ID: "p1", Name: "Masala Dosa", Description: "Crispy crepe", Price: 10, CategoryID: "c1"},
			{ID: "p2", Name: "Filter Coffee", Description: "Strong and sweet", Price: 2.5, CategoryID: "c2"},
			{ID: "p3", Name: "Idli", Description: "Steamed rice cakes", Price: 4.25, CategoryID: "c1"},
		},
		categories: [][2]string{{"c1", "Mains"}, {"c2", "Drinks"}, {"c3", "Desserts"}},
		failures:   map[string][]failure{},
		holds:      map[string]chan struct{}{},
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(s.record)

	e.POST("/customer/send-otp", s.sendOTP)
	e.POST("/customer/verify-otp", s.verifyOTP)

	authed := e.Group("/customer", s.authenticate)
	authed.GET("/profile", s.getProfile)
	authed.PUT("/profile", s.updateProfile)
	authed.POST("/scan-table/:id", s.scanTable)
	authed.POST("/checkout", s.checkout)
	authed.GET("/menu", s.getMenu)
	authed.GET("/cart", s.getCart)
	authed.POST("/cart", s.addToCart)
	authed.PUT("/cart/:id", s.updateCartItem)
	authed.DELETE("/cart/:id", s.removeCartItem)
	authed.DELETE("/cart", s.clearCart)
	authed.POST("/orders", s.placeOrder)
	authed.GET("/orders", s.listOrders)
	authed.GET("/orders/:id", s.getOrder)

	s.Server = httptest.NewServer(e)
	t.Cleanup(s.Close)

	return s
}

// EnableDevOTP makes send-otp return the code.
func (s *Server) EnableDevOTP() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devOTP = true
}

// SetToken changes the token issued by verify-otp.
func (s *Server) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Revoke makes every authenticated call answer 401.
func (s *Server) Revoke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked = true
}

// OccupyTable marks a table as in use by someone else.
func (s *Server) OccupyTable(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table := s.tables[id]
	table.Occupied = true
	s.tables[id] = table
}

// StartSession pretends the customer already sits at a table.
func (s *Server) StartSession(id string, start time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table := s.tables[id]
	s.session = &table
	s.sessionStart = start
}

// SeedCart puts a line in the server cart and returns its id.
func (s *Server) SeedCart(productID string, quantity int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendCartLocked(productID, quantity, "")
}

// FailNext makes the next call to "METHOD /path" fail with status.
func (s *Server) FailNext(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], failure{status: status, message: message})
}

// Hold blocks the next call to "METHOD /path" until release is called.
func (s *Server) Hold(method, path string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[method+" "+path] = ch
	s.mu.Unlock()

	var once sync.Once

	return func() { once.Do(func() { close(ch) }) }
}

// Calls returns how many times "METHOD /path" was requested.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, call := range s.calls {
		if call == method+" "+path {
			count++
		}
	}

	return count
}

// CartQuantities returns product quantities currently in the server cart, keyed by line id.
func (s *Server) CartQuantities() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int, len(s.cart))
	for _, item := range s.cart {
		out[item.ID] = item.Quantity
	}

	return out
}

// HasSession reports whether a table session is active on the server.
func (s *Server) HasSession() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session != nil
}

// CustomerName returns the stored profile name.
func (s *Server) CustomerName() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.customerName
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Request().Method + " " + c.Request().URL.Path

		s.mu.Lock()
		s.calls = append(s.calls, key)
		hold := s.holds[key]
		delete(s.holds, key)
		var fail *failure
		if queued := s.failures[key]; len(queued) > 0 {
			fail = &queued[0]
			s.failures[key] = queued[1:]
		}
		s.mu.Unlock()

		if hold != nil {
			<-hold
		}
		if fail != nil {
			return c.JSON(fail.status, echo.Map{"status": "error", "message": fail.message})
		}

		return next(c)
	}
}

func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		ok := !s.revoked && c.Request().Header.Get("Authorization") == "Bearer "+s.token
		s.mu.Unlock()

		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"status": "error", "message": "Unauthorized"})
		}

		return next(c)
	}
}

func success(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": data})
}

func (s *Server) sendOTP(c echo.Context) error {
	var body struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := c.Bind(&body); err != nil || body.PhoneNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "error", "message": "Phone number is required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.phone = body.PhoneNumber

	data := echo.Map{}
	if s.devOTP {
		data["otp"] = s.otp
	}

	return success(c, data)
}

func (s *Server) verifyOTP(c echo.Context) error {
	var body struct {
		PhoneNumber string `json:"phoneNumber"`
		OTP         string `json:"otp"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "error", "message": "Invalid input"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if body.OTP != s.otp || body.PhoneNumber != s.phone {
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "error", "message": "Invalid OTP"})
	}

	return success(c, echo.Map{"token": s.token})
}

func (s *Server) sessionInfoLocked() echo.Map {
	if s.session == nil {
		return nil
	}

	return echo.Map{
		"restaurant": echo.Map{"_id": s.session.RestaurantID, "name": s.session.RestaurantName},
		"table":      echo.Map{"_id": s.session.ID, "tableNumber": s.session.TableNumber},
		"startTime":  s.sessionStart,
	}
}

func (s *Server) getProfile(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := echo.Map{
		"customer": echo.Map{"_id": "cust-1", "phoneNumber": s.phone, "name": s.customerName},
	}
	if info := s.sessionInfoLocked(); info != nil {
		data["sessionInfo"] = info
	}

	return success(c, data)
}

func (s *Server) updateProfile(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "error", "message": "Invalid input"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.customerName = body.Name

	return success(c, nil)
}

func (s *Server) scanTable(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.tables[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"status": "error", "message": "Table not found"})
	}
	if table.Occupied {
		return c.JSON(http.StatusConflict, echo.Map{"status": "error", "message": "Table is occupied"})
	}

	s.session = &table
	s.sessionStart = time.Now().UTC().Truncate(time.Second)

	return success(c, echo.Map{
		"restaurant": echo.Map{"_id": table.RestaurantID, "name": table.RestaurantName},
		"table":      echo.Map{"_id": table.ID, "tableNumber": table.TableNumber},
		"session":    echo.Map{"startTime": s.sessionStart},
	})
}

func (s *Server) checkout(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil

	return success(c, nil)
}

func (s *Server) getMenu(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := make([]echo.Map, 0, len(s.categories))
	for _, category := range s.categories {
		categories = append(categories, echo.Map{"_id": category[0], "name": category[1]})
	}
	products := make([]echo.Map, 0, len(s.products))
	for _, product := range s.products {
		products = append(products, s.productJSON(product))
	}

	return success(c, echo.Map{"categories": categories, "products": products})
}

func (s *Server) productJSON(p Product) echo.Map {
	return echo.Map{
		"_id":         p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"category":    echo.Map{"_id": p.CategoryID},
	}
}

func (s *Server) productLocked(id string) (Product, bool) {
	for _, product := range s.products {
		if product.ID == id {
			return product, true
		}
	}

	return Product{}, false
}

func (s *Server) appendCartLocked(productID string, quantity int, note string) string {
	s.nextID++
	id := fmt.Sprintf("line-%d", s.nextID)
	s.cart = append(s.cart, cartItem{ID: id, ProductID: productID, Quantity: quantity, SpecialInstructions: note})

	return id
}

func (s *Server) cartJSONLocked() echo.Map {
	items := make([]echo.Map, 0, len(s.cart))
	total := 0.0
	for _, item := range s.cart {
		product, _ := s.productLocked(item.ProductID)
		total += product.Price * float64(item.Quantity)
		items = append(items, echo.Map{
			"_id":                 item.ID,
			"product":             s.productJSON(product),
			"quantity":            item.Quantity,
			"selectedAddons":      []any{},
			"specialInstructions": item.SpecialInstructions,
		})
	}

	return echo.Map{"cart": echo.Map{"items": items}, "totalAmount": total}
}

func (s *Server) getCart(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return success(c, s.cartJSONLocked())
}

func (s *Server) addToCart(c echo.Context) error {
	var body struct {
		ProductID           string `json:"productId"`
		Quantity            int    `json:"quantity"`
		SpecialInstructions string `json:"specialInstructions"`
	}
	if err := c.Bind(&body); err != nil || body.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "error", "message": "Invalid cart item"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.productLocked(body.ProductID); !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"status": "error", "message": "Product not found"})
	}
	s.appendCartLocked(body.ProductID, body.Quantity, body.SpecialInstructions)

	return success(c, s.cartJSONLocked())
}

func (s *Server) updateCartItem(c echo.Context) error {
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&body); err != nil || body.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "error", "message": "Invalid quantity"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].ID == c.Param("id") {
			s.cart[i].Quantity = body.Quantity

			return success(c, s.cartJSONLocked())
		}
	}

	return c.JSON(http.StatusNotFound, echo.Map{"status": "error", "message": "Cart item not found"})
}

func (s *Server) removeCartItem(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].ID == c.Param("id") {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)

			return success(c, s.cartJSONLocked())
		}
	}

	return c.JSON(http.StatusNotFound, echo.Map{"status": "error", "message": "Cart item not found"})
}

func (s *Server) clearCart(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil

	return success(c, s.cartJSONLocked())
}

func (s *Server) orderJSONLocked(o order) echo.Map {
	items := make([]echo.Map, 0, len(o.Items))
	for _, item := range o.Items {
		product, _ := s.productLocked(item.ProductID)
		items = append(items, echo.Map{
			"_id":                 item.ID,
			"product":             echo.Map{"_id": product.ID, "name": product.Name},
			"price":               product.Price,
			"quantity":            item.Quantity,
			"status":              "pending",
			"specialInstructions": item.SpecialInstructions,
		})
	}

	return echo.Map{
		"_id":                 o.ID,
		"status":              "pending",
		"items":               items,
		"totalAmount":         o.Total,
		"specialInstructions": o.SpecialInstructions,
		"createdAt":           o.CreatedAt,
	}
}

func (s *Server) placeOrder(c echo.Context) error {
	var body struct {
		SpecialInstructions string `json:"specialInstructions"`
	}
	_ = c.Bind(&body)

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cart) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "error", "message": "Cart is empty"})
	}

	total := 0.0
	for _, item := range s.cart {
		product, _ := s.productLocked(item.ProductID)
		total += product.Price * float64(item.Quantity)
	}
	s.nextID++
	placed := order{
		ID:                  fmt.Sprintf("order-%d", s.nextID),
		Items:               s.cart,
		Total:               total,
		SpecialInstructions: body.SpecialInstructions,
		CreatedAt:           time.Now().UTC().Truncate(time.Second),
	}
	s.orders = append(s.orders, placed)
	s.cart = nil

	return success(c, echo.Map{"order": s.orderJSONLocked(placed)})
}

func (s *Server) listOrders(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]echo.Map, 0, len(s.orders))
	for _, o := range s.orders {
		orders = append(orders, s.orderJSONLocked(o))
	}

	return success(c, echo.Map{"orders": orders})
}

func (s *Server) getOrder(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if strings.EqualFold(o.ID, c.Param("id")) {
			return success(c, echo.Map{"order": s.orderJSONLocked(o)})
		}
	}

	return c.JSON(http.StatusNotFound, echo.Map{"status": "error", "message": "Order not found"})
}
