package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Category groups products on the menu.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Product is an orderable menu item.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"categoryId,omitempty"`
	Available   bool            `json:"available"`
}

// Matches reports whether the product name or description contains term, ignoring case.
func (p Product) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}

	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

// Menu is the restaurant's catalogue.
type Menu struct {
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
}

// MenuSection is one category with the products that survived filtering.
type MenuSection struct {
	Category Category  `json:"category"`
	Products []Product `json:"products"`
}

// MenuView is the menu as presented for a search term.
type MenuView struct {
	Search        string        `json:"search,omitempty"`
	Sections      []MenuSection `json:"sections"`
	TotalProducts int           `json:"totalProducts"`
	MatchCount    int           `json:"matchCount"`
}

// View groups products by category in category order, dropping empty categories.
// Products without a known category are not shown.
func (m Menu) View(search string) MenuView {
	view := MenuView{
		Search:        strings.TrimSpace(search),
		Sections:      []MenuSection{},
		TotalProducts: len(m.Products),
	}

	for _, product := range m.Products {
		if product.Matches(search) {
			view.MatchCount++
		}
	}

	for _, category := range m.Categories {
		var products []Product
		for _, product := range m.Products {
			if product.CategoryID == category.ID && product.Matches(search) {
				products = append(products, product)
			}
		}
		if len(products) == 0 {
			continue
		}
		view.Sections = append(view.Sections, MenuSection{Category: category, Products: products})
	}

	return view
}

// Product looks a product up by id.
func (m Menu) Product(id string) (Product, bool) {
	for _, product := range m.Products {
		if product.ID == id {
			return product, true
		}
	}

	return Product{}, false
}
