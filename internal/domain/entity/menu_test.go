package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMenu() Menu {
	return Menu{
		Categories: []Category{{ID: "c1", Name: "Mains"}, {ID: "c2", Name: "Drinks"}, {ID: "c3", Name: "Desserts"}},
		Products: []Product{
			{ID: "p1", Name: "Masala Dosa", Description: "Crispy crepe", CategoryID: "c1"},
			{ID: "p2", Name: "Filter Coffee", Description: "Strong and sweet", CategoryID: "c2"},
			{ID: "p3", Name: "Idli", Description: "Steamed rice cakes", CategoryID: "c1"},
			{ID: "p4", Name: "Orphan", CategoryID: "gone"},
		},
	}
}

func TestMenu_View(t *testing.T) {
	tests := []struct {
		name     string
		search   string
		sections []string
		matches  int
	}{
		{name: "everything", search: "", sections: []string{"Mains", "Drinks"}, matches: 4},
		{name: "by name ignoring case", search: "DOSA", sections: []string{"Mains"}, matches: 1},
		{name: "by description", search: "sweet", sections: []string{"Drinks"}, matches: 1},
		{name: "no match", search: "pizza", sections: []string{}, matches: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := sampleMenu().View(tt.search)

			names := []string{}
			for _, section := range view.Sections {
				names = append(names, section.Category.Name)
			}
			assert.Equal(t, tt.sections, names)
			assert.Equal(t, tt.matches, view.MatchCount)
			assert.Equal(t, 4, view.TotalProducts)
		})
	}
}

func TestMenu_Product(t *testing.T) {
	product, ok := sampleMenu().Product("p2")
	require.True(t, ok)
	assert.Equal(t, "Filter Coffee", product.Name)

	_, ok = sampleMenu().Product("p9")
	assert.False(t, ok)
}

func TestTableSession_Duration(t *testing.T) {
	start := time.Date(2026, 4, 1, 19, 0, 0, 0, time.UTC)
	table := &TableSession{StartTime: start}

	assert.Equal(t, 95*time.Minute, table.Duration(start.Add(95*time.Minute)))
	assert.Zero(t, table.Duration(start.Add(-time.Minute)))

	var none *TableSession
	assert.Zero(t, none.Duration(start))
}

func TestSessionState(t *testing.T) {
	table := &TableSession{}

	assert.False(t, SessionState{Phase: PhaseAuthenticating, Table: table}.HasTable())
	assert.True(t, SessionState{Phase: PhaseAuthenticated, Table: table}.HasTable())
	assert.False(t, SessionState{Phase: PhaseAuthenticated}.HasTable())

	var customer *Customer
	assert.Empty(t, customer.DisplayName())
	assert.Equal(t, "+919876543210", (&Customer{PhoneNumber: "+919876543210"}).DisplayName())
	assert.Equal(t, "Asha", (&Customer{PhoneNumber: "+919876543210", Name: "Asha"}).DisplayName())
}
