package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
)

func fixture() ([]Category, []Product) {
	cats := []Category{
		{ID: "burgers", Name: "Burgers", IsActive: true},
		{ID: "drinks", Name: "Drinks", IsActive: true},
		{ID: "seasonal", Name: "Seasonal", IsActive: false},
	}
	prods := []Product{
		{ID: "p1", Name: "X-Burger", Price: decimal.RequireFromString("25.90"), CategoryID: "burgers", IsAvailable: true},
		{ID: "p2", Name: "X-Bacon", Price: decimal.RequireFromString("29.90"), CategoryID: "burgers", IsAvailable: false},
		{ID: "p3", Name: "Cola", Price: decimal.RequireFromString("6.00"), CategoryID: "drinks", IsAvailable: true},
		{ID: "p4", Name: "Pumpkin pie", Price: decimal.RequireFromString("12.00"), CategoryID: "seasonal", IsAvailable: true},
		{ID: "p5", Name: "Orphan", Price: decimal.RequireFromString("1.00"), CategoryID: "gone", IsAvailable: true},
	}
	return cats, prods
}

func ids(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestVisible_FiltersInactiveAndUnavailable(t *testing.T) {
	cats, prods := fixture()

	menu := Visible(cats, prods, AllCategories)

	if len(menu.Categories) != 2 {
		t.Fatalf("expected 2 active categories, got %d", len(menu.Categories))
	}
	got := ids(menu.Products)
	if len(got) != 2 || got[0] != "p1" || got[1] != "p3" {
		t.Fatalf("unexpected visible products %v", got)
	}
}

func TestVisible_CategorySelection(t *testing.T) {
	cats, prods := fixture()

	if got := ids(Visible(cats, prods, "drinks").Products); len(got) != 1 || got[0] != "p3" {
		t.Fatalf("expected only p3, got %v", got)
	}
	// an inactive category never shows products even when selected
	if got := Visible(cats, prods, "seasonal").Products; len(got) != 0 {
		t.Fatalf("expected no products for inactive category, got %v", ids(got))
	}
	if got := Visible(cats, prods, "").Products; len(got) != 2 {
		t.Fatalf("empty selection should behave like all, got %v", ids(got))
	}
}

func TestVisible_EmptyCatalog(t *testing.T) {
	menu := Visible(nil, nil, "")
	if menu.Products == nil || menu.Categories == nil {
		t.Fatal("expected empty, non-nil slices for JSON rendering")
	}
}

func TestIsOrderable(t *testing.T) {
	cats, prods := fixture()
	want := map[string]bool{"p1": true, "p2": false, "p3": true, "p4": false, "p5": false}
	for _, p := range prods {
		if got := IsOrderable(p, cats); got != want[p.ID] {
			t.Fatalf("IsOrderable(%s) = %v, want %v", p.ID, got, want[p.ID])
		}
	}
}
