package catalog

// AllCategories selects every visible product in Visible.
const AllCategories = "all"

// Menu is what a customer can see and order.
type Menu struct {
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
}

// Visible filters the raw catalog down to the customer menu: only active
// categories, and only available products whose category is active.
// categoryID narrows the products to one category; "" or AllCategories keeps all.
func Visible(categories []Category, products []Product, categoryID string) Menu {
	active := make(map[string]struct{}, len(categories))
	menu := Menu{
		Categories: make([]Category, 0, len(categories)),
		Products:   make([]Product, 0, len(products)),
	}
	for _, c := range categories {
		if !c.IsActive {
			continue
		}
		active[c.ID] = struct{}{}
		menu.Categories = append(menu.Categories, c)
	}

	for _, p := range products {
		if !p.IsAvailable {
			continue
		}
		if _, ok := active[p.CategoryID]; !ok {
			continue
		}
		if categoryID != "" && categoryID != AllCategories && p.CategoryID != categoryID {
			continue
		}
		menu.Products = append(menu.Products, p)
	}
	return menu
}

// IsOrderable reports whether a single product may be added to a cart, given
// the category list it belongs to.
func IsOrderable(p Product, categories []Category) bool {
	if !p.IsAvailable {
		return false
	}
	for _, c := range categories {
		if c.ID == p.CategoryID {
			return c.IsActive
		}
	}
	return false
}
