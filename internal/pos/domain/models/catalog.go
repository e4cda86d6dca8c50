package models

type MenuCategory struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// MenuItemIngredient is one recipe line: the supply a menu item consumes and
// how much of it.
type MenuItemIngredient struct {
	ID         int64   `json:"id"`
	ItemID     int64   `json:"item_id"`
	SupplyID   int64   `json:"supply_id"`
	SupplyName string  `json:"supply_name,omitempty"`
	Unit       string  `json:"unit,omitempty"`
	Quantity   float64 `json:"quantity"`
}

type MenuItem struct {
	ID           int64   `json:"id"`
	CategoryID   int64   `json:"category_id"`
	CategoryName string  `json:"category_name,omitempty"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price"`
	Status       string  `json:"status"`
	Image        string  `json:"image,omitempty"`
}
