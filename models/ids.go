package models

// Identifiers are opaque strings generated by the store. Each record kind gets
// its own type so ids of different kinds cannot be mixed up.
type (
	UserID       string
	RestaurantID string
	MenuItemID   string
	OrderID      string
)

func (id UserID) String() string       { return string(id) }
func (id RestaurantID) String() string { return string(id) }
func (id MenuItemID) String() string   { return string(id) }
func (id OrderID) String() string      { return string(id) }

// Collection names, one per top-level record kind.
const (
	UserCollection       = "user"
	RestaurantCollection = "restaurant"
	MenuItemCollection   = "menuitem"
	OrderCollection      = "order"
)
