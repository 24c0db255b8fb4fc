package domain

// giftThreshold is the price below which an item is presented as a gift.
const giftThreshold = 0.01

// Cart represents the user's current set of selected items plus aggregate
// display fields. Currency, coupon and value are opaque display data; no
// arithmetic is performed on them client-side.
type Cart struct {
	Currency string `json:"currency"`
	Coupon   string `json:"coupon"`
	Value    string `json:"value"`
	Items    []Item `json:"items"`
}

// Item is a single cart line, identified by ItemID. Everything besides
// ItemID, Price and Quantity exists for rendering and analytics only.
type Item struct {
	ItemID        string  `json:"item_id"`
	ItemName      string  `json:"item_name"`
	ItemGroupID   string  `json:"item_group_id,omitempty"`
	ItemBrand     string  `json:"item_brand,omitempty"`
	ItemVariant   string  `json:"item_variant,omitempty"`
	ItemCategory  string  `json:"item_category,omitempty"`
	ItemCategory2 string  `json:"item_category2,omitempty"`
	ItemURL       string  `json:"item_url,omitempty"`
	Affiliation   string  `json:"affiliation,omitempty"`
	Coupon        string  `json:"coupon,omitempty"`
	Discount      float64 `json:"discount,omitempty"`
	Index         int     `json:"index,omitempty"`
	Price         float64 `json:"price"`
	ListPrice     float64 `json:"listPrice"`
	Quantity      int     `json:"quantity"`
	Image         string  `json:"image"`
}

// EmptyCart returns a cart with no items, used as the decode fallback so a
// broken snapshot never takes the page down with it.
func EmptyCart() *Cart {
	return &Cart{Items: []Item{}}
}

// FindItem returns a pointer to the item with the given ID, or nil.
// Lookup assumes at most one meaningful line per item_id; duplicates are the
// gateway's responsibility, the first match wins here.
func (c *Cart) FindItem(itemID string) *Item {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// Quantity returns the quantity of the item with the given ID.
// The second return value reports whether the item is present.
func (c *Cart) Quantity(itemID string) (int, bool) {
	if item := c.FindItem(itemID); item != nil {
		return item.Quantity, true
	}
	return 0, false
}

// ItemCount returns the total quantity across all lines.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsGift reports whether the item is a zero-priced gift line.
func (i *Item) IsGift() bool {
	return i.Price < giftThreshold
}
