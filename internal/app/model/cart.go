package model

import (
	"time"

	"gorm.io/gorm"
)

// Cart holds a user's pending line items. A user may own several carts at
// once; the add/get-single paths operate on the earliest one.
type Cart struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Cart) TableName() string {
	return "carts"
}

// NumberOfItems sums quantities across all line items.
func (c *Cart) NumberOfItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

type CartItem struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CartID        uint      `gorm:"not null;index:idx_cart_items_cart;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID     uint      `gorm:"not null;index;uniqueIndex:idx_cart_product" json:"product_id"`
	Quantity      int       `gorm:"not null;default:1" json:"quantity"`
	ShippingPrice float64   `json:"shipping_price"`
	CouponCode    string    `gorm:"type:varchar(100)" json:"coupon_code"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Cart    Cart    `gorm:"foreignKey:CartID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
