package model

import "time"

// MarketListing is one item stack offered for sale. The listed items are
// held in escrow: they leave the seller's inventory on insert and only
// come back if the listing is cancelled.
type MarketListing struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"` // uuid
	SellerID   int64     `gorm:"index:idx_seller;not null" json:"seller_id"`
	SellerName string    `gorm:"size:32" json:"seller_name"`
	ItemID     string    `gorm:"size:64;not null;index" json:"item_id"`
	Count      int       `gorm:"not null" json:"count"`
	Price      int64     `gorm:"not null" json:"price"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
