package social

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/mistfall/emberhold/catalog"
	"github.com/mistfall/emberhold/game/ledger"
	"github.com/mistfall/emberhold/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrListingNotFound = errors.New("social: listing not found or already sold")
	ErrNotSeller       = errors.New("social: listing belongs to another seller")
	ErrBadPrice        = errors.New("social: price must be positive")
	ErrOwnListing      = errors.New("social: cannot buy your own listing")
)

// LiveLedger resolves a character's live ledger, or nil when the
// character has no attached session. The player manager provides it;
// the indirection keeps this package from importing the session layer.
type LiveLedger func(charID int64) *ledger.Ledger

// Market sells item stacks between characters. Listed items are held
// in escrow: they leave the seller's inventory at insert time, so a
// sold listing only ever moves gold.
type Market struct {
	db     *gorm.DB
	cat    *catalog.Catalog
	live   LiveLedger
	logger *zap.Logger
}

// NewMarket wires the market service.
func NewMarket(db *gorm.DB, cat *catalog.Catalog, live LiveLedger, logger *zap.Logger) *Market {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Market{db: db, cat: cat, live: live, logger: logger}
}

// Listings returns open listings, optionally filtered by item id.
func (m *Market) Listings(ctx context.Context, itemID string) ([]model.MarketListing, error) {
	q := m.db.WithContext(ctx).Order("created_at DESC")
	if itemID != "" {
		q = q.Where("item_id = ?", itemID)
	}
	var rows []model.MarketListing
	err := q.Find(&rows).Error
	return rows, err
}

// Insert escrows count items out of the seller's inventory and opens a
// listing. A failed insert returns the items.
func (m *Market) Insert(ctx context.Context, seller *ledger.Ledger, itemID string, count int, price int64) (*model.MarketListing, error) {
	if price <= 0 {
		return nil, ErrBadPrice
	}
	if m.cat.Item(itemID) == nil {
		return nil, ledger.ErrUnknownID
	}
	if err := seller.TakeItem(itemID, count); err != nil {
		return nil, err
	}
	st := seller.Snapshot()
	row := &model.MarketListing{
		ID:         uuid.NewString(),
		SellerID:   st.CharID,
		SellerName: st.Name,
		ItemID:     itemID,
		Count:      count,
		Price:      price,
	}
	if err := m.db.WithContext(ctx).Create(row).Error; err != nil {
		if aerr := seller.AddItem(itemID, count); aerr != nil {
			m.logger.Error("escrow return failed", zap.Error(aerr))
		}
		return nil, err
	}
	return row, nil
}

// Cancel removes the seller's own listing and returns the escrowed
// items.
func (m *Market) Cancel(ctx context.Context, seller *ledger.Ledger, listingID string) error {
	sellerID := seller.Snapshot().CharID
	var row model.MarketListing
	if err := m.db.WithContext(ctx).First(&row, "id = ?", listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListingNotFound
		}
		return err
	}
	if row.SellerID != sellerID {
		return ErrNotSeller
	}
	res := m.db.WithContext(ctx).Delete(&model.MarketListing{}, "id = ?", listingID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrListingNotFound // sold in the meantime
	}
	return seller.AddItem(row.ItemID, row.Count)
}

// Buy transfers gold from the buyer and the escrowed items to them.
// The delete doubles as the claim: whoever removes the row owns the
// sale, so two concurrent buyers cannot both win.
func (m *Market) Buy(ctx context.Context, buyer *ledger.Ledger, listingID string) (*model.MarketListing, error) {
	var row model.MarketListing
	if err := m.db.WithContext(ctx).First(&row, "id = ?", listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	buyerID := buyer.Snapshot().CharID
	if row.SellerID == buyerID {
		return nil, ErrOwnListing
	}
	if err := buyer.SpendGold(row.Price); err != nil {
		return nil, err
	}
	res := m.db.WithContext(ctx).Delete(&model.MarketListing{}, "id = ?", listingID)
	if res.Error != nil || res.RowsAffected == 0 {
		buyer.AddGold(row.Price)
		if res.Error != nil {
			return nil, res.Error
		}
		return nil, ErrListingNotFound
	}
	if err := buyer.AddItem(row.ItemID, row.Count); err != nil {
		m.logger.Error("bought item grant failed",
			zap.String("item_id", row.ItemID), zap.Error(err))
	}
	m.creditSeller(ctx, row.SellerID, row.Price)
	return &row, nil
}

// creditSeller pays the sale out to a live session when one exists,
// otherwise directly into the persisted snapshot.
func (m *Market) creditSeller(ctx context.Context, sellerID int64, amount int64) {
	if led := m.live(sellerID); led != nil {
		led.AddGold(amount)
		return
	}
	var rec model.Character
	if err := m.db.WithContext(ctx).First(&rec, sellerID).Error; err != nil {
		m.logger.Warn("offline seller credit failed",
			zap.Int64("seller_id", sellerID), zap.Error(err))
		return
	}
	rec.Gold += amount
	if len(rec.State) > 0 {
		var st map[string]interface{}
		if json.Unmarshal(rec.State, &st) == nil {
			if g, ok := st["gold"].(float64); ok {
				st["gold"] = g + float64(amount)
				if raw, err := json.Marshal(st); err == nil {
					rec.State = raw
				}
			}
		}
	}
	if err := m.db.WithContext(ctx).Save(&rec).Error; err != nil {
		m.logger.Warn("offline seller credit failed",
			zap.Int64("seller_id", sellerID), zap.Error(err))
	}
}
