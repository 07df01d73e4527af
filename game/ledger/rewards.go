package ledger

import (
	"github.com/mistfall/emberhold/catalog"
	"go.uber.org/zap"
)

// GrantRewards credits a list of action or quest payouts. Unknown item
// ids are skipped with a warning rather than failing the whole grant.
func (l *Ledger) GrantRewards(rewards []catalog.Reward) {
	for _, r := range rewards {
		switch r.Type {
		case catalog.RewardXP:
			l.AddXP(r.Amount)
		case catalog.RewardGold:
			l.AddGold(r.Amount)
		case catalog.RewardResource:
			l.AddResource(r.Key, int(r.Amount))
		case catalog.RewardItem:
			if err := l.AddItem(r.Key, int(r.Amount)); err != nil {
				l.logger.Warn("reward item skipped",
					zap.String("item_id", r.Key))
			}
		}
	}
}

// SetZone moves the character to a zone. Zone gating on actions is
// enforced at enqueue time, not here.
func (l *Ledger) SetZone(zone string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.st.Zone = zone
}
