package ledger

import (
	"github.com/mistfall/emberhold/catalog"
	"github.com/mistfall/emberhold/game/events"
)

// AddItem puts count copies of itemID into the inventory, merging into
// an existing stack when one is present.
func (l *Ledger) AddItem(itemID string, count int) error {
	if count <= 0 {
		return nil
	}
	if l.cat.Item(itemID) == nil {
		return ErrUnknownID
	}
	l.mu.Lock()
	l.addItemLocked(itemID, count)
	charID := l.st.CharID
	l.mu.Unlock()
	l.bus.Publish(events.ItemGained, events.ItemGainedPayload{
		CharID: charID, ItemID: itemID, Count: count,
	})
	return nil
}

func (l *Ledger) addItemLocked(itemID string, count int) {
	for i := range l.st.Inventory {
		if l.st.Inventory[i].ItemID == itemID {
			l.st.Inventory[i].Count += count
			return
		}
	}
	l.st.Inventory = append(l.st.Inventory, Slot{ItemID: itemID, Count: count})
}

// RemoveItem decrements the matching stack, dropping the slot when it
// reaches zero or below. An item the inventory does not hold is a
// no-op, not an error.
func (l *Ledger) RemoveItem(itemID string, count int) {
	if count <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.st.Inventory {
		if l.st.Inventory[i].ItemID != itemID {
			continue
		}
		l.st.Inventory[i].Count -= count
		if l.st.Inventory[i].Count <= 0 {
			l.st.Inventory = append(l.st.Inventory[:i], l.st.Inventory[i+1:]...)
		}
		return
	}
}

// TakeItem removes exactly count copies or fails without mutating.
// Escrow paths use this where a silent clamp could lose goods.
func (l *Ledger) TakeItem(itemID string, count int) error {
	if count <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.removeItemLocked(itemID, count)
}

func (l *Ledger) removeItemLocked(itemID string, count int) error {
	for i := range l.st.Inventory {
		if l.st.Inventory[i].ItemID != itemID {
			continue
		}
		if l.st.Inventory[i].Count < count {
			return ErrInsufficientItems
		}
		l.st.Inventory[i].Count -= count
		if l.st.Inventory[i].Count == 0 {
			l.st.Inventory = append(l.st.Inventory[:i], l.st.Inventory[i+1:]...)
		}
		return nil
	}
	return ErrItemNotOwned
}

// EquipItem moves one owned item from the inventory into its slot.
// Anything already in that slot goes back to the inventory first, so
// the swap never loses an item.
func (l *Ledger) EquipItem(itemID string) error {
	it := l.cat.Item(itemID)
	if it == nil {
		return ErrUnknownID
	}
	if !it.Equippable() {
		return ErrNotEquippable
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if it.ClassOnly != "" && it.ClassOnly != l.st.Class {
		return ErrClassRestricted
	}
	if l.st.ItemCount(itemID) < 1 {
		return ErrItemNotOwned
	}
	if prev, ok := l.st.Equipment[it.Slot]; ok {
		l.addItemLocked(prev, 1)
	}
	if err := l.removeItemLocked(itemID, 1); err != nil {
		return err
	}
	l.st.Equipment[it.Slot] = itemID
	return nil
}

// UnequipItem clears a slot and returns the item to the inventory.
// An empty slot is a no-op.
func (l *Ledger) UnequipItem(slot catalog.EquipSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	itemID, ok := l.st.Equipment[slot]
	if !ok {
		return
	}
	delete(l.st.Equipment, slot)
	l.addItemLocked(itemID, 1)
}

// ConsumeFood eats one owned food item, restoring hp and stamina.
func (l *Ledger) ConsumeFood(foodID string) error {
	food := l.cat.Food(foodID)
	if food == nil {
		return ErrUnknownID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.removeItemLocked(foodID, 1); err != nil {
		return err
	}
	l.st.HP = clamp(l.st.HP+food.HP, 0, l.st.MaxHP)
	l.st.Stamina = clamp(l.st.Stamina+food.Stamina, 0, l.st.MaxStamina)
	return nil
}

// GrantPet adds a pet to the stable; already-owned pets are a no-op.
func (l *Ledger) GrantPet(petID string) error {
	if l.cat.Pet(petID) == nil {
		return ErrUnknownID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.st.Pets {
		if p == petID {
			return nil
		}
	}
	l.st.Pets = append(l.st.Pets, petID)
	return nil
}

// EquipPet makes an owned pet the active companion.
func (l *Ledger) EquipPet(petID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.st.Pets {
		if p == petID {
			l.st.EquippedPet = petID
			return nil
		}
	}
	return ErrItemNotOwned
}

// UnequipPet clears the active companion.
func (l *Ledger) UnequipPet() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.st.EquippedPet = ""
}
