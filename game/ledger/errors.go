package ledger

import "errors"

// Validation failures. Every one of these leaves the ledger untouched;
// they are surfaced to the player as a log line, never as a crash.
var (
	ErrInsufficientGold     = errors.New("ledger: not enough gold")
	ErrInsufficientResource = errors.New("ledger: not enough resources")
	ErrInsufficientItems    = errors.New("ledger: not enough items")
	ErrInsufficientStamina  = errors.New("ledger: not enough stamina")
	ErrInsufficientMana     = errors.New("ledger: not enough mana")
	ErrNotEquippable        = errors.New("ledger: item cannot be equipped")
	ErrClassRestricted      = errors.New("ledger: item restricted to another class")
	ErrItemNotOwned         = errors.New("ledger: item not in inventory")
	ErrPopulationCap        = errors.New("ledger: population limit reached")
	ErrUnknownID            = errors.New("ledger: unknown content id")
	ErrLevelTooLow          = errors.New("ledger: level requirement not met")
	ErrMissingPrereq        = errors.New("ledger: prerequisite skill not unlocked")
	ErrNoSkillPoints        = errors.New("ledger: no skill points available")
	ErrAlreadyUnlocked      = errors.New("ledger: skill already unlocked")
)
