// Package rest exposes the game over gin handlers, one handler struct
// per concern. Routing lives in the server bootstrap; handlers stay
// thin and push all rules into the game packages.
package rest

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mistfall/emberhold/game/combat"
	"github.com/mistfall/emberhold/game/ledger"
	"github.com/mistfall/emberhold/game/player"
	"github.com/mistfall/emberhold/game/production"
	"github.com/mistfall/emberhold/game/social"
	mw "github.com/mistfall/emberhold/middleware"
)

// fail maps game errors onto HTTP statuses. Validation failures are
// the player's problem (400/409), missing things are 404, everything
// else is a 500 with the detail kept out of the response.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, player.ErrCharacterNotFound),
		errors.Is(err, social.ErrGuildNotFound),
		errors.Is(err, social.ErrListingNotFound),
		errors.Is(err, ledger.ErrUnknownID),
		errors.Is(err, production.ErrUnknownAction),
		errors.Is(err, combat.ErrUnknownEnemy),
		errors.Is(err, combat.ErrUnknownDungeon):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, player.ErrNotYourCharacter):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, player.ErrNameTaken),
		errors.Is(err, social.ErrGuildNameTaken),
		errors.Is(err, social.ErrAlreadyInGuild):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case isValidationErr(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func isValidationErr(err error) bool {
	for _, v := range []error{
		ledger.ErrInsufficientGold, ledger.ErrInsufficientResource,
		ledger.ErrInsufficientItems, ledger.ErrInsufficientStamina,
		ledger.ErrInsufficientMana, ledger.ErrNotEquippable,
		ledger.ErrClassRestricted, ledger.ErrItemNotOwned,
		ledger.ErrPopulationCap, ledger.ErrLevelTooLow,
		ledger.ErrMissingPrereq, ledger.ErrNoSkillPoints,
		ledger.ErrAlreadyUnlocked,
		production.ErrQueueFull, production.ErrZoneMismatch,
		production.ErrMissingBuilding, production.ErrBadIndex,
		combat.ErrNotIdle, combat.ErrNotActive, combat.ErrWrongZone,
		combat.ErrSkillLocked,
		combat.ErrSkillNotActive, combat.ErrDungeonLevel,
		combat.ErrNoOpponent,
		social.ErrEmptyMessage, social.ErrMessageTooLong,
		social.ErrBadPrice, social.ErrOwnListing, social.ErrNotSeller,
		social.ErrNotInGuild, social.ErrNotGuildLeader,
		social.ErrLeaderMustStay, social.ErrCannotKickSelf,
		player.ErrInvalidClass,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// bindSession resolves the :id character for the authenticated account,
// attaching its session on first touch. Writes the error response
// itself; a nil return means the handler should bail.
func bindSession(c *gin.Context, mgr *player.Manager) *player.Session {
	charID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad character id"})
		return nil
	}
	sess, err := mgr.Attach(mw.GetAccountID(c), charID)
	if err != nil {
		fail(c, err)
		return nil
	}
	return sess
}

// isUniqueViolation sniffs driver-specific unique constraint failures.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry")
}
