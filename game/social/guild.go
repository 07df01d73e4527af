package social

import (
	"context"
	"errors"

	"github.com/mistfall/emberhold/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrGuildNotFound   = errors.New("social: guild not found")
	ErrGuildNameTaken  = errors.New("social: guild name already taken")
	ErrAlreadyInGuild  = errors.New("social: character already in a guild")
	ErrNotInGuild      = errors.New("social: character not in this guild")
	ErrNotGuildLeader  = errors.New("social: leader rank required")
	ErrLeaderMustStay  = errors.New("social: leader must disband, not leave")
	ErrCannotKickSelf  = errors.New("social: cannot kick yourself")
)

// Guilds is the guild CRUD service. Membership and rank live entirely
// in the database; nothing here touches live game state.
type Guilds struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGuilds wires the guild service.
func NewGuilds(db *gorm.DB, logger *zap.Logger) *Guilds {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guilds{db: db, logger: logger}
}

// GuildInfo is a guild with its member roster.
type GuildInfo struct {
	Guild   model.Guild         `json:"guild"`
	Members []model.GuildMember `json:"members"`
}

// Create founds a guild with the character as leader.
func (g *Guilds) Create(ctx context.Context, leaderID int64, name string) (*model.Guild, error) {
	if in, err := g.memberOf(ctx, leaderID); err != nil {
		return nil, err
	} else if in != nil {
		return nil, ErrAlreadyInGuild
	}
	var count int64
	if err := g.db.WithContext(ctx).Model(&model.Guild{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrGuildNameTaken
	}
	guild := &model.Guild{Name: name, Level: 1, LeaderID: leaderID}
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(guild).Error; err != nil {
			return err
		}
		member := &model.GuildMember{GuildID: guild.ID, CharID: leaderID, Rank: model.GuildRankLeader}
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		return tx.Model(&model.Character{}).Where("id = ?", leaderID).
			Update("guild_id", guild.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return guild, nil
}

// Join adds a character as a regular member.
func (g *Guilds) Join(ctx context.Context, guildID, charID int64) error {
	if in, err := g.memberOf(ctx, charID); err != nil {
		return err
	} else if in != nil {
		return ErrAlreadyInGuild
	}
	var guild model.Guild
	if err := g.db.WithContext(ctx).First(&guild, guildID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGuildNotFound
		}
		return err
	}
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member := &model.GuildMember{GuildID: guildID, CharID: charID, Rank: model.GuildRankMember}
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		return tx.Model(&model.Character{}).Where("id = ?", charID).
			Update("guild_id", guildID).Error
	})
}

// Leave removes a regular member or officer. The leader cannot leave;
// they disband instead.
func (g *Guilds) Leave(ctx context.Context, guildID, charID int64) error {
	member, err := g.member(ctx, guildID, charID)
	if err != nil {
		return err
	}
	if member.Rank == model.GuildRankLeader {
		return ErrLeaderMustStay
	}
	return g.removeMember(ctx, guildID, charID)
}

// Kick removes another member; leader rank required.
func (g *Guilds) Kick(ctx context.Context, guildID, leaderID, targetID int64) error {
	if leaderID == targetID {
		return ErrCannotKickSelf
	}
	leader, err := g.member(ctx, guildID, leaderID)
	if err != nil {
		return err
	}
	if leader.Rank != model.GuildRankLeader {
		return ErrNotGuildLeader
	}
	if _, err := g.member(ctx, guildID, targetID); err != nil {
		return err
	}
	return g.removeMember(ctx, guildID, targetID)
}

// Disband deletes the guild and detaches every member; leader only.
func (g *Guilds) Disband(ctx context.Context, guildID, leaderID int64) error {
	leader, err := g.member(ctx, guildID, leaderID)
	if err != nil {
		return err
	}
	if leader.Rank != model.GuildRankLeader {
		return ErrNotGuildLeader
	}
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Character{}).Where("guild_id = ?", guildID).
			Update("guild_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.GuildMember{}, "guild_id = ?", guildID).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Guild{}, guildID).Error
	})
}

// SetNotice updates the guild notice; leader or officer rank required.
func (g *Guilds) SetNotice(ctx context.Context, guildID, charID int64, notice string) error {
	member, err := g.member(ctx, guildID, charID)
	if err != nil {
		return err
	}
	if member.Rank > model.GuildRankOfficer {
		return ErrNotGuildLeader
	}
	return g.db.WithContext(ctx).Model(&model.Guild{}).Where("id = ?", guildID).
		Update("notice", notice).Error
}

// Info returns a guild with its roster.
func (g *Guilds) Info(ctx context.Context, guildID int64) (*GuildInfo, error) {
	var guild model.Guild
	if err := g.db.WithContext(ctx).First(&guild, guildID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuildNotFound
		}
		return nil, err
	}
	var members []model.GuildMember
	if err := g.db.WithContext(ctx).Where("guild_id = ?", guildID).
		Order("rank, joined_at").Find(&members).Error; err != nil {
		return nil, err
	}
	return &GuildInfo{Guild: guild, Members: members}, nil
}

// List returns all guilds, newest first.
func (g *Guilds) List(ctx context.Context) ([]model.Guild, error) {
	var guilds []model.Guild
	err := g.db.WithContext(ctx).Order("id DESC").Find(&guilds).Error
	return guilds, err
}

func (g *Guilds) memberOf(ctx context.Context, charID int64) (*model.GuildMember, error) {
	var member model.GuildMember
	err := g.db.WithContext(ctx).Where("char_id = ?", charID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (g *Guilds) member(ctx context.Context, guildID, charID int64) (*model.GuildMember, error) {
	var member model.GuildMember
	err := g.db.WithContext(ctx).
		Where("guild_id = ? AND char_id = ?", guildID, charID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotInGuild
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (g *Guilds) removeMember(ctx context.Context, guildID, charID int64) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.GuildMember{},
			"guild_id = ? AND char_id = ?", guildID, charID).Error; err != nil {
			return err
		}
		return tx.Model(&model.Character{}).Where("id = ?", charID).
			Update("guild_id", nil).Error
	})
}
