package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"pulse/internal/domain"
	"pulse/internal/ports"
)

// NameCache resolves user ids to display names for the duration of a single
// report run. A fresh cache is built per run and discarded with it, so stale
// names never leak across runs. Lookups that fail fall back to a placeholder
// instead of aborting the run.
type NameCache struct {
	directory ports.UserDirectory
	logger    *slog.Logger
	names     map[string]string
	profiles  map[string]domain.UserProfile
}

// NewNameCache builds an empty cache bound to one run.
func NewNameCache(directory ports.UserDirectory, logger *slog.Logger) *NameCache {
	return &NameCache{
		directory: directory,
		logger:    logger,
		names:     map[string]string{},
		profiles:  map[string]domain.UserProfile{},
	}
}

// Resolve returns the display name for a user id, consulting the directory
// at most once per id per run.
func (c *NameCache) Resolve(ctx context.Context, userID string) string {
	if name, ok := c.names[userID]; ok {
		return name
	}

	profile, err := c.directory.ResolveUser(ctx, userID)
	if err != nil {
		c.logger.Warn("user lookup failed", "user_id", userID, "error", err)
		name := "User " + userID
		c.names[userID] = name
		return name
	}

	c.profiles[userID] = profile
	name := displayName(profile)
	c.names[userID] = name
	return name
}

// Profile returns the cached profile for a user id, resolving it first when
// needed. ok is false when the directory lookup failed.
func (c *NameCache) Profile(ctx context.Context, userID string) (domain.UserProfile, bool) {
	if profile, ok := c.profiles[userID]; ok {
		return profile, true
	}
	if _, seen := c.names[userID]; seen {
		// Resolved before and the lookup failed then.
		return domain.UserProfile{}, false
	}
	c.Resolve(ctx, userID)
	profile, ok := c.profiles[userID]
	return profile, ok
}

// displayName picks the human name for a profile. Bots prefer their display
// name over the real name; everyone else reads "Real Name (@username)".
func displayName(p domain.UserProfile) string {
	if p.IsBot {
		switch {
		case p.DisplayName != "":
			return p.DisplayName
		case p.RealName != "":
			return p.RealName
		default:
			return "Bot"
		}
	}

	name := p.RealName
	if name == "" {
		name = p.Username
	}
	if name == "" {
		name = p.ID
	}
	if p.Username != "" {
		return fmt.Sprintf("%s (@%s)", name, p.Username)
	}
	return name
}
