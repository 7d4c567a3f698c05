package services

import (
	"errors"
	"testing"
	"time"

	"topia/internal/models"
)

func testInput(channelID string, roleIDs []string, eventType string, at time.Time) MultiplierInput {
	return MultiplierInput{
		GuildID:   "guild-1",
		ChannelID: channelID,
		RoleIDs:   roleIDs,
		EventType: eventType,
		At:        at,
	}
}

func TestResolveMultiplierDefaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	config := &MultiplierConfig{
		ChannelCategories: []*models.ChannelCategoryConfig{
			{ChannelID: "music-ch", Category: models.CATEGORY_MUSIC},
			{ChannelID: "game-ch", Category: models.CATEGORY_GAME},
		},
	}

	got, err := ResolveMultiplier(testInput("music-ch", nil, models.EVENT_TEXT, now), config)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1.5 {
		t.Fatalf("music category default should be 1.5, got %v", got)
	}

	got, err = ResolveMultiplier(testInput("unknown-ch", nil, models.EVENT_TEXT, now), config)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1.0 {
		t.Fatalf("uncategorized channel should fall back to 1.0, got %v", got)
	}
}

func TestResolveMultiplierCategoryOverride(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	config := &MultiplierConfig{
		ChannelCategories: []*models.ChannelCategoryConfig{
			{ChannelID: "game-ch", Category: models.CATEGORY_GAME},
		},
		CategoryMultipliers: []*models.CategoryMultiplier{
			{Category: models.CATEGORY_GAME, Multiplier: 2.5},
		},
	}

	got, err := ResolveMultiplier(testInput("game-ch", nil, models.EVENT_TEXT, now), config)
	if err != nil {
		t.Fatal(err)
	}
	if got != 2.5 {
		t.Fatalf("guild category override should replace the default, got %v", got)
	}
}

func TestResolveMultiplierChannelOverride(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	config := &MultiplierConfig{
		ChannelCategories: []*models.ChannelCategoryConfig{
			{ChannelID: "music-ch", Category: models.CATEGORY_MUSIC},
		},
		Overrides: []*models.MultiplierOverride{
			{TargetType: models.TARGET_CHANNEL, TargetID: "music-ch", Multiplier: 0.5},
		},
	}

	got, err := ResolveMultiplier(testInput("music-ch", nil, models.EVENT_TEXT, now), config)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0.5 {
		t.Fatalf("channel override should replace the category result, got %v", got)
	}
}

func TestResolveMultiplierBestRoleWins(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	config := &MultiplierConfig{
		Overrides: []*models.MultiplierOverride{
			{TargetType: models.TARGET_ROLE, TargetID: "role-a", Multiplier: 1.5},
			{TargetType: models.TARGET_ROLE, TargetID: "role-b", Multiplier: 3.0},
			{TargetType: models.TARGET_ROLE, TargetID: "role-c", Multiplier: 2.0},
		},
	}

	got, err := ResolveMultiplier(testInput("ch-1", []string{"role-a", "role-b"}, models.EVENT_TEXT, now), config)
	if err != nil {
		t.Fatal(err)
	}
	if got != 3.0 {
		t.Fatalf("the highest matching role override should win, got %v", got)
	}
}

func TestResolveMultiplierFullPipeline(t *testing.T) {
	now := time.Date(2025, 6, 1, 20, 30, 0, 0, time.UTC)
	config := &MultiplierConfig{
		ChannelCategories: []*models.ChannelCategoryConfig{
			{ChannelID: "music-ch", Category: models.CATEGORY_MUSIC},
		},
		Overrides: []*models.MultiplierOverride{
			{TargetType: models.TARGET_CHANNEL, TargetID: "music-ch", Multiplier: 2.0},
			{TargetType: models.TARGET_ROLE, TargetID: "vip", Multiplier: 3.0},
		},
		HotTimes: []*models.HotTime{
			{EventType: models.EVENT_TEXT, StartTime: "20:00", EndTime: "22:00", Multiplier: 2.0, Enabled: true},
		},
	}

	got, err := ResolveMultiplier(testInput("music-ch", []string{"vip"}, models.EVENT_TEXT, now), config)
	if err != nil {
		t.Fatal(err)
	}
	if got != 6.0 {
		t.Fatalf("role override times hot time should give 6.0, got %v", got)
	}
}

func TestResolveMultiplierExclusions(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	config := &MultiplierConfig{
		Exclusions: []*models.CurrencyExclusion{
			{TargetType: models.TARGET_CHANNEL, TargetID: "afk-ch"},
			{TargetType: models.TARGET_ROLE, TargetID: "muted"},
		},
	}

	_, err := ResolveMultiplier(testInput("afk-ch", nil, models.EVENT_TEXT, now), config)
	if !errors.Is(err, ErrExcludedChannel) {
		t.Fatalf("expected ErrExcludedChannel, got %v", err)
	}

	_, err = ResolveMultiplier(testInput("ch-1", []string{"muted"}, models.EVENT_TEXT, now), config)
	if !errors.Is(err, ErrExcludedRole) {
		t.Fatalf("expected ErrExcludedRole, got %v", err)
	}
}

func TestResolveMultiplierHotTimeOutsideWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	config := &MultiplierConfig{
		HotTimes: []*models.HotTime{
			{EventType: models.EVENT_TEXT, StartTime: "20:00", EndTime: "22:00", Multiplier: 2.0, Enabled: true},
		},
	}

	got, err := ResolveMultiplier(testInput("ch-1", nil, models.EVENT_TEXT, now), config)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1.0 {
		t.Fatalf("hot time outside its window should not change the result, got %v", got)
	}
}
