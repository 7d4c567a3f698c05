package services

import (
	"testing"
	"time"

	"topia/internal/models"
)

func TestFilterExchangeable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-1 * time.Hour)
	future := now.Add(24 * time.Hour)

	tickets := []*models.RoleTicket{
		{ID: 1, ShopItemID: 10, ConsumeQuantity: 1},
		{ID: 2, ShopItemID: 20, ConsumeQuantity: 3},
		{ID: 3, ShopItemID: 30, PeriodDays: 7},
		{ID: 4, ShopItemID: 40, ConsumeQuantity: 1},
		{ID: 5, ShopItemID: 50, ConsumeQuantity: 1},
	}
	items := []*models.UserItem{
		{ShopItemID: 10, Quantity: 2},                      // enough quantity
		{ShopItemID: 20, Quantity: 2},                      // below consume quantity
		{ShopItemID: 30, Quantity: 0, ExpiresAt: &future},  // period ticket, quantity irrelevant
		{ShopItemID: 40, Quantity: 5, ExpiresAt: &past},    // entitlement expired
	}

	got := filterExchangeable(tickets, items, now)

	ids := make([]int64, 0, len(got))
	for _, ticket := range got {
		ids = append(ids, ticket.ID)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Fatalf("expected tickets [1 3], got %v", ids)
	}
}

func TestFilterExchangeableNoItems(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tickets := []*models.RoleTicket{
		{ID: 1, ShopItemID: 10, ConsumeQuantity: 1},
	}

	got := filterExchangeable(tickets, nil, now)
	if len(got) != 0 {
		t.Fatalf("a user with no items has no exchangeable tickets, got %d", len(got))
	}
}
