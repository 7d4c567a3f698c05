package models

import (
	"testing"
	"time"
)

func TestRoleTicketIsPeriod(t *testing.T) {
	if (&RoleTicket{ConsumeQuantity: 1}).IsPeriod() {
		t.Fatalf("consumable ticket should not be period-based")
	}
	if !(&RoleTicket{PeriodDays: 7}).IsPeriod() {
		t.Fatalf("ticket with period days should be period-based")
	}
}

func TestRoleEffectExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	itemExpiry := now.AddDate(0, 0, 30)

	period := &RoleTicket{PeriodDays: 7}
	got := period.RoleEffectExpiry(now, &itemExpiry)
	if got == nil || !got.Equal(now.AddDate(0, 0, 7)) {
		t.Fatalf("period ticket should expire its effect after the period, got %v", got)
	}

	consumable := &RoleTicket{ConsumeQuantity: 1}
	got = consumable.RoleEffectExpiry(now, &itemExpiry)
	if got == nil || !got.Equal(itemExpiry) {
		t.Fatalf("consumable ticket effect should follow the entitlement expiry, got %v", got)
	}

	if consumable.RoleEffectExpiry(now, nil) != nil {
		t.Fatalf("consumable ticket on a permanent item should grant without expiry")
	}
}

func TestRoleTicketOption(t *testing.T) {
	ticket := &RoleTicket{
		Options: []*TicketRoleOption{
			{ID: 1, RoleID: "role-a"},
			{ID: 2, RoleID: "role-b"},
		},
	}

	if opt := ticket.Option(2); opt == nil || opt.RoleID != "role-b" {
		t.Fatalf("expected option 2 with role-b, got %+v", opt)
	}
	if ticket.Option(99) != nil {
		t.Fatalf("unknown option id should return nil")
	}
}

func TestRevokeListFor(t *testing.T) {
	ticket := &RoleTicket{
		RemovePreviousRole: true,
		Options: []*TicketRoleOption{
			{ID: 1, RoleID: "role-a"},
			{ID: 2, RoleID: "role-b"},
			{ID: 3, RoleID: "role-c"},
		},
	}

	got := ticket.RevokeListFor("role-b")
	if len(got) != 2 || got[0] != "role-a" || got[1] != "role-c" {
		t.Fatalf("unexpected revoke list %v", got)
	}

	ticket.RemovePreviousRole = false
	if got := ticket.RevokeListFor("role-b"); got != nil {
		t.Fatalf("ticket that keeps previous roles should revoke nothing, got %v", got)
	}
}
