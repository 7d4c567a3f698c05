package services

import (
	"context"
	"log"
)

// RoleManagerLog records role changes to the log only. Deployments wire a
// real platform adapter in its place; the engine's state machine does not
// depend on one being present.
type RoleManagerLog struct{}

func NewRoleManagerLog() *RoleManagerLog {
	return &RoleManagerLog{}
}

func (m *RoleManagerLog) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	log.Println("grant role", guildID, userID, roleID)
	return nil
}

func (m *RoleManagerLog) RevokeRole(ctx context.Context, guildID, userID, roleID string) error {
	log.Println("revoke role", guildID, userID, roleID)
	return nil
}
