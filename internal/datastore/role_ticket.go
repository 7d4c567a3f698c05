package datastore

import (
	"context"

	"github.com/uptrace/bun"
	"topia/internal/models"
)

func CreateTableRoleTicket(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.RoleTicket)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.TicketRoleOption)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().
		Model((*models.TicketRoleOption)(nil)).
		Index("index_ticket_role_option_ticket").
		IfNotExists().
		Column("ticket_id").
		Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

// FindTicketWithOptions loads a ticket and its role options.
func FindTicketWithOptions(ctx context.Context, db bun.IDB, guildID string, ticketID int64) (*models.RoleTicket, error) {
	var ticket models.RoleTicket
	err := db.NewSelect().
		Model(&ticket).
		Where("id = ?", ticketID).
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	err = db.NewSelect().
		Model(&ticket.Options).
		Where("ticket_id = ?", ticket.ID).
		Order("display_order ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func ListEnabledTickets(ctx context.Context, db bun.IDB, guildID string) ([]*models.RoleTicket, error) {
	var tickets []*models.RoleTicket
	err := db.NewSelect().
		Model(&tickets).
		Where("guild_id = ?", guildID).
		Where("enabled = TRUE").
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func CreateRoleTicket(ctx context.Context, db bun.IDB, ticket *models.RoleTicket) (*models.RoleTicket, error) {
	_, err := db.NewInsert().Model(ticket).Exec(ctx)
	if err != nil {
		return nil, err
	}
	for _, option := range ticket.Options {
		option.TicketID = ticket.ID
	}
	if len(ticket.Options) > 0 {
		_, err = db.NewInsert().Model(&ticket.Options).Exec(ctx)
		if err != nil {
			return nil, err
		}
	}
	return ticket, nil
}
