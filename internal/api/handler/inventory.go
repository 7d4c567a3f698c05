package handler

import (
	"strconv"

	"topia/internal/models"
	"topia/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupInventory struct {
	container *do.Injector
}

func (gr *groupInventory) ListOwned(c echo.Context) error {
	ctx := c.Request().Context()

	serviceInventory, err := do.Invoke[*services.ServiceInventory](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	owned, err := serviceInventory.ListOwned(ctx, c.Param("guild"), c.Param("user"))
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, owned, nil)
}

func (gr *groupInventory) ListTickets(c echo.Context) error {
	ctx := c.Request().Context()

	serviceInventory, err := do.Invoke[*services.ServiceInventory](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	tickets, err := serviceInventory.ListTickets(ctx, c.Param("guild"))
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, tickets, nil)
}

func (gr *groupInventory) ListExchangeableTickets(c echo.Context) error {
	ctx := c.Request().Context()

	serviceInventory, err := do.Invoke[*services.ServiceInventory](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	tickets, err := serviceInventory.ListExchangeableTickets(ctx, c.Param("guild"), c.Param("user"))
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, tickets, nil)
}

func (gr *groupInventory) GetTicket(c echo.Context) error {
	ctx := c.Request().Context()

	ticketID, err := strconv.ParseInt(c.Param("ticket"), 10, 64)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceInventory, err := do.Invoke[*services.ServiceInventory](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ticket, err := serviceInventory.GetTicket(ctx, c.Param("guild"), ticketID)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, ticket, nil)
}

func (gr *groupInventory) CreateTicket(c echo.Context) error {
	ctx := c.Request().Context()

	var ticket models.RoleTicket
	if err := c.Bind(&ticket); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}
	ticket.GuildID = c.Param("guild")

	serviceInventory, err := do.Invoke[*services.ServiceInventory](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	created, err := serviceInventory.CreateTicket(ctx, &ticket)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, created, nil)
}

func (gr *groupInventory) Exchange(c echo.Context) error {
	ctx := c.Request().Context()

	ticketID, err := strconv.ParseInt(c.Param("ticket"), 10, 64)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	var payload struct {
		UserID   string `json:"user_id"`
		OptionID int64  `json:"option_id"`
	}
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceInventory, err := do.Invoke[*services.ServiceInventory](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceInventory.Exchange(ctx, c.Param("guild"), payload.UserID, ticketID, payload.OptionID)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, result, nil)
}

type groupDaily struct {
	container *do.Injector
}

func (gr *groupDaily) GetStatus(c echo.Context) error {
	ctx := c.Request().Context()

	serviceDailyReward, err := do.Invoke[*services.ServiceDailyReward](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	reward, claimable, err := serviceDailyReward.GetStatus(ctx, c.Param("guild"), c.Param("user"), c.Param("kind"))
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, map[string]any{
		"reward":    reward,
		"claimable": claimable,
	}, nil)
}

func (gr *groupDaily) Claim(c echo.Context) error {
	ctx := c.Request().Context()

	serviceDailyReward, err := do.Invoke[*services.ServiceDailyReward](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceDailyReward.Claim(ctx, c.Param("guild"), c.Param("user"), c.Param("kind"))
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, result, nil)
}
