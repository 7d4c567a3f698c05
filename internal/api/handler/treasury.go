package handler

import (
	"topia/internal/models"
	"topia/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupTreasury struct {
	container *do.Injector
}

func (gr *groupTreasury) GetTreasury(c echo.Context) error {
	ctx := c.Request().Context()

	serviceTreasury, err := do.Invoke[*services.ServiceTreasury](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	treasury, err := serviceTreasury.GetTreasury(ctx, c.Param("guild"), models.CurrencyKind(c.Param("currency")))
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, treasury, nil)
}

func (gr *groupTreasury) GetMonthlyCollected(c echo.Context) error {
	ctx := c.Request().Context()

	serviceTreasury, err := do.Invoke[*services.ServiceTreasury](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	collected, err := serviceTreasury.GetMonthlyCollected(ctx, c.Param("guild"), models.CurrencyKind(c.Param("currency")))
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, map[string]any{"collected": collected}, nil)
}

func (gr *groupTreasury) ListTransactions(c echo.Context) error {
	ctx := c.Request().Context()

	var query struct {
		Limit  int `query:"limit"`
		Offset int `query:"offset"`
	}
	if err := c.Bind(&query); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceTreasury, err := do.Invoke[*services.ServiceTreasury](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	entries, err := serviceTreasury.ListTransactions(ctx, c.Param("guild"), query.Limit, query.Offset)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, entries, nil)
}

func (gr *groupTreasury) Deposit(c echo.Context) error {
	ctx := c.Request().Context()

	var payload struct {
		Amount models.Amount `json:"amount"`
		Kind   string        `json:"kind"`
		Note   string        `json:"note"`
	}
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}
	if payload.Kind == "" {
		payload.Kind = models.TREASURY_TAX
	}

	serviceTreasury, err := do.Invoke[*services.ServiceTreasury](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	treasury, err := serviceTreasury.Deposit(ctx, c.Param("guild"), models.CurrencyKind(c.Param("currency")), payload.Amount, payload.Kind, payload.Note)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, treasury, nil)
}

func (gr *groupTreasury) Distribute(c echo.Context) error {
	ctx := c.Request().Context()

	var payload struct {
		ToUserID string        `json:"to_user_id"`
		Amount   models.Amount `json:"amount"`
		Note     string        `json:"note"`
	}
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceTreasury, err := do.Invoke[*services.ServiceTreasury](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	treasury, entry, err := serviceTreasury.Distribute(ctx, c.Param("guild"), payload.ToUserID, models.CurrencyKind(c.Param("currency")), payload.Amount, payload.Note)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, map[string]any{
		"treasury": treasury,
		"entry":    entry,
	}, nil)
}
