package handler

import (
	"topia/internal/interfaces"
	"topia/internal/models"
	"topia/internal/services"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupWallet struct {
	container *do.Injector
}

func (gr *groupWallet) GetWallets(c echo.Context) error {
	ctx := c.Request().Context()

	serviceWallet, err := do.Invoke[*services.ServiceWallet](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	wallets, err := serviceWallet.GetWallets(ctx, c.Param("guild"), c.Param("user"))
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, wallets, nil)
}

func (gr *groupWallet) GetWallet(c echo.Context) error {
	ctx := c.Request().Context()

	serviceWallet, err := do.Invoke[*services.ServiceWallet](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	wallet, err := serviceWallet.GetWallet(ctx, c.Param("guild"), c.Param("user"), models.CurrencyKind(c.Param("currency")))
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, wallet, nil)
}

func (gr *groupWallet) GetLedger(c echo.Context) error {
	ctx := c.Request().Context()

	var query struct {
		Limit  int `query:"limit"`
		Offset int `query:"offset"`
	}
	if err := c.Bind(&query); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceWallet, err := do.Invoke[*services.ServiceWallet](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	entries, err := serviceWallet.GetLedger(ctx, c.Param("guild"), c.Param("user"), query.Limit, query.Offset)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, entries, nil)
}

type amountPayload struct {
	Currency models.CurrencyKind `json:"currency"`
	Amount   models.Amount       `json:"amount"`
	Note     string              `json:"note"`
}

func (gr *groupWallet) Credit(c echo.Context) error {
	ctx := c.Request().Context()

	var payload amountPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceWallet, err := do.Invoke[*services.ServiceWallet](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	wallet, err := serviceWallet.Credit(ctx, c.Param("guild"), c.Param("user"), payload.Currency, payload.Amount, models.ENTRY_ADMIN, payload.Note)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, wallet, nil)
}

func (gr *groupWallet) Debit(c echo.Context) error {
	ctx := c.Request().Context()

	var payload amountPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceWallet, err := do.Invoke[*services.ServiceWallet](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	wallet, err := serviceWallet.Debit(ctx, c.Param("guild"), c.Param("user"), payload.Currency, payload.Amount, models.ENTRY_ADMIN, payload.Note)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, wallet, nil)
}

func (gr *groupWallet) Earn(c echo.Context) error {
	ctx := c.Request().Context()

	var payload struct {
		ChannelID  string              `json:"channel_id"`
		RoleIDs    []string            `json:"role_ids"`
		EventType  string              `json:"event_type"`
		Currency   models.CurrencyKind `json:"currency"`
		BaseAmount models.Amount       `json:"base_amount"`
		Note       string              `json:"note"`
	}
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceWallet, err := do.Invoke[*services.ServiceWallet](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	wallet, err := serviceWallet.Earn(ctx, services.EarnInput{
		GuildID:    c.Param("guild"),
		UserID:     c.Param("user"),
		ChannelID:  payload.ChannelID,
		RoleIDs:    payload.RoleIDs,
		EventType:  payload.EventType,
		Currency:   payload.Currency,
		BaseAmount: payload.BaseAmount,
		Note:       payload.Note,
	})
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, wallet, nil)
}

func (gr *groupWallet) Transfer(c echo.Context) error {
	ctx := c.Request().Context()

	var payload struct {
		FromUserID string              `json:"from_user_id"`
		ToUserID   string              `json:"to_user_id"`
		Currency   models.CurrencyKind `json:"currency"`
		Amount     models.Amount       `json:"amount"`
	}
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	guildID := c.Param("guild")

	rateLimiter, err := do.Invoke[interfaces.Limiter](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}
	err = rateLimiter.Allow(ctx, services.LimitKeyTransfer(guildID, payload.FromUserID), redis_rate.PerMinute(services.TRANSFER_RATE_LIMIT_PER_MINUTE))
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.RateLimiting))
	}

	serviceWallet, err := do.Invoke[*services.ServiceWallet](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceWallet.Transfer(ctx, guildID, payload.FromUserID, payload.ToUserID, payload.Currency, payload.Amount)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, nil, nil)
}
