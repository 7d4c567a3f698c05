package handler

import (
	"strconv"

	"topia/internal/interfaces"
	"topia/internal/models"
	"topia/internal/services"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupShop struct {
	container *do.Injector
}

func (gr *groupShop) ListItems(c echo.Context) error {
	ctx := c.Request().Context()

	serviceShop, err := do.Invoke[*services.ServiceShop](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	enabledOnly := c.QueryParam("all") != "true"
	items, err := serviceShop.ListItems(ctx, c.Param("guild"), enabledOnly)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, items, nil)
}

func (gr *groupShop) GetItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := strconv.ParseInt(c.Param("item"), 10, 64)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceShop, err := do.Invoke[*services.ServiceShop](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	item, err := serviceShop.GetItem(ctx, c.Param("guild"), itemID)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, item, nil)
}

func (gr *groupShop) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()

	var item models.ShopItem
	if err := c.Bind(&item); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}
	item.GuildID = c.Param("guild")

	serviceShop, err := do.Invoke[*services.ServiceShop](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	created, err := serviceShop.CreateItem(ctx, &item)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, created, nil)
}

func (gr *groupShop) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := strconv.ParseInt(c.Param("item"), 10, 64)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	var item models.ShopItem
	if err := c.Bind(&item); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}
	item.ID = itemID
	item.GuildID = c.Param("guild")

	serviceShop, err := do.Invoke[*services.ServiceShop](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	updated, err := serviceShop.UpdateItem(ctx, &item)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, updated, nil)
}

func (gr *groupShop) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := strconv.ParseInt(c.Param("item"), 10, 64)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceShop, err := do.Invoke[*services.ServiceShop](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceShop.DeleteItem(ctx, c.Param("guild"), itemID)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, nil, nil)
}

func (gr *groupShop) Purchase(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := strconv.ParseInt(c.Param("item"), 10, 64)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	var payload struct {
		UserID string `json:"user_id"`
	}
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	guildID := c.Param("guild")

	rateLimiter, err := do.Invoke[interfaces.Limiter](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}
	err = rateLimiter.Allow(ctx, services.LimitKeyPurchase(guildID, payload.UserID), redis_rate.PerMinute(services.PURCHASE_RATE_LIMIT_PER_MINUTE))
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.RateLimiting))
	}

	serviceShop, err := do.Invoke[*services.ServiceShop](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceShop.Purchase(ctx, guildID, payload.UserID, itemID)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupShop) GetPurchaseHistory(c echo.Context) error {
	ctx := c.Request().Context()

	var query struct {
		Limit  int `query:"limit"`
		Offset int `query:"offset"`
	}
	if err := c.Bind(&query); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceShop, err := do.Invoke[*services.ServiceShop](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	records, err := serviceShop.GetPurchaseHistory(ctx, c.Param("guild"), c.Param("user"), query.Limit, query.Offset)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, records, nil)
}
