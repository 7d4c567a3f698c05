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

type groupSettings struct {
	container *do.Injector
}

func (gr *groupSettings) GetMarketSettings(c echo.Context) error {
	ctx := c.Request().Context()

	serviceMarketSettings, err := do.Invoke[*services.ServiceMarketSettings](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	settings, err := serviceMarketSettings.GetSettings(ctx, c.Param("guild"))
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, settings, nil)
}

func (gr *groupSettings) UpdateMarketSettings(c echo.Context) error {
	ctx := c.Request().Context()

	var settings models.MarketSettings
	if err := c.Bind(&settings); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}
	settings.GuildID = c.Param("guild")

	serviceMarketSettings, err := do.Invoke[*services.ServiceMarketSettings](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceMarketSettings.UpdateSettings(ctx, &settings)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, settings, nil)
}

func (gr *groupSettings) GetMultiplierConfig(c echo.Context) error {
	ctx := c.Request().Context()

	serviceMultiplier, err := do.Invoke[*services.ServiceMultiplier](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	config, err := serviceMultiplier.GetConfig(ctx, c.Param("guild"))
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, config, nil)
}

func (gr *groupSettings) SetCategoryMultiplier(c echo.Context) error {
	ctx := c.Request().Context()

	var multiplier models.CategoryMultiplier
	if err := c.Bind(&multiplier); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}
	multiplier.GuildID = c.Param("guild")

	serviceMultiplier, err := do.Invoke[*services.ServiceMultiplier](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceMultiplier.SetCategoryMultiplier(ctx, &multiplier)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, multiplier, nil)
}

func (gr *groupSettings) SetChannelCategory(c echo.Context) error {
	ctx := c.Request().Context()

	var config models.ChannelCategoryConfig
	if err := c.Bind(&config); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}
	config.GuildID = c.Param("guild")

	serviceMultiplier, err := do.Invoke[*services.ServiceMultiplier](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceMultiplier.SetChannelCategory(ctx, &config)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, config, nil)
}

func (gr *groupSettings) AddHotTime(c echo.Context) error {
	ctx := c.Request().Context()

	var hotTime models.HotTime
	if err := c.Bind(&hotTime); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}
	hotTime.GuildID = c.Param("guild")

	serviceMultiplier, err := do.Invoke[*services.ServiceMultiplier](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	created, err := serviceMultiplier.AddHotTime(ctx, &hotTime)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, created, nil)
}

func (gr *groupSettings) RemoveHotTime(c echo.Context) error {
	ctx := c.Request().Context()

	hotTimeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceMultiplier, err := do.Invoke[*services.ServiceMultiplier](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceMultiplier.RemoveHotTime(ctx, c.Param("guild"), hotTimeID)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, nil, nil)
}

func (gr *groupSettings) SetOverride(c echo.Context) error {
	ctx := c.Request().Context()

	var override models.MultiplierOverride
	if err := c.Bind(&override); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}
	override.GuildID = c.Param("guild")

	serviceMultiplier, err := do.Invoke[*services.ServiceMultiplier](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceMultiplier.SetOverride(ctx, &override)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, override, nil)
}

func (gr *groupSettings) RemoveOverride(c echo.Context) error {
	ctx := c.Request().Context()

	serviceMultiplier, err := do.Invoke[*services.ServiceMultiplier](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceMultiplier.RemoveOverride(ctx, c.Param("guild"), c.QueryParam("target_type"), c.QueryParam("target_id"))
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, nil, nil)
}

func (gr *groupSettings) AddExclusion(c echo.Context) error {
	ctx := c.Request().Context()

	var exclusion models.CurrencyExclusion
	if err := c.Bind(&exclusion); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}
	exclusion.GuildID = c.Param("guild")

	serviceMultiplier, err := do.Invoke[*services.ServiceMultiplier](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceMultiplier.AddExclusion(ctx, &exclusion)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, exclusion, nil)
}

func (gr *groupSettings) RemoveExclusion(c echo.Context) error {
	ctx := c.Request().Context()

	serviceMultiplier, err := do.Invoke[*services.ServiceMultiplier](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceMultiplier.RemoveExclusion(ctx, c.Param("guild"), c.QueryParam("target_type"), c.QueryParam("target_id"))
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, nil, nil)
}

func (gr *groupSettings) GetRetentionSettings(c echo.Context) error {
	ctx := c.Request().Context()

	serviceRetention, err := do.Invoke[*services.ServiceRetention](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	settings, err := serviceRetention.GetSettings(ctx, c.Param("guild"))
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, settings, nil)
}

func (gr *groupSettings) UpdateRetentionSettings(c echo.Context) error {
	ctx := c.Request().Context()

	var settings models.DataRetentionSettings
	if err := c.Bind(&settings); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}
	settings.GuildID = c.Param("guild")

	serviceRetention, err := do.Invoke[*services.ServiceRetention](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceRetention.UpdateSettings(ctx, &settings)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, settings, nil)
}

func (gr *groupSettings) MemberLeave(c echo.Context) error {
	ctx := c.Request().Context()

	serviceRetention, err := do.Invoke[*services.ServiceRetention](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceRetention.OnMemberLeave(ctx, c.Param("guild"), c.Param("user"))
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, nil, nil)
}

func (gr *groupSettings) MemberJoin(c echo.Context) error {
	ctx := c.Request().Context()

	serviceRetention, err := do.Invoke[*services.ServiceRetention](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceRetention.OnMemberJoin(ctx, c.Param("guild"), c.Param("user"))
	if err != nil {
		return httpx.RestAbort(c, nil, wrapServiceErr(err))
	}

	return httpx.RestAbort(c, nil, nil)
}
