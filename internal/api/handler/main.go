package handler

import (
	"errors"
	"net/http"

	"topia/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "🪙")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})
		routesAPIv1.Use(cors)

		routesGuild := routesAPIv1.Group("/guilds/:guild")

		w := groupWallet{cfg.Container}
		routesGuild.GET("/users/:user/wallets", w.GetWallets)
		routesGuild.GET("/users/:user/wallets/:currency", w.GetWallet)
		routesGuild.GET("/users/:user/ledger", w.GetLedger)
		routesGuild.POST("/users/:user/credit", w.Credit)
		routesGuild.POST("/users/:user/debit", w.Debit)
		routesGuild.POST("/users/:user/earn", w.Earn)
		routesGuild.POST("/transfers", w.Transfer)

		s := groupShop{cfg.Container}
		routesGuild.GET("/shop/items", s.ListItems)
		routesGuild.GET("/shop/items/:item", s.GetItem)
		routesGuild.POST("/shop/items", s.CreateItem)
		routesGuild.PUT("/shop/items/:item", s.UpdateItem)
		routesGuild.DELETE("/shop/items/:item", s.DeleteItem)
		routesGuild.POST("/shop/items/:item/purchase", s.Purchase)
		routesGuild.GET("/users/:user/purchases", s.GetPurchaseHistory)

		d := groupDaily{cfg.Container}
		routesGuild.GET("/users/:user/daily/:kind", d.GetStatus)
		routesGuild.POST("/users/:user/daily/:kind/claim", d.Claim)

		i := groupInventory{cfg.Container}
		routesGuild.GET("/users/:user/items", i.ListOwned)
		routesGuild.GET("/users/:user/tickets", i.ListExchangeableTickets)
		routesGuild.GET("/tickets", i.ListTickets)
		routesGuild.GET("/tickets/:ticket", i.GetTicket)
		routesGuild.POST("/tickets", i.CreateTicket)
		routesGuild.POST("/tickets/:ticket/exchange", i.Exchange)

		t := groupTreasury{cfg.Container}
		routesGuild.GET("/treasury/:currency", t.GetTreasury)
		routesGuild.GET("/treasury/:currency/monthly", t.GetMonthlyCollected)
		routesGuild.GET("/treasury/transactions", t.ListTransactions)
		routesGuild.POST("/treasury/:currency/deposit", t.Deposit)
		routesGuild.POST("/treasury/:currency/distribute", t.Distribute)

		st := groupSettings{cfg.Container}
		routesGuild.GET("/settings/market", st.GetMarketSettings)
		routesGuild.PUT("/settings/market", st.UpdateMarketSettings)
		routesGuild.GET("/settings/multipliers", st.GetMultiplierConfig)
		routesGuild.PUT("/settings/multipliers/category", st.SetCategoryMultiplier)
		routesGuild.PUT("/settings/multipliers/channel-category", st.SetChannelCategory)
		routesGuild.POST("/settings/multipliers/hot-times", st.AddHotTime)
		routesGuild.DELETE("/settings/multipliers/hot-times/:id", st.RemoveHotTime)
		routesGuild.PUT("/settings/multipliers/overrides", st.SetOverride)
		routesGuild.DELETE("/settings/multipliers/overrides", st.RemoveOverride)
		routesGuild.POST("/settings/multipliers/exclusions", st.AddExclusion)
		routesGuild.DELETE("/settings/multipliers/exclusions", st.RemoveExclusion)
		routesGuild.GET("/settings/retention", st.GetRetentionSettings)
		routesGuild.PUT("/settings/retention", st.UpdateRetentionSettings)
		routesGuild.POST("/members/:user/leave", st.MemberLeave)
		routesGuild.POST("/members/:user/join", st.MemberJoin)
	}

	return r, nil
}

// wrapServiceErr maps domain failures onto response categories. Unknown
// errors stay internal.
func wrapServiceErr(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrTicketNotFound),
		errors.Is(err, services.ErrRoleOptionNotFound),
		errors.Is(err, services.ErrItemNotOwned):
		return errorx.Wrap(err, errorx.NotExist)
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidCurrency),
		errors.Is(err, services.ErrSelfTransfer),
		errors.Is(err, services.ErrItemDisabled),
		errors.Is(err, services.ErrItemExpired),
		errors.Is(err, services.ErrOutOfStock),
		errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrInsufficientQuantity),
		errors.Is(err, services.ErrPurchaseLimit),
		errors.Is(err, services.ErrAlreadyClaimed),
		errors.Is(err, services.ErrExcludedChannel),
		errors.Is(err, services.ErrExcludedRole):
		return errorx.Wrap(err, errorx.Invalid)
	case errors.Is(err, services.ErrPurchaseLock),
		errors.Is(err, services.ErrExchangeLock),
		errors.Is(err, services.ErrClaimLock),
		errors.Is(err, services.ErrTransferLock):
		return errorx.Wrap(err, errorx.RateLimiting)
	default:
		return errorx.Wrap(err, errorx.Service)
	}
}
