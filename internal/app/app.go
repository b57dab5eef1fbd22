// Package app assembles the bot: configuration, storage, the customer and
// management machines, command/callback wiring and the runtime lifecycle.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/avigsen/estatebot/core/config"
	"github.com/avigsen/estatebot/core/logger"
	tg "github.com/avigsen/estatebot/core/telegram"
	"github.com/avigsen/estatebot/core/telegram/commands"
	"github.com/avigsen/estatebot/core/telegram/router"
	"github.com/avigsen/estatebot/internal/admin"
	"github.com/avigsen/estatebot/internal/notify"
	"github.com/avigsen/estatebot/internal/shop"
	"github.com/avigsen/estatebot/internal/storage"

	tele "gopkg.in/telebot.v4"
)

// Run starts the bot and blocks until ctx is cancelled or a fatal error occurs.
func Run(ctx context.Context, cfg *config.Config) error {
	store, err := storage.Connect(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.DB.Warn("db.close_failed", "error", err.Error())
		}
	}()

	rate := cfg.Shop.CzkRubRate
	notifier := notify.NewNotifier(store, rate)
	shopMachine := shop.NewMachine(store, shop.NewSessionStore(), rate, notifier)

	adminSessions := admin.NewStore(time.Duration(cfg.Shop.AdminSessionTTLSeconds) * time.Second)
	adminMachine := admin.NewMachine(store, adminSessions, rate,
		time.Duration(cfg.Shop.MenuReturnDelayMS)*time.Millisecond)

	reg := tg.NewRegistry()
	registerCommands(reg, shopMachine, adminMachine)
	registerShopCallbacks(reg, shopMachine)
	registerAdminCallbacks(reg, adminMachine)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		IsAdmin: cfg.IsAdmin,
		OnAdminReject: func(c tele.Context) error {
			return c.Send("This command is only available to administrators.")
		},
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{
		AdminPrefix: admin.Prefix,
		IsAdmin:     cfg.IsAdmin,
	}))
	routes = append(routes, router.MessageRoutes(router.MessageOptions{
		IsAdmin:  cfg.IsAdmin,
		Admin:    adminMachine,
		ShopText: shopMachine.HandleText,
		UnexpectedPhoto: func(c tele.Context) error {
			return c.Send("I was not expecting a photo. Use the menu buttons below.")
		},
	})...)

	return tg.RunTelegram(ctx, tg.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(cfg, nil),
		Routes:      routes,
		OnStart: func(_ context.Context, rt tg.Runtime) error {
			notifier.Bind(rt.Bot, rt.Dispatcher)
			adminSessions.StartSweeper(time.Duration(cfg.Shop.SweepIntervalSeconds) * time.Second)
			return nil
		},
		OnStop: func(_ context.Context, _ tg.Runtime) error {
			adminSessions.StopSweeper()
			return nil
		},
	})
}

func registerCommands(reg *tg.Registry, shopMachine *shop.Machine, adminMachine *admin.Machine) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     shopMachine.Start,
		Description: "Open the catalog",
	})
	reg.RegisterCommand("/admin", commands.Command{
		Handler:     adminMachine.Menu,
		Description: "Management menu",
		AdminOnly:   true,
	})
}

func registerShopCallbacks(reg *tg.Registry, m *shop.Machine) {
	cbs := map[string]tele.HandlerFunc{
		shop.CBMenu:       m.Menu,
		shop.CBCategories: m.Categories,
		shop.CBCategory:   m.Category,
		shop.CBListing:    m.Listing,
		shop.CBBuy:        m.Buy,
		shop.CBQty:        m.Quantity,
		shop.CBCart:       m.Cart,
		shop.CBCartClear:  m.CartClear,
		shop.CBCheckout:   m.Checkout,
		shop.CBPay:        m.Pay,
		shop.CBConfirm:    m.Confirm,
		shop.CBOperators:  m.Operators,
	}
	for key, h := range cbs {
		_ = reg.RegisterCallback(key, h)
	}
}

func registerAdminCallbacks(reg *tg.Registry, m *admin.Machine) {
	cbs := map[string]tele.HandlerFunc{
		admin.CBMenu:     m.MenuCB,
		admin.CBCancel:   m.Cancel,
		admin.CBCats:     m.Categories,
		admin.CBCatAdd:   m.CategoryAdd,
		admin.CBCat:      m.Category,
		admin.CBCatName:  m.CategoryRename,
		admin.CBCatFlip:  m.CategoryToggle,
		admin.CBUnitAdd:  m.UnitAdd,
		admin.CBUnit:     m.Unit,
		admin.CBUnitName: m.UnitRename,
		admin.CBUnitCost: m.UnitReprice,
		admin.CBUnitDesc: m.UnitRedescribe,
		admin.CBUnitFlip: m.UnitToggle,
		admin.CBUnitPic:  m.UnitPhoto,
		admin.CBOps:      m.Operators,
		admin.CBOpAdd:    m.OperatorAdd,
		admin.CBOp:       m.Operator,
		admin.CBOpName:   m.OperatorRename,
		admin.CBOpHandle: m.OperatorRehandle,
		admin.CBOpFlip:   m.OperatorToggle,
		admin.CBExport:   m.Export,
	}
	for key, h := range cbs {
		_ = reg.RegisterCallback(key, h)
	}
}
