// Package app wires the report bot into the core runner: configuration,
// session store, handlers and side services.
package app

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/reportbot/bots/placereport/handlers"
	"github.com/m3rciful/reportbot/bots/placereport/i18n"
	"github.com/m3rciful/reportbot/bots/placereport/report"
	"github.com/m3rciful/reportbot/core/bootstrap"
	corecmd "github.com/m3rciful/reportbot/core/cmd"
	"github.com/m3rciful/reportbot/core/health"
	"github.com/m3rciful/reportbot/core/metrics"
	tg "github.com/m3rciful/reportbot/core/telegram"
	"github.com/m3rciful/reportbot/core/telegram/format"
	tghelpers "github.com/m3rciful/reportbot/core/telegram/helpers"
	"github.com/m3rciful/reportbot/core/telegram/router"
	"github.com/m3rciful/reportbot/core/telegram/state"
)

const storeShards = 32

// App is the bootstrapped report bot.
type App struct {
	cfg     *Config
	metrics *metrics.Metrics
	store   state.Store[report.Session]
	texts   i18n.Resolver
}

// LoadConfig adapts Load to the runner.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	return Load(path)
}

// Bootstrap adapts New to the runner.
func Bootstrap(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	c, ok := cfg.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", cfg)
	}
	return New(c, bootstrap.Options{})
}

// New initializes shared infrastructure and the session store. opts.Config is
// always taken from cfg.
func New(cfg *Config, opts bootstrap.Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	opts.Config = &cfg.Config
	res, err := bootstrap.Run(opts)
	if err != nil {
		return nil, err
	}

	store := state.NewShardedMemoryStore[report.Session](storeShards)
	res.Metrics.TrackGauge("sessions_active", "Open report sessions.", func() float64 {
		return float64(store.Len())
	})

	return &App{
		cfg:     cfg,
		metrics: res.Metrics,
		store:   store,
		texts:   i18n.Builtin(),
	}, nil
}

// Metrics returns the registry shared by the bot and the health server.
func (a *App) Metrics() *metrics.Metrics { return a.metrics }

// Store returns the session store.
func (a *App) Store() state.Store[report.Session] { return a.store }

// Machine builds the session machine delivering admin notifications through send.
func (a *App) Machine(send report.Sender) *report.Machine {
	render := report.NewRenderer(a.texts, a.cfg.Mode(), a.cfg.Report.AdminLang)
	dispatcher := report.NewAdminDispatcher(send, a.cfg.Telegram.AdminID, render)
	return report.NewMachine(a.store, render, dispatcher)
}

// Handlers builds the telebot handlers around machine.
func (a *App) Handlers(machine *report.Machine) *handlers.Handlers {
	return handlers.New(machine, a.metrics, handlers.Options{
		MapURL:         a.cfg.Report.MapURL,
		MapAfterReport: a.cfg.Report.MenuAfterReport,
		Texts:          a.texts,
	})
}

// TelegramRunOptions implements corecmd.TelegramApp.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()
	var regErr error

	routes := func(bot *tele.Bot, _ tg.Runtime) []tg.Route {
		send := report.SenderFunc(func(ctx context.Context, to int64, text string, mode format.Mode) error {
			return tghelpers.SendTo(ctx, bot, to, text, mode)
		})
		if err := a.Handlers(a.Machine(send)).Register(reg); err != nil {
			regErr = err
			return nil
		}
		out := router.CommandRoutes(reg)
		out = append(out, router.CallbackRoute(reg, router.CallbackOptions{}))
		return append(out, router.TextRoutes(reg, router.TextOptions{})...)
	}

	return tg.RunOptions{
		Config:      &a.cfg.Config,
		Registry:    reg,
		Metrics:     a.metrics,
		Middlewares: tg.DefaultMiddlewares(a.metrics),
		Routes:      routes,
		OnStart: func(context.Context, tg.Runtime) error {
			return regErr
		},
	}, nil
}

// Services implements corecmd.ServiceApp.
func (a *App) Services() []corecmd.Service {
	if a.cfg.Health.Listen == "" {
		return nil
	}
	srv := health.NewServer(a.cfg.Health.Listen, a.metrics.Registry)
	return []corecmd.Service{{Name: "health", Run: srv.Run}}
}

var (
	_ corecmd.ConfigCarrier = (*Config)(nil)
	_ corecmd.TelegramApp   = (*App)(nil)
	_ corecmd.ServiceApp    = (*App)(nil)
)
