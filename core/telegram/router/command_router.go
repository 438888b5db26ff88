package router

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/reportbot/core/logger"
	tg "github.com/m3rciful/reportbot/core/telegram"
	"github.com/m3rciful/reportbot/core/telegram/commands"
)

// CommandRoutes returns one route per command and alias, in name order. Every
// route logs a handler summary under the canonical command name.
func CommandRoutes(reg *tg.Registry) []tg.Route {
	if reg == nil {
		return nil
	}
	cmds := reg.Commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	var routes []tg.Route
	for _, name := range names {
		h := summarized(normalizeHandlerName(name), cmds[name])
		routes = append(routes, tg.Route{Endpoint: name, Handler: h})
		for _, alias := range cmds[name].Aliases {
			if alias = strings.TrimSpace(alias); alias == "" {
				continue
			}
			if !strings.HasPrefix(alias, "/") {
				alias = "/" + alias
			}
			routes = append(routes, tg.Route{Endpoint: strings.ToLower(alias), Handler: h})
		}
	}

	logger.LogEvent(context.Background(), logger.TWire, slog.LevelInfo, "routes.commands",
		slog.String("status", "ok"),
		slog.Int("commands", len(cmds)),
		slog.Int("routes", len(routes)),
		slog.Int("callbacks", len(reg.CallbackKeys())),
	)
	return routes
}

func summarized(name string, cmd commands.Command) tele.HandlerFunc {
	return func(c tele.Context) error {
		return handleWithSummary(c, name, time.Now(), func() error { return cmd.Handler(c) })
	}
}
