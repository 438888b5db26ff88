package app

import (
	"fmt"
	"strings"

	"github.com/m3rciful/reportbot/bots/placereport/i18n"
	coreconfig "github.com/m3rciful/reportbot/core/config"
	"github.com/m3rciful/reportbot/core/telegram/format"
)

// ReportConfig holds the presentation settings of the report bot.
type ReportConfig struct {
	// AdminLang is the language of admin notifications.
	AdminLang string `yaml:"admin_lang" envconfig:"REPORT_ADMIN_LANG"`
	// Markup is the output dialect: html or markdownv2.
	Markup string `yaml:"markup" envconfig:"REPORT_MARKUP"`
	// MapURL adds a link button to the welcome message when set.
	MapURL string `yaml:"map_url" envconfig:"REPORT_MAP_URL"`
	// MenuAfterReport re-attaches the map button to the acknowledgment.
	MenuAfterReport bool `yaml:"menu_after_report" envconfig:"REPORT_MENU_AFTER_REPORT"`
}

// Config is the full configuration of the report bot.
type Config struct {
	coreconfig.Config `yaml:",inline"`
	Report            ReportConfig `yaml:"report"`
}

// CoreConfig exposes the embedded core configuration to the runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// Mode returns the parsed markup dialect. Valid after Load.
func (c *Config) Mode() format.Mode {
	m, err := format.ParseMode(c.Report.Markup)
	if err != nil {
		return format.ModeHTML
	}
	return m
}

// Load reads the YAML file at path, overlays the environment and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.LoadInto(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates cfg and fills report defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}

	r := &cfg.Report
	r.AdminLang = strings.ToLower(strings.TrimSpace(r.AdminLang))
	if r.AdminLang == "" {
		r.AdminLang = string(i18n.RU)
	}
	if !i18n.Builtin().Supports(r.AdminLang) {
		return fmt.Errorf("report.admin_lang %q is not supported; allowed: %v", r.AdminLang, i18n.Builtin().Langs())
	}

	mode, err := format.ParseMode(r.Markup)
	if err != nil {
		return fmt.Errorf("report.markup: %w", err)
	}
	if mode == format.ModePlain {
		return fmt.Errorf("report.markup %q is not supported; allowed: html, markdownv2", r.Markup)
	}
	r.Markup = string(mode)
	r.MapURL = strings.TrimSpace(r.MapURL)
	return nil
}
