package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/commguard/cerberus/pkg/cli/config"
	domainConfig "github.com/commguard/cerberus/pkg/domain/model/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(content), 0644)
	gt.NoError(t, err).Required()
	return path
}

func TestAppConfig_Configure(t *testing.T) {
	t.Run("no config file yields defaults", func(t *testing.T) {
		var appCfg config.AppConfig

		roleCfg, ticketCfg, faqCfg, err := appCfg.Configure()
		gt.NoError(t, err).Required()

		defaults := domainConfig.DefaultRoleConfig()
		gt.Value(t, roleCfg.Prospect).Equal(defaults.Prospect)
		gt.Value(t, roleCfg.InviterPrefix).Equal(defaults.InviterPrefix)
		gt.Value(t, roleCfg.VanitySentinel).Equal(defaults.VanitySentinel)

		gt.Value(t, ticketCfg.IntroDelay).Equal(6 * time.Second)
		gt.Value(t, ticketCfg.BumpDelay).Equal(6 * time.Hour)
		gt.Value(t, ticketCfg.CloseDelay).Equal(24 * time.Hour)
		gt.Value(t, ticketCfg.GraceDelay).Equal(3 * time.Second)

		gt.Array(t, faqCfg.Entries).Length(0)
	})

	t.Run("file values override defaults selectively", func(t *testing.T) {
		content := `
[roles]
prospect = "applicant"

[ticket]
bump_delay = "2h"
close_delay = "8h"
bump_message = "Please fill out the form, {role}!"

[faq]
title = "Common questions"
color = "#00b0f4"

[[faq.entry]]
name = "How long does review take?"
value = "Usually under a day."

[[faq.entry]]
name = "Can I reapply?"
value = "Yes, after a week."
`
		var appCfg config.AppConfig
		appCfg.SetPath(writeConfig(t, content))

		roleCfg, ticketCfg, faqCfg, err := appCfg.Configure()
		gt.NoError(t, err).Required()

		gt.Value(t, roleCfg.Prospect).Equal("applicant")
		// Unset values keep their defaults
		gt.Value(t, roleCfg.InviterPrefix).Equal("Invited by ")

		gt.Value(t, ticketCfg.BumpDelay).Equal(2 * time.Hour)
		gt.Value(t, ticketCfg.CloseDelay).Equal(8 * time.Hour)
		gt.Value(t, ticketCfg.IntroDelay).Equal(6 * time.Second)
		gt.S(t, ticketCfg.BumpMessage).Contains("fill out the form")

		gt.Value(t, faqCfg.Title).Equal("Common questions")
		gt.Number(t, faqCfg.Color).Equal(0x00b0f4)
		gt.Array(t, faqCfg.Entries).Length(2).Required()
		gt.Value(t, faqCfg.Entries[0].Name).Equal("How long does review take?")
	})

	t.Run("missing config file", func(t *testing.T) {
		var appCfg config.AppConfig
		appCfg.SetPath(filepath.Join(t.TempDir(), "missing.toml"))

		_, _, _, err := appCfg.Configure()
		gt.Value(t, err).NotNil()
		gt.Error(t, err).Is(config.ErrConfigNotFound)
	})

	t.Run("malformed delay", func(t *testing.T) {
		var appCfg config.AppConfig
		appCfg.SetPath(writeConfig(t, `
[ticket]
bump_delay = "soon"
`))

		_, _, _, err := appCfg.Configure()
		gt.Value(t, err).NotNil()
	})

	t.Run("negative delay is rejected", func(t *testing.T) {
		var appCfg config.AppConfig
		appCfg.SetPath(writeConfig(t, `
[ticket]
grace_delay = "-3s"
`))

		_, _, _, err := appCfg.Configure()
		gt.Value(t, err).NotNil()
		gt.Error(t, err).Is(config.ErrInvalidDelay)
	})

	t.Run("invalid FAQ color", func(t *testing.T) {
		var appCfg config.AppConfig
		appCfg.SetPath(writeConfig(t, `
[faq]
color = "blue"

[[faq.entry]]
name = "q"
value = "a"
`))

		_, _, _, err := appCfg.Configure()
		gt.Value(t, err).NotNil()
		gt.Error(t, err).Is(config.ErrInvalidColor)
	})

	t.Run("FAQ entry without name", func(t *testing.T) {
		var appCfg config.AppConfig
		appCfg.SetPath(writeConfig(t, `
[[faq.entry]]
value = "a"
`))

		_, _, _, err := appCfg.Configure()
		gt.Value(t, err).NotNil()
		gt.Error(t, err).Is(config.ErrMissingName)
	})

	t.Run("FAQ entry without value", func(t *testing.T) {
		var appCfg config.AppConfig
		appCfg.SetPath(writeConfig(t, `
[[faq.entry]]
name = "q"
`))

		_, _, _, err := appCfg.Configure()
		gt.Value(t, err).NotNil()
		gt.Error(t, err).Is(config.ErrMissingValue)
	})
}
