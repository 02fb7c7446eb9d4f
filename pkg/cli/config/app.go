package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	domainConfig "github.com/commguard/cerberus/pkg/domain/model/config"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Duration is a time.Duration that unmarshals from a TOML string like
// "6h" or "30s"
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return goerr.Wrap(ErrInvalidDelay, err.Error(), goerr.V("value", string(text)))
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// AppConfig is the optional TOML configuration file: role names, ticket
// lifecycle settings, and the FAQ embed content. Anything left unset
// falls back to the built-in defaults.
type AppConfig struct {
	path string

	Roles  RolesSection  `toml:"roles"`
	Ticket TicketSection `toml:"ticket"`
	FAQ    FAQSection    `toml:"faq"`
}

// RolesSection configures the role names driving both subsystems
type RolesSection struct {
	Prospect       string `toml:"prospect"`
	InviterPrefix  string `toml:"inviter_prefix"`
	VanitySentinel string `toml:"vanity_sentinel"`
}

// TicketSection configures the ticket lifecycle delays and messages.
// In bump_message the literal token {role} stands for a mention of the
// prospect role.
type TicketSection struct {
	IntroDelay Duration `toml:"intro_delay"`
	BumpDelay  Duration `toml:"bump_delay"`
	CloseDelay Duration `toml:"close_delay"`
	GraceDelay Duration `toml:"grace_delay"`

	IntroMessage string `toml:"intro_message"`
	BumpMessage  string `toml:"bump_message"`
	CloseMessage string `toml:"close_message"`
}

// FAQSection configures the FAQ embed
type FAQSection struct {
	Title   string          `toml:"title"`
	Color   string          `toml:"color"`
	Entries []FAQEntryEntry `toml:"entry"`
}

// FAQEntryEntry is one question/answer pair
type FAQEntryEntry struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

// Flags returns CLI flags for the app configuration file
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to the TOML configuration file (optional)",
			Sources:     cli.EnvVars("CERBERUS_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Validate checks the loaded configuration
func (a *AppConfig) Validate() error {
	for section, delay := range map[string]Duration{
		"intro_delay": a.Ticket.IntroDelay,
		"bump_delay":  a.Ticket.BumpDelay,
		"close_delay": a.Ticket.CloseDelay,
		"grace_delay": a.Ticket.GraceDelay,
	} {
		if delay < 0 {
			return goerr.Wrap(ErrInvalidDelay, "delay must not be negative",
				goerr.V(SectionKey, section), goerr.V("value", time.Duration(delay).String()))
		}
	}

	if a.FAQ.Color != "" {
		if _, ok := parseHexColor(a.FAQ.Color); !ok {
			return goerr.Wrap(ErrInvalidColor, "FAQ color must be a hex RGB value",
				goerr.V("value", a.FAQ.Color))
		}
	}

	for i, entry := range a.FAQ.Entries {
		if entry.Name == "" {
			return goerr.Wrap(ErrMissingName, "FAQ entry has no name", goerr.V(EntryIndexKey, i))
		}
		if entry.Value == "" {
			return goerr.Wrap(ErrMissingValue, "FAQ entry has no value", goerr.V(EntryIndexKey, i))
		}
	}

	return nil
}

// Configure loads the configuration file (when a path is set),
// validates it, and converts it into the domain configuration with
// defaults filled in.
func (a *AppConfig) Configure() (*domainConfig.RoleConfig, *domainConfig.TicketConfig, *domainConfig.FAQConfig, error) {
	if a.path != "" {
		// #nosec G304 - path is expected to be provided by CLI argument
		data, err := os.ReadFile(a.path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil, nil, goerr.Wrap(ErrConfigNotFound, a.path, goerr.V(ConfigPathKey, a.path))
			}
			return nil, nil, nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, a.path))
		}

		if err := toml.Unmarshal(data, a); err != nil {
			return nil, nil, nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, a.path))
		}
	}

	if err := a.Validate(); err != nil {
		return nil, nil, nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, a.path))
	}

	return a.toRoleConfig(), a.toTicketConfig(), a.toFAQConfig(), nil
}

func (a *AppConfig) toRoleConfig() *domainConfig.RoleConfig {
	cfg := domainConfig.DefaultRoleConfig()
	if a.Roles.Prospect != "" {
		cfg.Prospect = a.Roles.Prospect
	}
	if a.Roles.InviterPrefix != "" {
		cfg.InviterPrefix = a.Roles.InviterPrefix
	}
	if a.Roles.VanitySentinel != "" {
		cfg.VanitySentinel = a.Roles.VanitySentinel
	}
	return cfg
}

func (a *AppConfig) toTicketConfig() *domainConfig.TicketConfig {
	cfg := domainConfig.DefaultTicketConfig()
	if a.Ticket.IntroDelay > 0 {
		cfg.IntroDelay = time.Duration(a.Ticket.IntroDelay)
	}
	if a.Ticket.BumpDelay > 0 {
		cfg.BumpDelay = time.Duration(a.Ticket.BumpDelay)
	}
	if a.Ticket.CloseDelay > 0 {
		cfg.CloseDelay = time.Duration(a.Ticket.CloseDelay)
	}
	if a.Ticket.GraceDelay > 0 {
		cfg.GraceDelay = time.Duration(a.Ticket.GraceDelay)
	}
	if a.Ticket.IntroMessage != "" {
		cfg.IntroMessage = a.Ticket.IntroMessage
	}
	if a.Ticket.BumpMessage != "" {
		cfg.BumpMessage = a.Ticket.BumpMessage
	}
	if a.Ticket.CloseMessage != "" {
		cfg.CloseMessage = a.Ticket.CloseMessage
	}
	return cfg
}

func (a *AppConfig) toFAQConfig() *domainConfig.FAQConfig {
	cfg := &domainConfig.FAQConfig{
		Title: "📌 FAQ",
		Color: 0x014bac,
	}
	if a.FAQ.Title != "" {
		cfg.Title = a.FAQ.Title
	}
	if c, ok := parseHexColor(a.FAQ.Color); ok {
		cfg.Color = c
	}
	for _, entry := range a.FAQ.Entries {
		cfg.Entries = append(cfg.Entries, domainConfig.FAQEntry{
			Name:  entry.Name,
			Value: entry.Value,
		})
	}
	return cfg
}

func parseHexColor(s string) (int, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return 0, false
	}

	c, err := strconv.ParseInt(s, 16, 32)
	if err != nil {
		return 0, false
	}
	return int(c), true
}
