package discord

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// DefaultPanelColor is the embed color used when the panel input does
// not set one
const DefaultPanelColor = 0x00b0f4

// BuildPanelEmbed parses the panel mini-language into an embed. The
// first line is the command trigger and is skipped; each following line
// is a "key: value" directive:
//
//	title: <embed title>
//	color: <hex color, leading # optional>
//	name:  <starts a new field>
//	value: <appends a line to the current field>
//	enter: <n blank lines appended to the current field>
//
// Unknown directives are ignored. A field is emitted only when it has
// both a name and a value.
func BuildPanelEmbed(content string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Color: DefaultPanelColor}

	lines := strings.Split(content, "\n")
	if len(lines) <= 1 {
		return embed
	}

	var fields []*discordgo.MessageEmbedField
	current := &discordgo.MessageEmbedField{}

	flush := func() {
		if current.Name != "" && current.Value != "" {
			fields = append(fields, &discordgo.MessageEmbedField{
				Name:  current.Name,
				Value: current.Value,
			})
		}
	}

	for _, line := range lines[1:] {
		key, rest, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value := strings.TrimSpace(rest)

		switch key {
		case "title":
			embed.Title = value
		case "color":
			if c, ok := ParseHexColor(value); ok {
				embed.Color = c
			}
		case "name":
			flush()
			current = &discordgo.MessageEmbedField{Name: value}
		case "value":
			if current.Value != "" {
				current.Value += "\n"
			}
			current.Value += value
		case "enter":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				n = 1
			}
			current.Value += strings.Repeat("\n", n)
		}
	}
	flush()

	if len(fields) > 0 {
		embed.Fields = fields
	}
	return embed
}

// ParseHexColor parses an RGB color like "#014bac" or "00b0f4"
func ParseHexColor(s string) (int, bool) {
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
