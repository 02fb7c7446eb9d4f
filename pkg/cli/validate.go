package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/commguard/cerberus/pkg/cli/config"
)

func cmdValidate() *cli.Command {
	var appCfg config.AppConfig

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the configuration file and print the effective settings",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ok := color.New(color.FgGreen, color.Bold).SprintFunc()
			ng := color.New(color.FgRed, color.Bold).SprintFunc()
			label := color.New(color.FgCyan).SprintFunc()

			roleCfg, ticketCfg, faqCfg, err := appCfg.Configure()
			if err != nil {
				fmt.Printf("%s configuration validation failed\n", ng("[NG]"))
				return goerr.Wrap(err, "configuration validation failed")
			}

			fmt.Printf("%s configuration validation passed\n\n", ok("[OK]"))

			fmt.Printf("%s\n", label("Roles:"))
			fmt.Printf("  prospect:        %s\n", roleCfg.Prospect)
			fmt.Printf("  inviter prefix:  %q\n", roleCfg.InviterPrefix)
			fmt.Printf("  vanity sentinel: %q\n", roleCfg.VanitySentinel)

			fmt.Printf("%s\n", label("Ticket lifecycle:"))
			fmt.Printf("  intro after: %s\n", ticketCfg.IntroDelay)
			fmt.Printf("  bump after:  %s\n", ticketCfg.BumpDelay)
			fmt.Printf("  close after: %s\n", ticketCfg.CloseDelay)
			fmt.Printf("  grace delay: %s\n", ticketCfg.GraceDelay)

			fmt.Printf("%s\n", label("FAQ:"))
			fmt.Printf("  title:   %s\n", faqCfg.Title)
			fmt.Printf("  color:   #%06x\n", faqCfg.Color)
			fmt.Printf("  entries: %d\n", len(faqCfg.Entries))
			for _, entry := range faqCfg.Entries {
				fmt.Printf("    - %s\n", entry.Name)
			}

			return nil
		},
	}
}
