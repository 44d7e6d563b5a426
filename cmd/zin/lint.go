package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zin-lang/zin/lint"
)

var lintCmd = &cobra.Command{
	Use:   "lint FILE...",
	Short: "Check programs for undeclared variables, type mismatches and unknown names",
	Args:  cobra.MinimumNArgs(1),
	Run:   lintCommand,
}

func init() {
	addLoadFlags(lintCmd)
}

func lintCommand(cmd *cobra.Command, args []string) {
	failed := false
	for _, path := range args {
		p, err := openProject(cmd, path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("Couldn't load project")
		}
		prog, err := p.loader.Load(p.config.Program.File)
		if err != nil {
			fmt.Fprintln(os.Stderr, color.Red.Sprintf("%s: %s", path, describe(err)))
			failed = true
			continue
		}
		ds := lint.Check(prog, p.registry.Names())
		for _, d := range ds {
			line := fmt.Sprintf("%s: %s", p.config.Program.File, d)
			if d.Severity == lint.Error {
				fmt.Println(color.Red.Sprint(line))
			} else {
				fmt.Println(color.Yellow.Sprint(line))
			}
		}
		if lint.HasErrors(ds) {
			failed = true
		} else if len(ds) == 0 {
			fmt.Println(color.Green.Sprintf("✓ %s", p.config.Program.File))
		}
	}
	if failed {
		os.Exit(1)
	}
}
