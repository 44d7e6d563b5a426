package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zin-lang/zin/ast"
	"github.com/zin-lang/zin/interp"
)

var (
	debugFlag bool
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run a Zin program (a .zin source or a zin.toml project)",
	Args:  cobra.MinimumNArgs(1),
	Run:   runCommand,
}

func init() {
	runCmd.Flags().BoolVar(&debugFlag, "debug", false, "Print the program tree and each function entry with its context")
	addLoadFlags(runCmd)
}

func runCommand(cmd *cobra.Command, args []string) {
	p, err := openProject(cmd, args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load project")
	}
	prog, err := p.loader.Load(p.config.Program.File)
	if err != nil {
		fail("Couldn't build the program tree", err)
	}
	if err := execute(p, prog); err != nil {
		fail("Program stopped", err)
	}
}

func execute(p *project, prog *ast.Program) error {
	opts := p.options()
	if debugFlag {
		prog.DebugPrint(os.Stderr)
		opts = append(opts, interp.WithDebug(os.Stderr))
	}
	fmt.Fprintln(os.Stderr, color.Cyan.Sprintf("Running %s...", prog.Name))
	if err := interp.New(prog, opts...).Run(); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, color.Green.Sprintf("✓ %s finished", prog.Name))
	return nil
}
