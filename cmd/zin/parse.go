package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zin-lang/zin"
	"github.com/zin-lang/zin/ast"
)

var (
	parseFormat string
	parseOutput string
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a Zin source and print or serialize its tree",
	Args:  cobra.ExactArgs(1),
	Run:   parseCommand,
}

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", "", "Serialize the tree (json, yaml, msgpack, cbor) instead of printing it")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "Write to this file instead of stdout")
}

func parseCommand(cmd *cobra.Command, args []string) {
	prog, err := zin.CompileFile(args[0])
	if err != nil {
		fail("Couldn't parse "+args[0], err)
	}
	out := os.Stdout
	if parseOutput != "" {
		f, err := os.Create(parseOutput)
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't create output file")
		}
		defer f.Close()
		out = f
	}
	if parseFormat == "" {
		prog.DebugPrint(out)
		return
	}
	format, err := ast.ParseFormat(parseFormat)
	if err != nil {
		log.Fatal().Err(err).Msg("Bad --format")
	}
	data, err := ast.Encode(prog, format)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't serialize tree")
	}
	if _, err := out.Write(data); err != nil {
		log.Fatal().Err(err).Msg("Couldn't write tree")
	}
}
