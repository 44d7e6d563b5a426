package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zin-lang/zin/cache"
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Run a program and run it again every time its source changes",
	Args:  cobra.ExactArgs(1),
	Run:   watchCommand,
}

func init() {
	watchCmd.Flags().BoolVar(&debugFlag, "debug", false, "Print the program tree and each function entry with its context")
	addLoadFlags(watchCmd)
}

func watchCommand(cmd *cobra.Command, args []string) {
	p, err := openProject(cmd, args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load project")
	}
	// Cache files are keyed by path and would go stale while the source is
	// edited; the memory store is keyed by content.
	p.loader.Rebuild = true
	p.loader.Memory = cache.NewLRUCache(cache.NewMemoryStore(), 0)
	source, err := filepath.Abs(p.config.Program.File)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't resolve source path")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't start watcher")
	}
	defer watcher.Close()
	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(source)); err != nil {
		log.Fatal().Err(err).Msg("Couldn't watch source directory")
	}

	rerun(p, source)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != source || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			log.Debug().Str("event", ev.Op.String()).Msg("source changed")
			rerun(p, source)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("watch error")
		}
	}
}

func rerun(p *project, source string) {
	prog, err := p.loader.Load(source)
	if err == nil {
		err = execute(p, prog)
	}
	if err != nil {
		log.Error().Err(err).Msg("Run failed")
		fmt.Fprintln(os.Stderr, color.Red.Sprint("✗ "+describe(err)))
	}
	fmt.Fprintln(os.Stderr, color.Gray.Sprintf("Watching %s for changes...", source))
}
