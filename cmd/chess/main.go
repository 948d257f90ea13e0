// Package main runs the interactive console: live two-player games and
// step-by-step review of saved ones.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/chzyer/readline"

	"chessnav/internal/cli"
	"chessnav/internal/service"
	"chessnav/internal/storage"
	clitransport "chessnav/internal/transport/cli"
)

// readlineInput adapts readline to the view's LineReader
type readlineInput struct {
	rl *readline.Instance
}

func (r readlineInput) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		if line == "" {
			return "", io.EOF
		}
		return "", nil
	}
	return line, err
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("new"),
	readline.PcItem("undo"),
	readline.PcItem("save"),
	readline.PcItem("games"),
	readline.PcItem("load"),
	readline.PcItem("next"),
	readline.PcItem("back"),
	readline.PcItem("start"),
	readline.PcItem("end"),
	readline.PcItem("goto"),
	readline.PcItem("export"),
	readline.PcItem("castle", readline.PcItem("k"), readline.PcItem("q")),
	readline.PcItem("color",
		readline.PcItem(string(cli.ThemeOff)),
		readline.PcItem(string(cli.ThemeBrown)),
		readline.PcItem(string(cli.ThemeGreen)),
		readline.PcItem(string(cli.ThemeGray)),
	),
	readline.PcItem("flip"),
	readline.PcItem("history"),
	readline.PcItem("help"),
	readline.PcItem("exit"),
	readline.PcItem("quit"),
)

func main() {
	var (
		dbPath      = flag.String("db", "", "Path to SQLite archive (games are kept in memory if empty)")
		dev         = flag.Bool("dev", false, "Development mode (WAL journal so chessd can read concurrently)")
		historyFile = flag.String("history", ".chess_history", "Readline history file")
	)
	flag.Parse()

	var store *storage.Store
	if *dbPath != "" {
		var err error
		store, err = storage.NewStore(*dbPath, *dev)
		if err != nil {
			log.Fatalf("Failed to open archive: %v", err)
		}
		if err := store.InitDB(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	}

	svc, err := service.New(store)
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer svc.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     *historyFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	view := cli.New(readlineInput{rl: rl}, rl.Stdout())
	view.SetTheme(cli.DefaultTheme(os.Stdout))
	handler := clitransport.New(svc, view)

	view.ShowWelcome()
	handler.Run()
}
