// Package main implements an interactive client for the chessd archive API.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"chessnav/internal/client"

	"github.com/chzyer/readline"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Archive API base URL")
	flag.Parse()

	c := client.New(*baseURL)
	registry := NewRegistry(c, os.Stdout)

	items := make([]readline.PrefixCompleterInterface, 0)
	for _, name := range registry.Names() {
		items = append(items, readline.PcItem(name))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          Cyan + "chess> " + Reset,
		HistoryFile:     ".chess_client_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    readline.NewPrefixCompleter(items...),
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", Red, err.Error(), Reset)
		os.Exit(1)
	}
	defer rl.Close()

	registry.out = rl.Stdout()

	fmt.Printf("%sChess Archive Client%s\n", Cyan, Reset)
	fmt.Printf("%sAPI: %s%s\n", Cyan, c.BaseURL, Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if registry.Execute(line) != nil {
			break
		}
	}
	fmt.Printf("%sGoodbye!%s\n", Cyan, Reset)
}
