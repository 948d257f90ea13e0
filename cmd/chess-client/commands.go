package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"chessnav/internal/client"
	"chessnav/internal/core"
)

// errQuit stops the read loop
var errQuit = errors.New("quit")

const (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
)

type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(args []string) error
}

// Registry dispatches console lines to archive API calls
type Registry struct {
	client   *client.Client
	out      io.Writer
	commands map[string]*Command
	lastGame string
}

func NewRegistry(c *client.Client, out io.Writer) *Registry {
	r := &Registry{
		client:   c,
		out:      out,
		commands: make(map[string]*Command),
	}

	r.Register(&Command{
		Name:        "games",
		ShortName:   "g",
		Description: "List archived games",
		Usage:       "games [player]",
		Handler:     r.gamesHandler,
	})
	r.Register(&Command{
		Name:        "show",
		ShortName:   "s",
		Description: "Show a game's players, result and moves",
		Usage:       "show [gameId]",
		Handler:     r.showHandler,
	})
	r.Register(&Command{
		Name:        "pos",
		ShortName:   "p",
		Description: "Show the board after a number of plies",
		Usage:       "pos [gameId] <ply>",
		Handler:     r.positionHandler,
	})
	r.Register(&Command{
		Name:        "pgn",
		ShortName:   "e",
		Description: "Print a game as PGN",
		Usage:       "pgn [gameId]",
		Handler:     r.pgnHandler,
	})
	r.Register(&Command{
		Name:        "import",
		ShortName:   "i",
		Description: "Archive a move list",
		Usage:       "import <move> [move...]",
		Handler:     r.importHandler,
	})
	r.Register(&Command{
		Name:        "health",
		ShortName:   ".",
		Description: "Check server health",
		Usage:       "health",
		Handler:     r.healthHandler,
	})
	r.Register(&Command{
		Name:        "url",
		ShortName:   "/",
		Description: "Show or change the API base URL",
		Usage:       "url [base]",
		Handler:     r.urlHandler,
	})
	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})
	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Description: "Exit the client",
		Usage:       "exit",
		Handler:     func([]string) error { return errQuit },
	})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Execute runs one input line. It returns errQuit when the user asked to leave.
func (r *Registry) Execute(input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}
	if parts[0] == "quit" {
		parts[0] = "exit"
	}

	cmd, exists := r.commands[parts[0]]
	if !exists {
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", Red, parts[0], Reset)
		fmt.Fprintln(r.out, "Type 'help' for available commands")
		return nil
	}

	err := cmd.Handler(parts[1:])
	if errors.Is(err, errQuit) {
		return err
	}
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %s%s\n", Red, err.Error(), Reset)
	}
	return nil
}

// Names lists every command and short form, for completion
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// gameArg takes the game ID from args, falling back to the last game seen
func (r *Registry) gameArg(args []string) (string, error) {
	if len(args) > 0 {
		r.lastGame = args[0]
		return args[0], nil
	}
	if r.lastGame == "" {
		return "", fmt.Errorf("game ID required")
	}
	return r.lastGame, nil
}

func (r *Registry) gamesHandler(args []string) error {
	resp, err := r.client.ListGames(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(resp.Games) == 0 {
		fmt.Fprintln(r.out, "No games found")
		return nil
	}
	for _, g := range resp.Games {
		fmt.Fprintf(r.out, "%s%s%s  %s%s%s vs %s%s%s  %s  %d plies  %s\n",
			Cyan, g.GameID, Reset, Blue, g.White, Reset, Red, g.Black, Reset,
			g.Result, g.MoveCount, g.StartTime)
	}
	return nil
}

func (r *Registry) showHandler(args []string) error {
	id, err := r.gameArg(args)
	if err != nil {
		return err
	}
	g, err := r.client.GetGame(id)
	if err != nil {
		return err
	}

	name := g.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(r.out, "%s%s%s  %s\n", Cyan, g.GameID, Reset, name)
	fmt.Fprintf(r.out, "%s%s%s vs %s%s%s  result %s%s%s  state %s\n",
		Blue, g.White, Reset, Red, g.Black, Reset, Yellow, g.Result, Reset, g.State)
	fmt.Fprintln(r.out, numbered(g.Moves))
	fmt.Fprintf(r.out, "FEN: %s\n", g.FEN)
	return nil
}

func (r *Registry) positionHandler(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: pos [gameId] <ply>")
	}
	ply, err := strconv.Atoi(args[len(args)-1])
	if err != nil {
		return fmt.Errorf("invalid ply: %s", args[len(args)-1])
	}
	id, err := r.gameArg(args[:len(args)-1])
	if err != nil {
		return err
	}

	pos, err := r.client.Position(id, ply)
	if err != nil {
		return err
	}
	r.renderBoard(pos.Board)
	turn := Blue + "White" + Reset
	if pos.Turn == "b" {
		turn = Red + "Black" + Reset
	}
	fmt.Fprintf(r.out, "Ply %d, %s to move, %s\n", pos.Ply, turn, pos.State)
	if pos.LastMove != "" {
		fmt.Fprintf(r.out, "Last move: %s\n", pos.LastMove)
	}
	if pos.NextMove != "" {
		fmt.Fprintf(r.out, "Next move: %s\n", pos.NextMove)
	}
	return nil
}

func (r *Registry) pgnHandler(args []string) error {
	id, err := r.gameArg(args)
	if err != nil {
		return err
	}
	pgn, err := r.client.PGN(id)
	if err != nil {
		return err
	}
	fmt.Fprint(r.out, pgn)
	return nil
}

func (r *Registry) importHandler(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: import <move> [move...]")
	}
	g, err := r.client.ImportGame(core.ImportGameRequest{Moves: args})
	if err != nil {
		return err
	}
	r.lastGame = g.GameID
	fmt.Fprintf(r.out, "%sArchived %s%s (%d plies, %s)\n", Green, g.GameID, Reset, g.MoveCount, g.Result)
	return nil
}

func (r *Registry) healthHandler(args []string) error {
	h, err := r.client.Health()
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Status: %s%s%s, storage: %s\n", Green, h.Status, Reset, h.Storage)
	return nil
}

func (r *Registry) urlHandler(args []string) error {
	if len(args) > 0 {
		r.client.SetBaseURL(args[0])
	}
	fmt.Fprintf(r.out, "API: %s\n", r.client.BaseURL)
	return nil
}

func (r *Registry) helpHandler(args []string) error {
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Fprintf(r.out, "\n%s%s%s - %s\n", Cyan, cmd.Name, Reset, cmd.Description)
		if cmd.ShortName != "" {
			fmt.Fprintf(r.out, "Short form: %s%s%s\n", Cyan, cmd.ShortName, Reset)
		}
		fmt.Fprintf(r.out, "Usage: %s\n", cmd.Usage)
		return nil
	}

	fmt.Fprintf(r.out, "\n%sAvailable Commands:%s\n\n", Cyan, Reset)
	group := func(title string, names ...string) {
		fmt.Fprintf(r.out, "%s%s:%s\n", Yellow, title, Reset)
		for _, name := range names {
			cmd := r.commands[name]
			fmt.Fprintf(r.out, "  [%s%s%s] %-8s %s\n", Cyan, cmd.ShortName, Reset, cmd.Name, cmd.Description)
		}
	}
	group("Archive Commands", "games", "show", "pos", "pgn", "import")
	fmt.Fprintln(r.out)
	group("Utility Commands", "health", "url", "help", "exit")

	fmt.Fprintln(r.out, "\nCommands taking a game ID reuse the last one given")
	return nil
}

// renderBoard colors the server's ASCII board: white pieces blue, black red
func (r *Registry) renderBoard(ascii string) {
	for i, line := range strings.Split(ascii, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		edge := i == 0 || i == 9
		var sb strings.Builder
		for _, ch := range line {
			switch {
			case edge && ch >= 'a' && ch <= 'h', ch >= '1' && ch <= '8':
				sb.WriteString(Cyan + string(ch) + Reset)
			case ch >= 'A' && ch <= 'Z':
				sb.WriteString(Blue + string(ch) + Reset)
			case ch >= 'a' && ch <= 'z':
				sb.WriteString(Red + string(ch) + Reset)
			default:
				sb.WriteRune(ch)
			}
		}
		fmt.Fprintln(r.out, sb.String())
	}
}

// numbered lays out moves as "1. e2e4 e7e5 2. ..."
func numbered(moves []string) string {
	var sb strings.Builder
	for i, m := range moves {
		if i%2 == 0 {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d. ", i/2+1)
		} else {
			sb.WriteByte(' ')
		}
		sb.WriteString(m)
	}
	return sb.String()
}
