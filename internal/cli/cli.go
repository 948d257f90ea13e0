package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"chessnav/internal/board"
	"chessnav/internal/core"
	"chessnav/internal/game"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdMove
	CmdUndo
	CmdSave
	CmdGames
	CmdLoad
	CmdNext
	CmdBack
	CmdStart
	CmdEnd
	CmdGoto
	CmdExport
	CmdColor
	CmdFlip
	CmdHistory
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

// LineReader supplies one line of input per call, showing prompt first.
// It returns io.EOF when input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

type scannerReader struct {
	scanner *bufio.Scanner
	output  io.Writer
}

// NewScanner reads lines from r and writes prompts to w
func NewScanner(r io.Reader, w io.Writer) LineReader {
	return &scannerReader{scanner: bufio.NewScanner(r), output: w}
}

func (s *scannerReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(s.output, prompt)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg string
	darkBg  string
	white   string
	black   string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // Beige
		darkBg:  "\033[48;5;94m",  // Brown
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m", // Light green
		darkBg:  "\033[48;5;22m",  // Dark green
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m", // Light gray
		darkBg:  "\033[48;5;240m", // Dark gray
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
}

// DefaultTheme colors the board only when f is a terminal
func DefaultTheme(f *os.File) ColorTheme {
	if term.IsTerminal(int(f.Fd())) {
		return ThemeBrown
	}
	return ThemeOff
}

type CLI struct {
	input   LineReader
	output  io.Writer
	theme   ColorTheme
	flipped bool
}

func New(input LineReader, output io.Writer) *CLI {
	return &CLI{
		input:  input,
		output: output,
		theme:  ThemeOff,
	}
}

// GetCommand reads and parses one command. End of input reads as quit.
func (c *CLI) GetCommand(prompt string) (*Command, error) {
	line, err := c.input.ReadLine(prompt)
	if errors.Is(err, io.EOF) {
		return &Command{Type: CmdQuit}, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseCommand(line), nil
}

// Ask reads a free-form answer to a question
func (c *CLI) Ask(question string) (string, error) {
	line, err := c.input.ReadLine(question)
	return strings.TrimSpace(line), err
}

// ParseCommand maps a console line onto a command. Anything that is not a
// keyword is treated as a move.
func ParseCommand(input string) *Command {
	input = strings.TrimSpace(input)
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "new":
		return &Command{Type: CmdNew, Args: args, Raw: input}
	case "undo":
		return &Command{Type: CmdUndo, Args: args, Raw: input}
	case "save":
		return &Command{Type: CmdSave, Args: args, Raw: input}
	case "games", "list":
		return &Command{Type: CmdGames, Args: args, Raw: input}
	case "load":
		return &Command{Type: CmdLoad, Args: args, Raw: input}
	case "next", "n":
		return &Command{Type: CmdNext, Raw: input}
	case "back", "b":
		return &Command{Type: CmdBack, Raw: input}
	case "start":
		return &Command{Type: CmdStart, Raw: input}
	case "end":
		return &Command{Type: CmdEnd, Raw: input}
	case "goto":
		return &Command{Type: CmdGoto, Args: args, Raw: input}
	case "export":
		return &Command{Type: CmdExport, Args: args, Raw: input}
	case "color":
		return &Command{Type: CmdColor, Args: args, Raw: input}
	case "flip":
		return &Command{Type: CmdFlip, Raw: input}
	case "history":
		return &Command{Type: CmdHistory, Raw: input}
	case "help", "?":
		return &Command{Type: CmdHelp, Raw: input}
	case "quit", "q":
		return &Command{Type: CmdQuit, Raw: input}
	default:
		// castle k and friends span two words
		return &Command{Type: CmdMove, Args: []string{input}, Raw: input}
	}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

// Flip toggles the perspective and reports whether black is now at the bottom
func (c *CLI) Flip() bool {
	c.flipped = !c.flipped
	return c.flipped
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

// DisplayBoard renders the board with white at the bottom, or black when flipped
func (c *CLI) DisplayBoard(b *board.Board) {
	c.ShowMessage(c.render(b.Cells()))
}

func (c *CLI) render(cells [8][8]board.Cell) string {
	theme := themes[c.theme]
	files := "a b c d e f g h"
	if c.flipped {
		files = "h g f e d c b a"
	}

	var sb strings.Builder
	sb.WriteString("\n  " + files + "\n")
	for row := 0; row < 8; row++ {
		rank := 7 - row
		if c.flipped {
			rank = row
		}
		fmt.Fprintf(&sb, "%d ", rank+1)
		for col := 0; col < 8; col++ {
			file := col
			if c.flipped {
				file = 7 - col
			}
			cell := cells[rank][file]

			glyph := byte(' ')
			if cell.Occupied {
				glyph = cell.Letter
				if cell.Color == core.ColorBlack {
					glyph += 'a' - 'A'
				}
			}

			if c.theme == ThemeOff {
				if !cell.Occupied {
					glyph = '.'
				}
				fmt.Fprintf(&sb, "%c ", glyph)
				continue
			}

			// a1 is a dark square
			bg := theme.lightBg
			if (rank+file)%2 == 0 {
				bg = theme.darkBg
			}
			fg := theme.black
			if cell.Color == core.ColorWhite {
				fg = theme.white
			}
			fmt.Fprintf(&sb, "%s%s%c %s", bg, fg, glyph, theme.reset)
		}
		fmt.Fprintf(&sb, " %d\n", rank+1)
	}
	sb.WriteString("  " + files + "\n")
	return sb.String()
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new [white] [black] - Start a new game, optionally naming the players
  <move>              - Play a move: e2e4, Nf3, Pe4, castle k, castle q, O-O
  exit                - End the current game
  undo [count]        - Take back the last move(s), default 1
  save [name]         - Save the game to the archive
  games [player]      - List saved games
  load <id>           - Load a saved game at its first position
  next/n, back/b      - Step forward or backward through the game
  start, end          - Jump to the first or last position
  goto <ply>          - Jump to the position after ply half-moves
  export <file>       - Write the game as PGN
  color <theme>       - Set board color theme (off|brown|green|gray)
  flip                - Turn the board around
  history             - Show the move list
  help/?              - Show this help message
  quit                - Leave the program

Playing a move after stepping back discards the moves that followed.`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Chess!")
	c.ShowMessage("Commands: new, <move>, undo, save, games, load <id>, next, back, help/?, quit")
	c.ShowMessage("")
}

// ShowHistory prints the move text and where the navigator stands
func (c *CLI) ShowHistory(text string, index, total int) {
	if text == "" {
		c.ShowMessage("No moves yet.")
		return
	}
	c.ShowMessage(text)
	c.ShowMessage(fmt.Sprintf("Position: ply %d of %d", index, total))
}

func (c *CLI) ShowMoveResult(r *game.MoveResult) {
	msg := fmt.Sprintf("%s plays %s", r.Player.Name(), r.Move)
	if r.Capture {
		msg += fmt.Sprintf(", takes %s (score %d)", r.Captured, r.Score)
	}
	if r.GameState == core.StateCheck {
		msg += ", check"
	}
	c.ShowMessage(msg)
}

// ShowCandidates lists the pieces that could make an ambiguous move
func (c *CLI) ShowCandidates(kind core.Kind, candidates []core.Location) {
	c.ShowMessage(fmt.Sprintf("More than one %s can move there:", kind))
	for i, l := range candidates {
		c.ShowMessage(fmt.Sprintf("  (%d) %s", i+1, l))
	}
}

func (c *CLI) ShowGames(games []core.GameSummary) {
	if len(games) == 0 {
		c.ShowMessage("No saved games.")
		return
	}
	for _, g := range games {
		name := g.Name
		if name == "" {
			name = "-"
		}
		c.ShowMessage(fmt.Sprintf("%.8s  %-20s %s vs %s  %s  %d plies  %s",
			g.GameID, name, orUnknown(g.White), orUnknown(g.Black), g.Result, g.MoveCount, g.StartTime))
	}
}

func orUnknown(name string) string {
	if name == "" {
		return "?"
	}
	return name
}

func (c *CLI) ShowGameOver(state core.State, result core.Result) {
	c.ShowMessage(fmt.Sprintf("\nGame Over: %s (%s)", state, result))
	c.ShowMessage("Start a new game with 'new', or step through it with 'back'.")
}
