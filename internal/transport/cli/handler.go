package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"chessnav/internal/cli"
	"chessnav/internal/core"
	"chessnav/internal/export"
	"chessnav/internal/game"
	"chessnav/internal/notation"
	"chessnav/internal/service"
)

type CLIHandler struct {
	svc     *service.Service
	view    *cli.CLI
	session *game.Session
	players core.Players
	name    string
	gameID  string // archive ID once saved or loaded
}

func New(svc *service.Service, view *cli.CLI) *CLIHandler {
	return &CLIHandler{
		svc:  svc,
		view: view,
	}
}

// Run processes commands until quit or end of input
func (h *CLIHandler) Run() {
	for {
		cmd, err := h.view.GetCommand(h.getPrompt())
		if err != nil {
			break
		}
		if !h.ProcessCommand(cmd) {
			break
		}
	}
}

// getPrompt shows the side to move and the position in the move list
func (h *CLIHandler) getPrompt() string {
	if h.session == nil {
		return "> "
	}
	nav := h.session.Navigator()
	if h.session.Done() {
		return "[ended]> "
	}
	return fmt.Sprintf("[%s %d/%d]> ", h.session.ColorToMove().Name(), nav.Index(), nav.Len())
}

// ProcessCommand handles one command and returns false to exit
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:

	case cli.CmdNew:
		h.session = game.NewSession()
		h.players = core.Players{}
		if len(cmd.Args) > 0 {
			h.players.White = cmd.Args[0]
		}
		if len(cmd.Args) > 1 {
			h.players.Black = cmd.Args[1]
		}
		h.name, h.gameID = "", ""
		h.view.ShowMessage(fmt.Sprintf("Game started: %s vs %s.",
			h.players.Name(core.ColorWhite), h.players.Name(core.ColorBlack)))
		h.view.DisplayBoard(h.session.Navigator().Board())

	case cli.CmdHelp:
		h.view.ShowHelp()

	case cli.CmdGames:
		player := ""
		if len(cmd.Args) > 0 {
			player = cmd.Args[0]
		}
		games, err := h.svc.ListGames(player)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowGames(games)

	case cli.CmdLoad:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: load <game id>")
			return true
		}
		h.handleLoad(cmd.Args[0])

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}
		theme := cli.ColorTheme(cmd.Args[0])
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		h.showBoard()

	case cli.CmdFlip:
		if h.view.Flip() {
			h.view.ShowMessage("Black at the bottom.")
		} else {
			h.view.ShowMessage("White at the bottom.")
		}
		h.showBoard()

	default:
		if h.session == nil {
			h.view.ShowMessage("No active game. Use 'new' or 'load <id>'.")
			return true
		}
		h.handleGameCommand(cmd)
	}

	return true
}

// handleGameCommand runs the commands that need a session
func (h *CLIHandler) handleGameCommand(cmd *cli.Command) {
	nav := h.session.Navigator()

	switch cmd.Type {
	case cli.CmdMove:
		h.handleMove(cmd.Args[0])

	case cli.CmdUndo:
		count := 1
		if len(cmd.Args) > 0 {
			n, err := strconv.Atoi(cmd.Args[0])
			if err != nil || n < 1 {
				h.view.ShowMessage("Invalid undo count. Usage: undo [count]")
				return
			}
			count = n
		}
		if err := h.session.Undo(count); err != nil {
			h.view.ShowError(err)
			return
		}
		if count == 1 {
			h.view.ShowMessage("Move undone")
		} else {
			h.view.ShowMessage(fmt.Sprintf("%d moves undone", count))
		}
		h.track()
		h.view.DisplayBoard(nav.Board())

	case cli.CmdNext:
		h.navigate(nav.StepForward)
	case cli.CmdBack:
		h.navigate(nav.StepBackward)
	case cli.CmdStart:
		h.navigate(nav.JumpToStart)
	case cli.CmdEnd:
		h.navigate(nav.JumpToEnd)
	case cli.CmdGoto:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: goto <ply>")
			return
		}
		ply, err := strconv.Atoi(cmd.Args[0])
		if err != nil {
			h.view.ShowMessage("Invalid ply. Usage: goto <ply>")
			return
		}
		h.navigate(func() error { return nav.Seek(ply) })

	case cli.CmdSave:
		h.handleSave(strings.Join(cmd.Args, " "))

	case cli.CmdExport:
		h.handleExport(cmd.Args)

	case cli.CmdHistory:
		text, err := export.MoveText(nav.Moves())
		if err != nil {
			h.view.ShowError(err)
			return
		}
		h.view.ShowHistory(text, nav.Index(), nav.Len())
	}
}

// handleMove decodes and plays a move, asking which piece to use when the
// input matches more than one
func (h *CLIHandler) handleMove(input string) {
	if h.session.Done() || h.session.State().Over() {
		h.view.ShowError(core.ErrGameOver)
		return
	}
	nav := h.session.Navigator()

	m, err := notation.Decode(nav.Board(), h.session.ColorToMove(), input)
	var ambiguous *notation.AmbiguousError
	if errors.As(err, &ambiguous) {
		m, err = h.chooseOrigin(ambiguous)
	}
	if err != nil {
		h.view.ShowError(err)
		return
	}

	result, err := h.session.Play(m)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	if m == core.Exit {
		h.view.ShowMessage(fmt.Sprintf("Game ended by %s.", result.Player.Name()))
		return
	}

	h.view.ShowMoveResult(result)
	h.track()
	h.view.DisplayBoard(nav.Board())
	if result.GameState.Over() {
		h.view.ShowGameOver(result.GameState, h.session.Result())
	}
}

func (h *CLIHandler) chooseOrigin(amb *notation.AmbiguousError) (core.Move, error) {
	h.view.ShowCandidates(amb.Kind, amb.Candidates)
	answer, err := h.view.Ask(fmt.Sprintf("Which one (1-%d)? ", len(amb.Candidates)))
	if err != nil {
		return core.Move{}, err
	}
	choice, err := strconv.Atoi(answer)
	if err != nil {
		return core.Move{}, fmt.Errorf("%w: %q is not a number", core.ErrIllegalInput, answer)
	}
	return amb.Resolve(choice)
}

// navigate runs a navigator step and shows where it landed
func (h *CLIHandler) navigate(step func() error) {
	if err := step(); err != nil {
		h.view.ShowError(err)
		return
	}
	h.session.Sync()

	nav := h.session.Navigator()
	msg := fmt.Sprintf("Ply %d of %d", nav.Index(), nav.Len())
	if m, ok := nav.Move(nav.Index()); ok {
		msg += fmt.Sprintf(", last move %s", m)
	}
	h.view.ShowMessage(msg)
	h.view.DisplayBoard(nav.Board())
}

// track mirrors the session into the archive once the game has an ID
func (h *CLIHandler) track() {
	if h.gameID == "" {
		return
	}
	if err := h.svc.Track(h.gameID, h.session.Navigator().Moves(), ""); err != nil {
		h.view.ShowError(fmt.Errorf("archive out of date: %w", err))
	}
}

func (h *CLIHandler) handleSave(name string) {
	if h.gameID != "" {
		h.track()
		h.view.ShowMessage(fmt.Sprintf("Game %s is saved.", h.gameID))
		return
	}
	if name == "" {
		name = h.name
	}
	g, err := h.svc.SaveGame(name, h.players, h.session.Navigator().Moves(), "")
	if err != nil {
		h.view.ShowError(err)
		return
	}
	h.gameID, h.name = g.ID, g.Name
	h.view.ShowMessage(fmt.Sprintf("Saved as %s (%s).", g.ID, g.Result))
}

func (h *CLIHandler) handleLoad(prefix string) {
	id, err := h.svc.ResolveID(prefix)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	g, err := h.svc.GetGame(id)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	session, err := game.Resume(g.Moves)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	if err := session.Navigator().JumpToStart(); err != nil {
		h.view.ShowError(err)
		return
	}
	session.Sync()

	h.session, h.players, h.name, h.gameID = session, g.Players, g.Name, g.ID
	h.view.ShowMessage(fmt.Sprintf("Loaded %s: %s vs %s, %d plies. Step through it with next and back.",
		g.ID, g.Players.Name(core.ColorWhite), g.Players.Name(core.ColorBlack), len(g.Moves)))
	h.view.DisplayBoard(session.Navigator().Board())
}

// handleExport writes PGN to the named file, or prints it without one
func (h *CLIHandler) handleExport(args []string) {
	event := h.name
	if event == "" {
		event = "Casual game"
	}
	tags := export.Tags(event, h.players, time.Now().Format("2006.01.02"))
	pgn, err := export.PGN(h.session.Navigator().Moves(), tags...)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	if len(args) == 0 {
		h.view.ShowMessage(pgn)
		return
	}
	if err := os.WriteFile(args[0], []byte(pgn+"\n"), 0644); err != nil {
		h.view.ShowError(fmt.Errorf("could not write %s: %w", args[0], err))
		return
	}
	h.view.ShowMessage(fmt.Sprintf("Game written to %s", args[0]))
}

func (h *CLIHandler) showBoard() {
	if h.session != nil {
		h.view.DisplayBoard(h.session.Navigator().Board())
	}
}
