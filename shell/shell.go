// Package shell is an interactive command line for dealing, solving and
// batch-analyzing Klondike games.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/klondike/config"
	"github.com/domino14/klondike/deal"
	"github.com/domino14/klondike/solver"
	"github.com/domino14/klondike/store"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNegativeCount     = errors.New("the number of deals must not be negative")
	errNoDeal            = errors.New("please deal or load a game first with the `deal` or `load` command")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	solver *solver.Solver
	store  *store.Store
	draw   int
	budget time.Duration

	cur *deal.Deal
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// NewShellController creates a controller with a readline instance on the
// terminal. A db-path in cfg turns on the result cache.
func NewShellController(cfg *config.Config) *ShellController {
	sc := newController(cfg, os.Stderr)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mklondike>\033[0m ",
		HistoryFile:     "/tmp/klondike-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	sc.attachStore()
	return sc
}

func (sc *ShellController) attachStore() {
	path := sc.config.GetString(config.ConfigDBPath)
	if path == "" {
		return
	}
	st, err := store.Open(path)
	if err != nil {
		log.Err(err).Str("path", path).Msg("could not open result store; continuing without it")
		return
	}
	sc.store = st
}

func newController(cfg *config.Config, out io.Writer) *ShellController {
	s := solver.NewSolver()
	s.SetPollInterval(cfg.GetInt(config.ConfigPollInterval))
	s.SetTTableMemoryFraction(cfg.GetFloat64(config.ConfigTTMemoryFraction))
	return &ShellController{
		out:    out,
		config: cfg,
		solver: s,
		draw:   cfg.GetInt(config.ConfigDraw),
		budget: cfg.GetDuration(config.ConfigTimeBudget),
	}
}

// Cleanup releases the controller's resources.
func (sc *ShellController) Cleanup() {
	if sc.store != nil {
		if err := sc.store.Close(); err != nil {
			log.Err(err).Msg("closing-store")
		}
	}
}

// extractFields splits a line into a command, its positional arguments and
// its -key value options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && len(fields[i]) > 1 {
			if _, err := strconv.Atoi(fields[i]); err == nil {
				// a negative number
				args = append(args, fields[i])
				continue
			}
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := strings.TrimPrefix(fields[i], "-")
			options[key] = append(options[key], fields[i+1])
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) handle(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "help", "h":
		return sc.help(cmd)
	case "draw":
		return sc.setDraw(cmd)
	case "budget":
		return sc.setBudget(cmd)
	case "deal", "d", "new":
		return sc.deal(cmd)
	case "load":
		return sc.load(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "solve":
		return sc.solve(cmd)
	case "solvable":
		return sc.solvable(cmd)
	case "autosolve":
		return sc.autosolve(cmd)
	case "analyze":
		return sc.analyze(cmd)
	case "seeds":
		return sc.seeds(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs a single command line, as given on the program's command
// line.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	if err := sc.standardModeSwitch(line, sig); err != nil {
		sc.showError(err)
	}
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) error {
	cmd, err := extractFields(line)
	if err == errNoData {
		return nil
	} else if err != nil {
		return err
	}
	if cmd.cmd == "exit" {
		sig <- syscall.SIGINT
		return nil
	}
	resp, err := sc.handle(cmd)
	if err != nil {
		return err
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return nil
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "exit" {
			sig <- syscall.SIGINT
			break
		}
		if err := sc.standardModeSwitch(line, sig); err != nil {
			sc.showError(err)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
