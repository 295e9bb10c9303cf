package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/klondike/config"
	"github.com/domino14/klondike/testhelpers"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"autosolve 100 -file /path/to/log.csv",
			&shellcmd{"autosolve", []string{"100"}, CmdOptions{"file": {"/path/to/log.csv"}}},
			nil},
		{"deal 42",
			&shellcmd{"deal", []string{"42"}, CmdOptions{}},
			nil},
		{"autosolve 10 -threads 2 -file foo.csv ",
			&shellcmd{"autosolve",
				[]string{"10"},
				CmdOptions{"threads": {"2"}, "file": {"foo.csv"}}},
			nil,
		},
		{`load "AC 2C 3C"`,
			&shellcmd{"load", []string{"AC 2C 3C"}, CmdOptions{}},
			nil},
		{"autosolve 10 -file",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func newTestController() (*ShellController, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return newController(config.DefaultConfig(), buf), buf
}

func run(sc *ShellController, line string) error {
	sig := make(chan os.Signal, 1)
	return sc.standardModeSwitch(line, sig)
}

func TestDealAndShow(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestController()

	is.Equal(run(sc, "show"), errNoDeal)
	is.NoErr(run(sc, "deal 1"))
	out := buf.String()
	is.True(strings.HasPrefix(out, "Seed 1, deal "))
	is.True(strings.Contains(out, "Foundations: -- -- -- --"))
	is.True(strings.Contains(out, "t7: ## ## ## ## ## ##"))

	buf.Reset()
	is.NoErr(run(sc, "show"))
	is.True(strings.HasPrefix(buf.String(), "Seed 1, deal "))
	is.Equal(sc.cur.Seed, uint64(1))
}

func TestLoadAndSolve(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestController()

	is.True(run(sc, "load AC 2C") != nil)
	is.NoErr(run(sc, "load \""+testhelpers.AutoWinDeckString+"\""))
	is.Equal(sc.cur.Seed, uint64(0))

	buf.Reset()
	is.NoErr(run(sc, "solve"))
	is.True(strings.HasPrefix(buf.String(), "winnable"))
}

func TestLoadUnquoted(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController()
	is.NoErr(run(sc, "load "+testhelpers.AutoWinDeckString))
	is.Equal(sc.cur.Deck, testhelpers.AutoWinDeck())
}

func TestSolveWithStore(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigDBPath, filepath.Join(t.TempDir(), "solves.db"))
	sc := newController(cfg, &bytes.Buffer{})
	buf := &bytes.Buffer{}
	sc.out = buf
	sc.attachStore()
	defer sc.Cleanup()
	is.True(sc.store != nil)

	is.NoErr(run(sc, "load "+testhelpers.AutoWinDeckString))
	buf.Reset()
	is.NoErr(run(sc, "solve"))
	is.True(!strings.Contains(buf.String(), "cached"))
	buf.Reset()
	is.NoErr(run(sc, "solve"))
	is.True(strings.Contains(buf.String(), "winnable (cached"))
}

func TestDrawAndBudget(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestController()

	is.NoErr(run(sc, "draw"))
	is.Equal(buf.String(), "draw: 3\n")
	is.True(run(sc, "draw 2") != nil)
	is.NoErr(run(sc, "draw 1"))
	is.Equal(sc.draw, 1)

	is.NoErr(run(sc, "budget 2s"))
	is.Equal(sc.budget.String(), "2s")
	is.True(run(sc, "budget soon") != nil)
	is.True(run(sc, "budget -1s") != nil)
}

func TestExitAndUnknown(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController()
	sig := make(chan os.Signal, 1)
	is.NoErr(sc.standardModeSwitch("exit", sig))
	is.Equal(<-sig, syscall.SIGINT)
	is.True(run(sc, "frobnicate") != nil)
	is.NoErr(run(sc, "   "))
}

func TestHelp(t *testing.T) {
	sc, buf := newTestController()
	assert.NoError(t, run(sc, "help"))
	assert.Contains(t, buf.String(), "autosolve <n> [options]")
	buf.Reset()
	assert.NoError(t, run(sc, "help load"))
	assert.Contains(t, buf.String(), "Every card must appear exactly once.")
	buf.Reset()
	assert.NoError(t, run(sc, "help nope"))
	assert.Equal(t, "There is no help text for the topic nope\n", buf.String())
}

func TestSeedsAutosolveAnalyze(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	sc, buf := newTestController()
	sc.budget = 50 * time.Millisecond

	seedsFile := filepath.Join(dir, "seeds.txt")
	logFile := filepath.Join(dir, "batch.csv")
	yamlFile := filepath.Join(dir, "summary.yaml")

	is.NoErr(run(sc, "seeds 4 "+seedsFile))
	is.NoErr(run(sc, "autosolve -seeds "+seedsFile+" -threads 2 -file "+logFile))
	is.True(strings.Contains(buf.String(), "Deals solved: 4"))

	buf.Reset()
	is.NoErr(run(sc, "analyze "+logFile+" -yaml "+yamlFile))
	is.True(strings.Contains(buf.String(), "Solve time histogram (ms):"))
	dat, err := os.ReadFile(yamlFile)
	is.NoErr(err)
	is.True(strings.Contains(string(dat), "deals: 4"))

	is.True(run(sc, "autosolve") != nil)
	is.True(run(sc, "analyze") != nil)
}

func TestCompleter(t *testing.T) {
	c := NewShellCompleter()
	m, n := c.Do([]rune("sol"), 3)
	assert.Equal(t, 3, n)
	assert.ElementsMatch(t, [][]rune{[]rune("ve"), []rune("vable")}, m)

	line := []rune("autosolve 10 -th")
	m, n = c.Do(line, len(line))
	assert.Equal(t, 3, n)
	assert.Equal(t, [][]rune{[]rune("reads")}, m)

	line = []rune("draw ")
	m, _ = c.Do(line, len(line))
	assert.Equal(t, [][]rune{[]rune("1"), []rune("3")}, m)
}

func TestNegativeCounts(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	sc, _ := newTestController()
	path := filepath.Join(dir, "seeds.txt")

	is.Equal(run(sc, "seeds -3 "+path), errNegativeCount)
	_, err := os.Stat(path)
	is.True(os.IsNotExist(err))

	is.Equal(run(sc, "autosolve -2 -file "+filepath.Join(dir, "b.csv")), errNegativeCount)
	is.Equal(run(sc, "autosolve -2 -from 10"), errNegativeCount)
}
