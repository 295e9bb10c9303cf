package automatic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/domino14/klondike/solver"
	"github.com/domino14/klondike/stats"
)

const summaryConfidence = 95

// Summary describes a batch log.
type Summary struct {
	Deals          int            `yaml:"deals"`
	Results        map[string]int `yaml:"results"`
	WinRate        float64        `yaml:"win_rate"`
	WinRateLow     float64        `yaml:"win_rate_low"`
	WinRateHigh    float64        `yaml:"win_rate_high"`
	TimeoutRate    float64        `yaml:"timeout_rate"`
	MeanElapsedMs  float64        `yaml:"mean_elapsed_ms"`
	StdevElapsedMs float64        `yaml:"stdev_elapsed_ms"`
	MaxElapsedMs   float64        `yaml:"max_elapsed_ms"`
	MeanNodes      float64        `yaml:"mean_nodes"`
	StdevNodes     float64        `yaml:"stdev_nodes"`

	// ElapsedMs holds every solve time, for plotting.
	ElapsedMs []float64 `yaml:"-"`
}

// AnalyzeLogFile reads a batch log written by SolveBatch.
func AnalyzeLogFile(filepath string) (*Summary, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return AnalyzeLog(file)
}

// AnalyzeLog reads batch log records from r. The win rate and its
// confidence interval are over deals with a definite result.
func AnalyzeLog(r io.Reader) (*Summary, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(LogHeader)

	elapsed := &stats.Statistic{}
	nodes := &stats.Statistic{}
	wins := stats.Proportion{}
	var results []solver.Result
	var elapsedMs []float64

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if record[0] == LogHeader[0] {
			continue
		}
		res, ok := solver.ParseResult(record[3])
		if !ok {
			return nil, fmt.Errorf("bad result %q for deal %s", record[3], record[0])
		}
		n, err := strconv.ParseUint(record[4], 10, 64)
		if err != nil {
			return nil, err
		}
		ms, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
		elapsed.Push(ms)
		elapsedMs = append(elapsedMs, ms)
		nodes.Push(float64(n))
		if res.Definite() {
			wins.Add(res == solver.Winnable)
		}
	}
	if len(results) == 0 {
		return nil, errors.New("no deals in log")
	}

	counts := lo.CountValues(results)
	s := &Summary{
		Deals:          len(results),
		Results:        lo.MapKeys(counts, func(_ int, r solver.Result) string { return r.String() }),
		WinRate:        wins.Rate(),
		TimeoutRate:    float64(counts[solver.Timeout]) / float64(len(results)),
		MeanElapsedMs:  elapsed.Mean(),
		StdevElapsedMs: elapsed.Stdev(),
		MaxElapsedMs:   elapsed.Max(),
		MeanNodes:      nodes.Mean(),
		StdevNodes:     nodes.Stdev(),
		ElapsedMs:      elapsedMs,
	}
	s.WinRateLow, s.WinRateHigh = wins.WilsonInterval(summaryConfidence)
	return s, nil
}

func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Deals solved: %d\n", s.Deals)
	for _, r := range []solver.Result{solver.Winnable, solver.Unwinnable, solver.Timeout} {
		n := s.Results[r.String()]
		fmt.Fprintf(&sb, "%-10s: %d (%.3f%%)\n", r, n, 100.0*float64(n)/float64(s.Deals))
	}
	fmt.Fprintf(&sb, "Win rate (definite results): %.3f%% (%d%% CI %.3f%% - %.3f%%)\n",
		100*s.WinRate, summaryConfidence, 100*s.WinRateLow, 100*s.WinRateHigh)
	fmt.Fprintf(&sb, "Solve time ms: mean %.3f  stdev %.3f  max %.0f\n",
		s.MeanElapsedMs, s.StdevElapsedMs, s.MaxElapsedMs)
	fmt.Fprintf(&sb, "Nodes: mean %.1f  stdev %.1f\n", s.MeanNodes, s.StdevNodes)
	return sb.String()
}

// WriteYAML writes the summary as a YAML document.
func (s *Summary) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
