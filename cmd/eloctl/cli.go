package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/football-elo/external/eloapi"
	"github.com/riskibarqy/football-elo/internal/platform/logging"
)

var errUsage = errors.New("usage")

// API is the part of the REST client eloctl drives.
type API interface {
	ListPlayers(ctx context.Context) ([]eloapi.Player, error)
	AddPlayer(ctx context.Context, name string) (eloapi.Player, error)
	ListMatches(ctx context.Context) ([]eloapi.Match, error)
	RecordMatch(ctx context.Context, in eloapi.RecordMatchRequest) (eloapi.Match, error)
}

type CLI struct {
	api     API
	out     io.Writer
	workers int
	logger  *logging.Logger
}

func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "players":
		return c.players(ctx)
	case "add":
		name := strings.TrimSpace(strings.Join(args[1:], " "))
		if name == "" {
			return fmt.Errorf("add requires a player name")
		}
		return c.add(ctx, name)
	case "import":
		if len(args) != 2 {
			return fmt.Errorf("import requires exactly one file argument")
		}
		return c.importFile(ctx, args[1])
	case "matches":
		return c.matches(ctx)
	case "record":
		return c.record(ctx, args[1:])
	default:
		return errUsage
	}
}

func (c *CLI) players(ctx context.Context) error {
	players, err := c.api.ListPlayers(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tELO\tMATCHES\tW-D-L\tWIN%")
	for i, p := range players {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d-%d-%d\t%.0f\n",
			i+1, p.ID, p.Name, p.Elo, p.Matches, p.Wins, p.Draws, p.Losses, p.WinRate*100)
	}
	return tw.Flush()
}

func (c *CLI) add(ctx context.Context, name string) error {
	p, err := c.api.AddPlayer(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "added %s (%s) at %d\n", p.Name, p.ID, p.Elo)
	return nil
}

func (c *CLI) importFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	names, err := readNames(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	result, err := c.importNames(ctx, names)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "imported %d of %d players\n", result.added, len(names))
	for _, failure := range result.failed {
		fmt.Fprintf(c.out, "  failed %q: %v\n", failure.name, failure.err)
	}
	if len(result.failed) > 0 {
		return fmt.Errorf("%d player(s) failed to import", len(result.failed))
	}
	return nil
}

type importFailure struct {
	name string
	err  error
}

type importResult struct {
	added  int
	failed []importFailure
}

// importNames adds players concurrently on a bounded ants pool. Failures are
// collected rather than aborting the batch.
func (c *CLI) importNames(ctx context.Context, names []string) (importResult, error) {
	workers := c.workers
	if workers < 1 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return importResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu     sync.Mutex
		result importResult
		wg     sync.WaitGroup
	)
	for _, name := range names {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			_, addErr := c.api.AddPlayer(ctx, name)
			mu.Lock()
			defer mu.Unlock()
			if addErr != nil {
				c.logger.WarnContext(ctx, "import player failed", "name", name, "error", addErr)
				result.failed = append(result.failed, importFailure{name: name, err: addErr})
				return
			}
			result.added++
		}); err != nil {
			wg.Done()
			wg.Wait()
			return result, fmt.Errorf("submit import task: %w", err)
		}
	}
	wg.Wait()

	return result, nil
}

func (c *CLI) matches(ctx context.Context) error {
	matches, err := c.api.ListMatches(ctx)
	if err != nil {
		return err
	}

	players, err := c.api.ListPlayers(ctx)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tNAME\tTEAM 1\tSCORE\tTEAM 2\tΔ1\tΔ2")
	for _, m := range matches {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d-%d\t%s\t%+.1f\t%+.1f\n",
			m.Date, m.Name,
			rosterNames(m.Team1Players, names), m.Team1Score, m.Team2Score, rosterNames(m.Team2Players, names),
			m.Team1EloChange, m.Team2EloChange)
	}
	return tw.Flush()
}

func (c *CLI) record(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("record", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	team1 := fs.String("team1", "", "comma separated player ids or names")
	team2 := fs.String("team2", "", "comma separated player ids or names")
	score := fs.String("score", "", "final score as team1-team2, e.g. 2-1")
	label := fs.String("name", "", "optional match name")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("record: %w", err)
	}

	team1Score, team2Score, err := parseScore(*score)
	if err != nil {
		return err
	}

	players, err := c.api.ListPlayers(ctx)
	if err != nil {
		return err
	}
	team1IDs, err := resolveRoster(players, splitRoster(*team1))
	if err != nil {
		return fmt.Errorf("team1: %w", err)
	}
	team2IDs, err := resolveRoster(players, splitRoster(*team2))
	if err != nil {
		return fmt.Errorf("team2: %w", err)
	}

	recorded, err := c.api.RecordMatch(ctx, eloapi.RecordMatchRequest{
		Team1Players: team1IDs,
		Team2Players: team2IDs,
		Team1Score:   team1Score,
		Team2Score:   team2Score,
		Name:         strings.TrimSpace(*label),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "recorded %s %d-%d (team1 %+.1f, team2 %+.1f)\n",
		recorded.Name, recorded.Team1Score, recorded.Team2Score,
		recorded.Team1EloChange, recorded.Team2EloChange)
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `usage: eloctl <command> [args]

commands:
  players                                   list players by rating
  add <name>                                register a player
  import <file>                             register one player per line
  matches                                   list recorded matches
  record --team1 a,b --team2 c,d --score 2-1 [--name label]`)
}
