package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/riskibarqy/football-elo/external/eloapi"
)

func parseScore(raw string) (int, int, error) {
	left, right, ok := strings.Cut(strings.TrimSpace(raw), "-")
	if !ok {
		return 0, 0, fmt.Errorf("score %q must look like 2-1", raw)
	}

	team1, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid team1 score %q: %w", left, err)
	}
	team2, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid team2 score %q: %w", right, err)
	}
	if team1 < 0 || team2 < 0 {
		return 0, 0, fmt.Errorf("scores must be >= 0")
	}
	return team1, team2, nil
}

func splitRoster(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// resolveRoster maps each token to a player ID. Exact IDs win; otherwise the
// token must match exactly one player name, case-insensitively.
func resolveRoster(players []eloapi.Player, tokens []string) ([]string, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("at least one player is required")
	}

	byID := make(map[string]struct{}, len(players))
	byName := make(map[string][]string, len(players))
	for _, p := range players {
		byID[p.ID] = struct{}{}
		key := strings.ToLower(strings.TrimSpace(p.Name))
		byName[key] = append(byName[key], p.ID)
	}

	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := byID[token]; ok {
			out = append(out, token)
			continue
		}
		ids := byName[strings.ToLower(token)]
		switch len(ids) {
		case 0:
			return nil, fmt.Errorf("unknown player %q", token)
		case 1:
			out = append(out, ids[0])
		default:
			return nil, fmt.Errorf("player name %q is ambiguous, use an id", token)
		}
	}
	return out, nil
}

// readNames returns one trimmed name per non-empty line, skipping # comments.
func readNames(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

func rosterNames(ids []string, names map[string]string) string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			out = append(out, name)
			continue
		}
		out = append(out, id)
	}
	return strings.Join(out, ", ")
}
