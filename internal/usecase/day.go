package usecase

import (
	"strings"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/competition"
)

const dayLayout = "2006-01-02"

func dayOf(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// dayBounds returns the UTC start of t's day and the start of the next one.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := t.UTC().Truncate(24 * time.Hour)
	return start, start.Add(24 * time.Hour)
}

func parseDay(value string) (time.Time, bool) {
	parsed, err := time.Parse(dayLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, false
	}
	return parsed.UTC(), true
}

func normalizeCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = competition.NormalizeCode(code)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
