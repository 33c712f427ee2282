package match

import (
	"slices"
	"sort"
	"strings"
)

// Matches reports whether m satisfies every constraint of f.
func (f Filter) Matches(m Match) bool {
	if len(f.IDs) > 0 && !slices.Contains(f.IDs, m.ID) {
		return false
	}
	if len(f.CompetitionCodes) > 0 && !containsFold(f.CompetitionCodes, m.Competition.Code) {
		return false
	}
	if len(f.Statuses) > 0 && !containsFold(f.Statuses, m.Status) {
		return false
	}
	if !f.KickoffFrom.IsZero() && m.UTCDate.Before(f.KickoffFrom) {
		return false
	}
	if !f.KickoffBefore.IsZero() && !m.UTCDate.Before(f.KickoffBefore) {
		return false
	}
	if f.TeamID != 0 && !m.Involves(f.TeamID) {
		return false
	}
	if f.IngestedOn != "" && m.IngestedAt != f.IngestedOn {
		return false
	}
	if f.WithH2HOnly && m.H2H == nil {
		return false
	}
	if f.H2HUpdatedOn != "" && !m.H2H.UpdatedOn(f.H2HUpdatedOn) {
		return false
	}
	if f.H2HNotUpdatedOn != "" && m.H2H.UpdatedOn(f.H2HNotUpdatedOn) {
		return false
	}
	return true
}

// SortByKickoff orders items by kickoff, then id, in the direction f asks for.
func (f Filter) SortByKickoff(items []Match) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].UTCDate.Equal(items[j].UTCDate) {
			if f.NewestFirst {
				return items[i].UTCDate.After(items[j].UTCDate)
			}
			return items[i].UTCDate.Before(items[j].UTCDate)
		}
		if f.NewestFirst {
			return items[i].ID > items[j].ID
		}
		return items[i].ID < items[j].ID
	})
}

func containsFold(values []string, candidate string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(candidate)) {
			return true
		}
	}
	return false
}
