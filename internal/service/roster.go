package service

import (
	"sort"
	"strings"

	"guild-ledger/internal/models"
	"guild-ledger/internal/storage"
)

// Sort fields accepted by MemberFilter.
const (
	SortByName   = "name"
	SortByRank   = "rank"
	SortByJoined = "joined"
)

// MemberFilter narrows and orders the active-member listing.
type MemberFilter struct {
	// Name matches any member whose display name contains it,
	// case-insensitively.
	Name string
	// Rank matches the rank label exactly, case-insensitively.
	Rank string
	// SortField is one of name, rank or joined; joined is the default.
	SortField string
	// Descending reverses the sort direction.
	Descending bool
}

// Roster serves read views over the current member table.
type Roster struct {
	store storage.Store
}

// NewRoster creates a Roster over the given store.
func NewRoster(store storage.Store) *Roster {
	return &Roster{store: store}
}

// ListActive returns active members matching the filter, ordered per
// its sort settings.
func (r *Roster) ListActive(filter MemberFilter) ([]*models.MemberRecord, error) {
	members, err := r.store.ActiveMembers()
	if err != nil {
		return nil, err
	}

	matched := make([]*models.MemberRecord, 0, len(members))
	for _, m := range members {
		if filter.Name != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Rank != "" && !strings.EqualFold(m.Rank, filter.Rank) {
			continue
		}
		matched = append(matched, m)
	}

	sortMembers(matched, filter.SortField, filter.Descending)
	return matched, nil
}

// ActiveNames returns the display names of all active members.
func (r *Roster) ActiveNames() ([]string, error) {
	members, err := r.store.ActiveMembers()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names, nil
}

func sortMembers(members []*models.MemberRecord, field string, descending bool) {
	less := func(a, b *models.MemberRecord) bool {
		switch field {
		case SortByName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case SortByRank:
			return models.CompareRanks(a.Rank, b.Rank) < 0
		default:
			return a.JoinedAt.Before(b.JoinedAt)
		}
	}

	sort.SliceStable(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if field == SortByRank {
			// Unknown ranks stay last in both directions
			ai, bi := models.RankIndex(a.Rank), models.RankIndex(b.Rank)
			unknown := len(models.RankOrder)
			if (ai == unknown) != (bi == unknown) {
				return bi == unknown
			}
			if ai == unknown && bi == unknown {
				return false
			}
		}
		if descending {
			return less(b, a)
		}
		return less(a, b)
	})
}
