package ingest

import (
	"context"
	"fmt"
	"sort"

	"github.com/utahdevs/utah-dev-events/internal/event"
	"github.com/utahdevs/utah-dev-events/internal/logger"
)

// ReconcileDuplicateGroups merges groups that share a non-empty meetup or
// luma link. The earliest-created group in each set survives; the others'
// events are reparented onto it and the groups deleted, one atomic merge per
// set. Returns the number of groups removed.
func (p *Pipeline) ReconcileDuplicateGroups(ctx context.Context) (int, error) {
	groups, err := p.store.ListGroups(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing groups: %w", err)
	}

	removed := 0
	for _, set := range duplicateSets(groups) {
		keep, duplicates := splitByAge(set)
		ids := make([]string, len(duplicates))
		for i, g := range duplicates {
			ids[i] = g.ID
		}

		if err := p.store.MergeGroups(ctx, keep.ID, ids); err != nil {
			return removed, fmt.Errorf("merging duplicates of group %q: %w", keep.Name, err)
		}
		removed += len(ids)
		logger.Info("duplicate groups merged", logger.Fields{
			"kept":   keep.Name,
			"merged": len(ids),
		})
	}
	return removed, nil
}

// duplicateSets buckets groups by shared provider link. A group appearing in
// both a meetup and a luma bucket is only merged once: buckets are scanned in
// a fixed order and a group already claimed by one set is skipped by later
// ones.
func duplicateSets(groups []*event.Group) [][]*event.Group {
	byLink := make(map[string][]*event.Group)
	var keys []string
	add := func(kind, link string, g *event.Group) {
		if link == "" {
			return
		}
		key := kind + ":" + link
		if _, seen := byLink[key]; !seen {
			keys = append(keys, key)
		}
		byLink[key] = append(byLink[key], g)
	}
	for _, g := range groups {
		add("meetup", g.MeetupLink, g)
		add("luma", g.LumaLink, g)
	}

	claimed := make(map[string]bool)
	var sets [][]*event.Group
	sort.Strings(keys)
	for _, key := range keys {
		bucket := byLink[key]
		var set []*event.Group
		for _, g := range bucket {
			if !claimed[g.ID] {
				set = append(set, g)
			}
		}
		if len(set) < 2 {
			continue
		}
		for _, g := range set {
			claimed[g.ID] = true
		}
		sets = append(sets, set)
	}
	return sets
}

// splitByAge returns the earliest-created group and the rest.
func splitByAge(set []*event.Group) (*event.Group, []*event.Group) {
	keep := set[0]
	for _, g := range set[1:] {
		if g.CreatedAt.Before(keep.CreatedAt) {
			keep = g
		}
	}
	rest := make([]*event.Group, 0, len(set)-1)
	for _, g := range set {
		if g.ID != keep.ID {
			rest = append(rest, g)
		}
	}
	return keep, rest
}
