// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package gitscan

import (
	"sort"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type commitEntry struct {
	email string
	when  time.Time
}

// commitLog collects (author email, authored time) for every commit
// reachable from HEAD.
func commitLog(repo *git.Repository) ([]commitEntry, error) {
	iter, err := repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var entries []commitEntry
	err = iter.ForEach(func(c *object.Commit) error {
		entries = append(entries, commitEntry{email: c.Author.Email, when: c.Author.When})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

type commitStats struct {
	recentAuthors     int
	maxMonthlyAuthors int
	firstCommit       time.Time
	latestCommit      time.Time
}

// computeStats derives author activity from the commit table. Commits whose
// author email ends in github.com are automation (merge queues, web edits)
// and are dropped. The monthly figure is the maximum 30-day rolling sum of
// daily unique-author counts.
func computeStats(entries []commitEntry, now time.Time) (commitStats, bool) {
	var kept []commitEntry
	for _, e := range entries {
		if strings.HasSuffix(e.email, "github.com") {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) == 0 {
		return commitStats{}, false
	}
	var s commitStats
	s.firstCommit = kept[0].when
	s.latestCommit = kept[0].when
	yearAgo := now.AddDate(0, 0, -365)
	recent := make(map[string]bool)
	dailyAuthors := make(map[time.Time]map[string]bool)
	for _, e := range kept {
		if e.when.Before(s.firstCommit) {
			s.firstCommit = e.when
		}
		if e.when.After(s.latestCommit) {
			s.latestCommit = e.when
		}
		if e.when.After(yearAgo) {
			recent[e.email] = true
		}
		day := e.when.UTC().Truncate(24 * time.Hour)
		if dailyAuthors[day] == nil {
			dailyAuthors[day] = make(map[string]bool)
		}
		dailyAuthors[day][e.email] = true
	}
	s.recentAuthors = len(recent)
	s.maxMonthlyAuthors = maxRollingSum(dailyAuthors, 30)
	return s, true
}

// maxRollingSum computes the maximum sum of daily unique-author counts over
// any window of windowDays ending on an active day.
func maxRollingSum(dailyAuthors map[time.Time]map[string]bool, windowDays int) int {
	days := make([]time.Time, 0, len(dailyAuthors))
	for d := range dailyAuthors {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	var max int
	lo := 0
	window := 0
	for _, day := range days {
		window += len(dailyAuthors[day])
		cutoff := day.AddDate(0, 0, -(windowDays - 1))
		for days[lo].Before(cutoff) {
			window -= len(dailyAuthors[days[lo]])
			lo++
		}
		if window > max {
			max = window
		}
	}
	return max
}
