// Package progress scores journal entries and moves a user's day pointer.
package progress

import (
	"strings"
	"time"

	"recovery/internal/models/db_models"
)

const (
	TotalDays  = 30
	TotalPages = 79

	// CompletionThreshold is the minimum score for an entry to count as done.
	CompletionThreshold = 50

	MinRating = 1
	MaxRating = 10

	scoredSlots = 10
)

// EntryInput carries every editable field of a save. Fields left out of a
// request arrive here empty and are written as such.
type EntryInput struct {
	DailyReflection    string
	GratitudeList      string
	Challenges         string
	Wins               string
	Goals              string
	TriggerNotes       string
	CopingStrategies   string
	SupportConnections string

	MoodRating   *int
	EnergyRating *int
	SleepRating  *int

	// nil leaves the stored drawing as is
	DrawingData *string
}

// Pointer is the account side of progress.
type Pointer struct {
	CurrentDay    int
	DaysCompleted int
	LastActivity  *int64
}

type SaveResult struct {
	Entry      db_models.JournalEntry
	Percentage int
	Pointer    Pointer
	// Advanced is set only when the save moved the pointer.
	Advanced bool
	// Recount asks the caller to recount completed entries and persist the
	// account. It covers advancement and the first completion of the last day.
	Recount bool
}

// CompletionPercentage scores ten slots: the eight text fields plus mood and
// energy. Sleep and drawing do not count.
func CompletionPercentage(e *db_models.JournalEntry) int {
	filled := 0
	for _, field := range []string{
		e.DailyReflection,
		e.GratitudeList,
		e.Challenges,
		e.Wins,
		e.Goals,
		e.TriggerNotes,
		e.CopingStrategies,
		e.SupportConnections,
	} {
		if strings.TrimSpace(field) != "" {
			filled++
		}
	}
	if e.MoodRating != nil {
		filled++
	}
	if e.EnergyRating != nil {
		filled++
	}
	return filled * 100 / scoredSlots
}

// ApplySave overwrites prior with in and works out the pointer move.
func ApplySave(ptr Pointer, prior db_models.JournalEntry, in EntryInput, now time.Time) SaveResult {
	entry := prior
	wasCompleted := prior.Completed

	entry.DailyReflection = in.DailyReflection
	entry.GratitudeList = in.GratitudeList
	entry.Challenges = in.Challenges
	entry.Wins = in.Wins
	entry.Goals = in.Goals
	entry.TriggerNotes = in.TriggerNotes
	entry.CopingStrategies = in.CopingStrategies
	entry.SupportConnections = in.SupportConnections
	entry.MoodRating = NormalizeRating(in.MoodRating)
	entry.EnergyRating = NormalizeRating(in.EnergyRating)
	entry.SleepRating = NormalizeRating(in.SleepRating)
	if in.DrawingData != nil {
		entry.DrawingData = *in.DrawingData
	}

	pct := CompletionPercentage(&entry)
	entry.Completed = pct >= CompletionThreshold
	entry.UpdatedAt = now.Unix()

	res := SaveResult{Entry: entry, Percentage: pct, Pointer: ptr}
	if !entry.Completed || entry.DayNumber != ptr.CurrentDay {
		return res
	}
	// A completed current-day entry always moves the pointer, even when it was
	// first completed out of order. Once moved, the same entry is no longer
	// current, so re-saving it cannot advance twice.
	res.Advanced = ptr.CurrentDay < TotalDays
	res.Recount = res.Advanced || !wasCompleted
	if res.Recount {
		if res.Advanced {
			res.Pointer.CurrentDay = ptr.CurrentDay + 1
		}
		ts := now.Unix()
		res.Pointer.LastActivity = &ts
	}
	return res
}

// NormalizeRating drops ratings outside [MinRating, MaxRating].
func NormalizeRating(r *int) *int {
	if r == nil || *r < MinRating || *r > MaxRating {
		return nil
	}
	v := *r
	return &v
}

func ValidDay(day int) bool {
	return day >= 1 && day <= TotalDays
}

func ValidPage(page int) bool {
	return page >= 1 && page <= TotalPages
}

// ClampDay returns day when valid and fallback otherwise.
func ClampDay(day, fallback int) int {
	if ValidDay(day) {
		return day
	}
	if ValidDay(fallback) {
		return fallback
	}
	return 1
}

func ClampPage(page, fallback int) int {
	if ValidPage(page) {
		return page
	}
	if ValidPage(fallback) {
		return fallback
	}
	return 1
}

// MissingDays lists the day numbers in 1..TotalDays absent from existing.
func MissingDays(existing []int) []int {
	seen := make(map[int]bool, len(existing))
	for _, d := range existing {
		seen[d] = true
	}
	var missing []int
	for d := 1; d <= TotalDays; d++ {
		if !seen[d] {
			missing = append(missing, d)
		}
	}
	return missing
}

// Percent of the thirty days marked complete, for the dashboard header.
func OverallPercentage(daysCompleted int) int {
	if daysCompleted <= 0 {
		return 0
	}
	if daysCompleted >= TotalDays {
		return 100
	}
	return daysCompleted * 100 / TotalDays
}
