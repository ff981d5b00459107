package completion

import (
	"sort"
	"strconv"
	"strings"

	"github.com/julianstephens/habitledger/internal/constants"
	"github.com/julianstephens/habitledger/internal/ledger"
	"github.com/julianstephens/habitledger/internal/models"
)

const dateFormat = constants.DateFormat

// MarkerCount is how often a marker was used across all entries
type MarkerCount struct {
	Marker     string
	Meaning    string
	Count      int
	Percentage float64
}

// Summary aggregates a habit's check-in history
type Summary struct {
	TotalCheckIns int
	RecordedDays  int
	CompletedDays int
	CurrentStreak int
	Markers       []MarkerCount
	// Hourly counts entries per marker by hour of day
	Hourly map[string][24]int
}

// Summarize computes the statistics shown for a habit as of a date
func Summarize(h models.Habit, asOf string) (Summary, error) {
	streak, err := CurrentStreak(h, asOf)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		TotalCheckIns: h.TotalCheckIns,
		CurrentStreak: streak,
		Hourly:        make(map[string][24]int),
	}

	counts := make(map[string]int)
	total := 0
	for date, raw := range h.CheckIns {
		rec, ok := ledger.NormalizeRecord(raw)
		if !ok {
			continue
		}
		s.RecordedDays++
		if IsCompletedOn(h, date) {
			s.CompletedDays++
		}
		for _, e := range rec.Entries {
			counts[e.Marker]++
			total++
			if hour, ok := entryHour(e); ok {
				hist := s.Hourly[e.Marker]
				hist[hour]++
				s.Hourly[e.Marker] = hist
			}
		}
	}

	for marker, n := range counts {
		s.Markers = append(s.Markers, MarkerCount{
			Marker:     marker,
			Meaning:    ledger.MeaningOf(h, marker),
			Count:      n,
			Percentage: float64(n) / float64(total) * 100,
		})
	}
	sort.Slice(s.Markers, func(i, j int) bool {
		if s.Markers[i].Count != s.Markers[j].Count {
			return s.Markers[i].Count > s.Markers[j].Count
		}
		return s.Markers[i].Marker < s.Markers[j].Marker
	})

	return s, nil
}

// entryHour reads the hour from an entry's "YYYY-MM-DD HH:MM" timestamp
func entryHour(e models.Entry) (int, bool) {
	_, clock, found := strings.Cut(e.Timestamp, " ")
	if !found {
		return 0, false
	}
	hh, _, found := strings.Cut(clock, ":")
	if !found {
		return 0, false
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}
