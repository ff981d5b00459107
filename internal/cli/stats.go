package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitledger/internal/completion"
)

type StatsCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
	AsOf  string `help:"Date the streak is counted back from, YYYY-MM-DD (default: today)." name:"as-of"`
}

func (c *StatsCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	doc, err := ctx.Store.ReadDocument()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(doc, c.Habit)
	if err != nil {
		return err
	}

	asOf := c.AsOf
	if asOf == "" {
		asOf = ctx.Today()
	}
	s, err := completion.Summarize(h, asOf)
	if err != nil {
		return err
	}

	ctx.Printf("%s statistics as of %s\n\n", h.Title, asOf)
	ctx.Printf("  Total check-ins: %d\n", s.TotalCheckIns)
	ctx.Printf("  Days recorded:   %d\n", s.RecordedDays)
	ctx.Printf("  Days completed:  %d\n", s.CompletedDays)
	ctx.Printf("  Current streak:  %d day(s)\n", s.CurrentStreak)

	if len(s.Markers) == 0 {
		ctx.Println("\nNo check-ins recorded yet.")
		return nil
	}

	ctx.Println("\nMarkers:")
	for _, m := range s.Markers {
		meaning := m.Meaning
		if meaning == "" {
			meaning = "-"
		}
		ctx.Printf("  %s %-12s %4d  %5.1f%%\n", m.Marker, meaning, m.Count, m.Percentage)
	}

	ctx.Println("\nBy hour:")
	for _, m := range s.Markers {
		hist := s.Hourly[m.Marker]
		var busiest []string
		for hour, n := range hist {
			if n > 0 {
				busiest = append(busiest, formatHourCount(hour, n))
			}
		}
		if len(busiest) == 0 {
			continue
		}
		ctx.Printf("  %s %s\n", m.Marker, strings.Join(busiest, "  "))
	}
	return nil
}

func formatHourCount(hour, n int) string {
	return fmt.Sprintf("%02dh×%d", hour, n)
}
