/*
main.go - Trip planning CLI

PURPOSE:
  Command-line report for residence compliance. Loads a person's travel
  history from the SQLite database, then prints current window status,
  the maximum safe duration for a planned trip, alternative trip
  lengths, and calendar-year totals.

EXAMPLES:
  # Full report for the only person in the database
  ./check-trip --db=residence.db --trip-start=2025-12-01

  # Scripting-friendly output
  ./check-trip --db=residence.db --person=deniz --trip-start=2025-12-01 --quiet

SEE ALSO:
  - report/report.go: Report rendering
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/warp/residence-engine/report"
	"github.com/warp/residence-engine/residence"
	"github.com/warp/residence-engine/store/sqlite"
)

func run(ctx context.Context, cmd *cli.Command) error {
	store, err := sqlite.New(cmd.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	person, err := resolvePerson(ctx, store, cmd.String("person"))
	if err != nil {
		return err
	}

	periods, err := store.LoadHistory(ctx, person.ID)
	if err != nil {
		return fmt.Errorf("failed to load travel history: %w", err)
	}
	intervals := make([]residence.Interval, len(periods))
	for i, p := range periods {
		intervals[i] = p.Interval()
	}
	hist := residence.NewHistoryFromIntervals(intervals)

	analysisDate := residence.Today()
	if s := cmd.String("date"); s != "" {
		if analysisDate, err = residence.ParseDate(s); err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}

	tripStart := analysisDate.AddDays(30)
	if s := cmd.String("trip-start"); s != "" {
		if tripStart, err = residence.ParseDate(s); err != nil {
			return fmt.Errorf("invalid --trip-start: %w", err)
		}
	}

	buffer := person.BufferDays
	if cmd.IsSet("buffer") {
		buffer = int(cmd.Int("buffer"))
	}

	rp := report.New(residence.DefaultRule(), hist)
	return rp.Render(os.Stdout, report.Options{
		PersonName:   person.Name,
		AnalysisDate: analysisDate,
		TripStart:    tripStart,
		BufferDays:   buffer,
		MaxDuration:  int(cmd.Int("max-duration")),
		Quiet:        cmd.Bool("quiet"),
	})
}

// resolvePerson picks the named person, or the sole person in the database
// when no name is given.
func resolvePerson(ctx context.Context, store *sqlite.Store, id string) (sqlite.Person, error) {
	if id != "" {
		person, err := store.GetPerson(ctx, id)
		if err != nil {
			return sqlite.Person{}, fmt.Errorf("failed to load person %q: %w", id, err)
		}
		return *person, nil
	}

	people, err := store.ListPeople(ctx)
	if err != nil {
		return sqlite.Person{}, fmt.Errorf("failed to list people: %w", err)
	}
	switch len(people) {
	case 0:
		return sqlite.Person{}, fmt.Errorf("no people in database, create one via the API first")
	case 1:
		return people[0], nil
	default:
		return sqlite.Person{}, fmt.Errorf("multiple people in database, pick one with --person")
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "check-trip",
		Usage:  "Check residence compliance and plan safe trip durations",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "SQLite database path",
				Value:   "residence.db",
				Sources: cli.EnvVars("RESIDENCE_DB"),
			},
			&cli.StringFlag{
				Name:  "person",
				Usage: "Person ID (defaults to the only person in the database)",
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "Analysis date, YYYY-MM-DD (defaults to today)",
			},
			&cli.StringFlag{
				Name:  "trip-start",
				Usage: "Planned trip start, YYYY-MM-DD (defaults to 30 days from the analysis date)",
			},
			&cli.IntFlag{
				Name:  "buffer",
				Usage: "Safety buffer in days (defaults to the person's stored buffer)",
			},
			&cli.IntFlag{
				Name:  "max-duration",
				Usage: "Longest trip duration to test, in days",
				Value: 90,
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Minimal output",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("check-trip failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
