package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/markdg/habit-hub/internal/checklist"
	"github.com/markdg/habit-hub/internal/config"
	"github.com/markdg/habit-hub/internal/dateutil"
	"github.com/markdg/habit-hub/internal/foodlog"
	"github.com/markdg/habit-hub/internal/plan"
	"github.com/markdg/habit-hub/internal/storage"
	"github.com/markdg/habit-hub/internal/storage/memory"
	"github.com/markdg/habit-hub/internal/storage/postgres"
	"github.com/markdg/habit-hub/internal/week"
)

const usage = `usage: checklist <command> [flags]

commands:
  today                show today's checklist
  toggle <item_key>    toggle a checklist item (flags: -date YYYY-MM-DD)
  food add <text>      append a food log entry (flags: -date YYYY-MM-DD)
  food list            show a day's food entries (flags: -date YYYY-MM-DD)
  week                 show the current week summary
  report               print the weekly check-in report
`

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	st := openStorage(cfg)
	defer st.Close()

	ctx := context.Background()
	programs := plan.NewService(st, plan.Resolve(ctx, st, nil))

	var err error
	switch os.Args[1] {
	case "today":
		err = runToday(ctx, st, programs, os.Args[2:])
	case "toggle":
		err = runToggle(ctx, st, os.Args[2:])
	case "food":
		err = runFood(ctx, st, os.Args[2:])
	case "week":
		err = runWeek(ctx, st, programs)
	case "report":
		err = runReport(ctx, st, programs)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("checklist: %v", err)
	}
}

func openStorage(cfg *config.Config) storage.Storage {
	if cfg.DatabaseURL == "" {
		log.Println("no DATABASE_URL set, using in-memory storage (state is lost on exit)")
		return memory.New()
	}
	st, err := postgres.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("checklist: connect to database: %v", err)
	}
	return st
}

func runToday(ctx context.Context, st storage.Storage, programs *plan.Service, args []string) error {
	fs := flag.NewFlagSet("today", flag.ExitOnError)
	date := fs.String("date", dateutil.CanonicalKey(time.Now()), "day to show (YYYY-MM-DD)")
	fs.Parse(args)

	service := checklist.NewService(st, programs)
	day, err := service.DayView(ctx, *date)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", day.Date, day.DayLabel)
	for _, item := range day.Items {
		mark := "[ ]"
		if item.Completed {
			mark = "[x]"
		}
		fmt.Printf("  %s %s (%s)\n", mark, item.Label, item.Key)
	}
	fmt.Printf("%d/%d items", day.CompletedCount, day.TotalCount)
	if day.AllDone {
		fmt.Print(" - all done")
	}
	fmt.Println()
	return nil
}

// runToggle goes through the optimistic store so a slow or failing backend
// still gets an immediate local answer, then reports the settled outcome.
func runToggle(ctx context.Context, st storage.Storage, args []string) error {
	fs := flag.NewFlagSet("toggle", flag.ExitOnError)
	date := fs.String("date", dateutil.CanonicalKey(time.Now()), "day to toggle on (YYYY-MM-DD)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("toggle requires an item key")
	}
	itemKey := strings.TrimSpace(fs.Arg(0))

	store := checklist.NewStore(st)
	if err := store.Load(ctx, *date, *date); err != nil {
		return fmt.Errorf("load completions: %w", err)
	}

	if !store.Toggle(ctx, *date, itemKey) {
		return fmt.Errorf("a toggle for %s on %s is already in flight", itemKey, *date)
	}

	select {
	case result := <-store.Results():
		if result.Err != nil {
			return fmt.Errorf("toggle rolled back: %w", result.Err)
		}
		if result.Completed {
			fmt.Printf("%s: %s completed\n", *date, itemKey)
		} else {
			fmt.Printf("%s: %s cleared\n", *date, itemKey)
		}
	case <-time.After(30 * time.Second):
		return fmt.Errorf("timed out waiting for the toggle to settle")
	}
	return nil
}

func runFood(ctx context.Context, st storage.Storage, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("food requires a subcommand (add, list)")
	}
	sub, rest := args[0], args[1:]

	fs := flag.NewFlagSet("food "+sub, flag.ExitOnError)
	date := fs.String("date", dateutil.CanonicalKey(time.Now()), "day (YYYY-MM-DD)")
	fs.Parse(rest)

	service := foodlog.NewService(st)

	switch sub {
	case "add":
		if fs.NArg() < 1 {
			return fmt.Errorf("food add requires the entry text")
		}
		text := strings.Join(fs.Args(), " ")
		entry, err := service.Append(ctx, *date, text)
		if err != nil {
			return err
		}
		fmt.Printf("%s: logged %q\n", entry.Date, entry.EntryText)
		return nil

	case "list":
		entries, err := service.Entries(ctx, *date)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Printf("%s: no food logged\n", *date)
			return nil
		}
		fmt.Println(*date)
		for _, entry := range entries {
			fmt.Printf("  %s  %s\n", entry.LoggedAt.Local().Format("15:04"), entry.EntryText)
		}
		return nil

	default:
		return fmt.Errorf("unknown food subcommand %q (allowed: add, list)", sub)
	}
}

func runWeek(ctx context.Context, st storage.Storage, programs *plan.Service) error {
	service := week.NewService(st, st, programs)
	summary, err := service.Summary(ctx, dateutil.CanonicalKey(time.Now()))
	if err != nil {
		return err
	}

	fmt.Printf("Week %s .. %s\n", summary.WeekStart, summary.WeekEnd)
	for _, day := range summary.Days {
		done := " "
		if day.AllDone {
			done = "x"
		}
		fmt.Printf("  [%s] %-9s %d/%d items", done, day.Weekday, day.CompletedCount, day.TotalCount)
		if day.HasFood {
			fmt.Print("  (food logged)")
		}
		fmt.Println()
	}
	fmt.Printf("Workout days: %d/%d  Walk days: %d/%d  Food: %d/%d days  Items: %d/%d\n",
		summary.WorkoutDaysDone, summary.WorkoutDaysTotal,
		summary.WalkDaysDone, summary.WalkDaysTotal,
		summary.FoodLoggedDays, summary.PastDays,
		summary.ItemsCompleted, summary.ItemsTotal)
	return nil
}

func runReport(ctx context.Context, st storage.Storage, programs *plan.Service) error {
	service := week.NewService(st, st, programs)
	report, err := service.Report(ctx, dateutil.CanonicalKey(time.Now()))
	if err != nil {
		return err
	}
	fmt.Print(report)
	return nil
}
