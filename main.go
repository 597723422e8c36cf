package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tomokot1225-ops/sagyo-mania/pkg/auth"
	"github.com/tomokot1225-ops/sagyo-mania/pkg/config"
	"github.com/tomokot1225-ops/sagyo-mania/pkg/export"
	"github.com/tomokot1225-ops/sagyo-mania/pkg/google"
	"github.com/tomokot1225-ops/sagyo-mania/pkg/importer"
	"github.com/tomokot1225-ops/sagyo-mania/pkg/model"
	"github.com/tomokot1225-ops/sagyo-mania/pkg/registry"
	"github.com/tomokot1225-ops/sagyo-mania/pkg/report"
	"github.com/tomokot1225-ops/sagyo-mania/pkg/store"
	"github.com/tomokot1225-ops/sagyo-mania/pkg/ui"
)

func main() {
	// 1. Parse Flags
	calendarName := flag.String("calendar", "", "Google Calendar name to import from (overrides config)")
	setCalendar := flag.String("set-calendar", "", "Set the default Google Calendar name")
	doAuth := flag.Bool("auth", false, "Authenticate with Google Calendar")
	doSync := flag.Bool("sync", false, "Import today's calendar events into the log")
	doReport := flag.Bool("report", false, "Print a report and exit")
	rng := flag.String("range", "today", "report range: today|week|month")
	exportPath := flag.String("export", "", "Export all log entries as CSV to the given file")
	doList := flag.Bool("list", false, "List recent log entries")
	doAdd := flag.Bool("add", false, "Add a back-dated entry (with -category, -sub, -minutes, -memo, -date)")
	addCategory := flag.String("category", "", "Category name for -add / -set-category")
	addSub := flag.String("sub", "", "Sub-category name for -add")
	addMinutes := flag.Float64("minutes", 0, "Duration in minutes for -add")
	addMemo := flag.String("memo", "", "Memo for -add")
	addDate := flag.String("date", "", "Timestamp for -add, format 2006-01-02 15:04 (default now)")
	deleteIDs := flag.String("delete", "", "Comma-separated log entry ids to delete")
	setCategory := flag.String("set-category", "", "Replace one category's settings (with -color, -subs, -keywords)")
	color := flag.String("color", "", "Display color for -set-category")
	subs := flag.String("subs", "", "Comma-separated sub-categories for -set-category")
	keywords := flag.String("keywords", "", "Comma-separated keywords for -set-category")
	resetCategories := flag.Bool("reset-categories", false, "Reinstall the default category set")
	flag.Parse()

	// 2. Handle Set Calendar
	if *setCalendar != "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
		cfg.Calendar = *setCalendar
		if err := config.Save(cfg); err != nil {
			log.Fatalf("Error saving config: %v", err)
		}
		fmt.Printf("Default calendar set to: %s\n", *setCalendar)
		return
	}

	// 3. Handle Authentication
	if *doAuth {
		ctx := context.Background()
		xdgConfigBase, err := auth.GetXdgHome()
		if err != nil {
			log.Fatalf("could not find path to configuration file: error %v", err)
		}

		tokenFile := filepath.Join(xdgConfigBase, auth.TokenFile)
		if _, err := os.Stat(tokenFile); err == nil {
			log.Printf("Removing existing token file at '%s'\n", tokenFile)
			if err = os.Remove(tokenFile); err != nil {
				log.Fatalf("could not delete token file '%s', error %v. Please delete it manually", tokenFile, err)
			}
		}

		if _, err := auth.GetClient(ctx, auth.Scopes()); err != nil {
			log.Fatalf("Authentication failed: %v", err)
		}
		log.Printf("Authentication successful! Token saved to %s", auth.TokenFile)
		return
	}

	// 4. Open store and registry
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	selectedCalendar := cfg.Calendar
	if *calendarName != "" {
		selectedCalendar = *calendarName
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		log.Fatalf("Error resolving database path: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		log.Fatalf("Error creating data directory: %v", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("Error opening store: %v", err)
	}

	reg, err := loadRegistry(st)
	if err != nil {
		log.Fatalf("Error loading categories: %v", err)
	}

	// 5. Category settings modes
	if *resetCategories {
		reg.Reset()
		if err := st.SaveCategories(reg.Categories()); err != nil {
			log.Fatalf("Error saving categories: %v", err)
		}
		fmt.Println("Categories reset to defaults.")
		return
	}
	if *setCategory != "" {
		err := reg.Replace(*setCategory, *color, splitArg(*subs), splitArg(*keywords))
		if err != nil {
			log.Fatalf("Error updating category: %v", err)
		}
		if err := st.SaveCategories(reg.Categories()); err != nil {
			log.Fatalf("Error saving categories: %v", err)
		}
		fmt.Printf("Category %s updated.\n", *setCategory)
		return
	}

	// 6. Log modes
	if *doSync {
		runSync(st, reg, selectedCalendar)
		return
	}
	if *doAdd {
		runAdd(st, *addCategory, *addSub, *addMinutes, *addMemo, *addDate)
		return
	}
	if *deleteIDs != "" {
		runDelete(st, *deleteIDs)
		return
	}
	if *exportPath != "" {
		runExport(st, *exportPath)
		return
	}
	if *doReport {
		runReport(st, reg, *rng)
		return
	}
	if *doList {
		entries, err := st.List()
		if err != nil {
			log.Fatalf("Error listing entries: %v", err)
		}
		report.WriteRecent(os.Stdout, entries, 20)
		return
	}

	// 7. Default: dashboard
	if err := ui.Run(st, reg); err != nil {
		log.Fatalf("Error running dashboard: %v", err)
	}
}

// loadRegistry builds the registry from the store, installing the default
// set on first run.
func loadRegistry(st *store.Store) (*registry.Registry, error) {
	cats, err := st.LoadCategories()
	if err != nil {
		return nil, err
	}
	reg := registry.New(cats)
	if len(cats) == 0 {
		if err := st.SaveCategories(reg.Categories()); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func runSync(st *store.Store, reg *registry.Registry, calendarName string) {
	ctx := context.Background()
	client, err := google.NewClient(ctx, calendarName)
	if err != nil {
		log.Fatalf("Error creating calendar client: %v", err)
	}
	events, err := client.TodayEvents(time.Now())
	if err != nil {
		log.Fatalf("Error fetching events: %v", err)
	}
	existing, err := st.EventIDs()
	if err != nil {
		log.Fatalf("Error reading imported event ids: %v", err)
	}

	res := importer.Sync(events, existing, reg, st)
	fmt.Printf("%d new calendar events imported.\n", len(res.Added))
	for _, skipped := range res.Skipped {
		fmt.Printf("skipped %v\n", skipped)
	}
}

func runAdd(st *store.Store, category, sub string, minutes float64, memo, date string) {
	timestamp := time.Now()
	if date != "" {
		t, err := time.ParseInLocation("2006-01-02 15:04", date, time.Local)
		if err != nil {
			log.Fatalf("Invalid -date (want 2006-01-02 15:04): %v", err)
		}
		timestamp = t
	}
	if category == "" {
		log.Fatal("-add requires -category")
	}
	if sub == "" {
		sub = model.Unclassified
	}
	id, err := st.Append(model.LogEntry{
		Timestamp:       timestamp,
		Category:        category,
		SubCategory:     sub,
		DurationMinutes: minutes,
		Memo:            memo,
		Source:          model.SourceManualEntry,
	})
	if err != nil {
		log.Fatalf("Error adding entry: %v", err)
	}
	fmt.Printf("Added entry %d.\n", id)
}

func runDelete(st *store.Store, arg string) {
	var ids []int64
	for _, part := range strings.Split(arg, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			log.Fatalf("Invalid id %q: %v", part, err)
		}
		ids = append(ids, id)
	}
	if err := st.DeleteMany(ids); err != nil {
		log.Fatalf("Error deleting entries: %v", err)
	}
	fmt.Printf("Deleted %d entries.\n", len(ids))
}

func runExport(st *store.Store, path string) {
	entries, err := st.List()
	if err != nil {
		log.Fatalf("Error listing entries: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("Error creating export file: %v", err)
	}
	defer f.Close()
	if err := export.WriteCSV(f, entries); err != nil {
		log.Fatalf("Error writing CSV: %v", err)
	}
	fmt.Printf("Exported %d entries to %s.\n", len(entries), path)
}

func runReport(st *store.Store, reg *registry.Registry, rng string) {
	entries, err := st.List()
	if err != nil {
		log.Fatalf("Error listing entries: %v", err)
	}

	now := time.Now()
	var start, end time.Time
	groupBy := report.GroupByDay
	switch rng {
	case "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 0, 1)
	case "week":
		// ISO week: Monday start
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(weekday - 1))
		end = start.AddDate(0, 0, 7)
	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)
		groupBy = report.GroupByWeek
	default:
		log.Fatalf("Unknown range '%s'", rng)
	}

	var ordered []string
	for _, c := range reg.Categories() {
		ordered = append(ordered, c.Name)
	}
	title := fmt.Sprintf("for %s starting %s", rng, start.Format("2006-01-02"))
	report.WriteSummary(os.Stdout, title, report.Filter(entries, start, end), ordered, groupBy)
}

func splitArg(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
