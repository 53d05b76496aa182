package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/newsbrief/newsbrief/app"
	"github.com/newsbrief/newsbrief/digest"
	"github.com/newsbrief/newsbrief/model"
	"github.com/newsbrief/newsbrief/opml"
	"github.com/newsbrief/newsbrief/report"
	"github.com/newsbrief/newsbrief/store"
	"github.com/urfave/cli/v2"
)

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitDataError    = 3
)

func main() {
	cliApp := &cli.App{
		Name:    "newsbrief",
		Usage:   "A scriptable AI-news aggregator and digest generator",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Value:   getDefaultDBPath(),
				Usage:   "Database file path",
				EnvVars: []string{"NEWSBRIEF_DB"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "refresh",
				Usage: "Fetch all enabled sources and rebuild the article stream",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "cached",
						Aliases: []string{"c"},
						Usage:   "Serve the cached snapshot without fetching, if fresh enough",
					},
				},
				Action: refresh,
			},
			{
				Name:  "list",
				Usage: "List articles from the current stream",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Value:   50,
						Usage:   "Maximum number of articles to return",
					},
					&cli.StringFlag{
						Name:    "since",
						Aliases: []string{"s"},
						Usage:   "Only articles newer than a duration (e.g., 2h, 7d, 2w)",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Filter by source ID",
					},
					&cli.StringFlag{
						Name:    "tag",
						Aliases: []string{"t"},
						Usage:   "Filter by inferred tag",
					},
					&cli.BoolFlag{
						Name:    "bookmarked",
						Aliases: []string{"b"},
						Usage:   "Show only bookmarked articles",
					},
				},
				Action: listArticles,
			},
			{
				Name:  "report",
				Usage: "Generate a categorized digest report",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "window",
						Aliases: []string{"w"},
						Value:   string(report.WindowToday),
						Usage:   "Time window: last-hour, today, or this-week",
					},
					&cli.BoolFlag{
						Name:    "markdown",
						Aliases: []string{"m"},
						Usage:   "Render the report as markdown instead of JSON",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write markdown to a file (default: stdout)",
					},
				},
				Action: generateReport,
			},
			{
				Name:   "sources",
				Usage:  "List the source catalog",
				Action: listSources,
			},
			{
				Name:      "enable",
				Usage:     "Enable a source",
				ArgsUsage: "<source-id>",
				Action:    func(c *cli.Context) error { return toggleSource(c, true) },
			},
			{
				Name:      "disable",
				Usage:     "Disable a source",
				ArgsUsage: "<source-id>",
				Action:    func(c *cli.Context) error { return toggleSource(c, false) },
			},
			{
				Name:      "bookmark",
				Usage:     "Bookmark an article URL",
				ArgsUsage: "<url>",
				Action:    func(c *cli.Context) error { return setBookmark(c, true) },
			},
			{
				Name:      "unbookmark",
				Usage:     "Remove a bookmark",
				ArgsUsage: "<url>",
				Action:    func(c *cli.Context) error { return setBookmark(c, false) },
			},
			{
				Name:   "bookmarks",
				Usage:  "List bookmarked URLs",
				Action: listBookmarks,
			},
			{
				Name:      "import",
				Usage:     "Import sources from an OPML file",
				ArgsUsage: "<opml-file>",
				Action:    importOPML,
			},
			{
				Name:  "export-opml",
				Usage: "Export the source catalog to OPML",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (default: stdout)",
					},
				},
				Action: exportOPML,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitGeneralError)
	}
}

func getDefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "newsbrief.db"
	}
	return filepath.Join(home, ".config", "newsbrief", "newsbrief.db")
}

func getApp(c *cli.Context) (*app.App, error) {
	dbPath := c.String("db")

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	s, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return app.New(s), nil
}

func outputJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func refresh(c *cli.Context) error {
	a, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer a.Store.Close()

	if c.Bool("cached") {
		if articles, ok := a.Cached(); ok {
			return outputJSON(map[string]interface{}{
				"from_cache": true,
				"count":      len(articles),
				"articles":   articles,
			})
		}
	}

	articles, results, err := a.Refresh(c.Context)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Refresh failed: %v", err), ExitDataError)
	}

	perSource := make(map[string]interface{}, len(results))
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			perSource[r.Source.ID] = map[string]interface{}{"error": r.Err.Error()}
			continue
		}
		perSource[r.Source.ID] = map[string]interface{}{"articles": len(r.Articles)}
	}

	return outputJSON(map[string]interface{}{
		"from_cache":     false,
		"count":          len(articles),
		"sources":        len(results),
		"sources_failed": failed,
		"results":        perSource,
		"articles":       articles,
	})
}

// currentArticles serves from the cache snapshot when it is fresh,
// otherwise runs a full refresh.
func currentArticles(a *app.App, c *cli.Context) ([]model.Article, error) {
	if articles, ok := a.Cached(); ok {
		return articles, nil
	}
	articles, _, err := a.Refresh(c.Context)
	return articles, err
}

func listArticles(c *cli.Context) error {
	a, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer a.Store.Close()

	articles, err := currentArticles(a, c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to load articles: %v", err), ExitDataError)
	}

	if since := c.String("since"); since != "" {
		cutoff, err := digest.SinceCutoff(since)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Invalid --since flag: %v", err), ExitUsageError)
		}
		articles = digest.FilterSince(articles, cutoff)
	}

	if sourceID := c.String("source"); sourceID != "" {
		articles = filterArticles(articles, func(a model.Article) bool {
			return a.Source.ID == sourceID
		})
	}

	if tag := c.String("tag"); tag != "" {
		articles = filterArticles(articles, func(a model.Article) bool {
			return a.HasTag(model.Tag(tag))
		})
	}

	if c.Bool("bookmarked") {
		articles = filterArticles(articles, func(a model.Article) bool {
			return a.Bookmarked
		})
	}

	if limit := c.Int("limit"); limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}

	return outputJSON(map[string]interface{}{
		"count":    len(articles),
		"articles": articles,
	})
}

func filterArticles(articles []model.Article, keep func(model.Article) bool) []model.Article {
	var out []model.Article
	for _, a := range articles {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func generateReport(c *cli.Context) error {
	window, err := report.ParseWindow(c.String("window"))
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	a, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer a.Store.Close()

	if _, err := currentArticles(a, c); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to load articles: %v", err), ExitDataError)
	}

	rep, err := a.GenerateReport(window)
	if err == report.ErrEmptyWindow {
		return outputJSON(map[string]interface{}{
			"window": window,
			"empty":  true,
		})
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to generate report: %v", err), ExitDataError)
	}

	if !c.Bool("markdown") && c.String("output") == "" {
		return outputJSON(rep)
	}

	rendered := a.ExportReport(rep)

	outputPath := c.String("output")
	if outputPath == "" {
		fmt.Print(rendered)
		return nil
	}

	if err := os.WriteFile(outputPath, []byte(rendered), 0644); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to write report: %v", err), ExitDataError)
	}
	return outputJSON(map[string]interface{}{
		"success": true,
		"file":    outputPath,
	})
}

func listSources(c *cli.Context) error {
	a, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer a.Store.Close()

	return outputJSON(a.Registry.Load())
}

func toggleSource(c *cli.Context, enabled bool) error {
	if c.NArg() < 1 {
		return cli.Exit(fmt.Sprintf("Usage: newsbrief %s <source-id>", c.Command.Name), ExitUsageError)
	}

	a, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer a.Store.Close()

	id := c.Args().Get(0)
	if err := a.Registry.SetEnabled(id, enabled); err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}

	return outputJSON(map[string]interface{}{
		"success": true,
		"source":  id,
		"enabled": enabled,
	})
}

func setBookmark(c *cli.Context, bookmarked bool) error {
	if c.NArg() < 1 {
		return cli.Exit(fmt.Sprintf("Usage: newsbrief %s <url>", c.Command.Name), ExitUsageError)
	}

	a, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer a.Store.Close()

	url := c.Args().Get(0)
	if err := a.SetBookmark(url, bookmarked); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to update bookmark: %v", err), ExitDataError)
	}

	return outputJSON(map[string]interface{}{
		"success":    true,
		"url":        url,
		"bookmarked": bookmarked,
	})
}

func listBookmarks(c *cli.Context) error {
	a, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer a.Store.Close()

	set := a.Store.Bookmarks()
	urls := make([]string, 0, len(set))
	for u := range set {
		urls = append(urls, u)
	}

	return outputJSON(map[string]interface{}{
		"count":     len(urls),
		"bookmarks": urls,
	})
}

func importOPML(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: newsbrief import <opml-file>", ExitUsageError)
	}

	file, err := os.Open(c.Args().Get(0))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to open OPML file: %v", err), ExitDataError)
	}
	defer file.Close()

	sources, err := opml.Parse(file)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to parse OPML: %v", err), ExitDataError)
	}

	a, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer a.Store.Close()

	imported := 0
	skipped := 0
	var errors []string
	for _, src := range sources {
		if err := a.Registry.AddCustom(src); err != nil {
			skipped++
			errors = append(errors, fmt.Sprintf("%s: %v", src.FeedURL, err))
			continue
		}
		imported++
	}

	return outputJSON(map[string]interface{}{
		"success":  true,
		"imported": imported,
		"skipped":  skipped,
		"total":    len(sources),
		"errors":   errors,
	})
}

func exportOPML(c *cli.Context) error {
	a, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer a.Store.Close()

	sources := a.Registry.Load()

	outputPath := c.String("output")
	var writer io.Writer

	if outputPath == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(outputPath)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Failed to create output file: %v", err), ExitDataError)
		}
		defer file.Close()
		writer = file
	}

	if err := opml.Generate(writer, sources); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to generate OPML: %v", err), ExitDataError)
	}

	if outputPath != "" {
		return outputJSON(map[string]interface{}{
			"success": true,
			"file":    outputPath,
			"count":   len(sources),
		})
	}

	return nil
}
