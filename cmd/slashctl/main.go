package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/slashurl/slash/pkg/slash/database"
	"github.com/slashurl/slash/pkg/slash/importexport"
	"github.com/slashurl/slash/pkg/slash/links"
	"github.com/slashurl/slash/pkg/slash/stats"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "error: load .env:", err)
		os.Exit(1)
	}
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "slashctl",
		Usage: "manage a Slash database from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "database URL",
				Value:   "sqlite:///slash.db",
				EnvVars: []string{"DB_URL"},
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "public base URL used for short links",
				Value:   "http://localhost:8000",
				EnvVars: []string{"BASE_URL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "apply database migrations",
				Action: migrateAction,
			},
			{
				Name:  "links",
				Usage: "create, list and delete links",
				Subcommands: []*cli.Command{
					{
						Name:      "create",
						Usage:     "create a link",
						ArgsUsage: "<url>",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "slug", Usage: "custom slug"},
							&cli.StringFlag{Name: "title", Usage: "link title"},
							&cli.StringFlag{Name: "expires-at", Usage: "expiry time (RFC 3339)"},
							&cli.Int64Flag{Name: "max-clicks", Usage: "redirect limit"},
							&cli.BoolFlag{Name: "inactive", Usage: "create the link disabled"},
						},
						Action: createLinkAction,
					},
					{
						Name:  "list",
						Usage: "list links, newest first",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "limit", Value: links.DefaultListLimit, Usage: "maximum number of links"},
						},
						Action: listLinksAction,
					},
					{
						Name:      "delete",
						Usage:     "delete links by slug",
						ArgsUsage: "<slug>...",
						Action:    deleteLinksAction,
					},
				},
			},
			{
				Name:      "stats",
				Usage:     "show click statistics for a link",
				ArgsUsage: "<slug>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "start of range (RFC 3339 or YYYY-MM-DD)"},
					&cli.StringFlag{Name: "to", Usage: "end of range, exclusive"},
					&cli.StringFlag{Name: "top", Usage: "number of referrers"},
				},
				Action: statsAction,
			},
			{
				Name:   "export",
				Usage:  "write all links as JSON",
				Action: exportAction,
			},
			{
				Name:      "import",
				Usage:     "create links from an export file",
				ArgsUsage: "<file>",
				Action:    importAction,
			},
		},
	}
}

// openDB connects and migrates the database named by the --db flag.
func openDB(c *cli.Context) (*gorm.DB, error) {
	db, err := database.Connect(database.Config{URL: c.String("db")})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, nil); err != nil {
		database.Close(db)
		return nil, err
	}
	return db, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func migrateAction(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close(db)

	version, err := database.Version(db)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "database at version %d (%s)\n", version, database.Dialect(db))
	return nil
}

func createLinkAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("usage: slashctl links create <url>")
	}
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close(db)

	req := links.CreateLinkRequest{URL: c.Args().First()}
	if c.IsSet("slug") {
		req.Slug = links.Value(c.String("slug"))
	}
	if c.IsSet("title") {
		req.Title = links.Value(c.String("title"))
	}
	if c.IsSet("expires-at") {
		req.ExpiresAt = links.Value(c.String("expires-at"))
	}
	if c.IsSet("max-clicks") {
		req.MaxClicks = links.Value(c.Int64("max-clicks"))
	}
	if c.Bool("inactive") {
		req.IsActive = links.Value(false)
	}

	svc := links.NewService(db)
	link, err := svc.CreateLink(c.Context, req)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, links.NewHandler(svc, c.String("base-url")).ToResponse(link))
}

func listLinksAction(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close(db)

	svc := links.NewService(db)
	rows, total, err := svc.ListLinks(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}

	h := links.NewHandler(svc, c.String("base-url"))
	resp := links.ListResponse{Links: make([]links.LinkResponse, len(rows)), Total: total, Limit: c.Int("limit")}
	for i := range rows {
		resp.Links[i] = h.ToResponse(&rows[i])
	}
	return printJSON(c.App.Writer, resp)
}

func deleteLinksAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("usage: slashctl links delete <slug>...")
	}
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close(db)

	deleted, err := links.NewService(db).DeleteLinks(c.Context, c.Args().Slice())
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, links.BulkDeleteResponse{Deleted: deleted})
}

func statsAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("usage: slashctl stats <slug>")
	}
	filters, err := stats.ParseFilters(c.String("from"), c.String("to"), c.String("top"))
	if err != nil {
		return err
	}
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close(db)

	report, err := stats.NewService(db, nil, 0).GetStats(c.Context, c.Args().First(), filters)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, report)
}

func exportAction(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close(db)

	data, err := importexport.Export(c.Context, db)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, data)
}

func importAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("usage: slashctl import <file>")
	}
	raw, err := os.ReadFile(c.Args().First())
	if err != nil {
		return err
	}
	var entries []importexport.ExportLink
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("decode %s: %w", c.Args().First(), err)
	}

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close(db)

	result := importexport.Import(c.Context, links.NewService(db), entries, time.Now().UTC())
	return printJSON(c.App.Writer, result)
}
