package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/wxrport"
	"github.com/fwojciec/wxrport/crawl"
	"github.com/fwojciec/wxrport/sqlite"
)

// CLI defines the command-line interface structure for Kong.
// Every flag can also be set from a WXRPORT_ environment variable.
type CLI struct {
	DB      string `name:"db" help:"SQLite archive of runs; export also archives to it when set"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Export ExportCmd `cmd:"" default:"withargs" help:"Crawl a site and write its exports (default command)"`
	Runs   RunsCmd   `cmd:"" help:"List archived runs, newest first"`
	Items  ItemsCmd  `cmd:"" help:"List the items of an archived run"`
	Delete DeleteCmd `cmd:"" help:"Delete an archived run and its items"`
}

// ExportCmd is the "export" subcommand. It runs when no command is named.
type ExportCmd struct {
	Origin       string        `arg:"" optional:"" default:"${default_origin}" help:"Site origin to crawl"`
	Out          string        `short:"o" default:"output" help:"Output directory"`
	Settle       time.Duration `default:"4s" help:"Wait after each scroll for lazy content"`
	ClickTimeout time.Duration `default:"2s" help:"Timeout for each disclosure click"`
	LoadTimeout  time.Duration `default:"120s" help:"Timeout for each page load attempt"`
	Attempts     int           `default:"3" help:"Page load attempts before a URL is abandoned"`
	RPS          float64       `name:"rps" default:"1" help:"Page loads per second (0 disables the limit)"`
	Sitemap      bool          `help:"Also seed the crawl from robots.txt and sitemap.xml"`
	Markdown     bool          `help:"Also write one Markdown file per item"`
	Images       bool          `help:"Also write an image manifest (images.json)"`
}

// Validate returns an error if the flags are out of range.
func (c *ExportCmd) Validate() error {
	if c.Attempts < 1 {
		return wxrport.Errorf(wxrport.EINVALID, "--attempts must be at least 1")
	}
	if c.RPS < 0 {
		return wxrport.Errorf(wxrport.EINVALID, "--rps must not be negative")
	}
	if c.LoadTimeout <= 0 || c.ClickTimeout <= 0 {
		return wxrport.Errorf(wxrport.EINVALID, "timeouts must be positive")
	}
	if c.Settle < 0 {
		return wxrport.Errorf(wxrport.EINVALID, "--settle must not be negative")
	}
	return nil
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Limit int `short:"n" default:"20" help:"Maximum number of runs to list (0 lists all)"`
}

// ItemsCmd is the "items" subcommand.
type ItemsCmd struct {
	RunID  string `arg:"" name:"run-id" help:"Run ID, as printed by 'wxrport runs'"`
	Limit  int    `short:"n" help:"Maximum number of items to list (0 lists all)"`
	Offset int    `help:"Number of items to skip"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	RunID string `arg:"" name:"run-id" help:"Run ID, as printed by 'wxrport runs'"`
	Force bool   `help:"Confirm deletion"`
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Archive is set when --db is given.
	Archive *sqlite.Archive

	Site      *wxrport.Site
	Sitemaps  wxrport.SitemapService
	Crawler   *crawl.Crawler
	Exporters []wxrport.Exporter
}
