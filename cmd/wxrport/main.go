package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/wxrport"
	"github.com/fwojciec/wxrport/crawl"
	"github.com/fwojciec/wxrport/etree"
	"github.com/fwojciec/wxrport/fs"
	"github.com/fwojciec/wxrport/goquery"
	"github.com/fwojciec/wxrport/htmltomarkdown"
	wxrhttp "github.com/fwojciec/wxrport/http"
	"github.com/fwojciec/wxrport/rod"
	wxrslog "github.com/fwojciec/wxrport/slog"
	"github.com/fwojciec/wxrport/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// WXRFile is the name of the export document inside the output directory.
const WXRFile = "import.xml"

// Main represents the program.
type Main struct {
	// NewNavigator starts the page navigator. Defaults to a headless browser.
	NewNavigator func(loadTimeout time.Duration) (wxrport.Navigator, error)

	// HTTPClient is used for sitemap discovery. Nil means http.DefaultClient.
	HTTPClient *http.Client
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		NewNavigator: func(loadTimeout time.Duration) (wxrport.Navigator, error) {
			return rod.NewNavigator(rod.WithLoadTimeout(loadTimeout))
		},
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("wxrport"),
		kong.Description("Crawl a Wix site and write a WordPress WXR import file"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.DefaultEnvars("WXRPORT"),
		kong.Vars{"default_origin": wxrport.DefaultOrigin},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags. Exit is a no-op, so Parse must not go on to run
	// a command after printing help.
	if len(args) == 1 && args[0] == "help" {
		args = []string{"--help"}
	}
	if slices.Contains(args, "--help") || slices.Contains(args, "-h") {
		_, _ = parser.Parse(args)
		return nil
	}

	// Parse also runs ExportCmd.Validate.
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if cli.DB != "" {
		db := sqlite.NewDB(cli.DB)
		if err := db.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set WXRPORT_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		defer db.Close()
		deps.Archive = sqlite.NewArchive(db)
	}

	if strings.HasPrefix(kctx.Command(), "export") {
		closeNavigator, err := m.wireExport(&cli.Export, deps)
		if err != nil {
			return err
		}
		defer closeNavigator()
	}

	return kctx.Run(deps)
}

// wireExport builds the crawl pipeline and the exporters of the export
// command. The returned function closes the navigator.
func (m *Main) wireExport(c *ExportCmd, deps *Dependencies) (func() error, error) {
	logger := deps.Logger

	site, err := wxrport.NewSite(c.Origin)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wxrport.ErrorMessage(err))
		return nil, err
	}
	deps.Site = site

	// A nil interface disables rate limiting.
	var limiter wxrport.DomainLimiter
	if c.RPS > 0 {
		limiter = crawl.NewDomainLimiter(c.RPS)
	}

	if c.Sitemap {
		client := m.HTTPClient
		if client == nil {
			client = http.DefaultClient
		}
		var opts []wxrhttp.Option
		if limiter != nil {
			opts = append(opts, wxrhttp.WithRateLimiter(limiter))
		}
		deps.Sitemaps = wxrslog.NewLoggingSitemapService(wxrhttp.NewSitemapService(site, client, opts...), logger)
	}

	// Exporters
	wxr := etree.NewExporter(filepath.Join(c.Out, WXRFile), logger)
	deps.Exporters = append(deps.Exporters, wxrslog.NewLoggingExporter(wxr, logger))
	if c.Markdown {
		conv := htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(site.Origin))
		md := fs.NewMarkdownExporter(c.Out, conv, logger)
		deps.Exporters = append(deps.Exporters, wxrslog.NewLoggingExporter(md, logger))
	}
	if c.Images {
		deps.Exporters = append(deps.Exporters, wxrslog.NewLoggingExporter(fs.NewImageManifestExporter(c.Out), logger))
	}
	if deps.Archive != nil {
		deps.Exporters = append(deps.Exporters, wxrslog.NewLoggingExporter(deps.Archive, logger))
	}

	nav, err := m.NewNavigator(c.LoadTimeout)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	navigator := wxrslog.NewLoggingNavigator(nav, logger)

	expander := crawl.NewExpander(navigator, site.DisclosureSelector, logger)
	expander.Settle = c.Settle
	expander.ClickTimeout = c.ClickTimeout

	deps.Crawler = &crawl.Crawler{
		Site:        site,
		Navigator:   navigator,
		Expander:    expander,
		Extractor:   goquery.NewExtractor(),
		Resolver:    goquery.NewMetadataResolver(),
		Links:       goquery.NewLinkExtractor(),
		RateLimiter: limiter,
		RetryDelays: crawl.RetryDelaysFor(c.Attempts),
		Logger:      logger,
	}
	return nav.Close, nil
}
