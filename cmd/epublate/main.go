// Command epublate converts an EPUB into a single merged HTML document
// and optionally translates it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZaguanLabs/epublate"
	"github.com/ZaguanLabs/epublate/cache"
	"github.com/ZaguanLabs/epublate/epub"
	"github.com/ZaguanLabs/epublate/provider"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "canceled")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("epublate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	outDir := fs.String("out", "epub_export", "Output directory")
	targetLang := fs.String("lang", "it", "Target language code (e.g., it, en, fr)")
	sourceLang := fs.String("source", "", "Source language code (default: book metadata, else detected)")
	payload := fs.Int("payload", epublate.DefaultMaxPayload, "Max payload per request in characters (1200-6500)")
	throttle := fs.Int("throttle", 20, "Pause between translated blocks in milliseconds")
	blocks := fs.String("blocks", "p,li,h", "Block categories to translate: p,li,h,table,caption,quote")
	providerName := fs.String("provider", "google", "Translation provider: google or openai")
	apiKey := fs.String("api-key", "", "OpenAI API key (default: OPENAI_API_KEY env)")
	model := fs.String("model", "", "OpenAI model")
	rpm := fs.Int("rpm", 0, "Max provider requests per minute (0 = unlimited)")
	cacheTTL := fs.Int("cache-ttl", 0, "Translation cache TTL in seconds (0 = process lifetime)")
	redisURL := fs.String("redis", "", "Redis URL for a shared translation cache (default: in-memory)")
	noChess := fs.Bool("no-chess", false, "Translate chess notation like any other text")
	noExport := fs.Bool("no-export", false, "Skip exporting images/css resources")
	noTranslate := fs.Bool("no-translate", false, "Only merge to full.html, skip translation")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	showVersion := fs.Bool("version", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", epublate.Name, epublate.FullVersion())
		if epublate.BuildDate != "unknown" && epublate.BuildDate != "" {
			fmt.Fprintf(stdout, "  built: %s\n", epublate.BuildDate)
		}
		return nil
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("exactly one EPUB file is required")
	}

	categories, err := parseBlocks(*blocks)
	if err != nil {
		return err
	}

	epubPath := fs.Arg(0)
	book, err := epub.Open(epubPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if !*noExport {
		if !*quiet {
			fmt.Fprintln(stderr, "Exporting resources...")
		}
		if err := book.ExportResources(*outDir); err != nil {
			return fmt.Errorf("exporting resources: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if !*quiet {
		fmt.Fprintln(stderr, "Merging chapters...")
	}
	merged, err := book.Merge()
	if err != nil {
		return fmt.Errorf("merging: %w", err)
	}

	fullPath := filepath.Join(*outDir, "full.html")
	if err := os.WriteFile(fullPath, []byte(merged), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", fullPath, err)
	}
	if !*quiet {
		fmt.Fprintf(stderr, "Created %s\n", fullPath)
	}

	if *noTranslate {
		return nil
	}

	source := resolveSourceLang(*sourceLang, book, stderr, *quiet)

	p, err := buildProvider(*providerName, *apiKey, *model, source, *rpm)
	if err != nil {
		return err
	}

	translationCache, closeCache, err := buildCache(*redisURL, *cacheTTL)
	if err != nil {
		return err
	}
	defer closeCache()

	opts := []epublate.Option{
		epublate.WithCache(translationCache),
		epublate.WithBlocks(categories),
		epublate.WithMaxPayload(*payload),
		epublate.WithThrottle(time.Duration(*throttle) * time.Millisecond),
	}
	if source != "" {
		opts = append(opts, epublate.WithSourceLang(source))
	}
	if *noChess {
		opts = append(opts, epublate.WithGuard(nil))
	}
	if !*quiet {
		opts = append(opts, epublate.WithProgress(func(done, total int, label string) {
			pct := 0.0
			if total > 0 {
				pct = float64(done) / float64(total) * 100
			}
			fmt.Fprintf(stderr, "\r%d/%d (%.1f%%) %-28s", done, total, pct, label)
		}))
	}

	translator := epublate.NewTranslator(*targetLang, p, opts...)

	if translator.IsSourceLang() {
		if !*quiet {
			fmt.Fprintf(stderr, "Book is already in %s, nothing to translate.\n", epublate.GetLanguageName(*targetLang))
		}
		return nil
	}

	if !*quiet {
		fmt.Fprintf(stderr, "Translating to %s...\n", epublate.GetLanguageName(*targetLang))
	}

	start := time.Now()
	result, err := translator.TranslateDocument(ctx, merged)
	if !*quiet {
		fmt.Fprintln(stderr)
	}
	if err != nil {
		return err
	}

	outPath := filepath.Join(*outDir, "full_"+*targetLang+".html")
	if err := os.WriteFile(outPath, []byte(result.Content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	if !*quiet {
		fmt.Fprintf(stderr, "Done in %v\n", time.Since(start).Round(time.Millisecond))
		fmt.Fprintf(stderr, "  Blocks:      %d (%d translated, %d skipped)\n",
			result.Blocks, result.TranslatedBlocks, result.SkippedBlocks)
		fmt.Fprintf(stderr, "  Requests:    %d\n", result.Requests)
		fmt.Fprintf(stderr, "  From cache:  %d\n", result.CacheHits)
	}

	fmt.Fprintln(stdout, outPath)
	return nil
}

// parseBlocks turns the comma-separated -blocks value into categories.
func parseBlocks(s string) (epublate.BlockCategories, error) {
	var c epublate.BlockCategories
	for _, token := range strings.Split(s, ",") {
		switch strings.TrimSpace(strings.ToLower(token)) {
		case "":
		case "p":
			c.Paragraphs = true
		case "li":
			c.ListItems = true
		case "h":
			c.Headings = true
		case "table":
			c.TableCells = true
		case "caption":
			c.Captions = true
		case "quote":
			c.Blockquotes = true
		default:
			return c, fmt.Errorf("unknown block category %q (expected p,li,h,table,caption,quote)", token)
		}
	}
	return c, nil
}

// resolveSourceLang picks the source language: explicit flag, then book
// metadata, then content detection.
func resolveSourceLang(explicit string, book *epub.Book, stderr io.Writer, quiet bool) string {
	if explicit != "" {
		return explicit
	}
	if book.Language != "" {
		return book.Language
	}
	if code, ok := epublate.DetectLanguage(book.SampleText(2000)); ok {
		if !quiet {
			fmt.Fprintf(stderr, "Detected source language: %s\n", epublate.GetLanguageName(code))
		}
		return code
	}
	return ""
}

func buildProvider(name, apiKey, model, sourceLang string, rpm int) (epublate.Provider, error) {
	var p epublate.Provider

	switch name {
	case "google":
		p = provider.NewGoogleProvider(provider.GoogleConfig{SourceLang: sourceLang})
	case "openai":
		key := apiKey
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("OpenAI API key required (-api-key or OPENAI_API_KEY env)")
		}
		p = provider.NewOpenAIProvider(provider.OpenAIConfig{APIKey: key, Model: model})
	default:
		return nil, fmt.Errorf("unknown provider %q (expected google or openai)", name)
	}

	if rpm > 0 {
		p = epublate.NewRateLimitedProvider(p, epublate.RateLimitConfig{RequestsPerMinute: rpm})
	}
	return p, nil
}

func buildCache(redisURL string, ttl int) (epublate.TranslationCache, func(), error) {
	if redisURL == "" {
		return cache.NewMemoryCache(ttl), func() {}, nil
	}

	rc, err := cache.NewRedisCache(cache.RedisConfig{URL: redisURL, TTL: ttl})
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to Redis: %w", err)
	}
	return rc, func() { _ = rc.Close() }, nil
}
