// Command popdict looks up words against the remote dictionary service and
// prints the merged entries as JSON.
//
// Usage:
//
//	popdict -text 食べた
//	echo "食べた" | popdict
//	popdict -url https://example.com/article
//	popdict -login user@example.com         (password read from POPDICT_PASSWORD)
//	popdict -profile
//	popdict -save 123 -lang ja
//	popdict -request 123 -lang ja
//	popdict -recent 10
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ajito/popdict/pkg/api"
	"github.com/ajito/popdict/pkg/article"
	"github.com/ajito/popdict/pkg/config"
	"github.com/ajito/popdict/pkg/deinflect"
	"github.com/ajito/popdict/pkg/history"
	"github.com/ajito/popdict/pkg/language"
	"github.com/ajito/popdict/pkg/scan"
)

func main() {
	textFlag := flag.String("text", "", "text to look up (default: stdin)")
	fileFlag := flag.String("f", "", "file to read the lookup text from")
	urlFlag := flag.String("url", "", "URL to extract readable text from and look up")
	loginFlag := flag.String("login", "", "sign in with this email; password comes from POPDICT_PASSWORD")
	profileFlag := flag.Bool("profile", false, "print the signed-in user profile")
	saveFlag := flag.Int64("save", 0, "add the given question id to flashcards")
	requestFlag := flag.Int64("request", 0, "submit a word request for the given question id")
	langFlag := flag.String("lang", "", "language for -save / -request (default: configured default)")
	recentFlag := flag.Int("recent", 0, "print the N most recent lookups from history")
	flag.Parse()

	// A .env next to the binary is convenient during development; absence
	// is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	logger := config.NewLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client, err := api.New(cfg, logger)
	if err != nil {
		fatal(err)
	}

	switch {
	case *loginFlag != "":
		signIn(ctx, client, *loginFlag)
		return
	case *profileFlag:
		profile, err := client.Profile(ctx)
		if err != nil {
			fatal(err)
		}
		printJSON(profile)
		return
	case *saveFlag > 0:
		if err := client.AddFlashcard(ctx, *saveFlag, actionLang(cfg, *langFlag)); err != nil {
			fatal(err)
		}
		fmt.Println("saved")
		return
	case *requestFlag > 0:
		if err := client.RequestWord(ctx, *requestFlag, actionLang(cfg, *langFlag)); err != nil {
			fatal(err)
		}
		fmt.Println("requested")
		return
	case *recentFlag > 0:
		printRecent(ctx, cfg, *recentFlag)
		return
	}

	text, err := lookupText(ctx, *textFlag, *fileFlag, *urlFlag)
	if err != nil {
		fatal(err)
	}

	provider, err := deinflect.NewKagome()
	if err != nil {
		logger.Warn("morphological analyzer unavailable, raw-text lookups only", slog.Any("error", err))
		provider = nil
	}
	catalog := language.NewCatalog(client.SupportedLanguages, logger)
	scanner := scan.New(cfg, client, providerOrNil(provider), catalog, logger)

	res, err := scanner.FindTerms(ctx, text)
	if err != nil {
		fatal(err)
	}

	recordHistory(ctx, cfg, logger, text, res)
	printJSON(res)
}

// providerOrNil keeps a typed-nil *Kagome from sneaking into the Provider
// interface.
func providerOrNil(k *deinflect.Kagome) deinflect.Provider {
	if k == nil {
		return nil
	}
	return k
}

func signIn(ctx context.Context, client *api.Client, email string) {
	password := os.Getenv("POPDICT_PASSWORD")
	if password == "" {
		fatal(fmt.Errorf("set POPDICT_PASSWORD to sign in"))
	}
	res, err := client.SignIn(ctx, email, password)
	if err != nil {
		fatal(err)
	}
	fmt.Fprintf(os.Stderr, "signed in as %s\n", res.User.Email)
	fmt.Printf("POPDICT_AUTH_TOKEN=%s\n", res.Token)
}

func actionLang(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	return cfg.DefaultLanguage
}

func lookupText(ctx context.Context, text, file, url string) (string, error) {
	switch {
	case text != "":
		return text, nil
	case url != "":
		a, err := article.Fetch(ctx, url)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(os.Stderr, "extracted %q (%d chars)\n", a.Title, len(a.Text))
		return a.Text, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

func recordHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, text string, res *scan.Result) {
	if cfg.HistoryPath == "" || strings.TrimSpace(text) == "" {
		return
	}
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		logger.Warn("history unavailable", slog.Any("error", err))
		return
	}
	defer store.Close()
	if _, err := store.RecordLookup(ctx, text, res); err != nil {
		logger.Warn("record lookup failed", slog.Any("error", err))
	}
}

func printRecent(ctx context.Context, cfg *config.Config, limit int) {
	if cfg.HistoryPath == "" {
		fatal(fmt.Errorf("history is disabled (history_path is empty)"))
	}
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	lookups, err := store.RecentLookups(ctx, limit)
	if err != nil {
		fatal(err)
	}
	printJSON(lookups)
}

// printJSON writes v to stdout without escaping <, >, & so glossary text
// survives round trips.
func printJSON(v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatal(err)
	}
	os.Stdout.Write(buf.Bytes())
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "popdict:", err)
	os.Exit(1)
}
