package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/nicolovejoy/audio-journal/internal/errors"
	"github.com/nicolovejoy/audio-journal/internal/ops"
	"github.com/nicolovejoy/audio-journal/internal/transcript"
	"github.com/nicolovejoy/audio-journal/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *ops.Env) *cli.App {
	app := &cli.App{
		Name:    "journal",
		Usage:   "Voice notes on disk: record, transcribe, search",
		Version: Version,
		Commands: []*cli.Command{
			recordCmd(env),
			importCmd(env),
			reprocessCmd(env),
			searchCmd(env),
			listCmd(env),
			showCmd(env),
			statusCmd(env),
			markSyncedCmd(env),
			webCmd(env),
		},
	}
	// Run returns errors to the caller; nothing exits inside the handler.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// recordCmd creates the record command.
func recordCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "record",
		Usage: "Record a new entry (Ctrl+C stops the take, then transcription runs)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "edit", Aliases: []string{"e"}, Usage: "Open the saved transcript in $EDITOR"},
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Record(c.Context, env, ops.RecordInput{Edit: c.Bool("edit")})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(output)
			}

			fmt.Println(paint(ansiGreen, "Journal entry saved!"))
			fmt.Printf("  key:        %s\n", output.Key)
			fmt.Printf("  audio:      %s\n", output.AudioPath)
			fmt.Printf("  transcript: %s\n", output.TranscriptPath)
			fmt.Printf("  duration:   %s   words: %d\n", transcript.FormatDuration(output.Duration), output.Words)
			if output.Degraded {
				warnDegraded()
			}
			return nil
		},
	}
}

// importCmd creates the import command.
func importCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import existing audio files or globs as journal entries",
		ArgsUsage: "[files or globs]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Import every audio file in a directory"},
			&cli.StringFlag{Name: "date", Usage: "Override the recording date: YYYY-MM-DD or \"YYYY-MM-DD HH:MM\""},
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Replace entries that already have a transcript"},
			&cli.BoolFlag{Name: "json", Usage: "Print the report as JSON"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(c.Context, env, ops.ImportInput{
				Paths: c.Args().Slice(),
				Dir:   c.String("dir"),
				Date:  c.String("date"),
				Force: c.Bool("force"),
			})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(output)
			}

			for _, f := range output.Imported {
				fmt.Printf("%s %d/%s  %s (%s, %d words)\n",
					paint(ansiGreen, "imported"), f.Year, f.Key, f.Source,
					transcript.FormatDuration(f.Duration), f.Words)
			}
			for _, e := range output.Errors {
				fmt.Printf("%s %s: [%s] %s\n", paint(ansiYellow, "skipped"), e.Path, e.Code, e.Message)
			}
			fmt.Printf("Imported %d, skipped %d.\n", len(output.Imported), output.Skipped)
			if output.Degraded {
				warnDegraded()
			}
			return nil
		},
	}
}

// reprocessCmd creates the reprocess command.
func reprocessCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "reprocess",
		Usage:     "Re-run transcription for existing entries (replaces their documents)",
		ArgsUsage: "[key]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "year", Aliases: []string{"y"}, Usage: "Reprocess every entry in a year"},
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Replace existing transcripts (required; discards manual notes)"},
			&cli.BoolFlag{Name: "json", Usage: "Print the report as JSON"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Reprocess(c.Context, env, ops.ReprocessInput{
				Key:   c.Args().First(),
				Year:  c.Int("year"),
				Force: c.Bool("force"),
			})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(output)
			}

			for _, e := range output.Processed {
				fmt.Printf("%s %d/%s (%d words)\n", paint(ansiGreen, "reprocessed"), e.Year, e.Key, e.Words)
			}
			for _, e := range output.Errors {
				fmt.Printf("%s %s: [%s] %s\n", paint(ansiYellow, "skipped"), e.Key, e.Code, e.Message)
			}
			fmt.Printf("Reprocessed %d, skipped %d.\n", len(output.Processed), output.Skipped)
			return nil
		},
	}
}

// searchCmd creates the search command.
func searchCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search transcripts (term is a case-insensitive regex)",
		ArgsUsage: "<term>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "year", Aliases: []string{"y"}, Usage: "Restrict to one year"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum matches to return"},
			&cli.BoolFlag{Name: "verbose", Usage: "Show surrounding context lines"},
			&cli.IntFlag{Name: "context", Aliases: []string{"C"}, Usage: "Context lines either side in verbose output"},
			&cli.BoolFlag{Name: "audio", Usage: "Print matching entries' audio paths instead of snippets"},
			&cli.BoolFlag{Name: "json", Usage: "Print matches as JSON"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Search(env, ops.SearchInput{
				Term:      strings.Join(c.Args().Slice(), " "),
				Year:      c.Int("year"),
				Limit:     c.Int("limit"),
				Verbose:   c.Bool("verbose"),
				Context:   c.Int("context"),
				WithAudio: c.Bool("audio"),
			})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(output)
			}

			if c.Bool("audio") {
				seen := map[string]bool{}
				for _, m := range output.Matches {
					if m.AudioPath != "" && !seen[m.AudioPath] {
						seen[m.AudioPath] = true
						fmt.Println(m.AudioPath)
					}
				}
				return nil
			}

			for _, m := range output.Matches {
				fmt.Printf("%s (line %d)\n", paint(ansiCyan, fmt.Sprintf("%d/%s", m.Year, m.Key)), m.Line)
				for _, line := range strings.Split(m.Snippet, "\n") {
					fmt.Printf("    %s\n", line)
				}
			}
			fmt.Printf("%d match(es) for %q.\n", output.Total, output.Term)
			return nil
		},
	}
}

// listCmd creates the list command.
func listCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List entries, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "year", Aliases: []string{"y"}, Usage: "Restrict to one year"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum entries to show"},
			&cli.BoolFlag{Name: "json", Usage: "Print entries as JSON"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(env, ops.ListInput{
				Year:  c.Int("year"),
				Limit: c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(output)
			}

			for _, item := range output.Items {
				marks := ""
				if item.Synced {
					marks += " synced"
				}
				if item.Reprocessed {
					marks += " reprocessed"
				}
				fmt.Printf("%s  %s  %6s  %9s  %5d words%s\n",
					paint(ansiCyan, fmt.Sprintf("%d/%-13s", item.Year, item.Key)),
					item.Date.Format("2006-01-02 15:04"),
					transcript.FormatDuration(item.Duration),
					humanize.Bytes(uint64(item.Size)),
					item.Words, marks)
			}
			if output.Total > len(output.Items) {
				fmt.Printf("Showing %d of %d entries.\n", len(output.Items), output.Total)
			}
			return nil
		},
	}
}

// showCmd creates the show command.
func showCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print one entry's transcript document",
		ArgsUsage: "<key>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print the entry as JSON"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Show(env, ops.ShowInput{Key: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(output)
			}
			fmt.Print(output.Content)
			return nil
		},
	}
}

// statusCmd creates the status command.
func statusCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the sync overview: manifest versus entries on disk",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print the overview as JSON"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Status(env)
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(output)
			}

			fmt.Printf("Journal: %s\n", output.JournalDir)
			fmt.Printf("  entries:     %d\n", output.Entries)
			fmt.Printf("  tracked:     %d\n", output.Tracked)
			fmt.Printf("  synced:      %d\n", output.Synced)
			fmt.Printf("  reprocessed: %d\n", output.Reprocessed)
			printKeyGroup("Unsynced", output.Unsynced)
			printKeyGroup("Untracked", output.Untracked)
			printKeyGroup("Orphaned", output.Orphaned)
			return nil
		},
	}
}

// markSyncedCmd creates the mark-synced command.
func markSyncedCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "mark-synced",
		Usage:     "Flag entries as synced after copying them elsewhere",
		ArgsUsage: "[keys]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Mark every tracked entry"},
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.MarkSynced(env, ops.MarkSyncedInput{
				Keys: c.Args().Slice(),
				All:  c.Bool("all"),
			})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(output)
			}
			fmt.Printf("Marked %d entr%s synced.\n", output.Marked, plural(output.Marked, "y", "ies"))
			return nil
		},
	}
}

// webCmd creates the web command.
func webCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the read-only browse UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "Bind host (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Bind port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			host := c.String("host")
			if host == "" {
				host = env.Cfg.WebHost
			}
			port := c.Int("port")
			if port == 0 {
				port = env.Cfg.WebPort
			}
			addr := net.JoinHostPort(host, strconv.Itoa(port))
			if err := web.Run(c.Context, env, addr, Version); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// Helper functions

// ANSI output is for humans; piped stdout stays plain.
const (
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiReset  = "\033[0m"
)

var colorEnabled = stdoutIsTerminal()

func paint(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + ansiReset
}

func stdoutIsTerminal() bool {
	stat, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats an error for the terminal: code and diagnosis on one
// line, the remedy hint on the next.
func outputError(err error) error {
	if jErr, ok := err.(*errors.JournalError); ok {
		msg := fmt.Sprintf("[%s] %s", jErr.Code, jErr.Message)
		if jErr.Remedy != "" {
			msg += "\n  hint: " + jErr.Remedy
		}
		return cli.Exit(msg, 1)
	}
	return cli.Exit(err.Error(), 1)
}

// warnDegraded notes that an entry was saved without a real transcript.
// Degraded runs still exit zero; the audio and document are on disk.
func warnDegraded() {
	fmt.Fprintln(os.Stderr, paint(ansiYellow,
		"warning: whisper is not installed, transcript is a placeholder (pip install openai-whisper, then run reprocess)"))
}

func printKeyGroup(label string, keys []string) {
	fmt.Printf("%s (%d)\n", label, len(keys))
	for _, k := range keys {
		fmt.Printf("  %s\n", k)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
