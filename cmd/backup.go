package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

// --- Export Command ---

type exportCmd struct {
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the portfolio as a backup or a report" }
func (*exportCmd) Usage() string {
	return `pcs export [-f json|csv|md|html] [-o <file>]

  Writes the portfolio to a file, or to the standard output.

    json  a full backup, that 'pcs restore' reads back.
    csv   one row per holding followed by a cash summary, for spreadsheets.
    md    the summary report as markdown.
    html  the summary report as a standalone web page.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "f", "json", "Export format: json, csv, md or html")
	f.StringVar(&c.output, "o", "", "Output file, defaults to the standard output")
}

// exporters write a snapshot in each export format.
var exporters = map[string]func(io.Writer, folio.Portfolio) error{
	"json": folio.WriteBackup,
	"csv":  folio.WriteCSV,
	"md": func(w io.Writer, p folio.Portfolio) error {
		_, err := io.WriteString(w, renderer.SummaryMarkdown(p))
		return err
	},
	"html": func(w io.Writer, p folio.Portfolio) error {
		page, err := renderer.HTML("Portfolio Summary", renderer.SummaryMarkdown(p))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, page)
		return err
	},
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	export, ok := exporters[strings.ToLower(c.format)]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", c.format)
		f.Usage()
		return subcommands.ExitUsageError
	}

	s, err := openSession(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	w := stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}

	if err := export(w, s.tracker.Snapshot()); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// --- Restore Command ---

type restoreCmd struct {
	input string
}

func (*restoreCmd) Name() string     { return "restore" }
func (*restoreCmd) Synopsis() string { return "replace the portfolio with a backup" }
func (*restoreCmd) Usage() string {
	return `pcs restore -i <file>

  Replaces the whole portfolio with a JSON backup written by 'pcs export'.
  Backups of the browser version are accepted too.
`
}

func (c *restoreCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "Backup file to restore")
}

func (c *restoreCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.input == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	file, err := os.Open(c.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening backup %q: %v\n", c.input, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	p, err := folio.ReadBackup(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading backup %q: %v\n", c.input, err)
		return subcommands.ExitFailure
	}

	s, err := openSession(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if err := s.tracker.Restore(ctx, p); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Restored %d holdings, remaining cash is %s\n", p.Len(), p.RemainingCash())
	return subcommands.ExitSuccess
}
