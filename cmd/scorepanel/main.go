// Command scorepanel prints dashboard reports from the assessment workbook
// without starting the web server.
//
//	scorepanel -data Dados_RJ.xlsx regionals
//	scorepanel report -view redacao -regional "Regional X" -format csv -out redacao.csv
//	scorepanel chart -view objetivas -regional "Regional X" -search escola -out objetivas.png
//
// Every root flag may also be set as SCOREPANEL_<FLAG>, e.g. SCOREPANEL_DATA.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"scorepanel/internal/config"
	"scorepanel/internal/dataprocessing"
	"scorepanel/internal/dataset"
	"scorepanel/internal/exporter"
	"scorepanel/internal/infrastructure"
	"scorepanel/internal/services"
	"scorepanel/internal/validation"
	"scorepanel/pkg/contracts"
	"scorepanel/pkg/contracts/domain"
)

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// rootConfig holds the flags shared by every subcommand
type rootConfig struct {
	data       string
	configFile string
	logLevel   string

	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := &rootConfig{stdout: stdout, stderr: stderr}

	fs := flag.NewFlagSet("scorepanel", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&root.data, "data", "", "workbook, CSV file or directory to read (default from config)")
	fs.StringVar(&root.configFile, "config", "", "YAML config file")
	fs.StringVar(&root.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	cmd := &ffcli.Command{
		Name:       "scorepanel",
		ShortUsage: "scorepanel [flags] <subcommand> [flags]",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix(config.EnvPrefix)},
		Subcommands: []*ffcli.Command{
			root.regionalsCommand(),
			root.viewsCommand(),
			root.schoolsCommand(),
			root.reportCommand(),
			root.chartCommand(),
			root.versionCommand(),
		},
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
	}

	return cmd.ParseAndRun(infrastructure.EnsureTraceID(ctx), args)
}

func (c *rootConfig) service() (*services.ReportService, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.configFile != "" {
		cfg, err = config.LoadFrom(c.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if c.data != "" {
		cfg.Data.SourcePath = c.data
	}

	logger := infrastructure.NewLogger(c.stderr, c.logLevel, false)
	if err := validation.NewFileValidator(logger).ValidateSource(config.ResolveDataPath(cfg.Data.SourcePath)); err != nil {
		return nil, err
	}
	return services.NewReportService(cfg, dataset.NewLoader(logger, nil), nil, logger), nil
}

func (c *rootConfig) regionalsCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "regionals",
		ShortUsage: "scorepanel regionals",
		ShortHelp:  "List the regionals found in the data source",
		Exec: func(ctx context.Context, _ []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			regionals, err := svc.Regionals(ctx)
			if err != nil {
				return err
			}
			for _, r := range regionals {
				fmt.Fprintln(c.stdout, r)
			}
			return nil
		},
	}
}

func (c *rootConfig) viewsCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "views",
		ShortUsage: "scorepanel views",
		ShortHelp:  "List the report views",
		Exec: func(ctx context.Context, _ []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}

			tw := newTable(c.stdout, []string{"View", "Title", "Sheet", "Chart"})
			for _, v := range svc.Views() {
				chart := "no"
				if v.Chart {
					chart = "yes"
				}
				tw.Append([]string{string(v.ID), v.Title, v.Sheet, chart})
			}
			tw.Render()
			return nil
		},
	}
}

// selectionFlags registers the flags that pick a view, regional and school
func selectionFlags(fs *flag.FlagSet, sel *domain.Selection) {
	fs.Func("view", "view id (redacao, objetivas, participacao, acessos)", func(s string) error {
		sel.View = domain.ViewID(strings.TrimSpace(s))
		return nil
	})
	fs.StringVar(&sel.Regional, "regional", "", "regional name")
	fs.StringVar(&sel.School, "school", "", "school to chart (default: first in the selector)")
	fs.StringVar(&sel.Search, "search", "", "case-insensitive school name fragment")
}

func checkSelection(sel domain.Selection) error {
	if sel.View == "" {
		return fmt.Errorf("-view is required")
	}
	if strings.TrimSpace(sel.Regional) == "" {
		return fmt.Errorf("-regional is required")
	}
	if len(sel.Search) > config.MaxSearchLength {
		return fmt.Errorf("-search must be at most %d characters", config.MaxSearchLength)
	}
	return nil
}

func (c *rootConfig) schoolsCommand() *ffcli.Command {
	var sel domain.Selection
	fs := flag.NewFlagSet("scorepanel schools", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	selectionFlags(fs, &sel)

	return &ffcli.Command{
		Name:       "schools",
		ShortUsage: "scorepanel schools -view <id> -regional <name>",
		ShortHelp:  "List the schools selectable for a view",
		FlagSet:    fs,
		Exec: func(ctx context.Context, _ []string) error {
			if err := checkSelection(sel); err != nil {
				return err
			}
			svc, err := c.service()
			if err != nil {
				return err
			}
			opts, err := svc.Schools(ctx, sel.View, sel.Regional)
			if err != nil {
				return err
			}
			c.printNotices(opts.Notices)
			for _, s := range opts.Schools {
				fmt.Fprintln(c.stdout, s)
			}
			return nil
		},
	}
}

func (c *rootConfig) reportCommand() *ffcli.Command {
	var (
		sel       domain.Selection
		format    string
		out       string
		delimiter string
		summary   bool
		bom       bool
	)
	fs := flag.NewFlagSet("scorepanel report", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	selectionFlags(fs, &sel)
	fs.StringVar(&format, "format", "table", "output format: table, csv or json")
	fs.StringVar(&out, "out", "", "write to this file instead of stdout")
	fs.StringVar(&delimiter, "delimiter", ";", "CSV field delimiter")
	fs.BoolVar(&summary, "summary", false, "print column statistics after the table")
	fs.BoolVar(&bom, "bom", true, "start CSV output with a UTF-8 byte order mark")

	return &ffcli.Command{
		Name:       "report",
		ShortUsage: "scorepanel report -view <id> -regional <name> [flags]",
		ShortHelp:  "Print the table of a view for a regional",
		FlagSet:    fs,
		Exec: func(ctx context.Context, _ []string) (err error) {
			if err := checkSelection(sel); err != nil {
				return err
			}
			if format != "table" && format != "csv" && format != "json" {
				return fmt.Errorf("unsupported format %q", format)
			}
			if len([]rune(delimiter)) != 1 {
				return fmt.Errorf("-delimiter must be a single character")
			}

			svc, err := c.service()
			if err != nil {
				return err
			}
			report, err := svc.Build(ctx, sel)
			if err != nil {
				return err
			}
			c.printNotices(report.Notices)

			w, closeOut, err := c.output(out)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := closeOut(); cerr != nil && err == nil {
					err = fmt.Errorf("failed to write %s: %w", out, cerr)
				}
			}()

			switch format {
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case "csv":
				if report.Table == nil {
					return nil
				}
				csvWriter := exporter.NewCSVWriter([]rune(delimiter)[0])
				if !bom {
					csvWriter = csvWriter.WithoutBOM()
				}
				return csvWriter.WriteTable(w, report.Table)
			default:
				if report.Table == nil {
					return nil
				}
				writeTable(w, report.Table)
				if summary {
					writeSummary(w, report.Table.Summary)
				}
				return nil
			}
		},
	}
}

func (c *rootConfig) chartCommand() *ffcli.Command {
	var (
		sel    domain.Selection
		format string
		out    string
	)
	fs := flag.NewFlagSet("scorepanel chart", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	selectionFlags(fs, &sel)
	fs.StringVar(&format, "format", exporter.FormatPNG, "image format: png or svg")
	fs.StringVar(&out, "out", "", "image file to write (required)")

	return &ffcli.Command{
		Name:       "chart",
		ShortUsage: "scorepanel chart -view <id> -regional <name> -out <file> [flags]",
		ShortHelp:  "Render the chart of a school against its regional",
		FlagSet:    fs,
		Exec: func(ctx context.Context, _ []string) error {
			if err := checkSelection(sel); err != nil {
				return err
			}
			if out == "" {
				return fmt.Errorf("-out is required")
			}
			if !exporter.ValidFormat(format) {
				return fmt.Errorf("unsupported chart format %q", format)
			}

			svc, err := c.service()
			if err != nil {
				return err
			}
			v, err := svc.View(sel.View)
			if err != nil {
				return err
			}
			if !v.Chart {
				return fmt.Errorf("view %s has no chart", v.ID)
			}

			report, err := svc.Build(ctx, sel)
			if err != nil {
				return err
			}
			c.printNotices(report.Notices)
			if report.Chart == nil {
				return fmt.Errorf("nothing to chart for %s in %s", v.ID, sel.Regional)
			}

			f, closeOut, err := c.output(out)
			if err != nil {
				return err
			}
			if err := exporter.NewChartRenderer(v).Render(f, report.Chart, format); err != nil {
				closeOut()
				return err
			}
			if err := closeOut(); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(c.stdout, "%s: %s\n", report.Chart.Title, out)
			return nil
		},
	}
}

func (c *rootConfig) versionCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "version",
		ShortUsage: "scorepanel version",
		ShortHelp:  "Print build information",
		Exec: func(context.Context, []string) error {
			fmt.Fprintln(c.stdout, contracts.GetFullVersionString())
			return nil
		},
	}
}

// output returns the destination of a command and a closer whose error
// reports a failed flush of the written file
func (c *rootConfig) output(path string) (io.Writer, func() error, error) {
	if path == "" {
		return c.stdout, func() error { return nil }, nil
	}
	if err := validation.NewFileValidator(nil).ValidateOutputFile(path); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, f.Close, nil
}

func (c *rootConfig) printNotices(notices []domain.Notice) {
	for _, n := range notices {
		fmt.Fprintf(c.stderr, "%s: %s\n", n.Level, n.Message)
	}
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	return tw
}

func writeTable(w io.Writer, table *domain.TableView) {
	fmt.Fprintln(w, table.Title)
	tw := newTable(w, table.Columns)
	for _, row := range table.Rows {
		cells := make([]string, len(table.Columns))
		for i := range cells {
			if i < len(row.Cells) {
				cells[i] = row.Cells[i].Display
			}
		}
		tw.Append(cells)
	}
	tw.Render()
}

func writeSummary(w io.Writer, summary []domain.ColumnSummary) {
	if len(summary) == 0 {
		return
	}
	tw := newTable(w, []string{"Coluna", "N", "Média", "Mediana", "Mínimo", "Máximo"})
	for _, s := range summary {
		tw.Append([]string{
			s.Column,
			fmt.Sprint(s.Count),
			dataprocessing.FormatValue(s.Mean, s.Format),
			dataprocessing.FormatValue(s.Median, s.Format),
			dataprocessing.FormatValue(s.Min, s.Format),
			dataprocessing.FormatValue(s.Max, s.Format),
		})
	}
	tw.Render()
}
