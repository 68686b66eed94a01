package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/analyst-cli/internal/analysis"
	"github.com/sells-group/analyst-cli/internal/console"
	"github.com/sells-group/analyst-cli/internal/model"
	"github.com/sells-group/analyst-cli/internal/report"
)

var (
	opURL    string
	opTask   string
	opModel  string
	opModels string
	opData   string
	opFormat string
	opNoSave bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one website with one model",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, func(ctx context.Context, svc *analysis.Service) (*analysis.Report, error) {
			return svc.Analyze(ctx, opURL, opTask, opModel)
		})
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run the same task on several models and compare the answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, func(ctx context.Context, svc *analysis.Service) (*analysis.Report, error) {
			models := splitList(opModels)
			if len(models) == 0 {
				models = svc.Catalog().Working()
			}
			return svc.Compare(ctx, opURL, opTask, models)
		})
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract structured data from a website as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, func(ctx context.Context, svc *analysis.Service) (*analysis.Report, error) {
			return svc.Extract(ctx, opURL, opData)
		})
	},
}

type operation func(ctx context.Context, svc *analysis.Service) (*analysis.Report, error)

// runOperation connects, runs op, prints the result and saves the report.
func runOperation(cmd *cobra.Command, op operation) error {
	ctx := cmd.Context()
	if !cfg.HasAPIKey() {
		return eris.New("firecrawl api key is not configured: set api_key or FIRECRAWL_API_KEY")
	}

	format := model.Format("")
	if !opNoSave {
		f := cfg.SaveFormat()
		if opFormat != "" {
			parsed, err := model.ParseFormat(opFormat)
			if err != nil {
				return err
			}
			f = parsed
		}
		format = f
	}

	env, err := initApp(ctx)
	if err != nil {
		return err
	}

	rep, err := op(ctx, env.Service)
	if err != nil {
		return err
	}

	out := console.NewPrinter(cmd.OutOrStdout())
	printReport(out, rep)

	if format == "" {
		return nil
	}
	path := report.Filename(cfg.ReportsDir, rep.Type, rep.URL, time.Now(), format)
	outcome, err := env.Renderer.Write(path, rep.Result, format)
	if err != nil {
		return err
	}
	if outcome.Fallback {
		out.Warn("PDF generation is unavailable, saved as HTML instead.")
	}
	abs, _ := filepath.Abs(outcome.Path)
	out.Success(fmt.Sprintf("%s saved: %s", outcome.Produced.Label(), abs))
	return nil
}

// printReport writes the model output fields of rep.
func printReport(out *console.Printer, rep *analysis.Report) {
	out.Field("Website", rep.URL)
	out.Field("Source", rep.Source)
	for _, f := range rep.Result.Fields() {
		text, ok := f.Value.(string)
		if !ok {
			continue
		}
		switch {
		case f.Key == "analysis", f.Key == "extracted_data", strings.HasSuffix(f.Key, "_analysis"):
			out.Title(report.Heading(f.Key))
			out.Markdown(text)
		case f.Key == "model", f.Key == "processing_time":
			out.Field(report.Heading(f.Key), text)
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func init() {
	for _, c := range []*cobra.Command{analyzeCmd, compareCmd, extractCmd} {
		c.Flags().StringVar(&opURL, "url", "", "website URL")
		c.Flags().StringVar(&opFormat, "format", "", "report format: txt, csv, html, pdf, json, html_charts (default from config)")
		c.Flags().BoolVar(&opNoSave, "no-save", false, "print the result without saving a report")
		_ = c.MarkFlagRequired("url")
		rootCmd.AddCommand(c)
	}

	analyzeCmd.Flags().StringVar(&opTask, "task", "", "what to analyze")
	analyzeCmd.Flags().StringVar(&opModel, "model", "", "model name (default: first general-purpose model)")
	_ = analyzeCmd.MarkFlagRequired("task")

	compareCmd.Flags().StringVar(&opTask, "task", "", "what every model should analyze")
	compareCmd.Flags().StringVar(&opModels, "models", "", "comma-separated model names (default: all working models)")
	_ = compareCmd.MarkFlagRequired("task")

	extractCmd.Flags().StringVar(&opData, "data", "", "what to extract, e.g. \"contact details\"")
	_ = extractCmd.MarkFlagRequired("data")
}
