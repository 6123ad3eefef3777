package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mcceval/internal/classify"
	"github.com/abhisek/mcceval/internal/evaluator"
	"github.com/abhisek/mcceval/internal/llm"
	"github.com/abhisek/mcceval/internal/logging"
	"github.com/abhisek/mcceval/internal/mcc"
	"github.com/abhisek/mcceval/internal/store"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate classification strategies against a labeled CSV",
	RunE:  runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringP("input", "i", "", "Input CSV with labeled merchants (required)")
	evaluateCmd.Flags().StringP("output", "o", "", "Output path (default output/mcc_evaluation_<timestamp>.csv)")
	evaluateCmd.Flags().String("strategies", "", "Comma-separated strategy names (default: all)")
	evaluateCmd.Flags().String("format", "csv", "Output format: csv or excel")
	evaluateCmd.Flags().String("codes", "", "Category code CSV (default: embedded list)")
	evaluateCmd.Flags().String("db", "", "SQLite database for run history (disabled when empty)")
	evaluateCmd.MarkFlagRequired("input")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	if err := initLogging(cmd); err != nil {
		return err
	}

	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	names, _ := cmd.Flags().GetString("strategies")
	format, _ := cmd.Flags().GetString("format")
	codesPath, _ := cmd.Flags().GetString("codes")
	dbPath, _ := cmd.Flags().GetString("db")

	if format != "csv" && format != "excel" {
		return fmt.Errorf("unknown format %q (want csv or excel)", format)
	}
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("input file %s: %w", input, err)
	}
	if output == "" {
		ext := "csv"
		if format == "excel" {
			ext = "xlsx"
		}
		output = filepath.Join("output",
			fmt.Sprintf("mcc_evaluation_%s.%s", time.Now().Format("20060102_150405"), ext))
	}

	ctx := cmd.Context()

	var (
		st     *store.Store
		run    *store.Run
		reqLog llm.RequestLog
	)
	if dbPath != "" {
		var err error
		st, err = store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open run store: %w", err)
		}
		defer st.Close()

		run, err = st.BeginRun(ctx, input)
		if err != nil {
			return fmt.Errorf("begin run: %w", err)
		}
		reqLog = st.RequestLog(run.ID)
	}

	provider, ok, err := llm.NewProviderFromEnv(ctx, reqLog)
	if err != nil {
		return fmt.Errorf("initialize provider: %w", err)
	}
	if !ok {
		logging.Logger.Warnw("no API credential found; all strategies will use their fallback classifiers")
	}

	deps := func() classify.Deps {
		return classify.Deps{Table: mcc.Load(codesPath), Provider: provider}
	}
	strategies, err := buildStrategies(names, deps)
	if err != nil {
		return err
	}

	records, err := evaluator.ReadRecords(input)
	if err != nil {
		return err
	}

	rep, err := evaluator.Evaluate(ctx, records, strategies)
	if err != nil {
		return err
	}

	switch format {
	case "excel":
		err = evaluator.WriteExcel(output, rep)
	default:
		err = evaluator.WriteCSV(output, rep)
	}
	if err != nil {
		return err
	}

	if st != nil {
		if err := st.RecordRun(ctx, run, output, rep); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}

	fmt.Printf("Evaluated %d merchants. Results written to %s\n", len(rep.Rows), output)
	for _, name := range rep.Strategies {
		m := rep.Metrics[name]
		fmt.Printf("  %-10s %s (%d/%d)\n", name, evaluator.FormatAccuracy(m), m.Correct, m.Total)
	}
	return nil
}

// buildStrategies resolves the --strategies flag. An empty flag means every
// registered strategy. Each strategy gets its own deps.
func buildStrategies(names string, deps func() classify.Deps) ([]classify.Strategy, error) {
	if strings.TrimSpace(names) == "" {
		return classify.NewAll(deps), nil
	}

	var out []classify.Strategy
	for _, name := range strings.Split(names, ",") {
		s, err := classify.New(name, deps())
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
