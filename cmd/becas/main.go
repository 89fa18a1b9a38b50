package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ijm11/becas-extractor/pkg/config"
	"github.com/ijm11/becas-extractor/pkg/document"
	"github.com/ijm11/becas-extractor/pkg/export"
	"github.com/ijm11/becas-extractor/pkg/pipeline"
	"github.com/ijm11/becas-extractor/pkg/record"
	"github.com/ijm11/becas-extractor/pkg/segment"
	"github.com/ijm11/becas-extractor/pkg/store"
	"github.com/ijm11/becas-extractor/pkg/validate"
)

var version = "0.1.0"

func main() {
	var (
		configPath string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:   "becas",
		Short: "Scholarship announcement extractor",
		Long: `Becas turns the yearly scholarship announcement documents into
structured per-year records.

It segments each announcement into its relevant artículos, parses the
amounts, thresholds, requirements and deadlines, and produces:
  - A chronological corpus of per-year records (JSON, CSV, XLSX)
  - Advisory validation findings for every record
  - A SQLite history of extraction runs`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "becas.toml", "run configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(extractCmd(&configPath))
	rootCmd.AddCommand(validateCmd(&configPath))
	rootCmd.AddCommand(exportCmd(&configPath))
	rootCmd.AddCommand(runsCmd(&configPath))
	rootCmd.AddCommand(configCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func extractCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract records from announcement documents",
		Long: `Extract per-year records from announcement text files.

Example:
  becas extract --source convocatoria_2024-2025.txt
  becas extract --dir convocatorias --output out/corpus.json --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")
			dir, _ := cmd.Flags().GetString("dir")
			output, _ := cmd.Flags().GetString("output")
			save, _ := cmd.Flags().GetBool("save")
			workers, _ := cmd.Flags().GetInt("workers")
			registryPath, _ := cmd.Flags().GetString("registry")

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if dir == "" && source == "" {
				dir = cfg.InputDir
			}
			if workers > 0 {
				cfg.Workers = workers
			}
			if registryPath != "" {
				cfg.RegistryPath = registryPath
			}

			extractor, err := newExtractor(cfg)
			if err != nil {
				return err
			}

			started := time.Now()

			fmt.Print("  1. Loading documents... ")
			var docs []document.Document
			if source != "" {
				doc, err := extractor.LoadFile(source)
				if err != nil {
					return fmt.Errorf("loading %s: %w", source, err)
				}
				docs = append(docs, doc)
			} else {
				loaded, err := extractor.LoadDirectory(dir)
				if err != nil {
					return fmt.Errorf("loading %s: %w", dir, err)
				}
				docs = loaded
			}
			fmt.Printf("done (%d documents)\n", len(docs))

			fmt.Print("  2. Extracting records... ")
			corpus, err := extractor.ProcessAll(cmd.Context(), docs)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}
			fmt.Printf("done (%d records, %d anomalies)\n", len(corpus), countAnomalies(corpus))

			if output != "" {
				fmt.Printf("  3. Writing %s... ", output)
				if err := export.WriteFile(output, corpus, exportOptions(cfg)); err != nil {
					return err
				}
				fmt.Println("done")
			}

			if save {
				s, err := store.Open(cfg.DatabasePath, slog.Default())
				if err != nil {
					return err
				}
				defer s.Close()
				run, err := s.SaveRun(cmd.Context(), started, corpus)
				if err != nil {
					return err
				}
				fmt.Printf("  Saved run %s (%d records)\n", run.ID, run.Documents)
			}

			printAnomalies(corpus)
			return nil
		},
	}
	cmd.Flags().String("source", "", "single announcement file")
	cmd.Flags().String("dir", "", "directory of announcement files (*.txt)")
	cmd.Flags().StringP("output", "o", "", "output file (.json, .csv or .xlsx)")
	cmd.Flags().Bool("save", false, "persist the run in the corpus store")
	cmd.Flags().Int("workers", 0, "concurrent document workers")
	cmd.Flags().String("registry", "", "YAML article-registry overlay file or directory")
	return cmd
}

func validateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Re-run consistency checks on an extracted corpus",
		Long: `Re-run the consistency validator over a previously exported JSON
corpus and print every finding.

Example:
  becas validate --input out/corpus.json
  becas validate --input out/corpus.json --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			strict, _ := cmd.Flags().GetBool("strict")

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			corpus, err := readCorpus(input)
			if err != nil {
				return err
			}

			validator := &validate.Validator{
				MinLeaves: cfg.Validator.MinLeaves,
				MaxLeaves: cfg.Validator.MaxLeaves,
			}
			total := 0
			for _, rec := range corpus {
				rec.ValidationReport = &record.ValidationReport{}
				report := validator.Validate(rec)
				total += len(report.Anomalies)
			}

			fmt.Printf("Validated %d records: %d findings\n", len(corpus), total)
			printAnomalies(corpus)

			if strict && total > 0 {
				return fmt.Errorf("%d validation findings", total)
			}
			return nil
		},
	}
	cmd.Flags().StringP("input", "i", "", "JSON corpus file")
	cmd.Flags().Bool("strict", false, "exit non-zero when findings exist")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func exportCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a corpus as JSON, CSV or XLSX",
		Long: `Export a corpus from a JSON file or a stored run. The output
format follows the file extension.

Example:
  becas export --input out/corpus.json --output out/corpus.xlsx
  becas export --latest --output out/corpus.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			runID, _ := cmd.Flags().GetString("run")
			latest, _ := cmd.Flags().GetBool("latest")
			output, _ := cmd.Flags().GetString("output")

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			var corpus record.Corpus
			switch {
			case input != "":
				corpus, err = readCorpus(input)
			case runID != "" || latest:
				corpus, err = loadStoredCorpus(cmd.Context(), cfg, runID)
			default:
				return fmt.Errorf("one of --input, --run or --latest is required")
			}
			if err != nil {
				return err
			}

			if err := export.WriteFile(output, corpus, exportOptions(cfg)); err != nil {
				return err
			}
			fmt.Printf("Exported %d records to %s\n", len(corpus), output)
			return nil
		},
	}
	cmd.Flags().StringP("input", "i", "", "JSON corpus file")
	cmd.Flags().String("run", "", "stored run ID")
	cmd.Flags().Bool("latest", false, "use the most recent stored run")
	cmd.Flags().StringP("output", "o", "", "output file (.json, .csv or .xlsx)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored extraction runs",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(*configPath)
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.ListRuns(cmd.Context())
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No stored runs.")
				return nil
			}
			for _, run := range runs {
				fmt.Printf("%s  %s  %d documents, %d anomalies\n",
					run.ID, run.FinishedAt.Format(time.RFC3339), run.Documents, run.Anomalies)
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the records of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(*configPath)
			if err != nil {
				return err
			}
			defer s.Close()

			run, corpus, err := s.LoadRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Run %s (%d documents, %d anomalies)\n", run.ID, run.Documents, run.Anomalies)
			for _, rec := range corpus {
				findings := 0
				if rec.ValidationReport != nil {
					findings = len(rec.ValidationReport.Anomalies)
				}
				fmt.Printf("  %s  %s  %d fields, %d findings\n",
					rec.AcademicYear, rec.SourceID, rec.LeafCount(), findings)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a stored run and its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(*configPath)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.DeleteRun(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted run %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}

func configCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the run configuration",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(*configPath); err == nil {
				return fmt.Errorf("%s already exists", *configPath)
			}
			if err := config.Default().Save(*configPath); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", *configPath)
			return nil
		},
	}

	cmd.AddCommand(initCmd)
	return cmd
}

func newExtractor(cfg config.Config) (*pipeline.Extractor, error) {
	registry := segment.NewRegistry()
	if cfg.RegistryPath != "" {
		info, err := os.Stat(cfg.RegistryPath)
		if err != nil {
			return nil, fmt.Errorf("registry overlay: %w", err)
		}
		if info.IsDir() {
			err = registry.LoadDirectory(cfg.RegistryPath)
		} else {
			err = registry.LoadFile(cfg.RegistryPath)
		}
		if err != nil {
			return nil, fmt.Errorf("registry overlay: %w", err)
		}
	}

	return pipeline.New(pipeline.Config{
		Workers:  cfg.Workers,
		Registry: registry,
		Validator: &validate.Validator{
			MinLeaves: cfg.Validator.MinLeaves,
			MaxLeaves: cfg.Validator.MaxLeaves,
		},
		Logger: slog.Default(),
	}), nil
}

func openStore(configPath string) (*store.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.DatabasePath, slog.Default())
}

func loadStoredCorpus(ctx context.Context, cfg config.Config, runID string) (record.Corpus, error) {
	s, err := store.Open(cfg.DatabasePath, slog.Default())
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if runID == "" {
		run, err := s.LatestRun(ctx)
		if err != nil {
			return nil, err
		}
		runID = run.ID
	}
	_, corpus, err := s.LoadRun(ctx, runID)
	return corpus, err
}

func readCorpus(path string) (record.Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	var corpus record.Corpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	corpus.Sort()
	return corpus, nil
}

func exportOptions(cfg config.Config) export.Options {
	return export.Options{TruncatePrograms: cfg.TruncatePrograms}
}

func countAnomalies(corpus record.Corpus) int {
	n := 0
	for _, rec := range corpus {
		if rec.ValidationReport != nil {
			n += len(rec.ValidationReport.Anomalies)
		}
	}
	return n
}

func printAnomalies(corpus record.Corpus) {
	for _, rec := range corpus {
		if rec.ValidationReport == nil || len(rec.ValidationReport.Anomalies) == 0 {
			continue
		}
		fmt.Printf("  %s:\n", rec.AcademicYear)
		for _, a := range rec.ValidationReport.Anomalies {
			fmt.Printf("    [%s] %s: %s\n", a.Kind, a.Category, a.Reason)
		}
	}
}
