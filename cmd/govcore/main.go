package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/outsidedata/govcore/internal/advisor"
	"github.com/outsidedata/govcore/internal/audit"
	"github.com/outsidedata/govcore/internal/catalog"
	"github.com/outsidedata/govcore/internal/config"
	"github.com/outsidedata/govcore/internal/engine"
)

func main() {
	root := &cobra.Command{
		Use:     "govcore",
		Short:   "Interpret dataset evaluation metrics into threat signals and a risk summary",
		Version: engine.Version,
	}

	root.AddCommand(newEvaluateCmd())
	root.AddCommand(newThreatsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newEvaluateCmd() *cobra.Command {
	var (
		configPath  string
		mode        string
		catalogPath string
		topThreats  int
		auditLog    string
		advise      bool
		outPath     string
	)

	cmd := &cobra.Command{
		Use:   "evaluate [metrics.json]",
		Short: "Evaluate a metric dictionary and print the governance result",
		Long: "Reads a JSON object of evaluation metrics from a file (or stdin when no " +
			"argument or \"-\" is given), interprets it against the threat catalog and " +
			"prints the full governance result as indented JSON.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if mode != "" {
				cfg.Engine.Mode = mode
			}
			if topThreats > 0 {
				cfg.Engine.TopThreats = topThreats
			}
			if catalogPath != "" {
				cfg.Engine.CatalogPath = catalogPath
			}
			if auditLog != "" {
				cfg.Audit.Sinks = append(cfg.Audit.Sinks, config.SinkConfig{
					Type: "file_jsonl",
					Path: auditLog,
				})
			}
			if err := config.Validate(cfg); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			raw, err := readMetrics(args)
			if err != nil {
				return err
			}

			eng, err := buildEngine(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := eng.Evaluate(raw)
			if err != nil {
				return fmt.Errorf("evaluate: %w", err)
			}
			elapsed := time.Since(start)

			if advise || cfg.Advisor.Enabled {
				attachAdvisory(cmd.Context(), cfg.Advisor, res)
			}

			emitAudit(cmd.Context(), cfg.Audit, res, elapsed)

			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal result: %w", err)
			}
			if outPath != "" {
				if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
					return fmt.Errorf("write result: %w", err)
				}
				fmt.Fprintf(os.Stderr, "Result written to %s\n", outPath)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "govcore.yaml", "path to config file")
	cmd.Flags().StringVar(&mode, "mode", "", "output detail mode: summary, detailed or full (overrides config)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "path to a YAML rule-table override")
	cmd.Flags().IntVar(&topThreats, "top", 0, "cap on ranked top threats (overrides config)")
	cmd.Flags().StringVar(&auditLog, "audit-log", "", "append an audit event to this JSONL file")
	cmd.Flags().BoolVar(&advise, "advise", false, "attach advisory commentary (requires advisor config)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the result to a file instead of stdout")

	return cmd
}

func newThreatsCmd() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "threats",
		Short: "List the threat rules the engine evaluates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, r := range cat.Rules {
				fmt.Fprintf(w, "%-28s %-12s %-12s %s\n", r.Threat, r.Property, r.Predicate, r.MetricPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "path to a YAML rule-table override")

	return cmd
}

func readMetrics(args []string) (map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("read metrics: %w", err)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse metrics: %w", err)
	}
	raw, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("metrics document must be a JSON object")
	}
	return raw, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}

func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	cat, err := loadCatalog(cfg.Engine.CatalogPath)
	if err != nil {
		return nil, err
	}
	return engine.New(engine.Options{
		Mode:       engine.Mode(strings.ToLower(strings.TrimSpace(cfg.Engine.Mode))),
		TopThreats: cfg.Engine.TopThreats,
		Catalog:    cat,
	})
}

// attachAdvisory asks the configured provider for commentary. Advisory text
// is additive only; any failure leaves the result untouched.
func attachAdvisory(ctx context.Context, cfg config.AdvisorConfig, res *engine.Result) {
	if cfg.APIKeyEnv == "" {
		log.Printf("advisor: not configured, skipping")
		return
	}
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		log.Printf("advisor: %s is not set, skipping", cfg.APIKeyEnv)
		return
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	provider := advisor.NewOpenAI(cfg.BaseURL, apiKey, cfg.Model, timeout)

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := provider.Advise(callCtx, advisor.Project(res))
	if err != nil {
		log.Printf("advisor: %s failed: %v", provider.Name(), err)
		return
	}
	res.Advisory = text
}

func emitAudit(ctx context.Context, cfg config.AuditConfig, res *engine.Result, elapsed time.Duration) {
	sinks := buildSinks(cfg.Sinks)
	if len(sinks) == 0 {
		return
	}
	em := audit.NewEmitter(audit.EmitterConfig{
		QueueSize: cfg.QueueSize,
		Workers:   cfg.Workers,
	}, sinks)
	em.Emit(ctx, audit.BuildEvent(res, elapsed))
	em.Close(ctx)
}

func buildSinks(cfgs []config.SinkConfig) []audit.Sink {
	var sinks []audit.Sink
	for _, sc := range cfgs {
		switch sc.Type {
		case "file_jsonl":
			s, err := audit.NewFileSink(sc.Path)
			if err != nil {
				log.Printf("audit: file sink %s: %v", sc.Path, err)
				continue
			}
			sinks = append(sinks, s)
		case "webhook":
			s, err := audit.NewWebhookSink(sc.URL, sc.Headers, time.Duration(sc.TimeoutSeconds)*time.Second)
			if err != nil {
				log.Printf("audit: webhook sink %s: %v", sc.URL, err)
				continue
			}
			sinks = append(sinks, s)
		}
	}
	return sinks
}
