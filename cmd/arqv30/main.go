// ARQV30 — Arqueologia do Avatar
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/arqvlabs/arqv30/api"
	"github.com/arqvlabs/arqv30/internal/analysis"
	"github.com/arqvlabs/arqv30/internal/config"
	"github.com/arqvlabs/arqv30/internal/llm"
	"github.com/arqvlabs/arqv30/internal/report"
	"github.com/arqvlabs/arqv30/internal/research"
	"github.com/arqvlabs/arqv30/internal/storage"
	"github.com/arqvlabs/arqv30/pkg/format"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arqv30",
	Short: "ARQV30 — Arqueologia do Avatar",
	Long: `ARQV30 (Arqueologia do Avatar)
Análise ultra-detalhada de mercado e avatar para lançamentos digitais
no Brasil: briefing → pesquisa web → Gemini → relatório com
infográficos e projeções em três cenários.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(statusCmd)
}

// buildEngine wires the analysis engine from the loaded config. A
// missing Gemini key is not an error: the engine falls back to the
// deterministic analysis.
func buildEngine() *analysis.Engine {
	opts := []analysis.EngineOption{
		analysis.WithGenerateOptions(&llm.GenerateOptions{
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			TopP:        cfg.LLM.TopP,
			TopK:        cfg.LLM.TopK,
			MaxTokens:   cfg.LLM.MaxTokens,
		}),
	}

	if cfg.LLM.GeminiKey != "" {
		provider, err := llm.NewGeminiProvider(cfg.LLM.GeminiKey, llm.WithGeminiModel(cfg.LLM.Model))
		if err != nil {
			log.Printf("failed to init Gemini provider: %v", err)
		} else {
			opts = append(opts, analysis.WithProvider(provider))
		}
	}

	if cfg.Research.Enabled {
		opts = append(opts, analysis.WithResearcher(research.NewClient(
			research.WithMaxPerQuery(cfg.Research.MaxPerQuery),
		)))
	}

	return analysis.NewEngine(opts...)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ARQV30 %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web application server",
	RunE: func(cmd *cobra.Command, args []string) error {
		api.Version = version

		opts := []api.ServerOption{api.WithEngine(buildEngine())}

		if cfg.Database.URL != "" {
			store, err := storage.New(cfg.Database.URL)
			if err != nil {
				log.Printf("failed to connect to database, history disabled: %v", err)
			} else {
				defer store.Close()
				opts = append(opts, api.WithStore(store))
			}
		}

		srv := api.NewServer(cfg, opts...)
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 ARQV30 em http://%s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [segmento]",
	Short: "Run an avatar analysis from the command line",
	Long: `Run the full analysis for a market segment and print the plain-text
report. With --pdf the HTML report is rendered and converted.

Examples:
  arqv30 analyze fitness
  arqv30 analyze "finanças pessoais" --produto "Curso Renda Extra" --preco 997
  arqv30 analyze fitness --pdf --output relatorio.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		briefing := analysis.Briefing{Segmento: args[0]}
		briefing.Produto, _ = cmd.Flags().GetString("produto")
		briefing.Preco, _ = cmd.Flags().GetString("preco")
		briefing.Publico, _ = cmd.Flags().GetString("publico")

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		fmt.Printf("🔍 Escavando o avatar de %q…\n\n", briefing.Segmento)
		result, err := buildEngine().Analyze(ctx, briefing)
		if err != nil {
			return err
		}

		reportCfg := report.DefaultReportConfig()
		reportCfg.Author = cfg.Report.Author

		pdf, _ := cmd.Flags().GetBool("pdf")
		if !pdf {
			text, err := report.GenerateText(result, reportCfg)
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		}

		output, _ := cmd.Flags().GetString("output")
		return writeReportFile(result, reportCfg, output, "")
	},
}

func init() {
	analyzeCmd.Flags().String("produto", "", "nome do produto ou serviço")
	analyzeCmd.Flags().String("preco", "", "preço em reais")
	analyzeCmd.Flags().String("publico", "", "descrição do público-alvo")
	analyzeCmd.Flags().Bool("pdf", false, "gerar relatório em PDF")
	analyzeCmd.Flags().String("output", "", "caminho do arquivo de saída")
}

// --- Report Command ---

var reportCmd = &cobra.Command{
	Use:   "report [resultado.json]",
	Short: "Render a report from a saved analysis",
	Long: `Render the HTML/PDF report for an analysis result. With a file
argument the result is read from JSON; otherwise the most recent stored
analysis is used (or a specific one with --id), which requires a
configured database.

Examples:
  arqv30 report resultado.json
  arqv30 report --id 42 --output relatorio.pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reportCfg := report.DefaultReportConfig()
		reportCfg.Author = cfg.Report.Author
		output, _ := cmd.Flags().GetString("output")

		if len(args) == 1 {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read result file: %w", err)
			}
			var result analysis.Result
			if err := json.Unmarshal(data, &result); err != nil {
				return fmt.Errorf("failed to decode result file: %w", err)
			}
			return writeReportFile(&result, reportCfg, output, "")
		}

		if cfg.Database.URL == "" {
			return fmt.Errorf("no database configured, set ARQV30_DATABASE_URL or pass a result file")
		}

		store, err := storage.New(cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer store.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		var rec *storage.Record
		if id, _ := cmd.Flags().GetInt64("id"); id > 0 {
			rec, err = store.Get(ctx, id)
		} else {
			rec, err = store.Latest(ctx, "")
		}
		if err != nil {
			return fmt.Errorf("failed to load analysis: %w", err)
		}

		return writeReportFile(rec.Result, reportCfg, output, rec.UserID)
	},
}

func init() {
	reportCmd.Flags().Int64("id", 0, "id da análise armazenada")
	reportCmd.Flags().String("output", "", "caminho do arquivo de saída")
}

// writeReportFile renders the HTML report and converts it to PDF,
// degrading to an .html file when no converter is installed.
func writeReportFile(result *analysis.Result, reportCfg report.ReportConfig, output, userID string) error {
	html, err := report.Generate(result, reportCfg)
	if err != nil {
		return err
	}

	if output == "" {
		output = filepath.Join(cfg.Report.OutputDir, report.ReportFilename(userID))
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	pdfCfg := report.DefaultPDFConfig()
	pdfCfg.OutputPath = output
	if cfg.Report.PDFEngine != "" {
		pdfCfg.Engine = report.PDFEngine(cfg.Report.PDFEngine)
	}
	if err := report.GeneratePDF(html, pdfCfg); err != nil {
		return err
	}

	fmt.Printf("📄 Relatório gerado: %s\n", output)
	return nil
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  ARQV30 — Status do Sistema")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Hora (BRT):    %s\n", format.FormatDateTimeBR(format.NowBrasilia()))
		fmt.Println()

		// Config summary
		fmt.Println("  Configuration:")
		fmt.Printf("    LLM Model:     %s\n", cfg.LLM.Model)
		fmt.Printf("    Research:      enabled=%v (max %d/query)\n", cfg.Research.Enabled, cfg.Research.MaxPerQuery)
		fmt.Printf("    PDF Engine:    %s\n", report.DetectPDFEngine())
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		// API keys status
		fmt.Println("  API Keys:")
		keys := config.CheckAPIKeys(cfg)
		for _, k := range keys {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		if cfg.LLM.GeminiKey != "" {
			fmt.Println()
			fmt.Println("  Provider:")
			provider, err := llm.NewGeminiProvider(cfg.LLM.GeminiKey, llm.WithGeminiModel(cfg.LLM.Model))
			if err == nil {
				ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
				defer cancel()
				err = provider.Ping(ctx)
			}
			if err != nil {
				fmt.Printf("    Gemini:        ❌ %v\n", err)
			} else {
				fmt.Println("    Gemini:        ✅ reachable")
			}
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
