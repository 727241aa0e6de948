package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/arqvlabs/arqv30/internal/analysis"
	"github.com/arqvlabs/arqv30/pkg/format"
)

// ════════════════════════════════════════════════════════════════════
// Report Generator — Orchestrates sections + charts + template
// ════════════════════════════════════════════════════════════════════

// ReportFormat specifies the output format.
type ReportFormat string

const (
	FormatHTML ReportFormat = "html"
	FormatPDF  ReportFormat = "pdf"
	FormatText ReportFormat = "text"
)

// ReportConfig controls report generation behaviour.
type ReportConfig struct {
	Format   ReportFormat // output format (default: HTML)
	Title    string       // custom report title (optional)
	Author   string       // author name (optional)
	ChartCfg ChartConfig  // chart rendering config
}

// DefaultReportConfig returns sensible defaults.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		Format:   FormatHTML,
		Author:   "ARQV30",
		ChartCfg: DefaultChartConfig(),
	}
}

// ReportData is the template model passed to the HTML template.
type ReportData struct {
	// Header
	Title       string
	Segment     string
	Author      string
	GeneratedAt string

	// Overview infographic — four headline metrics with fallbacks
	HeadlineSegment  string
	HeadlineTAM      string
	HeadlineROI      string
	HeadlineInsights string

	// Concatenated section renderer outputs
	Sections []template.HTML

	// Charts (embedded SVG strings)
	MarketSizeChart   template.HTML
	CompetitorChart   template.HTML
	ProjectionChart   template.HTML
	FunnelChart       template.HTML
	DemographicsChart template.HTML
	SeasonalityChart  template.HTML

	FromFallback bool
}

// Generate renders the full HTML report document for an analysis.
func Generate(r *analysis.Result, cfg ReportConfig) (string, error) {
	if r == nil {
		return "", fmt.Errorf("analysis is nil")
	}

	data := buildReportData(r, cfg)

	tmpl, err := template.New("report").Parse(ReportTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}

// GenerateText renders a plain-text report (terminal / CLI friendly).
func GenerateText(r *analysis.Result, cfg ReportConfig) (string, error) {
	if r == nil {
		return "", fmt.Errorf("analysis is nil")
	}
	return renderTextReport(r, cfg), nil
}

// ReportFilename returns the date-stamped PDF filename for a user.
func ReportFilename(userID string) string {
	if userID == "" {
		userID = "anon"
	}
	return fmt.Sprintf("relatorio_arqueologia_%s_%s.pdf", userID, format.Timestamp())
}

// ════════════════════════════════════════════════════════════════════
// Internal — Build template data
// ════════════════════════════════════════════════════════════════════

func buildReportData(r *analysis.Result, cfg ReportConfig) ReportData {
	data := ReportData{
		Title:        cfg.Title,
		Author:       cfg.Author,
		GeneratedAt:  format.FormatDateTimeBR(format.NowBrasilia()),
		FromFallback: r.FromFallback,

		HeadlineSegment:  "N/A",
		HeadlineTAM:      "N/A",
		HeadlineROI:      "N/A",
		HeadlineInsights: "0",
	}

	if r.Scope != nil {
		if r.Scope.SegmentoPrincipal != "" {
			data.Segment = r.Scope.SegmentoPrincipal
			data.HeadlineSegment = r.Scope.SegmentoPrincipal
		}
		if r.Scope.TamanhoMercado != nil && r.Scope.TamanhoMercado.TAM != "" {
			data.HeadlineTAM = r.Scope.TamanhoMercado.TAM
		}
	}
	if r.Projections != nil && r.Projections.Realista != nil && r.Projections.Realista.ROI != "" {
		data.HeadlineROI = r.Projections.Realista.ROI
	}
	if len(r.Insights) > 0 {
		data.HeadlineInsights = fmt.Sprintf("%d", len(r.Insights))
	}

	if data.Title == "" {
		if data.Segment != "" {
			data.Title = fmt.Sprintf("Arqueologia do Avatar — %s", data.Segment)
		} else {
			data.Title = "Arqueologia do Avatar"
		}
	}

	// Sections in display order; absent facets contribute nothing.
	for _, section := range []template.HTML{
		ScopeSection(r.Scope),
		AvatarSection(r.Avatar),
		PainSection(r.PainMapping),
		CompetitionSection(r.Competition),
		MarketIntelSection(r.MarketIntel),
		KeywordSection(r.Keywords),
		MetricsSection(r.Metrics),
		VoiceSection(r.MarketVoice),
		ProjectionsSection(r.Projections),
		ActionPlanSection(r.ActionPlan),
		InsightsSection(r.Insights),
	} {
		if section != "" {
			data.Sections = append(data.Sections, section)
		}
	}

	buildCharts(&data, r, cfg.ChartCfg)
	return data
}

func buildCharts(data *ReportData, r *analysis.Result, cfg ChartConfig) {
	// TAM/SAM/SOM pie. Values come from display strings, so sizing is
	// the ParseAmount heuristic, not exact market math.
	if r.Scope != nil && r.Scope.TamanhoMercado != nil {
		ms := r.Scope.TamanhoMercado
		items := []ChartItem{
			{Label: "TAM", Value: format.ParseAmount(ms.TAM, 0)},
			{Label: "SAM", Value: format.ParseAmount(ms.SAM, 0)},
			{Label: "SOM", Value: format.ParseAmount(ms.SOM, 0)},
		}
		chartCfg := cfg
		chartCfg.Title = "Tamanho de Mercado (TAM / SAM / SOM)"
		data.MarketSizeChart = template.HTML(PieChart(items, chartCfg))
	}

	// Competitor price positioning.
	if r.Competition != nil && len(r.Competition.Diretos) > 0 {
		var items []ChartItem
		for _, c := range r.Competition.Diretos {
			items = append(items, ChartItem{
				Label: c.Nome,
				Value: format.ParseAmount(c.PrecoRange, analysis.FallbackPrice),
			})
		}
		chartCfg := cfg
		chartCfg.Title = "Preços da Concorrência"
		data.CompetitorChart = template.HTML(BarChart(items, chartCfg))
	}

	// ROI per scenario.
	if p := r.Projections; p != nil {
		var items []ChartItem
		for _, sc := range []struct {
			label string
			s     *analysis.Scenario
		}{
			{"Conservador", p.Conservador},
			{"Realista", p.Realista},
			{"Otimista", p.Otimista},
		} {
			if sc.s != nil {
				items = append(items, ChartItem{Label: sc.label, Value: format.ParseAmount(sc.s.ROI, 0)})
			}
		}
		if len(items) > 0 {
			chartCfg := cfg
			chartCfg.Title = "ROI Projetado por Cenário (%)"
			data.ProjectionChart = template.HTML(LineChart(items, chartCfg))
		}
	}

	// Conversion funnel.
	if r.Metrics != nil && len(r.Metrics.Funil) > 0 {
		var items []ChartItem
		for _, stage := range r.Metrics.Funil {
			items = append(items, ChartItem{
				Label: stage.Etapa,
				Value: format.ParseAmount(stage.Percentual, 0),
			})
		}
		chartCfg := cfg
		chartCfg.Title = "Funil de Conversão"
		data.FunnelChart = template.HTML(FunnelChart(items, chartCfg))
	}

	// The analysis carries demographics and seasonality as prose, not
	// numeric series; these two charts plot illustrative sample data.
	if r.Avatar != nil {
		chartCfg := cfg
		chartCfg.Title = "Faixas Etárias (amostra ilustrativa)"
		data.DemographicsChart = template.HTML(PieChart(sampleAgeBuckets(), chartCfg))
	}
	if r.MarketIntel != nil && len(r.MarketIntel.Sazonalidade) > 0 {
		chartCfg := cfg
		chartCfg.Title = "Sazonalidade de Demanda (amostra ilustrativa)"
		data.SeasonalityChart = template.HTML(LineChart(sampleSeasonality(), chartCfg))
	}
}

// sampleAgeBuckets returns illustrative age-bucket percentages for the
// demographics pie. The analysis describes demographics as text only.
func sampleAgeBuckets() []ChartItem {
	return []ChartItem{
		{Label: "18-24", Value: 10},
		{Label: "25-34", Value: 30},
		{Label: "35-44", Value: 35},
		{Label: "45-54", Value: 18},
		{Label: "55+", Value: 7},
	}
}

// sampleSeasonality returns an illustrative month-by-month demand index.
func sampleSeasonality() []ChartItem {
	months := []string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}
	index := []float64{90, 75, 80, 85, 88, 82, 86, 95, 100, 98, 110, 70}
	items := make([]ChartItem, len(months))
	for i := range months {
		items[i] = ChartItem{Label: months[i], Value: index[i]}
	}
	return items
}

// ════════════════════════════════════════════════════════════════════
// Plain-text renderer
// ════════════════════════════════════════════════════════════════════

func renderTextReport(r *analysis.Result, cfg ReportConfig) string {
	var sb strings.Builder
	line := strings.Repeat("═", 60)
	thinLine := strings.Repeat("─", 60)

	data := buildReportData(r, cfg)

	sb.WriteString("\n" + line + "\n")
	sb.WriteString(fmt.Sprintf("  %s\n", data.Title))
	sb.WriteString(fmt.Sprintf("  Gerado em: %s | %s\n", data.GeneratedAt, data.Author))
	sb.WriteString(line + "\n\n")

	sb.WriteString(fmt.Sprintf("  Segmento: %s | TAM: %s | ROI realista: %s | Insights: %s\n",
		data.HeadlineSegment, data.HeadlineTAM, data.HeadlineROI, data.HeadlineInsights))
	sb.WriteString(thinLine + "\n")

	if r.Scope != nil {
		sb.WriteString("\n  ■ ESCOPO\n")
		sb.WriteString(fmt.Sprintf("  Produto ideal: %s\n", format.Fallback(r.Scope.ProdutoIdeal)))
		sb.WriteString(fmt.Sprintf("  Proposta de valor: %s\n", format.Fallback(r.Scope.PropostaValor)))
		sb.WriteString(thinLine + "\n")
	}

	if r.Avatar != nil && r.Avatar.Persona != nil {
		p := r.Avatar.Persona
		sb.WriteString("\n  ■ PERSONA\n")
		sb.WriteString(fmt.Sprintf("  %s, %s — %s\n",
			format.Fallback(p.Nome), format.Fallback(p.Idade), format.Fallback(p.Profissao)))
		sb.WriteString(fmt.Sprintf("  Renda: %s | %s\n", format.Fallback(p.RendaMensal), format.Fallback(p.Localizacao)))
		sb.WriteString(thinLine + "\n")
	}

	if r.PainMapping != nil && len(r.PainMapping.Criticas) > 0 {
		sb.WriteString("\n  ■ DORES CRÍTICAS\n")
		for _, d := range r.PainMapping.Criticas {
			sb.WriteString(fmt.Sprintf("    [%s] %s\n", format.Fallback(d.Intensidade), format.Fallback(d.Dor)))
		}
		sb.WriteString(thinLine + "\n")
	}

	if p := r.Projections; p != nil {
		sb.WriteString("\n  ■ CENÁRIOS\n")
		writeScenario := func(name string, s *analysis.Scenario) {
			if s == nil {
				return
			}
			sb.WriteString(fmt.Sprintf("    %-12s conversão %s | ticket %s | CAC %s | ROI %s\n",
				name, format.Fallback(s.TaxaConversao), format.Fallback(s.TicketMedio),
				format.Fallback(s.CAC), format.Fallback(s.ROI)))
		}
		writeScenario("Conservador", p.Conservador)
		writeScenario("Realista", p.Realista)
		writeScenario("Otimista", p.Otimista)
		sb.WriteString(thinLine + "\n")
	}

	if len(r.Insights) > 0 {
		sb.WriteString("\n  ■ INSIGHTS EXCLUSIVOS\n")
		for i, ins := range r.Insights {
			sb.WriteString(fmt.Sprintf("    %d. %s\n", i+1, ins))
		}
		sb.WriteString(thinLine + "\n")
	}

	sb.WriteString("\n" + line + "\n")
	return sb.String()
}
