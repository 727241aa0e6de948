package report

// ReportTemplate is the HTML template for the analysis report.
// It is embedded as a Go constant — no external file dependencies.
const ReportTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #7c3aed;
    --accent-dark: #5b21b6;
    --gold: #d97706;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.6;
    max-width: 960px;
    margin: 0 auto;
    padding: 20px;
  }
  h1, h2, h3, h4, h5 { font-weight: 600; }
  h1 { font-size: 1.5rem; margin-bottom: 4px; }
  h2 { font-size: 1.2rem; margin: 0 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  h3 { font-size: 1rem; margin: 16px 0 8px; }
  h4 { font-size: 0.95rem; margin: 14px 0 6px; color: var(--accent-dark); }
  h5 { font-size: 0.85rem; margin: 10px 0 4px; }
  p { margin: 6px 0; }
  ul, ol { margin: 6px 0 6px 22px; }
  .muted { color: var(--muted); font-size: 0.85rem; }

  /* Header */
  .header {
    display: flex;
    justify-content: space-between;
    align-items: flex-start;
    border-bottom: 3px solid var(--accent);
    padding-bottom: 12px;
    margin-bottom: 16px;
  }
  .header-left h1 { color: var(--accent-dark); }
  .header-right { text-align: right; }
  .segment-badge {
    display: inline-block;
    background: var(--accent);
    color: white;
    padding: 2px 12px;
    border-radius: 4px;
    font-weight: 700;
    font-size: 1.05rem;
  }
  .fallback-note {
    background: #fefce8;
    border-left: 4px solid var(--gold);
    padding: 8px 12px;
    border-radius: 4px;
    margin-bottom: 14px;
    font-size: 0.85rem;
  }

  /* Overview infographic */
  .overview {
    display: grid;
    grid-template-columns: repeat(4, 1fr);
    gap: 10px;
    background: var(--section-bg);
    padding: 14px;
    border-radius: 8px;
    margin-bottom: 18px;
  }
  .overview-item { text-align: center; }
  .overview-item .label { font-size: 0.75rem; color: var(--muted); text-transform: uppercase; }
  .overview-item .value { font-size: 1.05rem; font-weight: 700; color: var(--accent-dark); }

  /* Cards */
  .card {
    background: var(--bg);
    border: 1px solid var(--border);
    border-radius: 8px;
    padding: 16px;
    margin-bottom: 18px;
  }
  .metric-grid {
    display: grid;
    grid-template-columns: repeat(auto-fill, minmax(170px, 1fr));
    gap: 8px;
    margin: 10px 0;
  }
  .metric {
    background: var(--section-bg);
    padding: 8px 12px;
    border-radius: 6px;
    display: flex;
    flex-direction: column;
  }
  .metric-label { font-size: 0.72rem; color: var(--muted); text-transform: uppercase; }
  .metric-value { font-size: 0.95rem; font-weight: 600; }

  .tag-group { margin: 8px 0; }
  .tag {
    display: inline-block;
    background: #ede9fe;
    color: var(--accent-dark);
    padding: 1px 10px;
    border-radius: 12px;
    font-size: 0.8rem;
    margin: 2px 4px 2px 0;
  }

  table { width: 100%; border-collapse: collapse; margin: 8px 0 16px; font-size: 0.9rem; }
  th { background: var(--section-bg); text-align: left; padding: 8px; font-weight: 600; }
  td { padding: 8px; border-bottom: 1px solid var(--border); }

  .pain { border-left: 3px solid var(--accent); padding-left: 10px; margin: 10px 0; }
  .pain-meta { font-size: 0.8rem; color: var(--muted); }
  .competitor { border-bottom: 1px dashed var(--border); padding-bottom: 10px; margin-bottom: 10px; }
  .scenario-grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 12px; }
  .scenario { background: var(--section-bg); border-radius: 8px; padding: 10px; }
  .phase-meta { font-size: 0.8rem; color: var(--muted); }
  .insights li { margin-bottom: 6px; }

  .chart-block { margin: 14px 0; text-align: center; }
  .chart-block svg { max-width: 100%; height: auto; }

  footer {
    border-top: 1px solid var(--border);
    margin-top: 24px;
    padding-top: 10px;
    font-size: 0.78rem;
    color: var(--muted);
    text-align: center;
  }
  @media print {
    body { padding: 0; }
    .card { break-inside: avoid; }
  }
</style>
</head>
<body>

<div class="header">
  <div class="header-left">
    <h1>{{.Title}}</h1>
    <p class="muted">Análise ultra-detalhada de mercado e avatar</p>
  </div>
  <div class="header-right">
    {{if .Segment}}<span class="segment-badge">{{.Segment}}</span>{{end}}
    <p class="muted">{{.GeneratedAt}}</p>
    <p class="muted">{{.Author}}</p>
  </div>
</div>

{{if .FromFallback}}
<div class="fallback-note">Análise gerada em modo offline a partir de benchmarks do segmento.</div>
{{end}}

<div class="overview">
  <div class="overview-item"><span class="label">Segmento</span><span class="value">{{.HeadlineSegment}}</span></div>
  <div class="overview-item"><span class="label">Mercado (TAM)</span><span class="value">{{.HeadlineTAM}}</span></div>
  <div class="overview-item"><span class="label">ROI Realista</span><span class="value">{{.HeadlineROI}}</span></div>
  <div class="overview-item"><span class="label">Insights</span><span class="value">{{.HeadlineInsights}}</span></div>
</div>

{{range .Sections}}{{.}}{{end}}

{{if .MarketSizeChart}}<div class="chart-block">{{.MarketSizeChart}}</div>{{end}}
{{if .DemographicsChart}}<div class="chart-block">{{.DemographicsChart}}</div>{{end}}
{{if .CompetitorChart}}<div class="chart-block">{{.CompetitorChart}}</div>{{end}}
{{if .SeasonalityChart}}<div class="chart-block">{{.SeasonalityChart}}</div>{{end}}
{{if .FunnelChart}}<div class="chart-block">{{.FunnelChart}}</div>{{end}}
{{if .ProjectionChart}}<div class="chart-block">{{.ProjectionChart}}</div>{{end}}

<footer>
  Relatório gerado automaticamente por {{.Author}} em {{.GeneratedAt}}. Valores estimados a partir de benchmarks e pesquisa; valide antes de decisões de investimento.
</footer>

</body>
</html>`
