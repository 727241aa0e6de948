package report

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/arqvlabs/arqv30/internal/analysis"
	"github.com/arqvlabs/arqv30/pkg/format"
)

// ════════════════════════════════════════════════════════════════════
// Section Renderers — one HTML fragment per analysis facet
//
// Every renderer returns the empty string when its facet is absent, so
// the assembler can concatenate all of them unconditionally. Missing
// optional fields inside a present facet render as "N/A".
// ════════════════════════════════════════════════════════════════════

func esc(s string) string { return template.HTMLEscapeString(s) }

// fb escapes a value, substituting "N/A" when it is blank.
func fb(s string) string { return esc(format.Fallback(s)) }

func openCard(sb *strings.Builder, icon, title string) {
	fmt.Fprintf(sb, `<section class="card"><h2>%s %s</h2>`, icon, esc(title))
}

func closeCard(sb *strings.Builder) {
	sb.WriteString(`</section>`)
}

// metricGrid renders a map of machine-keyed metrics as labeled tiles,
// humanizing each key. Keys are sorted for stable output.
func metricGrid(sb *strings.Builder, metrics map[string]string) {
	if len(metrics) == 0 {
		return
	}
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sb.WriteString(`<div class="metric-grid">`)
	for _, k := range keys {
		fmt.Fprintf(sb, `<div class="metric"><span class="metric-label">%s</span><span class="metric-value">%s</span></div>`,
			esc(format.Humanize(k)), fb(metrics[k]))
	}
	sb.WriteString(`</div>`)
}

func tagList(sb *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(sb, `<div class="tag-group"><h4>%s</h4>`, esc(label))
	for _, v := range values {
		fmt.Fprintf(sb, `<span class="tag">%s</span>`, fb(v))
	}
	sb.WriteString(`</div>`)
}

func bulletList(sb *strings.Builder, values []string) {
	if len(values) == 0 {
		return
	}
	sb.WriteString(`<ul>`)
	for _, v := range values {
		fmt.Fprintf(sb, `<li>%s</li>`, fb(v))
	}
	sb.WriteString(`</ul>`)
}

// ── Scope ──

// ScopeSection renders the market scope card.
func ScopeSection(s *analysis.Scope) template.HTML {
	if s == nil {
		return ""
	}
	var sb strings.Builder
	openCard(&sb, "🎯", "Escopo de Mercado")

	fmt.Fprintf(&sb, `<p><strong>Segmento:</strong> %s</p>`, fb(s.SegmentoPrincipal))
	fmt.Fprintf(&sb, `<p><strong>Produto ideal:</strong> %s</p>`, fb(s.ProdutoIdeal))
	fmt.Fprintf(&sb, `<p><strong>Proposta de valor:</strong> %s</p>`, fb(s.PropostaValor))
	tagList(&sb, "Subsegmentos", s.Subsegmentos)

	if ms := s.TamanhoMercado; ms != nil {
		metricGrid(&sb, map[string]string{
			"tam": ms.TAM,
			"sam": ms.SAM,
			"som": ms.SOM,
		})
	}

	closeCard(&sb)
	return template.HTML(sb.String())
}

// ── Avatar ──

// AvatarSection renders the ultra-detailed persona card.
func AvatarSection(a *analysis.Avatar) template.HTML {
	if a == nil {
		return ""
	}
	var sb strings.Builder
	openCard(&sb, "👤", "Avatar Ultra-Detalhado")

	if p := a.Persona; p != nil {
		fmt.Fprintf(&sb, `<h3>%s</h3>`, fb(p.Nome))
		metricGrid(&sb, map[string]string{
			"idade":        p.Idade,
			"profissao":    p.Profissao,
			"renda_mensal": p.RendaMensal,
			"localizacao":  p.Localizacao,
			"estado_civil": p.EstadoCivil,
			"escolaridade": p.Escolaridade,
		})
	}

	if len(a.Demografia) > 0 {
		sb.WriteString(`<h4>Demografia</h4>`)
		metricGrid(&sb, a.Demografia)
	}

	if psi := a.Psicografia; psi != nil {
		sb.WriteString(`<h4>Psicografia</h4>`)
		if psi.EstiloVida != "" || psi.Personalidade != "" {
			fmt.Fprintf(&sb, `<p><strong>Estilo de vida:</strong> %s</p>`, fb(psi.EstiloVida))
			fmt.Fprintf(&sb, `<p><strong>Personalidade:</strong> %s</p>`, fb(psi.Personalidade))
		}
		tagList(&sb, "Valores", psi.ValoresFundamentais)
		tagList(&sb, "Aspirações", psi.Aspiracoes)
		tagList(&sb, "Medos", psi.Medos)
		tagList(&sb, "Motivadores", psi.Motivadores)
	}

	if len(a.ComportamentoDigital) > 0 {
		sb.WriteString(`<h4>Comportamento Digital</h4>`)
		metricGrid(&sb, a.ComportamentoDigital)
	}

	closeCard(&sb)
	return template.HTML(sb.String())
}

// ── Pain Mapping ──

// PainSection renders the three-tier pain mapping card.
func PainSection(m *analysis.PainMapping) template.HTML {
	if m == nil {
		return ""
	}
	var sb strings.Builder
	openCard(&sb, "🔥", "Mapeamento de Dores")

	painTier(&sb, "Nível 1 — Críticas", m.Criticas)
	painTier(&sb, "Nível 2 — Importantes", m.Importantes)
	painTier(&sb, "Nível 3 — Latentes", m.Latentes)

	if len(m.Jornada) > 0 {
		sb.WriteString(`<h4>Jornada da Dor</h4><ol>`)
		for _, step := range m.Jornada {
			fmt.Fprintf(&sb, `<li>%s</li>`, fb(step))
		}
		sb.WriteString(`</ol>`)
	}

	closeCard(&sb)
	return template.HTML(sb.String())
}

func painTier(sb *strings.Builder, title string, pains []analysis.PainPoint) {
	if len(pains) == 0 {
		return
	}
	fmt.Fprintf(sb, `<h4>%s</h4>`, esc(title))
	for _, p := range pains {
		fmt.Fprintf(sb, `<div class="pain"><p><strong>%s</strong></p>`, fb(p.Dor))
		fmt.Fprintf(sb, `<p class="pain-meta">Intensidade: %s · Frequência: %s · Consciência: %s</p>`,
			fb(p.Intensidade), fb(p.Frequencia), fb(p.NivelConsciencia))
		fmt.Fprintf(sb, `<p>%s</p></div>`, fb(p.ImpactoVida))
	}
}

// ── Competition ──

// CompetitionSection renders the competitor analysis card.
func CompetitionSection(c *analysis.Competition) template.HTML {
	if c == nil {
		return ""
	}
	var sb strings.Builder
	openCard(&sb, "⚔️", "Análise de Concorrência")

	for _, comp := range c.Diretos {
		fmt.Fprintf(&sb, `<div class="competitor"><h3>%s</h3>`, fb(comp.Nome))
		fmt.Fprintf(&sb, `<p><strong>Faixa de preço:</strong> %s</p>`, fb(comp.PrecoRange))
		fmt.Fprintf(&sb, `<p><strong>Proposta:</strong> %s</p>`, fb(comp.PropostaValor))
		fmt.Fprintf(&sb, `<p><strong>Posicionamento:</strong> %s</p>`, fb(comp.Posicionamento))
		tagList(&sb, "Pontos fortes", comp.PontosFortes)
		tagList(&sb, "Pontos fracos", comp.PontosFracos)
		sb.WriteString(`</div>`)
	}

	if len(c.Gaps) > 0 {
		sb.WriteString(`<h4>Gaps e Oportunidades</h4>`)
		bulletList(&sb, c.Gaps)
	}

	closeCard(&sb)
	return template.HTML(sb.String())
}

// ── Market Intelligence ──

// MarketIntelSection renders growth trends and seasonality.
func MarketIntelSection(mi *analysis.MarketIntelligence) template.HTML {
	if mi == nil {
		return ""
	}
	var sb strings.Builder
	openCard(&sb, "📈", "Inteligência de Mercado")

	if len(mi.Tendencias) > 0 {
		sb.WriteString(`<h4>Tendências de Crescimento</h4>`)
		bulletList(&sb, mi.Tendencias)
	}
	if len(mi.Sazonalidade) > 0 {
		sb.WriteString(`<h4>Sazonalidade</h4>`)
		metricGrid(&sb, mi.Sazonalidade)
	}

	closeCard(&sb)
	return template.HTML(sb.String())
}

// ── Keyword Strategy ──

// KeywordSection renders keyword tables and per-channel costs.
func KeywordSection(k *analysis.KeywordStrategy) template.HTML {
	if k == nil {
		return ""
	}
	var sb strings.Builder
	openCard(&sb, "🔑", "Estratégia de Palavras-Chave")

	keywordTable(&sb, "Palavras primárias", k.Primarias)
	keywordTable(&sb, "Cauda longa", k.CaudaLonga)

	if len(k.CustosAquisicao) > 0 {
		sb.WriteString(`<h4>Custos de Aquisição por Canal</h4>`)
		channels := make([]string, 0, len(k.CustosAquisicao))
		for name := range k.CustosAquisicao {
			channels = append(channels, name)
		}
		sort.Strings(channels)
		for _, name := range channels {
			cost := k.CustosAquisicao[name]
			if cost == nil {
				continue
			}
			fmt.Fprintf(&sb, `<h5>%s</h5>`, esc(format.Humanize(name)))
			metricGrid(&sb, map[string]string{
				"cpc_medio":    cost.CPCMedio,
				"ctr_esperado": cost.CTREsperado,
				"cpa_estimado": cost.CPAEstimado,
			})
		}
	}

	closeCard(&sb)
	return template.HTML(sb.String())
}

func keywordTable(sb *strings.Builder, title string, kws []analysis.Keyword) {
	if len(kws) == 0 {
		return
	}
	fmt.Fprintf(sb, `<h4>%s</h4>`, esc(title))
	sb.WriteString(`<table><tr><th>Termo</th><th>Volume</th><th>Dificuldade</th><th>CPC</th><th>Oportunidade</th></tr>`)
	for _, kw := range kws {
		fmt.Fprintf(sb, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			fb(kw.Termo), fb(kw.VolumeMensal), fb(kw.Dificuldade), fb(kw.CPCEstimado), fb(kw.Oportunidade))
	}
	sb.WriteString(`</table>`)
}

// ── Performance Metrics ──

// MetricsSection renders benchmarks, funnel stages and KPIs.
func MetricsSection(m *analysis.PerformanceMetrics) template.HTML {
	if m == nil {
		return ""
	}
	var sb strings.Builder
	openCard(&sb, "📊", "Métricas de Performance")

	if len(m.Benchmarks) > 0 {
		sb.WriteString(`<h4>Benchmarks do Segmento</h4>`)
		metricGrid(&sb, m.Benchmarks)
	}

	if len(m.KPIs) > 0 {
		sb.WriteString(`<h4>KPIs Críticos</h4><table><tr><th>Métrica</th><th>Valor ideal</th><th>Como medir</th></tr>`)
		for _, kpi := range m.KPIs {
			fmt.Fprintf(&sb, `<tr><td>%s</td><td>%s</td><td>%s</td></tr>`,
				fb(kpi.Metrica), fb(kpi.ValorIdeal), fb(kpi.ComoMedir))
		}
		sb.WriteString(`</table>`)
	}

	closeCard(&sb)
	return template.HTML(sb.String())
}

// ── Market Voice ──

// VoiceSection renders vocabulary, objections and mental triggers.
func VoiceSection(v *analysis.MarketVoice) template.HTML {
	if v == nil {
		return ""
	}
	var sb strings.Builder
	openCard(&sb, "🗣️", "Voz do Mercado")

	tagList(&sb, "Vocabulário", v.Vocabulario)
	if len(v.Objecoes) > 0 {
		sb.WriteString(`<h4>Objeções Comuns</h4>`)
		bulletList(&sb, v.Objecoes)
	}
	tagList(&sb, "Gatilhos Mentais", v.Gatilhos)

	closeCard(&sb)
	return template.HTML(sb.String())
}

// ── Projections ──

// ProjectionsSection renders the three forecast scenarios side by side.
func ProjectionsSection(p *analysis.Projections) template.HTML {
	if p == nil {
		return ""
	}
	var sb strings.Builder
	openCard(&sb, "🔮", "Projeções de Cenários")

	sb.WriteString(`<div class="scenario-grid">`)
	scenarioCol(&sb, "Conservador", p.Conservador)
	scenarioCol(&sb, "Realista", p.Realista)
	scenarioCol(&sb, "Otimista", p.Otimista)
	sb.WriteString(`</div>`)

	closeCard(&sb)
	return template.HTML(sb.String())
}

func scenarioCol(sb *strings.Builder, title string, s *analysis.Scenario) {
	if s == nil {
		return
	}
	fmt.Fprintf(sb, `<div class="scenario"><h4>%s</h4>`, esc(title))
	metricGrid(sb, map[string]string{
		"taxa_conversao": s.TaxaConversao,
		"ticket_medio":   s.TicketMedio,
		"cac":            s.CAC,
		"roi":            s.ROI,
	})
	sb.WriteString(`</div>`)
}

// ── Action Plan ──

// ActionPlanSection renders the ordered phases of the action plan.
func ActionPlanSection(phases []analysis.ActionPhase) template.HTML {
	if len(phases) == 0 {
		return ""
	}
	var sb strings.Builder
	openCard(&sb, "🗺️", "Plano de Ação")

	for _, phase := range phases {
		fmt.Fprintf(&sb, `<div class="phase"><h3>%s</h3><p class="phase-meta">Duração: %s</p>`,
			fb(phase.Fase), fb(phase.Duracao))
		if len(phase.Acoes) > 0 {
			sb.WriteString(`<table><tr><th>Ação</th><th>Responsável</th><th>Prazo</th></tr>`)
			for _, a := range phase.Acoes {
				fmt.Fprintf(&sb, `<tr><td>%s</td><td>%s</td><td>%s</td></tr>`,
					fb(a.Acao), fb(a.Responsavel), fb(a.Prazo))
			}
			sb.WriteString(`</table>`)
		}
		sb.WriteString(`</div>`)
	}

	closeCard(&sb)
	return template.HTML(sb.String())
}

// ── Insights ──

// InsightsSection renders the exclusive insights list.
func InsightsSection(insights []string) template.HTML {
	if len(insights) == 0 {
		return ""
	}
	var sb strings.Builder
	openCard(&sb, "💎", "Insights Exclusivos")

	sb.WriteString(`<ol class="insights">`)
	for _, ins := range insights {
		fmt.Fprintf(&sb, `<li>%s</li>`, fb(ins))
	}
	sb.WriteString(`</ol>`)

	closeCard(&sb)
	return template.HTML(sb.String())
}
