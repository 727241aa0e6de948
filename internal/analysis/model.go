// Package analysis defines the market/avatar analysis model and the
// engine that produces it from a business briefing.
package analysis

import (
	"errors"
	"strings"
	"time"
)

// ════════════════════════════════════════════════════════════════════
// Briefing — the form input that drives an analysis run
// ════════════════════════════════════════════════════════════════════

// ErrSegmentRequired is returned when the briefing has no segment.
// The message is user-facing.
var ErrSegmentRequired = errors.New("Segmento é obrigatório")

// Briefing holds the business data submitted by the user.
type Briefing struct {
	Segmento           string `json:"segmento"`
	Produto            string `json:"produto,omitempty"`
	Descricao          string `json:"descricao,omitempty"`
	Preco              string `json:"preco,omitempty"`
	Publico            string `json:"publico,omitempty"`
	ObjetivoReceita    string `json:"objetivo_receita,omitempty"`
	OrcamentoMarketing string `json:"orcamento_marketing,omitempty"`
	PrazoLancamento    string `json:"prazo_lancamento,omitempty"`
	Concorrentes       string `json:"concorrentes,omitempty"`
	DadosAdicionais    string `json:"dados_adicionais,omitempty"`
	UserID             string `json:"user_id,omitempty"`
	Email              string `json:"email,omitempty"`
}

// Validate checks the briefing for required fields. The segment (or
// niche) is the only mandatory input.
func (b Briefing) Validate() error {
	if strings.TrimSpace(b.Segmento) == "" {
		return ErrSegmentRequired
	}
	return nil
}

// ════════════════════════════════════════════════════════════════════
// Result — the analysis document. Every facet is optional: renderers
// downstream must tolerate any combination of nil fields.
// ════════════════════════════════════════════════════════════════════

// Result is the full avatar-archeology analysis for one segment.
type Result struct {
	Scope        *Scope              `json:"escopo,omitempty"`
	Avatar       *Avatar             `json:"avatar_ultra_detalhado,omitempty"`
	PainMapping  *PainMapping        `json:"mapeamento_dores_ultra_detalhado,omitempty"`
	Competition  *Competition        `json:"analise_concorrencia_detalhada,omitempty"`
	MarketIntel  *MarketIntelligence `json:"inteligencia_mercado,omitempty"`
	Keywords     *KeywordStrategy    `json:"estrategia_palavras_chave,omitempty"`
	Metrics      *PerformanceMetrics `json:"metricas_performance_detalhadas,omitempty"`
	MarketVoice  *MarketVoice        `json:"voz_mercado_linguagem,omitempty"`
	Projections  *Projections        `json:"projecoes_cenarios,omitempty"`
	ActionPlan   []ActionPhase       `json:"plano_acao_detalhado,omitempty"`
	Insights     []string            `json:"insights_exclusivos,omitempty"`
	GeneratedAt  time.Time           `json:"generated_at,omitempty"`
	FromFallback bool                `json:"fallback,omitempty"`
}

// Scope describes the market scope of the segment.
type Scope struct {
	SegmentoPrincipal string      `json:"segmento_principal,omitempty"`
	Subsegmentos      []string    `json:"subsegmentos,omitempty"`
	ProdutoIdeal      string      `json:"produto_ideal,omitempty"`
	PropostaValor     string      `json:"proposta_valor,omitempty"`
	TamanhoMercado    *MarketSize `json:"tamanho_mercado,omitempty"`
}

// MarketSize is the TAM/SAM/SOM triple, pre-formatted for display.
type MarketSize struct {
	TAM string `json:"tam,omitempty"`
	SAM string `json:"sam,omitempty"`
	SOM string `json:"som,omitempty"`
}

// Avatar is the ultra-detailed persona description.
type Avatar struct {
	Persona              *Persona          `json:"persona_principal,omitempty"`
	Demografia           map[string]string `json:"demografia_detalhada,omitempty"`
	Psicografia          *Psychographics   `json:"psicografia_profunda,omitempty"`
	ComportamentoDigital map[string]string `json:"comportamento_digital,omitempty"`
}

// Persona is the named archetype of the ideal customer.
type Persona struct {
	Nome         string `json:"nome,omitempty"`
	Idade        string `json:"idade,omitempty"`
	Profissao    string `json:"profissao,omitempty"`
	RendaMensal  string `json:"renda_mensal,omitempty"`
	Localizacao  string `json:"localizacao,omitempty"`
	EstadoCivil  string `json:"estado_civil,omitempty"`
	Escolaridade string `json:"escolaridade,omitempty"`
}

// Psychographics captures values, lifestyle, fears and motivators.
type Psychographics struct {
	ValoresFundamentais []string `json:"valores_fundamentais,omitempty"`
	EstiloVida          string   `json:"estilo_vida_detalhado,omitempty"`
	Personalidade       string   `json:"personalidade_dominante,omitempty"`
	Aspiracoes          []string `json:"aspiracoes_profissionais,omitempty"`
	Medos               []string `json:"medos_profundos,omitempty"`
	Motivadores         []string `json:"motivadores_principais,omitempty"`
}

// PainMapping groups pain points by severity tier plus the pain journey.
type PainMapping struct {
	Criticas    []PainPoint `json:"dores_nivel_1_criticas,omitempty"`
	Importantes []PainPoint `json:"dores_nivel_2_importantes,omitempty"`
	Latentes    []PainPoint `json:"dores_nivel_3_latentes,omitempty"`
	Jornada     []string    `json:"jornada_dor,omitempty"`
}

// PainPoint is one diagnosed pain with qualifiers.
type PainPoint struct {
	Dor              string `json:"dor,omitempty"`
	Intensidade      string `json:"intensidade,omitempty"`
	Frequencia       string `json:"frequencia,omitempty"`
	ImpactoVida      string `json:"impacto_vida,omitempty"`
	NivelConsciencia string `json:"nivel_consciencia,omitempty"`
}

// Competition lists direct competitors and open opportunity gaps.
type Competition struct {
	Diretos []Competitor `json:"concorrentes_diretos,omitempty"`
	Gaps    []string     `json:"gaps_oportunidades,omitempty"`
}

// Competitor is one direct competitor profile.
type Competitor struct {
	Nome           string   `json:"nome,omitempty"`
	PrecoRange     string   `json:"preco_range,omitempty"`
	PropostaValor  string   `json:"proposta_valor,omitempty"`
	PontosFortes   []string `json:"pontos_fortes,omitempty"`
	PontosFracos   []string `json:"pontos_fracos,omitempty"`
	Posicionamento string   `json:"posicionamento,omitempty"`
}

// MarketIntelligence holds growth trends and seasonality notes.
type MarketIntelligence struct {
	Tendencias   []string          `json:"tendencias_crescimento,omitempty"`
	Sazonalidade map[string]string `json:"sazonalidade,omitempty"`
}

// KeywordStrategy holds keyword lists and per-channel acquisition costs.
type KeywordStrategy struct {
	Primarias       []Keyword               `json:"palavras_primarias,omitempty"`
	CaudaLonga      []Keyword               `json:"palavras_cauda_longa,omitempty"`
	CustosAquisicao map[string]*ChannelCost `json:"custos_aquisicao_canal,omitempty"`
}

// Keyword is one search term with volume and cost estimates.
type Keyword struct {
	Termo        string `json:"termo,omitempty"`
	VolumeMensal string `json:"volume_mensal,omitempty"`
	Dificuldade  string `json:"dificuldade,omitempty"`
	CPCEstimado  string `json:"cpc_estimado,omitempty"`
	Oportunidade string `json:"oportunidade,omitempty"`
}

// ChannelCost is the estimated acquisition cost for one ad channel.
type ChannelCost struct {
	CPCMedio    string `json:"cpc_medio,omitempty"`
	CTREsperado string `json:"ctr_esperado,omitempty"`
	CPAEstimado string `json:"cpa_estimado,omitempty"`
}

// PerformanceMetrics holds segment benchmarks, the conversion funnel
// and critical KPIs.
type PerformanceMetrics struct {
	Benchmarks map[string]string `json:"benchmarks_segmento,omitempty"`
	Funil      []FunnelStage     `json:"funil_conversao,omitempty"`
	KPIs       []KPI             `json:"kpis_criticos,omitempty"`
}

// FunnelStage is one conversion stage, expressed as a percentage of
// the first stage.
type FunnelStage struct {
	Etapa      string `json:"etapa,omitempty"`
	Percentual string `json:"percentual,omitempty"`
}

// KPI is one critical metric with its target and measurement method.
type KPI struct {
	Metrica    string `json:"metrica,omitempty"`
	ValorIdeal string `json:"valor_ideal,omitempty"`
	ComoMedir  string `json:"como_medir,omitempty"`
}

// MarketVoice captures the vocabulary, objections and mental triggers
// of the segment's audience.
type MarketVoice struct {
	Vocabulario []string `json:"vocabulario,omitempty"`
	Objecoes    []string `json:"objecoes_comuns,omitempty"`
	Gatilhos    []string `json:"gatilhos_mentais,omitempty"`
}

// Projections holds the three forecast scenarios.
type Projections struct {
	Conservador *Scenario `json:"cenario_conservador,omitempty"`
	Realista    *Scenario `json:"cenario_realista,omitempty"`
	Otimista    *Scenario `json:"cenario_otimista,omitempty"`
}

// Scenario is one named forecast (conversion, ticket, CAC, ROI).
type Scenario struct {
	TaxaConversao string `json:"taxa_conversao,omitempty"`
	TicketMedio   string `json:"ticket_medio,omitempty"`
	CAC           string `json:"cac,omitempty"`
	ROI           string `json:"roi,omitempty"`
}

// ActionPhase is one ordered phase of the action plan.
type ActionPhase struct {
	Fase    string       `json:"fase,omitempty"`
	Duracao string       `json:"duracao,omitempty"`
	Acoes   []ActionItem `json:"acoes,omitempty"`
}

// ActionItem is one concrete action inside a phase.
type ActionItem struct {
	Acao        string `json:"acao,omitempty"`
	Responsavel string `json:"responsavel,omitempty"`
	Prazo       string `json:"prazo,omitempty"`
}

// ════════════════════════════════════════════════════════════════════
// Summary — compact listing view used by the history API
// ════════════════════════════════════════════════════════════════════

// Summary is the compact representation of a stored analysis.
type Summary struct {
	Segmento     string    `json:"segmento"`
	ProdutoIdeal string    `json:"produto_ideal,omitempty"`
	Insights     int       `json:"insights"`
	GeneratedAt  time.Time `json:"generated_at,omitempty"`
}

// Summarize extracts a Summary from a Result. It tolerates a nil or
// partially-filled result.
func Summarize(r *Result) Summary {
	var s Summary
	if r == nil {
		return s
	}
	if r.Scope != nil {
		s.Segmento = r.Scope.SegmentoPrincipal
		s.ProdutoIdeal = r.Scope.ProdutoIdeal
	}
	s.Insights = len(r.Insights)
	s.GeneratedAt = r.GeneratedAt
	return s
}
