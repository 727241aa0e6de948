package analysis

import (
	"fmt"
	"strings"
)

// buildPrompt assembles the consultant prompt with briefing data, web
// research context and the exact JSON shape the model must return.
func buildPrompt(b Briefing, findings []ResearchFinding) string {
	var research strings.Builder
	lastQuery := ""
	for _, f := range findings {
		if f.Query != lastQuery {
			fmt.Fprintf(&research, "\n**%s:**\n", f.Query)
			lastQuery = f.Query
		}
		snippet := truncateRunes(f.Snippet, 150)
		fmt.Fprintf(&research, "- %s: %s\n", f.Title, snippet)
	}

	return fmt.Sprintf(`Você é um consultor sênior especializado em arqueologia de avatar e análise de mercado no Brasil.

DADOS DO PRODUTO/SERVIÇO:
- Segmento: %s
- Produto: %s
- Preço: R$ %s
- Público: %s
- Objetivo de Receita: R$ %s
- Orçamento Marketing: R$ %s
- Concorrentes conhecidos: %s
- Observações: %s

DADOS DE PESQUISA:
%s

Crie uma análise ULTRA-DETALHADA do avatar ideal para este segmento no mercado brasileiro.

Retorne APENAS um JSON válido com esta estrutura exata:

%s

IMPORTANTE: Retorne APENAS o JSON válido, sem explicações ou texto adicional.`,
		b.Segmento, b.Produto, b.Preco, b.Publico, b.ObjetivoReceita,
		b.OrcamentoMarketing, b.Concorrentes, b.DadosAdicionais,
		research.String(), resultSchema)
}

// truncateRunes shortens s to at most n runes, never splitting a
// multi-byte character.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// resultSchema is the JSON skeleton the model is instructed to fill.
// It must stay in sync with the Result struct tags.
const resultSchema = `{
  "escopo": {
    "segmento_principal": "...",
    "subsegmentos": ["..."],
    "produto_ideal": "...",
    "proposta_valor": "...",
    "tamanho_mercado": {"tam": "R$ X bilhões", "sam": "R$ X milhões", "som": "R$ X milhões"}
  },
  "avatar_ultra_detalhado": {
    "persona_principal": {"nome": "...", "idade": "...", "profissao": "...", "renda_mensal": "...", "localizacao": "...", "estado_civil": "...", "escolaridade": "..."},
    "demografia_detalhada": {"faixa_etaria_primaria": "...", "distribuicao_genero": "...", "distribuicao_geografica": "...", "classes_sociais": "...", "nivel_educacional": "..."},
    "psicografia_profunda": {"valores_fundamentais": ["..."], "estilo_vida_detalhado": "...", "personalidade_dominante": "...", "aspiracoes_profissionais": ["..."], "medos_profundos": ["..."], "motivadores_principais": ["..."]},
    "comportamento_digital": {"redes_principais": "...", "horarios_pico": "...", "conteudo_preferido": "..."}
  },
  "mapeamento_dores_ultra_detalhado": {
    "dores_nivel_1_criticas": [{"dor": "...", "intensidade": "Alta/Média/Baixa", "frequencia": "...", "impacto_vida": "...", "nivel_consciencia": "..."}],
    "dores_nivel_2_importantes": [{"dor": "...", "intensidade": "...", "frequencia": "...", "impacto_vida": "...", "nivel_consciencia": "..."}],
    "dores_nivel_3_latentes": [{"dor": "...", "intensidade": "...", "frequencia": "...", "impacto_vida": "...", "nivel_consciencia": "..."}],
    "jornada_dor": ["..."]
  },
  "analise_concorrencia_detalhada": {
    "concorrentes_diretos": [{"nome": "...", "preco_range": "...", "proposta_valor": "...", "pontos_fortes": ["..."], "pontos_fracos": ["..."], "posicionamento": "..."}],
    "gaps_oportunidades": ["..."]
  },
  "inteligencia_mercado": {
    "tendencias_crescimento": ["..."],
    "sazonalidade": {"janeiro": "...", "dezembro": "..."}
  },
  "estrategia_palavras_chave": {
    "palavras_primarias": [{"termo": "...", "volume_mensal": "...", "dificuldade": "...", "cpc_estimado": "R$ X,XX", "oportunidade": "..."}],
    "palavras_cauda_longa": [{"termo": "...", "volume_mensal": "...", "dificuldade": "...", "cpc_estimado": "R$ X,XX", "oportunidade": "..."}],
    "custos_aquisicao_canal": {
      "google_ads": {"cpc_medio": "R$ X,XX", "ctr_esperado": "X%", "cpa_estimado": "R$ XXX"},
      "facebook_ads": {"cpc_medio": "R$ X,XX", "ctr_esperado": "X%", "cpa_estimado": "R$ XXX"}
    }
  },
  "metricas_performance_detalhadas": {
    "benchmarks_segmento": {"cac_medio_segmento": "R$ XXX", "ltv_medio_segmento": "R$ X.XXX", "churn_rate_medio": "XX%", "ticket_medio_segmento": "R$ XXX"},
    "funil_conversao": [{"etapa": "Visitantes", "percentual": "100%"}, {"etapa": "Vendas", "percentual": "X%"}],
    "kpis_criticos": [{"metrica": "...", "valor_ideal": "...", "como_medir": "..."}]
  },
  "voz_mercado_linguagem": {
    "vocabulario": ["..."],
    "objecoes_comuns": ["..."],
    "gatilhos_mentais": ["..."]
  },
  "projecoes_cenarios": {
    "cenario_conservador": {"taxa_conversao": "X%", "ticket_medio": "R$ XXX", "cac": "R$ XXX", "roi": "XXX%"},
    "cenario_realista": {"taxa_conversao": "X%", "ticket_medio": "R$ XXX", "cac": "R$ XXX", "roi": "XXX%"},
    "cenario_otimista": {"taxa_conversao": "X%", "ticket_medio": "R$ XXX", "cac": "R$ XXX", "roi": "XXX%"}
  },
  "plano_acao_detalhado": [
    {"fase": "Fase 1: ...", "duracao": "X semanas", "acoes": [{"acao": "...", "responsavel": "...", "prazo": "X dias"}]}
  ],
  "insights_exclusivos": ["..."]
}`
