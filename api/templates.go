package api

import "html/template"

// Page templates are embedded as constants and share a common shell.
// The loading page refreshes itself so the browser polls the session
// state until the run completes or fails.

const pageHead = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}} · ARQV30</title>
<link rel="stylesheet" href="/static/style.css">
{{if .Steps}}<meta http-equiv="refresh" content="2">{{end}}
</head>
<body>
<div class="topbar">
  <div class="brand">ARQV<span>30</span> · Arqueologia do Avatar</div>
  <div class="user">
    {{if .User}}{{.User.Name}}
    <form method="post" action="/logout"><button class="btn-link" type="submit">Sair</button></form>
    {{end}}
  </div>
</div>
`

const pageFoot = `
<footer class="page">ARQV30 · análise ultra-detalhada de mercado e avatar</footer>
</body>
</html>`

var loginTemplate = template.Must(template.New("login").Parse(pageHead + `
<div class="container">
  <div class="panel">
    <h1>Entrar</h1>
    <p class="subtitle">Acesse para escavar o avatar do seu mercado.</p>
    {{if .Notice}}<div class="notice">{{.Notice}}</div>{{end}}
    <form method="post" action="/login">
      <div class="field">
        <label for="email">E-mail</label>
        <input id="email" name="email" type="email" required>
      </div>
      <div class="field">
        <label for="password">Senha</label>
        <input id="password" name="password" type="password" required>
      </div>
      <div class="actions">
        <a class="btn btn-secondary" href="/signup">Criar conta</a>
        <button class="btn" type="submit">Entrar</button>
      </div>
    </form>
  </div>
</div>
` + pageFoot))

var signupTemplate = template.Must(template.New("signup").Parse(pageHead + `
<div class="container">
  <div class="panel">
    <h1>Criar conta</h1>
    <p class="subtitle">Uma conta guarda suas análises e relatórios.</p>
    {{if .Notice}}<div class="notice">{{.Notice}}</div>{{end}}
    <form method="post" action="/signup">
      <div class="field">
        <label for="name">Nome</label>
        <input id="name" name="name" type="text" required>
      </div>
      <div class="field">
        <label for="email">E-mail</label>
        <input id="email" name="email" type="email" required>
      </div>
      <div class="field">
        <label for="password">Senha</label>
        <input id="password" name="password" type="password" required>
      </div>
      <div class="actions">
        <button class="btn" type="submit">Cadastrar</button>
      </div>
    </form>
  </div>
</div>
` + pageFoot))

var formTemplate = template.Must(template.New("form").Parse(pageHead + `
<div class="container">
  <div class="panel">
    <h1>Novo Briefing</h1>
    <p class="subtitle">Só o segmento é obrigatório; quanto mais contexto, mais profunda a escavação.</p>
    {{if .Notice}}<div class="notice">{{.Notice}}</div>{{end}}
    <form method="post" action="/analyze">
      <div class="field">
        <label for="segmento">Segmento *</label>
        <input id="segmento" name="segmento" type="text" value="{{.Briefing.Segmento}}" placeholder="ex.: fitness, finanças, gastronomia">
        {{if .FormError}}<div class="field-error">{{.FormError}}</div>{{end}}
      </div>
      <div class="field-row">
        <div class="field">
          <label for="produto">Produto ou serviço</label>
          <input id="produto" name="produto" type="text" value="{{.Briefing.Produto}}">
        </div>
        <div class="field">
          <label for="preco">Preço (R$)</label>
          <input id="preco" name="preco" type="text" value="{{.Briefing.Preco}}">
        </div>
      </div>
      <div class="field">
        <label for="descricao">Descrição</label>
        <textarea id="descricao" name="descricao" rows="3">{{.Briefing.Descricao}}</textarea>
      </div>
      <div class="field">
        <label for="publico">Público-alvo</label>
        <input id="publico" name="publico" type="text" value="{{.Briefing.Publico}}">
      </div>
      <div class="field-row">
        <div class="field">
          <label for="objetivo_receita">Objetivo de receita</label>
          <input id="objetivo_receita" name="objetivo_receita" type="text" value="{{.Briefing.ObjetivoReceita}}">
        </div>
        <div class="field">
          <label for="orcamento_marketing">Orçamento de marketing</label>
          <input id="orcamento_marketing" name="orcamento_marketing" type="text" value="{{.Briefing.OrcamentoMarketing}}">
        </div>
      </div>
      <div class="field-row">
        <div class="field">
          <label for="prazo_lancamento">Prazo de lançamento</label>
          <input id="prazo_lancamento" name="prazo_lancamento" type="text" value="{{.Briefing.PrazoLancamento}}">
        </div>
        <div class="field">
          <label for="concorrentes">Concorrentes conhecidos</label>
          <input id="concorrentes" name="concorrentes" type="text" value="{{.Briefing.Concorrentes}}">
        </div>
      </div>
      <div class="field">
        <label for="dados_adicionais">Dados adicionais</label>
        <textarea id="dados_adicionais" name="dados_adicionais" rows="2">{{.Briefing.DadosAdicionais}}</textarea>
      </div>
      <div class="actions">
        <button class="btn" type="submit">Iniciar análise</button>
      </div>
    </form>
  </div>
</div>
` + pageFoot))

var loadingTemplate = template.Must(template.New("loading").Parse(pageHead + `
<div class="container">
  <div class="panel">
    <h1>Escavando seu avatar…</h1>
    <p class="subtitle">A análise leva alguns instantes. Esta página atualiza sozinha.</p>
    <ul class="steps">
      {{$current := .CurrentStep}}
      {{range $i, $label := .Steps}}
      <li class="{{if lt $i $current}}done{{else if eq $i $current}}active{{end}}">{{$label}}</li>
      {{end}}
    </ul>
    <div class="progress-track"><div class="progress-fill" style="width: {{.Percent}}%"></div></div>
  </div>
</div>
` + pageFoot))

var resultsTemplate = template.Must(template.New("results").Parse(pageHead + `
<div class="container wide">
  <div class="actions">
    <a class="btn btn-secondary" href="/novo">Nova análise</a>
    <a class="btn" href="/download">Baixar PDF</a>
  </div>
  <div class="report-frame">
{{.Report}}
  </div>
</div>
` + pageFoot))
