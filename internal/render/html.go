package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/amazing-skyhawk/crm/internal/money"
)

const proposalTemplate = `<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: 'Helvetica', sans-serif; padding: 40px; color: #333; }
		.header-container { text-align: center; border-bottom: 4px solid #004d40; padding-bottom: 20px; }
		.logo-img { height: 120px; width: auto; object-fit: contain; }
		.roi-box { background-color: #f1f8e9; padding: 25px; border-left: 6px solid #33691e; margin: 30px 0; border-radius: 8px; }
		table { width: 100%; border-collapse: collapse; margin-top: 25px; }
		th { background-color: #004d40; color: white; padding: 15px; text-align: left; }
		td { border-bottom: 1px solid #ddd; padding: 15px; }
		.total { text-align: right; font-size: 28px; font-weight: bold; margin-top: 30px; color: #004d40; }
		.signatures { margin-top: 80px; display: flex; justify-content: space-between; }
		.sig-line { width: 30%; border-top: 1px solid #333; text-align: center; font-size: 12px; padding-top: 10px; font-weight: bold; }
	</style>
</head>
<body>
	<div class="header-container">
		{{if .LogoURI}}<img src="{{.LogoURI}}" class="logo-img">{{end}}
		<h1 style="margin:15px 0 0 0; color:#004d40; font-size:24px;">PROPOSTA TÉCNICA E COMERCIAL</h1>
	</div>
	<div style="margin-top: 30px;">
		<p><strong>Cliente:</strong> {{.Client}}</p>
		<p><strong>Modalidade:</strong> {{.Contract}}</p>
		<p><strong>Vigência:</strong> {{.DurationMonths}} Meses</p>
	</div>
	<div class="roi-box">
		<h3 style="margin-top:0; color:#1b5e20">Análise de Valor &amp; Investimento</h3>
		{{.ROIBody}}
	</div>
	<h3 style="color:#004d40; border-bottom: 2px solid #eee; padding-bottom: 10px;">Detalhamento Financeiro</h3>
	<table>
		<tr><th>Descrição do Serviço</th><th style="text-align:right">Investimento Mensal</th></tr>
		{{range .Items}}
		<tr><td>{{.Name}} <small>({{.Quantity}} {{.Unit}})</small>{{if .Note}}<br><small>{{.Note}}</small>{{end}}</td><td style="text-align:right">{{brl .Total}}</td></tr>
		{{end}}
	</table>
	<div class="total">Total Mensal: {{brl .Total}}</div>
	<div class="signatures">
		<div class="sig-line">Diretoria Comercial<br>Amazing SkyHawk Holding</div>
		<div class="sig-line">De Acordo<br>{{.Client}}</div>
	</div>
	<div style="margin-top: 50px; text-align: center; color: #888; font-size: 12px;">
		<p>Proposta válida por 10 dias úteis. Operações homologadas DECEA/ANAC.</p>
	</div>
</body>
</html>
`

type proposalView struct {
	Client         string
	Contract       string
	DurationMonths int
	LogoURI        template.URL
	ROIBody        template.HTML
	Items          []itemRow
	Total          float64
}

// ProposalHTML renders the styled hypertext proposal document.
func ProposalHTML(p Proposal) (string, error) {
	if p.Client == "" {
		return "", fmt.Errorf("cliente é obrigatório para gerar a proposta")
	}

	tmpl, err := template.New("proposal").Funcs(template.FuncMap{
		"brl": money.Format,
	}).Parse(proposalTemplate)
	if err != nil {
		return "", fmt.Errorf("parse proposal template: %w", err)
	}

	view := proposalView{
		Client:         p.Client,
		Contract:       string(p.Contract),
		DurationMonths: p.DurationMonths,
		LogoURI:        template.URL(logoDataURI(p.LogoPath)),
		ROIBody:        template.HTML(p.ROI.Body),
		Items:          itemRows(p.Cart),
		Total:          p.Total,
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, view); err != nil {
		return "", fmt.Errorf("render proposal template: %w", err)
	}
	return b.String(), nil
}
