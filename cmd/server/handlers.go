package main

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amazing-skyhawk/crm/internal/deals"
	"github.com/amazing-skyhawk/crm/internal/fiscal"
	"github.com/amazing-skyhawk/crm/internal/money"
	"github.com/amazing-skyhawk/crm/internal/pricing"
	"github.com/amazing-skyhawk/crm/internal/render"
	"github.com/amazing-skyhawk/crm/internal/report"
)

type loginViewData struct {
	baseViewData
}

type cartItemView struct {
	Index    int
	Name     string
	Quantity float64
	Unit     string
	Total    string
}

type proposalViewData struct {
	baseViewData
	Client         string
	Contract       string
	DurationMonths int
	Contracts      []string
	Items          []cartItemView
	Total          string
	OwningEntity   string
	HasItems       bool
	ROIHeadline    string
	ROIBody        template.HTML
}

type dealRowView struct {
	ID           int64
	Client       string
	ContractType string
	Total        string
	Skyhawk      string
	Amazing      string
	RecordedDate string
}

type fiscalView struct {
	Title     string
	Total     string
	Annual    string
	Bracket   string
	Simples   string
	Presumido string
	Advisory  []string
}

type reportsViewData struct {
	baseViewData
	Deals   []dealRowView
	Total   string
	Skyhawk fiscalView
	Amazing fiscalView
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, "home.html", baseViewData{})
}

func (s *server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := sessionKey(r, s.auth); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderTemplate(w, "login.html", loginViewData{})
}

func (s *server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	valid, err := s.auth.validateCredentials(email, password)
	if err != nil {
		slog.Error("authentication failed", "error", err)
		http.Error(w, "authentication error", http.StatusInternalServerError)
		return
	}
	if !valid {
		w.WriteHeader(http.StatusUnauthorized)
		s.renderTemplate(w, "login.html", loginViewData{baseViewData: baseViewData{ErrorMessage: "Credenciais inválidas. Tente novamente."}})
		return
	}

	s.auth.setSessionCookie(w, email)
	http.Redirect(w, r, "/proposal", http.StatusSeeOther)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *server) handleProposalForm(w http.ResponseWriter, r *http.Request) {
	key, _ := sessionKey(r, s.auth)
	state := s.sessions.snapshot(key)
	split := pricing.ComputeTotals(state.Cart)

	view := proposalViewData{
		baseViewData: baseViewData{
			ErrorMessage:   r.URL.Query().Get("error"),
			SuccessMessage: r.URL.Query().Get("success"),
		},
		Client:         state.Client,
		Contract:       string(state.Contract),
		DurationMonths: state.DurationMonths,
		Contracts:      []string{string(pricing.ContractRental), string(pricing.ContractPurchase)},
		Total:          money.Format(split.Total),
		OwningEntity:   split.OwningEntity,
		HasItems:       len(state.Cart.Items) > 0,
	}

	for i, item := range state.Cart.Items {
		view.Items = append(view.Items, cartItemView{
			Index:    i,
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
			Total:    money.Format(item.Total),
		})
	}

	if view.HasItems {
		roi, err := fiscal.EvaluateAcquisitionROI(state.Contract, split.Total, state.DurationMonths)
		if err != nil {
			view.ErrorMessage = err.Error()
		} else {
			view.ROIHeadline = roi.Headline
			view.ROIBody = template.HTML(roi.Body)
		}
	}

	s.renderTemplate(w, "proposal.html", view)
}

func (s *server) handleProposalDetails(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	contract, err := pricing.ParseContractType(r.FormValue("contract"))
	if err != nil {
		redirectProposal(w, r, "", err)
		return
	}
	duration, err := parsePositiveInt(r.FormValue("duration_months"), "prazo (meses)")
	if err != nil {
		redirectProposal(w, r, "", err)
		return
	}

	key, _ := sessionKey(r, s.auth)
	s.sessions.update(key, func(state *proposalState) {
		state.Client = strings.TrimSpace(r.FormValue("client"))
		state.Contract = contract
		state.DurationMonths = duration
	})

	redirectProposal(w, r, "Dados do contrato atualizados", nil)
}

func (s *server) handleAddSurveillance(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	extraRounds, err := parseNonNegativeInt(r.FormValue("extra_rounds"), "rondas extras")
	if err != nil {
		redirectProposal(w, r, "", err)
		return
	}

	key, _ := sessionKey(r, s.auth)
	state := s.sessions.snapshot(key)

	tier, err := pricing.ResolveSurveillancePrice(state.Contract, state.DurationMonths)
	if err != nil {
		redirectProposal(w, r, "", err)
		return
	}
	item, err := pricing.SurveillanceLine(tier, extraRounds)
	if err != nil {
		redirectProposal(w, r, "", err)
		return
	}

	s.sessions.update(key, func(state *proposalState) {
		state.Cart.Add(item)
	})
	redirectProposal(w, r, "Monitoramento adicionado", nil)
}

func (s *server) handleAddVolumetry(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	volumes, err := parsePositiveInt(r.FormValue("volumes"), "quantidade de volumes")
	if err != nil {
		redirectProposal(w, r, "", err)
		return
	}
	batteries, err := parsePositiveInt(r.FormValue("batteries"), "quantidade de baterias")
	if err != nil {
		redirectProposal(w, r, "", err)
		return
	}

	item, err := pricing.VolumetryLine(volumes, batteries)
	if err != nil {
		redirectProposal(w, r, "", err)
		return
	}

	key, _ := sessionKey(r, s.auth)
	s.sessions.update(key, func(state *proposalState) {
		state.Cart.Add(item)
	})
	redirectProposal(w, r, "Volumetria adicionada", nil)
}

func (s *server) handleAddGeneric(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	category, err := parseGenericCategory(r.FormValue("category"))
	if err != nil {
		redirectProposal(w, r, "", err)
		return
	}
	quantity, err := parsePositiveInt(r.FormValue("quantity"), "quantidade")
	if err != nil {
		redirectProposal(w, r, "", err)
		return
	}
	unitValue, err := parseNonNegativeFloat(r.FormValue("unit_value"), "valor unitário")
	if err != nil {
		redirectProposal(w, r, "", err)
		return
	}

	item, err := pricing.GenericLine(category, quantity, unitValue)
	if err != nil {
		redirectProposal(w, r, "", err)
		return
	}

	key, _ := sessionKey(r, s.auth)
	s.sessions.update(key, func(state *proposalState) {
		state.Cart.Add(item)
	})
	redirectProposal(w, r, string(category)+" adicionado", nil)
}

func (s *server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	index, err := parseNonNegativeInt(r.FormValue("index"), "item")
	if err != nil {
		redirectProposal(w, r, "", err)
		return
	}

	key, _ := sessionKey(r, s.auth)
	var removeErr error
	s.sessions.update(key, func(state *proposalState) {
		removeErr = state.Cart.RemoveAt(index)
	})
	if removeErr != nil {
		redirectProposal(w, r, "", removeErr)
		return
	}
	redirectProposal(w, r, "Item removido", nil)
}

func (s *server) handleCloseDeal(w http.ResponseWriter, r *http.Request) {
	key, _ := sessionKey(r, s.auth)
	state := s.sessions.snapshot(key)

	if strings.TrimSpace(state.Client) == "" {
		redirectProposal(w, r, "", fmt.Errorf("informe o cliente antes de fechar o contrato"))
		return
	}
	if len(state.Cart.Items) == 0 {
		redirectProposal(w, r, "", fmt.Errorf("o carrinho está vazio"))
		return
	}

	split := pricing.ComputeTotals(state.Cart)
	deal := deals.Deal{
		Client:         state.Client,
		ContractType:   string(state.Contract),
		DurationMonths: state.DurationMonths,
		ServiceSummary: state.Cart.Summary(),
		TotalMonthly:   split.Total,
		SkyhawkRevenue: split.Skyhawk,
		AmazingRevenue: split.Amazing,
		OwningEntity:   split.OwningEntity,
	}

	if _, err := s.store.Append(r.Context(), deal); err != nil {
		slog.Error("failed to save deal", "error", err)
		http.Error(w, "failed to save deal", http.StatusInternalServerError)
		return
	}

	s.sessions.update(key, func(state *proposalState) {
		state.Cart.Clear()
	})
	redirectProposal(w, r, "Contrato fechado e registrado", nil)
}

func (s *server) handleProposalDocument(w http.ResponseWriter, r *http.Request) {
	key, _ := sessionKey(r, s.auth)
	state := s.sessions.snapshot(key)
	split := pricing.ComputeTotals(state.Cart)

	roi, err := fiscal.EvaluateAcquisitionROI(state.Contract, split.Total, state.DurationMonths)
	if err != nil {
		redirectProposal(w, r, "", err)
		return
	}

	proposal := render.Proposal{
		Client:         state.Client,
		Contract:       state.Contract,
		DurationMonths: state.DurationMonths,
		Cart:           state.Cart,
		Total:          split.Total,
		ROI:            roi,
		LogoPath:       s.logoPath,
	}

	switch r.URL.Query().Get("format") {
	case "html":
		doc, err := render.ProposalHTML(proposal)
		if err != nil {
			redirectProposal(w, r, "", err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="Proposta.html"`)
		_, _ = w.Write([]byte(doc))
	case "pdf":
		doc, err := render.ProposalPDF(proposal)
		if err != nil {
			redirectProposal(w, r, "", err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="Proposta.pdf"`)
		_, _ = w.Write(doc)
	default:
		http.Error(w, "formato inválido", http.StatusBadRequest)
	}
}

func (s *server) handleReports(w http.ResponseWriter, r *http.Request) {
	all, err := s.store.FetchAll(r.Context())
	if err != nil {
		slog.Error("failed to load deals", "error", err)
		http.Error(w, "failed to load deals", http.StatusInternalServerError)
		return
	}

	portfolio := report.Aggregate(all)
	analysis, err := report.Analyze(portfolio)
	if err != nil {
		slog.Error("failed to analyze portfolio", "error", err)
		http.Error(w, "failed to analyze portfolio", http.StatusInternalServerError)
		return
	}

	view := reportsViewData{
		Total:   money.Format(portfolio.TotalRevenue),
		Skyhawk: newFiscalView("SkyHawk Security", portfolio.SkyhawkTotal, analysis.Skyhawk),
		Amazing: newFiscalView("AmazingDrone Solutions", portfolio.AmazingTotal, analysis.Amazing),
	}
	for _, d := range all {
		view.Deals = append(view.Deals, dealRowView{
			ID:           d.ID,
			Client:       d.Client,
			ContractType: d.ContractType,
			Total:        money.Format(d.TotalMonthly),
			Skyhawk:      money.Format(d.SkyhawkRevenue),
			Amazing:      money.Format(d.AmazingRevenue),
			RecordedDate: d.RecordedDate,
		})
	}

	s.renderTemplate(w, "reports.html", view)
}

func (s *server) handleReportsDocument(w http.ResponseWriter, r *http.Request) {
	all, err := s.store.FetchAll(r.Context())
	if err != nil {
		slog.Error("failed to load deals", "error", err)
		http.Error(w, "failed to load deals", http.StatusInternalServerError)
		return
	}

	portfolio := report.Aggregate(all)
	analysis, err := report.Analyze(portfolio)
	if err != nil {
		slog.Error("failed to analyze portfolio", "error", err)
		http.Error(w, "failed to analyze portfolio", http.StatusInternalServerError)
		return
	}

	refDate := time.Now().Format(deals.DateLayout)
	doc, err := render.PortfolioPDF(all, portfolio, analysis, refDate, s.logoPath)
	if err != nil {
		slog.Error("failed to render portfolio report", "error", err)
		http.Error(w, "failed to render portfolio report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="Relatorio_Gestao.pdf"`)
	_, _ = w.Write(doc)
}

func newFiscalView(title string, total float64, a fiscal.Analysis) fiscalView {
	return fiscalView{
		Title:     title,
		Total:     money.Format(total),
		Annual:    money.Format(a.AnnualRevenue),
		Bracket:   a.BracketLabel,
		Simples:   money.Format(a.Estimates[fiscal.SchemeSimples]),
		Presumido: money.Format(a.Estimates[fiscal.SchemePresumido]),
		Advisory:  a.Advisory,
	}
}

func redirectProposal(w http.ResponseWriter, r *http.Request, success string, failure error) {
	if failure != nil {
		http.Redirect(w, r, "/proposal?error="+url.QueryEscape(failure.Error()), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/proposal?success="+url.QueryEscape(success), http.StatusSeeOther)
}

func parsePositiveInt(raw, field string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s deve ser numérico", field)
	}
	if value < 1 {
		return 0, fmt.Errorf("%s deve ser no mínimo 1", field)
	}
	return value, nil
}

func parseNonNegativeInt(raw, field string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s deve ser numérico", field)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s deve ser maior ou igual a 0", field)
	}
	return value, nil
}

func parseNonNegativeFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s deve ser numérico", field)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s deve ser maior ou igual a 0", field)
	}
	return value, nil
}

func parseGenericCategory(raw string) (pricing.ServiceCategory, error) {
	switch pricing.ServiceCategory(raw) {
	case pricing.CategoryInspection:
		return pricing.CategoryInspection, nil
	case pricing.CategoryMapping:
		return pricing.CategoryMapping, nil
	}
	return "", fmt.Errorf("serviço inválido: %q", raw)
}
