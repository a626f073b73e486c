package main

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/amazing-skyhawk/crm/internal/deals"
	"github.com/amazing-skyhawk/crm/internal/pricing"
)

func TestHandleAddSurveillancePricesByContractAndDuration(t *testing.T) {
	srv := newTestServer(t)
	key := sessionFor(t, srv)

	form := url.Values{}
	form.Set("extra_rounds", "2")
	resp := postForm(srv.handleAddSurveillance, key, "/proposal/items/surveillance", form)

	assertRedirectSuccess(t, resp)

	state := srv.sessions.snapshot(key)
	if len(state.Cart.Items) != 1 {
		t.Fatalf("expected 1 cart item, got %d", len(state.Cart.Items))
	}
	// Rental at the default 36 months is 30000, plus 2 extra rounds at 850.
	if got := state.Cart.Items[0].Total; got != 31700 {
		t.Fatalf("surveillance total = %v, want 31700", got)
	}
	if !strings.Contains(state.Cart.Items[0].Name, "Monitoramento") {
		t.Fatalf("unexpected item name %q", state.Cart.Items[0].Name)
	}
}

func TestHandleAddVolumetryRejectsInvalidQuantities(t *testing.T) {
	srv := newTestServer(t)
	key := sessionFor(t, srv)

	form := url.Values{}
	form.Set("volumes", "2")
	form.Set("batteries", "abc")
	resp := postForm(srv.handleAddVolumetry, key, "/proposal/items/volumetry", form)

	assertRedirectError(t, resp)

	if state := srv.sessions.snapshot(key); len(state.Cart.Items) != 0 {
		t.Fatalf("invalid input must not modify the cart, got %d items", len(state.Cart.Items))
	}
}

func TestHandleRemoveItemOutOfRange(t *testing.T) {
	srv := newTestServer(t)
	key := sessionFor(t, srv)

	form := url.Values{}
	form.Set("index", "5")
	resp := postForm(srv.handleRemoveItem, key, "/proposal/items/remove", form)

	assertRedirectError(t, resp)
}

func TestHandleCloseDealPersistsAndClearsCart(t *testing.T) {
	srv := newTestServer(t)
	key := sessionFor(t, srv)

	item, err := pricing.VolumetryLine(2, 3)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	srv.sessions.update(key, func(state *proposalState) {
		state.Client = "Porto Seguro Logística"
		state.Cart.Add(item)
	})

	resp := postForm(srv.handleCloseDeal, key, "/proposal/close", url.Values{})
	assertRedirectSuccess(t, resp)

	all, err := srv.store.FetchAll(t.Context())
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 saved deal, got %d", len(all))
	}
	saved := all[0]
	if saved.Client != "Porto Seguro Logística" {
		t.Fatalf("saved client = %q", saved.Client)
	}
	if saved.TotalMonthly != 12000 {
		t.Fatalf("saved total = %v, want 12000", saved.TotalMonthly)
	}
	if saved.OwningEntity != pricing.EntityAmazing {
		t.Fatalf("volumetry-only deal must belong to %q, got %q", pricing.EntityAmazing, saved.OwningEntity)
	}
	if saved.RecordedDate == "" {
		t.Fatalf("expected recorded date to be stamped")
	}

	if state := srv.sessions.snapshot(key); len(state.Cart.Items) != 0 {
		t.Fatalf("cart must be cleared after closing, got %d items", len(state.Cart.Items))
	}
}

func TestHandleCloseDealRequiresClientAndItems(t *testing.T) {
	srv := newTestServer(t)
	key := sessionFor(t, srv)

	// Empty cart and no client.
	resp := postForm(srv.handleCloseDeal, key, "/proposal/close", url.Values{})
	assertRedirectError(t, resp)

	srv.sessions.update(key, func(state *proposalState) {
		state.Client = "Cliente Sem Itens"
	})
	resp = postForm(srv.handleCloseDeal, key, "/proposal/close", url.Values{})
	assertRedirectError(t, resp)

	all, err := srv.store.FetchAll(t.Context())
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no saved deals, got %d", len(all))
	}
}

func TestHandleProposalDocumentPDF(t *testing.T) {
	srv := newTestServer(t)
	key := sessionFor(t, srv)

	item, err := pricing.VolumetryLine(1, 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	srv.sessions.update(key, func(state *proposalState) {
		state.Client = "Fazenda Santa Rita"
		state.Cart.Add(item)
	})

	req := httptest.NewRequest("GET", "/proposal/document?format=pdf", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: key})
	rec := httptest.NewRecorder()
	srv.handleProposalDocument(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Fatalf("expected a PDF document")
	}
}

func TestHandleProposalDocumentRejectsUnknownFormat(t *testing.T) {
	srv := newTestServer(t)
	key := sessionFor(t, srv)

	req := httptest.NewRequest("GET", "/proposal/document?format=docx", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: key})
	rec := httptest.NewRecorder()
	srv.handleProposalDocument(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleReportsDocumentPDF(t *testing.T) {
	srv := newTestServer(t)
	key := sessionFor(t, srv)

	_, err := srv.store.Append(t.Context(), deals.Deal{
		Client:         "Porto Seguro Logística",
		ContractType:   string(pricing.ContractRental),
		DurationMonths: 36,
		ServiceSummary: "Monitoramento 36 Meses (3 Anos)",
		TotalMonthly:   30000,
		SkyhawkRevenue: 30000,
		OwningEntity:   pricing.EntitySkyhawk,
	})
	if err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	req := httptest.NewRequest("GET", "/reports/document", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: key})
	rec := httptest.NewRecorder()
	srv.handleReportsDocument(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Fatalf("expected a PDF document")
	}
}

func TestSessionKeyRejectsTamperedCookie(t *testing.T) {
	srv := newTestServer(t)
	key := sessionFor(t, srv)

	valid := httptest.NewRequest("GET", "/proposal", nil)
	valid.AddCookie(&http.Cookie{Name: sessionCookieName, Value: key})
	if _, ok := sessionKey(valid, srv.auth); !ok {
		t.Fatalf("expected valid session cookie to be accepted")
	}

	tampered := httptest.NewRequest("GET", "/proposal", nil)
	tampered.AddCookie(&http.Cookie{Name: sessionCookieName, Value: key + "ff"})
	if _, ok := sessionKey(tampered, srv.auth); ok {
		t.Fatalf("expected tampered cookie to be rejected")
	}

	missing := httptest.NewRequest("GET", "/proposal", nil)
	if _, ok := sessionKey(missing, srv.auth); ok {
		t.Fatalf("expected missing cookie to be rejected")
	}
}

func newTestServer(t *testing.T) *server {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	_, err = db.Exec(`
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE deals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			client TEXT NOT NULL,
			contract_type TEXT NOT NULL,
			duration_months INTEGER NOT NULL,
			service_summary TEXT NOT NULL,
			total_monthly REAL NOT NULL,
			skyhawk_revenue REAL NOT NULL,
			amazing_revenue REAL NOT NULL,
			owning_entity TEXT NOT NULL,
			recorded_date TEXT NOT NULL
		);
	`)
	if err != nil {
		t.Fatalf("failed creating schema: %v", err)
	}

	return &server{
		auth:     newAuthService(db, "test-secret"),
		db:       db,
		store:    deals.NewSQLiteStore(db),
		sessions: newSessionStore(),
	}
}

// sessionFor returns a signed cookie value, which doubles as the state key.
func sessionFor(t *testing.T, srv *server) string {
	t.Helper()
	return srv.auth.createSessionValue("admin@holding.com")
}

func postForm(handler http.HandlerFunc, key, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: key})
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func assertRedirectSuccess(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "success=") {
		t.Fatalf("expected success redirect, got %q", loc)
	}
}

func assertRedirectError(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=") {
		t.Fatalf("expected error redirect, got %q", loc)
	}
}
