package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestInvoiceFlow_CardSpendAndLimit(t *testing.T) {
	app := setupApp(t)
	token, _, admin := app.setupHousehold(t)
	adminID := admin["id"].(float64)

	rec := app.request("POST", "/api/v1/cards",
		fmt.Sprintf(`{"profile_id":%.0f,"name":"Nubank","brand":"mastercard","limit":100000,"due_day":10}`, adminID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating card, got %d: %s", rec.Code, rec.Body.String())
	}
	card := parseJSON(t, rec)["card"].(map[string]interface{})
	cardID := card["id"].(float64)
	if card["current_spend"].(float64) != 0 {
		t.Errorf("expected new card with zero spend, got %.0f", card["current_spend"].(float64))
	}

	// Spend up to exactly the limit.
	rec = app.request("POST", fmt.Sprintf("/api/v1/cards/%.0f/spend", cardID),
		`{"amount":60000}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 registering spend, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.request("POST", fmt.Sprintf("/api/v1/cards/%.0f/spend", cardID),
		`{"amount":40000}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 spending up to the limit, got %d: %s", rec.Code, rec.Body.String())
	}
	card = parseJSON(t, rec)["card"].(map[string]interface{})
	if card["current_spend"].(float64) != 100000 {
		t.Errorf("expected spend accumulated to 100000, got %.0f", card["current_spend"].(float64))
	}

	// One cent over the limit is refused and nothing is recorded.
	rec = app.request("POST", fmt.Sprintf("/api/v1/cards/%.0f/spend", cardID),
		`{"amount":1}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 over the limit, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "CARD_LIMIT_EXCEEDED" {
		t.Errorf("expected CARD_LIMIT_EXCEEDED, got %s", code)
	}

	rec = app.request("GET", fmt.Sprintf("/api/v1/cards?profile_id=%.0f", adminID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing cards, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	cards := result["data"].([]interface{})
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	if got := cards[0].(map[string]interface{})["current_spend"].(float64); got != 100000 {
		t.Errorf("expected rejected spend to leave the accumulator at 100000, got %.0f", got)
	}
}

func TestInvoiceFlow_CloseAndPay(t *testing.T) {
	app := setupApp(t)
	token, _, admin := app.setupHousehold(t)
	adminID := admin["id"].(float64)

	rec := app.request("POST", "/api/v1/cards",
		fmt.Sprintf(`{"profile_id":%.0f,"name":"Nubank","brand":"mastercard","limit":500000,"due_day":10}`, adminID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating card, got %d: %s", rec.Code, rec.Body.String())
	}
	cardID := parseJSON(t, rec)["card"].(map[string]interface{})["id"].(float64)

	// Step 1: Close the March invoice at R$500.
	rec = app.request("POST", "/api/v1/invoices",
		fmt.Sprintf(`{"card_id":%.0f,"period":"2025-03","amount":50000}`, cardID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 closing invoice, got %d: %s", rec.Code, rec.Body.String())
	}
	invoice := parseJSON(t, rec)["invoice"].(map[string]interface{})
	invoiceID := invoice["id"].(float64)
	if invoice["paid"] != false || invoice["amount_paid"].(float64) != 0 {
		t.Errorf("expected fresh invoice unpaid, got %v", invoice)
	}

	// A card closes at most one invoice per month.
	rec = app.request("POST", "/api/v1/invoices",
		fmt.Sprintf(`{"card_id":%.0f,"period":"2025-03","amount":60000}`, cardID), token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate period, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "DUPLICATE_INVOICE_PERIOD" {
		t.Errorf("expected DUPLICATE_INVOICE_PERIOD, got %s", code)
	}

	// Step 2: Partial payment.
	rec = app.request("PUT", fmt.Sprintf("/api/v1/invoices/%.0f/pay", invoiceID),
		`{"amount":20000}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on partial payment, got %d: %s", rec.Code, rec.Body.String())
	}
	invoice = parseJSON(t, rec)["invoice"].(map[string]interface{})
	if invoice["amount_paid"].(float64) != 20000 || invoice["paid"] != false {
		t.Errorf("expected partial payment recorded, got %v", invoice)
	}

	// A payment below the recorded total is rejected.
	rec = app.request("PUT", fmt.Sprintf("/api/v1/invoices/%.0f/pay", invoiceID),
		`{"amount":15000}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for decreasing payment, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "PAYMENT_DECREASE" {
		t.Errorf("expected PAYMENT_DECREASE, got %s", code)
	}

	// Step 3: Overpayment clamps to the invoice amount and settles it.
	rec = app.request("PUT", fmt.Sprintf("/api/v1/invoices/%.0f/pay", invoiceID),
		`{"amount":70000}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on clamped payment, got %d: %s", rec.Code, rec.Body.String())
	}
	invoice = parseJSON(t, rec)["invoice"].(map[string]interface{})
	if invoice["amount_paid"].(float64) != 50000 {
		t.Errorf("expected payment clamped to 50000, got %.0f", invoice["amount_paid"].(float64))
	}
	if invoice["paid"] != true {
		t.Error("expected invoice settled after full payment")
	}

	// Step 4: The ledger of invoices is visible per card.
	rec = app.request("POST", "/api/v1/invoices",
		fmt.Sprintf(`{"card_id":%.0f,"period":"2025-04","amount":32000}`, cardID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 closing April invoice, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", fmt.Sprintf("/api/v1/invoices?card_id=%.0f", cardID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing invoices, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["total_items"].(float64) != 2 {
		t.Errorf("expected 2 invoices, got %.0f", result["total_items"].(float64))
	}

	// A card with invoices cannot be deleted.
	rec = app.request("DELETE", fmt.Sprintf("/api/v1/cards/%.0f", cardID), "", token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 deleting card with invoices, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "CARD_HAS_INVOICES" {
		t.Errorf("expected CARD_HAS_INVOICES, got %s", code)
	}
}

func TestInvoiceFlow_OtherFamilyCannotTouch(t *testing.T) {
	app := setupApp(t)
	token, _, admin := app.setupHousehold(t)
	adminID := admin["id"].(float64)

	rec := app.request("POST", "/api/v1/cards",
		fmt.Sprintf(`{"profile_id":%.0f,"name":"Nubank","brand":"mastercard","limit":500000,"due_day":10}`, adminID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating card, got %d: %s", rec.Code, rec.Body.String())
	}
	cardID := parseJSON(t, rec)["card"].(map[string]interface{})["id"].(float64)

	rec = app.request("POST", "/api/v1/invoices",
		fmt.Sprintf(`{"card_id":%.0f,"period":"2025-03","amount":50000}`, cardID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 closing invoice, got %d: %s", rec.Code, rec.Body.String())
	}
	invoiceID := parseJSON(t, rec)["invoice"].(map[string]interface{})["id"].(float64)

	// A second family's session must not reach the first family's records.
	app.registerAccount(t, "Família Souza", "souza@example.com", "password123")
	otherToken := app.loginAccount(t, "souza@example.com", "password123")

	rec = app.request("POST", fmt.Sprintf("/api/v1/cards/%.0f/spend", cardID),
		`{"amount":10000}`, otherToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 spending on a foreign card, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "CARD_NOT_FOUND" {
		t.Errorf("expected CARD_NOT_FOUND, got %s", code)
	}

	rec = app.request("PUT", fmt.Sprintf("/api/v1/invoices/%.0f/pay", invoiceID),
		`{"amount":50000}`, otherToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 paying a foreign invoice, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "INVOICE_NOT_FOUND" {
		t.Errorf("expected INVOICE_NOT_FOUND, got %s", code)
	}

	rec = app.request("GET", fmt.Sprintf("/api/v1/invoices?card_id=%.0f", cardID), "", otherToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 listing a foreign card's invoices, got %d: %s", rec.Code, rec.Body.String())
	}

	// The first family still sees an untouched invoice.
	rec = app.request("GET", fmt.Sprintf("/api/v1/invoices?card_id=%.0f", cardID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing own invoices, got %d: %s", rec.Code, rec.Body.String())
	}
	data := parseJSON(t, rec)["data"].([]interface{})
	invoice := data[0].(map[string]interface{})
	if invoice["amount_paid"].(float64) != 0 {
		t.Errorf("expected no payment recorded, got %.0f", invoice["amount_paid"].(float64))
	}
}
