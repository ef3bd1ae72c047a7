package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/api"
	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/dbopen"
	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/engine"
	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/events"
	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/store"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	db := dbopen.OpenMemory(t, dbopen.WithSchema(store.Schema+events.Schema))
	st := store.New(db)
	eng := engine.New(st,
		engine.WithNow(func() time.Time {
			return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
		}),
		engine.WithRand(rand.New(rand.NewSource(1))),
	)
	srv := api.New(st, eng, events.New(db), api.DefaultConfig(), nil)
	return srv.Router()
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

// WHAT: creating a customer returns the stored record with its assigned ID.
// WHY: the dashboard uses the returned ID for follow-up purchase posts.
func TestAddCustomer(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/customers",
		`{"name":"Rajesh Kumar","email":"Rajesh@Example.com","phone":"9876543210","location":"Mumbai"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("expected success envelope, got %v", body)
	}
	customer, ok := body["customer"].(map[string]any)
	if !ok {
		t.Fatalf("missing customer in response: %v", body)
	}
	if customer["email"] != "rajesh@example.com" {
		t.Fatalf("email not lowercased: %v", customer["email"])
	}
	if customer["id"].(float64) <= 0 {
		t.Fatalf("missing assigned id: %v", customer["id"])
	}
}

func TestAddCustomer_MissingFields(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/customers", `{"name":"","email":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Fatalf("expected failure envelope, got %v", body)
	}
}

func TestAddCustomer_DuplicateEmail(t *testing.T) {
	h := newTestServer(t)
	doJSON(t, h, http.MethodPost, "/api/customers", `{"name":"A","email":"a@b.com"}`)
	rec := doJSON(t, h, http.MethodPost, "/api/customers", `{"name":"B","email":"A@B.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "already exists") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

// WHAT: PUT with a partial body only changes the fields it names.
// WHY: the edit form sends just the edited fields.
func TestUpdateCustomer_PartialBody(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/customers",
		`{"name":"Priya Sharma","email":"priya@example.com","location":"Delhi"}`)
	id := decodeBody(t, rec)["customer"].(map[string]any)["id"].(float64)

	rec = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/customers/%d", int64(id)),
		`{"location":"Bangalore"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body: %s", rec.Code, rec.Body.String())
	}
	customer := decodeBody(t, rec)["customer"].(map[string]any)
	if customer["location"] != "Bangalore" {
		t.Fatalf("location not updated: %v", customer["location"])
	}
	if customer["name"] != "Priya Sharma" {
		t.Fatalf("name should be untouched: %v", customer["name"])
	}
}

func TestUpdateCustomer_NotFound(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPut, "/api/customers/999", `{"name":"X"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestDeleteCustomer(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/customers",
		`{"name":"Amit Patel","email":"amit@example.com"}`)
	id := decodeBody(t, rec)["customer"].(map[string]any)["id"].(float64)

	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/customers/%d", int64(id)), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/api/customers", "")
	body := decodeBody(t, rec)
	if customers := body["customers"].([]any); len(customers) != 0 {
		t.Fatalf("expected no customers, got %d", len(customers))
	}
}

func TestAddPurchase_AndList(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/customers",
		`{"name":"Rajesh Kumar","email":"rajesh@example.com"}`)
	id := int64(decodeBody(t, rec)["customer"].(map[string]any)["id"].(float64))

	rec = doJSON(t, h, http.MethodPost, "/api/purchases", fmt.Sprintf(
		`{"customerId":%d,"category":"TV","product":"55 inch OLED","amount":45000,"paymentMethod":"Card","date":"2026-03-01"}`, id))
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/api/purchases", "")
	purchases := decodeBody(t, rec)["purchases"].([]any)
	if len(purchases) != 1 {
		t.Fatalf("expected 1 purchase, got %d", len(purchases))
	}
	p := purchases[0].(map[string]any)
	if p["customerName"] != "Rajesh Kumar" {
		t.Fatalf("customer name not joined: %v", p["customerName"])
	}
}

func TestAddPurchase_UnknownCustomer(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/purchases",
		`{"customerId":42,"category":"TV","amount":100}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, body: %s", rec.Code, rec.Body.String())
	}
}

func TestAddPurchase_NegativeAmount(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/purchases",
		`{"customerId":1,"category":"TV","amount":-5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", rec.Code)
	}
}

// WHAT: predictions for a customer with history cover every known category.
// WHY: the scorer emits one row per catalog category for warm customers.
func TestPredictions(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/customers",
		`{"name":"Rajesh Kumar","email":"rajesh@example.com"}`)
	id := int64(decodeBody(t, rec)["customer"].(map[string]any)["id"].(float64))

	doJSON(t, h, http.MethodPost, "/api/purchases", fmt.Sprintf(
		`{"customerId":%d,"category":"TV","amount":45000,"date":"2025-03-10"}`, id))

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/predictions/%d", id), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body: %s", rec.Code, rec.Body.String())
	}
	preds := decodeBody(t, rec)["predictions"].([]any)
	if len(preds) != len(engine.Categories) {
		t.Fatalf("expected %d predictions, got %d", len(engine.Categories), len(preds))
	}
}

func TestPredictions_UnknownCustomer(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/api/predictions/999", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body: %s", rec.Code, rec.Body.String())
	}
	preds := decodeBody(t, rec)["predictions"].([]any)
	if len(preds) != 0 {
		t.Fatalf("expected empty predictions, got %d", len(preds))
	}
}

func TestPeakTimes_EmptyStore(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/api/analytics/peak-times", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	body := decodeBody(t, rec)
	buckets := body["hourlyData"].([]any)
	if len(buckets) != 13 {
		t.Fatalf("expected 13 hourly buckets, got %d", len(buckets))
	}
	insights := body["insights"].(map[string]any)
	if insights["peakHour"] != engine.NoData {
		t.Fatalf("expected no-data sentinel, got %v", insights["peakHour"])
	}
}

func TestTopCustomers_LimitParam(t *testing.T) {
	h := newTestServer(t)
	for i := 0; i < 3; i++ {
		rec := doJSON(t, h, http.MethodPost, "/api/customers",
			fmt.Sprintf(`{"name":"Customer %d","email":"c%d@example.com"}`, i, i))
		id := int64(decodeBody(t, rec)["customer"].(map[string]any)["id"].(float64))
		doJSON(t, h, http.MethodPost, "/api/purchases", fmt.Sprintf(
			`{"customerId":%d,"category":"TV","amount":100,"date":"2026-03-01"}`, id))
	}

	rec := doJSON(t, h, http.MethodGet, "/api/analytics/top-customers?limit=2", "")
	ranks := decodeBody(t, rec)["topCustomers"].([]any)
	if len(ranks) != 2 {
		t.Fatalf("expected 2 ranked customers, got %d", len(ranks))
	}
}

func TestRecentActivity_Empty(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/api/analytics/recent-activity", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	activity := decodeBody(t, rec)["recentActivity"].([]any)
	if len(activity) != 0 {
		t.Fatalf("expected empty activity, got %d", len(activity))
	}
}

func TestOverview(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/api/analytics/overview", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	overview := decodeBody(t, rec)["overview"].(map[string]any)
	if overview["customers"].(float64) != 0 {
		t.Fatalf("expected zero customers, got %v", overview["customers"])
	}
}

func TestImportExcel_NoFile(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/import/excel", bytes.NewReader(nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, body: %s", rec.Code, rec.Body.String())
	}
}

// WHAT: uploading the sample workbook imports its three customers.
// WHY: round-trips the documented import format end to end.
func TestImportExcel_SampleWorkbook(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/import/sample-format", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("sample-format: got status %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "sample_customers.xlsx") {
		t.Fatalf("unexpected Content-Disposition: %q", cd)
	}

	var buf bytes.Buffer
	mw := multipartWriter(t, &buf, "file", "customers.xlsx", rec.Body.Bytes())

	req := httptest.NewRequest(http.MethodPost, "/api/import/excel", &buf)
	req.Header.Set("Content-Type", mw)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("import: got status %d, body: %s", rec2.Code, rec2.Body.String())
	}
	body := decodeBody(t, rec2)
	if body["imported"].(float64) != 3 {
		t.Fatalf("expected 3 imported, got %v", body["imported"])
	}
	if msg := body["message"].(string); !strings.Contains(msg, "3 customer(s)") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

// multipartWriter writes a single-file multipart body into buf and returns
// the Content-Type header value.
func multipartWriter(t *testing.T, buf *bytes.Buffer, field, filename string, data []byte) string {
	t.Helper()
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return mw.FormDataContentType()
}

func TestTestConnection_BadBody(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/import/test-connection", `{`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", rec.Code)
	}
}
