package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/payalnyahorobets-create/ppynlnya/internal/service"
	"github.com/payalnyahorobets-create/ppynlnya/internal/snapshot"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := service.New([]string{"shevchenko", "nahorka"}, nil)
	store, err := snapshot.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("snapshot store: %v", err)
	}
	return NewRouter(svc, store, nil)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const nomenclatureBody = `[
	{"Артикул":"SKU-1","Назва":"Гречка 1кг","Категорія":"1. Бакалія","Ціна закупівлі":"10","Ціна продажу":"15","Кількість":"20"},
	{"Артикул":"SKU-2","Назва":"Сік яблучний","Категорія":"2. Напої","Ціна закупівлі":"8","Ціна продажу":"12","Кількість":"40"}
]`

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Fatalf("health = %d %q", w.Code, w.Body.String())
	}
}

func TestImportAndReportEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/import/nomenclature", nomenclatureBody)
	if w.Code != http.StatusOK {
		t.Fatalf("import nomenclature = %d: %s", w.Code, w.Body.String())
	}
	var importResp struct {
		Imported int    `json:"imported"`
		Scope    string `json:"scope"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &importResp); err != nil {
		t.Fatalf("decode import response: %v", err)
	}
	if importResp.Imported != 2 || importResp.Scope != "global" {
		t.Errorf("import response = %+v", importResp)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/import/sales/2024-01",
		`[{"SKU":"SKU-1","Кількість":"5","Виторг":"75"}]`)
	if w.Code != http.StatusOK {
		t.Fatalf("import sales = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/reports/metrics?today=2024-03-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("metrics = %d: %s", w.Code, w.Body.String())
	}
	var metricsResp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &metricsResp); err != nil {
		t.Fatalf("decode metrics response: %v", err)
	}
	if metricsResp.Count != 2 {
		t.Errorf("metrics count = %d, want 2", metricsResp.Count)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/reports/abc", "")
	if w.Code != http.StatusOK {
		t.Fatalf("abc = %d: %s", w.Code, w.Body.String())
	}
	var abcResp struct {
		Rows   []json.RawMessage `json:"rows"`
		Totals struct {
			Revenue float64 `json:"revenue"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &abcResp); err != nil {
		t.Fatalf("decode abc response: %v", err)
	}
	if len(abcResp.Rows) != 2 || abcResp.Totals.Revenue != 75 {
		t.Errorf("abc response: %d rows, revenue %v", len(abcResp.Rows), abcResp.Totals.Revenue)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/reports/months", "")
	if w.Code != http.StatusOK {
		t.Fatalf("months = %d: %s", w.Code, w.Body.String())
	}
}

func TestImportRejectsBadScopeAndPayload(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/import/nomenclature?scope=warehouse-x", nomenclatureBody)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad scope = %d, want 400", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/import/nomenclature", `{"not":"an array"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad payload = %d, want 400", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/reports/metrics?today=31.01.2024", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad today parameter = %d, want 400", w.Code)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPut, "/api/v1/settings",
		`{"excluded_categories":"Тютюн\nАлкоголь","excluded_skus":"SKU-9"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update settings = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/settings", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get settings = %d", w.Code)
	}
	var settings struct {
		ExcludedCategories []string `json:"excluded_categories"`
		ExcludedSKUs       []string `json:"excluded_skus"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &settings); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if len(settings.ExcludedCategories) != 2 || len(settings.ExcludedSKUs) != 1 {
		t.Errorf("settings = %+v", settings)
	}
}

func TestStateTransferEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/import/nomenclature", nomenclatureBody)
	if w.Code != http.StatusOK {
		t.Fatalf("import = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/state", "")
	if w.Code != http.StatusOK {
		t.Fatalf("export = %d", w.Code)
	}
	doc := w.Body.String()

	// A fresh router restored from the export serves the same item set.
	fresh := newTestRouter(t)
	w = doJSON(t, fresh, http.MethodPut, "/api/v1/state", doc)
	if w.Code != http.StatusOK {
		t.Fatalf("restore = %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, fresh, http.MethodGet, "/api/v1/reports/metrics", "")
	var metricsResp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &metricsResp); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if metricsResp.Count != 2 {
		t.Errorf("restored metrics count = %d, want 2", metricsResp.Count)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/state/persist", "")
	if w.Code != http.StatusOK {
		t.Fatalf("persist = %d: %s", w.Code, w.Body.String())
	}
}

func TestAttributesEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/attributes",
		`{"category":"Бакалія","name":"постачальник","value":"ТОВ Зерно"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("add attribute = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/attributes", `{"name":"без категорії"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid attribute = %d, want 400", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/attributes", "")
	var resp struct {
		Rows []struct {
			Category string `json:"category"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode attributes: %v", err)
	}
	if len(resp.Rows) != 1 || resp.Rows[0].Category != "Бакалія" {
		t.Errorf("attributes = %+v", resp.Rows)
	}
}
