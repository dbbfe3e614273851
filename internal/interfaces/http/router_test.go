package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/visit-audit-api/internal/application/dto"
	"github.com/jhoicas/visit-audit-api/internal/application/ingest"
	"github.com/jhoicas/visit-audit-api/internal/application/repeatvisit"
	"github.com/jhoicas/visit-audit-api/internal/application/store"
	"github.com/jhoicas/visit-audit-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/visit-audit-api/internal/interfaces/http"
)

const visitsBody = `{"records":[
	{"visit_id":"V1","start_time":"2025/06/01 09:00","visitor":"Li","customer_name":"Shop A","customer_code":"C001","duration_minutes":10},
	{"visit_id":"V2","start_time":"2025/06/08 09:00","visitor":"Li","customer_name":"Shop A","customer_code":"C001","duration_minutes":20},
	{"visit_id":"V3","start_time":"2025-06-15 09:00","visitor":"Li","customer_name":"Shop A","customer_code":"C001","duration_minutes":"30"},
	{"visit_id":"V4","start_time":"2025/06/22 09:00","visitor":"Li","customer_name":"Shop A","customer_code":"C001","duration_minutes":"40min"}
]}`

const terminalsBody = `{"records":[{"customer_code":"C001","territory":"East","region":"North"}]}`

type testApp struct {
	app      *fiber.App
	registry *store.Registry
}

// buildTestApp arma la API sobre el store en memoria; start=false deja el registro sin store.
func buildTestApp(t *testing.T, start bool) testApp {
	t.Helper()
	log := zerolog.Nop()
	registry := store.NewRegistry(log)
	coordinator := store.NewCoordinator(registry, memory.NewProvisioner("terminal"), store.CoordinatorConfig{}, log)
	if start {
		require.NoError(t, coordinator.Start(context.Background()))
	}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Ingest:       ingest.NewUseCase(registry, 0, log),
		RepeatVisits: repeatvisit.NewUseCase(registry, log),
		Coordinator:  coordinator,
		Registry:     registry,
	})
	return testApp{app: app, registry: registry}
}

func (ta testApp) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, apphttp.BasePath+path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestUploadYConsulta_EscenarioCompleto(t *testing.T) {
	ta := buildTestApp(t, true)

	resp, raw := ta.do(t, http.MethodPost, "/uploadVisit", visitsBody)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var ingested dto.IngestResponse
	require.NoError(t, json.Unmarshal(raw, &ingested))
	assert.True(t, ingested.Success)
	assert.Equal(t, int64(4), ingested.InsertedCount)

	resp, raw = ta.do(t, http.MethodPost, "/uploadTerminal", terminalsBody)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = ta.do(t, http.MethodGet, "/getFrequentVisits?targetMonth=2025-06&minVisits=3", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var out dto.FrequentVisitsResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out.Data, 1)
	row := out.Data[0]
	assert.Equal(t, "Li", *row.Visitor)
	assert.Equal(t, "C001", *row.CustomerCode)
	assert.Equal(t, "2025-06", *row.VisitMonth)
	assert.Equal(t, int64(4), row.VisitCount)
	assert.Equal(t, int64(100), row.TotalDurationMinutes)
	assert.Equal(t, "25", row.AvgDurationMinutes.String())
	assert.Equal(t, "East", *row.Territory)
	assert.Equal(t, "North", *row.Region)

	resp, raw = ta.do(t, http.MethodGet, "/getFrequentVisits?region=South", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Empty(t, out.Data)

	resp, raw = ta.do(t, http.MethodGet, "/getFrequentVisits?area=Ea", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Len(t, out.Data, 1)
}

func TestUpload_EncabezadosOriginalesDeLaHoja(t *testing.T) {
	ta := buildTestApp(t, true)

	visits := `{"records":[
		{"拜访记录编号":"V1","拜访开始时间":"2025/06/01 09:00","拜访人":"Li","客户名称":"Shop A","客户编码":"C001","拜访用时":10},
		{"拜访记录编号":"V2","拜访开始时间":"2025/06/08 09:00","拜访人":"Li","客户名称":"Shop A","客户编码":"C001","拜访用时":10},
		{"拜访记录编号":"V3","拜访开始时间":"2025/06/15 09:00","拜访人":"Li","客户名称":"Shop A","客户编码":"C001","拜访用时":10},
		{"拜访记录编号":"V4","拜访开始时间":"2025/06/22 09:00","拜访人":"Li","客户名称":"Shop A","客户编码":"C001","拜访用时":"10"}
	]}`
	resp, raw := ta.do(t, http.MethodPost, "/uploadVisit", visits)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	resp, raw = ta.do(t, http.MethodPost, "/uploadTerminal", `{"records":[{"客户编码":"C001","所属片区":"East","所属大区":"North"}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = ta.do(t, http.MethodGet, "/getFrequentVisits?minVisits=3", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.FrequentVisitsResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out.Data, 1)
	assert.Equal(t, "Li", *out.Data[0].Visitor)
	assert.Equal(t, "2025-06", *out.Data[0].VisitMonth)
	assert.Equal(t, int64(4), out.Data[0].VisitCount)
	assert.Equal(t, int64(40), out.Data[0].TotalDurationMinutes)
	assert.Equal(t, "East", *out.Data[0].Territory)
}

func TestConsulta_FechaSoloEspaciosNoFormaGrupo(t *testing.T) {
	ta := buildTestApp(t, true)

	body := `{"records":[
		{"visitor":"Li","customer_code":"C001","start_time":"  "},
		{"visitor":"Li","customer_code":"C001","start_time":"  "}
	]}`
	resp, _ := ta.do(t, http.MethodPost, "/uploadVisit", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := ta.do(t, http.MethodGet, "/getFrequentVisits?minVisits=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.FrequentVisitsResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Empty(t, out.Data)
}

func TestConsulta_FiltroConEspacioEsLiteral(t *testing.T) {
	ta := buildTestApp(t, true)

	resp, _ := ta.do(t, http.MethodPost, "/uploadVisit", visitsBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := ta.do(t, http.MethodGet, "/getFrequentVisits?visitor=%20", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.FrequentVisitsResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Empty(t, out.Data)

	resp, raw = ta.do(t, http.MethodGet, "/getFrequentVisits?customerName=p%20A", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Len(t, out.Data, 1)
}

func TestCleanup_ConsultaPosteriorVacia(t *testing.T) {
	ta := buildTestApp(t, true)
	before := ta.registry.Name()

	resp, _ := ta.do(t, http.MethodPost, "/uploadVisit", visitsBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := ta.do(t, http.MethodPost, "/cleanup", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var reset dto.ResetResponse
	require.NoError(t, json.Unmarshal(raw, &reset))
	assert.True(t, reset.Success)
	assert.NotEqual(t, before, reset.StoreName)

	resp, raw = ta.do(t, http.MethodGet, "/getFrequentVisits?minVisits=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.FrequentVisitsResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Empty(t, out.Data)

	resp, raw = ta.do(t, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status dto.StoreStatusResponse
	require.NoError(t, json.Unmarshal(raw, &status))
	assert.True(t, status.Ready)
	assert.Equal(t, reset.StoreName, status.StoreName)
}

func TestUpload_CuerposInvalidos(t *testing.T) {
	ta := buildTestApp(t, true)

	bodies := []string{
		`{}`,
		`{"records":null}`,
		`{"records":{"visitor":"Li"}}`,
		`{"records":[]}`,
		`{"records":[1,2]}`,
		`no es json`,
	}
	for _, body := range bodies {
		resp, raw := ta.do(t, http.MethodPost, "/uploadVisit", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		var e dto.ErrorResponse
		require.NoError(t, json.Unmarshal(raw, &e), body)
		assert.Equal(t, "INVALID_INPUT", e.Code, body)
	}
}

func TestSinStore_NoEstaListo(t *testing.T) {
	ta := buildTestApp(t, false)

	resp, raw := ta.do(t, http.MethodPost, "/uploadTerminal", terminalsBody)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	assert.Equal(t, "NOT_READY", e.Code)

	resp, _ = ta.do(t, http.MethodGet, "/getFrequentVisits", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, _ = ta.do(t, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	// cleanup aprovisiona aunque no hubiera store previo
	resp, _ = ta.do(t, http.MethodPost, "/cleanup", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = ta.do(t, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
