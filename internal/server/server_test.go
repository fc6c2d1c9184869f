package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-resumegen/pkg/export"
	"github.com/goliatone/go-resumegen/pkg/formdata"
	"github.com/goliatone/go-resumegen/pkg/orchestrator"
	"github.com/goliatone/go-resumegen/pkg/storage"
	"github.com/goliatone/go-resumegen/pkg/testsupport"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubExporter struct {
	opts export.Options
	err  error
}

func (s *stubExporter) Render(_ context.Context, _ string, opts export.Options, progress export.ProgressFunc) (*export.Result, error) {
	s.opts = opts
	if s.err != nil {
		return nil, s.err
	}
	progress(100, export.StepComplete)
	return &export.Result{Filename: opts.Filename, PDF: []byte("%PDF-1.4")}, nil
}

type client struct {
	t      *testing.T
	srv    *Server
	cookie *http.Cookie
}

func newClient(t *testing.T, exporter export.Renderer) *client {
	t.Helper()
	store := storage.New(storage.NewMemory(), storage.WithClock(testsupport.FixedClock()))
	factory := func(ctx context.Context) (*orchestrator.Orchestrator, error) {
		editor, err := NewEditor()
		if err != nil {
			return nil, err
		}
		o, err := orchestrator.New(
			orchestrator.WithStore(store),
			orchestrator.WithExporter(exporter),
			orchestrator.WithEditor(editor),
			orchestrator.WithAutoSaveDelay(time.Hour),
			orchestrator.WithClock(testsupport.FixedClock()),
		)
		if err != nil {
			return nil, err
		}
		return o, o.Start(ctx)
	}
	srv, err := New(factory)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })
	return &client{t: t, srv: srv}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.srv.Handler().ServeHTTP(rec, req)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookie {
			c.cookie = cookie
		}
	}
	return rec
}

func (c *client) json(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader *strings.Reader
	if body == nil {
		reader = strings.NewReader("")
	} else {
		raw, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req)
}

func (c *client) form(path string, values url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) resume() formdata.Data {
	c.t.Helper()
	rec := c.json(http.MethodGet, "/api/resume", nil)
	if rec.Code != http.StatusOK {
		c.t.Fatalf("get resume: %d %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Data formdata.Data `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		c.t.Fatalf("decode resume: %v", err)
	}
	return out.Data
}

func TestHealthAndRedirect(t *testing.T) {
	c := newClient(t, &stubExporter{})

	rec := c.json(http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id header")
	}

	rec = c.json(http.MethodGet, "/", nil)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/builder" {
		t.Fatalf("redirect = %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestBuilderKeepsOneSessionPerCookie(t *testing.T) {
	c := newClient(t, &stubExporter{})

	rec := c.json(http.MethodGet, "/builder", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("builder status = %d", rec.Code)
	}
	if c.cookie == nil {
		t.Fatalf("expected a session cookie")
	}
	body := rec.Body.String()
	for _, want := range []string{`name="template"`, `name="personal_fullName"`, StylesheetPath} {
		if !strings.Contains(body, want) {
			t.Fatalf("builder page missing %q", want)
		}
	}

	c.json(http.MethodGet, "/builder", nil)
	if got := c.srv.Sessions().Len(); got != 1 {
		t.Fatalf("sessions = %d", got)
	}
}

func TestBuilderPostAppliesFormAndActions(t *testing.T) {
	c := newClient(t, &stubExporter{})
	c.json(http.MethodGet, "/builder", nil)

	rec := c.form("/builder", url.Values{
		"personal_fullName": {"Grace Hopper"},
		"template":          {"modern"},
		"add":               {"experience"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("post status = %d %s", rec.Code, rec.Body.String())
	}

	data := c.resume()
	if got := data.Section("personal").Fields.Text("fullName"); got != "Grace Hopper" {
		t.Fatalf("fullName = %q", got)
	}
	if diff := cmp.Diff([]int{0, 1}, formdata.Indices(data.Section("experience").Items)); diff != "" {
		t.Fatalf("experience indices mismatch (-want +got):\n%s", diff)
	}

	c.form("/builder", url.Values{"remove": {"experience:0"}})
	if diff := cmp.Diff([]int{0}, formdata.Indices(c.resume().Section("experience").Items)); diff != "" {
		t.Fatalf("after remove (-want +got):\n%s", diff)
	}

	rec = c.json(http.MethodGet, "/preview", nil)
	if !strings.Contains(rec.Body.String(), "Grace Hopper") {
		t.Fatalf("preview missing name: %s", rec.Body.String())
	}
}

func TestBuilderSaveReportsValidation(t *testing.T) {
	c := newClient(t, &stubExporter{})

	rec := c.form("/builder", url.Values{"action": {"save"}})
	if !strings.Contains(rec.Body.String(), "Personal Information is required") {
		t.Fatalf("expected a validation message, got %s", rec.Body.String())
	}
	rec = c.json(http.MethodGet, "/api/resumes", nil)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected nothing saved, got %s", rec.Body.String())
	}
}

func TestFieldsTemplateAndTheme(t *testing.T) {
	c := newClient(t, &stubExporter{})

	rec := c.json(http.MethodPatch, "/api/resume/fields", map[string]any{
		"fields": []map[string]any{
			{"section": "personal", "field": "fullName", "value": "Ada Lovelace"},
			{"section": "experience", "item": 0, "field": "company", "value": "Analytical Engines"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d %s", rec.Code, rec.Body.String())
	}
	data := c.resume()
	if got := data.Section("experience").Items[0].Text("company"); got != "Analytical Engines" {
		t.Fatalf("company = %q", got)
	}

	if rec := c.json(http.MethodPut, "/api/resume/template", map[string]string{"id": "nope"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown template status = %d", rec.Code)
	}
	if rec := c.json(http.MethodPut, "/api/resume/theme", map[string]string{"id": "neon"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown theme status = %d", rec.Code)
	}
	if rec := c.json(http.MethodPut, "/api/resume/theme", map[string]string{"id": "creative"}); rec.Code != http.StatusOK {
		t.Fatalf("theme status = %d", rec.Code)
	}
	if rec := c.json(http.MethodGet, "/api/resume/render/unknown", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown renderer status = %d", rec.Code)
	}
	rec = c.json(http.MethodGet, "/document", nil)
	if !strings.Contains(rec.Body.String(), "Ada Lovelace") {
		t.Fatalf("document missing name")
	}
}

func TestSaveOpenDelete(t *testing.T) {
	c := newClient(t, &stubExporter{})
	c.json(http.MethodPatch, "/api/resume/fields", map[string]any{
		"fields": []map[string]any{{"section": "personal", "field": "fullName", "value": "Ada"}},
	})

	rec := c.json(http.MethodPost, "/api/resumes", map[string]string{"name": "Ada CV"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d %s", rec.Code, rec.Body.String())
	}
	var saved struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil || saved.ID == "" {
		t.Fatalf("decode save: %v %s", err, rec.Body.String())
	}

	rec = c.json(http.MethodGet, "/api/resumes", nil)
	var list []storage.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Ada CV" {
		t.Fatalf("list = %+v", list)
	}

	if rec := c.json(http.MethodPost, "/api/resumes/"+saved.ID+"/open", nil); rec.Code != http.StatusOK {
		t.Fatalf("open status = %d", rec.Code)
	}
	if rec := c.json(http.MethodPost, "/api/resumes/missing/open", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("open missing status = %d", rec.Code)
	}
	if rec := c.json(http.MethodDelete, "/api/resumes/"+saved.ID, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := c.json(http.MethodDelete, "/api/resumes/"+saved.ID, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", rec.Code)
	}
	if rec := c.json(http.MethodPut, "/api/resumes/current", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("update without current status = %d", rec.Code)
	}
}

func TestSettingsPatch(t *testing.T) {
	c := newClient(t, &stubExporter{})

	rec := c.json(http.MethodPatch, "/api/settings", map[string]any{"preferredZoom": 125})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d", rec.Code)
	}
	var got storage.Settings
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	want := storage.DefaultSettings()
	want.PreferredZoom = 125
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestExportPDF(t *testing.T) {
	exporter := &stubExporter{}
	c := newClient(t, exporter)
	c.json(http.MethodPatch, "/api/resume/fields", map[string]any{
		"fields": []map[string]any{{"section": "personal", "field": "fullName", "value": "Ada Lovelace"}},
	})

	rec := c.json(http.MethodPost, "/api/export", map[string]any{"pageFormat": "letter"})
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("content type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "Ada_Lovelace_Resume.pdf") {
		t.Fatalf("disposition = %q", got)
	}
	if exporter.opts.PageFormat != export.FormatLetter {
		t.Fatalf("page format = %q", exporter.opts.PageFormat)
	}
}

func TestExportInProgress(t *testing.T) {
	c := newClient(t, &stubExporter{err: export.ErrExportInProgress})
	if rec := c.json(http.MethodPost, "/api/export", nil); rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestBackupRoundTrip(t *testing.T) {
	c := newClient(t, &stubExporter{})
	c.json(http.MethodPost, "/api/resumes", map[string]string{"name": "First"})

	rec := c.json(http.MethodGet, "/api/backup", nil)
	var bundle storage.Bundle
	if err := json.Unmarshal(rec.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("decode backup: %v", err)
	}
	if len(bundle.Resumes) != 1 {
		t.Fatalf("backup resumes = %d", len(bundle.Resumes))
	}

	if rec := c.json(http.MethodDelete, "/api/storage", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", rec.Code)
	}
	if rec := c.json(http.MethodPost, "/api/backup", bundle); rec.Code != http.StatusOK {
		t.Fatalf("import status = %d %s", rec.Code, rec.Body.String())
	}
	rec = c.json(http.MethodGet, "/api/storage", nil)
	var info storage.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if !info.Available || info.ResumeCount != 1 {
		t.Fatalf("info = %+v", info)
	}
}

func TestAssetsServed(t *testing.T) {
	c := newClient(t, &stubExporter{})
	if rec := c.json(http.MethodGet, StylesheetPath, nil); rec.Code != http.StatusOK {
		t.Fatalf("stylesheet status = %d", rec.Code)
	}
}
