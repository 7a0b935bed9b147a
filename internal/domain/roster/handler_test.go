package roster

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/psisafety/clinic-portal/internal/domain/records"
)

func newTestHandler(api *mockPatientAPI) *Handler {
	return NewHandler(NewService(api), zerolog.Nop())
}

func TestList(t *testing.T) {
	api := &mockPatientAPI{patients: []records.Patient{
		{PatientID: 1, FirstName: "Amina", Gender: "Female", Age: 29},
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := newTestHandler(api).List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d", rec.Code)
	}

	var ov Overview
	if err := json.Unmarshal(rec.Body.Bytes(), &ov); err != nil {
		t.Fatal(err)
	}
	if ov.Stats.Total != 1 || ov.Stats.Female != 1 {
		t.Errorf("stats: %+v", ov.Stats)
	}
}

func TestList_UpstreamErrorIs502(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := newTestHandler(&mockPatientAPI{listErr: errors.New("down")}).List(c)

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %v", err)
	}
}

func TestDeleteHandler(t *testing.T) {
	api := &mockPatientAPI{}

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/patients/9", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9")

	if err := newTestHandler(api).Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status: got %d", rec.Code)
	}
	if len(api.deleted) != 1 || api.deleted[0] != 9 {
		t.Errorf("deleted: %v", api.deleted)
	}
}

func TestDeleteHandler_InvalidID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/patients/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := newTestHandler(&mockPatientAPI{}).Delete(c)

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestExportHandler(t *testing.T) {
	api := &mockPatientAPI{patients: []records.Patient{
		{PatientID: 1, FirstName: "Amina"},
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/patients/export", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := newTestHandler(api).Export(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderContentDisposition); got == "" {
		t.Error("expected a Content-Disposition attachment header")
	}
	if rec.Body.Len() == 0 {
		t.Error("expected workbook bytes in the body")
	}
}
