package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestListTools_Success(t *testing.T) {
	t.Parallel()

	svc := &stubService{tools: []string{"calculator_tool", "clock_tool"}}
	rec := httptest.NewRecorder()
	NewToolsHandler(svc).ListTools(rec, httptest.NewRequest(http.MethodGet, "/tools", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=200", rec.Code)
	}
	var ids []string
	if err := json.Unmarshal(rec.Body.Bytes(), &ids); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"calculator_tool", "clock_tool"}) {
		t.Fatalf("ids=%v", ids)
	}
}

func TestListTools_EmptyCatalogIsEmptyArray(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NewToolsHandler(&stubService{}).ListTools(rec, httptest.NewRequest(http.MethodGet, "/tools", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("body=%q want=[]", got)
	}
}

func TestListTools_CatalogFault(t *testing.T) {
	t.Parallel()

	svc := &stubService{toolsErr: errors.New("registry unreachable")}
	rec := httptest.NewRecorder()
	NewToolsHandler(svc).ListTools(rec, httptest.NewRequest(http.MethodGet, "/tools", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d want=500", rec.Code)
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "Failed to get available tools: registry unreachable"
	if body.Detail != want {
		t.Fatalf("detail=%q want=%q", body.Detail, want)
	}
}
