package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matiasleandrokruk/agentgate/internal/domain/agent"
	"github.com/matiasleandrokruk/agentgate/internal/domain/runtime"
)

// stubService implements QueryService with canned outcomes.
type stubService struct {
	result    *agent.ExecutionResult
	runErr    error
	tools     []string
	toolsErr  error
	runs      []*runtime.Run
	runsErr   error
	runByID   *runtime.Run
	runErrGet error

	gotQuery string
	gotTools []string
}

func (s *stubService) RunQuery(_ context.Context, query string, toolIDs []string) (*agent.ExecutionResult, error) {
	s.gotQuery = query
	s.gotTools = toolIDs
	return s.result, s.runErr
}

func (s *stubService) AvailableTools(context.Context) ([]string, error) {
	return s.tools, s.toolsErr
}

func (s *stubService) Runs(context.Context, int) ([]*runtime.Run, error) {
	return s.runs, s.runsErr
}

func (s *stubService) Run(context.Context, string) (*runtime.Run, error) {
	return s.runByID, s.runErrGet
}

func postRun(t *testing.T, h *RunHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.RunQuery(rec, req)
	return rec
}

func TestRunQuery_Success(t *testing.T) {
	t.Parallel()

	svc := &stubService{result: &agent.ExecutionResult{Success: true, Result: "4", ExecutionTime: 1.23}}
	rec := postRun(t, NewRunHandler(svc), `{"query":"What is 2+2?","tools":["calculator_tool"]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=200 body=%s", rec.Code, rec.Body)
	}
	var body struct {
		Success       bool    `json:"success"`
		Result        any     `json:"result"`
		Error         *string `json:"error"`
		ExecutionTime float64 `json:"execution_time"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Result != "4" || body.Error != nil || body.ExecutionTime != 1.23 {
		t.Fatalf("body=%+v", body)
	}
	if svc.gotQuery != "What is 2+2?" || len(svc.gotTools) != 1 {
		t.Fatalf("service got query=%q tools=%v", svc.gotQuery, svc.gotTools)
	}
}

func TestRunQuery_RuntimeFaultIsStill200(t *testing.T) {
	t.Parallel()

	msg := "boom"
	svc := &stubService{result: &agent.ExecutionResult{Success: false, Error: &msg, ExecutionTime: 0.5}}
	rec := postRun(t, NewRunHandler(svc), `{"query":"q","tools":[]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=200", rec.Code)
	}
	var body agent.ExecutionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Error == nil || *body.Error != "boom" {
		t.Fatalf("body=%+v", body)
	}
}

func TestRunQuery_InvalidTools(t *testing.T) {
	t.Parallel()

	svc := &stubService{runErr: &agent.InvalidToolsError{
		Invalid:   []string{"invalid_tool"},
		Available: []string{"calculator_tool", "weather_tool"},
	}}
	rec := postRun(t, NewRunHandler(svc), `{"query":"q","tools":["invalid_tool"]}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400 body=%s", rec.Code, rec.Body)
	}
	var body struct {
		Error          string   `json:"error"`
		Message        string   `json:"message"`
		InvalidTools   []string `json:"invalid_tools"`
		AvailableTools []string `json:"available_tools"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "Invalid tools requested" {
		t.Fatalf("error=%q", body.Error)
	}
	if !strings.Contains(body.Message, "invalid_tool") {
		t.Fatalf("message=%q", body.Message)
	}
	if len(body.InvalidTools) != 1 || body.InvalidTools[0] != "invalid_tool" {
		t.Fatalf("invalid_tools=%v", body.InvalidTools)
	}
	if len(body.AvailableTools) != 2 {
		t.Fatalf("available_tools=%v", body.AvailableTools)
	}
}

func TestRunQuery_InternalError(t *testing.T) {
	t.Parallel()

	svc := &stubService{runErr: errors.New("catalog: source \"cloud-mcp\": timeout")}
	rec := postRun(t, NewRunHandler(svc), `{"query":"q","tools":[]}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d want=500", rec.Code)
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(body.Detail, "Internal server error: ") {
		t.Fatalf("detail=%q", body.Detail)
	}
}

func TestRunQuery_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"not JSON", `{{`},
		{"empty query", `{"query":"","tools":[]}`},
		{"missing query", `{"tools":[]}`},
		{"missing tools", `{"query":"q"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubService{}
			rec := postRun(t, NewRunHandler(svc), tc.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status=%d want=422 body=%s", rec.Code, rec.Body)
			}
			if svc.gotQuery != "" {
				t.Fatal("service reached despite invalid body")
			}
			var body struct {
				Detail []validationIssue `json:"detail"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(body.Detail) == 0 {
				t.Fatal("detail list is empty")
			}
		})
	}
}

func TestRunQuery_EmptyToolsListIsAccepted(t *testing.T) {
	t.Parallel()

	svc := &stubService{result: &agent.ExecutionResult{Success: true, Result: "ok"}}
	rec := postRun(t, NewRunHandler(svc), `{"query":"q","tools":[]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=200 body=%s", rec.Code, rec.Body)
	}
	if svc.gotTools == nil || len(svc.gotTools) != 0 {
		t.Fatalf("tools=%v want explicit empty list", svc.gotTools)
	}
}
