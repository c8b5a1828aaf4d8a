package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/stepwise/stepwise-api/internal/core/domain"
	"github.com/stepwise/stepwise-api/internal/core/ports"
)

type stubStepService struct {
	createFn  func(ctx context.Context, demoID, callerID string, in ports.CreateStepInput) (*domain.Step, error)
	reorderFn func(ctx context.Context, demoID, callerID string, orderedIDs []string) ([]*domain.Step, error)
}

func (s *stubStepService) Create(ctx context.Context, demoID, callerID string, in ports.CreateStepInput) (*domain.Step, error) {
	return s.createFn(ctx, demoID, callerID, in)
}

func (s *stubStepService) CreateWithHotspots(context.Context, string, string, ports.StepWithHotspotsInput) (*ports.StepWithHotspotsResult, error) {
	panic("not used")
}

func (s *stubStepService) ListByDemo(context.Context, string, string) ([]*domain.Step, error) {
	panic("not used")
}

func (s *stubStepService) Get(context.Context, string) (*domain.Step, error) {
	panic("not used")
}

func (s *stubStepService) Update(context.Context, string, string, ports.UpdateStepInput) (*domain.Step, error) {
	panic("not used")
}

func (s *stubStepService) Delete(context.Context, string, string) error {
	panic("not used")
}

func (s *stubStepService) Reorder(ctx context.Context, demoID, callerID string, orderedIDs []string) ([]*domain.Step, error) {
	return s.reorderFn(ctx, demoID, callerID, orderedIDs)
}

func newStepContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "u1")
	return c, rec
}

func TestStepHandler_Create_ParsesStringPosition(t *testing.T) {
	stub := &stubStepService{
		createFn: func(_ context.Context, demoID, callerID string, in ports.CreateStepInput) (*domain.Step, error) {
			if demoID != "d1" || callerID != "u1" {
				t.Fatalf("unexpected args: %s %s", demoID, callerID)
			}
			if in.Position != 3 {
				t.Fatalf("position must arrive as an integer, got %d", in.Position)
			}
			return &domain.Step{ID: "s1", DemoID: demoID, Title: in.Title, Position: in.Position}, nil
		},
	}
	h := NewStepHandler(stub)

	c, rec := newStepContext(t, http.MethodPost, "/v1/demos/d1/steps", `{"title":"Welcome","position":"3"}`)
	c.SetParamNames("id")
	c.SetParamValues("d1")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["position"] != "3" {
		t.Fatalf("position must travel back as a string, got %v", resp["position"])
	}
}

func TestStepHandler_Create_RejectsNonNumericPosition(t *testing.T) {
	h := NewStepHandler(&stubStepService{})

	c, _ := newStepContext(t, http.MethodPost, "/v1/demos/d1/steps", `{"title":"Welcome","position":"first"}`)
	c.SetParamNames("id")
	c.SetParamValues("d1")

	err := h.Create(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestStepHandler_Create_MissingAuth(t *testing.T) {
	h := NewStepHandler(&stubStepService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/demos/d1/steps", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestStepHandler_Reorder(t *testing.T) {
	stub := &stubStepService{
		reorderFn: func(_ context.Context, demoID, callerID string, orderedIDs []string) ([]*domain.Step, error) {
			if len(orderedIDs) != 2 || orderedIDs[0] != "s2" {
				t.Fatalf("unexpected order: %v", orderedIDs)
			}
			return []*domain.Step{
				{ID: "s2", DemoID: demoID, Position: 1},
				{ID: "s1", DemoID: demoID, Position: 2},
			}, nil
		},
	}
	h := NewStepHandler(stub)

	c, rec := newStepContext(t, http.MethodPut, "/v1/demos/d1/steps/order", `{"step_ids":["s2","s1"]}`)
	c.SetParamNames("id")
	c.SetParamValues("d1")

	if err := h.Reorder(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0]["id"] != "s2" || resp[0]["position"] != "1" {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestStepHandler_Reorder_EmptyBody(t *testing.T) {
	h := NewStepHandler(&stubStepService{})

	c, _ := newStepContext(t, http.MethodPut, "/v1/demos/d1/steps/order", `{"step_ids":[]}`)
	c.SetParamNames("id")
	c.SetParamValues("d1")

	err := h.Reorder(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHotspotWireGeometry(t *testing.T) {
	fields := createHotspotFields{X: "10.5", Y: "20", Width: "30.25", Height: "15", Color: "#ff0000"}
	in, err := fields.toInput()
	if err != nil {
		t.Fatalf("toInput: %v", err)
	}
	if in.X != 10.5 || in.Width != 30.25 {
		t.Fatalf("geometry not parsed: %+v", in)
	}

	fields.X = "wide"
	if _, err := fields.toInput(); err == nil {
		t.Fatalf("expected error for non-numeric geometry")
	}

	resp := toHotspotResponse(&domain.Hotspot{X: 10.5, Y: 20, Width: 30.25, Height: 15, Color: "#ff0000"})
	if resp.X != "10.5" || resp.Y != "20" || resp.Width != "30.25" {
		t.Fatalf("geometry must render as shortest decimal strings: %+v", resp)
	}
}
