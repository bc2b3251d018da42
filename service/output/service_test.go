package output

import (
	"errors"
	"testing"

	"github.com/opensearch-devops/osb-ci/model"
)

type fakeRenderer struct {
	tableCalls   int
	jsonCalls    int
	spinnerStops int
	jsonErr      error
}

func (f *fakeRenderer) DrawRunTable(_ model.RenderRunInput) { f.tableCalls++ }

func (f *fakeRenderer) OutputRunJSON(_ model.RenderRunInput) error {
	f.jsonCalls++
	return f.jsonErr
}

func (f *fakeRenderer) StopSpinner() { f.spinnerStops++ }

func TestRenderRunTableFormat(t *testing.T) {
	fake := &fakeRenderer{}
	svc := &service{format: FormatTable, renderer: fake}

	if err := svc.RenderRun(model.RenderRunInput{}); err != nil {
		t.Fatalf("RenderRun failed: %v", err)
	}
	if fake.tableCalls != 1 || fake.jsonCalls != 0 {
		t.Fatalf("expected table rendering, got table=%d json=%d", fake.tableCalls, fake.jsonCalls)
	}
}

func TestRenderRunJSONFormat(t *testing.T) {
	fake := &fakeRenderer{}
	svc := &service{format: FormatJSON, renderer: fake}

	if err := svc.RenderRun(model.RenderRunInput{}); err != nil {
		t.Fatalf("RenderRun failed: %v", err)
	}
	if fake.jsonCalls != 1 || fake.tableCalls != 0 {
		t.Fatalf("expected json rendering, got table=%d json=%d", fake.tableCalls, fake.jsonCalls)
	}
}

func TestRenderRunJSONError(t *testing.T) {
	fake := &fakeRenderer{jsonErr: errors.New("marshal failed")}
	svc := &service{format: FormatJSON, renderer: fake}

	if err := svc.RenderRun(model.RenderRunInput{}); err == nil {
		t.Fatal("expected error from json renderer")
	}
}

func TestNewServiceDefaultsToTable(t *testing.T) {
	svc, ok := NewService("").(*service)
	if !ok {
		t.Fatal("unexpected service type")
	}
	if svc.format != FormatTable {
		t.Fatalf("expected table format, got %s", svc.format)
	}

	jsonSvc, _ := NewService("json").(*service)
	if jsonSvc.format != FormatJSON {
		t.Fatalf("expected json format, got %s", jsonSvc.format)
	}
}

func TestStopSpinnerDelegates(t *testing.T) {
	fake := &fakeRenderer{}
	svc := &service{format: FormatTable, renderer: fake}
	svc.StopSpinner()
	if fake.spinnerStops != 1 {
		t.Fatalf("expected one spinner stop, got %d", fake.spinnerStops)
	}
}
