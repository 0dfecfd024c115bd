package ipc

import (
	"encoding/json"
	"testing"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`{"command":"GET_STATUS"}` + "\n"))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Command != CommandGetStatus {
		t.Errorf("expected GET_STATUS, got %s", req.Command)
	}
}

func TestParseRequest_WithPayload(t *testing.T) {
	req, err := ParseRequest([]byte(`{"command":"OPEN","payload":{"url":"https://example.com"}}`))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}

	var p OpenPayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		t.Fatalf("payload unmarshal failed: %v", err)
	}
	if p.URL != "https://example.com" {
		t.Errorf("expected payload url, got %q", p.URL)
	}
}

func TestParseRequest_RejectsGarbage(t *testing.T) {
	if _, err := ParseRequest([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNewOKResponse_CarriesData(t *testing.T) {
	resp, err := NewOKResponse(StatusData{Phase: "running", DaemonRunning: true})
	if err != nil {
		t.Fatalf("NewOKResponse failed: %v", err)
	}
	if resp.Status != "OK" {
		t.Errorf("expected OK status, got %s", resp.Status)
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		t.Fatalf("data unmarshal failed: %v", err)
	}
	if status.Phase != "running" {
		t.Errorf("expected phase running, got %q", status.Phase)
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("boom")
	if resp.Status != "ERROR" || resp.Error != "boom" {
		t.Errorf("unexpected error response: %+v", resp)
	}
}

func TestSetPanelPayload_OmitsNilFields(t *testing.T) {
	width := 500.0
	data, err := json.Marshal(SetPanelPayload{Width: &width})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"width":500}` {
		t.Errorf("expected only width to be encoded, got %s", data)
	}
}
