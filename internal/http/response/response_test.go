package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		page, size int
		total      int64
		want       int64
	}{
		{page: 1, size: 20, total: 0, want: 0},
		{page: 1, size: 20, total: 20, want: 1},
		{page: 2, size: 20, total: 21, want: 2},
		{page: 1, size: 0, total: 5, want: 0},
	}
	for _, tt := range tests {
		got := BuildPagination(tt.page, tt.size, tt.total)
		if got.TotalPage != tt.want {
			t.Fatalf("BuildPagination(%d,%d,%d).TotalPage=%d want %d", tt.page, tt.size, tt.total, got.TotalPage, tt.want)
		}
	}
}

func TestErrorUsesHTTPStatusAndRequestID(t *testing.T) {
	c, w := newTestContext()
	c.Set("request_id", "req-1")
	Error(c, CodeNotFound, "not found")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Success || body.Error != "not found" || body.RequestID != "req-1" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestRejectCarriesReason(t *testing.T) {
	c, w := newTestContext()
	Reject(c, CodeBadRequest, "not_converted", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body["success"] != false || body["reason"] != "not_converted" {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, ok := body["data"]; ok {
		t.Fatalf("data should be omitted: %v", body)
	}
}

func TestValidationShape(t *testing.T) {
	c, w := newTestContext()
	Validation(c, http.StatusOK, true, map[string]interface{}{"code": "ABC123"}, "")

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body["valid"] != true {
		t.Fatalf("expected valid=true, got %v", body)
	}
	data, ok := body["data"].(map[string]interface{})
	if !ok || data["code"] != "ABC123" {
		t.Fatalf("unexpected data: %v", body["data"])
	}
}

func TestAppErrorFields(t *testing.T) {
	cause := errors.New("db down")
	appErr := NewAppError(CodeInternal, "error.payout_failed", "payout failed", cause)
	if !appErr.Internal() || !errors.Is(appErr, cause) {
		t.Fatalf("expected internal error wrapping cause")
	}
	if appErr.Error() != "payout failed: db down" {
		t.Fatalf("unexpected message: %s", appErr.Error())
	}
	fields := appErr.LogFields()
	if len(fields) != 6 || fields[3] != "error.payout_failed" {
		t.Fatalf("unexpected log fields: %v", fields)
	}

	rejected := NewAppError(CodeBadRequest, "", "bad input", nil)
	if rejected.Internal() || rejected.Error() != "bad input" || len(rejected.LogFields()) != 2 {
		t.Fatalf("unexpected client error: %+v", rejected)
	}
}
