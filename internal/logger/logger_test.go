package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var out map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &out))
	return out
}

func TestFromContext_AddsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "user-1")
	ctx = WithCompanyID(ctx, "company-1")
	CtxInfo(ctx, "hello")

	line := lastLine(t, &buf)
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "user-1", line["user_id"])
	assert.Equal(t, "company-1", line["company_id"])
	assert.Equal(t, "jobboard", line["service"])
}

func TestHTTPLog_LevelFollowsStatus(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)
	ctx := context.Background()

	HTTPLog(ctx, http.MethodGet, "/api/v1/jobs/:jobId", "/api/v1/jobs/1", http.StatusOK, time.Millisecond, 10)
	assert.Equal(t, "INFO", lastLine(t, &buf)["level"])

	HTTPLog(ctx, http.MethodGet, "/api/v1/jobs/:jobId", "/api/v1/jobs/1", http.StatusNotFound, time.Millisecond, 10)
	assert.Equal(t, "WARN", lastLine(t, &buf)["level"])

	HTTPLog(ctx, http.MethodGet, "/api/v1/jobs/:jobId", "/api/v1/jobs/1", http.StatusBadGateway, time.Millisecond, 10)
	line := lastLine(t, &buf)
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "/api/v1/jobs/:jobId", line["route"])
}

func TestLedgerLog_ErrorIsRecorded(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)

	LedgerLog("company-1", "job_post", "deduct", 1, errors.New("boom"))
	line := lastLine(t, &buf)
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "boom", line["error"])
	assert.EqualValues(t, 1, line["amount"])
}
