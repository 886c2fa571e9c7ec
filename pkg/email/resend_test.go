package email

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRenderReceipt(t *testing.T) {
	html, err := RenderReceipt(1000, 2500)
	require.NoError(t, err)

	assert.Contains(t, html, "<strong>1000</strong> credits")
	assert.Contains(t, html, "<strong>2500</strong> credits")
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "s***@example.com", MaskEmail("scout@example.com"))
	assert.Equal(t, "***", MaskEmail("not-an-address"))
	assert.Equal(t, "***", MaskEmail("@example.com"))
}

func newTestEmailService(t *testing.T, status int, body string) (*EmailService, *observer.ObservedLogs) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewEmailService("re_test", "billing@genscout.ai", "GenScoutAI", zap.New(core))

	baseURL, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	svc.client.BaseURL = baseURL

	return svc, logs
}

func TestSendCreditsReceipt_DoesNotLogAddress(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "sent", status: http.StatusOK, body: `{"id":"msg_123"}`},
		{name: "rejected", status: http.StatusInternalServerError, body: `{"message":"boom"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, logs := newTestEmailService(t, tt.status, tt.body)

			err := svc.SendCreditsReceipt("scout@example.com", 1000, 2500)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				require.Equal(t, 1, logs.FilterMessage("receipt sent").Len())
				assert.Equal(t, "msg_123", logs.FilterMessage("receipt sent").All()[0].ContextMap()["id"])
			}

			for _, entry := range logs.All() {
				for _, v := range entry.ContextMap() {
					assert.NotEqual(t, "scout@example.com", v)
				}
			}
		})
	}
}
