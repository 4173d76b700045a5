package internal

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newStubAPI serves canned GraphQL responses keyed by the operation found in
// the request body. Handlers run in order for repeated operations.
type stubAPI struct {
	token       string
	triggerBody string
	reports     []string // one response body per queryReport call
	reportCalls int
	lastAuth    string
}

func (s *stubAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		request := string(body)
		s.lastAuth = r.Header.Get("Authorization")

		switch {
		case strings.Contains(request, "loginAPI"):
			fmt.Fprintf(w, `{"data":{"loginAPI":{"accessToken":%q}}}`, s.token)
		case strings.Contains(request, "triggerFlexReportExecution"):
			fmt.Fprint(w, s.triggerBody)
		case strings.Contains(request, "queryReport"):
			if s.reportCalls >= len(s.reports) {
				t.Errorf("unexpected queryReport call #%d", s.reportCalls+1)
				fmt.Fprint(w, `{"data":{"node":null}}`)
				return
			}
			fmt.Fprint(w, s.reports[s.reportCalls])
			s.reportCalls++
		default:
			t.Errorf("unexpected request: %s", request)
		}
	}
}

func reportBody(status, url string) string {
	contents := "[]"
	if url != "" {
		contents = fmt.Sprintf(`[{"preSignedUrl":%q}]`, url)
	}
	return fmt.Sprintf(`{"data":{"node":{"id":"r-1","name":"Test Report","result":{"status":%q,"reportUpdatedOn":"2026-08-01T12:00:00Z","contents":%s}}}}`, status, contents)
}

func newTestClient(t *testing.T, stub *stubAPI) *Client {
	srv := httptest.NewServer(stub.handler(t))
	t.Cleanup(srv.Close)
	return &Client{
		Endpoint: srv.URL,
		HTTP:     &http.Client{Timeout: 5 * time.Second},
	}
}

func TestAuthenticate(t *testing.T) {
	stub := &stubAPI{token: "token-123", reports: []string{reportBody("COMPLETED", "http://example.com/r.csv")}}
	client := newTestClient(t, stub)

	if err := client.Authenticate("valid-key"); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	// Authenticated calls must carry the bearer token
	info, err := client.Report("r-1")
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if stub.lastAuth != "Bearer token-123" {
		t.Errorf("Expected bearer token header, got %q", stub.lastAuth)
	}
	if info.Name != "Test Report" || info.DownloadURL != "http://example.com/r.csv" {
		t.Errorf("Unexpected report info: %+v", info)
	}
}

func TestAuthenticateRejected(t *testing.T) {
	// The API returns the literal string "null" for rejected keys
	stub := &stubAPI{token: "null"}
	client := newTestClient(t, stub)

	err := client.Authenticate("bad-key")
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected AuthenticationError, got %v", err)
	}
}

func TestAuthenticateEmptyKey(t *testing.T) {
	client := newTestClient(t, &stubAPI{})

	err := client.Authenticate("   ")
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected AuthenticationError for empty key, got %v", err)
	}
}

func TestAuthenticateTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := &Client{Endpoint: srv.URL, HTTP: &http.Client{Timeout: time.Second}}
	err := client.Authenticate("key")
	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
}

func TestCallsRequireAuthentication(t *testing.T) {
	client := newTestClient(t, &stubAPI{})

	_, err := client.Report("r-1")
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected AuthenticationError before login, got %v", err)
	}
}

func TestPollStatusMissingStatus(t *testing.T) {
	stub := &stubAPI{token: "token-123", reports: []string{reportBody("", "")}}
	client := newTestClient(t, stub)
	if err := client.Authenticate("key"); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	_, err := client.PollStatus("r-1")
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedResponseError, got %v", err)
	}
}

func TestTriggerExecution(t *testing.T) {
	stub := &stubAPI{token: "token-123", triggerBody: `{"data":{"triggerFlexReportExecution":true}}`}
	client := newTestClient(t, stub)
	if err := client.Authenticate("key"); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	if err := client.TriggerExecution("r-1"); err != nil {
		t.Fatalf("TriggerExecution failed: %v", err)
	}
}

func TestTriggerExecutionNotAcknowledged(t *testing.T) {
	stub := &stubAPI{token: "token-123", triggerBody: `{"data":{"triggerFlexReportExecution":false}}`}
	client := newTestClient(t, stub)
	if err := client.Authenticate("key"); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	err := client.TriggerExecution("r-1")
	var rejected *RemoteRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("Expected RemoteRejectedError, got %v", err)
	}
}

func TestTriggerExecutionGraphQLError(t *testing.T) {
	stub := &stubAPI{token: "token-123", triggerBody: `{"errors":[{"message":"report is disabled"}]}`}
	client := newTestClient(t, stub)
	if err := client.Authenticate("key"); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	err := client.TriggerExecution("r-1")
	var rejected *RemoteRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("Expected RemoteRejectedError, got %v", err)
	}
	if !strings.Contains(err.Error(), "report is disabled") {
		t.Errorf("Expected remote message in error, got: %v", err)
	}
}
