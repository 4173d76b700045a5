package internal

import (
	"errors"
	"testing"
	"time"
)

func TestBackoffDelay(t *testing.T) {
	cases := []struct {
		attempt int
		want    int
	}{
		{1, 10},
		{2, 15},
		{3, 22},
		{4, 33},
		{5, 49},
	}
	for _, c := range cases {
		got := BackoffDelay(BasePollDelay, c.attempt)
		if got != c.want {
			t.Errorf("BackoffDelay(%d, %d) = %d, want %d", BasePollDelay, c.attempt, got, c.want)
		}
	}
}

// pollHarness runs AwaitCompletion against a stub API with recorded sleeps.
func pollHarness(t *testing.T, statuses []string) (*ReportInfo, error, []time.Duration, *stubAPI) {
	reports := make([]string, 0, len(statuses))
	for _, status := range statuses {
		url := ""
		if status == StatusCompleted {
			url = "http://example.com/report.csv"
		}
		reports = append(reports, reportBody(status, url))
	}

	stub := &stubAPI{token: "token-123", reports: reports}
	client := newTestClient(t, stub)
	if err := client.Authenticate("key"); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	var sleeps []time.Duration
	info, err := client.AwaitCompletion(ReportJob{Name: "Test Report", ID: "r-1"}, PollOptions{
		Sleep: func(d time.Duration) { sleeps = append(sleeps, d) },
	})
	return info, err, sleeps, stub
}

func TestAwaitCompletionSuccess(t *testing.T) {
	info, err, sleeps, _ := pollHarness(t, []string{"RUNNING", StatusCompleted})
	if err != nil {
		t.Fatalf("AwaitCompletion failed: %v", err)
	}
	if info.DownloadURL != "http://example.com/report.csv" {
		t.Errorf("Expected download URL, got %q", info.DownloadURL)
	}

	// Initial wait, then one backoff wait before the second check
	want := []time.Duration{15 * time.Second, 15 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("Expected %d sleeps, got %v", len(want), sleeps)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("Sleep %d = %v, want %v", i, sleeps[i], want[i])
		}
	}
}

func TestAwaitCompletionTimeout(t *testing.T) {
	statuses := []string{"RUNNING", "RUNNING", "RUNNING", "RUNNING", "RUNNING"}
	_, err, sleeps, stub := pollHarness(t, statuses)

	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("Expected TimeoutError, got %v", err)
	}
	if timeout.Attempts != MaxPollAttempts {
		t.Errorf("Expected %d attempts in error, got %d", MaxPollAttempts, timeout.Attempts)
	}

	// Exactly 5 status checks, never a 6th
	if stub.reportCalls != MaxPollAttempts {
		t.Errorf("Expected exactly %d status checks, got %d", MaxPollAttempts, stub.reportCalls)
	}

	// 15s initial wait, then the growing backoff between checks. No sleep
	// after the final check.
	want := []time.Duration{
		15 * time.Second,
		15 * time.Second,
		22 * time.Second,
		33 * time.Second,
		49 * time.Second,
	}
	if len(sleeps) != len(want) {
		t.Fatalf("Expected sleeps %v, got %v", want, sleeps)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("Sleep %d = %v, want %v", i, sleeps[i], want[i])
		}
	}
}

func TestAwaitCompletionQueued(t *testing.T) {
	_, err, _, stub := pollHarness(t, []string{StatusQueued})

	var queued *QueuedError
	if !errors.As(err, &queued) {
		t.Fatalf("Expected QueuedError, got %v", err)
	}
	// QUEUED is not retryable; exactly one check
	if stub.reportCalls != 1 {
		t.Errorf("Expected 1 status check for queued report, got %d", stub.reportCalls)
	}
}

func TestAwaitCompletionFailed(t *testing.T) {
	_, err, _, stub := pollHarness(t, []string{"RUNNING", StatusFailed})

	var rejected *RemoteRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("Expected RemoteRejectedError, got %v", err)
	}
	if stub.reportCalls != 2 {
		t.Errorf("Expected polling to stop at FAILED, got %d checks", stub.reportCalls)
	}
}

func TestAwaitCompletionPollError(t *testing.T) {
	// Empty status from the API is a protocol violation, not a retry
	_, err, _, stub := pollHarness(t, []string{""})

	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedResponseError, got %v", err)
	}
	if stub.reportCalls != 1 {
		t.Errorf("Expected 1 status check, got %d", stub.reportCalls)
	}
}
