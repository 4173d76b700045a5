package internal

import "fmt"

// TransportError is a network-level failure. It is fatal for the current
// report; callers that want retries must re-run the whole stage.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: network request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthenticationError means the API rejected the credential or returned an
// empty token. No report work may start after this.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// RemoteRejectedError means the service refused or failed the report.
// Batch flows log it and move on to the next job.
type RemoteRejectedError struct {
	Report string
	Reason string
}

func (e *RemoteRejectedError) Error() string {
	return fmt.Sprintf("report %q rejected by CloudHealth: %s", e.Report, e.Reason)
}

// MalformedResponseError means a response was missing a field the API
// contract guarantees.
type MalformedResponseError struct {
	Op    string
	Field string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response: missing %s", e.Op, e.Field)
}

// QueuedError is raised when a report reports QUEUED. The platform keeps
// reports in that state when it is waiting for resources, so polling further
// is pointless; the operator has to check the CloudHealth console.
type QueuedError struct {
	Report string
}

func (e *QueuedError) Error() string {
	return fmt.Sprintf("report %q is QUEUED and waiting for resources; check its status in the CloudHealth platform", e.Report)
}

// TimeoutError means the report was still running after the maximum number
// of status checks.
type TimeoutError struct {
	Report   string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("report %q still running after %d status checks", e.Report, e.Attempts)
}

// DownloadError means the artifact transfer failed. The destination file is
// never left partially written.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download of %s failed: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }
