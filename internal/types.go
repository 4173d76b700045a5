package internal

// FlexReport result statuses reported by the CloudHealth API.
// Anything else is treated as "still running".
const (
	StatusQueued    = "QUEUED"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Session holds the bearer token returned by the loginAPI mutation.
// It is scoped to a single run and never persisted.
type Session struct {
	AccessToken string
}

// Valid reports whether the session can be used for authenticated calls.
// The API returns the literal string "null" on some rejection paths.
func (s Session) Valid() bool {
	return s.AccessToken != "" && s.AccessToken != "null"
}

// ReportJob pairs a human-readable report name with its opaque FlexReport ID.
type ReportJob struct {
	Name string
	ID   string
}

// ReportInfo is the state of a FlexReport as returned by a status query.
// DownloadURL is only set once Status is COMPLETED.
type ReportInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	UpdatedOn   string `json:"updated_on,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
}

// ReportDefinition describes a FlexReport to create, as read from a
// definitions JSON file (see `flexctl create`).
type ReportDefinition struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	SQLStatement    string `json:"sqlStatement"`
	DataGranularity string `json:"dataGranularity"`
	Limit           int    `json:"limit"`
	TimeRange       int    `json:"timeRange"`
	Backlinking     bool   `json:"backlinking"`
	ExcludeCurrent  bool   `json:"excludeCurrent"`
}
