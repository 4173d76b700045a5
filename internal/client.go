package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is the CloudHealth GraphQL endpoint.
const DefaultEndpoint = "https://apps.cloudhealthtech.com/graphql"

// Client talks to the CloudHealth GraphQL API. Create one with NewClient,
// call Authenticate once, then use the report operations.
type Client struct {
	Endpoint string
	HTTP     *http.Client

	session Session
}

func NewClient() *Client {
	return &Client{
		Endpoint: DefaultEndpoint,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// execute posts a GraphQL request and unmarshals the "data" object into out.
// GraphQL-level errors come back as a plain error; callers map them to the
// right error type for their stage.
func (c *Client) execute(op string, req graphQLRequest, authenticated bool, out any) error {
	if authenticated && !c.session.Valid() {
		return &AuthenticationError{Reason: "not authenticated, call Authenticate first"}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%s: failed to encode request: %w", op, err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if authenticated {
		httpReq.Header.Set("Authorization", "Bearer "+c.session.AccessToken)
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Op: op, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var envelope graphQLEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &MalformedResponseError{Op: op, Field: "valid JSON body"}
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return fmt.Errorf("%s: graphql query failed: %s", op, strings.Join(messages, ", "))
	}

	if out != nil {
		if envelope.Data == nil {
			return &MalformedResponseError{Op: op, Field: "data"}
		}
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return &MalformedResponseError{Op: op, Field: "expected data shape"}
		}
	}
	return nil
}

// Authenticate exchanges the API key for a bearer token. The token is held
// in memory for the lifetime of the client only.
func (c *Client) Authenticate(apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return &AuthenticationError{Reason: "API key is empty"}
	}

	var out struct {
		LoginAPI struct {
			AccessToken string `json:"accessToken"`
		} `json:"loginAPI"`
	}
	err := c.execute("authenticate", graphQLRequest{
		Query:     "mutation Login($apiKey:String!){loginAPI(apiKey:$apiKey){accessToken}}",
		Variables: map[string]any{"apiKey": apiKey},
	}, false, &out)
	if err != nil {
		var transport *TransportError
		if errors.As(err, &transport) {
			return err
		}
		return &AuthenticationError{Reason: err.Error()}
	}

	session := Session{AccessToken: out.LoginAPI.AccessToken}
	if !session.Valid() {
		return &AuthenticationError{Reason: "API did not return an access token"}
	}
	c.session = session
	return nil
}

// Report fetches the current state of a FlexReport, including its name and,
// once completed, the pre-signed download URL.
func (c *Client) Report(id string) (*ReportInfo, error) {
	var out struct {
		Node struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Result struct {
				Status          string `json:"status"`
				ReportUpdatedOn string `json:"reportUpdatedOn"`
				Contents        []struct {
					PreSignedURL string `json:"preSignedUrl"`
				} `json:"contents"`
			} `json:"result"`
		} `json:"node"`
	}
	err := c.execute("query report", graphQLRequest{
		Query: `query queryReport($id:ID!){
			node(id:$id){
				id
				... on FlexReport{
					name
					result{
						status
						reportUpdatedOn
						contents{ preSignedUrl }
					}
				}
			}
		}`,
		Variables: map[string]any{"id": id},
	}, true, &out)
	if err != nil {
		return nil, err
	}
	if out.Node.ID == "" {
		return nil, &MalformedResponseError{Op: "query report", Field: "node"}
	}

	info := &ReportInfo{
		ID:        out.Node.ID,
		Name:      out.Node.Name,
		Status:    out.Node.Result.Status,
		UpdatedOn: out.Node.Result.ReportUpdatedOn,
	}
	if len(out.Node.Result.Contents) > 0 {
		info.DownloadURL = out.Node.Result.Contents[0].PreSignedURL
	}
	return info, nil
}

// PollStatus is Report with the contract that a status must be present.
// Used by the polling loop, where a missing status is a protocol violation.
func (c *Client) PollStatus(id string) (*ReportInfo, error) {
	info, err := c.Report(id)
	if err != nil {
		return nil, err
	}
	if info.Status == "" {
		return nil, &MalformedResponseError{Op: "poll status", Field: "result.status"}
	}
	return info, nil
}

// TriggerExecution starts a report run. Fire-and-forget: a true
// acknowledgment says the run was accepted, not that it finished.
func (c *Client) TriggerExecution(id string) error {
	var out struct {
		Triggered bool `json:"triggerFlexReportExecution"`
	}
	err := c.execute("trigger execution", graphQLRequest{
		Query:     "mutation executeFlexReport($id:ID!){triggerFlexReportExecution(id:$id)}",
		Variables: map[string]any{"id": id},
	}, true, &out)
	if err != nil {
		var transport *TransportError
		if errors.As(err, &transport) {
			return err
		}
		return &RemoteRejectedError{Report: id, Reason: err.Error()}
	}
	if !out.Triggered {
		return &RemoteRejectedError{Report: id, Reason: "execution was not acknowledged"}
	}
	return nil
}

// CreateReport creates a new FlexReport from a definition and returns the
// assigned ID and name.
func (c *Client) CreateReport(def ReportDefinition) (id, name string, err error) {
	var out struct {
		CreateFlexReport struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"createFlexReport"`
	}
	err = c.execute("create report", graphQLRequest{
		Query: `mutation CreateFlexReport($name:String!,$description:String!,$sqlStatement:String!,$needBackLinkingForTags:Boolean!,$dataGranularity:FlexReportDataGranularity!,$limit:Int!,$timeRangeLast:Int!,$excludeCurrent:Boolean!){
			createFlexReport(input:{
				name:$name,
				description:$description,
				notification:{sendUserEmail:false},
				query:{
					sqlStatement:$sqlStatement,
					needBackLinkingForTags:$needBackLinkingForTags,
					dataGranularity:$dataGranularity,
					limit:$limit,
					timeRange:{last:$timeRangeLast excludeCurrent:$excludeCurrent}
				}
			}){
				id
				name
			}
		}`,
		Variables: map[string]any{
			"name":                   def.Name,
			"description":            def.Description,
			"sqlStatement":           def.SQLStatement,
			"needBackLinkingForTags": def.Backlinking,
			"dataGranularity":        def.DataGranularity,
			"limit":                  def.Limit,
			"timeRangeLast":          def.TimeRange,
			"excludeCurrent":         def.ExcludeCurrent,
		},
	}, true, &out)
	if err != nil {
		var transport *TransportError
		if errors.As(err, &transport) {
			return "", "", err
		}
		return "", "", &RemoteRejectedError{Report: def.Name, Reason: err.Error()}
	}
	if out.CreateFlexReport.ID == "" {
		return "", "", &MalformedResponseError{Op: "create report", Field: "createFlexReport.id"}
	}
	return out.CreateFlexReport.ID, out.CreateFlexReport.Name, nil
}
