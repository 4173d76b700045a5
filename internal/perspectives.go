package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"
)

// DefaultRESTEndpoint is the CloudHealth REST (v1) endpoint.
const DefaultRESTEndpoint = "https://chapi.cloudhealthtech.com"

// Perspective is a cost-allocation taxonomy defined in CloudHealth.
type Perspective struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Active bool               `json:"active"`
	Groups []PerspectiveGroup `json:"groups,omitempty"`
}

// PerspectiveGroup is one named group inside a perspective schema.
type PerspectiveGroup struct {
	RefID string `json:"ref_id"`
	Name  string `json:"name"`
}

// RESTClient talks to the CloudHealth v1 REST API, which takes the raw API
// key rather than a GraphQL session token.
type RESTClient struct {
	Endpoint string
	APIKey   string
	HTTP     *http.Client
}

func NewRESTClient(apiKey string) *RESTClient {
	return &RESTClient{
		Endpoint: DefaultRESTEndpoint,
		APIKey:   apiKey,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *RESTClient) get(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, c.Endpoint+path, nil)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &TransportError{Op: "GET " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthenticationError{Reason: fmt.Sprintf("REST API returned %s", resp.Status)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Op: "GET " + path, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &MalformedResponseError{Op: "GET " + path, Field: "valid JSON body"}
	}
	return nil
}

// ListPerspectives returns all perspective schemas, sorted by name.
func (c *RESTClient) ListPerspectives() ([]Perspective, error) {
	var index map[string]struct {
		Name   string `json:"name"`
		Active bool   `json:"active"`
	}
	if err := c.get("/v1/perspective_schemas", &index); err != nil {
		return nil, err
	}

	perspectives := make([]Perspective, 0, len(index))
	for id, p := range index {
		perspectives = append(perspectives, Perspective{ID: id, Name: p.Name, Active: p.Active})
	}
	sort.Slice(perspectives, func(i, j int) bool {
		return perspectives[i].Name < perspectives[j].Name
	})
	return perspectives, nil
}

// GetPerspective fetches one perspective schema and extracts its groups.
// The catch-all "is_other" group the API appends is skipped.
func (c *RESTClient) GetPerspective(id string) (*Perspective, error) {
	var out struct {
		Schema struct {
			Name      string `json:"name"`
			Constants []struct {
				Type string `json:"type"`
				List []struct {
					RefID   string `json:"ref_id"`
					Name    string `json:"name"`
					IsOther string `json:"is_other"`
				} `json:"list"`
			} `json:"constants"`
		} `json:"schema"`
	}
	if err := c.get("/v1/perspective_schemas/"+id, &out); err != nil {
		return nil, err
	}
	if out.Schema.Name == "" {
		return nil, &MalformedResponseError{Op: "GET /v1/perspective_schemas/" + id, Field: "schema.name"}
	}

	perspective := &Perspective{ID: id, Name: out.Schema.Name, Active: true}
	for _, constant := range out.Schema.Constants {
		if constant.Type != "Static Group" && constant.Type != "Dynamic Group" {
			continue
		}
		for _, group := range constant.List {
			if group.IsOther == "true" {
				continue
			}
			perspective.Groups = append(perspective.Groups, PerspectiveGroup{
				RefID: group.RefID,
				Name:  group.Name,
			})
		}
	}
	return perspective, nil
}
