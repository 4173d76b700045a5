package internal

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestRESTClient(t *testing.T, handler http.HandlerFunc) *RESTClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &RESTClient{
		Endpoint: srv.URL,
		APIKey:   "test-key",
		HTTP:     &http.Client{Timeout: 5 * time.Second},
	}
}

func TestListPerspectives(t *testing.T) {
	var gotAuth string
	client := newTestRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/v1/perspective_schemas" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"200":{"name":"Teams","active":true},
			"100":{"name":"Environments","active":false}
		}`)
	})

	perspectives, err := client.ListPerspectives()
	if err != nil {
		t.Fatalf("ListPerspectives failed: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer API key, got %q", gotAuth)
	}
	if len(perspectives) != 2 {
		t.Fatalf("Expected 2 perspectives, got %d", len(perspectives))
	}
	// Sorted by name
	if perspectives[0].Name != "Environments" || perspectives[1].Name != "Teams" {
		t.Errorf("Expected sorted [Environments Teams], got %+v", perspectives)
	}
	if perspectives[1].ID != "200" || !perspectives[1].Active {
		t.Errorf("Unexpected perspective fields: %+v", perspectives[1])
	}
}

func TestGetPerspective(t *testing.T) {
	client := newTestRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/perspective_schemas/200" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"schema":{
			"name":"Teams",
			"constants":[
				{"type":"Static Group","list":[
					{"ref_id":"g1","name":"Platform","is_other":"false"},
					{"ref_id":"g2","name":"Other","is_other":"true"}
				]},
				{"type":"Dynamic Group Block","list":[
					{"ref_id":"b1","name":"ignored"}
				]},
				{"type":"Dynamic Group","list":[
					{"ref_id":"g3","name":"Data"}
				]}
			]
		}}`)
	})

	perspective, err := client.GetPerspective("200")
	if err != nil {
		t.Fatalf("GetPerspective failed: %v", err)
	}
	if perspective.Name != "Teams" {
		t.Errorf("Expected name Teams, got %q", perspective.Name)
	}

	// Static and Dynamic groups kept, catch-all and block types skipped
	if len(perspective.Groups) != 2 {
		t.Fatalf("Expected 2 groups, got %+v", perspective.Groups)
	}
	if perspective.Groups[0].Name != "Platform" || perspective.Groups[1].Name != "Data" {
		t.Errorf("Unexpected groups: %+v", perspective.Groups)
	}
}

func TestRESTUnauthorized(t *testing.T) {
	client := newTestRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	_, err := client.ListPerspectives()
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected AuthenticationError, got %v", err)
	}
}

func TestRESTMalformedBody(t *testing.T) {
	client := newTestRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	})

	_, err := client.ListPerspectives()
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedResponseError, got %v", err)
	}
}
