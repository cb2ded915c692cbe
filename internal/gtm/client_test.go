package gtm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContainerServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/accounts":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"accounts": []map[string]string{{"accountId": "1"}, {"accountId": "2"}},
			})
		case "/accounts/1/containers":
			http.Error(w, "no access", http.StatusForbidden)
		case "/accounts/2/containers":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"containers": []map[string]string{
					{"containerId": "77", "publicId": "GTM-ABC123", "name": "main site"},
				},
			})
		case "/accounts/2/containers/77/tags":
			var tag Tag
			require.NoError(t, json.NewDecoder(r.Body).Decode(&tag))
			if tag.Name == "Broken_floodyPush_9" {
				http.Error(w, "tag name already in use", http.StatusConflict)
				return
			}
			json.NewEncoder(w).Encode(tag)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
}

func TestClientFindContainerSkipsInaccessibleAccounts(t *testing.T) {
	server := newContainerServer(t)
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	client.SetHTTPClient(server.Client())

	container, err := client.FindContainer(context.Background(), "GTM-ABC123")
	require.NoError(t, err)
	assert.Equal(t, "2", container.AccountID)
	assert.Equal(t, "77", container.ContainerID)
}

func TestClientFindContainerMiss(t *testing.T) {
	server := newContainerServer(t)
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	client.SetHTTPClient(server.Client())

	_, err := client.FindContainer(context.Background(), "GTM-MISSING")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrContainerNotFound))
}

func TestClientBatchCreateTagsIsolatesFailures(t *testing.T) {
	server := newContainerServer(t)
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	client.SetHTTPClient(server.Client())

	container := Container{AccountID: "2", ContainerID: "77", PublicID: "GTM-ABC123"}
	results := client.BatchCreateTags(context.Background(), container, []Tag{
		{Name: "First_floodyPush_9", Type: "flc"},
		{Name: "Broken_floodyPush_9", Type: "flc"},
		{Name: "Last_floodyPush_9", Type: "fls"},
	})

	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Message, "tag name already in use")
	assert.True(t, results[2].Success)
}
