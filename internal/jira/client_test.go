package jira

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// searchHandler serves a fake paginated search endpoint over total synthetic
// issues with keys ISSUE-0 .. ISSUE-<total-1>.
func searchHandler(t *testing.T, total int, requests *[]int) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/api/3/search", r.URL.Path)

		startAt, err := strconv.Atoi(r.URL.Query().Get("startAt"))
		require.NoError(t, err)
		maxResults, err := strconv.Atoi(r.URL.Query().Get("maxResults"))
		require.NoError(t, err)
		*requests = append(*requests, startAt)

		end := startAt + maxResults
		if end > total {
			end = total
		}
		issues := []map[string]any{}
		for i := startAt; i < end; i++ {
			issues = append(issues, map[string]any{
				"key":    fmt.Sprintf("ISSUE-%d", i),
				"fields": map[string]any{"labels": []string{}},
			})
		}
		page := map[string]any{
			"startAt":    startAt,
			"maxResults": maxResults,
			"total":      total,
			"issues":     issues,
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(page))
	}
}

func TestSearchIssuesPagination(t *testing.T) {
	var requests []int
	srv := httptest.NewServer(searchHandler(t, 401, &requests))
	defer srv.Close()

	client := NewClient(srv.URL, "user", "token")
	iter := client.SearchIssues("project = TEST", "*all")

	var keys []string
	for iter.Next() {
		keys = append(keys, iter.Issue().Key())
	}
	require.NoError(t, iter.Err())

	require.Len(t, keys, 401, "every record exactly once")
	for i, key := range keys {
		require.Equal(t, fmt.Sprintf("ISSUE-%d", i), key, "server order, no gaps at page boundaries")
	}
	assert.Equal(t, []int{0, 200, 400}, requests, "401 issues at page size 200 take 3 requests")
	assert.Equal(t, 401, iter.Total())
}

func TestSearchIssuesExactPageBoundary(t *testing.T) {
	var requests []int
	srv := httptest.NewServer(searchHandler(t, 400, &requests))
	defer srv.Close()

	client := NewClient(srv.URL, "user", "token")
	iter := client.SearchIssues("project = TEST", "")

	count := 0
	for iter.Next() {
		count++
	}
	require.NoError(t, iter.Err())

	assert.Equal(t, 400, count)
	// The second page is full, so one extra request discovers the empty page.
	assert.Equal(t, []int{0, 200, 400}, requests)
}

func TestSearchIssuesServerCappedPageSize(t *testing.T) {
	// Jira Cloud caps maxResults server-side; a capped page is short of the
	// requested size but must not end the iteration early.
	const total, pageCap = 250, 100
	var requests []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startAt, err := strconv.Atoi(r.URL.Query().Get("startAt"))
		require.NoError(t, err)
		requests = append(requests, startAt)

		end := startAt + pageCap
		if end > total {
			end = total
		}
		issues := []map[string]any{}
		for i := startAt; i < end; i++ {
			issues = append(issues, map[string]any{"key": fmt.Sprintf("ISSUE-%d", i)})
		}
		page := map[string]any{
			"startAt":    startAt,
			"maxResults": pageCap,
			"total":      total,
			"issues":     issues,
		}
		require.NoError(t, json.NewEncoder(w).Encode(page))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "user", "token")
	iter := client.SearchIssues("project = TEST", "*all")

	var keys []string
	for iter.Next() {
		keys = append(keys, iter.Issue().Key())
	}
	require.NoError(t, iter.Err())

	require.Len(t, keys, total, "capped pages must not truncate the result set")
	for i, key := range keys {
		require.Equal(t, fmt.Sprintf("ISSUE-%d", i), key)
	}
	assert.Equal(t, []int{0, 100, 200}, requests)
}

func TestSearchIssuesNoResults(t *testing.T) {
	var requests []int
	srv := httptest.NewServer(searchHandler(t, 0, &requests))
	defer srv.Close()

	client := NewClient(srv.URL, "user", "token")
	iter := client.SearchIssues("project = EMPTY", "")

	assert.False(t, iter.Next())
	require.NoError(t, iter.Err())
	assert.Equal(t, []int{0}, requests)
	assert.Equal(t, 0, iter.Total())
}

func TestSearchIssuesErrorAbortsIteration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "user", "token")
	iter := client.SearchIssues("project = TEST", "")

	assert.False(t, iter.Next())
	require.Error(t, iter.Err())
	assert.Contains(t, iter.Err().Error(), "429")
	assert.Contains(t, iter.Err().Error(), "rate limited")
	assert.False(t, iter.Next(), "a failed iterator stays failed")
}

func TestSearchIssuesSendsJQLAndFields(t *testing.T) {
	var gotJQL, gotFields string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotJQL = r.URL.Query().Get("jql")
		gotFields = r.URL.Query().Get("fields")
		fmt.Fprint(w, `{"startAt":0,"maxResults":200,"total":0,"issues":[]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "user", "token")
	iter := client.SearchIssues(`labels = "my label"`, "labels")
	iter.Next()
	require.NoError(t, iter.Err())

	assert.Equal(t, `labels = "my label"`, gotJQL)
	assert.Equal(t, "labels", gotFields)
}

func TestGetIssue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/issue/PROJ-1", r.URL.Path)
		assert.Equal(t, "labels", r.URL.Query().Get("fields"))

		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("user:token"))
		assert.Equal(t, wantAuth, r.Header.Get("Authorization"))

		fmt.Fprint(w, `{"key":"PROJ-1","fields":{"labels":["a","b"]}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "user", "token")
	rec, err := client.GetIssue("PROJ-1", "labels")
	require.NoError(t, err)

	issue := NewIssue(rec)
	assert.Equal(t, "PROJ-1", issue.Key())
	assert.Equal(t, []string{"a", "b"}, issue.Labels().Strings())
}

func TestGetIssueNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessages":["Issue does not exist"]}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "user", "token")
	_, err := client.GetIssue("NOPE-1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "Issue does not exist")
}

func TestUpdateIssueFields(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "user", "token")
	err := client.UpdateIssueFields("PROJ-1", map[string]any{"labels": []string{"b", "c"}})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/rest/api/3/issue/PROJ-1", gotPath)
	assert.JSONEq(t, `{"fields":{"labels":["b","c"]}}`, gotBody)
}

func TestUpdateIssueFieldsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "labels is read-only", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "user", "token")
	err := client.UpdateIssueFields("PROJ-1", map[string]any{"labels": []string{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "labels is read-only")
}
