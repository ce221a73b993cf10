package lims

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryReturnsStubs(t *testing.T) {
	var listCalls, resourceCalls atomic.Int64
	mux := http.NewServeMux()
	var base string
	mux.HandleFunc("GET /api/v2/projects", func(w http.ResponseWriter, r *http.Request) {
		listCalls.Add(1)
		assert.Equal(t, "SciLifeLab", r.URL.Query().Get("name"))
		fmt.Fprintf(w, `<projects>
			<project uri="%s/projects/P1" limsid="P1"/>
			<project uri="%s/projects/P2" limsid="P2"/>
		</projects>`, base, base)
	})
	mux.HandleFunc("GET /api/v2/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		resourceCalls.Add(1)
		fmt.Fprintf(w, `<project uri="%s/projects/%s"><name>proj</name></project>`, base, r.PathValue("id"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	base = server.URL + "/api/v2"

	l, err := New(base, "u", "p")
	require.NoError(t, err)

	matches, err := l.Query(context.Background(), "project", url.Values{"name": {"SciLifeLab"}})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// Matches are stubs; nothing was hydrated behind the caller's back.
	assert.Equal(t, Uninitialized, matches[0].State())
	assert.Equal(t, Uninitialized, matches[1].State())
	assert.Zero(t, resourceCalls.Load())

	// The stubs share identity with direct lookups.
	assert.Same(t, l.GetOrCreate("project", "P1"), matches[0])

	name, err := matches[0].Field(context.Background(), "name")
	require.NoError(t, err)
	assert.Equal(t, "proj", name)
	assert.Equal(t, int64(1), resourceCalls.Load())
}

func TestQueryFollowsPagination(t *testing.T) {
	mux := http.NewServeMux()
	var base string
	mux.HandleFunc("GET /api/v2/samples", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start-index") == "2" {
			fmt.Fprintf(w, `<samples><sample uri="%s/samples/S3"/></samples>`, base)
			return
		}
		fmt.Fprintf(w, `<samples>
			<sample uri="%s/samples/S1"/>
			<sample uri="%s/samples/S2"/>
			<next-page uri="%s/samples?start-index=2"/>
		</samples>`, base, base, base)
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	base = server.URL + "/api/v2"

	l, err := New(base, "u", "p")
	require.NoError(t, err)

	matches, err := l.Query(context.Background(), "sample", nil)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "S1", matches[0].ID())
	assert.Equal(t, "S2", matches[1].ID())
	assert.Equal(t, "S3", matches[2].ID())
}

func TestQueryOne(t *testing.T) {
	var bodies = map[string]string{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v2/labs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, bodies[r.URL.Query().Get("name")])
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	base := server.URL + "/api/v2"

	bodies["none"] = `<labs/>`
	bodies["one"] = fmt.Sprintf(`<labs><lab uri="%s/labs/L1"/></labs>`, base)
	bodies["many"] = fmt.Sprintf(`<labs><lab uri="%s/labs/L1"/><lab uri="%s/labs/L2"/></labs>`, base, base)

	l, err := New(base, "u", "p")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = l.QueryOne(ctx, "lab", url.Values{"name": {"none"}})
	assert.True(t, IsEmptyResult(err))

	lab, err := l.QueryOne(ctx, "lab", url.Values{"name": {"one"}})
	require.NoError(t, err)
	assert.Equal(t, "L1", lab.ID())

	_, err = l.QueryOne(ctx, "lab", url.Values{"name": {"many"}})
	require.Error(t, err)
	var amb *AmbiguousResultError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, 2, amb.Count)
}
