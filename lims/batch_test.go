package lims

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// batchServer answers the samples batch endpoint with the given fragments,
// in the order given, regardless of the requested order.
type batchServer struct {
	fragments   []string
	batchStatus int
	batchCalls  atomic.Int64
	getCalls    atomic.Int64
	server      *httptest.Server
}

func newBatchServer(t *testing.T) *batchServer {
	t.Helper()
	b := &batchServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v2/samples/batch/retrieve", func(w http.ResponseWriter, r *http.Request) {
		b.batchCalls.Add(1)
		if b.batchStatus != 0 {
			http.Error(w, "<exception/>", b.batchStatus)
			return
		}
		fmt.Fprint(w, "<details>")
		for _, frag := range b.fragments {
			fmt.Fprint(w, frag)
		}
		fmt.Fprint(w, "</details>")
	})
	mux.HandleFunc("GET /api/v2/samples/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.getCalls.Add(1)
		id := r.PathValue("id")
		for _, frag := range b.fragments {
			if strings.Contains(frag, `limsid="`+id+`"`) {
				fmt.Fprint(w, frag)
				return
			}
		}
		http.Error(w, "<exception/>", http.StatusNotFound)
	})
	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func (b *batchServer) base() string { return b.server.URL + "/api/v2" }

func (b *batchServer) sample(id, name string) string {
	return fmt.Sprintf(`<sample uri="%s/samples/%s?state=7" limsid=%q><name>%s</name></sample>`,
		b.base(), id, id, name)
}

func TestBatchFetchPreservesInputOrder(t *testing.T) {
	b := newBatchServer(t)
	// Server answers in reverse of the requested order.
	b.fragments = []string{b.sample("S3", "three"), b.sample("S2", "two"), b.sample("S1", "one")}

	l, err := New(b.base(), "u", "p")
	require.NoError(t, err)

	in := []*Entity{
		l.GetOrCreate("sample", "S1"),
		l.GetOrCreate("sample", "S2"),
		l.GetOrCreate("sample", "S3"),
	}
	out, err := l.BatchFetch(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.Same(t, in[0], out[0])
	assert.Same(t, in[1], out[1])
	assert.Same(t, in[2], out[2])

	// One multiplexed request hydrated everything.
	assert.Equal(t, int64(1), b.batchCalls.Load())
	assert.Zero(t, b.getCalls.Load())
	for i, want := range []string{"one", "two", "three"} {
		name, err := out[i].Field(context.Background(), "name")
		require.NoError(t, err)
		assert.Equal(t, want, name)
	}
}

func TestBatchFetchReportsMissingEntries(t *testing.T) {
	b := newBatchServer(t)
	b.fragments = []string{b.sample("S1", "one"), b.sample("S3", "three")}

	l, err := New(b.base(), "u", "p")
	require.NoError(t, err)

	in := []*Entity{
		l.GetOrCreate("sample", "S1"),
		l.GetOrCreate("sample", "S2"),
		l.GetOrCreate("sample", "S3"),
	}
	out, err := l.BatchFetch(context.Background(), in)

	// The resolved entities still come back, in input order.
	require.Len(t, out, 2)
	assert.Same(t, in[0], out[0])
	assert.Same(t, in[2], out[1])

	require.Error(t, err)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.URI, "/samples/S2")
}

func TestBatchFetchSingleEntityUsesPlainGet(t *testing.T) {
	b := newBatchServer(t)
	b.fragments = []string{b.sample("S1", "one")}

	l, err := New(b.base(), "u", "p")
	require.NoError(t, err)

	out, err := l.BatchFetch(context.Background(), []*Entity{l.GetOrCreate("sample", "S1")})
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Zero(t, b.batchCalls.Load(), "below the cutover the batch endpoint is skipped")
	assert.Equal(t, int64(1), b.getCalls.Load())
}

func TestBatchFetchFallsBackWithoutEndpoint(t *testing.T) {
	b := newBatchServer(t)
	b.fragments = []string{b.sample("S1", "one"), b.sample("S2", "two")}
	b.batchStatus = http.StatusNotImplemented

	l, err := New(b.base(), "u", "p")
	require.NoError(t, err)

	in := []*Entity{l.GetOrCreate("sample", "S1"), l.GetOrCreate("sample", "S2")}
	out, err := l.BatchFetch(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(2), b.getCalls.Load())
}

func TestBatchFetchSkipsHydratedEntities(t *testing.T) {
	b := newBatchServer(t)
	b.fragments = []string{b.sample("S1", "one"), b.sample("S2", "two")}

	l, err := New(b.base(), "u", "p")
	require.NoError(t, err)
	ctx := context.Background()

	e1 := l.GetOrCreate("sample", "S1")
	_, err = e1.Field(ctx, "name")
	require.NoError(t, err)

	out, err := l.BatchFetch(ctx, []*Entity{e1, l.GetOrCreate("sample", "S2")})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Same(t, e1, out[0])
}

func TestBatchFetchEmptyInput(t *testing.T) {
	b := newBatchServer(t)
	l, err := New(b.base(), "u", "p")
	require.NoError(t, err)

	out, err := l.BatchFetch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
