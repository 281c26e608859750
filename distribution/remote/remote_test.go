package remote_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/smartop/distribution"
	"github.com/katalvlaran/smartop/distribution/remote"
	"github.com/katalvlaran/smartop/matrix"
	"github.com/katalvlaran/smartop/policy"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var rowmap = matrix.RowMapFactory{}

func mustRows(t *testing.T, rows [][]float64) matrix.Matrix {
	t.Helper()
	m, err := matrix.FromRows(rowmap, rows)
	require.NoError(t, err)
	return m
}

func startWorkers(t *testing.T, n int) ([]string, []*remote.Server) {
	t.Helper()
	var (
		urls    []string
		servers []*remote.Server
	)
	for i := 0; i < n; i++ {
		s := remote.NewServer(remote.ServerConfig{ThreadMultiplier: 1})
		ts := httptest.NewServer(s.Handler())
		t.Cleanup(ts.Close)
		urls = append(urls, ts.URL)
		servers = append(servers, s)
	}
	return urls, servers
}

func multiplyJob(t *testing.T, a, b matrix.Matrix, factor int) *distribution.Job {
	t.Helper()
	acc, err := rowmap.New(a.Rows(), b.Cols())
	require.NoError(t, err)
	job := distribution.NewJob(acc, distribution.RowMerge{})
	job.Shared().PutFactory(rowmap)
	job.Shared().PutMatrix(distribution.KeyRightMatrix, b)
	ranges, err := policy.Split(a.Rows(), factor)
	require.NoError(t, err)
	for _, r := range ranges {
		left, err := matrix.Submatrix(rowmap, a, r.Start, r.End)
		require.NoError(t, err)
		require.NoError(t, job.AddTasks(distribution.NewMultiplyTask(r, left)))
	}
	return job
}

func TestAdapter_MultiplyAcrossWorkers(t *testing.T) {
	urls, servers := startWorkers(t, 2)
	ad, err := remote.NewAdapter(remote.AdapterConfig{Workers: urls, MaxNodes: 2, Timeout: 5 * time.Second})
	require.NoError(t, err)

	a := mustRows(t, [][]float64{{1, 2}, {4, 5}, {0, 0}, {2, 0}, {0, 3}})
	b := mustRows(t, [][]float64{{11, 12}, {14, 15}})
	want, err := matrix.Mul(rowmap, a, b)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	got, err := distribution.Run(ctx, ad, multiplyJob(t, a, b, 3))
	require.NoError(t, err)
	require.NoError(t, ad.Close())

	assert.True(t, matrix.Equal(got, want, 1e-12))
	for _, s := range servers {
		assert.Equal(t, 0, s.Jobs(), "shared data dropped after the job")
	}
}

func TestAdapter_TaskFailureFailsJob(t *testing.T) {
	urls, _ := startWorkers(t, 1)
	ad, err := remote.NewAdapter(remote.AdapterConfig{Workers: urls})
	require.NoError(t, err)
	defer ad.Close()

	job := distribution.NewJob(mustRows(t, [][]float64{{0}}), distribution.RowMerge{})
	job.Shared().PutFactory(rowmap) // no right matrix on the worker
	require.NoError(t, job.AddTasks(distribution.NewMultiplyTask(policy.Range{Start: 0, End: 1}, mustRows(t, [][]float64{{1}}))))

	_, err = distribution.Run(context.Background(), ad, job)
	require.ErrorIs(t, err, distribution.ErrTaskFailed)
	require.ErrorIs(t, err, remote.ErrWorker)
}

func TestAdapter_UnreachableWorker(t *testing.T) {
	ad, err := remote.NewAdapter(remote.AdapterConfig{Workers: []string{"http://127.0.0.1:1/"}, Timeout: time.Second})
	require.NoError(t, err)
	defer ad.Close()

	job := multiplyJob(t, mustRows(t, [][]float64{{1}}), mustRows(t, [][]float64{{1}}), 1)
	require.Error(t, ad.Submit(context.Background(), job))
	assert.Equal(t, distribution.StateFailed, job.State())
}

func TestNewAdapter_NoWorkers(t *testing.T) {
	_, err := remote.NewAdapter(remote.AdapterConfig{})
	require.ErrorIs(t, err, remote.ErrNoWorkers)
}

func TestServer_Routes(t *testing.T) {
	s := remote.NewServer(remote.ServerConfig{})
	router := s.Handler()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var body bytes.Buffer
	require.NoError(t, distribution.Codec{}.Encode(&body, distribution.TaskEnvelope{Kind: distribution.KindLaplacian, End: 1, Cols: 1}))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/jobs/nope/tasks", &body))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/v1/jobs/x/shared", bytes.NewBufferString("not gzip")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/jobs/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestServer_LaplacianTask(t *testing.T) {
	s := remote.NewServer(remote.ServerConfig{})
	router := s.Handler()
	codec := distribution.Codec{}

	shared := distribution.NewSharedData()
	shared.PutFactory(rowmap)
	shared.PutMatrix(distribution.KeyLaplacian, mustRows(t, [][]float64{{0, 1}, {1, 0}}))
	env, err := distribution.EncodeShared(shared)
	require.NoError(t, err)

	var body bytes.Buffer
	require.NoError(t, codec.Encode(&body, env))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/v1/jobs/j1/shared", &body))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, s.Jobs())

	body.Reset()
	require.NoError(t, codec.Encode(&body, distribution.TaskEnvelope{Index: 3, Kind: distribution.KindLaplacian, Start: 0, End: 2, Cols: 2}))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/jobs/j1/tasks", &body))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	var res distribution.ResultEnvelope
	require.NoError(t, codec.Decode(w.Body, &res))
	assert.Equal(t, 3, res.Index)
	assert.Equal(t, "j1", res.JobID)
	require.NotNil(t, res.Fragment)
	frag, err := distribution.DecodeMatrix(rowmap, *res.Fragment)
	require.NoError(t, err)
	assert.True(t, matrix.Equal(frag, mustRows(t, [][]float64{{1, 1}}), 0))
}
