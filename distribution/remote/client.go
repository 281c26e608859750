// SPDX-License-Identifier: MIT

package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/smartop/distribution"
	"github.com/katalvlaran/smartop/internal/logging"
)

// ErrNoWorkers is returned by NewAdapter without worker URLs.
var ErrNoWorkers = errors.New("remote: no worker URLs")

// ErrWorker wraps a non-success worker answer.
var ErrWorker = errors.New("remote: worker error")

// AdapterConfig configures the HTTP driver.
type AdapterConfig struct {
	// Workers are base URLs such as http://10.0.0.5:8080.
	Workers []string
	// MaxNodes caps the task requests in flight (≥ 1).
	MaxNodes int
	// Timeout bounds each HTTP request; zero means no per-request timeout.
	Timeout time.Duration
	Client  *http.Client
	Logger  logging.Logger
}

// Adapter is a distribution.Adapter posting tasks to remote workers.
type Adapter struct {
	cfg    AdapterConfig
	client *http.Client
	codec  distribution.Codec
	log    logging.Logger
	next   atomic.Uint64
	closed atomic.Bool
	wg     sync.WaitGroup
}

var _ distribution.Adapter = (*Adapter)(nil)

// NewAdapter validates cfg and returns an HTTP adapter.
func NewAdapter(cfg AdapterConfig) (*Adapter, error) {
	if len(cfg.Workers) == 0 {
		return nil, ErrNoWorkers
	}
	for i, w := range cfg.Workers {
		cfg.Workers[i] = strings.TrimRight(w, "/")
	}
	if cfg.MaxNodes < 1 {
		cfg.MaxNodes = 1
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	log := cfg.Logger
	if log == nil {
		log = logging.NewNop()
	}

	return &Adapter{cfg: cfg, client: client, log: log}, nil
}

// Name implements distribution.Adapter.
func (a *Adapter) Name() string { return "http" }

// Submit uploads the job's shared data to every worker, then dispatches the
// tasks in the background. Upload failures fail the job and are returned.
func (a *Adapter) Submit(ctx context.Context, job *distribution.Job) error {
	if a.closed.Load() {
		return distribution.ErrClosed
	}
	if err := job.MarkSubmitted(); err != nil {
		return err
	}
	log := a.log.With(logging.String("job", job.ID()))

	env, err := distribution.EncodeShared(job.Shared())
	if err == nil {
		err = a.broadcast(ctx, http.MethodPut, job.ID(), "/shared", env)
	}
	if err != nil {
		job.Fail(-1, err)
		return err
	}

	tasks := job.Tasks()
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(a.cfg.MaxNodes)
		for _, t := range tasks {
			t := t
			g.Go(func() error {
				return a.runTask(gctx, job, t)
			})
		}
		if err := g.Wait(); err != nil {
			log.Error("job failed", err)
		}
		// Workers drop the shared data even when the job failed.
		cleanup, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout())
		defer cancel()
		if err := a.broadcast(cleanup, http.MethodDelete, job.ID(), "", nil); err != nil {
			log.Error("cleanup failed", err)
		}
	}()

	return nil
}

func (a *Adapter) runTask(ctx context.Context, job *distribution.Job, t *distribution.Task) error {
	worker := a.cfg.Workers[a.next.Add(1)%uint64(len(a.cfg.Workers))]
	var res distribution.ResultEnvelope
	err := a.do(ctx, http.MethodPost, worker+"/v1/jobs/"+job.ID()+"/tasks", distribution.EncodeTask(t), &res)
	if err == nil && res.Error != "" {
		err = fmt.Errorf("%w: %s", ErrWorker, res.Error)
	}
	if err == nil && res.Fragment == nil {
		err = fmt.Errorf("%w: empty fragment", ErrWorker)
	}
	if err != nil {
		job.Fail(t.Index(), fmt.Errorf("%s: %w", worker, err))
		return err
	}

	f, err := job.Shared().Factory()
	if err != nil {
		job.Fail(t.Index(), err)
		return err
	}
	frag, err := distribution.DecodeMatrix(f, *res.Fragment)
	if err != nil {
		job.Fail(t.Index(), err)
		return err
	}

	return job.Deliver(t.Index(), frag)
}

// broadcast sends the same request to every worker concurrently.
func (a *Adapter) broadcast(ctx context.Context, method, jobID, suffix string, body any) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range a.cfg.Workers {
		w := w
		g.Go(func() error {
			return a.do(gctx, method, w+"/v1/jobs/"+jobID+suffix, body, nil)
		})
	}

	return g.Wait()
}

// do performs one request; body and out are codec envelopes (nil to skip).
func (a *Adapter) do(ctx context.Context, method, url string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := a.codec.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return err
	}
	// An explicit Accept-Encoding keeps the transport from transparently
	// decompressing, so the codec always sees the raw gzip stream.
	req.Header.Set("Accept-Encoding", contentEncoding)
	if body != nil {
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Content-Encoding", contentEncoding)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	isEnvelope := resp.Header.Get("Content-Encoding") == contentEncoding
	if out != nil && isEnvelope {
		if err = a.codec.Decode(resp.Body, out); err != nil {
			return err
		}
		if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusUnprocessableEntity {
			return nil
		}
	}
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%w: %s %s: %d %s", ErrWorker, method, url, resp.StatusCode, bytes.TrimSpace(msg))
	}

	return nil
}

func (a *Adapter) timeout() time.Duration {
	if a.cfg.Timeout > 0 {
		return a.cfg.Timeout
	}

	return 30 * time.Second
}

// Close waits for in-flight jobs and rejects further submissions.
func (a *Adapter) Close() error {
	a.closed.Store(true)
	a.wg.Wait()

	return nil
}
