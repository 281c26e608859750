// Package remote ships distribution jobs over HTTP.
//
// A worker (Server, built on gin) keeps the shared data of each job in
// memory and runs one task per request:
//
//	PUT    /v1/jobs/:id/shared   store the job's SharedEnvelope
//	POST   /v1/jobs/:id/tasks    run one TaskEnvelope, answer a ResultEnvelope
//	DELETE /v1/jobs/:id          drop the job's shared data
//	GET    /healthz              liveness
//	GET    /metrics              prometheus
//
// Bodies are distribution.Codec envelopes sent with Content-Encoding: gzip.
//
// The driver side (Adapter) uploads the shared data to every worker, then
// posts tasks round-robin with at most MaxNodes requests in flight and
// delivers each fragment to the job.
package remote
