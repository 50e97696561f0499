// Package storage provides the document byte store used by the commit
// engine and the reconciliation service.
//
// Documents are opaque byte buffers (xlsx workbooks in practice). The Store
// interface exposes whole-document read and write plus a pre-flight
// writability check, so the commit engine can fail fast on a locked file
// before mutating anything.
//
// Two providers are available:
//   - local: plain filesystem access, used by the CLI
//   - minio: an S3-compatible bucket, used by service deployments
package storage
