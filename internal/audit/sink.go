package audit

import "context"

// RemoteSink is the off-box printed-labels registry. Probe is called
// once per print session; a probe failure means the registry is skipped
// for the whole session.
type RemoteSink interface {
	Probe(ctx context.Context) error
	Write(ctx context.Context, record Record) error
}

// LocalSink is the on-box log. It must accept writes whether or not the
// remote registry was reachable.
type LocalSink interface {
	Append(ctx context.Context, key []byte, record Record) error
	List(ctx context.Context) ([]Record, error)
	Purge(ctx context.Context) error
}
