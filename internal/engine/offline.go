package engine

import "context"

// offlineClient stands in for an engine linked in-process from rule
// files (housekeeping/differentiation/enforcement) plus an
// execute-on-receive flag. The engine's own rule evaluation is out of
// scope: this client exists only to exercise the construction and
// submission contract end to end, so it always admits the request.
type offlineClient struct {
	cfg Config
}

func newOfflineClient(cfg Config) *offlineClient {
	return &offlineClient{cfg: cfg}
}

// Submit always succeeds: the offline stand-in performs no rate
// limiting, since the real decision logic is an external collaborator
// this module never implements.
func (c *offlineClient) Submit(ctx context.Context, rec Context) error {
	return nil
}

func (c *offlineClient) Close() error { return nil }
