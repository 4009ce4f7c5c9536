package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/padll/iointerpose/internal/mount"
	"github.com/padll/iointerpose/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOfflineClientAlwaysAdmits(t *testing.T) {
	c, err := New(Config{Mode: ModeOffline})
	require.NoError(t, err)
	defer c.Close()

	err = c.Submit(context.Background(), NewContext(1, OpOpen, CtxMeta, 1))
	assert.NoError(t, err)
}

type fakeClient struct {
	submitted []Context
	err       error
}

func (f *fakeClient) Submit(ctx context.Context, rec Context) error {
	f.submitted = append(f.submitted, rec)
	return f.err
}
func (f *fakeClient) Close() error { return nil }

func TestEnforceBypassesOnInvalidWorkflow(t *testing.T) {
	fc := &fakeClient{}
	enforced, err := Enforce(context.Background(), fc, logging.Discard, mount.Invalid, OpOpen, CtxMeta, 1)

	assert.False(t, enforced)
	assert.NoError(t, err)
	assert.Empty(t, fc.submitted)
}

func TestEnforceSubmitsWhenWorkflowValid(t *testing.T) {
	fc := &fakeClient{}
	enforced, err := Enforce(context.Background(), fc, logging.Discard, mount.Workflow(1000), OpRead, CtxData, 64)

	require.NoError(t, err)
	assert.True(t, enforced)
	require.Len(t, fc.submitted, 1)
	assert.Equal(t, mount.Workflow(1000), fc.submitted[0].Workflow)
	assert.Equal(t, OpRead, fc.submitted[0].Op)
	assert.EqualValues(t, 64, fc.submitted[0].Size)
}

func TestEnforceLogsButDoesNotPanicOnSubmissionFailure(t *testing.T) {
	fc := &fakeClient{err: errors.New("boom")}
	enforced, err := Enforce(context.Background(), fc, logging.Discard, mount.Workflow(1), OpWrite, CtxData, 10)

	assert.True(t, enforced)
	assert.Error(t, err)
}

func TestNewRejectsUnknownMode(t *testing.T) {
	_, err := New(Config{Mode: Mode(99)})
	assert.Error(t, err)
}
