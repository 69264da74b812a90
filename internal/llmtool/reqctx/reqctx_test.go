package reqctx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CancelAndCheck(t *testing.T) {
	reg := New()
	token := reg.BeginRequest(context.Background(), "req-1")
	assert.False(t, reg.CheckCancelled("req-1"))

	reg.Cancel("req-1")
	assert.True(t, reg.CheckCancelled("req-1"))
	assert.True(t, token.IsCancelled())

	reg.Cancel("req-1") // no-op, must not panic
}

func TestRegistry_CheckCancelled_UnknownRequest(t *testing.T) {
	reg := New()
	assert.False(t, reg.CheckCancelled("nope"))
}

func TestRegistry_EndRequest_ForgetsToken(t *testing.T) {
	reg := New()
	reg.BeginRequest(context.Background(), "req-1")
	reg.EndRequest("req-1")
	assert.False(t, reg.CheckCancelled("req-1"))
}

func TestRegistry_BeginRequest_ParentCancelPropagates(t *testing.T) {
	reg := New()
	parent, cancel := context.WithCancel(context.Background())
	token := reg.BeginRequest(parent, "req-1")
	cancel()
	assert.True(t, token.IsCancelled())
}

func TestRegistry_Resolve_DeliversDecision(t *testing.T) {
	reg := New()
	ch := reg.RequestConfirmation("req-1")

	reg.Resolve("req-1", DecisionApproved)

	select {
	case d := <-ch:
		assert.Equal(t, DecisionApproved, d)
	case <-time.After(time.Second):
		t.Fatal("confirmation never delivered")
	}
}

func TestRegistry_Resolve_UnknownRequestIsNoop(t *testing.T) {
	reg := New()
	reg.Resolve("unknown", DecisionApproved) // must not panic
}

func TestRegistry_AwaitConfirmation_Approved(t *testing.T) {
	reg := New()
	go func() {
		time.Sleep(10 * time.Millisecond)
		reg.Resolve("req-1", DecisionApproved)
	}()

	decision := reg.AwaitConfirmation(context.Background(), "req-1", time.Second)
	assert.Equal(t, DecisionApproved, decision)
}

func TestRegistry_AwaitConfirmation_TimesOutAsRejected(t *testing.T) {
	reg := New()
	decision := reg.AwaitConfirmation(context.Background(), "req-1", 10*time.Millisecond)
	assert.Equal(t, DecisionRejected, decision)
}

func TestRegistry_AwaitConfirmation_ContextCancelledAsRejected(t *testing.T) {
	reg := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	decision := reg.AwaitConfirmation(ctx, "req-1", time.Second)
	assert.Equal(t, DecisionRejected, decision)
}

func TestActiveCampaign_SetAndGet(t *testing.T) {
	active := NewActiveCampaign()

	_, ok := active.Get()
	assert.False(t, ok)

	active.Set("campaign-1")
	id, ok := active.Get()
	require.True(t, ok)
	assert.Equal(t, "campaign-1", id)
}
