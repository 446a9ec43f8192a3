package dispatch_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dispatch "github.com/arlenner/agent-hooks-go"
	"github.com/arlenner/agent-hooks-go/hook"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := dispatch.NewRegistry()
	assert.Nil(t, reg.Get("missing"))

	fn := func(_ context.Context, _ hook.Event, _ json.RawMessage) (*hook.Verdict, error) {
		return hook.Continue("v1"), nil
	}
	reg.Register("audit", fn)
	require.NotNil(t, reg.Get("audit"))

	v, err := reg.Get("audit")(context.Background(), hook.PreToolUse, nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", v.Reason)
}

func TestRegistryReplacePreservesOrder(t *testing.T) {
	reg := dispatch.NewRegistry()
	reg.Register("a", func(_ context.Context, _ hook.Event, _ json.RawMessage) (*hook.Verdict, error) {
		return hook.Continue("old"), nil
	})
	reg.Register("b", func(_ context.Context, _ hook.Event, _ json.RawMessage) (*hook.Verdict, error) {
		return nil, nil
	})
	reg.Register("a", func(_ context.Context, _ hook.Event, _ json.RawMessage) (*hook.Verdict, error) {
		return hook.Continue("new"), nil
	})

	assert.Equal(t, []string{"a", "b"}, reg.Names())

	v, err := reg.Get("a")(context.Background(), hook.PreToolUse, nil)
	require.NoError(t, err)
	assert.Equal(t, "new", v.Reason)
}
