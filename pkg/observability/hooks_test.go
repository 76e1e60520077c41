package observability

import (
	"context"
	"testing"
	"time"
)

type countingStoreHooks struct {
	NoopStoreHooks
	loads, saves, deletes int
}

func (h *countingStoreHooks) OnLoad(context.Context, string, bool)       { h.loads++ }
func (h *countingStoreHooks) OnSave(context.Context, string, int, error) { h.saves++ }
func (h *countingStoreHooks) OnDelete(context.Context, string)           { h.deletes++ }

func TestHookRegistry(t *testing.T) {
	defer Reset()

	h := &countingStoreHooks{}
	SetStoreHooks(h)

	ctx := context.Background()
	Store().OnLoad(ctx, "default", true)
	Store().OnSave(ctx, "default", 128, nil)
	Store().OnDelete(ctx, "default")

	if h.loads != 1 || h.saves != 1 || h.deletes != 1 {
		t.Errorf("hooks not dispatched: %+v", h)
	}

	Reset()
	Store().OnLoad(ctx, "default", true)
	if h.loads != 1 {
		t.Error("Reset should restore the no-op hooks")
	}
}

func TestSetNilIsIgnored(t *testing.T) {
	defer Reset()

	SetLayoutHooks(nil)
	SetRenderHooks(nil)

	// The no-op defaults must survive a nil registration.
	Layout().OnGenerateStart(context.Background(), 3)
	Layout().OnGenerateComplete(context.Background(), 3, time.Millisecond, nil)
	Render().OnRender(context.Background(), "svg", 10, time.Millisecond, nil)
}
