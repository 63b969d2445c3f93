package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnFileParsed(ctx, "flat", "src/a.d", 3, 2)
	p.OnFileSkipped(ctx, "tree", "src/b.cpp.dep", errors.New("no root"))
	p.OnRender(ctx, "out/a", "svg", time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "svg")
	c.OnCacheMiss(ctx, "png")
	c.OnCacheSet(ctx, "svg", 1024)

	NoopCompileHooks{}.OnCompile(ctx, "a.cpp", time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Compile().(NoopCompileHooks); !ok {
		t.Error("Compile() should return NoopCompileHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customCompile := &testCompileHooks{}
	SetCompileHooks(customCompile)
	if Compile() != customCompile {
		t.Error("SetCompileHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := Compile().(NoopCompileHooks); !ok {
		t.Error("Reset() should restore NoopCompileHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)
	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should keep existing hooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	h := &testPipelineHooks{}
	SetPipelineHooks(h)

	ctx := context.Background()
	Pipeline().OnFileParsed(ctx, "flat", "a.d", 2, 1)
	Pipeline().OnFileParsed(ctx, "flat", "b.d", 2, 1)
	Pipeline().OnFileSkipped(ctx, "flat", "c.d", nil)

	if h.parsed != 2 || h.skipped != 1 {
		t.Errorf("parsed=%d skipped=%d, want 2 and 1", h.parsed, h.skipped)
	}
}

type testPipelineHooks struct {
	mu      sync.Mutex
	parsed  int
	skipped int
	renders int
}

func (h *testPipelineHooks) OnFileParsed(context.Context, string, string, int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.parsed++
}

func (h *testPipelineHooks) OnFileSkipped(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.skipped++
}

func (h *testPipelineHooks) OnRender(context.Context, string, string, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.renders++
}

type testCacheHooks struct{}

func (*testCacheHooks) OnCacheHit(context.Context, string)      {}
func (*testCacheHooks) OnCacheMiss(context.Context, string)     {}
func (*testCacheHooks) OnCacheSet(context.Context, string, int) {}

type testCompileHooks struct{}

func (*testCompileHooks) OnCompile(context.Context, string, time.Duration, error) {}
