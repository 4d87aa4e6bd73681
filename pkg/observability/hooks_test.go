package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Tree hooks
	p := NoopTreeHooks{}
	p.OnLoadStart(ctx, "fruits.yaml")
	p.OnLoadComplete(ctx, "fruits.yaml", 100, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "tree")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/v1/trees/{name}")
	h.OnResponse(ctx, "GET", "/v1/trees/{name}", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Tree().(NoopTreeHooks); !ok {
		t.Error("Tree() should return NoopTreeHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customTree := &testTreeHooks{}
	SetTreeHooks(customTree)
	if Tree() != customTree {
		t.Error("SetTreeHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Tree().(NoopTreeHooks); !ok {
		t.Error("Reset() should restore NoopTreeHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testTreeHooks{}
	SetTreeHooks(custom)

	// Setting nil should be ignored
	SetTreeHooks(nil)

	if Tree() != custom {
		t.Error("SetTreeHooks(nil) should be ignored")
	}

	Reset()
}

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.OnLoadComplete(ctx, "a.yaml", 10, time.Millisecond, nil)
	m.OnLoadComplete(ctx, "b.yaml", 0, time.Millisecond, errors.New("boom"))
	m.OnRenderComplete(ctx, []string{"text"}, time.Millisecond, nil)
	m.OnCacheHit(ctx, "artifact")
	m.OnCacheMiss(ctx, "artifact")
	m.OnCacheMiss(ctx, "artifact")
	m.OnCacheSet(ctx, "artifact", 512)
	m.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"loads ok", m.loads.WithLabelValues("ok"), 1},
		{"loads error", m.loads.WithLabelValues("error"), 1},
		{"renders ok", m.renders.WithLabelValues("ok"), 1},
		{"cache hit", m.cacheOps.WithLabelValues("artifact", "hit"), 1},
		{"cache miss", m.cacheOps.WithLabelValues("artifact", "miss"), 2},
		{"cache bytes", m.cacheBytes.WithLabelValues("artifact"), 512},
		{"requests", m.requests.WithLabelValues("GET", "/healthz", "200"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.c); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
			}
		})
	}

	if n, err := testutil.GatherAndCount(reg); err != nil || n == 0 {
		t.Errorf("GatherAndCount() = %d, %v; want registered metrics", n, err)
	}
}

func TestNewMetricsTwiceOnOneRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	defer func() {
		if recover() == nil {
			t.Error("second NewMetrics on the same registry should panic")
		}
	}()
	NewMetrics(reg)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := LogHooks{Logger: logger}
	ctx := context.Background()

	h.OnLoadComplete(ctx, "fruits.yaml", 7, time.Millisecond, nil)
	h.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, errors.New("no graphviz"))
	h.OnCacheHit(ctx, "artifact")

	out := buf.String()
	for _, want := range []string{"tree loaded", "fruits.yaml", "render failed", "no graphviz", "cache hit"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestFanout(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	var buf bytes.Buffer
	l := LogHooks{Logger: log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})}

	f := Fanout{m, l}
	f.OnCacheMiss(context.Background(), "tree")

	if got := testutil.ToFloat64(m.cacheOps.WithLabelValues("tree", "miss")); got != 1 {
		t.Errorf("metrics miss = %v, want 1", got)
	}
	if !strings.Contains(buf.String(), "cache miss") {
		t.Errorf("log output = %q, want cache miss", buf.String())
	}
}

// Test implementations
type testTreeHooks struct{ NoopTreeHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
