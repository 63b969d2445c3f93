package nodelink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/incgraph/pkg/cache"
	"github.com/matzehuels/incgraph/pkg/dag"
	incerrors "github.com/matzehuels/incgraph/pkg/errors"
	"github.com/matzehuels/incgraph/pkg/graph"
	"github.com/matzehuels/incgraph/pkg/observability"
)

// Emitter renders graphs and writes them to disk, one file per format.
type Emitter struct {
	Renderer Renderer
	Cache    cache.Cache
	Formats  []string
	Logger   *log.Logger
}

// NewEmitter creates an emitter. A nil cache disables caching, no formats
// means svg and a nil logger means log.Default().
func NewEmitter(r Renderer, c cache.Cache, formats []string, logger *log.Logger) *Emitter {
	if c == nil {
		c = cache.Disabled("no cache configured")
	}
	if len(formats) == 0 {
		formats = []string{FormatSVG}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Emitter{Renderer: r, Cache: c, Formats: formats, Logger: logger}
}

// ValidateFormats checks that every format is supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !ValidFormats[f] {
			return incerrors.New(incerrors.ErrCodeInvalidFormat,
				"invalid format: %s (must be 'svg', 'png', 'dot' or 'json')", f)
		}
	}
	return nil
}

// Emit writes g in every configured format to base + "." + format,
// creating parent directories. It returns the paths written. A failing
// format does not stop the others; all failures are joined in the error.
func (e *Emitter) Emit(ctx context.Context, g *dag.Graph, s Style, base string) ([]string, error) {
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		return nil, incerrors.Wrap(incerrors.ErrCodeRender, err, "create output dir for %s", base)
	}

	dot := ToDOT(g, s)
	var (
		written []string
		errs    []error
	)
	for _, format := range e.Formats {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		out := base + "." + format
		start := time.Now()
		err := e.write(ctx, g, dot, format, out)
		observability.Pipeline().OnRender(ctx, out, format, time.Since(start), err)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		written = append(written, out)
	}
	return written, errors.Join(errs...)
}

func (e *Emitter) write(ctx context.Context, g *dag.Graph, dot, format, out string) error {
	data, err := e.artifact(ctx, g, dot, format)
	if err != nil {
		return incerrors.Wrap(incerrors.ErrCodeRender, err, "render %s", out)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return incerrors.Wrap(incerrors.ErrCodeRender, err, "write %s", out)
	}
	return nil
}

func (e *Emitter) artifact(ctx context.Context, g *dag.Graph, dot, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return graph.MarshalGraph(g)
	case FormatDOT:
		return []byte(dot), nil
	}

	key := cache.ArtifactKey(dot, format)
	if data, hit, err := e.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, format)
		e.Logger.Debug("artifact cache hit", "graph", g.Name(), "format", format)
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, format)
	if e.Renderer == nil {
		return nil, fmt.Errorf("no renderer configured for %s", format)
	}
	data, err := e.Renderer.Render(ctx, dot, format)
	if err != nil {
		return nil, err
	}
	if err := e.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		e.Logger.Debug("artifact cache write failed", "graph", g.Name(), "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, format, len(data))
	}
	return data, nil
}
