package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/tagsheet/pkg/cache"
	"github.com/matzehuels/tagsheet/pkg/config"
	"github.com/matzehuels/tagsheet/pkg/errors"
	"github.com/matzehuels/tagsheet/pkg/svgdoc"
)

const templateSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="700" height="400">
  <g id="layer1">
    <g id="tag">
      <rect id="frame" width="135.94" height="29.82"/>
      <text id="name"><tspan id="span">NAME</tspan></text>
    </g>
  </g>
</svg>`

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// writeInputs writes a template and a names file to a temp dir and returns a
// config pointing at them.
func writeInputs(t *testing.T, labels ...string) config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Defaults()
	cfg.TemplatePath = filepath.Join(dir, "template.svg")
	cfg.NamesPath = filepath.Join(dir, "names.txt")
	cfg.OutputPath = filepath.Join(dir, "out", "sheet.svg")
	cfg.Columns, cfg.Rows = 2, 2

	if err := os.WriteFile(cfg.TemplatePath, []byte(templateSVG), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.NamesPath, []byte(strings.Join(labels, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return cfg
}

type fakeConverter struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeConverter) Convert(_ context.Context, svg []byte, format string, _ float64) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, format)
	return append([]byte(format+":"), svg[:16]...), nil
}

type recordingHooks struct {
	starts   []int
	skipped  []string
	complete []int
	hits     []string
	misses   []string
}

func (h *recordingHooks) OnGenerateStart(_ context.Context, labels int) {
	h.starts = append(h.starts, labels)
}
func (h *recordingHooks) OnLabelSkipped(_ context.Context, _ int, label string) {
	h.skipped = append(h.skipped, label)
}
func (h *recordingHooks) OnGenerateComplete(_ context.Context, placed, _ int, _ time.Duration, _ error) {
	h.complete = append(h.complete, placed)
}
func (h *recordingHooks) OnRenderStart(context.Context, []string)                          {}
func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}
func (h *recordingHooks) OnCacheHit(_ context.Context, format string) {
	h.hits = append(h.hits, format)
}
func (h *recordingHooks) OnCacheMiss(_ context.Context, format string) {
	h.misses = append(h.misses, format)
}
func (h *recordingHooks) OnCacheSet(context.Context, string, int) {}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"svg"}, opts.Formats); diff != "" {
		t.Errorf("Formats (-want +got):\n%s", diff)
	}
	if opts.Scale != 2 {
		t.Errorf("Scale = %g, want 2", opts.Scale)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    []string
		wantErr errors.Code
	}{
		{name: "dedupe and lowercase", opts: Options{Formats: []string{"SVG", "pdf", " pdf "}}, want: []string{"svg", "pdf"}},
		{name: "unknown format", opts: Options{Formats: []string{"gif"}}, wantErr: errors.ErrCodeInvalidFormat},
		{name: "negative scale", opts: Options{Scale: -1}, wantErr: errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, tt.opts.Formats); diff != "" {
				t.Errorf("Formats (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	cfg := writeInputs(t, "Alice", "Bob", "Carol", "Dave", "Eve")
	hooks := &recordingHooks{}
	r := NewRunner(nil, nil, quietLogger())
	r.Hooks = hooks

	res, err := r.Execute(context.Background(), cfg, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if res.Stats.Labels != 5 || res.Stats.Placed != 4 || res.Stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 5 labels, 4 placed, 1 skipped", res.Stats)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Label != "Eve" || res.Skipped[0].Index != 4 {
		t.Errorf("skipped = %+v, want Eve at 4", res.Skipped)
	}
	if diff := cmp.Diff([]string{"Eve"}, hooks.skipped); diff != "" {
		t.Errorf("skipped hooks (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{5}, hooks.starts); diff != "" {
		t.Errorf("start hooks (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{4}, hooks.complete); diff != "" {
		t.Errorf("complete hooks (-want +got):\n%s", diff)
	}

	svg := string(res.Artifacts["svg"])
	if !strings.HasPrefix(svg, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("output does not start with an XML declaration:\n%s", svg)
	}
	for _, want := range []string{">Alice<", ">Bob<", ">Carol<", ">Dave<"} {
		if !strings.Contains(svg, want) {
			t.Errorf("output missing %s", want)
		}
	}
	if strings.Contains(svg, "Eve") || strings.Contains(svg, "NAME") {
		t.Error("output contains a skipped label or the template itself")
	}
	if strings.Contains(svg, `id="tag"`) || strings.Contains(svg, `id="span"`) {
		t.Error("generated tags kept template ids")
	}
	if !strings.Contains(svg, `id="layer1"`) {
		t.Error("layer id removed")
	}

	// The document is re-parseable and the layer holds exactly the tags.
	doc, err := svgdoc.Parse(bytes.NewReader(res.Artifacts["svg"]))
	if err != nil {
		t.Fatalf("re-parse output: %v", err)
	}
	layer := doc.Root().ChildElements()[0]
	if n := len(layer.ChildElements()); n != 4 {
		t.Errorf("layer has %d groups, want 4", n)
	}
}

func TestExecuteDoesNotWrite(t *testing.T) {
	cfg := writeInputs(t, "Alice")
	r := NewRunner(nil, nil, quietLogger())
	r.Hooks = &recordingHooks{}

	if _, err := r.Execute(context.Background(), cfg, Options{}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cfg.OutputPath); !os.IsNotExist(err) {
		t.Errorf("Execute wrote %s", cfg.OutputPath)
	}
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, cfg *config.Config)
		want   errors.Code
	}{
		{
			name:   "missing names",
			mutate: func(_ *testing.T, cfg *config.Config) { cfg.NamesPath += ".missing" },
			want:   errors.ErrCodeNamesNotFound,
		},
		{
			name:   "missing template",
			mutate: func(_ *testing.T, cfg *config.Config) { cfg.TemplatePath += ".missing" },
			want:   errors.ErrCodeFileNotFound,
		},
		{
			name:   "zero columns",
			mutate: func(_ *testing.T, cfg *config.Config) { cfg.Columns = 0 },
			want:   errors.ErrCodeInvalidConfiguration,
		},
		{
			name:   "unknown layer",
			mutate: func(_ *testing.T, cfg *config.Config) { cfg.ContainerID = "layer9" },
			want:   errors.ErrCodeContainerNotFound,
		},
		{
			name: "template without groups",
			mutate: func(t *testing.T, cfg *config.Config) {
				svg := `<svg xmlns="http://www.w3.org/2000/svg"><g id="layer1"><rect/></g></svg>`
				if err := os.WriteFile(cfg.TemplatePath, []byte(svg), 0644); err != nil {
					t.Fatal(err)
				}
			},
			want: errors.ErrCodeEmptyTemplate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := writeInputs(t, "Alice")
			tt.mutate(t, &cfg)
			r := NewRunner(nil, nil, quietLogger())
			r.Hooks = &recordingHooks{}

			_, err := r.Execute(context.Background(), cfg, Options{})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestExecuteCancelled(t *testing.T) {
	cfg := writeInputs(t, "Alice")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(nil, nil, quietLogger())
	r.Hooks = &recordingHooks{}
	if _, err := r.Execute(ctx, cfg, Options{}); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestExecuteCachesConversions(t *testing.T) {
	cfg := writeInputs(t, "Alice", "Bob")
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	conv := &fakeConverter{}
	hooks := &recordingHooks{}
	r := NewRunner(fc, nil, quietLogger())
	r.Converter = conv
	r.Hooks = hooks
	r.CacheHooks = hooks

	opts := Options{Formats: []string{"svg", "pdf", "png"}}
	first, err := r.Execute(context.Background(), cfg, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.CacheInfo.Hits) != 0 {
		t.Errorf("first run hits = %v, want none", first.CacheInfo.Hits)
	}

	second, err := r.Execute(context.Background(), cfg, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.Hit("pdf") || !second.CacheInfo.Hit("png") {
		t.Errorf("second run hits = %v, want pdf and png", second.CacheInfo.Hits)
	}
	if diff := cmp.Diff([]string{"pdf", "png"}, conv.calls); diff != "" {
		t.Errorf("conversions (-want +got):\n%s", diff)
	}
	if !bytes.Equal(first.Artifacts["pdf"], second.Artifacts["pdf"]) {
		t.Error("cached pdf differs from the converted one")
	}
	if diff := cmp.Diff([]string{"pdf", "png"}, hooks.hits); diff != "" {
		t.Errorf("cache hit hooks (-want +got):\n%s", diff)
	}

	// Refresh bypasses the cache.
	opts.Refresh = true
	if _, err := r.Execute(context.Background(), cfg, opts); err != nil {
		t.Fatal(err)
	}
	if len(conv.calls) != 4 {
		t.Errorf("conversions after refresh = %v, want 4", conv.calls)
	}
}

func TestResultWrite(t *testing.T) {
	cfg := writeInputs(t, "Alice")
	r := NewRunner(nil, nil, quietLogger())
	r.Converter = &fakeConverter{}
	r.Hooks = &recordingHooks{}
	r.CacheHooks = &recordingHooks{}

	res, err := r.Execute(context.Background(), cfg, Options{Formats: []string{"svg", "png"}})
	if err != nil {
		t.Fatal(err)
	}
	paths, err := res.Write(cfg.OutputPath)
	if err != nil {
		t.Fatal(err)
	}

	pngPath := strings.TrimSuffix(cfg.OutputPath, ".svg") + ".png"
	if diff := cmp.Diff([]string{cfg.OutputPath, pngPath}, paths); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}
	got, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, res.Artifacts["svg"]) {
		t.Error("written svg differs from the artifact")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		base, format, want string
	}{
		{"output.svg", "svg", "output.svg"},
		{"output.svg", "pdf", "output.pdf"},
		{"dir/sheet.v2.svg", "png", "dir/sheet.v2.png"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.base, tt.format); got != tt.want {
			t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.base, tt.format, got, tt.want)
		}
	}
}
