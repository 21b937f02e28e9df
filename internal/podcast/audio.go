package podcast

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/pagelm/study-cli/internal/model"
	"github.com/pagelm/study-cli/pkg/speech"
)

// renderConcurrency bounds in-flight synthesis requests.
const renderConcurrency = 4

// Progress reports one rendered segment.
type Progress struct {
	Index int    `json:"index"`
	Total int    `json:"total"`
	File  string `json:"file"`
}

// RenderResult describes the rendered audio on disk: one file per segment in
// script order, plus a manifest listing them.
type RenderResult struct {
	Files    []string `json:"files"`
	Manifest string   `json:"manifest"`
}

// Renderer renders a script's segments to audio files under dir.
type Renderer interface {
	Render(ctx context.Context, script *model.PodcastScript, dir, base string, progress func(Progress)) (*RenderResult, error)
}

// speechRenderer renders via the speech API, a few segments at a time under
// a shared rate limit.
type speechRenderer struct {
	client  speech.Client
	limiter *rate.Limiter
	format  string
}

// NewSpeechRenderer creates a Renderer backed by the speech client. rps
// bounds synthesis requests per second; zero means a conservative default.
func NewSpeechRenderer(client speech.Client, format string, rps float64) Renderer {
	if format == "" {
		format = "mp3"
	}
	if rps <= 0 {
		rps = 2
	}
	return &speechRenderer{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		format:  format,
	}
}

// MakeAudio ensures the output directory exists and delegates rendering.
func (o *Orchestrator) MakeAudio(ctx context.Context, script *model.PodcastScript, dir, base string, progress func(Progress)) (*RenderResult, error) {
	if o.renderer == nil {
		return nil, eris.New("podcast: no audio renderer configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrap(err, "podcast: create output directory")
	}
	return o.renderer.Render(ctx, script, dir, base, progress)
}

func (r *speechRenderer) Render(ctx context.Context, script *model.PodcastScript, dir, base string, progress func(Progress)) (*RenderResult, error) {
	total := len(script.Segments)
	files := make([]string, total)

	// Segments render concurrently; the progress callback is serialized so
	// callers need no locking of their own.
	var progressMu sync.Mutex
	emit := func(p Progress) {
		if progress == nil {
			return
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		progress(p)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(renderConcurrency)
	for i, seg := range script.Segments {
		g.Go(func() error {
			if err := r.limiter.Wait(gctx); err != nil {
				return err
			}
			audio, err := r.client.Synthesize(gctx, seg.Markdown, seg.Voice)
			if err != nil {
				return eris.Wrapf(err, "podcast: synthesize segment %d", i)
			}
			file := filepath.Join(dir, fmt.Sprintf("%s-%03d.%s", base, i, r.format))
			if err := os.WriteFile(file, audio, 0o644); err != nil {
				return eris.Wrapf(err, "podcast: write segment %d", i)
			}
			files[i] = file
			emit(Progress{Index: i, Total: total, File: file})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	manifest := filepath.Join(dir, base+".json")
	data, err := json.MarshalIndent(map[string]any{
		"title":   script.Title,
		"summary": script.Summary,
		"files":   files,
	}, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "podcast: encode manifest")
	}
	if err := os.WriteFile(manifest, data, 0o644); err != nil {
		return nil, eris.Wrap(err, "podcast: write manifest")
	}

	zap.L().Info("podcast audio rendered",
		zap.String("title", script.Title),
		zap.Int("segments", total),
		zap.String("manifest", manifest),
	)
	return &RenderResult{Files: files, Manifest: manifest}, nil
}
