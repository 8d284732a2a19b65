// Package render is the hosting side of the engine: it partitions the
// frame range into disjoint chunks, evaluates and rasterizes every frame
// of each chunk in its own worker, and concatenates the encoded segments.
// Because frame evaluation is order-independent, chunks need no
// coordination beyond the final concat.
package render

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/board2video/internal/compose"
	"github.com/ivlev/board2video/internal/config"
	"github.com/ivlev/board2video/internal/system"
	"github.com/ivlev/board2video/internal/video"
)

type Renderer struct {
	Eval    *compose.Evaluator
	Cfg     *config.Config
	Encoder video.Encoder
	Width   int
	Height  int
}

// New prepares a renderer for one invocation. Width/height fall back to
// the storyboard's video config when the render config leaves them zero.
func New(eval *compose.Evaluator, cfg *config.Config) *Renderer {
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = eval.Board.Video.Width
	}
	if h <= 0 {
		h = eval.Board.Video.Height
	}
	return &Renderer{
		Eval: eval,
		Cfg:  cfg,
		Encoder: &video.FFmpegEncoder{
			EncoderName: cfg.VideoEncoder,
			Quality:     cfg.Quality,
		},
		Width:  w,
		Height: h,
	}
}

type chunk struct {
	index int
	from  int
	to    int // exclusive
}

// Run renders the configured frame range into the output video.
func (r *Renderer) Run(ctx context.Context) error {
	startTime := time.Now()

	from, to, err := r.frameRange()
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "board2video_")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	chunks := splitChunks(from, to, r.Cfg.ChunkFrames)
	if len(chunks) == 0 {
		return fmt.Errorf("empty frame range [%d,%d)", from, to)
	}

	workers := r.Cfg.Workers
	if workers <= 0 {
		workers = system.RenderWorkers()
	}
	if limit := system.MaxEncodeWorkers(r.Width * r.Height * 4); workers > limit {
		workers = limit
	}
	if workers > len(chunks) {
		workers = len(chunks)
	}

	fps := r.Eval.Timeline.FPS
	fmt.Printf("[*] Rendering frames [%d,%d) in %d chunks, %d workers, %dx%d @ %d FPS\n",
		from, to, len(chunks), workers, r.Width, r.Height, fps)

	segments := make([]string, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, ch := range chunks {
		ch := ch
		g.Go(func() error {
			segPath := filepath.Join(tmpDir, fmt.Sprintf("c%04d.mp4", ch.index))
			ras := &Rasterizer{Width: r.Width, Height: r.Height, Style: r.Eval.Board.Style}

			err := r.Encoder.EncodeChunk(gctx, segPath, r.Width, r.Height, fps, func(w io.Writer) error {
				for f := ch.from; f < ch.to; f++ {
					spec, err := r.Eval.EvaluateFrame(f)
					if err != nil {
						return err
					}
					img := ras.Rasterize(spec)
					err = video.WriteRawRGBA(w, img)
					ras.Release(img)
					if err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("chunk %d [%d,%d): %w", ch.index, ch.from, ch.to, err)
			}
			segments[ch.index] = segPath
			fmt.Printf("[>] Chunk ready: %d/%d\n", ch.index+1, len(chunks))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Println("[*] Assembling final video...")
	opts := r.concatOptions(from, to)
	if err := r.Encoder.Concatenate(ctx, segments, r.Cfg.OutputVideo, tmpDir, opts); err != nil {
		return fmt.Errorf("final assembly: %w", err)
	}

	if r.Cfg.ShowStats {
		r.reportStats(to-from, time.Since(startTime))
	}
	return nil
}

// Snapshot rasterizes a single frame to a PNG, for spot-checking a
// composition without rendering video.
func (r *Renderer) Snapshot(frame int, path string) error {
	spec, err := r.Eval.EvaluateFrame(frame)
	if err != nil {
		return err
	}
	ras := &Rasterizer{Width: r.Width, Height: r.Height, Style: r.Eval.Board.Style}
	img := ras.Rasterize(spec)
	defer ras.Release(img)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func (r *Renderer) frameRange() (int, int, error) {
	total := r.Eval.TotalFrames()
	from := r.Cfg.FromFrame
	to := r.Cfg.ToFrame
	if to <= 0 || to > total {
		to = total
	}
	if from < 0 || from >= to {
		return 0, 0, fmt.Errorf("invalid frame range [%d,%d), composition has %d frames", from, to, total)
	}
	return from, to, nil
}

// concatOptions bakes the score in only for full-range renders; a chunk
// sub-range gets video-only output so the host can mix after joining.
func (r *Renderer) concatOptions(from, to int) video.ConcatOptions {
	music := r.Eval.Board.Audio.BackgroundMusic
	if music == nil || from != 0 || to != r.Eval.TotalFrames() {
		return video.ConcatOptions{}
	}
	return video.ConcatOptions{
		MusicPath:    music.Path,
		MusicVolume:  music.Volume,
		FadeInSec:    r.Eval.Mixer.MusicFadeInSeconds,
		FadeOutSec:   r.Eval.Mixer.MusicFadeOutSeconds,
		TotalSeconds: r.Eval.Timeline.TotalSeconds(),
	}
}

func (r *Renderer) reportStats(frames int, elapsed time.Duration) {
	fps := float64(frames) / elapsed.Seconds()
	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Frames: %d\n"+
			"Total Time: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		r.Cfg.BuildVersion, frames, elapsed.Seconds(), fps,
	)
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Storyboard: %s | Frames: %d | Total: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		r.Cfg.BuildVersion,
		filepath.Base(r.Cfg.StoryboardPath),
		frames,
		elapsed.Seconds(),
		fps,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		log.Printf("[!] Could not write benchmark.log: %v", err)
	}
}

func splitChunks(from, to, size int) []chunk {
	if size <= 0 {
		size = 2500
	}
	var chunks []chunk
	for start := from; start < to; start += size {
		end := start + size
		if end > to {
			end = to
		}
		chunks = append(chunks, chunk{index: len(chunks), from: start, to: end})
	}
	return chunks
}
