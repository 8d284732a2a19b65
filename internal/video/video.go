package video

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// Encoder turns rasterized frame streams into video segments and joins
// segments into the final file.
type Encoder interface {
	EncodeChunk(ctx context.Context, chunkPath string, width, height, fps int, frames func(w io.Writer) error) error
	Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string, opts ConcatOptions) error
}

// ConcatOptions controls final assembly.
type ConcatOptions struct {
	// MusicPath, when set, is looped under the video with the fade
	// envelope the mixer computed. Per-frame mixing of voiceover and
	// cues stays with the host; this only bakes in the score.
	MusicPath    string
	MusicVolume  float64
	FadeInSec    float64
	FadeOutSec   float64
	TotalSeconds float64
}

type FFmpegEncoder struct {
	EncoderName string
	Quality     int
}

// EncodeChunk starts one ffmpeg process reading raw RGBA frames from
// stdin and writes the chunk segment. frames must write exactly
// width*height*4 bytes per frame and return when the chunk is done.
func (e *FFmpegEncoder) EncodeChunk(ctx context.Context, chunkPath string, width, height, fps int, frames func(w io.Writer) error) error {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", "-",
		"-r", fmt.Sprintf("%d", fps),
		"-pix_fmt", "yuv420p",
		"-c:v", e.EncoderName,
	}
	args = append(args, e.qualityArgs()...)
	args = append(args, chunkPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	if err := frames(stdin); err != nil {
		stdin.Close()
		cmd.Wait()
		return fmt.Errorf("write frames error: %w", err)
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w", err)
	}

	return nil
}

func (e *FFmpegEncoder) qualityArgs() []string {
	switch e.EncoderName {
	case "h264_videotoolbox":
		// VideoToolbox does not take -q:v on all versions; use bitrate.
		bitrate := e.Quality * 100
		return []string{"-b:v", fmt.Sprintf("%dk", bitrate)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", e.Quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", e.Quality), "-preset", "medium"}
	}
}

// WriteRawRGBA streams one frame's pixels. Non-RGBA or offset images are
// converted first.
func WriteRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(bounds)
		draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}

// Concatenate joins chunk segments in order. Without music this is a
// lossless concat; with music the looped score is mixed in with the
// composition's fade envelope.
func (e *FFmpegEncoder) Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string, opts ConcatOptions) error {
	concatFilePath := filepath.Join(tmpDir, "inputs.txt")
	f, err := os.Create(concatFilePath)
	if err != nil {
		return err
	}
	for _, p := range segmentPaths {
		absPath, _ := filepath.Abs(p)
		fmt.Fprintf(f, "file '%s'\n", absPath)
	}
	f.Close()

	if opts.MusicPath == "" {
		cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
			"-f", "concat", "-safe", "0", "-i", concatFilePath,
			"-c", "copy", finalPath,
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("ffmpeg concat error: %v, output: %s", err, string(out))
		}
		return nil
	}

	fadeIn := opts.FadeInSec
	fadeOut := opts.FadeOutSec
	total := opts.TotalSeconds
	if total > 0 && total < fadeIn+fadeOut {
		// Degenerate short composition: shrink the windows rather than
		// letting the envelopes cross.
		fadeIn = total * 0.2
		fadeOut = total * 0.3
	}

	volExpr := fmt.Sprintf("volume='%f*(if(lte(t,%f), t/%f, if(gte(t,%f), (%f-t)/%f, 1.0)))':eval=frame",
		opts.MusicVolume, fadeIn, fadeIn, total-fadeOut, total, fadeOut)

	args := []string{
		"-y",
		"-f", "concat", "-safe", "0", "-i", concatFilePath,
		"-stream_loop", "-1", "-i", opts.MusicPath,
		"-filter_complex", fmt.Sprintf("[1:a]%s[aout]", volExpr),
		"-map", "0:v", "-map", "[aout]",
		"-shortest",
		"-c:v", "copy",
		"-c:a", "aac", "-b:a", "192k",
		finalPath,
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg mux error: %v, output: %s", err, string(out))
	}
	return nil
}
