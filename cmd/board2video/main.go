package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/board2video/internal/audio"
	"github.com/ivlev/board2video/internal/compose"
	"github.com/ivlev/board2video/internal/config"
	"github.com/ivlev/board2video/internal/render"
	"github.com/ivlev/board2video/internal/scene"
	"github.com/ivlev/board2video/internal/storyboard"
	"github.com/ivlev/board2video/internal/system"
	"github.com/ivlev/board2video/internal/transition"
)

var buildVersion = "dev"

func main() {
	system.InitResourceLimits()

	for _, d := range []string{"input", "output"} {
		os.MkdirAll(d, 0755)
	}

	storyboardPtr := flag.String("storyboard", "", "Path to the storyboard JSON (default: newest .json in input/)")
	outputPtr := flag.String("out", "", "Output video path (default: generated in output/)")
	profilePtr := flag.String("profile", "", "Output profile: 16:9, 9:16, 4:5 or a YAML profile file")
	saveProfilePtr := flag.String("save-profile", "", "Write the effective output profile to a YAML file and exit")
	widthPtr := flag.Int("width", 0, "Width override (0 = storyboard value)")
	heightPtr := flag.Int("height", 0, "Height override (0 = storyboard value)")
	fpsPtr := flag.Int("fps", 0, "FPS override (0 = storyboard value)")
	fromPtr := flag.Int("from", 0, "First frame to render")
	toPtr := flag.Int("to", 0, "Frame to stop before (0 = end of composition)")
	chunkPtr := flag.Int("chunk", 2500, "Frames per render chunk")
	workersPtr := flag.Int("workers", 0, "Parallel chunk workers (0 = auto)")
	encoderPtr := flag.String("encoder", "", "Video encoder (default: best available H.264)")
	qualityPtr := flag.Int("quality", 23, "Video quality (x264: CRF, VideoToolbox: bitrate = Q*100kbit/s)")
	dryRunPtr := flag.Bool("dry-run", false, "Print the scheduled timeline and exit")
	framePtr := flag.Int("frame", -1, "Rasterize a single frame to PNG and exit")
	frameOutPtr := flag.String("frame-out", "frame.png", "Output path for -frame")
	mixPlanPtr := flag.String("mix-plan", "", "Write the per-frame audio levels as JSON lines to this path")
	statsPtr := flag.Bool("stats", false, "Print a performance report")

	flag.Parse()

	cfg := &config.Config{
		StoryboardPath: *storyboardPtr,
		OutputVideo:    *outputPtr,
		Width:          *widthPtr,
		Height:         *heightPtr,
		FPS:            *fpsPtr,
		Workers:        *workersPtr,
		ChunkFrames:    *chunkPtr,
		FromFrame:      *fromPtr,
		ToFrame:        *toPtr,
		VideoEncoder:   *encoderPtr,
		Quality:        *qualityPtr,
		MixPlanPath:    *mixPlanPtr,
		DryRun:         *dryRunPtr,
		SnapshotFrame:  *framePtr,
		SnapshotPath:   *frameOutPtr,
		ShowStats:      *statsPtr,
		BuildVersion:   buildVersion,
	}

	if *profilePtr != "" {
		profile, err := config.ResolveProfile(*profilePtr)
		if err != nil {
			log.Fatalf("[-] Profile error: %v", err)
		}
		profile.Apply(cfg)
		fmt.Printf("[*] Profile applied: %s (%dx%d)\n", profile.Name, profile.Width, profile.Height)
	}

	if cfg.VideoEncoder == "" {
		enc, _ := system.GetBestH264Encoder()
		cfg.VideoEncoder = enc
	}

	if *saveProfilePtr != "" {
		p := config.Profile{
			Name:    strings.TrimSuffix(filepath.Base(*saveProfilePtr), filepath.Ext(*saveProfilePtr)),
			Width:   cfg.Width,
			Height:  cfg.Height,
			FPS:     cfg.FPS,
			Encoder: cfg.VideoEncoder,
			Quality: cfg.Quality,
		}
		if err := config.WriteProfile(p, *saveProfilePtr); err != nil {
			log.Fatalf("[-] Could not save profile: %v", err)
		}
		fmt.Printf("[+] Profile saved: %s\n", *saveProfilePtr)
		return
	}

	if cfg.StoryboardPath == "" {
		latest, err := system.FindLatestStoryboard("input")
		if err != nil {
			log.Fatalf("[-] Error: %v. Put a storyboard JSON in input/", err)
		}
		cfg.StoryboardPath = latest
		fmt.Printf("[*] Storyboard selected: %s\n", cfg.StoryboardPath)
	}

	sb, err := storyboard.Read(cfg.StoryboardPath)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	if cfg.FPS > 0 {
		sb.Video.FPS = cfg.FPS
	}

	registry := scene.NewRegistry(scene.Builtins())
	eval, err := compose.New(sb, registry, audio.NewMixer())
	if err != nil {
		log.Fatalf("[-] Scheduling error: %v", err)
	}

	fmt.Printf("[*] %q: %d scenes, %d frames (%.1fs) @ %d FPS\n",
		sb.Title, len(sb.Scenes), eval.TotalFrames(), eval.Timeline.TotalSeconds(), eval.Timeline.FPS)

	if cfg.DryRun {
		printTimeline(eval)
		return
	}

	if cfg.MixPlanPath != "" {
		if err := render.WriteMixPlan(cfg.MixPlanPath, eval, cfg.FromFrame, cfg.ToFrame); err != nil {
			log.Fatalf("[-] Mix plan error: %v", err)
		}
		if cfg.OutputVideo == "" && cfg.SnapshotFrame < 0 {
			return
		}
	}

	r := render.New(eval, cfg)

	if cfg.SnapshotFrame >= 0 {
		if err := r.Snapshot(cfg.SnapshotFrame, cfg.SnapshotPath); err != nil {
			log.Fatalf("[-] Snapshot error: %v", err)
		}
		fmt.Printf("[+] Frame %d written: %s\n", cfg.SnapshotFrame, cfg.SnapshotPath)
		return
	}

	if cfg.OutputVideo == "" {
		base := strings.TrimSuffix(filepath.Base(cfg.StoryboardPath), filepath.Ext(cfg.StoryboardPath))
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		cfg.OutputVideo = filepath.Join("output", fmt.Sprintf("%s_%s.mp4", base, timestamp))
	}

	if err := r.Run(context.Background()); err != nil {
		log.Fatalf("[-] Render error: %v", err)
	}
	fmt.Printf("[+++] Done! Video saved: %s\n", cfg.OutputVideo)
}

func printTimeline(eval *compose.Evaluator) {
	fmt.Println("--- [TIMELINE] ---")
	for i := range eval.Timeline.Scenes {
		sc := &eval.Timeline.Scenes[i]
		fmt.Printf("%3d  %-28s %-24s frames %6d..%-6d (%.2fs)  %s\n",
			sc.Index, sc.Scene.ID, sc.Scene.Type,
			sc.StartFrame, sc.EndFrame(), sc.DurationSeconds,
			transition.Assign(sc.Index))
	}
	fmt.Printf("Total: %d frames (%.2fs)\n", eval.TotalFrames(), eval.Timeline.TotalSeconds())
}
