package system

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Could not read the open-file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Could not raise the open-file limit: %v", err)
	} else {
		fmt.Printf("[*] Open-file limit raised to %d\n", rLimit.Cur)
	}
}

// RenderWorkers sizes the chunk worker pool from the physical core
// count. Falls back to runtime.NumCPU when the probe fails.
func RenderWorkers() int {
	n, err := cpu.Counts(false)
	if err != nil || n < 1 {
		n = runtime.NumCPU()
	}
	if n < 1 {
		n = 1
	}
	return n
}

// MaxEncodeWorkers caps concurrent ffmpeg processes by available memory:
// each rawvideo pipe buffers a few frames of frameBytes each. The cap
// never exceeds 4, the point past which hardware encoders contend.
func MaxEncodeWorkers(frameBytes int) int {
	limit := 4
	vm, err := mem.VirtualMemory()
	if err != nil || frameBytes <= 0 {
		return limit
	}
	// Budget ~64 frames in flight per worker.
	perWorker := uint64(frameBytes) * 64
	if perWorker == 0 {
		return limit
	}
	byMem := int(vm.Available / perWorker)
	if byMem < 1 {
		byMem = 1
	}
	if byMem < limit {
		limit = byMem
	}
	return limit
}

// FindLatestStoryboard returns the most recently modified storyboard
// document in a directory.
func FindLatestStoryboard(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if !f.IsDir() && strings.HasSuffix(strings.ToLower(f.Name()), ".json") {
			info, err := f.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(latestTime) {
				latestTime = info.ModTime()
				latestFile = filepath.Join(dir, f.Name())
			}
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no storyboard files found in %s", dir)
	}

	return latestFile, nil
}

// GetAudioDuration probes a media file's duration with ffprobe.
func GetAudioDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, err
	}

	var duration float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &duration)
	if err != nil {
		return 0, err
	}

	return duration, nil
}

// GetBestH264Encoder picks the fastest available H.264 encoder:
// VideoToolbox on macOS, NVENC on NVIDIA, libx264 otherwise.
func GetBestH264Encoder() (string, string) {
	encoders := []struct {
		name string
		args string
	}{
		{"h264_videotoolbox", ""},
		{"h264_nvenc", ""},
	}

	for _, enc := range encoders {
		cmd := exec.Command("ffmpeg", "-encoders")
		out, err := cmd.CombinedOutput()
		if err == nil && strings.Contains(string(out), enc.name) {
			return enc.name, enc.args
		}
	}

	return "libx264", ""
}
