package config

type Config struct {
	StoryboardPath string
	OutputVideo    string
	Width          int // 0 = take from storyboard
	Height         int
	FPS            int
	Workers        int
	ChunkFrames    int
	FromFrame      int
	ToFrame        int // 0 = render to the end
	VideoEncoder   string
	Quality        int
	MixPlanPath    string
	DryRun         bool
	SnapshotFrame  int // -1 = disabled
	SnapshotPath   string
	ShowStats      bool
	BuildVersion   string
}
