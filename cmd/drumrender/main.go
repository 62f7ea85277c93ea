package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/olivierh59500/drumsynth/pkg/audio"
	"github.com/olivierh59500/drumsynth/pkg/catalog"
	"github.com/olivierh59500/drumsynth/pkg/dat"
	"github.com/olivierh59500/drumsynth/pkg/drumsynth"
)

var (
	outDir     = flag.String("out", "out", "Output directory")
	sampleRate = flag.Int("rate", drumsynth.DefaultSampleRate, "Sample rate (Hz)")
	seconds    = flag.Int("seconds", drumsynth.DefaultSeconds, "Render length per drum (seconds)")
	bits       = flag.Int("bits", 8, "WAV bits per sample (8 or 16)")
	seed       = flag.Int64("seed", 0, "Noise/dither seed (0 = unseeded)")
	interp     = flag.String("interp", "linear", "Bass interpolation (linear, spline)")
	writeDat   = flag.Bool("dat", true, "Write .dat voice records")
	writeWav   = flag.Bool("wav", true, "Write .wav renders")
	kit        = flag.String("kit", "", "Kit directory of .dat files or .json manifest (default built-in)")
	drumGlob   = flag.String("drum", "*", "Only drums matching this pattern")
	list       = flag.Bool("list", false, "List drums and exit")
	play       = flag.Bool("play", false, "Audition each drum after rendering")
	volume     = flag.Float64("volume", 1.0, "Playback gain")
	manifest   = flag.String("manifest", "", "Write the selected kit as a JSON manifest")
)

// config is the validated flag set
type config struct {
	sampleRate int
	blocks     int
	bits       int
	interp     drumsynth.Interpolation
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Drum Render - rebuild drum voices to WAV and DAT files\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	cfg, err := newConfig()
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	kitCat, err := loadKit(*kit)
	if err != nil {
		log.Fatalf("Failed to load kit: %v", err)
	}

	kitCat, err = kitCat.Filter(*drumGlob)
	if err != nil {
		log.Fatalf("Bad drum pattern: %v", err)
	}
	if kitCat.Size() == 0 {
		log.Fatalf("No drum matches %q", *drumGlob)
	}

	if *list {
		printKit(kitCat)
		return
	}

	if *manifest != "" {
		if err := kitCat.Save(*manifest); err != nil {
			log.Fatalf("Failed to write manifest: %v", err)
		}
		fmt.Printf("Wrote manifest %s\n", *manifest)
	}

	if *writeDat || *writeWav {
		if err := os.MkdirAll(*outDir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	src := byteSource(*seed)

	fmt.Printf("Rendering %d drum(s) at %d Hz, %d blocks each (%s)\n\n",
		kitCat.Size(), cfg.sampleRate, cfg.blocks, cfg.interp)

	for _, e := range kitCat.Entries {
		samples := drumsynth.RenderDrumWith(e.Drum, cfg.blocks, src, cfg.interp)

		if err := writeEntry(*outDir, e, samples, cfg); err != nil {
			log.Fatalf("Failed to write %s: %v", e.Name, err)
		}
		fmt.Printf("  %-12s %s\n", e.Name, describe(e.Drum, cfg.sampleRate))

		if *play {
			if !audition(e.Name, samples, cfg.sampleRate) {
				return
			}
		}
	}

	fmt.Printf("\nDone.\n")
}

func newConfig() (config, error) {
	if *sampleRate <= 0 {
		return config{}, fmt.Errorf("rate must be positive")
	}
	if *seconds <= 0 {
		return config{}, fmt.Errorf("seconds must be positive")
	}
	if *bits != 8 && *bits != 16 {
		return config{}, audio.ErrBitsPerSample
	}
	mode, err := drumsynth.ParseInterpolation(*interp)
	if err != nil {
		return config{}, err
	}
	return config{
		sampleRate: *sampleRate,
		blocks:     drumsynth.BlocksFor(*sampleRate, *seconds),
		bits:       *bits,
		interp:     mode,
	}, nil
}

func loadKit(p string) (*catalog.Catalog, error) {
	if p == "" {
		return catalog.Builtin(), nil
	}
	return catalog.Load(p)
}

func byteSource(seed int64) drumsynth.ByteSource {
	if seed == 0 {
		return drumsynth.GlobalSource()
	}
	return drumsynth.NewRandSource(seed)
}

func writeEntry(dir string, e catalog.Entry, samples []int16, cfg config) error {
	base := filepath.Join(dir, e.Name)
	if *writeWav {
		if err := audio.WriteWAVFile(base+".wav", samples, cfg.sampleRate, cfg.bits); err != nil {
			return err
		}
	}
	if *writeDat {
		if err := dat.WriteFile(base+dat.Ext, e.Drum); err != nil {
			return err
		}
	}
	return nil
}

func printKit(c *catalog.Catalog) {
	fmt.Printf("Kit: %s (%d drums)\n\n", c.Name, c.Size())
	for i, e := range c.Entries {
		fmt.Printf("%3d  %-12s %s\n", i+1, e.Name, describe(e.Drum, *sampleRate))
	}
}

// describe summarizes the audible length of each layer
func describe(d drumsynth.Drum, rate int) string {
	var parts []string

	if d.Bass.Empty() {
		parts = append(parts, "bass: -")
	} else {
		blocks := 4 * int(d.Bass.Len)
		parts = append(parts, fmt.Sprintf("bass: %d bytes %s", d.Bass.Len, formatDuration(blocks, rate)))
	}

	switch n := d.Treble.Blocks(); {
	case n < 0:
		parts = append(parts, "treble: sustained")
	case n == 0:
		parts = append(parts, "treble: -")
	default:
		parts = append(parts, "treble: "+formatDuration(n, rate))
	}

	return strings.Join(parts, ", ")
}

func formatDuration(blocks, rate int) string {
	ms := blocks * drumsynth.BlockSize * 1000 / rate
	return fmt.Sprintf("%d.%03ds", ms/1000, ms%1000)
}

// audition plays one render and reports false if interrupted
func audition(name string, samples []int16, rate int) bool {
	out, err := audio.NewOutput("oto", "", 16)
	if err != nil {
		log.Printf("Audio output error: %v", err)
		return true
	}

	player := audio.NewPlayer(audio.NewClipSource(samples), out)
	player.SetVolume(*volume)
	if err := player.Start(rate, 1024); err != nil {
		log.Printf("Failed to start playback: %v", err)
		return true
	}
	if audio.UsingFallback(out) {
		fmt.Printf("Warning: no audio device, playing silently\n")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	done := make(chan struct{})
	go func() {
		player.Wait()
		close(done)
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	total := len(samples) * 1000 / rate
	start := time.Now()
	for {
		select {
		case <-sigChan:
			fmt.Printf("\n\nStopping...\n")
			player.Stop()
			return false
		case <-done:
			fmt.Printf("\r%s\r", strings.Repeat(" ", 60))
			return true
		case <-ticker.C:
			pos := int(time.Since(start).Milliseconds())
			if pos > total {
				pos = total
			}
			percent := float64(pos) / float64(total) * 100
			fmt.Printf("\r  > %-10s [%s] %.1f%%", name, makeProgressBar(percent, 30), percent)
		}
	}
}

func makeProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("=", filled)
	if filled < width {
		bar += ">"
		bar += strings.Repeat(" ", width-filled-1)
	}

	return bar
}
