//go:build gui
// +build gui

package main

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/olivierh59500/drumsynth/pkg/audio"
	"github.com/olivierh59500/drumsynth/pkg/catalog"
	"github.com/olivierh59500/drumsynth/pkg/dat"
	"github.com/olivierh59500/drumsynth/pkg/drumsynth"
)

type DrumPadGUI struct {
	app    fyne.App
	window fyne.Window

	// Kit
	kit      *catalog.Catalog
	view     *catalog.Catalog
	pattern  string
	selected int

	// Playback
	player    *audio.Player
	output    audio.Output
	playing   bool
	startedAt time.Time
	clipMs    uint32
	mutex     sync.Mutex

	settings   Settings
	bufferSize int

	// UI Elements
	nameLabel    *widget.Label
	bassLabel    *widget.Label
	trebleLabel  *widget.Label
	filterLabel  *widget.Label
	timeLabel    *widget.Label
	progressBar  *widget.ProgressBar
	volumeSlider *widget.Slider
	playButton   *widget.Button
	stopButton   *widget.Button
	splineCheck  *widget.Check
	seedEntry    *widget.Entry
	rateSelect   *widget.Select
	bitsSelect   *widget.Select
	statusLabel  *widget.Label
	kitLabel     *widget.Label
	kitList      *widget.List
	filterEntry  *widget.Entry
	pads         *fyne.Container

	ticker *time.Ticker
	done   chan bool
}

// Custom theme with better colors for dark/light mode
type padTheme struct{}

func (m padTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if variant == theme.VariantLight {
		switch name {
		case theme.ColorNameBackground:
			return color.NRGBA{248, 246, 242, 255}
		case theme.ColorNameButton:
			return color.NRGBA{232, 228, 220, 255}
		case theme.ColorNamePrimary:
			return color.NRGBA{230, 120, 30, 255}
		}
	} else {
		switch name {
		case theme.ColorNameBackground:
			return color.NRGBA{28, 26, 24, 255}
		case theme.ColorNameButton:
			return color.NRGBA{56, 50, 44, 255}
		case theme.ColorNamePrimary:
			return color.NRGBA{255, 150, 50, 255}
		}
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (m padTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (m padTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (m padTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNamePadding {
		return 6
	}
	return theme.DefaultTheme().Size(name)
}

func NewDrumPadGUI() *DrumPadGUI {
	kit := catalog.Builtin()
	p := &DrumPadGUI{
		app:        app.New(),
		kit:        kit,
		view:       kit,
		pattern:    "*",
		selected:   -1,
		settings:   defaultSettings(),
		bufferSize: 1024,
		done:       make(chan bool),
	}

	p.app.Settings().SetTheme(&padTheme{})
	p.createUI()

	return p
}

func (p *DrumPadGUI) createUI() {
	p.window = p.app.NewWindow("Drum Pad")
	p.window.Resize(fyne.NewSize(900, 600))

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Kit Folder...", p.openKitFolder),
		fyne.NewMenuItem("Open Kit File...", p.openKitFile),
		fyne.NewMenuItem("Built-in Kit", p.useBuiltin),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Kit Manifest...", p.saveManifest),
		fyne.NewMenuItem("Export Kit to Folder...", p.exportKit),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Drum to WAV...", p.exportWAV),
		fyne.NewMenuItem("Export Drum to DAT...", p.exportDAT),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", p.app.Quit),
	)

	kitMenu := fyne.NewMenu("Kit",
		fyne.NewMenuItem("Sort by Name", func() { p.sortKit(catalog.SortByName) }),
		fyne.NewMenuItem("Sort by Length", func() { p.sortKit(catalog.SortByLength) }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", p.showAbout),
	)

	p.window.SetMainMenu(fyne.NewMainMenu(fileMenu, kitMenu, helpMenu))

	split := container.NewHSplit(p.createMainContent(), p.createKitContent())
	split.SetOffset(0.6)

	p.window.SetContent(split)
	p.window.SetOnClosed(p.cleanup)

	p.refreshKit()
	p.startUpdateTicker()
}

func (p *DrumPadGUI) createMainContent() fyne.CanvasObject {
	p.nameLabel = widget.NewLabel("No drum selected")
	p.nameLabel.TextStyle = fyne.TextStyle{Bold: true}
	p.bassLabel = widget.NewLabel("")
	p.trebleLabel = widget.NewLabel("")
	p.filterLabel = widget.NewLabel("")

	infoCard := widget.NewCard("Drum", "", container.NewVBox(
		p.nameLabel,
		p.bassLabel,
		p.trebleLabel,
		p.filterLabel,
	))

	p.timeLabel = widget.NewLabel(formatTime(0))
	p.timeLabel.Alignment = fyne.TextAlignCenter
	p.progressBar = widget.NewProgressBar()

	p.playButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() { p.play(p.selected) })
	p.stopButton = widget.NewButtonWithIcon("", theme.MediaStopIcon(), p.stop)
	p.playButton.Disable()
	p.stopButton.Disable()

	buttons := container.NewHBox(layout.NewSpacer(), p.playButton, p.stopButton, layout.NewSpacer())

	p.volumeSlider = widget.NewSlider(0, 2)
	p.volumeSlider.Value = 1.0
	p.volumeSlider.Step = 0.01
	volumeLabel := widget.NewLabel("100%")
	p.volumeSlider.OnChanged = func(value float64) {
		p.mutex.Lock()
		p.settings.Volume = value
		if p.player != nil {
			p.player.SetVolume(value)
		}
		p.mutex.Unlock()
		volumeLabel.SetText(fmt.Sprintf("%.0f%%", value*100))
	}

	volume := container.NewBorder(
		nil, nil,
		container.NewHBox(widget.NewIcon(theme.VolumeUpIcon()), widget.NewLabel("Volume:")),
		volumeLabel,
		p.volumeSlider,
	)

	p.splineCheck = widget.NewCheck("Spline bass", func(checked bool) {
		p.mutex.Lock()
		if checked {
			p.settings.Interpolation = drumsynth.Spline
		} else {
			p.settings.Interpolation = drumsynth.Linear
		}
		p.mutex.Unlock()
	})

	p.seedEntry = widget.NewEntry()
	p.seedEntry.SetPlaceHolder("seed (0 = random)")
	p.seedEntry.OnChanged = func(text string) {
		seed, err := parseSeed(text)
		if err != nil {
			p.statusLabel.SetText(err.Error())
			return
		}
		p.mutex.Lock()
		p.settings.Seed = seed
		p.mutex.Unlock()
		p.statusLabel.SetText("Ready")
	}

	p.rateSelect = widget.NewSelect([]string{"11025", "22050", "44100"}, func(value string) {
		rate, err := parseRate(value)
		if err != nil {
			return
		}
		p.mutex.Lock()
		p.settings.SampleRate = rate
		p.mutex.Unlock()
		p.showDrum()
	})
	p.rateSelect.SetSelected(fmt.Sprint(p.settings.SampleRate))

	p.bitsSelect = widget.NewSelect([]string{"8", "16"}, func(value string) {
		p.mutex.Lock()
		if value == "8" {
			p.settings.BitsPerSample = 8
		} else {
			p.settings.BitsPerSample = 16
		}
		p.mutex.Unlock()
	})
	p.bitsSelect.SetSelected(fmt.Sprint(p.settings.BitsPerSample))

	options := container.NewGridWithColumns(2,
		p.splineCheck, p.seedEntry,
		container.NewBorder(nil, nil, widget.NewLabel("Rate:"), nil, p.rateSelect),
		container.NewBorder(nil, nil, widget.NewLabel("WAV bits:"), nil, p.bitsSelect),
	)

	p.pads = container.NewGridWithColumns(4)

	p.statusLabel = widget.NewLabel("Ready")
	statusBar := container.NewBorder(widget.NewSeparator(), nil, nil, p.statusLabel, nil)

	content := container.NewVBox(
		infoCard,
		p.progressBar,
		p.timeLabel,
		buttons,
		widget.NewSeparator(),
		volume,
		options,
		widget.NewCard("Pads", "", p.pads),
		layout.NewSpacer(),
		statusBar,
	)

	return container.NewPadded(content)
}

func (p *DrumPadGUI) createKitContent() fyne.CanvasObject {
	p.kitLabel = widget.NewLabel("")
	p.kitLabel.TextStyle = fyne.TextStyle{Bold: true}

	p.kitList = widget.NewList(
		func() int {
			return p.view.Size()
		},
		func() fyne.CanvasObject {
			name := widget.NewLabel("")
			name.Truncation = fyne.TextTruncateEllipsis
			length := widget.NewLabel("")
			return container.NewBorder(nil, nil, nil, length, name)
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			box := item.(*fyne.Container)
			nameLabel := box.Objects[0].(*widget.Label)
			lengthLabel := box.Objects[1].(*widget.Label)

			e, err := p.view.Get(id)
			if err != nil {
				return
			}
			nameLabel.SetText(e.Name)
			lengthLabel.SetText(fmt.Sprintf("%d B", e.Drum.Bass.Len))
		},
	)

	p.kitList.OnSelected = func(id widget.ListItemID) {
		p.selected = id
		p.showDrum()
	}

	p.filterEntry = widget.NewEntry()
	p.filterEntry.SetPlaceHolder("filter, e.g. tom_*")
	p.filterEntry.OnChanged = func(text string) {
		if text == "" {
			text = "*"
		}
		p.pattern = text
		p.refreshKit()
	}

	openButton := widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), p.openKitFolder)
	saveButton := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), p.saveManifest)

	return widget.NewCard("", "", container.NewBorder(
		container.NewVBox(p.kitLabel, p.filterEntry, widget.NewSeparator()),
		container.NewHBox(openButton, saveButton),
		nil, nil,
		container.NewScroll(p.kitList),
	))
}

// refreshKit reapplies the filter and rebuilds the list and pads
func (p *DrumPadGUI) refreshKit() {
	view, err := p.kit.Filter(p.pattern)
	if err != nil {
		p.statusLabel.SetText(fmt.Sprintf("Bad filter: %v", err))
		return
	}
	p.view = view
	p.selected = -1
	p.kitList.UnselectAll()

	p.kitLabel.SetText(fmt.Sprintf("%s (%d of %d drums)", p.kit.Name, p.view.Size(), p.kit.Size()))

	p.pads.Objects = nil
	for i, e := range p.view.Entries {
		index := i
		p.pads.Add(widget.NewButton(e.Name, func() {
			p.kitList.Select(index)
			p.play(index)
		}))
	}
	p.pads.Refresh()
	p.kitList.Refresh()
	p.showDrum()
}

func (p *DrumPadGUI) showDrum() {
	if p.nameLabel == nil {
		return
	}

	e, err := p.view.Get(p.selected)
	if err != nil {
		p.nameLabel.SetText("No drum selected")
		p.bassLabel.SetText("")
		p.trebleLabel.SetText("")
		p.filterLabel.SetText("")
		p.playButton.Disable()
		return
	}

	p.mutex.Lock()
	rate := p.settings.SampleRate
	p.mutex.Unlock()

	info := describeDrum(e.Drum, rate)
	p.nameLabel.SetText(e.Name)
	p.bassLabel.SetText(info.Bass)
	p.trebleLabel.SetText(info.Treble)
	p.filterLabel.SetText(info.Filter)
	p.playButton.Enable()
}

func (p *DrumPadGUI) currentSettings() Settings {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.settings
}

func (p *DrumPadGUI) play(index int) {
	e, err := p.view.Get(index)
	if err != nil {
		return
	}

	p.stop()

	s := p.currentSettings()
	requested := s.SampleRate
	s = s.ForDevice(audio.DeviceRate())
	samples := s.Render(e.Drum)

	out, err := audio.NewOutput("oto", "", 16)
	if err != nil {
		dialog.ShowError(err, p.window)
		return
	}

	player := audio.NewPlayer(audio.NewClipSource(samples), out)
	player.SetVolume(s.Volume)
	if err := player.Start(s.SampleRate, p.bufferSize); err != nil {
		dialog.ShowError(err, p.window)
		return
	}

	p.mutex.Lock()
	p.player = player
	p.output = out
	p.playing = true
	p.startedAt = time.Now()
	p.clipMs = s.DurationMs()
	p.mutex.Unlock()

	status := "Playing " + e.Name
	if audio.UsingFallback(out) {
		status += " (no audio device)"
	} else if s.SampleRate != requested {
		status += fmt.Sprintf(" at %d Hz (device rate)", s.SampleRate)
	}
	p.statusLabel.SetText(status)
	p.stopButton.Enable()

	go func() {
		player.Wait()
		p.mutex.Lock()
		if p.player == player {
			p.playing = false
		}
		p.mutex.Unlock()
	}()
}

func (p *DrumPadGUI) stop() {
	p.mutex.Lock()
	player := p.player
	p.player = nil
	p.output = nil
	p.playing = false
	p.mutex.Unlock()

	if player != nil {
		player.Stop()
	}

	p.progressBar.SetValue(0)
	p.timeLabel.SetText(formatTime(0))
	p.stopButton.Disable()
}

func (p *DrumPadGUI) startUpdateTicker() {
	p.ticker = time.NewTicker(100 * time.Millisecond)

	go func() {
		for {
			select {
			case <-p.ticker.C:
				p.updateProgress()
			case <-p.done:
				return
			}
		}
	}()
}

func (p *DrumPadGUI) updateProgress() {
	p.mutex.Lock()
	playing := p.playing
	hasPlayer := p.player != nil
	elapsed := uint32(time.Since(p.startedAt).Milliseconds())
	total := p.clipMs
	p.mutex.Unlock()

	if !hasPlayer {
		return
	}
	if !playing || elapsed > total {
		elapsed = total
	}

	fyne.Do(func() {
		if total > 0 {
			p.progressBar.SetValue(float64(elapsed) / float64(total))
		}
		p.timeLabel.SetText(fmt.Sprintf("%s / %s", formatTime(elapsed), formatTime(total)))
		if !playing {
			p.statusLabel.SetText("Ready")
			p.stopButton.Disable()
		}
	})
}

func (p *DrumPadGUI) loadKitPath(path string) error {
	kit, err := catalog.Load(path)
	if err != nil {
		return err
	}
	p.setKit(kit)
	return nil
}

func (p *DrumPadGUI) setKit(kit *catalog.Catalog) {
	p.stop()
	p.kit = kit
	p.refreshKit()
	p.statusLabel.SetText(fmt.Sprintf("Loaded %d drums", kit.Size()))
}

func (p *DrumPadGUI) useBuiltin() {
	p.setKit(catalog.Builtin())
}

func (p *DrumPadGUI) openKitFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		if err := p.loadKitPath(uri.Path()); err != nil {
			dialog.ShowError(err, p.window)
		}
	}, p.window)
}

func (p *DrumPadGUI) openKitFile() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()

		if err := p.loadKitPath(reader.URI().Path()); err != nil {
			dialog.ShowError(err, p.window)
		}
	}, p.window)
}

func (p *DrumPadGUI) sortKit(by catalog.SortBy) {
	p.kit.Sort(by)
	p.refreshKit()
}

func (p *DrumPadGUI) saveManifest() {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()

		path := writer.URI().Path()
		if !strings.HasSuffix(path, ".json") {
			path += ".json"
		}

		if err := p.kit.Save(path); err != nil {
			dialog.ShowError(err, p.window)
		} else {
			dialog.ShowInformation("Success", "Kit manifest saved", p.window)
		}
	}, p.window)
}

func (p *DrumPadGUI) exportKit() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}

		dir := uri.Path()
		s := p.currentSettings()
		view := p.view

		progress := dialog.NewProgressInfinite("Exporting kit", "Rendering...", p.window)
		progress.Show()

		go func() {
			err := view.WriteDir(dir)
			for _, e := range view.Entries {
				if err != nil {
					break
				}
				err = audio.WriteWAVFile(filepath.Join(dir, e.Name+".wav"), s.Render(e.Drum), s.SampleRate, s.BitsPerSample)
			}

			fyne.Do(func() {
				progress.Hide()
				if err != nil {
					dialog.ShowError(err, p.window)
					return
				}
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("Exported %d drums to %s", view.Size(), dir), p.window)
			})
		}()
	}, p.window)
}

func (p *DrumPadGUI) selectedEntry() (catalog.Entry, bool) {
	e, err := p.view.Get(p.selected)
	if err != nil {
		dialog.ShowInformation("No drum selected", "Please select a drum first", p.window)
		return catalog.Entry{}, false
	}
	return e, true
}

func (p *DrumPadGUI) exportWAV() {
	e, ok := p.selectedEntry()
	if !ok {
		return
	}

	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()

		s := p.currentSettings()
		if err := audio.WriteWAVFile(writer.URI().Path(), s.Render(e.Drum), s.SampleRate, s.BitsPerSample); err != nil {
			dialog.ShowError(err, p.window)
			return
		}
		dialog.ShowInformation("Export Complete", "WAV file exported successfully", p.window)
	}, p.window)
	save.SetFileName(e.Name + ".wav")
	save.Show()
}

func (p *DrumPadGUI) exportDAT() {
	e, ok := p.selectedEntry()
	if !ok {
		return
	}

	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		if err := dat.Encode(writer, e.Drum); err != nil {
			dialog.ShowError(err, p.window)
			return
		}
		log.Printf("Wrote %s", writer.URI().Path())
	}, p.window)
	save.SetFileName(e.Name + dat.Ext)
	save.Show()
}

func (p *DrumPadGUI) showAbout() {
	about := container.NewVBox(
		widget.NewLabelWithStyle("Drum Pad", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabel(""),
		widget.NewLabel("Two-layer drum synthesizer"),
		widget.NewLabel("Adaptive delta bass with dithered interpolation"),
		widget.NewLabel("Filtered noise treble with linear decay"),
		widget.NewLabel(""),
		widget.NewLabel("Kits: .dat folders or .json manifests"),
		widget.NewLabel("Export: WAV (8/16 bit) and DAT"),
	)

	dialog.ShowCustom("About Drum Pad", "OK", about, p.window)
}

func (p *DrumPadGUI) cleanup() {
	if p.ticker != nil {
		p.ticker.Stop()
		close(p.done)
	}

	p.mutex.Lock()
	player := p.player
	p.player = nil
	p.mutex.Unlock()

	if player != nil {
		player.Stop()
	}
}

func (p *DrumPadGUI) Run() {
	p.window.ShowAndRun()
}
