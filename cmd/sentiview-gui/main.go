package main

import (
	"context"
	"fmt"
	"image/color"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/sentiview/internal/auth"
	"github.com/oukeidos/sentiview/internal/jobslot"
	"github.com/oukeidos/sentiview/internal/logger"
	"github.com/oukeidos/sentiview/internal/pipeline"
	"github.com/oukeidos/sentiview/internal/sentiment"
)

const windowTitle = "Sentiment Analysis Tool"

// variantTheme pins the default theme to one variant regardless of the OS setting.
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (t variantTheme) Color(n fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(n, t.variant)
}

func themeFor(dark bool) fyne.Theme {
	v := theme.VariantLight
	if dark {
		v = theme.VariantDark
	}
	return variantTheme{Theme: theme.DefaultTheme(), variant: v}
}

type guiApp struct {
	window fyne.Window
	config AppConfig
	jobs   jobslot.Slot
	dark   bool

	// Widgets
	input        *widget.Entry
	results      *widget.Entry
	summary      *widget.Label
	status       *widget.Label
	progress     *widget.ProgressBar
	analyzeBtn   *widget.Button
	chartBox     *fyne.Container
	cloudBox     *fyne.Container
	settingsWin  fyne.Window
	lastReport   *sentiment.Report
	settingsKeys map[string]*widget.Entry
	keyStatus    map[string]*widget.Label

	// Seams; tests replace them with synchronous versions.
	spawn       func(scope string, fn func())
	dispatch    func(scope string, fn func())
	runAnalysis func(ctx context.Context, cfg pipeline.Config, text string, onProgress func(sentiment.Progress)) (sentiment.Report, error)
	render      func(report sentiment.Report, dark bool) visuals
	lookupKey   func(service string) string
	notify      func(title, message string)
	pickSave    func(onChosen func(fyne.URIWriteCloser, error))
	pickOpen    func(onChosen func(fyne.URIReadCloser, error))
}

func newGuiApp(w fyne.Window) *guiApp {
	a := &guiApp{window: w}
	a.spawn = a.safeGo
	a.dispatch = a.safeDo
	a.runAnalysis = pipeline.Run
	a.render = renderVisuals
	a.lookupKey = func(service string) string {
		key, _ := auth.GetKey(service, false)
		return key
	}
	a.notify = func(title, message string) {
		dialog.ShowInformation(title, message, a.window)
	}
	a.pickSave = a.showSaveDialog
	a.pickOpen = a.showOpenDialog
	a.loadConfig()
	a.setupUI()
	return a
}

func (a *guiApp) setupUI() {
	a.input = widget.NewMultiLineEntry()
	a.input.SetPlaceHolder("Enter one sentence per line...")
	a.input.Wrapping = fyne.TextWrapWord
	a.input.SetMinRowsVisible(8)

	a.results = widget.NewMultiLineEntry()
	a.results.Wrapping = fyne.TextWrapWord
	a.results.SetMinRowsVisible(8)

	a.summary = widget.NewLabelWithStyle(sentiment.DefaultSummary, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	a.status = widget.NewLabel("")
	a.progress = widget.NewProgressBar()
	a.progress.Hide()

	a.analyzeBtn = widget.NewButtonWithIcon("Analyze", theme.MediaPlayIcon(), a.onAnalyze)
	buttons := container.NewHBox(
		a.analyzeBtn,
		widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), a.onClear),
		widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), a.onSave),
		widget.NewButtonWithIcon("Toggle Theme", theme.ColorPaletteIcon(), a.onToggleTheme),
		layout.NewSpacer(),
		widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), a.onOpen),
		widget.NewButtonWithIcon("", theme.SettingsIcon(), a.showSettingsWindow),
	)

	a.chartBox = container.NewStack()
	a.cloudBox = container.NewStack()

	left := container.NewBorder(
		widget.NewLabelWithStyle("Input", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		a.input,
	)
	right := container.NewBorder(
		widget.NewLabelWithStyle("Results", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		a.results,
	)
	texts := container.NewGridWithColumns(2, left, right)
	visuals := container.NewGridWithColumns(2, a.chartBox, a.cloudBox)

	top := container.NewVBox(buttons, a.summary, container.NewBorder(nil, nil, nil, a.status, a.progress))
	body := container.NewVSplit(texts, visuals)
	body.SetOffset(0.45)

	a.window.SetContent(container.NewPadded(container.NewBorder(top, nil, nil, nil, body)))
}

// imageObject wraps a rendered chart for display.
func imageObject(img *canvas.Image, w, h int) fyne.CanvasObject {
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleSmooth
	img.SetMinSize(fyne.NewSize(float32(w)/2, float32(h)/2))
	return img
}

func main() {
	logger.Init(logger.LevelInfo, nil)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unrecovered GUI panic", "scope", "main", "panic", fmt.Sprint(r))
			os.Exit(1)
		}
	}()

	myApp := app.NewWithID("io.github.oukeidos.sentiview")
	myApp.Settings().SetTheme(themeFor(false))

	w := myApp.NewWindow(windowTitle)
	w.SetMaster()
	w.Resize(fyne.NewSize(1100, 800))
	w.CenterOnScreen()

	ga := newGuiApp(w)
	w.SetCloseIntercept(func() {
		ga.jobs.Cancel("window closed")
		w.SetCloseIntercept(nil)
		w.Close()
	})
	w.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		if len(uris) > 0 {
			ga.loadInput(uris[0])
		}
	})

	w.ShowAndRun()
}
