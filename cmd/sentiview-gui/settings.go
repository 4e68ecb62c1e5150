package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/sentiview/internal/auth"
	"github.com/oukeidos/sentiview/internal/logger"
	"github.com/oukeidos/sentiview/internal/metadata"
	"github.com/oukeidos/sentiview/internal/pipeline"
)

type fixedWidthEntry struct {
	widget.Entry
	width float32
}

func newFixedWidthEntry(width float32) *fixedWidthEntry {
	e := &fixedWidthEntry{width: width}
	e.ExtendBaseWidget(e)
	return e
}

func (e *fixedWidthEntry) MinSize() fyne.Size {
	size := e.Entry.MinSize()
	size.Width = e.width
	return size
}

func (a *guiApp) showSettingsWindow() {
	if a.settingsWin != nil {
		a.settingsWin.RequestFocus()
		return
	}
	w := fyne.CurrentApp().NewWindow("Settings")
	a.settingsWin = w
	w.SetOnClosed(func() {
		a.settingsWin = nil
		a.settingsKeys = nil
		a.keyStatus = nil
	})

	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("Backend", theme.ComputerIcon(), a.buildBackendTab(w)),
		container.NewTabItemWithIcon("Keys", theme.StorageIcon(), a.buildKeysTab(w)),
		container.NewTabItemWithIcon("About", theme.InfoIcon(), buildAboutTab()),
	)
	w.SetContent(tabs)
	w.Resize(fyne.NewSize(560, 420))
	w.CenterOnScreen()
	w.Show()
}

func (a *guiApp) buildBackendTab(w fyne.Window) fyne.CanvasObject {
	modelSelect := widget.NewSelect(metadata.ModelIDs(a.config.Backend), func(s string) {
		if s == "" || s == a.config.Model {
			return
		}
		a.config.Model = s
		a.saveConfig()
	})
	modelSelect.SetSelected(a.config.Model)

	hostEntry := widget.NewEntry()
	hostEntry.SetText(a.config.OllamaHost)
	hostEntry.OnChanged = func(s string) {
		a.config.OllamaHost = strings.TrimSpace(s)
		a.saveConfig()
	}
	hostItem := widget.NewFormItem("Ollama Host", hostEntry)

	backendSelect := widget.NewSelect(metadata.BackendNames(), nil)
	backendSelect.SetSelected(string(a.config.Backend))
	backendSelect.OnChanged = func(s string) {
		b, err := metadata.ParseBackend(s)
		if err != nil || b == a.config.Backend {
			return
		}
		a.config.Backend = b
		a.config.Model = metadata.DefaultModel(b)
		a.saveConfig()
		modelSelect.Options = metadata.ModelIDs(b)
		modelSelect.SetSelected(a.config.Model)
		if b == metadata.BackendOllama {
			hostEntry.Enable()
		} else {
			hostEntry.Disable()
		}
		if b.NeedsAPIKey() && a.lookupKey(string(b)) == "" {
			dialog.ShowInformation("No API Key", fmt.Sprintf("Save a %s key in the Keys tab before analyzing.", b.DisplayName()), w)
		}
	}
	if a.config.Backend != metadata.BackendOllama {
		hostEntry.Disable()
	}

	concurrencyEntry := newFixedWidthEntry(120)
	concurrencyEntry.SetText(strconv.Itoa(a.config.Concurrency))
	concurrencyEntry.OnChanged = func(s string) {
		v, err := strconv.Atoi(s)
		if err != nil {
			return
		}
		clamped, changed := pipeline.ClampConcurrency(v)
		if changed {
			logger.Warn("Concurrency clamped", "requested", v, "effective", clamped, "max", pipeline.MaxConcurrency)
		}
		a.config.Concurrency = clamped
		a.saveConfig()
		if changed && strconv.Itoa(clamped) != s {
			concurrencyEntry.SetText(strconv.Itoa(clamped))
		}
	}

	return container.NewPadded(container.NewVBox(
		widget.NewLabelWithStyle("Classifier", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Backend", backendSelect),
			widget.NewFormItem("Model", modelSelect),
			hostItem,
			widget.NewFormItem(fmt.Sprintf("Concurrency (%d-%d)", pipeline.MinConcurrency, pipeline.MaxConcurrency), concurrencyEntry),
		),
	))
}

func (a *guiApp) buildKeysTab(w fyne.Window) fyne.CanvasObject {
	a.settingsKeys = make(map[string]*widget.Entry)
	a.keyStatus = make(map[string]*widget.Label)
	form := widget.NewForm()
	for _, service := range auth.Services() {
		entry := widget.NewPasswordEntry()
		entry.SetPlaceHolder("Enter new key")
		status := widget.NewLabel("")
		a.settingsKeys[service] = entry
		a.keyStatus[service] = status
		form.Append(metadata.Backend(service).DisplayName()+" Key", container.NewVBox(entry, status))
	}
	a.refreshKeyStatus()

	saveBtn := widget.NewButton("Save Keys to Keychain", func() {
		keys := make(map[string]string, len(a.settingsKeys))
		for service, entry := range a.settingsKeys {
			keys[service] = entry.Text
		}
		_, err := saveKeysToKeychain(keys, auth.SaveKey)
		a.refreshKeyStatus()
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		dialog.ShowInformation("Saved", "API keys have been updated in your keychain.", w)
	})

	resetBtn := widget.NewButtonWithIcon("Reset All Keys", theme.DeleteIcon(), func() {
		dialog.ShowConfirm("Reset", "Are you sure you want to delete all saved keys from the keychain?", func(ok bool) {
			if !ok {
				return
			}
			err := resetKeysInKeychain(auth.DeleteKey)
			a.refreshKeyStatus()
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			dialog.ShowInformation("Reset Complete", "All saved keys were deleted from the keychain.", w)
		}, w)
	})

	return container.NewPadded(container.NewVBox(
		widget.NewLabelWithStyle("API Keys", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Ollama runs locally and needs no key."),
		form,
		saveBtn,
		widget.NewSeparator(),
		resetBtn,
	))
}

func (a *guiApp) refreshKeyStatus() {
	for service, entry := range a.settingsKeys {
		entry.SetText("")
		if status := a.keyStatus[service]; status != nil {
			if a.lookupKey(service) != "" {
				status.SetText("Saved in keychain")
			} else {
				status.SetText("Not saved")
			}
		}
	}
}

// saveKeysToKeychain stores every non-blank key and reports which services
// were saved. A failure for one service does not stop the others.
func saveKeysToKeychain(keys map[string]string, saveFn func(service, key string) error) (map[string]bool, error) {
	saved := make(map[string]bool)
	var errs []error
	for _, service := range auth.Services() {
		key := strings.TrimSpace(keys[service])
		if key == "" {
			continue
		}
		if err := saveFn(service, key); err != nil {
			errs = append(errs, fmt.Errorf("failed to save %s key: %w", metadata.Backend(service).DisplayName(), err))
			continue
		}
		saved[service] = true
	}
	return saved, errors.Join(errs...)
}

func resetKeysInKeychain(deleteFn func(service string) error) error {
	var errs []error
	for _, service := range auth.Services() {
		if err := deleteFn(service); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete %s key: %w", metadata.Backend(service).DisplayName(), err))
		}
	}
	return errors.Join(errs...)
}
