package ui

import (
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/media-workbench/internal/config"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	outputDirEntry    *widget.Entry
	workerConfigEntry *widget.Entry
	autoOpenCheck     *widget.Check
	languageSelect    *widget.Select

	// language display name -> code
	languageCodes map[string]string
}

// ShowSettingsDialog builds and shows the settings dialog. onSaved runs after a confirmed save.
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) *SettingsDialog {
	sd := NewSettingsDialog(settings, localization, window)
	sd.onSaved = onSaved
	sd.Show()
	return sd
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		settings:      settings,
		localization:  localization,
		window:        window,
		languageCodes: make(map[string]string),
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	sd.outputDirEntry = widget.NewEntry()
	sd.outputDirEntry.SetPlaceHolder(sd.localization.GetText(KeyOutputPlaceholder))
	browseDirBtn := widget.NewButton(sd.localization.GetText(KeyBrowse), sd.onBrowseDirectory)
	outputDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.outputDirEntry)

	sd.workerConfigEntry = widget.NewEntry()

	sd.autoOpenCheck = widget.NewCheck(sd.localization.GetText(KeyAutoOpen), nil)

	var languageNames []string
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageCodes[name] = code
		languageNames = append(languageNames, name)
	}
	slices.Sort(languageNames)
	sd.languageSelect = widget.NewSelect(languageNames, nil)

	form := container.NewVBox(
		widget.NewLabel(sd.localization.GetText(KeyOutputDirectory)),
		outputDirRow,
		sd.autoOpenCheck,

		widget.NewSeparator(),
		widget.NewLabel(sd.localization.GetText(KeyWorkerConfig)),
		sd.workerConfigEntry,

		widget.NewSeparator(),
		widget.NewLabel(sd.localization.GetText(KeyLanguage)),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		sd.localization.GetText(KeySettings),
		sd.localization.GetText(KeySave),
		sd.localization.GetText(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.outputDirEntry.SetText(sd.settings.GetOutputDirectory())
	sd.workerConfigEntry.SetText(sd.settings.GetWorkerConfigPath())
	sd.autoOpenCheck.SetChecked(sd.settings.GetAutoOpenOnComplete())
	sd.languageSelect.SetSelected(sd.settings.GetLanguageOptions()[sd.settings.GetLanguage()])
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.outputDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	// An empty directory means next to the input file
	sd.settings.SetOutputDirectory(sd.outputDirEntry.Text)
	sd.settings.SetAutoOpenOnComplete(sd.autoOpenCheck.Checked)

	if path := sd.workerConfigEntry.Text; path != "" {
		sd.settings.SetWorkerConfigPath(path)
	}

	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}

	if sd.onSaved != nil {
		sd.onSaved()
	}
}
