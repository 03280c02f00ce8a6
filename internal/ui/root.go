package ui

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/media-workbench/internal/config"
	"github.com/ytget/media-workbench/internal/dispatch"
	"github.com/ytget/media-workbench/internal/logging"
	"github.com/ytget/media-workbench/internal/metadata"
	"github.com/ytget/media-workbench/internal/model"
	"github.com/ytget/media-workbench/internal/platform"
	"github.com/ytget/media-workbench/internal/tasks"
)

// Services are the long-lived components the UI drives
type Services struct {
	Dispatcher *dispatch.Dispatcher
	Store      *tasks.Store
	Tracker    *metadata.Tracker
	Logger     *slog.Logger
}

// RootUI represents the main UI structure
type RootUI struct {
	ctx          context.Context
	window       fyne.Window
	settings     *config.Settings
	localization *Localization
	logger       *slog.Logger

	dispatcher *dispatch.Dispatcher
	store      *tasks.Store
	tracker    *metadata.Tracker

	inputEntry   *widget.Entry
	browseBtn    *widget.Button
	extractPanel *ExtractPanel
	slicePanel   *SlicePanel
	extractCard  *widget.Card
	sliceCard    *widget.Card
	infoCard     *VideoInfoCard
	cards        map[model.TaskKind]*TaskCard

	// last rendered status per slot, for completion edges
	lastStatus map[model.TaskKind]model.TaskStatus

	// kinds with a dispatched run that has not returned yet
	runMu    sync.Mutex
	inFlight map[model.TaskKind]bool

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationMu        sync.Mutex
	notificationSeq       uint64
}

// NewRootUI creates and initializes the main UI. ctx bounds every command the UI dispatches.
func NewRootUI(ctx context.Context, window fyne.Window, app fyne.App, svc Services) *RootUI {
	settings := config.NewSettings(app)

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		ctx:          ctx,
		window:       window,
		settings:     settings,
		localization: localization,
		logger:       logging.NewComponentLogger(svc.Logger, "ui"),
		dispatcher:   svc.Dispatcher,
		store:        svc.Store,
		tracker:      svc.Tracker,
		cards:        make(map[model.TaskKind]*TaskCard),
		lastStatus:   make(map[model.TaskKind]model.TaskStatus),
		inFlight:     make(map[model.TaskKind]bool),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.setupUI()

	ui.store.SetUpdateCallback(func(t model.Task) {
		fyne.Do(func() { ui.onTaskUpdate(t) })
	})
	ui.tracker.SetOnChange(func(st metadata.State) {
		fyne.Do(func() { ui.infoCard.SetState(st) })
	})

	// render whatever the store already holds
	for _, t := range ui.store.Snapshot() {
		ui.onTaskUpdate(t)
	}
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.inputEntry = widget.NewEntry()
	ui.inputEntry.SetPlaceHolder(ui.localization.GetText(KeyInputFile))
	ui.inputEntry.OnSubmitted = func(s string) {
		ui.SetInputPath(s)
	}
	ui.inputEntry.OnChanged = func(s string) {
		if strings.TrimSpace(s) == "" {
			ui.tracker.SetPath("")
		}
	}

	ui.browseBtn = widget.NewButton(IconFolder+" "+ui.localization.GetText(KeySelectVideo), ui.onBrowseInput)
	ui.browseBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	var left fyne.CanvasObject = settingsBtn
	if logo, err := LoadLogoResource(); err == nil {
		img := canvas.NewImageFromResource(logo)
		img.SetMinSize(fyne.NewSize(32, 32))
		img.FillMode = canvas.ImageFillContain
		left = container.NewHBox(img, settingsBtn)
	}
	topPanel := container.NewBorder(nil, nil, left, ui.browseBtn, ui.inputEntry)

	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Wrapping = fyne.TextWrapWord
	ui.notificationContainer = container.NewPadded(ui.notificationLabel)
	ui.notificationContainer.Hide()

	ui.extractPanel = newExtractPanel(ui.localization, ui.settings, ui.onStartExtract)
	ui.slicePanel = newSlicePanel(ui.localization, ui.settings, ui.onStartSlice)
	ui.extractCard = widget.NewCard(IconMusic+" "+ui.localization.GetText(KeyExtractAudio), "", ui.extractPanel.content)
	ui.sliceCard = widget.NewCard(IconScissors+" "+ui.localization.GetText(KeySliceVideo), "", ui.slicePanel.content)

	ui.infoCard = NewVideoInfoCard(ui.localization)

	taskBox := container.NewVBox()
	for _, kind := range model.Kinds() {
		card := NewTaskCard(kind, ui.localization)
		card.SetOnOpen(ui.onOpenOutput)
		ui.cards[kind] = card
		taskBox.Add(card)
		taskBox.Add(widget.NewSeparator())
	}
	// the default slot only shows once an untagged notification arrives
	ui.cards[model.TaskKindDefault].Hide()

	operations := container.NewAdaptiveGrid(2, ui.extractCard, ui.sliceCard)
	center := container.NewVBox(operations, container.NewVScroll(taskBox))
	content := container.NewBorder(
		container.NewVBox(topPanel, ui.notificationContainer),
		nil,
		nil,
		container.NewGridWrap(fyne.NewSize(260, 320), ui.infoCard),
		center,
	)

	ui.window.SetContent(content)
	ui.logger.Debug("ui setup completed")
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	openItem := fyne.NewMenuItem(ui.localization.GetText(KeySelectVideo), ui.onBrowseInput)
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(IconLanguage + " " + ui.localization.GetText(KeyLanguage))
	for _, code := range []string{LanguageEnglish, LanguageChinese} {
		langCode := code
		langItem := fyne.NewMenuItem(ui.localization.GetAvailableLanguages()[code], func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), openItem, settingsItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.inputEntry.SetPlaceHolder(ui.localization.GetText(KeyInputFile))
	ui.browseBtn.SetText(IconFolder + " " + ui.localization.GetText(KeySelectVideo))
	ui.extractCard.SetTitle(IconMusic + " " + ui.localization.GetText(KeyExtractAudio))
	ui.sliceCard.SetTitle(IconScissors + " " + ui.localization.GetText(KeySliceVideo))
	ui.extractPanel.relocalize()
	ui.slicePanel.relocalize()
	ui.infoCard.Relocalize()
	for _, card := range ui.cards {
		card.Relocalize()
	}
}

// SetInputPath selects the video both commands run on and queries its metadata
func (ui *RootUI) SetInputPath(path string) {
	path = strings.TrimSpace(path)
	if ui.inputEntry.Text != path {
		ui.inputEntry.SetText(path)
	}
	ui.tracker.SetPath(path)
}

// InputPath returns the selected video path
func (ui *RootUI) InputPath() string {
	return strings.TrimSpace(ui.inputEntry.Text)
}

func (ui *RootUI) onBrowseInput() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			ui.showNotification(IconError+" "+err.Error(), true)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()
		ui.SetInputPath(path)
	}, ui.window)
	d.SetFilter(storage.NewExtensionFileFilter(VideoExtensions))
	d.Show()
}

// onStartExtract dispatches extract-audio for the selected video
func (ui *RootUI) onStartExtract() {
	input := ui.InputPath()
	if input == "" {
		ui.showNotification(ui.localization.GetText(KeyPleaseSelectVideo), true)
		return
	}

	outputDir := ui.prepareOutputDir()
	opts := ui.extractPanel.Options(input, outputDir)
	if !ui.beginRun(model.TaskKindExtract) {
		return
	}
	ui.extractPanel.Remember(ui.settings)
	ui.hideNotification()

	ui.watch(model.TaskKindExtract, ui.dispatcher.StartExtractAudio(ui.ctx, opts))
}

// onStartSlice dispatches slice-video for the selected video
func (ui *RootUI) onStartSlice() {
	input := ui.InputPath()
	if input == "" {
		ui.showNotification(ui.localization.GetText(KeyPleaseSelectVideo), true)
		return
	}

	opts, err := ui.slicePanel.Options(input, ui.prepareOutputDir())
	if err != nil {
		ui.showNotification(ui.localization.GetText(KeyInvalidDuration), true)
		return
	}
	if !ui.beginRun(model.TaskKindSlice) {
		return
	}
	ui.slicePanel.Remember(ui.settings)
	ui.hideNotification()

	ui.watch(model.TaskKindSlice, ui.dispatcher.StartSliceVideo(ui.ctx, opts))
}

// beginRun marks kind in flight and disables its panel. It reports false when
// a run of kind has not returned yet.
func (ui *RootUI) beginRun(kind model.TaskKind) bool {
	ui.runMu.Lock()
	if ui.inFlight[kind] {
		ui.runMu.Unlock()
		return false
	}
	ui.inFlight[kind] = true
	ui.runMu.Unlock()

	fyne.Do(func() { ui.setBusy(kind, true) })
	return true
}

func (ui *RootUI) endRun(kind model.TaskKind) {
	ui.runMu.Lock()
	delete(ui.inFlight, kind)
	ui.runMu.Unlock()

	fyne.Do(func() { ui.setBusy(kind, ui.isInFlight(kind)) })
}

func (ui *RootUI) isInFlight(kind model.TaskKind) bool {
	ui.runMu.Lock()
	defer ui.runMu.Unlock()
	return ui.inFlight[kind]
}

// setBusy toggles the start button of kind's panel. Runs on the UI thread.
func (ui *RootUI) setBusy(kind model.TaskKind, busy bool) {
	switch kind {
	case model.TaskKindExtract:
		ui.extractPanel.SetBusy(busy)
	case model.TaskKindSlice:
		ui.slicePanel.SetBusy(busy)
	}
}

// watch reports the outcome of a background run in the notification panel
func (ui *RootUI) watch(kind model.TaskKind, done <-chan error) {
	go func() {
		err := <-done
		ui.endRun(kind)
		if err == nil {
			return
		}
		ui.logger.Warn("command returned error", slog.String(logging.KeyKind, kind.String()), slog.String("error", err.Error()))
		ui.showNotification(ui.localization.GetText(KeyCommandFailed)+": "+err.Error(), true)
	}()
}

// prepareOutputDir returns the configured output directory, creating it when set
func (ui *RootUI) prepareOutputDir() string {
	dir := ui.settings.GetOutputDirectory()
	if dir == "" {
		return ""
	}
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		ui.logger.Warn("failed to create output directory", slog.String(logging.KeyPath, dir), slog.String("error", err.Error()))
		return ""
	}
	return dir
}

// onTaskUpdate renders a slot snapshot. Runs on the UI thread.
func (ui *RootUI) onTaskUpdate(t model.Task) {
	card, ok := ui.cards[t.Kind]
	if !ok {
		return
	}
	card.UpdateTask(t)
	if t.Kind == model.TaskKindDefault && t.Status != model.TaskStatusIdle {
		card.Show()
	}

	ui.setBusy(t.Kind, ui.isInFlight(t.Kind))

	previous := ui.lastStatus[t.Kind]
	ui.lastStatus[t.Kind] = t.Status
	if t.Status == model.TaskStatusCompleted && previous != model.TaskStatusCompleted &&
		t.Kind.IsTagged() && ui.settings.GetAutoOpenOnComplete() {
		ui.onOpenOutput(t.Kind)
	}
}

// onOpenOutput opens the output location of a slot
func (ui *RootUI) onOpenOutput(kind model.TaskKind) {
	if err := ui.dispatcher.OpenOutput(kind); err != nil {
		ui.logger.Warn("failed to open output", slog.String(logging.KeyKind, kind.String()), slog.String("error", err.Error()))
		ui.showNotification(ui.localization.GetText(KeyErrorOpeningFolder)+": "+err.Error(), true)
	}
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, func() {
		ui.localization.SetLanguage(ui.settings.GetLanguage())
		ui.refreshUITexts()
		ui.createMenu()
		ui.showNotification(ui.localization.GetText(KeySettingsSaved), true)
	})
}

// showNotification displays a message in the notification panel under the input row.
// When autoHide is true the panel hides itself after NotificationAutoHide.
func (ui *RootUI) showNotification(message string, autoHide bool) {
	ui.notificationMu.Lock()
	ui.notificationSeq++
	seq := ui.notificationSeq
	ui.notificationMu.Unlock()

	fyne.Do(func() {
		ui.notificationLabel.SetText(message)
		ui.notificationContainer.Show()
		ui.notificationContainer.Refresh()
	})

	if autoHide {
		time.AfterFunc(NotificationAutoHide, func() {
			ui.notificationMu.Lock()
			current := ui.notificationSeq == seq
			ui.notificationMu.Unlock()
			if current {
				ui.hideNotification()
			}
		})
	}
}

// hideNotification hides the notification panel
func (ui *RootUI) hideNotification() {
	fyne.Do(func() {
		ui.notificationContainer.Hide()
	})
}

// Notification returns the text of the visible notification, or "" when hidden
func (ui *RootUI) Notification() string {
	if !ui.notificationContainer.Visible() {
		return ""
	}
	return ui.notificationLabel.Text
}

// Card returns the task card of a slot
func (ui *RootUI) Card(kind model.TaskKind) *TaskCard {
	return ui.cards[kind]
}

// InfoCard returns the video info card
func (ui *RootUI) InfoCard() *VideoInfoCard {
	return ui.infoCard
}
