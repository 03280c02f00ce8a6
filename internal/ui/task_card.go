package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/media-workbench/internal/model"
)

// TaskCard renders one task slot: status, progress bar, message and output
type TaskCard struct {
	widget.BaseWidget

	task         model.Task
	localization *Localization

	titleLabel   *widget.Label
	statusLabel  *widget.Label
	percentLabel *widget.Label
	messageLabel *widget.Label
	outputLabel  *widget.Label
	progressBar  *widget.ProgressBar
	openBtn      *widget.Button

	onOpen func(kind model.TaskKind)
}

// NewTaskCard creates a card for the slot of kind
func NewTaskCard(kind model.TaskKind, localization *Localization) *TaskCard {
	tc := &TaskCard{
		task:         model.NewTask(kind),
		localization: localization,
	}
	tc.ExtendBaseWidget(tc)
	tc.createUI()
	tc.updateFromTask()
	return tc
}

// SetOnOpen sets the callback of the open-folder button
func (tc *TaskCard) SetOnOpen(fn func(kind model.TaskKind)) {
	tc.onOpen = fn
}

// UpdateTask renders a new slot snapshot. Must run on the UI thread.
func (tc *TaskCard) UpdateTask(task model.Task) {
	tc.task = task
	tc.updateFromTask()
	tc.Refresh()
}

// Relocalize re-renders texts after a language change
func (tc *TaskCard) Relocalize() {
	tc.openBtn.SetText(IconFolder + " " + tc.localization.GetText(KeyOpenFolder))
	tc.updateFromTask()
	tc.Refresh()
}

// Task returns the last rendered snapshot
func (tc *TaskCard) Task() model.Task {
	return tc.task
}

func (tc *TaskCard) createUI() {
	tc.titleLabel = widget.NewLabel("")
	tc.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tc.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tc.statusLabel = widget.NewLabel("")
	tc.statusLabel.Alignment = fyne.TextAlignTrailing

	tc.percentLabel = widget.NewLabel("")
	tc.percentLabel.Alignment = fyne.TextAlignTrailing
	tc.percentLabel.TextStyle = fyne.TextStyle{Monospace: true}

	tc.messageLabel = widget.NewLabel("")
	tc.messageLabel.Wrapping = fyne.TextWrapWord

	tc.outputLabel = widget.NewLabel("")
	tc.outputLabel.Truncation = fyne.TextTruncateEllipsis
	tc.outputLabel.Importance = widget.LowImportance

	tc.progressBar = widget.NewProgressBar()
	tc.progressBar.Min = 0
	tc.progressBar.Max = 100
	tc.progressBar.TextFormatter = func() string { return "" }

	tc.openBtn = widget.NewButton(IconFolder+" "+tc.localization.GetText(KeyOpenFolder), func() {
		if tc.onOpen != nil {
			tc.onOpen(tc.task.Kind)
		}
	})
}

func (tc *TaskCard) updateFromTask() {
	t := tc.task

	tc.titleLabel.SetText(cleanText(kindTitle(t.Kind, tc.localization) + MiddleDotSeparator + t.GetDisplayName()))

	tc.statusLabel.Importance = statusImportance(t.Status)
	tc.statusLabel.SetText(statusIcon(t.Status) + " " + tc.localization.GetText(statusTextKey(t.Status)))

	tc.progressBar.SetValue(t.Progress)
	if t.Status == model.TaskStatusCompleted {
		tc.percentLabel.SetText("")
	} else {
		tc.percentLabel.SetText(fmt.Sprintf(ProgressLabelFormat, t.Percent()))
	}

	tc.messageLabel.SetText(cleanText(statusMessage(t, tc.localization)))

	if t.OutputTarget != "" {
		tc.outputLabel.SetText(IconFolder + " " + t.OutputTarget)
	} else {
		tc.outputLabel.SetText(DashPlaceholder)
	}

	if t.Status == model.TaskStatusCompleted && t.OutputTarget != "" {
		tc.openBtn.Enable()
	} else {
		tc.openBtn.Disable()
	}
	if t.Kind == model.TaskKindDefault {
		tc.openBtn.Hide()
	}
}

// CreateRenderer creates the widget renderer
func (tc *TaskCard) CreateRenderer() fyne.WidgetRenderer {
	header := container.NewBorder(nil, nil, nil,
		container.NewGridWrap(fyne.NewSize(StatusLabelWidth, tc.statusLabel.MinSize().Height), tc.statusLabel),
		tc.titleLabel)
	progress := container.NewBorder(nil, nil, nil,
		container.NewGridWrap(fyne.NewSize(PercentLabelWidth, tc.percentLabel.MinSize().Height), tc.percentLabel),
		tc.progressBar)
	footer := container.NewBorder(nil, nil, nil, tc.openBtn, tc.outputLabel)

	content := container.NewVBox(header, progress, tc.messageLabel, layout.NewSpacer(), footer)
	return widget.NewSimpleRenderer(content)
}

// MinSize keeps cards readable in narrow windows
func (tc *TaskCard) MinSize() fyne.Size {
	return tc.BaseWidget.MinSize().Max(fyne.NewSize(CardMinWidth, CardMinHeight))
}

// statusMessage returns the slot message, falling back to the localized status text
func statusMessage(t model.Task, loc *Localization) string {
	if strings.TrimSpace(t.Message) != "" {
		return t.Message
	}
	return loc.GetText(statusTextKey(t.Status))
}

func kindTitle(kind model.TaskKind, loc *Localization) string {
	switch kind {
	case model.TaskKindExtract:
		return IconMusic + " " + loc.GetText(KeyExtractAudio)
	case model.TaskKindSlice:
		return IconScissors + " " + loc.GetText(KeySliceVideo)
	default:
		return IconNotifyInfo + " " + loc.GetText(KeyTasks)
	}
}

// cleanText flattens control characters that break single-line labels
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}
