package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/media-workbench/internal/model"
)

// CompactTheme trims padding and text sizes so both operation panels fit side by side
type CompactTheme struct {
	base fyne.Theme
}

// NewCompactTheme creates a new compact theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{base: theme.DefaultTheme()}
}

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameSuccess:
		return color.RGBA{R: 46, G: 160, B: 67, A: 255}
	case theme.ColorNameError:
		return color.RGBA{R: 198, G: 40, B: 40, A: 255}
	case theme.ColorNameWarning:
		return color.RGBA{R: 245, G: 166, B: 35, A: 255}
	case theme.ColorNamePrimary:
		return color.RGBA{R: 0, G: 137, B: 123, A: 255}
	}
	return t.base.Color(name, variant)
}

// Font returns theme fonts
func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon returns theme icons
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameText:
		return 13
	case theme.SizeNameHeadingText:
		return 17
	case theme.SizeNameSubHeadingText:
		return 14
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNameInputRadius:
		return 3
	}
	return t.base.Size(name)
}

// statusImportance maps a slot status to the label importance used to color it
func statusImportance(status model.TaskStatus) widget.Importance {
	switch status {
	case model.TaskStatusError:
		return widget.DangerImportance
	case model.TaskStatusCompleted:
		return widget.SuccessImportance
	case model.TaskStatusProcessing:
		return widget.HighImportance
	default:
		return widget.MediumImportance
	}
}

// statusIcon prefixes the status label
func statusIcon(status model.TaskStatus) string {
	switch status {
	case model.TaskStatusError:
		return IconError
	case model.TaskStatusCompleted:
		return IconDone
	case model.TaskStatusProcessing:
		return IconPlay
	default:
		return IconIdle
	}
}

// statusTextKey is the localization key of a status
func statusTextKey(status model.TaskStatus) string {
	switch status {
	case model.TaskStatusError:
		return KeyStatusError
	case model.TaskStatusCompleted:
		return KeyStatusCompleted
	case model.TaskStatusProcessing:
		return KeyStatusProcessing
	default:
		return KeyStatusIdle
	}
}
