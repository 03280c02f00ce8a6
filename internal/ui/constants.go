package ui

import "time"

// Icons (emojis/symbols)
const (
	IconSettings   = "⚙"
	IconPlay       = "▶"
	IconFolder     = "📁"
	IconError      = "❌"
	IconDone       = "✔"
	IconIdle       = "⏳"
	IconLanguage   = "🌐"
	IconMusic      = "🎵"
	IconScissors   = "✂"
	IconFilm       = "🎬"
	IconNotifyInfo = "ℹ"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Layout sizing
const (
	StatusLabelWidth  float32 = 96
	PercentLabelWidth float32 = 48

	CardMinWidth  float32 = 360
	CardMinHeight float32 = 96

	WindowWidth  float32 = 900
	WindowHeight float32 = 640

	SettingsDialogWidth  float32 = 520
	SettingsDialogHeight float32 = 480
)

// Notification behavior
const (
	NotificationAutoHide = 5 * time.Second
)

// Video file filter for the open dialog
var VideoExtensions = []string{".mp4", ".mkv", ".mov", ".avi", ".webm", ".flv", ".m4v", ".ts", ".wmv"}
