// Package ui contains the Fyne-based desktop user interface of the workbench.
// It turns form input into dispatcher commands, renders one card per task slot
// from the task store, and shows the metadata of the selected video.
// All UI strings are localized via Localization.
package ui
