package ui

import (
	"path/filepath"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/media-workbench/internal/metadata"
	"github.com/ytget/media-workbench/internal/model"
)

// VideoInfoCard shows the metadata of the selected video
type VideoInfoCard struct {
	widget.BaseWidget

	state        metadata.State
	localization *Localization

	nameLabel   *widget.Label
	statusLabel *widget.Label
	fields      map[string]*widget.Label
	fieldNames  map[string]*widget.Label
	fieldKeys   []string
	grid        *fyne.Container
}

// NewVideoInfoCard creates an empty info card
func NewVideoInfoCard(localization *Localization) *VideoInfoCard {
	vc := &VideoInfoCard{
		localization: localization,
		fields:       make(map[string]*widget.Label),
		fieldNames:   make(map[string]*widget.Label),
		fieldKeys:    []string{KeyDuration, KeySize, KeyFormat, KeyResolution, KeyFrameRate, KeyCodec, KeyAudioCodec, KeyOverallBitrate},
	}
	vc.ExtendBaseWidget(vc)

	vc.nameLabel = widget.NewLabel("")
	vc.nameLabel.TextStyle = fyne.TextStyle{Bold: true}
	vc.nameLabel.Truncation = fyne.TextTruncateEllipsis
	vc.statusLabel = widget.NewLabel("")

	vc.grid = container.NewGridWithColumns(2)
	for _, key := range vc.fieldKeys {
		name := widget.NewLabel("")
		name.Importance = widget.LowImportance
		value := widget.NewLabel(DashPlaceholder)
		vc.fieldNames[key] = name
		vc.fields[key] = value
		vc.grid.Add(name)
		vc.grid.Add(value)
	}

	vc.render()
	return vc
}

// SetState renders a tracker state. Must run on the UI thread.
func (vc *VideoInfoCard) SetState(state metadata.State) {
	vc.state = state
	vc.render()
	vc.Refresh()
}

// State returns the last rendered state
func (vc *VideoInfoCard) State() metadata.State {
	return vc.state
}

// Relocalize re-renders texts after a language change
func (vc *VideoInfoCard) Relocalize() {
	vc.render()
	vc.Refresh()
}

// FieldText returns the rendered value of a field key
func (vc *VideoInfoCard) FieldText(key string) string {
	if l, ok := vc.fields[key]; ok {
		return l.Text
	}
	return ""
}

func (vc *VideoInfoCard) render() {
	for _, key := range vc.fieldKeys {
		vc.fieldNames[key].SetText(vc.localization.GetText(key))
	}

	st := vc.state
	switch {
	case st.Path == "":
		vc.nameLabel.SetText(IconFilm + " " + vc.localization.GetText(KeyVideoInfo))
		vc.statusLabel.Importance = widget.MediumImportance
		vc.statusLabel.SetText(vc.localization.GetText(KeyNoVideo))
	case st.Loading:
		vc.nameLabel.SetText(IconFilm + " " + filepath.Base(st.Path))
		vc.statusLabel.Importance = widget.MediumImportance
		vc.statusLabel.SetText(vc.localization.GetText(KeyLoadingInfo))
	case st.Err != "":
		vc.nameLabel.SetText(IconFilm + " " + filepath.Base(st.Path))
		vc.statusLabel.Importance = widget.DangerImportance
		vc.statusLabel.SetText(IconError + " " + st.Err)
	default:
		vc.nameLabel.SetText(IconFilm + " " + filepath.Base(st.Path))
		vc.statusLabel.Importance = widget.MediumImportance
		vc.statusLabel.SetText("")
	}

	if st.Info == nil {
		for _, key := range vc.fieldKeys {
			vc.fields[key].SetText(DashPlaceholder)
		}
		return
	}
	for key, text := range infoFields(*st.Info) {
		vc.fields[key].SetText(text)
	}
}

// infoFields formats metadata for display keyed by localization key
func infoFields(m model.VideoMetadata) map[string]string {
	audio := orDash(m.AudioCodec)
	if m.AudioChannels != nil {
		audio += MiddleDotSeparator + strconv.Itoa(*m.AudioChannels) + "ch"
	}
	if m.AudioBitrate != nil {
		audio += MiddleDotSeparator + model.FormatBitrate(*m.AudioBitrate)
	}
	return map[string]string{
		KeyDuration:       m.DurationString(),
		KeySize:           m.SizeString(),
		KeyFormat:         orDash(m.Format),
		KeyResolution:     orDash(m.Resolution),
		KeyFrameRate:      m.FPSString(),
		KeyCodec:          orDash(m.Codec),
		KeyAudioCodec:     audio,
		KeyOverallBitrate: m.BitrateString(),
	}
}

func orDash(s string) string {
	if s == "" {
		return DashPlaceholder
	}
	return s
}

// CreateRenderer creates the widget renderer
func (vc *VideoInfoCard) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewVBox(vc.nameLabel, vc.statusLabel, widget.NewSeparator(), vc.grid))
}
