package ui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/media-workbench/internal/config"
	"github.com/ytget/media-workbench/internal/dispatch"
	"github.com/ytget/media-workbench/internal/model"
)

// ExtractPanel holds the extract-audio form
type ExtractPanel struct {
	localization *Localization

	formatSelect     *widget.Select
	bitrateSelect    *widget.Select
	sampleRateSelect *widget.Select
	startBtn         *widget.Button
	form             *widget.Form
	content          *fyne.Container
}

func newExtractPanel(loc *Localization, settings *config.Settings, onStart func()) *ExtractPanel {
	p := &ExtractPanel{localization: loc}

	p.formatSelect = widget.NewSelect(model.AudioFormats, nil)
	p.formatSelect.SetSelected(settings.GetAudioFormat())
	p.bitrateSelect = widget.NewSelect(intOptions(model.Bitrates), nil)
	p.bitrateSelect.SetSelected(strconv.Itoa(settings.GetAudioBitrate()))
	p.sampleRateSelect = widget.NewSelect(intOptions(model.SampleRates), nil)
	p.sampleRateSelect.SetSelected(strconv.Itoa(settings.GetSampleRate()))

	p.startBtn = widget.NewButton(IconPlay+" "+loc.GetText(KeyStart), onStart)
	p.startBtn.Importance = widget.HighImportance

	p.form = widget.NewForm()
	p.content = container.NewVBox(p.form, p.startBtn)
	p.relocalize()
	return p
}

// Options collects the form into dispatcher options for inputPath.
// A non-empty outputDir places the audio file there instead of next to the input.
func (p *ExtractPanel) Options(inputPath, outputDir string) dispatch.ExtractOptions {
	bitrate, _ := strconv.Atoi(p.bitrateSelect.Selected)
	sampleRate, _ := strconv.Atoi(p.sampleRateSelect.Selected)
	opts := dispatch.ExtractOptions{
		InputPath:   inputPath,
		AudioFormat: p.formatSelect.Selected,
		Bitrate:     bitrate,
		SampleRate:  sampleRate,
	}
	if outputDir != "" && inputPath != "" {
		opts.OutputPath = filepath.Join(outputDir, filepath.Base(dispatch.DefaultExtractOutput(inputPath, opts.AudioFormat)))
	}
	return opts
}

// Remember stores the chosen values as the next defaults
func (p *ExtractPanel) Remember(settings *config.Settings) {
	opts := p.Options("", "")
	settings.SetAudioFormat(opts.AudioFormat)
	settings.SetAudioBitrate(opts.Bitrate)
	settings.SetSampleRate(opts.SampleRate)
}

// SetBusy disables the start button while a run is in flight
func (p *ExtractPanel) SetBusy(busy bool) {
	if busy {
		p.startBtn.Disable()
	} else {
		p.startBtn.Enable()
	}
}

func (p *ExtractPanel) relocalize() {
	p.form.Items = []*widget.FormItem{
		widget.NewFormItem(p.localization.GetText(KeyAudioFormat), p.formatSelect),
		widget.NewFormItem(p.localization.GetText(KeyBitrate), p.bitrateSelect),
		widget.NewFormItem(p.localization.GetText(KeySampleRate), p.sampleRateSelect),
	}
	p.form.Refresh()
	p.startBtn.SetText(IconPlay + " " + p.localization.GetText(KeyStart))
}

// SlicePanel holds the slice-video form
type SlicePanel struct {
	localization *Localization

	durationEntry       *widget.Entry
	segmentFormatSelect *widget.Select
	videoCodecSelect    *widget.Select
	qualitySelect       *widget.Select
	audioCodecSelect    *widget.Select
	startBtn            *widget.Button
	form                *widget.Form
	content             *fyne.Container
}

func newSlicePanel(loc *Localization, settings *config.Settings, onStart func()) *SlicePanel {
	p := &SlicePanel{localization: loc}

	p.durationEntry = widget.NewEntry()
	p.durationEntry.SetText(strconv.Itoa(settings.GetSliceDuration()))
	p.durationEntry.Validator = func(s string) error {
		_, err := parseSliceDuration(s)
		return err
	}

	p.segmentFormatSelect = widget.NewSelect(model.SegmentFormats, nil)
	p.segmentFormatSelect.SetSelected(settings.GetSegmentFormat())
	p.videoCodecSelect = widget.NewSelect(model.VideoCodecs, nil)
	p.videoCodecSelect.SetSelected(settings.GetVideoCodec())
	p.qualitySelect = widget.NewSelect(model.VideoQualities, nil)
	p.qualitySelect.SetSelected(settings.GetVideoQuality())
	p.audioCodecSelect = widget.NewSelect(model.AudioCodecs, nil)
	p.audioCodecSelect.SetSelected(settings.GetAudioCodec())

	p.startBtn = widget.NewButton(IconPlay+" "+loc.GetText(KeyStart), onStart)
	p.startBtn.Importance = widget.HighImportance

	p.form = widget.NewForm()
	p.content = container.NewVBox(p.form, p.startBtn)
	p.relocalize()
	return p
}

// Options collects the form into dispatcher options for inputPath
func (p *SlicePanel) Options(inputPath, outputDir string) (dispatch.SliceOptions, error) {
	duration, err := parseSliceDuration(p.durationEntry.Text)
	if err != nil {
		return dispatch.SliceOptions{}, err
	}
	opts := dispatch.SliceOptions{
		InputPath:     inputPath,
		Duration:      duration,
		SegmentFormat: p.segmentFormatSelect.Selected,
		VideoCodec:    p.videoCodecSelect.Selected,
		VideoQuality:  p.qualitySelect.Selected,
		AudioCodec:    p.audioCodecSelect.Selected,
	}
	if outputDir != "" && inputPath != "" {
		opts.OutputDir = filepath.Join(outputDir, filepath.Base(dispatch.DefaultSliceOutput(inputPath)))
	}
	return opts, nil
}

// Remember stores the chosen values as the next defaults
func (p *SlicePanel) Remember(settings *config.Settings) {
	if duration, err := parseSliceDuration(p.durationEntry.Text); err == nil {
		settings.SetSliceDuration(duration)
	}
	settings.SetSegmentFormat(p.segmentFormatSelect.Selected)
	settings.SetVideoCodec(p.videoCodecSelect.Selected)
	settings.SetVideoQuality(p.qualitySelect.Selected)
	settings.SetAudioCodec(p.audioCodecSelect.Selected)
}

// SetBusy disables the start button while a run is in flight
func (p *SlicePanel) SetBusy(busy bool) {
	if busy {
		p.startBtn.Disable()
	} else {
		p.startBtn.Enable()
	}
}

func (p *SlicePanel) relocalize() {
	p.form.Items = []*widget.FormItem{
		widget.NewFormItem(p.localization.GetText(KeySegmentDuration), p.durationEntry),
		widget.NewFormItem(p.localization.GetText(KeySegmentFormat), p.segmentFormatSelect),
		widget.NewFormItem(p.localization.GetText(KeyVideoCodec), p.videoCodecSelect),
		widget.NewFormItem(p.localization.GetText(KeyVideoQuality), p.qualitySelect),
		widget.NewFormItem(p.localization.GetText(KeyAudioCodec), p.audioCodecSelect),
	}
	p.form.Refresh()
	p.startBtn.SetText(IconPlay + " " + p.localization.GetText(KeyStart))
}

// parseSliceDuration accepts whole seconds within the slice bounds
func parseSliceDuration(s string) (int, error) {
	d, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", dispatch.ErrInvalidDuration, s)
	}
	if !model.IsSliceDuration(d) {
		return 0, fmt.Errorf("%w: must be %d..%d seconds", dispatch.ErrInvalidDuration, model.MinSliceDuration, model.MaxSliceDuration)
	}
	return d, nil
}

func intOptions(values []int) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strconv.Itoa(v))
	}
	return out
}
