package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ytget/media-workbench/internal/dispatch"
	"github.com/ytget/media-workbench/internal/metadata"
	"github.com/ytget/media-workbench/internal/model"
	"github.com/ytget/media-workbench/internal/worker"
)

type ExtractCmd struct {
	Input      string `arg:"" name:"input" help:"Video file" type:"existingfile"`
	Output     string `help:"Output audio file (default {input}.{format})" short:"o" type:"path"`
	Format     string `help:"Audio format" default:"mp3" enum:"mp3,aac,flac,wav"`
	Bitrate    int    `help:"Audio bitrate in kbps (lossy formats)" default:"192"`
	SampleRate int    `help:"Sample rate in Hz" default:"44100" name:"sample-rate"`
	Open       bool   `help:"Open the output folder when done"`
}

func (cmd *ExtractCmd) options() dispatch.ExtractOptions {
	return dispatch.ExtractOptions{
		InputPath:   cmd.Input,
		OutputPath:  cmd.Output,
		AudioFormat: cmd.Format,
		Bitrate:     cmd.Bitrate,
		SampleRate:  cmd.SampleRate,
	}
}

func (cmd *ExtractCmd) Run(g *Globals, ctx context.Context) error {
	rt, _, closeFn, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	fmt.Println(headerStyle.Render(fmt.Sprintf("Extract audio %s", version)))
	fmt.Println(infoStyle.Render(fmt.Sprintf("Input: %s", cmd.Input)))

	task, err := runWithBar(rt.Store.SetUpdateCallback, model.TaskKindExtract, g.Quiet, func() error {
		return rt.Dispatcher.RunExtractAudio(ctx, cmd.options())
	})
	if err := report(task, err); err != nil {
		return err
	}
	if cmd.Open {
		return rt.Dispatcher.OpenOutput(model.TaskKindExtract)
	}
	return nil
}

type SliceCmd struct {
	Input         string `arg:"" name:"input" help:"Video file" type:"existingfile"`
	OutputDir     string `help:"Output directory (default {input}_segments)" short:"o" name:"output-dir" type:"path"`
	Duration      int    `help:"Segment length in seconds" short:"d" default:"10"`
	SegmentFormat string `help:"Segment container" name:"segment-format" default:"ts" enum:"ts,mp4,webm"`
	VideoCodec    string `help:"Video encoder" name:"video-codec" default:"libx264" enum:"libx264,libx265,libvpx,libvpx-vp9"`
	Quality       string `help:"Video quality preset" default:"medium" enum:"low,medium,high"`
	AudioCodec    string `help:"Audio encoder" name:"audio-codec" default:"aac" enum:"aac,libmp3lame,opus,vorbis"`
	Open          bool   `help:"Open the output folder when done"`
}

func (cmd *SliceCmd) options() dispatch.SliceOptions {
	return dispatch.SliceOptions{
		InputPath:     cmd.Input,
		OutputDir:     cmd.OutputDir,
		Duration:      cmd.Duration,
		SegmentFormat: cmd.SegmentFormat,
		VideoCodec:    cmd.VideoCodec,
		VideoQuality:  cmd.Quality,
		AudioCodec:    cmd.AudioCodec,
	}
}

// Validate is called by kong after parsing
func (cmd *SliceCmd) Validate() error {
	if !model.IsSliceDuration(cmd.Duration) {
		return fmt.Errorf("%w: %d not in %d..%d", dispatch.ErrInvalidDuration,
			cmd.Duration, model.MinSliceDuration, model.MaxSliceDuration)
	}
	return nil
}

func (cmd *SliceCmd) Run(g *Globals, ctx context.Context) error {
	rt, _, closeFn, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	fmt.Println(headerStyle.Render(fmt.Sprintf("Slice video %s", version)))
	fmt.Println(infoStyle.Render(fmt.Sprintf("Input: %s, %ds segments", cmd.Input, cmd.Duration)))

	task, err := runWithBar(rt.Store.SetUpdateCallback, model.TaskKindSlice, g.Quiet, func() error {
		return rt.Dispatcher.RunSliceVideo(ctx, cmd.options())
	})
	if err := report(task, err); err != nil {
		return err
	}

	if summary, err := worker.VerifyPlaylist(filepath.Join(task.OutputTarget, worker.PlaylistName)); err == nil {
		fmt.Println(infoStyle.Render(fmt.Sprintf("%d segments, %s total", summary.Segments,
			model.FormatDuration(summary.TotalDuration))))
	}
	if cmd.Open {
		return rt.Dispatcher.OpenOutput(model.TaskKindSlice)
	}
	return nil
}

type InfoCmd struct {
	Input string `arg:"" name:"input" help:"Media file" type:"existingfile"`
}

func (cmd *InfoCmd) Run(g *Globals, ctx context.Context) error {
	rt, _, closeFn, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	rt.Tracker.SetPath(cmd.Input)
	rt.Tracker.Wait()
	state := rt.Tracker.State()
	if state.Err != "" {
		fmt.Println(errorStyle.Render("❌ " + state.Err))
		return errors.New(state.Err)
	}
	if state.Info == nil {
		return fmt.Errorf("no media information for %s", cmd.Input)
	}

	fmt.Println(headerStyle.Render(filepath.Base(cmd.Input)))
	printInfo(os.Stdout, state)
	return nil
}

type OpenCmd struct {
	Path     string `arg:"" name:"path" help:"Folder to open, or a video with --segments" type:"path"`
	Segments bool   `help:"Open the segment directory of the video at path"`
}

func (cmd *OpenCmd) Run(g *Globals, ctx context.Context) error {
	rt, _, closeFn, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	if cmd.Segments {
		return rt.Dispatcher.OpenSliceOutput(cmd.Path)
	}
	return rt.Dispatcher.OpenFolder(cmd.Path)
}

// runWithBar renders slot kind while run executes and returns the final slot
func runWithBar(subscribe func(func(model.Task)), kind model.TaskKind, quiet bool, run func() error) (model.Task, error) {
	bar := newSlotBar(kind, os.Stderr, quiet)
	subscribe(bar.Update)
	defer func() {
		subscribe(nil)
		bar.Close()
	}()
	err := run()
	return bar.Last(), err
}

// report prints the outcome of one run
func report(task model.Task, err error) error {
	var verr *dispatch.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Println(errorStyle.Render("❌ " + verr.Error()))
		return err
	case err != nil || task.Status == model.TaskStatusError:
		msg := task.Message
		if msg == "" && err != nil {
			msg = err.Error()
		}
		fmt.Println(errorStyle.Render("❌ " + msg))
		if err == nil {
			err = errors.New(msg)
		}
		return err
	}
	fmt.Println(successStyle.Render("✅ " + task.Message))
	if task.OutputTarget != "" {
		fmt.Println(infoStyle.Render("Output: " + task.OutputTarget))
	}
	return nil
}

// printInfo writes the metadata fields of state, one per line
func printInfo(w io.Writer, state metadata.State) {
	m := state.Info
	rows := [][2]string{
		{"Duration", m.DurationString()},
		{"Size", m.SizeString()},
		{"Format", m.Format},
		{"Resolution", m.Resolution},
		{"Frame rate", m.FPSString()},
		{"Video codec", m.Codec},
		{"Bitrate", m.BitrateString()},
	}
	if m.AudioCodec != "" {
		rows = append(rows, [2]string{"Audio codec", m.AudioCodec})
	}
	if m.AudioChannels != nil {
		rows = append(rows, [2]string{"Audio channels", fmt.Sprint(*m.AudioChannels)})
	}
	if m.AudioBitrate != nil {
		rows = append(rows, [2]string{"Audio bitrate", model.FormatBitrate(*m.AudioBitrate)})
	}
	for _, r := range rows {
		value := r[1]
		if value == "" {
			value = "—"
		}
		fmt.Fprintln(w, labelStyle.Render(r[0])+value)
	}
}
