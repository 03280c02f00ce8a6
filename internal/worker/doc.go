package worker

// Package worker runs the media commands (extract-audio, slice-video,
// get-video-info, open-folder) through ffmpeg and ffprobe subprocesses and
// publishes tagged progress events while they run.
