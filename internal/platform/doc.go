package platform

// Package platform contains OS integration glue: opening folders in the
// system file manager, directory helpers, and locating the ffmpeg/ffprobe
// binaries the worker depends on.
