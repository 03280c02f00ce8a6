package model

// Package model defines the domain data structures shared across the app:
// per-kind task slots, progress events, video metadata and status enums.
// Task transitions are pure functions so the store, the UI and the CLI all
// derive presentation state the same way.
