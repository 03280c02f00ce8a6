package model

import (
	"errors"
	"testing"
)

func TestDecodeProgressEvent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ProgressEvent
		wantErr  bool
	}{
		{
			name:     "tagged slice",
			input:    `{"progress":12.5,"message":"Slicing video...","task":"slice"}`,
			expected: ProgressEvent{Progress: 12.5, Message: "Slicing video...", Task: TaskKindSlice},
		},
		{
			name:     "untagged",
			input:    `{"progress":50,"message":"half"}`,
			expected: ProgressEvent{Progress: 50, Message: "half"},
		},
		{
			name:     "null tag",
			input:    `{"progress":0,"message":"start","task":null}`,
			expected: ProgressEvent{Progress: 0, Message: "start"},
		},
		{name: "missing progress", input: `{"message":"x","task":"extract"}`, wantErr: true},
		{name: "missing message", input: `{"progress":1}`, wantErr: true},
		{name: "out of range", input: `{"progress":101,"message":"x"}`, wantErr: true},
		{name: "negative", input: `{"progress":-1,"message":"x"}`, wantErr: true},
		{name: "unknown tag", input: `{"progress":1,"message":"x","task":"compress"}`, wantErr: true},
		{name: "not json", input: `progress=1`, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := DecodeProgressEvent([]byte(test.input))
			if test.wantErr {
				if !errors.Is(err, ErrMalformedEvent) {
					t.Fatalf("expected ErrMalformedEvent, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != test.expected {
				t.Errorf("got %+v, expected %+v", got, test.expected)
			}
		})
	}
}

func TestProgressEvent_Kind(t *testing.T) {
	if k := NewProgressEvent(TaskKindDefault, 1, "x").Kind(); k != TaskKindDefault {
		t.Errorf("Kind() = %s, expected default", k)
	}
	if NewProgressEvent(TaskKindDefault, 1, "x").Tagged() {
		t.Error("default events must not carry a tag")
	}
	if k := NewProgressEvent(TaskKindExtract, 1, "x").Kind(); k != TaskKindExtract {
		t.Errorf("Kind() = %s, expected extract", k)
	}
}

func TestEncodeProgressEvent(t *testing.T) {
	data, err := EncodeProgressEvent(NewProgressEvent(TaskKindDefault, 100, "done"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"progress":100,"message":"done"}` {
		t.Errorf("unexpected encoding %s", data)
	}
}
