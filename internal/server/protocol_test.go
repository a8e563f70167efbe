package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/lawnchairsociety/cavemesh/internal/generator"
)

func TestMergeParams(t *testing.T) {
	defaults := generator.DefaultParams()

	p, err := mergeParams(defaults, nil)
	if err != nil || p != defaults {
		t.Fatalf("nil params: %+v, %v", p, err)
	}

	p, err = mergeParams(defaults, json.RawMessage(`{"seed":"x","connect_rooms":false,"square_size":2.5}`))
	if err != nil {
		t.Fatalf("mergeParams: %v", err)
	}
	if p.Seed != "x" || p.ConnectRooms || p.SquareSize != 2.5 {
		t.Errorf("overrides not applied: %+v", p)
	}
	if p.Width != defaults.Width || p.Smoothness != defaults.Smoothness {
		t.Errorf("defaults lost: %+v", p)
	}

	if _, err := mergeParams(defaults, json.RawMessage(`[1,2]`)); err == nil {
		t.Error("expected error for non-object params")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: 1x1", generator.ErrInvalidDimensions), CodeInvalidDimensions},
		{fmt.Errorf("%w: fill", generator.ErrInvalidParameter), CodeInvalidParameter},
		{generator.ErrEmptyRoomSet, CodeEmptyRoomSet},
		{errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		if got := errorCode(tt.err); got != tt.want {
			t.Errorf("errorCode(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
