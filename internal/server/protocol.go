package server

import (
	"encoding/json"
	"errors"

	"github.com/lawnchairsociety/cavemesh/internal/generator"
	"github.com/lawnchairsociety/cavemesh/internal/marching"
)

// Message types.
const (
	TypeGenerate = "generate"
	TypePing     = "ping"
	TypePong     = "pong"
	TypeResult   = "result"
	TypeError    = "error"
)

// Error codes sent in ErrorMessage.Code.
const (
	CodeInvalidDimensions = "invalid_dimensions"
	CodeInvalidParameter  = "invalid_parameter"
	CodeEmptyRoomSet      = "empty_room_set"
	CodeBadRequest        = "bad_request"
	CodeRateLimited       = "rate_limited"
	CodeInternal          = "internal"
)

// Request is an inbound client message.
type Request struct {
	Type string `json:"type"`

	// Params overrides the server defaults field by field.
	Params json.RawMessage `json:"params,omitempty"`
}

// ResultMessage carries a generated cave.
type ResultMessage struct {
	Type        string                  `json:"type"`
	RunID       int64                   `json:"run_id,omitempty"`
	Seed        string                  `json:"seed"`
	Fingerprint string                  `json:"fingerprint"`
	Width       int                     `json:"width"`
	Height      int                     `json:"height"`
	Grid        []string                `json:"grid"` // row 0 is y = 0
	Rooms       []generator.RoomSummary `json:"rooms"`
	Floor       marching.Mesh           `json:"floor"`
	Walls       marching.Mesh           `json:"walls"`
	Outlines    [][]int                 `json:"outlines"`
}

// ErrorMessage reports a failed request.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
	Code  string `json:"code"`
}

// TypeOnly is a message with no payload, such as pong.
type TypeOnly struct {
	Type string `json:"type"`
}

func newResultMessage(res *generator.Result, runID int64) ResultMessage {
	return ResultMessage{
		Type:        TypeResult,
		RunID:       runID,
		Seed:        res.Seed,
		Fingerprint: res.Fingerprint,
		Width:       res.Grid.Width(),
		Height:      res.Grid.Height(),
		Grid:        res.Grid.Rows(),
		Rooms:       res.Rooms,
		Floor:       res.Floor,
		Walls:       res.Walls,
		Outlines:    res.Outlines,
	}
}

func newErrorMessage(code string, err error) ErrorMessage {
	return ErrorMessage{Type: TypeError, Error: err.Error(), Code: code}
}

// errorCode maps generator errors onto protocol codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, generator.ErrInvalidDimensions):
		return CodeInvalidDimensions
	case errors.Is(err, generator.ErrInvalidParameter):
		return CodeInvalidParameter
	case errors.Is(err, generator.ErrEmptyRoomSet):
		return CodeEmptyRoomSet
	default:
		return CodeInternal
	}
}

// mergeParams decodes raw over a copy of defaults, so omitted fields keep
// their default values.
func mergeParams(defaults generator.Params, raw json.RawMessage) (generator.Params, error) {
	p := defaults
	if len(raw) == 0 || string(raw) == "null" {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return defaults, err
	}
	return p, nil
}
