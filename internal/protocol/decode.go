package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Protocol errors: the frame is dropped, the connection stays alive
var (
	ErrMalformedFrame = errors.New("malformed frame")
	ErrUnknownType    = errors.New("unknown message type")
	ErrMissingField   = errors.New("missing required field")
)

// envelope is the minimal structure every frame must carry
type envelope struct {
	Type string `json:"type"`
}

// DecodeClientMessage parses a single inbound frame into the client message
// union. Decoding happens exactly once here; everything past this boundary
// works with typed values.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch env.Type {
	case TypeClientReady:
		return Ready{}, nil

	case TypeClientInvite:
		var msg Invite
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
		}
		if msg.Opponent == "" {
			return nil, fmt.Errorf("%w: opponent", ErrMissingField)
		}
		return msg, nil

	case TypeClientAcceptInvite:
		var msg AcceptInvite
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
		}
		if msg.From == "" {
			return nil, fmt.Errorf("%w: from", ErrMissingField)
		}
		return msg, nil

	case TypeClientRejectInvite:
		var msg RejectInvite
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
		}
		if msg.From == "" {
			return nil, fmt.Errorf("%w: from", ErrMissingField)
		}
		return msg, nil

	case TypeClientPlay:
		var msg struct {
			Col *int `json:"col"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
		}
		if msg.Col == nil {
			return nil, fmt.Errorf("%w: col", ErrMissingField)
		}
		return Play{Col: *msg.Col}, nil

	case "":
		return nil, fmt.Errorf("%w: type", ErrMissingField)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

// EncodeServerMessage marshals a server frame for the wire
func EncodeServerMessage(msg ServerMessage) ([]byte, error) {
	return json.Marshal(msg)
}
