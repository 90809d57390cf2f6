package codec

import (
	"encoding/binary"

	"marketlink/pkg/exception"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/errors"
)

// FrameType is the first byte of every stream frame.
type FrameType uint8

const (
	FrameRequest  FrameType = 1
	FrameResponse FrameType = 2
	FramePush     FrameType = 3
)

const (
	RequestHeaderSize  = 6
	ResponseHeaderSize = 7
	PushHeaderSize     = 2
)

// StatusOK is the status byte of a successful response.
const StatusOK uint8 = 0

// Frame is a decoded stream frame. Body aliases the decoded buffer.
type Frame struct {
	Type      FrameType
	Command   Command
	RequestID uint32
	Status    uint8
	Body      []byte
}

// EncodeRequest appends a request frame to dst.
func EncodeRequest(dst []byte, cmd Command, reqID uint32, body []byte) []byte {
	dst = grow(dst, RequestHeaderSize+len(body))
	dst[0] = byte(FrameRequest)
	dst[1] = byte(cmd)
	binary.BigEndian.PutUint32(dst[2:6], reqID)
	copy(dst[RequestHeaderSize:], body)
	return dst
}

// EncodeResponse appends a response frame to dst.
func EncodeResponse(dst []byte, cmd Command, reqID uint32, status uint8, body []byte) []byte {
	dst = grow(dst, ResponseHeaderSize+len(body))
	dst[0] = byte(FrameResponse)
	dst[1] = byte(cmd)
	binary.BigEndian.PutUint32(dst[2:6], reqID)
	dst[6] = status
	copy(dst[ResponseHeaderSize:], body)
	return dst
}

// EncodePush appends a push frame to dst.
func EncodePush(dst []byte, cmd Command, body []byte) []byte {
	dst = grow(dst, PushHeaderSize+len(body))
	dst[0] = byte(FramePush)
	dst[1] = byte(cmd)
	copy(dst[PushHeaderSize:], body)
	return dst
}

func grow(dst []byte, size int) []byte {
	if cap(dst) < size {
		return make([]byte, size)
	}
	return dst[:size]
}

// DecodeFrame parses one stream frame.
func DecodeFrame(src []byte) (Frame, error) {
	if len(src) < PushHeaderSize {
		return Frame{}, exception.ErrWebSocketFrameTooShort
	}

	switch FrameType(src[0]) {
	case FrameRequest:
		if len(src) < RequestHeaderSize {
			return Frame{}, exception.ErrWebSocketFrameTooShort
		}
		return Frame{
			Type:      FrameRequest,
			Command:   Command(src[1]),
			RequestID: binary.BigEndian.Uint32(src[2:6]),
			Body:      src[RequestHeaderSize:],
		}, nil
	case FrameResponse:
		if len(src) < ResponseHeaderSize {
			return Frame{}, exception.ErrWebSocketFrameTooShort
		}
		return Frame{
			Type:      FrameResponse,
			Command:   Command(src[1]),
			RequestID: binary.BigEndian.Uint32(src[2:6]),
			Status:    src[6],
			Body:      src[ResponseHeaderSize:],
		}, nil
	case FramePush:
		return Frame{
			Type:    FramePush,
			Command: Command(src[1]),
			Body:    src[PushHeaderSize:],
		}, nil
	default:
		return Frame{}, errors.Wrapf(exception.ErrWebSocketUnknownFrame, "type: %d", src[0])
	}
}

type wireError struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// Err returns the remote rejection carried by a response, or nil.
func (f Frame) Err() error {
	if f.Type != FrameResponse || f.Status == StatusOK {
		return nil
	}

	var w wireError
	if err := sonic.ConfigFastest.Unmarshal(f.Body, &w); err != nil || w.Code == 0 {
		return &exception.RemoteError{Code: int64(f.Status), Message: string(f.Body)}
	}
	return &exception.RemoteError{Code: w.Code, Message: w.Message, TraceID: w.TraceID}
}

// EncodeError builds the body of a rejected response.
func EncodeError(code int64, message string) []byte {
	b, _ := sonic.ConfigFastest.Marshal(wireError{Code: code, Message: message})
	return b
}
