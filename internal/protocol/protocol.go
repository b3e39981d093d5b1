package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// Frame read/write errors (fatal to the connection)
	ErrShortFrame       = errors.New("connection closed mid frame")
	ErrMalformedPayload = errors.New("malformed frame payload")
)

// Request is the client-to-server wire shape: an action name plus
// action-specific parameters.
type Request struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

// Response is the server-to-client wire shape. Success and Message are
// fixed fields; everything in Data is flattened into the top-level
// object next to them.
type Response struct {
	Success bool
	Message string
	Data    map[string]any
}

// OK builds a success response carrying the given top-level fields.
func OK(data map[string]any) *Response {
	return &Response{Success: true, Data: data}
}

// OKMessage builds a success response with only a message.
func OKMessage(message string) *Response {
	return &Response{Success: true, Message: message}
}

// Fail builds a failure response. A failed response always carries a
// human-readable message.
func Fail(message string) *Response {
	return &Response{Success: false, Message: message}
}

func Failf(format string, args ...any) *Response {
	return Fail(fmt.Sprintf(format, args...))
}

// wireMap flattens the response into a single JSON object.
func (r *Response) wireMap() map[string]any {
	m := make(map[string]any, len(r.Data)+2)
	for k, v := range r.Data {
		m[k] = v
	}
	m["success"] = r.Success
	if r.Message != "" {
		m["message"] = r.Message
	}
	return m
}

func (r *Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(canonicalize(r.wireMap()))
}

func (r *Response) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if success, ok := m["success"].(bool); ok {
		r.Success = success
	}
	if message, ok := m["message"].(string); ok {
		r.Message = message
	}
	delete(m, "success")
	delete(m, "message")
	r.Data = m
	return nil
}

// Encode serializes v as a length-prefixed frame: a 4-byte big-endian
// payload length followed by the UTF-8 JSON payload. Date and time
// values are rendered as canonical strings first.
//
// No maximum payload length is enforced; the length word is entirely
// peer-controlled. That is a known limitation of the protocol, kept
// deliberately.
func Encode(v any) ([]byte, error) {
	payload, err := json.Marshal(canonicalize(v))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	frame := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(frame[:4], uint32(len(payload)))
	copy(frame[4:], payload)
	return frame, nil
}

// Write encodes v and writes the full frame to w.
func Write(w io.Writer, v any) error {
	frame, err := Encode(v)
	if err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// ReadPayload reads exactly one frame from r and returns the raw
// payload bytes. A clean close between frames returns io.EOF; a stream
// that ends inside the length word or the payload returns ErrShortFrame.
func ReadPayload(r io.Reader) ([]byte, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: %v", ErrShortFrame, err)
	}
	length := binary.BigEndian.Uint32(head[:])
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShortFrame, err)
	}
	return payload, nil
}

// Decode reads one frame from r and unmarshals its payload into v.
func Decode(r io.Reader, v any) error {
	payload, err := ReadPayload(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}
