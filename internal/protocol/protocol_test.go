package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"reflect"
	"testing"
	"time"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value map[string]any
	}{
		{
			name:  "flat object",
			value: map[string]any{"action": "login", "count": float64(3), "ok": true},
		},
		{
			name: "nested object with list",
			value: map[string]any{
				"params": map[string]any{
					"keyword": "李",
					"ids":     []any{float64(1), float64(2)},
					"missing": nil,
				},
			},
		},
		{
			name:  "empty object",
			value: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := Encode(tt.value)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			var got map[string]any
			if err := Decode(bytes.NewReader(frame), &got); err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			if !reflect.DeepEqual(got, tt.value) {
				t.Errorf("round trip = %v, want %v", got, tt.value)
			}
		})
	}
}

func TestEncodeCanonicalizesTimes(t *testing.T) {
	examTime := time.Date(2024, 6, 18, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2024, 6, 18, 9, 30, 5, 0, time.UTC)

	frame, err := Encode(map[string]any{
		"exam_time":  examTime,
		"created_at": &createdAt,
		"scores":     []any{map[string]any{"when": createdAt}},
	})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var got map[string]any
	if err := Decode(bytes.NewReader(frame), &got); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if got["exam_time"] != "2024-06-18" {
		t.Errorf("exam_time = %v, want 2024-06-18", got["exam_time"])
	}
	if got["created_at"] != "2024-06-18 09:30:05" {
		t.Errorf("created_at = %v, want 2024-06-18 09:30:05", got["created_at"])
	}
	inner := got["scores"].([]any)[0].(map[string]any)
	if inner["when"] != "2024-06-18 09:30:05" {
		t.Errorf("nested time = %v, want 2024-06-18 09:30:05", inner["when"])
	}
}

func TestEncodeCanonicalizesStructs(t *testing.T) {
	type record struct {
		Name     string    `json:"name"`
		Birth    time.Time `json:"birth"`
		Internal string    `json:"-"`
		Empty    string    `json:"empty,omitempty"`
	}

	frame, err := Encode(record{
		Name:     "Zhang Wei",
		Birth:    time.Date(2003, 4, 1, 0, 0, 0, 0, time.UTC),
		Internal: "hidden",
	})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var got map[string]any
	if err := Decode(bytes.NewReader(frame), &got); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := map[string]any{"name": "Zhang Wei", "birth": "2003-04-01"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("struct encode = %v, want %v", got, want)
	}
}

func TestDecodeShortStream(t *testing.T) {
	frame, err := Encode(map[string]any{"action": "login"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	tests := []struct {
		name    string
		stream  []byte
		wantErr error
	}{
		{
			name:    "clean close before any frame",
			stream:  nil,
			wantErr: io.EOF,
		},
		{
			name:    "stream ends inside length word",
			stream:  frame[:2],
			wantErr: ErrShortFrame,
		},
		{
			name:    "stream ends inside payload",
			stream:  frame[:len(frame)-3],
			wantErr: ErrShortFrame,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]any
			err := Decode(bytes.NewReader(tt.stream), &got)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeMalformedPayload(t *testing.T) {
	payload := []byte("{not json")
	frame := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(frame[:4], uint32(len(payload)))
	copy(frame[4:], payload)

	var got map[string]any
	err := Decode(bytes.NewReader(frame), &got)
	if !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("Decode() error = %v, want ErrMalformedPayload", err)
	}
	if errors.Is(err, ErrShortFrame) {
		t.Errorf("malformed payload must not be reported as a framing short read")
	}
}

func TestResponseWireShape(t *testing.T) {
	resp := Fail("unknown action or insufficient privilege")
	frame, err := Encode(resp)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var got Response
	if err := Decode(bytes.NewReader(frame), &got); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Success {
		t.Errorf("Success = true, want false")
	}
	if got.Message != resp.Message {
		t.Errorf("Message = %q, want %q", got.Message, resp.Message)
	}

	ok := OK(map[string]any{"gpa": 3.7})
	frame, err = Encode(ok)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	var m map[string]any
	if err := Decode(bytes.NewReader(frame), &m); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if m["success"] != true {
		t.Errorf("success field = %v, want true", m["success"])
	}
	if m["gpa"] != 3.7 {
		t.Errorf("gpa field = %v, want 3.7 at top level", m["gpa"])
	}
	if _, present := m["message"]; present {
		t.Errorf("success response without message must omit the field")
	}
}

// Frame exchange over an actual connection pair.
func TestWriteReadOverPipe(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	want := Request{Action: "get_my_scores", Params: map[string]any{}}

	go func() {
		if err := Write(c1, want); err != nil {
			t.Errorf("Write() error = %v", err)
		}
	}()

	c2.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Request
	if err := Decode(c2, &got); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Action != want.Action {
		t.Errorf("Action = %q, want %q", got.Action, want.Action)
	}
}
