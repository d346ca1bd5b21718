package socket

import (
	"bytes"
	"compress/zlib"
	"encoding/json"
	"fmt"
	"io"
)

// Packet is the framed envelope carried in binary WebSocket messages,
// zlib-compressed JSON in both directions.
type Packet struct {
	Event EventType       `json:"e"`
	Data  json.RawMessage `json:"d"`
}

// compressionLevel matches the deflate level game servers use.
const compressionLevel = 6

// EncodePacket serializes and compresses an outbound packet.
func EncodePacket(event EventType, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", event, err)
	}
	body, err := json.Marshal(Packet{Event: event, Data: raw})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	writer, err := zlib.NewWriterLevel(&buf, compressionLevel)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(body); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodePacket decompresses and parses an inbound frame. The payload stays
// raw; the router decodes it against the routed event's type.
func DecodePacket(frame []byte) (*Packet, error) {
	reader, err := zlib.NewReader(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("inflate frame: %w", err)
	}
	defer reader.Close()
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("inflate frame: %w", err)
	}
	var packet Packet
	if err := json.Unmarshal(body, &packet); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &packet, nil
}
