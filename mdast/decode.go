package mdast

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrDecode indicates the input could not be decoded as a syntax tree.
var ErrDecode = errors.New("invalid syntax tree")

// MaxDecodeSize limits the size of a JSON tree accepted by Decode (default 32MB).
var MaxDecodeSize int64 = 32 << 20

// Decode reads a remark-compatible JSON tree and links parent references.
// Position data and fields this package does not model are ignored.
func Decode(r io.Reader) (*Node, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDecodeSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return Unmarshal(data)
}

// Unmarshal decodes a JSON tree from data and links parent references.
func Unmarshal(data []byte) (*Node, error) {
	if int64(len(data)) > MaxDecodeSize {
		return nil, fmt.Errorf("%w: input exceeds %d bytes", ErrDecode, MaxDecodeSize)
	}
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if n.Type == "" {
		return nil, fmt.Errorf("%w: missing node type", ErrDecode)
	}
	Link(&n)
	return &n, nil
}
