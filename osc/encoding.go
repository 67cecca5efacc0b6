package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

////
// De/Encoding functions
////

// readPaddedString reads a null-terminated, 4-byte-padded string from buf.
// The padding bytes are consumed and not returned.
func readPaddedString(buf *bytes.Buffer) (string, error) {
	str, err := buf.ReadString(0)
	if err != nil {
		return "", fmt.Errorf("readPaddedString: %w: unterminated string", ErrMalformed)
	}

	pad := padBytesNeeded(len(str))
	if buf.Len() < pad {
		return "", fmt.Errorf("readPaddedString: %w: missing padding", ErrMalformed)
	}
	buf.Next(pad)

	return str[:len(str)-1], nil
}

// writePaddedString writes str to buf with a terminating null and padding up
// to the next 4-byte boundary.
func writePaddedString(str string, buf *bytes.Buffer) {
	buf.WriteString(str)
	buf.WriteByte(0)
	for i := padBytesNeeded(len(str) + 1); i > 0; i-- {
		buf.WriteByte(0)
	}
}

// readBlob reads a length-prefixed OSC blob from buf. The padding bytes are
// consumed and not returned.
func readBlob(buf *bytes.Buffer) ([]byte, error) {
	if buf.Len() < bit32Size {
		return nil, fmt.Errorf("readBlob: %w: missing length", ErrMalformed)
	}

	blobLen := int(binary.BigEndian.Uint32(buf.Next(bit32Size)))
	if blobLen < 0 || blobLen+padBytesNeeded(blobLen) > buf.Len() {
		return nil, fmt.Errorf("readBlob: %w: invalid blob length %d", ErrMalformed, blobLen)
	}

	b := make([]byte, blobLen)
	copy(b, buf.Next(blobLen))
	buf.Next(padBytesNeeded(blobLen))

	return b, nil
}

// writeBlob writes data as a length-prefixed OSC blob into buf. If the length
// of data isn't 32-bit aligned, padding bytes are added.
func writeBlob(data []byte, buf *bytes.Buffer) {
	var l [bit32Size]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(data)))
	buf.Write(l[:])
	buf.Write(data)
	for i := padBytesNeeded(len(data)); i > 0; i-- {
		buf.WriteByte(0)
	}
}

// padBytesNeeded determines how many bytes are needed to fill up to the next 4
// byte length.
func padBytesNeeded(elementLen int) int {
	return (4 - (elementLen % 4)) % 4
}
