package osc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	bit32Size = 4
	bit64Size = 8
)

// ErrMalformed reports a datagram that is not a well-formed OSC message.
// Such datagrams are dropped; they never terminate the receive loop.
var ErrMalformed = errors.New("malformed packet")

// Message represents a single OSC message. An OSC message consists of an OSC
// address pattern and zero or more arguments.
type Message struct {
	Address   string
	Arguments []interface{}
}

// NewMessage returns a new Message. The address parameter is the OSC address.
func NewMessage(addr string, args ...interface{}) *Message {
	return &Message{Address: addr, Arguments: args}
}

// Append appends the given arguments to the arguments list.
func (m *Message) Append(args ...interface{}) error {
	for _, a := range args {
		if ToTypeTag(a) == TypeInvalid {
			return fmt.Errorf("Append: unsupported type: %T", a)
		}
	}
	m.Arguments = append(m.Arguments, args...)
	return nil
}

// TypeTags returns the type tag string, including the leading comma.
func (m *Message) TypeTags() (string, error) {
	if m == nil {
		return "", fmt.Errorf("TypeTags: message is nil")
	}

	tags := make([]byte, 0, len(m.Arguments)+1)
	tags = append(tags, ',')
	for _, arg := range m.Arguments {
		t := ToTypeTag(arg)
		if t == TypeInvalid {
			return "", fmt.Errorf("TypeTags: unsupported type: %T", arg)
		}
		tags = append(tags, byte(t))
	}

	return string(tags), nil
}

// String implements the fmt.Stringer interface.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	tags, _ := m.TypeTags()

	var strBuf bytes.Buffer
	strBuf.WriteString(m.Address)
	if len(tags) <= 1 {
		return strBuf.String()
	}

	strBuf.WriteByte(' ')
	strBuf.WriteString(tags)

	for _, arg := range m.Arguments {
		switch arg := arg.(type) {
		case bool, int32, int64, float32, float64, string:
			fmt.Fprintf(&strBuf, " %v", arg)

		case nil:
			strBuf.WriteString(" Nil")

		case []byte:
			strBuf.WriteString(" blob")
		}
	}

	return strBuf.String()
}

// MarshalBinary serializes the OSC message to a byte slice with the following
// format:
// 1. OSC Address Pattern
// 2. OSC Type Tag String
// 3. OSC Arguments
func (m *Message) MarshalBinary() ([]byte, error) {
	tags, err := m.TypeTags()
	if err != nil {
		return nil, err
	}

	var data bytes.Buffer
	writePaddedString(m.Address, &data)
	writePaddedString(tags, &data)

	var scratch [bit64Size]byte
	for _, arg := range m.Arguments {
		switch t := arg.(type) {
		case bool, nil:
			// encoded entirely in the type tag

		case int32:
			binary.BigEndian.PutUint32(scratch[:bit32Size], uint32(t))
			data.Write(scratch[:bit32Size])

		case float32:
			binary.BigEndian.PutUint32(scratch[:bit32Size], math.Float32bits(t))
			data.Write(scratch[:bit32Size])

		case int64:
			binary.BigEndian.PutUint64(scratch[:], uint64(t))
			data.Write(scratch[:])

		case float64:
			binary.BigEndian.PutUint64(scratch[:], math.Float64bits(t))
			data.Write(scratch[:])

		case string:
			writePaddedString(t, &data)

		case []byte:
			writeBlob(t, &data)
		}
	}

	if data.Len() > MaxPacketSize {
		return nil, fmt.Errorf("MarshalBinary: packet too large: %d", data.Len())
	}

	return data.Bytes(), nil
}

// ParseMessage parses a single OSC message from a received datagram. It
// returns an error wrapping ErrMalformed if data is not a well-formed
// message.
func ParseMessage(data []byte) (*Message, error) {
	if len(data) == 0 || data[0] != '/' {
		return nil, fmt.Errorf("ParseMessage: %w: no address pattern", ErrMalformed)
	}

	if len(data)%bit32Size != 0 {
		return nil, fmt.Errorf("ParseMessage: %w: length %d not 32-bit aligned", ErrMalformed, len(data))
	}

	buf := bytes.NewBuffer(data)

	addr, err := readPaddedString(buf)
	if err != nil {
		return nil, fmt.Errorf("ParseMessage: %w", err)
	}

	m := &Message{Address: addr}
	if err = m.readArguments(buf); err != nil {
		return nil, fmt.Errorf("ParseMessage: %w", err)
	}

	return m, nil
}

// readArguments reads the type tag string and the declared arguments from buf.
func (m *Message) readArguments(buf *bytes.Buffer) error {
	if buf.Len() == 0 {
		return nil
	}

	typetags, err := readPaddedString(buf)
	if err != nil {
		return fmt.Errorf("readArguments: %w", err)
	}

	if len(typetags) == 0 {
		return nil
	}

	if typetags[0] != ',' {
		return fmt.Errorf("readArguments: %w: invalid type tag string %q", ErrMalformed, typetags)
	}

	if len(typetags) == 1 {
		return nil
	}

	m.Arguments = make([]interface{}, 0, len(typetags)-1)

	for _, c := range typetags[1:] {
		switch TypeTag(c) {
		default:
			return fmt.Errorf("readArguments: %w: unknown type tag %q", ErrMalformed, c)

		case TypeInt32:
			if buf.Len() < bit32Size {
				return fmt.Errorf("readArguments: %w: truncated int32", ErrMalformed)
			}
			m.Arguments = append(m.Arguments, int32(binary.BigEndian.Uint32(buf.Next(bit32Size))))

		case TypeInt64:
			if buf.Len() < bit64Size {
				return fmt.Errorf("readArguments: %w: truncated int64", ErrMalformed)
			}
			m.Arguments = append(m.Arguments, int64(binary.BigEndian.Uint64(buf.Next(bit64Size))))

		case TypeFloat32:
			if buf.Len() < bit32Size {
				return fmt.Errorf("readArguments: %w: truncated float32", ErrMalformed)
			}
			m.Arguments = append(m.Arguments, math.Float32frombits(binary.BigEndian.Uint32(buf.Next(bit32Size))))

		case TypeFloat64:
			if buf.Len() < bit64Size {
				return fmt.Errorf("readArguments: %w: truncated float64", ErrMalformed)
			}
			m.Arguments = append(m.Arguments, math.Float64frombits(binary.BigEndian.Uint64(buf.Next(bit64Size))))

		case TypeString:
			str, err := readPaddedString(buf)
			if err != nil {
				return fmt.Errorf("readArguments: %w", err)
			}
			m.Arguments = append(m.Arguments, str)

		case TypeBlob:
			b, err := readBlob(buf)
			if err != nil {
				return fmt.Errorf("readArguments: %w", err)
			}
			m.Arguments = append(m.Arguments, b)

		case TypeNil:
			m.Arguments = append(m.Arguments, nil)

		case TypeTrue:
			m.Arguments = append(m.Arguments, true)

		case TypeFalse:
			m.Arguments = append(m.Arguments, false)
		}
	}

	return nil
}
