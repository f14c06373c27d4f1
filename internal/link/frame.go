package link

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

var (
	ErrFrameTooLarge  = errors.New("frame exceeds maximum size")
	ErrMalformedFrame = errors.New("malformed frame")
)

// maxLengthDigits bounds the decimal length prefix.
const maxLengthDigits = 10

// FrameReader splits a byte stream into netstring frames
// ("<len>:<payload>,"). A partial frame is never returned.
type FrameReader struct {
	r   *bufio.Reader
	max int
}

func NewFrameReader(r io.Reader, max int) *FrameReader {
	return &FrameReader{r: bufio.NewReader(r), max: max}
}

func (f *FrameReader) ReadFrame() ([]byte, error) {
	n, err := f.readLength()
	if err != nil {
		return nil, err
	}
	if f.max > 0 && n > f.max {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, n, f.max)
	}

	buf := make([]byte, n+1)
	if _, err := io.ReadFull(f.r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if buf[n] != ',' {
		return nil, fmt.Errorf("%w: missing trailing comma", ErrMalformedFrame)
	}
	return buf[:n], nil
}

func (f *FrameReader) readLength() (int, error) {
	n, digits := 0, 0
	for {
		c, err := f.r.ReadByte()
		if err != nil {
			if digits > 0 && errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}
		switch {
		case c == ':':
			if digits == 0 {
				return 0, fmt.Errorf("%w: empty length", ErrMalformedFrame)
			}
			return n, nil
		case c >= '0' && c <= '9':
			if digits == 1 && n == 0 {
				return 0, fmt.Errorf("%w: leading zero", ErrMalformedFrame)
			}
			digits++
			if digits > maxLengthDigits {
				return 0, fmt.Errorf("%w: length too long", ErrMalformedFrame)
			}
			n = n*10 + int(c-'0')
		default:
			return 0, fmt.Errorf("%w: unexpected byte 0x%02X in length", ErrMalformedFrame, c)
		}
	}
}
