package tag

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/bogem/id3v2/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const syltFrameID = "SYLT"

// ID3 text encodings.
const (
	encodingLatin1  = 0
	encodingUTF16   = 1
	encodingUTF16BE = 2
	encodingUTF8    = 3
)

// syltMilliseconds is the SYLT timestamp format for absolute milliseconds. The other
// format counts MPEG frames and cannot be turned into clock time without the stream.
const syltMilliseconds = 2

var errShortFrame = errors.New("truncated SYLT frame")

// ReadSyncedLyrics returns the synchronised lyrics (SYLT) of an MP3 file as LRC text,
// or "" if the file has none.
func (r *TagReader) ReadSyncedLyrics(filePath string) (string, error) {
	t, err := id3v2.Open(filePath, id3v2.Options{Parse: true})
	if err != nil {
		return "", fmt.Errorf("failed to read id3 tag: %w", err)
	}
	defer t.Close()

	for _, f := range t.GetFrames(syltFrameID) {
		var body []byte
		switch frame := f.(type) {
		case id3v2.UnknownFrame:
			body = frame.Body
		case *id3v2.UnknownFrame:
			body = frame.Body
		default:
			continue
		}
		lrc, err := parseSYLT(body)
		if err != nil {
			return "", err
		}
		if lrc != "" {
			return lrc, nil
		}
	}
	return "", nil
}

// parseSYLT converts a SYLT frame body to LRC lines.
func parseSYLT(body []byte) (string, error) {
	// encoding, language[3], timestamp format, content type
	if len(body) < 6 {
		return "", errShortFrame
	}
	enc := body[0]
	if body[4] != syltMilliseconds {
		return "", nil
	}

	_, rest, err := cutText(body[6:], enc)
	if err != nil {
		return "", err
	}

	var lines []string
	for len(rest) > 0 {
		text, tail, err := cutText(rest, enc)
		if err != nil {
			return "", err
		}
		if len(tail) < 4 {
			return "", errShortFrame
		}
		ms := binary.BigEndian.Uint32(tail[:4])
		rest = tail[4:]
		lines = append(lines, fmt.Sprintf("[%02d:%02d.%02d]%s", ms/60000, ms/1000%60, ms%1000/10, strings.TrimSpace(text)))
	}
	return strings.Join(lines, "\n"), nil
}

// cutText splits a terminated string in the given encoding off the front of b.
func cutText(b []byte, enc byte) (string, []byte, error) {
	switch enc {
	case encodingLatin1, encodingUTF8:
		i := bytes.IndexByte(b, 0)
		if i < 0 {
			return "", nil, errShortFrame
		}
		raw, tail := b[:i], b[i+1:]
		if enc == encodingUTF8 {
			return string(raw), tail, nil
		}
		text, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		return string(text), tail, err
	case encodingUTF16, encodingUTF16BE:
		i := 0
		for ; i+1 < len(b); i += 2 {
			if b[i] == 0 && b[i+1] == 0 {
				break
			}
		}
		if i+1 >= len(b) {
			return "", nil, errShortFrame
		}
		raw, tail := b[:i], b[i+2:]
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		if enc == encodingUTF16BE {
			decoder = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
		}
		text, err := decoder.Bytes(raw)
		return string(text), tail, err
	}
	return "", nil, fmt.Errorf("unknown text encoding %d", enc)
}
