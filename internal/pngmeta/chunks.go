package pngmeta

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"unicode/utf8"
)

// Keys written by the engine.
const (
	KeyWorkflow = "workflow"
	KeyPrompt   = "prompt"
)

const (
	typeText           = "tEXt"
	typeCompressedText = "zTXt"
	typeIntlText       = "iTXt"
	typeEnd            = "IEND"
)

var signature = []byte("\x89PNG\r\n\x1a\n")

var (
	// ErrNotPNG is returned for data without the PNG signature.
	ErrNotPNG = errors.New("not a PNG file")
	// ErrCorrupt is returned for truncated chunks and checksum mismatches.
	ErrCorrupt = errors.New("corrupt PNG chunk")
)

// Text is one textual metadata entry.
type Text struct {
	Keyword string
	Value   string
}

type chunk struct {
	typ  string
	data []byte
}

// IsPNG reports whether data starts with the PNG signature.
func IsPNG(data []byte) bool {
	return bytes.HasPrefix(data, signature)
}

// Decode returns the textual chunks of a PNG file in file order.
func Decode(data []byte) ([]Text, error) {
	chunks, err := split(data)
	if err != nil {
		return nil, err
	}
	var texts []Text
	for _, c := range chunks {
		t, ok, err := decodeText(c)
		if err != nil {
			return nil, err
		}
		if ok {
			texts = append(texts, t)
		}
	}
	return texts, nil
}

// Lookup returns the value of the first entry with keyword.
func Lookup(texts []Text, keyword string) (string, bool) {
	for _, t := range texts {
		if t.Keyword == keyword {
			return t.Value, true
		}
	}
	return "", false
}

// Embed writes data to w with a text chunk keyword=value placed before the
// image end. Existing text chunks with the same keyword are dropped.
func Embed(w io.Writer, data []byte, keyword, value string) error {
	if err := checkKeyword(keyword); err != nil {
		return err
	}
	chunks, err := split(data)
	if err != nil {
		return err
	}

	if _, err := w.Write(signature); err != nil {
		return err
	}
	written := false
	for _, c := range chunks {
		if t, ok, _ := decodeText(c); ok && t.Keyword == keyword {
			continue
		}
		if c.typ == typeEnd && !written {
			if err := writeChunk(w, encodeText(keyword, value)); err != nil {
				return err
			}
			written = true
		}
		if err := writeChunk(w, c); err != nil {
			return err
		}
	}
	return nil
}

func split(data []byte) ([]chunk, error) {
	if !IsPNG(data) {
		return nil, ErrNotPNG
	}
	rest := data[len(signature):]

	var chunks []chunk
	for len(rest) > 0 {
		if len(rest) < 12 {
			return nil, fmt.Errorf("%w: truncated chunk header", ErrCorrupt)
		}
		length := binary.BigEndian.Uint32(rest[:4])
		if uint64(length)+12 > uint64(len(rest)) {
			return nil, fmt.Errorf("%w: chunk length %d exceeds file", ErrCorrupt, length)
		}
		typ := string(rest[4:8])
		body := rest[8 : 8+length]
		sum := binary.BigEndian.Uint32(rest[8+length : 12+length])
		if crc32.ChecksumIEEE(rest[4:8+length]) != sum {
			return nil, fmt.Errorf("%w: checksum mismatch in %s", ErrCorrupt, typ)
		}
		chunks = append(chunks, chunk{typ: typ, data: body})
		rest = rest[12+length:]
		if typ == typeEnd {
			break
		}
	}
	if len(chunks) == 0 || chunks[len(chunks)-1].typ != typeEnd {
		return nil, fmt.Errorf("%w: missing %s", ErrCorrupt, typeEnd)
	}
	return chunks, nil
}

func writeChunk(w io.Writer, c chunk) error {
	var header [8]byte
	binary.BigEndian.PutUint32(header[:4], uint32(len(c.data)))
	copy(header[4:], c.typ)

	crc := crc32.NewIEEE()
	crc.Write(header[4:])
	crc.Write(c.data)
	var trailer [4]byte
	binary.BigEndian.PutUint32(trailer[:], crc.Sum32())

	for _, b := range [][]byte{header[:], c.data, trailer[:]} {
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

func decodeText(c chunk) (Text, bool, error) {
	switch c.typ {
	case typeText:
		key, value, ok := bytes.Cut(c.data, []byte{0})
		if !ok {
			return Text{}, false, fmt.Errorf("%w: %s without keyword separator", ErrCorrupt, c.typ)
		}
		return Text{Keyword: latin1(key), Value: latin1(value)}, true, nil

	case typeCompressedText:
		key, rest, ok := bytes.Cut(c.data, []byte{0})
		if !ok || len(rest) < 1 {
			return Text{}, false, fmt.Errorf("%w: %s without keyword separator", ErrCorrupt, c.typ)
		}
		value, err := inflate(rest[1:])
		if err != nil {
			return Text{}, false, err
		}
		return Text{Keyword: latin1(key), Value: latin1(value)}, true, nil

	case typeIntlText:
		key, rest, ok := bytes.Cut(c.data, []byte{0})
		if !ok || len(rest) < 2 {
			return Text{}, false, fmt.Errorf("%w: %s without keyword separator", ErrCorrupt, c.typ)
		}
		compressed := rest[0] == 1
		// Skip the language tag and translated keyword.
		_, rest, ok = bytes.Cut(rest[2:], []byte{0})
		if ok {
			_, rest, ok = bytes.Cut(rest, []byte{0})
		}
		if !ok {
			return Text{}, false, fmt.Errorf("%w: truncated %s", ErrCorrupt, c.typ)
		}
		if compressed {
			value, err := inflate(rest)
			if err != nil {
				return Text{}, false, err
			}
			rest = value
		}
		return Text{Keyword: latin1(key), Value: string(rest)}, true, nil
	}
	return Text{}, false, nil
}

// encodeText uses tEXt for Latin-1 values and iTXt otherwise.
func encodeText(keyword, value string) chunk {
	var buf bytes.Buffer
	buf.WriteString(keyword)
	buf.WriteByte(0)
	if isASCII(value) {
		buf.WriteString(value)
		return chunk{typ: typeText, data: buf.Bytes()}
	}
	// Uncompressed, no language tag, no translated keyword.
	buf.Write([]byte{0, 0, 0, 0})
	buf.WriteString(value)
	return chunk{typ: typeIntlText, data: buf.Bytes()}
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return out, nil
}

func checkKeyword(keyword string) error {
	if keyword == "" || len(keyword) > 79 {
		return fmt.Errorf("keyword must be 1 to 79 bytes, got %d", len(keyword))
	}
	for i := 0; i < len(keyword); i++ {
		if keyword[i] < 32 || keyword[i] > 126 {
			return fmt.Errorf("keyword %q must be printable ASCII", keyword)
		}
	}
	return nil
}

func latin1(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	r := make([]rune, len(b))
	for i, c := range b {
		r[i] = rune(c)
	}
	return string(r)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
