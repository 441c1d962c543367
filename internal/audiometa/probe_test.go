package audiometa

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// id3v23 builds a minimal ID3v2.3 tag containing the given text frames.
func id3v23(frames map[string]string) []byte {
	var body bytes.Buffer
	for id, text := range frames {
		body.WriteString(id)
		var size [4]byte
		binary.BigEndian.PutUint32(size[:], uint32(1+len(text)))
		body.Write(size[:])
		body.Write([]byte{0, 0}) // frame flags
		body.WriteByte(0)        // ISO-8859-1 text encoding
		body.WriteString(text)
	}

	var out bytes.Buffer
	out.WriteString("ID3")
	out.Write([]byte{3, 0, 0}) // v2.3, no header flags
	n := body.Len()
	out.Write([]byte{ // synchsafe tag size
		byte(n >> 21 & 0x7f),
		byte(n >> 14 & 0x7f),
		byte(n >> 7 & 0x7f),
		byte(n & 0x7f),
	})
	out.Write(body.Bytes())
	return out.Bytes()
}

func TestProbeReadsID3Tags(t *testing.T) {
	data := id3v23(map[string]string{
		"TIT2": "Night Drive",
		"TPE1": "The Headlights",
	})

	info, err := Probe(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if info.Title != "Night Drive" {
		t.Errorf("title = %q, want Night Drive", info.Title)
	}
	if info.Artist != "The Headlights" {
		t.Errorf("artist = %q, want The Headlights", info.Artist)
	}
	if info.Format == "" {
		t.Error("format should be detected for ID3-tagged audio")
	}
}

func TestProbeRejectsUnknownData(t *testing.T) {
	if _, err := Probe(bytes.NewReader([]byte("not audio at all"))); err == nil {
		t.Error("expected an error for untagged data")
	}
}
