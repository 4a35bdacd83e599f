package export

import (
	"bytes"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// Format is a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// Compression is applied after encoding.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
)

var (
	// ErrUnsupportedFormat is returned for unknown format names.
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrUnsupportedCompression is returned for unknown compression names.
	ErrUnsupportedCompression = errors.New("unsupported compression")
)

// ParseFormat parses a format name. An empty name selects JSON.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatYAML, FormatCBOR:
		return Format(name), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// ParseCompression parses a compression name. An empty name selects none.
func ParseCompression(name string) (Compression, error) {
	switch Compression(name) {
	case "":
		return CompressionNone, nil
	case CompressionNone, CompressionZstd:
		return Compression(name), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedCompression, name)
}

// ContentType returns the MIME type of the encoded snapshot.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatYAML:
		return "application/yaml"
	case FormatCBOR:
		return "application/cbor"
	}
	return "application/json"
}

// cborEncMode uses Core Deterministic Encoding so identical boards produce
// identical bytes and checksums.
var cborEncMode cbor.EncMode

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	cborEncMode, err = encOptions.EncMode()
	if err != nil {
		panic("export: CBOR encoder initialization failed: " + err.Error())
	}

	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("export: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("export: zstd decoder initialization failed: " + err.Error())
	}
}

// Encode serializes snap in the given format.
func Encode(snap *Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(snap, "", "  ")
	case FormatYAML:
		return yaml.Marshal(snap)
	case FormatCBOR:
		return cborEncMode.Marshal(snap)
	case FormatCSV:
		return encodeCSV(snap)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

var csvHeader = []string{
	"project_id", "project", "ticket_id", "title", "status", "priority",
	"position", "due_date", "tasks", "tasks_done",
}

// encodeCSV writes one row per ticket. Tasks are summarized as counts.
func encodeCSV(snap *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, p := range snap.Projects {
		for _, tk := range p.Tickets {
			due := ""
			if tk.DueDate != nil {
				due = tk.DueDate.UTC().Format(time.RFC3339)
			}
			done := 0
			for _, task := range tk.Tasks {
				if task.Done {
					done++
				}
			}
			row := []string{
				strconv.FormatInt(p.ID, 10),
				p.Name,
				strconv.FormatInt(tk.ID, 10),
				tk.Title,
				tk.Status,
				tk.Priority,
				strconv.Itoa(tk.Position),
				due,
				strconv.Itoa(len(tk.Tasks)),
				strconv.Itoa(done),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Compress applies c to data.
func Compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone, "":
		return data, nil
	case CompressionZstd:
		return zstdEncoder.EncodeAll(data, nil), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedCompression, c)
}

// Decompress reverses Compress.
func Decompress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone, "":
		return data, nil
	case CompressionZstd:
		out, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedCompression, c)
}

// Checksum returns the hex BLAKE3-256 digest of data.
func Checksum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
