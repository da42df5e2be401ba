package capture

import (
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcapgo"

	"github.com/jamesb5959/cicflowmeter/internal/flow"
)

// FileSource replays packets from a pcap or pcapng capture file. Timestamps
// come from the capture, so offline runs are deterministic.
type FileSource struct {
	f   *os.File
	r   *pcapgo.Reader
	ng  *pcapgo.NgReader
	dec *Decoder
}

// OpenFile opens a capture file, trying the classic pcap format first and
// falling back to pcapng.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}

	if r, err := pcapgo.NewReader(f); err == nil {
		return &FileSource{f: f, r: r, dec: NewDecoder(r.LinkType())}, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rewind capture file: %w", err)
	}
	ng, err := pcapgo.NewNgReader(f, pcapgo.DefaultNgReaderOptions)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("unrecognized capture format in %s: %w", path, err)
	}
	return &FileSource{f: f, ng: ng, dec: NewDecoder(ng.LinkType())}, nil
}

// Next reads and decodes the next packet. Returns io.EOF at end of file.
func (s *FileSource) Next() (*flow.Packet, error) {
	var (
		data []byte
		ci   gopacket.CaptureInfo
		err  error
	)
	if s.r != nil {
		data, ci, err = s.r.ReadPacketData()
	} else {
		data, ci, err = s.ng.ReadPacketData()
	}
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read packet: %w", err)
	}
	return s.dec.Decode(data, ci.Timestamp)
}

// Close closes the underlying file.
func (s *FileSource) Close() error {
	return s.f.Close()
}
