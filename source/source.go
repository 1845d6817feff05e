// Input sources for the ingestion engine.
//
// A source is something that yields collector-format text: a plain file, the
// standard input stream (named "-"), or a Kafka topic carrying collector
// output (named "kafka://broker/topic").  Files can be rewound after the
// bootstrap pass; live streams cannot, which costs them the first data
// block.

package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JamesSCrook/pma/status"
)

const StdinName = "-"

type Source interface {
	Name() string

	// Reader returns the stream to scan.  After a successful Rewind the
	// same reader reads from the start again.
	Reader() io.Reader

	// Rewind repositions a rewindable source at its beginning and returns
	// true; it returns false, with no error, for live streams.
	Rewind() (bool, error)

	Close() error
}

// Open opens an input source by name.
func Open(name string, log status.Logger) (Source, error) {
	switch {
	case name == StdinName:
		return &stdinSource{}, nil
	case strings.HasPrefix(name, kafkaScheme):
		return openKafka(name, log)
	default:
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("Could not open input file '%s': %w", name, err)
		}
		return &fileSource{name: name, f: f}, nil
	}
}

type fileSource struct {
	name string
	f    *os.File
}

func (fs *fileSource) Name() string {
	return fs.name
}

func (fs *fileSource) Reader() io.Reader {
	return fs.f
}

func (fs *fileSource) Rewind() (bool, error) {
	_, err := fs.f.Seek(0, io.SeekStart)
	return true, err
}

func (fs *fileSource) Close() error {
	return fs.f.Close()
}

type stdinSource struct{}

func (ss *stdinSource) Name() string {
	return StdinName
}

func (ss *stdinSource) Reader() io.Reader {
	return os.Stdin
}

func (ss *stdinSource) Rewind() (bool, error) {
	return false, nil
}

func (ss *stdinSource) Close() error {
	// Leave stdin open, a later "-" argument would be pointless anyway.
	return nil
}
