// Kafka input sources.  The collector can ship its output to a Kafka topic
// instead of (or in addition to) files; each record value is a chunk of
// collector-format text.  pma treats the topic as one continuous live
// stream: it is not rewindable and it never ends on its own, the run is
// ended by terminating the process.

package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/JamesSCrook/pma/status"
)

const (
	kafkaScheme        = "kafka://"
	kafkaConsumerGroup = "pma-ingest"
)

type kafkaSource struct {
	name   string
	client *kgo.Client
	reader *recordReader
}

func openKafka(name string, log status.Logger) (Source, error) {
	rest := strings.TrimPrefix(name, kafkaScheme)
	broker, topic, found := strings.Cut(rest, "/")
	if !found || broker == "" || topic == "" {
		return nil, fmt.Errorf("Bad kafka source '%s': want kafka://broker/topic", name)
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumerGroup(kafkaConsumerGroup),
		kgo.ConsumeTopics(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("Could not connect to kafka source '%s': %w", name, err)
	}
	ks := &kafkaSource{name: name, client: client}
	ks.reader = newRecordReader(func() ([][]byte, error) {
		fetches := client.PollFetches(context.Background())
		if fetches.IsClientClosed() {
			return nil, io.EOF
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			// Retriable errors are handled inside the client; these are the
			// ones the user should see, but the stream keeps going.
			log.Errorf("%s: Failed to fetch data: %v", name, errs)
		}
		var values [][]byte
		iter := fetches.RecordIter()
		for !iter.Done() {
			values = append(values, iter.Next().Value)
		}
		return values, nil
	})
	return ks, nil
}

func (ks *kafkaSource) Name() string {
	return ks.name
}

func (ks *kafkaSource) Reader() io.Reader {
	return ks.reader
}

func (ks *kafkaSource) Rewind() (bool, error) {
	return false, nil
}

func (ks *kafkaSource) Close() error {
	ks.client.Close()
	return nil
}

// recordReader adapts a polled record stream to io.Reader.  Record values
// are concatenated in arrival order; a value without a trailing newline gets
// one, so that a record boundary is never glued into the middle of a line.
type recordReader struct {
	poll func() ([][]byte, error)
	buf  []byte
}

func newRecordReader(poll func() ([][]byte, error)) *recordReader {
	return &recordReader{poll: poll}
}

func (r *recordReader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		values, err := r.poll()
		if err != nil {
			return 0, err
		}
		for _, v := range values {
			r.buf = append(r.buf, v...)
			if len(v) > 0 && v[len(v)-1] != '\n' {
				r.buf = append(r.buf, '\n')
			}
		}
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
