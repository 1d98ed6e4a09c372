package pullpart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badu/pullpart"
)

type recordedEvent struct {
	kind    pullpart.Event
	name    string
	value   string
	content []byte
}

// drain adds chunks to dec in order, one Add call per chunk (a nil or
// empty chunks means the body was already added), and collects the full
// event/content trace.
func drain(t *testing.T, dec *pullpart.Decoder, chunks [][]byte) []recordedEvent {
	t.Helper()
	var events []recordedEvent
	pending := 0

	for pending < len(chunks) || true {
		if pending < len(chunks) {
			require.NoError(t, dec.Add(chunks[pending]))
			pending++
		}
		ev, err := dec.Next()
		if err != nil {
			t.Fatalf("unexpected decode error: %v", err)
		}
		if ev == pullpart.EventNone {
			if pending >= len(chunks) {
				return events
			}
			continue
		}
		re := recordedEvent{kind: ev}
		switch ev {
		case pullpart.Header:
			name, err := dec.HeaderName()
			require.NoError(t, err)
			value, err := dec.HeaderValue()
			require.NoError(t, err)
			re.name, re.value = name, value
		case pullpart.Content:
			c, err := dec.DecodedContent()
			require.NoError(t, err)
			re.content = append([]byte{}, c...)
		}
		events = append(events, re)
	}
	return events
}

func splitEveryByte(body []byte) [][]byte {
	out := make([][]byte, len(body))
	for i, b := range body {
		out[i] = []byte{b}
	}
	return out
}

func eventKinds(events []recordedEvent) []pullpart.Event {
	out := make([]pullpart.Event, len(events))
	for i, e := range events {
		out[i] = e.kind
	}
	return out
}

func contentOf(events []recordedEvent) []byte {
	var out []byte
	for _, e := range events {
		if e.kind == pullpart.Content {
			out = append(out, e.content...)
		}
	}
	return out
}

const s1Body = "--X\r\n" +
	"Content-Disposition: form-data; name=\"a\"\r\n" +
	"\r\n" +
	"hello\r\n" +
	"--X\r\n" +
	"Content-Disposition: form-data; name=\"b\"\r\n" +
	"\r\n" +
	"world\r\n" +
	"--X--"

func TestS1TwoFormFields(t *testing.T) {
	t.Parallel()

	dec, err := pullpart.ForMultipartBoundary("X")
	require.NoError(t, err)

	events := drain(t, dec, [][]byte{[]byte(s1Body)})

	kinds := eventKinds(events)
	assert.Equal(t, []pullpart.Event{
		pullpart.BeginField, pullpart.Header, pullpart.HeadersComplete, pullpart.Content, pullpart.FieldComplete,
		pullpart.BeginField, pullpart.Header, pullpart.HeadersComplete, pullpart.Content, pullpart.FieldComplete,
	}, kinds)

	assert.Equal(t, "hello", string(events[3].content))
	assert.Equal(t, "world", string(events[8].content))
	assert.Equal(t, `form-data; name="a"`, events[1].value)
	assert.Equal(t, `form-data; name="b"`, events[6].value)
}

func TestS5StreamingByteSplit(t *testing.T) {
	t.Parallel()

	whole, err := pullpart.ForMultipartBoundary("X")
	require.NoError(t, err)
	wholeEvents := drain(t, whole, [][]byte{[]byte(s1Body)})

	split, err := pullpart.ForMultipartBoundary("X")
	require.NoError(t, err)
	splitEvents := drain(t, split, splitEveryByte([]byte(s1Body)))

	assert.Equal(t, eventKinds(wholeEvents), eventKinds(splitEvents))
	assert.Equal(t, contentOf(wholeEvents), contentOf(splitEvents))
}

func TestS2FileUploadWithFilename(t *testing.T) {
	t.Parallel()

	body := "--X\r\n" +
		"Content-Disposition: form-data; name=\"f\"; filename=\"a.txt\"\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"Content of a.txt.\n" +
		"\r\n--X--"

	dec, err := pullpart.ForMultipartBoundary("X")
	require.NoError(t, err)
	events := drain(t, dec, [][]byte{[]byte(body)})

	require.GreaterOrEqual(t, len(events), 5)
	assert.Equal(t, pullpart.BeginField, events[0].kind)
	assert.Equal(t, "Content of a.txt.\n", string(contentOf(events)))
	assert.Equal(t, pullpart.FieldComplete, events[len(events)-1].kind)
}

func TestS6UnterminatedClosingDelimiter(t *testing.T) {
	t.Parallel()

	body := "--X\r\n" +
		"Content-Disposition: form-data; name=\"a\"\r\n" +
		"\r\n" +
		"hello\r\n" +
		"--X--"

	dec, err := pullpart.ForMultipartBoundary("X")
	require.NoError(t, err)
	require.NoError(t, dec.Add([]byte(body)))

	events := drain(t, dec, nil)
	assert.Equal(t, pullpart.FieldComplete, events[len(events)-1].kind)

	ev, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, pullpart.EventNone, ev)
}

func TestEmptyPayloadPart(t *testing.T) {
	t.Parallel()

	body := "--X\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\n\r\n--X--"
	dec, err := pullpart.ForMultipartBoundary("X")
	require.NoError(t, err)
	events := drain(t, dec, [][]byte{[]byte(body)})

	assert.Equal(t, []pullpart.Event{
		pullpart.BeginField, pullpart.Header, pullpart.HeadersComplete, pullpart.FieldComplete,
	}, eventKinds(events))
}

func TestNestedMixedBoundary(t *testing.T) {
	t.Parallel()

	body := "--X\r\n" +
		"Content-Disposition: form-data; name=\"attachments\"\r\n" +
		"Content-Type: multipart/mixed; boundary=Y\r\n" +
		"\r\n" +
		"--Y\r\n" +
		"Content-Disposition: attachment; filename=\"a.txt\"\r\n" +
		"\r\n" +
		"inner content\r\n" +
		"--Y--\r\n" +
		"--X--"

	dec, err := pullpart.ForMultipartBoundary("X")
	require.NoError(t, err)
	events := drain(t, dec, [][]byte{[]byte(body)})

	assert.Equal(t, "inner content", string(contentOf(events)))
	kinds := eventKinds(events)
	assert.Equal(t, pullpart.BeginField, kinds[0])
	assert.Contains(t, kinds, pullpart.FieldComplete)
}

func TestParsedHeaderValueIdempotent(t *testing.T) {
	t.Parallel()

	dec, err := pullpart.ForMultipartBoundary("X")
	require.NoError(t, err)
	require.NoError(t, dec.Add([]byte(s1Body)))

	require.NoError(t, next(t, dec)) // BEGIN_FIELD
	require.NoError(t, next(t, dec)) // HEADER

	pd1, err := dec.ParsedHeaderValue()
	require.NoError(t, err)
	pd2, err := dec.ParsedHeaderValue()
	require.NoError(t, err)
	assert.Equal(t, pd1.Name(), pd2.Name())
	assert.Equal(t, "a", pd1.Name())
}

func next(t *testing.T, dec *pullpart.Decoder) error {
	t.Helper()
	_, err := dec.Next()
	return err
}

func TestAccessorsIllegalStateOutsideWindow(t *testing.T) {
	t.Parallel()

	dec, err := pullpart.ForMultipartBoundary("X")
	require.NoError(t, err)
	_, err = dec.HeaderName()
	assert.Error(t, err)
	_, err = dec.DecodedContent()
	assert.Error(t, err)
}

func TestLimitExceeded(t *testing.T) {
	t.Parallel()

	dec, err := pullpart.ForMultipartBoundary("X", pullpart.WithUndecodedLimit(4))
	require.NoError(t, err)
	err = dec.Add([]byte("way too many bytes for this tiny limit"))
	assert.Error(t, err)
}

func TestCloseReleasesBuffer(t *testing.T) {
	t.Parallel()

	dec, err := pullpart.ForMultipartBoundary("X")
	require.NoError(t, err)
	require.NoError(t, dec.Add([]byte("--X\r\n")))
	dec.Close()
	_, err = dec.Next()
	assert.Error(t, err)
}
