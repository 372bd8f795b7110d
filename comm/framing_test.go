package comm

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, msg string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, writeMessage(&buf, msg))
	got, err := readMessage(bufio.NewReader(&buf))
	require.NoError(t, err)
	return got
}

func TestFraming_RoundTrip(t *testing.T) {
	for _, msg := range []string{
		"",
		"ping",
		"line1\nline2",
		"line1\nline2\n",
		"a\n\nb",
		"data with [<EOM not quite a marker",
		"data with <EOM>] almost",
	} {
		require.Equal(t, msg, roundTrip(t, msg), "message %q", msg)
	}
}

func TestFraming_MultiLinePayloadPreservesNewline(t *testing.T) {
	require.Equal(t, "line1\nline2", roundTrip(t, "line1\nline2"))
}

func TestFraming_MarkerOnlyAtEndOfLineTerminates(t *testing.T) {
	raw := "first[<EOM>]\nleftover"
	r := bufio.NewReader(strings.NewReader(raw))

	msg, err := readMessage(r)
	require.NoError(t, err)
	require.Equal(t, "first", msg)
}

func TestFraming_CRLFNormalized(t *testing.T) {
	raw := "line1\r\nline2[<EOM>]\r\n"
	msg, err := readMessage(bufio.NewReader(strings.NewReader(raw)))
	require.NoError(t, err)
	require.Equal(t, "line1\nline2", msg)
}

func TestFraming_MarkerWithoutTrailingNewline(t *testing.T) {
	raw := "ping[<EOM>]"
	msg, err := readMessage(bufio.NewReader(strings.NewReader(raw)))
	require.NoError(t, err)
	require.Equal(t, "ping", msg)
}

func TestFraming_EOFBeforeAnyData(t *testing.T) {
	_, err := readMessage(bufio.NewReader(strings.NewReader("")))
	require.ErrorIs(t, err, io.EOF)
}

func TestFraming_TruncatedMessage(t *testing.T) {
	_, err := readMessage(bufio.NewReader(strings.NewReader("line1\nline2")))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
