package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badu/pullpart/charset"
	"github.com/badu/pullpart/errs"
	"github.com/badu/pullpart/header"
)

func TestSplitNameAndValue(t *testing.T) {
	t.Parallel()

	name, value, err := header.Split(`Content-Disposition: form-data; name="a"`)
	require.NoError(t, err)
	assert.Equal(t, "Content-Disposition", name)
	assert.Equal(t, `form-data; name="a"`, value)
}

func TestSplitTrimsValueWhitespace(t *testing.T) {
	t.Parallel()

	_, value, err := header.Split("X-Custom:   spaced out   ")
	require.NoError(t, err)
	assert.Equal(t, "spaced out", value)
}

func TestSplitMalformedNoColon(t *testing.T) {
	t.Parallel()

	_, _, err := header.Split("not a header line")
	assert.ErrorIs(t, err, errs.ErrInvalidHeader)
}

func TestDispatchContentTypeMixedSetsBoundary(t *testing.T) {
	t.Parallel()

	ps := &header.PartState{}
	err := header.Dispatch(ps, "Content-Type", "multipart/mixed; boundary=inner")
	require.NoError(t, err)
	assert.Equal(t, "--inner", ps.MixedBoundary)
}

func TestDispatchContentTypeMixedMissingBoundary(t *testing.T) {
	t.Parallel()

	ps := &header.PartState{}
	err := header.Dispatch(ps, "Content-Type", "multipart/mixed")
	assert.ErrorIs(t, err, errs.ErrMissingBoundary)
}

func TestDispatchContentTypeNestedMixed(t *testing.T) {
	t.Parallel()

	ps := &header.PartState{MixedBoundary: "--already"}
	err := header.Dispatch(ps, "Content-Type", "multipart/mixed; boundary=inner")
	assert.ErrorIs(t, err, errs.ErrNestedMixed)
}

func TestDispatchContentTypeCharset(t *testing.T) {
	t.Parallel()

	ps := &header.PartState{}
	err := header.Dispatch(ps, "Content-Type", "text/plain; charset=ISO-8859-1")
	require.NoError(t, err)
	assert.NotEqual(t, charset.UTF8, ps.PartCharset)
}

func TestDispatchContentTypeInvalidCharset(t *testing.T) {
	t.Parallel()

	ps := &header.PartState{}
	err := header.Dispatch(ps, "Content-Type", "text/plain; charset=not-a-charset")
	assert.ErrorIs(t, err, errs.ErrInvalidCharset)
}

func TestDispatchTransferEncodingUnknown(t *testing.T) {
	t.Parallel()

	ps := &header.PartState{}
	err := header.Dispatch(ps, "Content-Transfer-Encoding", "quoted-printable")
	assert.ErrorIs(t, err, errs.ErrUnknownTransferEncoding)
}

func TestDispatchTransferEncodingOnlyUpdatesExplicitCharset(t *testing.T) {
	t.Parallel()

	ps := &header.PartState{}
	require.NoError(t, header.Dispatch(ps, "Content-Transfer-Encoding", "8bit"))
	assert.Equal(t, charset.Encoding{}, ps.PartCharset)

	require.NoError(t, header.Dispatch(ps, "Content-Type", "text/plain; charset=utf-8"))
	require.NoError(t, header.Dispatch(ps, "Content-Transfer-Encoding", "8bit"))
	assert.NotEqual(t, charset.Encoding{}, ps.PartCharset)
}

func TestResetClearsCharsetNotBoundary(t *testing.T) {
	t.Parallel()

	ps := &header.PartState{MixedBoundary: "--inner"}
	require.NoError(t, header.Dispatch(ps, "Content-Type", "text/plain; charset=ISO-8859-1"))
	ps.Reset()
	assert.Equal(t, "--inner", ps.MixedBoundary)
	assert.Equal(t, charset.Encoding{}, ps.PartCharset)
}
