package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRecords(t *testing.T) {
	t.Run("SplitsLines", func(t *testing.T) {
		records, err := ReadRecords(strings.NewReader("a\nb\nc\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, records)
	})

	t.Run("TrailingNewlineOptional", func(t *testing.T) {
		records, err := ReadRecords(strings.NewReader("a\nb\nc"))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, records)
	})

	t.Run("StripsCarriageReturns", func(t *testing.T) {
		records, err := ReadRecords(strings.NewReader("a\r\nb\r\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, records)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		records, err := ReadRecords(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("PreservesBlankLines", func(t *testing.T) {
		records, err := ReadRecords(strings.NewReader("a\n\nb\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "", "b"}, records)
	})

	t.Run("AcceptsMultibyteUTF8", func(t *testing.T) {
		records, err := ReadRecords(strings.NewReader("héllo\n世界\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"héllo", "世界"}, records)
	})

	t.Run("RejectsInvalidUTF8", func(t *testing.T) {
		_, err := ReadRecords(strings.NewReader("fine\n\xff\xfe\n"))
		require.Error(t, err)

		var inputErr *InputError
		require.ErrorAs(t, err, &inputErr)
		assert.ErrorIs(t, err, ErrInvalidUTF8)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("AcceptsLongRecords", func(t *testing.T) {
		long := strings.Repeat("x", 256*1024)
		records, err := ReadRecords(strings.NewReader(long + "\n"))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Len(t, records[0], 256*1024)
	})

	t.Run("RejectsOversizedRecords", func(t *testing.T) {
		long := strings.Repeat("x", maxLineBytes+1)
		_, err := ReadRecords(strings.NewReader(long))
		require.Error(t, err)

		var inputErr *InputError
		assert.ErrorAs(t, err, &inputErr)
	})
}
