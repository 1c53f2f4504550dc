package sheet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bcerrors "github.com/labmed/barcoder/pkg/errors"
)

func TestReadRecords(t *testing.T) {
	in := strings.Join([]string{
		"label1, barcode ,label2",
		"plate-1,D0000000001,A1",
		"plate-2,,",
		"plate-3,D0000000003",
	}, "\n")

	records, err := ReadRecords(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "D0000000001", records[0].Code)
	assert.Equal(t, "plate-1", records[0].Field("label1"))
	assert.Equal(t, "A1", records[0].Field("label2"))

	assert.True(t, records[1].Empty())

	assert.Equal(t, "D0000000003", records[2].Code)
	assert.Equal(t, "", records[2].Field("label2"))
}

func TestReadRecordsMissingBarcode(t *testing.T) {
	_, err := ReadRecords(strings.NewReader("code,label1\nX,Y\n"))
	require.Error(t, err)
	assert.True(t, bcerrors.Is(err, bcerrors.ErrCodeInvalidInput))
}

func TestReadRecordsEmpty(t *testing.T) {
	_, err := ReadRecords(strings.NewReader(""))
	assert.True(t, bcerrors.Is(err, bcerrors.ErrCodeInvalidInput))
}

func TestRecordFieldNil(t *testing.T) {
	assert.Equal(t, "", Record{Code: "A"}.Field("label1"))
}
