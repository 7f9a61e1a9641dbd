package export

import (
	"bytes"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"LaneLabeller/internal/persist"
	"LaneLabeller/internal/state"
)

type stubLoader struct{ missing string }

func (s stubLoader) Load(path string) (image.Image, error) {
	if path == s.missing {
		return nil, errors.New("no such image")
	}
	return image.NewRGBA(image.Rect(0, 0, 64, 48)), nil
}

func sampleEntries() []Entry {
	return []Entry{
		{Image: "/data/image1.png", Points: []state.Point{
			state.NewPoint(10, 10, state.Red),
			state.NewPoint(20, 20, state.Red),
			state.NewPoint(15, 30, state.Green),
		}},
		{Image: "/data/image2.png"},
	}
}

func TestFormatFor(t *testing.T) {
	f, err := FormatFor("out/report.PDF")
	require.NoError(t, err)
	assert.Equal(t, PDF, f)

	f, err = FormatFor("report.xlsx")
	require.NoError(t, err)
	assert.Equal(t, XLSX, f)

	_, err = FormatFor("report.csv")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestCollect(t *testing.T) {
	store := persist.New(t.TempDir(), nil)
	_, err := store.Save("/data/image1.png", sampleEntries()[0].Points)
	require.NoError(t, err)

	entries, err := Collect([]string{"/data/image1.png", "/data/image2.png"}, store)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Len(t, entries[0].Points, 3)
	assert.Empty(t, entries[1].Points)
	assert.Equal(t, map[state.Category]int{state.Red: 2, state.Green: 1}, entries[0].Counts())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, XLSX, sampleEntries(), nil))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{PointsSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(PointsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"image", "index", "x", "y", "category"}, rows[0])
	assert.Equal(t, []string{"/data/image1.png", "2", "15", "30", "g"}, rows[3])

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, []string{"image1.png", "2", "1", "0", "0", "3"}, summary[1])
	assert.Equal(t, []string{"image2.png", "0", "0", "0", "0", "0"}, summary[2])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, PDF, sampleEntries(), stubLoader{missing: "/data/image2.png"}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWritePDF_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, nil, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format(9), nil, nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Equal(t, "format(9)", Format(9).String())
}
