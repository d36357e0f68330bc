package submission

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	testData := map[string]struct {
		ids      []string
		forecast []float64
		expected []Row
		err      error
	}{
		"matching": {
			ids:      []string{"18288", "18289"},
			forecast: []float64{1.5, 2},
			expected: []Row{{ID: "18288", Count: 1.5}, {ID: "18289", Count: 2}},
		},
		"empty": {
			expected: []Row{},
		},
		"mismatch": {
			ids:      []string{"1"},
			forecast: []float64{1, 2},
			err:      ErrLenMismatch,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			rows, err := Build(td.ids, td.forecast)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, rows)
		})
	}
}

func TestWrite(t *testing.T) {
	rows := []Row{{ID: "18288", Count: 334.25}, {ID: "18289", Count: 335}}

	var buf bytes.Buffer
	require.Nil(t, Write(&buf, []string{"ID", "Count"}, rows))
	assert.Equal(t, "ID,Count\n18288,334.25\n18289,335\n", buf.String())

	assert.ErrorIs(t, Write(&buf, []string{"ID"}, rows), ErrInvalidHeader)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions", "1.csv")
	ids := []string{"a", "b", "c"}
	rows, err := Build(ids, []float64{1, 2, 3})
	require.Nil(t, err)
	require.Nil(t, WriteFile(path, []string{"ID", "Count"}, rows))

	f, err := os.Open(path)
	require.Nil(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.Nil(t, err)
	require.Len(t, records, len(ids)+1)
	assert.Equal(t, []string{"ID", "Count"}, records[0])
	for i, id := range ids {
		assert.Equal(t, id, records[i+1][0])
	}
}
