package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/wildsub/internal/types"
	"go.uber.org/zap/zaptest"
)

func sampleSubdomains() []*types.Subdomain {
	return []*types.Subdomain{
		{Domain: "api.example.com", IP: []string{"10.0.0.1", "10.0.0.2"}},
		{Domain: "www.example.com", IP: []string{"93.184.216.34"}},
	}
}

func TestExportText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "found.txt")

	err := NewExporter(zaptest.NewLogger(t)).Export(context.Background(), sampleSubdomains(), "txt", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "api.example.com -> 10.0.0.1, 10.0.0.2\nwww.example.com -> 93.184.216.34\n", string(data))
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "found.json")

	err := NewExporter(zaptest.NewLogger(t)).Export(context.Background(), sampleSubdomains(), "JSON", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		TotalCount int                `json:"total_count"`
		Subdomains []*types.Subdomain `json:"subdomains"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 2, doc.TotalCount)
	assert.Equal(t, sampleSubdomains(), doc.Subdomains)
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Contains(t, buf.String(), `"subdomains": []`)
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "found.csv")

	err := NewExporter(zaptest.NewLogger(t)).Export(context.Background(), sampleSubdomains(), "csv", path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Domain", "IP"},
		{"api.example.com", "10.0.0.1;10.0.0.2"},
		{"www.example.com", "93.184.216.34"},
	}, records)
}

func TestExportUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "found.html")

	err := NewExporter(zaptest.NewLogger(t)).Export(context.Background(), sampleSubdomains(), "html", path)
	assert.ErrorContains(t, err, "unsupported format")
	assert.NoFileExists(t, path)
}

func TestExportUnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "found.txt")

	err := NewExporter(zaptest.NewLogger(t)).Export(context.Background(), sampleSubdomains(), "txt", path)
	assert.Error(t, err)
}
