package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	data := Dataset{
		Headers: []string{"Name", "Qty", "Reason"},
		Rows: []map[string]string{
			{"Name": "Jane Doe", "Qty": "210", "Reason": ""},
			{"Name": "John Smith", "Qty": "145", "Reason": "Material shortage"},
		},
		ForceQuoted: []string{"Reason"},
	}

	out, err := exporter.Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Name,Qty,Reason\nJane Doe,210,\"\"\nJohn Smith,145,\"Material shortage\"\n", string(out))
}

func TestCSVExporterEscapesEmbeddedQuotes(t *testing.T) {
	exporter := NewCSVExporter()
	data := Dataset{
		Headers: []string{"Reason"},
		Rows:    []map[string]string{{"Reason": `jammed "feeder", stopped`}},
	}

	out, err := exporter.Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Reason\n\"jammed \"\"feeder\"\", stopped\"\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}
