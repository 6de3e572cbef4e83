package report

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/refdata/internal/core"
	"github.com/JonMunkholm/refdata/internal/model"
	"github.com/JonMunkholm/refdata/internal/model/modeltest"
)

func readFixture(t *testing.T) *model.RefData {
	t.Helper()
	report := core.NewReport(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	data, err := model.Read(core.NewSource(modeltest.Dir(t, nil), report), model.SubsetFlows)
	require.NoError(t, err)
	return data
}

func TestFlowRows(t *testing.T) {
	rows := FlowRows(readFixture(t))

	require.Len(t, rows, 4)
	assert.Equal(t, FlowRow{Name: "Bad", Category: "Waste", Property: "Mass", Even: true}, rows[0])
	assert.Equal(t, FlowRow{
		Name:     "Carbon dioxide",
		Category: "Emission to air/unspecified",
		CAS:      "000124-38-9",
		Formula:  "CO2",
		Property: "Mass",
	}, rows[1])
	assert.Equal(t, "Steel", rows[2].Name)
	assert.True(t, rows[2].Even)
	assert.Equal(t, "Water, river", rows[3].Name)
	assert.Equal(t, "Resource/in water", rows[3].Category)
	assert.Equal(t, "Volume", rows[3].Property)
}

func TestWriteFlows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFlows(context.Background(), &buf, readFixture(t)))

	html := buf.String()
	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, "<title>openLCA reference flows</title>")
	assert.Contains(t, html, "<td>Name</td><td>Category</td><td>CAS</td><td>Formula</td><td>Flow property</td>")
	assert.Contains(t, html, `<tr class="even"><td>Bad</td>`)
	assert.Contains(t, html, "<tr><td>Carbon dioxide</td><td>Emission to air/unspecified</td><td>000124-38-9</td><td>CO2</td><td>Mass</td></tr>")
	assert.Equal(t, 2, strings.Count(html, `<tr class="even">`))
	assert.True(t, strings.HasSuffix(html, "</tbody></table></body></html>"))
}

func TestWriteFlows_Escapes(t *testing.T) {
	d := model.NewRefData()
	d.Flows.Put("f-1", &model.Flow{Head: model.Head{ID: "f-1", Name: "Acids <pH 4> & salts"}})

	var buf bytes.Buffer
	require.NoError(t, WriteFlows(context.Background(), &buf, d))
	assert.Contains(t, buf.String(), "<td>Acids &lt;pH 4&gt; &amp; salts</td>")
}

func TestWriteFlows_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	assert.ErrorIs(t, WriteFlows(ctx, &buf, model.NewRefData()), context.Canceled)
	assert.Zero(t, buf.Len())
}
