package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sample()))

	var got []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)

	assert.JSONEq(t, "null", string(got[0]["prediction"]))
	assert.JSONEq(t, `"prediction endpoint unavailable"`, string(got[0]["error"]))
	var answers bytes.Buffer
	require.NoError(t, json.Compact(&answers, got[0]["answers"]))
	assert.Equal(t, `{"GENDER":"M","AGE":47,"FATIGUE":null}`, answers.String(), "key order survives")
	assert.NotContains(t, got[0], "finished_at")

	assert.JSONEq(t, `"YES"`, string(got[1]["prediction"]))
}

func TestWriterFor(t *testing.T) {
	for _, name := range []string{"out.xlsx", "OUT.XLSX", "history.json"} {
		w, err := WriterFor(name)
		require.NoError(t, err, name)
		assert.NotNil(t, w)
	}
	_, err := WriterFor("history.csv")
	assert.ErrorContains(t, err, ".csv")
}
