package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{name: "plain integer", input: "7", want: 7},
		{name: "surrounding whitespace", input: "  12 ", want: 12},
		{name: "integral float", input: "3.0", want: 3},
		{name: "zero is rejected", input: "0", wantErr: true},
		{name: "negative is rejected", input: "-4", wantErr: true},
		{name: "fraction is rejected", input: "2.5", wantErr: true},
		{name: "empty is rejected", input: "", wantErr: true},
		{name: "text is rejected", input: "abc", wantErr: true},
		{name: "infinity is rejected", input: "Inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestID_UnmarshalJSON(t *testing.T) {
	t.Run("accepts numbers and numeric strings", func(t *testing.T) {
		var ref struct {
			A ID `json:"a"`
			B ID `json:"b"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"a":2,"b":"2"}`), &ref))
		assert.Equal(t, ref.A, ref.B)
		assert.Equal(t, ID(2), ref.A)
	})

	t.Run("null and empty string mean unset", func(t *testing.T) {
		var ref struct {
			A ID `json:"a"`
			B ID `json:"b"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"a":null,"b":""}`), &ref))
		assert.False(t, ref.A.Valid())
		assert.False(t, ref.B.Valid())
	})

	t.Run("zero and negative ids mean unset", func(t *testing.T) {
		var refs []CategoryRef
		require.NoError(t, json.Unmarshal([]byte(`[{"id":0},{"id":"0"},{"id":-3},{"id":4}]`), &refs))
		require.Len(t, refs, 4)
		assert.False(t, refs[0].ID.Valid())
		assert.False(t, refs[1].ID.Valid())
		assert.False(t, refs[2].ID.Valid())
		assert.Equal(t, ID(4), refs[3].ID)
	})

	t.Run("rejects fractional ids", func(t *testing.T) {
		var id ID
		assert.Error(t, json.Unmarshal([]byte(`2.5`), &id))
	})

	t.Run("rejects non numeric text", func(t *testing.T) {
		var id ID
		assert.Error(t, json.Unmarshal([]byte(`"x1"`), &id))
	})
}

func TestID_String(t *testing.T) {
	assert.Equal(t, "", ID(0).String())
	assert.Equal(t, "42", ID(42).String())
}
