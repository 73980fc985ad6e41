package file

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameEqualUsesSetSemantics(t *testing.T) {
	assert.True(t, List("a", "b").Equal(List("b", "a")))
	assert.False(t, List("a").Equal(Ident("a")))
	assert.True(t, Name{}.Equal(Ident("")))
	assert.False(t, List().IsZero())
	assert.True(t, Name{}.IsZero())
}

func TestNameString(t *testing.T) {
	assert.Equal(t, "Pet", Ident("Pet").String())
	assert.Equal(t, "{Pet, default as client}",
		Specifiers(Specifier{PropertyName: "Pet"}, Specifier{PropertyName: "default", Name: "client"}).String())
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    Name
		wantErr bool
	}{
		{name: "absent", raw: nil, want: Name{}},
		{name: "identifier", raw: "React", want: Ident("React")},
		{name: "plain list", raw: []any{"a", "b"}, want: List("a", "b")},
		{
			name: "aliased specifier",
			raw:  []any{"a", map[string]any{"propertyName": "default", "name": "client"}},
			want: Specifiers(Specifier{PropertyName: "a"}, Specifier{PropertyName: "default", Name: "client"}),
		},
		{name: "missing propertyName", raw: []any{map[string]any{"name": "x"}}, wantErr: true},
		{name: "unsupported type", raw: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseName(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImportJSON(t *testing.T) {
	var imp Import
	require.NoError(t, json.Unmarshal([]byte(`{"name":["a",{"propertyName":"b","name":"c"}],"path":"./m","isTypeOnly":true}`), &imp))

	assert.Equal(t, Specifiers(Specifier{PropertyName: "a"}, Specifier{PropertyName: "b", Name: "c"}), imp.Name)
	assert.True(t, imp.IsTypeOnly)

	data, err := json.Marshal(imp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":["a",{"propertyName":"b","name":"c"}],"path":"./m","isTypeOnly":true}`, string(data))
}
