package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDuplicateGroup_IsOrderedSet(t *testing.T) {
	g := domain.NewDuplicateGroup(7, 3, 7, 0, -1, 12)

	assert.Equal(t, []int64{3, 7, 12}, g.IDs())
	assert.Equal(t, 3, g.Len())
	assert.True(t, g.Contains(7))
	assert.False(t, g.Contains(4))
	assert.True(t, g.Equal(domain.NewDuplicateGroup(12, 3, 7)))
}

func TestParseDuplicateGroup(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int64
		wantErr bool
	}{
		{name: "empty string", input: "", want: nil},
		{name: "single id", input: "5", want: []int64{5}},
		{name: "unordered with spaces", input: " 9, 2 ,4", want: []int64{2, 4, 9}},
		{name: "repeats collapse", input: "4,4,1", want: []int64{1, 4}},
		{name: "trailing comma", input: "1,2,", want: []int64{1, 2}},
		{name: "garbage", input: "1,x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseDuplicateGroup(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.True(t, got.IsEmpty())
				return
			}
			assert.Equal(t, tt.want, got.IDs())
		})
	}
}

func TestDuplicateGroup_StorageForm(t *testing.T) {
	g := domain.NewDuplicateGroup(10, 2)
	assert.Equal(t, "2,10", g.String())

	v, err := g.Value()
	require.NoError(t, err)
	assert.Equal(t, "2,10", v)

	empty, err := domain.DuplicateGroup{}.Value()
	require.NoError(t, err)
	assert.Nil(t, empty)

	var scanned domain.DuplicateGroup
	require.NoError(t, scanned.Scan([]byte("10,2")))
	assert.True(t, scanned.Equal(g))

	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsEmpty())

	assert.Error(t, scanned.Scan(42))
}

func TestDuplicateGroup_JSON(t *testing.T) {
	b, err := json.Marshal(domain.DuplicateGroup{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))

	b, err = json.Marshal(domain.NewDuplicateGroup(3, 1))
	require.NoError(t, err)
	assert.JSONEq(t, `[1,3]`, string(b))

	var g domain.DuplicateGroup
	require.NoError(t, json.Unmarshal([]byte(`[8,8,2]`), &g))
	assert.Equal(t, []int64{2, 8}, g.IDs())
}

func TestDuplicateGroup_Without(t *testing.T) {
	g := domain.NewDuplicateGroup(1, 2, 3)
	assert.Equal(t, []int64{1, 3}, g.Without(2).IDs())
	assert.Equal(t, []int64{1, 2, 3}, g.IDs(), "original group must not change")
}

func TestSameDescription(t *testing.T) {
	empty := ""
	rent := "rent"
	rent2 := "rent"
	groceries := "groceries"

	assert.True(t, domain.SameDescription(nil, nil))
	assert.True(t, domain.SameDescription(&rent, &rent2))
	assert.False(t, domain.SameDescription(nil, &empty), "absent and empty are different values")
	assert.False(t, domain.SameDescription(&rent, &groceries))
}
