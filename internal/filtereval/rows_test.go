package filtereval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/sieve/internal/order"
)

func TestSort(t *testing.T) {
	rows := testRows()

	assert.Equal(t, []int64{1, 4, 2, 3}, ids(Sort(rows, order.Parse("-total"))), "nil sorts first")
	assert.Equal(t, []int64{3, 2, 4, 1}, ids(Sort(rows, order.Parse("total"))))
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(Sort(rows, order.Parse("name"))))
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(Sort(rows, nil)))

	assert.Equal(t, int64(1), rows[0]["id"], "input must not be reordered")
}

func TestSort_Collation(t *testing.T) {
	rows := []Row{
		{"id": int64(1), "name": "cherry"},
		{"id": int64(2), "name": "Banana"},
		{"id": int64(3), "name": "apple"},
	}
	assert.Equal(t, []int64{3, 2, 1}, ids(Sort(rows, order.Parse("name"))))
	assert.Equal(t, []int64{1, 2, 3}, ids(Sort(rows, order.Parse("-name"))))
}

func TestSort_StableOnTies(t *testing.T) {
	rows := []Row{
		{"id": int64(1), "group": "b", "n": int64(2)},
		{"id": int64(2), "group": "a", "n": int64(1)},
		{"id": int64(3), "group": "b", "n": int64(1)},
		{"id": int64(4), "group": "a", "n": int64(1)},
	}
	assert.Equal(t, []int64{2, 4, 1, 3}, ids(Sort(rows, order.Parse("group"))))
	assert.Equal(t, []int64{2, 4, 3, 1}, ids(Sort(rows, order.Parse("group, n"))))
	assert.Equal(t, []int64{1, 3, 2, 4}, ids(Sort(rows, order.Parse("-group"))))
}

func TestSort_MixedKinds(t *testing.T) {
	rows := []Row{
		{"id": int64(1), "v": "text"},
		{"id": int64(2), "v": []byte("raw")},
		{"id": int64(3), "v": int64(5)},
		{"id": int64(4)},
	}
	assert.Equal(t, []int64{4, 3, 1, 2}, ids(Sort(rows, order.Parse("v"))))
}

func TestFilter_Empty(t *testing.T) {
	assert.Empty(t, Filter(nil, func(Row) bool { return true }))
	assert.Empty(t, Filter(testRows(), func(Row) bool { return false }))
}
