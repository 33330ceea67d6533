package pager

import (
	"fmt"
	"testing"

	"pha-locator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func agencies(n int) []models.Agency {
	out := make([]models.Agency, n)
	for i := range out {
		out[i] = models.Agency{ID: fmt.Sprintf("a%03d", i), Name: fmt.Sprintf("Agency %03d", i)}
	}
	return out
}

func TestPaginate_Partitions(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 25, 100} {
		for _, size := range []int{1, 3, 10} {
			t.Run(fmt.Sprintf("n=%d/size=%d", n, size), func(t *testing.T) {
				items := agencies(n)
				first := Paginate(items, 1, size)

				var seen []models.Agency
				for p := 1; p <= first.TotalPages; p++ {
					page := Paginate(items, p, size)
					assert.Equal(t, p, page.ClampedPage)
					assert.LessOrEqual(t, len(page.Items), size)
					seen = append(seen, page.Items...)
				}
				if n == 0 {
					assert.Empty(t, seen)
					return
				}
				assert.Equal(t, items, seen)
			})
		}
	}
}

func TestPaginate_Clamps(t *testing.T) {
	items := agencies(25)

	last := Paginate(items, 9999, 10)
	assert.Equal(t, 3, last.ClampedPage)
	assert.Equal(t, 3, last.TotalPages)
	require.Len(t, last.Items, 5)
	assert.Equal(t, "a020", last.Items[0].ID)

	first := Paginate(items, -4, 10)
	assert.Equal(t, 1, first.ClampedPage)
	assert.Len(t, first.Items, 10)
}

func TestPaginate_Empty(t *testing.T) {
	page := Paginate(nil, 1, 10)
	assert.Equal(t, 0, page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, page.ClampedPage)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)

	page = Paginate(nil, 5, 10)
	assert.Equal(t, 1, page.ClampedPage)
}

func TestPaginate_DoesNotAliasInput(t *testing.T) {
	items := agencies(3)
	page := Paginate(items, 1, 2)
	page.Items[0].Name = "changed"
	assert.Equal(t, "Agency 000", items[0].Name)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 1, TotalPages(3, 0))
}

func TestPassThrough(t *testing.T) {
	page := PassThrough(agencies(10), 42, 7, 10)
	assert.Equal(t, 42, page.TotalCount)
	assert.Equal(t, 5, page.TotalPages)
	assert.Equal(t, 5, page.ClampedPage)
	assert.Len(t, page.Items, 10)

	empty := PassThrough(nil, 0, 3, 10)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Equal(t, 1, empty.ClampedPage)
	assert.NotNil(t, empty.Items)
}
