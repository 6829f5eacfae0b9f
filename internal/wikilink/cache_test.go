package wikilink

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCache_AddAndGet(t *testing.T) {
	c := NewCache()

	_, ok := c.Get("[[a]]")
	require.False(t, ok)

	m := &Meta{Link: "[[a]]", Name: "a"}
	require.Same(t, m, c.Add("[[a]]", m))

	got, ok := c.Get("[[a]]")
	require.True(t, ok)
	require.Same(t, m, got)
	require.Equal(t, 1, c.Len())
}

func TestCache_FirstWriterWins(t *testing.T) {
	c := NewCache()

	first := &Meta{Link: "[[a]]"}
	second := &Meta{Link: "[[a]]"}
	require.Same(t, first, c.Add("[[a]]", first))
	require.Same(t, first, c.Add("[[a]]", second))
	require.Equal(t, 1, c.Len())
}

func TestCache_KeysAreExactRawStrings(t *testing.T) {
	c := NewCache()
	c.Add("[[a]]", &Meta{Link: "[[a]]"})

	// A semantically equivalent but textually different token is a miss.
	_, ok := c.Get("[[ a ]]")
	require.False(t, ok)
}

func TestCache_ConcurrentAddsAgreeOnOneInstance(t *testing.T) {
	c := NewCache()

	const workers = 16
	results := make([]*Meta, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.Add("[[a]]", &Meta{Link: "[[a]]"})
		}()
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		require.Same(t, results[0], results[i])
	}
	require.Equal(t, 1, c.Len())
}

func TestDeadLinks_Deduplicates(t *testing.T) {
	d := NewDeadLinks()

	d.Add("[[x]]")
	d.Add("[[x]]")
	d.Add("[[y]]")

	require.Equal(t, 2, d.Len())
	require.True(t, d.Has("[[x]]"))
	require.False(t, d.Has("[[z]]"))
	require.Equal(t, []string{"[[x]]", "[[y]]"}, d.Tokens())
}

func TestDeadLinks_ConcurrentAdds(t *testing.T) {
	d := NewDeadLinks()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				d.Add(fmt.Sprintf("[[note-%d]]", (i*100+j)%10))
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 10, d.Len())
}
