package traffic

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExchange(path string) *Exchange {
	e := NewExchange()
	e.Request = CapturedRequest{
		Method: http.MethodGet,
		URL:    "http://example.test" + path,
		Path:   path,
		Host:   "example.test",
		Scheme: "http",
	}
	return e
}

func TestLogAppendAndSince(t *testing.T) {
	log := NewLog()

	require.EqualValues(t, 0, log.Len())

	p0 := log.Append(newExchange("/a"))
	p1 := log.Append(newExchange("/b"))
	assert.EqualValues(t, 0, p0)
	assert.EqualValues(t, 1, p1)
	assert.EqualValues(t, 2, log.Len())

	boundary := log.Len()
	log.Append(newExchange("/c"))
	log.Append(newExchange("/d"))

	since := log.Since(boundary)
	require.Len(t, since, 2)
	assert.Equal(t, "/c", since[0].Request.Path)
	assert.Equal(t, "/d", since[1].Request.Path)

	assert.Nil(t, log.Since(log.Len()))
}

func TestLogEvictionKeepsPositions(t *testing.T) {
	log := NewLogWithCapacity(3)

	for i := 0; i < 5; i++ {
		log.Append(newExchange(fmt.Sprintf("/n%d", i)))
	}

	// Positions stay monotonic after eviction.
	assert.EqualValues(t, 5, log.Len())

	all := log.All()
	require.Len(t, all, 3)
	assert.Equal(t, "/n2", all[0].Request.Path)

	// A boundary pointing into the evicted range returns what remains.
	since := log.Since(1)
	assert.Len(t, since, 3)
}

func TestLogClearKeepsPositions(t *testing.T) {
	log := NewLog()

	log.Append(newExchange("/a"))
	log.Append(newExchange("/b"))

	assert.Equal(t, 2, log.Clear())

	// Retained entries are gone, but Len still reflects every position
	// ever assigned so existing boundaries stay valid.
	assert.Empty(t, log.All())
	assert.EqualValues(t, 2, log.Len())

	// The next append continues the sequence.
	p := log.Append(newExchange("/c"))
	assert.EqualValues(t, 2, p)
	assert.Len(t, log.Since(2), 1)
}

func TestLogConcurrentAppend(t *testing.T) {
	log := NewLog()

	var wg sync.WaitGroup
	const writers = 8
	const perWriter = 200

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				log.Append(newExchange(fmt.Sprintf("/w%d/%d", w, i)))
			}
		}(w)
	}
	wg.Wait()

	assert.EqualValues(t, writers*perWriter, log.Len())
	assert.Len(t, log.All(), writers*perWriter)
}

func TestExchangeRequestURIAndOrigin(t *testing.T) {
	e := NewExchange()
	e.Request = CapturedRequest{
		Scheme: "http",
		Host:   "api.example.test",
		Path:   "/users",
		Query:  "page=2",
	}

	assert.Equal(t, "/users?page=2", e.RequestURI())
	assert.Equal(t, "http://api.example.test", e.Origin())

	e.Request.Query = ""
	assert.Equal(t, "/users", e.RequestURI())
}

func TestCaptureRequest(t *testing.T) {
	req, err := http.NewRequest(http.MethodPost, "http://example.test/things?q=1", nil)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	e := NewExchange()
	e.CaptureRequest(req, []byte(`{"a":1}`))

	assert.Equal(t, http.MethodPost, e.Request.Method)
	assert.Equal(t, "/things", e.Request.Path)
	assert.Equal(t, "q=1", e.Request.Query)
	assert.Equal(t, "example.test", e.Request.Host)
	assert.Equal(t, "application/json", e.Request.Headers.Get("Content-Type"))
	assert.Equal(t, []byte(`{"a":1}`), e.Request.Body)
}
