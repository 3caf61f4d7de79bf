package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jask/regionhub/internal/store"
)

// Resource describes one fetch: the slice it feeds and the endpoint it reads.
type Resource struct {
	Key           store.Key
	Method        string
	Path          string
	Body          any
	Authenticated bool
	// Decode turns a successful response body into the slice payload.
	Decode func(body []byte) (any, error)
	// Then runs after a successful fetch, still inside the I/O phase, and may
	// replace the payload (login stores the issued token this way).
	Then func(ctx context.Context, payload any) (any, error)
}

// Identity is the duplicate-suppression key: two resources with the same identity
// are logically equivalent requests.
func (r Resource) Identity() string {
	method := strings.ToUpper(strings.TrimSpace(r.Method))
	if method == "" {
		method = http.MethodGet
	}
	id := string(r.Key) + " " + method + " " + r.Path
	if r.Body != nil {
		raw, err := json.Marshal(r.Body)
		if err != nil {
			raw = []byte(fmt.Sprintf("%#v", r.Body))
		}
		id += " " + string(raw)
	}
	return id
}

// Fetcher performs the I/O for a resource.
type Fetcher interface {
	Fetch(ctx context.Context, res Resource) (any, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, res Resource) (any, error)

func (f FetcherFunc) Fetch(ctx context.Context, res Resource) (any, error) { return f(ctx, res) }
