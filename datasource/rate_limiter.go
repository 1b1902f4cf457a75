package datasource

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// httpDoer is the transport seam of the public client.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// limitedDoer applies a token-bucket limit to every outbound call of
// the public client. The authenticated portal cycle stays unthrottled;
// its pacing comes from strictly sequential station fetches.
type limitedDoer struct {
	next    httpDoer
	limiter *rate.Limiter
}

// newLimitedDoer wraps a transport with a limiter allowing rps
// requests per second and bursts of up to burst requests.
func newLimitedDoer(next httpDoer, rps float64, burst int) *limitedDoer {
	return &limitedDoer{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Do waits for rate limiter permission, then forwards the request.
func (d *limitedDoer) Do(req *http.Request) (*http.Response, error) {
	if err := d.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return d.next.Do(req)
}

var _ httpDoer = (*limitedDoer)(nil)
