package esplora

import (
	"context"
	"io/ioutil"
	"net/http"
	"strings"
)

// get performs a rate-limited GET behind the circuit breaker and returns
// the response status code and body.
func (s *service) get(ctx context.Context, url string) (int, string, error) {
	return s.do(ctx, "GET", url, "")
}

// post performs a rate-limited POST behind the circuit breaker. The body
// is sent as-is, Esplora expects raw hex rather than JSON.
func (s *service) post(ctx context.Context, url, body string) (int, string, error) {
	return s.do(ctx, "POST", url, body)
}

func (s *service) do(ctx context.Context, method, url, body string) (int, string, error) {
	s.limiter.Take()

	res, err := s.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(
			ctx, method, url, strings.NewReader(body),
		)
		if err != nil {
			return nil, err
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		bodyBytes, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		return &httpResponse{status: resp.StatusCode, body: string(bodyBytes)}, nil
	})
	if err != nil {
		return 0, "", err
	}

	resp := res.(*httpResponse)
	return resp.status, resp.body, nil
}

type httpResponse struct {
	status int
	body   string
}
