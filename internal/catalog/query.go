package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ProductsAPI/pkg/kit"
)

const (
	defaultPage  = 1
	defaultLimit = 10

	msgBadBody      = "Request body must be a valid JSON object."
	msgBodyTooLarge = "Request body too large."
)

func listQuery(q url.Values) ListQuery {
	return ListQuery{
		Category: q.Get("category"),
		Page:     intParam(q, "page", defaultPage),
		Limit:    intParam(q, "limit", defaultLimit),
	}
}

// intParam falls back to def when key is absent or not a number. A number
// below 1 is passed through so the store can reject it.
func intParam(q url.Values, key string, def int) int {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// decodeBody reads a JSON object. An empty body reads as {}.
func decodeBody(r *http.Request) (Body, error) {
	if r.Body == nil {
		return Body{}, nil
	}
	defer func() { _ = r.Body.Close() }()

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, kit.NewError(http.StatusRequestEntityTooLarge, msgBodyTooLarge)
		}
		return nil, kit.NewError(http.StatusBadRequest, msgBadBody)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return Body{}, nil
	}

	var b Body
	if err := json.Unmarshal(raw, &b); err != nil || b == nil {
		return nil, kit.NewError(http.StatusBadRequest, msgBadBody)
	}
	return b, nil
}
