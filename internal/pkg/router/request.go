package router

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

const maxBodyBytes = 1 << 20

// Request is what handlers receive.
type Request struct {
	*http.Request
}

// DecodeBody decodes a JSON or form-urlencoded body into dst.
//
// Form values are mapped onto dst's json tags. An empty body leaves dst untouched.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil {
		return nil
	}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/x-www-form-urlencoded" {
		return r.decodeForm(dst)
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return goerror.NewInvalidFormat()
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}

	return nil
}

func (r *Request) decodeForm(dst any) error {
	r.Body = io.NopCloser(io.LimitReader(r.Body, maxBodyBytes))
	if err := r.ParseForm(); err != nil {
		return goerror.NewInvalidFormat()
	}

	values := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		values[k] = r.PostForm.Get(k)
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return goerror.NewInvalidFormat()
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return goerror.NewInvalidFormat()
	}

	return nil
}
