// Package datauri encodes and decodes base64 "data:" URIs, the form in which
// screenshots and frames travel between the host bridge and the recorder.
package datauri

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrMalformed is returned for strings that are not base64 data URIs.
var ErrMalformed = errors.New("datauri: malformed data URI")

const prefix = "data:"

// Encode returns data as a base64 data URI of the given media type.
func Encode(mimeType string, data []byte) string {
	var b strings.Builder
	b.Grow(len(prefix) + len(mimeType) + len(";base64,") + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString(prefix)
	b.WriteString(mimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// Decode splits a data URI into its media type and payload. A bare base64
// string (no "data:" prefix) is accepted and reported with an empty type.
func Decode(uri string) (mimeType string, data []byte, err error) {
	payload := uri
	if strings.HasPrefix(uri, prefix) {
		header, rest, ok := strings.Cut(uri[len(prefix):], ",")
		if !ok {
			return "", nil, ErrMalformed
		}
		mediaType, isBase64 := strings.CutSuffix(header, ";base64")
		if !isBase64 {
			return "", nil, ErrMalformed
		}
		mimeType = mediaType
		payload = rest
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Join(ErrMalformed, err)
	}
	return mimeType, data, nil
}

// IsDataURI reports whether s carries the data URI scheme.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, prefix)
}
