package backup

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"

	apperrors "waterx/internal/errors"
)

// RequiredKeys are the top-level keys every backup document must carry.
// Only presence is checked; the values may be anything, including null.
var RequiredKeys = []string{"customers", "products", "orders"}

const (
	msgParseFailed = "Failed to parse backup file."
)

// Validate checks that content is a JSON object carrying RequiredKeys.
// It returns a data error with code ErrCodeInvalidJSON when content is not
// JSON at all, and ErrCodeInvalidBackup when the shape is wrong.
func Validate(content []byte) error {
	if !gjson.ValidBytes(content) || len(bytes.TrimSpace(content)) == 0 {
		return apperrors.NewDataError(apperrors.ErrCodeInvalidJSON, msgParseFailed, nil)
	}

	doc := gjson.ParseBytes(content)
	if !doc.IsObject() {
		return apperrors.InvalidBackup(RequiredKeys).WithDetails("top-level value is " + doc.Type.String())
	}

	var missing []string
	for _, key := range RequiredKeys {
		if !doc.Get(key).Exists() {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return apperrors.InvalidBackup(missing)
	}
	return nil
}

// compact strips insignificant whitespace without touching values or key order
func compact(content []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, content); err != nil {
		return nil, apperrors.NewDataError(apperrors.ErrCodeInvalidJSON, msgParseFailed, err)
	}
	return buf.Bytes(), nil
}

// indent pretty-prints a JSON document with a two-space indent
func indent(content []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, content, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
