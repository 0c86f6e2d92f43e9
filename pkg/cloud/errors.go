package cloud

import (
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
)

// ErrorCode returns the AWS API error code carried by err, or an empty string when err
// did not come from an AWS API.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}

	return ""
}

// HasErrorCode reports whether err is an AWS API error with one of codes.
func HasErrorCode(err error, codes ...string) bool {
	code := ErrorCode(err)
	if code == "" {
		return false
	}

	for _, c := range codes {
		if c == code {
			return true
		}
	}

	return false
}
