package services

import (
	"encoding/base64"
	"strconv"

	"github.com/BRIANBC93/RealEstate/apperr"
)

// Version tokens cross the wire base64-encoded; internally they are the
// row-version counter of the property row.

func EncodeVersionToken(version int64) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.FormatInt(version, 10)))
}

func DecodeVersionToken(token string) (int64, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return 0, apperr.Wrap(apperr.Validation, "invalid version token", err)
	}
	version, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, apperr.Wrap(apperr.Validation, "invalid version token", err)
	}
	return version, nil
}
