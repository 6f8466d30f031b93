package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	uuidV4Pattern  = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	barcodePattern = regexp.MustCompile(`^[0-9]{8,14}$`)
)

// IsValidUUID accepts RFC 4122 version 4 identifiers only.
func IsValidUUID(s string) bool {
	return uuidV4Pattern.MatchString(s)
}

// IsValidBarcode accepts EAN-8 through GTIN-14 digit strings.
func IsValidBarcode(s string) bool {
	return barcodePattern.MatchString(s)
}

const ReceiptKeyPrefix = "receipts/"

// ReceiptKey builds the object key for an uploaded receipt.
func ReceiptKey(now time.Time) string {
	return fmt.Sprintf("%s%d-%s", ReceiptKeyPrefix, now.UnixMilli(), uuid.NewString())
}

// IsReceiptKey reports whether key names an object under the receipts prefix.
func IsReceiptKey(key string) bool {
	if !strings.HasPrefix(key, ReceiptKeyPrefix) || len(key) == len(ReceiptKeyPrefix) {
		return false
	}
	return !strings.Contains(key, "..") && !strings.Contains(key, "\\")
}

// IsFetchableURL accepts absolute http and https URLs only.
func IsFetchableURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
