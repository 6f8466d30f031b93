package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("3f1c2a4e-8b7d-4c1a-9e2f-0a1b2c3d4e5f"))
	assert.True(t, IsValidUUID("3F1C2A4E-8B7D-4C1A-9E2F-0A1B2C3D4E5F"))
	assert.False(t, IsValidUUID("3f1c2a4e-8b7d-1c1a-9e2f-0a1b2c3d4e5f"), "version 1")
	assert.False(t, IsValidUUID("3f1c2a4e-8b7d-4c1a-7e2f-0a1b2c3d4e5f"), "bad variant")
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID(""))
}

func TestIsValidBarcode(t *testing.T) {
	assert.True(t, IsValidBarcode("12345678"))
	assert.True(t, IsValidBarcode("3017620422003"))
	assert.True(t, IsValidBarcode("12345678901234"))
	assert.False(t, IsValidBarcode("1234567"))
	assert.False(t, IsValidBarcode("123456789012345"))
	assert.False(t, IsValidBarcode("30176204220a3"))
}

func TestReceiptKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	key := ReceiptKey(now)
	assert.True(t, strings.HasPrefix(key, "receipts/1700000000123-"))
	assert.Len(t, key, len("receipts/1700000000123-")+36)
}

func TestIsReceiptKey(t *testing.T) {
	assert.True(t, IsReceiptKey(ReceiptKey(time.Now())))
	assert.True(t, IsReceiptKey("receipts/1-abc"))
	assert.False(t, IsReceiptKey("receipts/"))
	assert.False(t, IsReceiptKey("avatars/1-abc"))
	assert.False(t, IsReceiptKey("receipts/../secrets/env"))
	assert.False(t, IsReceiptKey(""))
}

func TestIsFetchableURL(t *testing.T) {
	assert.True(t, IsFetchableURL("https://img.example/1.png"))
	assert.True(t, IsFetchableURL("http://localhost:9000/bucket/x.jpg"))
	assert.False(t, IsFetchableURL("file:///etc/passwd"))
	assert.False(t, IsFetchableURL("gopher://host/x"))
	assert.False(t, IsFetchableURL("https:///nohost"))
	assert.False(t, IsFetchableURL("/relative.png"))
	assert.False(t, IsFetchableURL("::not a url"))
}

func TestDecodeDataURI(t *testing.T) {
	ct, raw, err := DecodeDataURI("data:image/png;base64,aGVsbG8=")
	assert.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, []byte("hello"), raw)

	ct, raw, err = DecodeDataURI("aGVsbG8=")
	assert.NoError(t, err)
	assert.Empty(t, ct)
	assert.Equal(t, []byte("hello"), raw)

	_, _, err = DecodeDataURI("data:image/png;base64")
	assert.Error(t, err)

	_, _, err = DecodeDataURI("%%%")
	assert.Error(t, err)
}
