package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretBoxRoundTrip(t *testing.T) {
	box := NewSecretBox("salt-1")

	enc, err := box.Encrypt("p@ssw0rd")
	require.NoError(t, err)
	assert.True(t, IsEncrypted(enc))

	again, err := box.Encrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, enc, again, "已加密的值不应重复加密")

	plain, err := box.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, "p@ssw0rd", plain)
}

func TestDecryptWithWrongSalt(t *testing.T) {
	enc, err := EncryptAES("secret", "a")
	require.NoError(t, err)

	_, err = DecryptAES(enc, "b")
	assert.Error(t, err)
}

func TestPlainTextPassThrough(t *testing.T) {
	plain, err := DecryptAES("not-encrypted", "x")
	require.NoError(t, err)
	assert.Equal(t, "not-encrypted", plain)

	empty, err := EncryptAES("", "x")
	require.NoError(t, err)
	assert.Equal(t, "", empty)
}
