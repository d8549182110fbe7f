package util

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"strings"

	errorc "hostpatrol/pkg/core/err"
)

const EncryptedPrefix = "ENC:"

// SecretBox 以固定盐派生密钥的 AES-256-GCM 加解密器，用于主机密码与 OSS 密钥落库
type SecretBox struct {
	salt string
}

func NewSecretBox(salt string) *SecretBox {
	return &SecretBox{salt: salt}
}

func (b *SecretBox) Encrypt(plaintext string) (string, error) {
	return EncryptAES(plaintext, b.salt)
}

func (b *SecretBox) Decrypt(ciphertext string) (string, error) {
	return DecryptAES(ciphertext, b.salt)
}

func newGCM(salt string) (cipher.AEAD, error) {
	key := sha256.Sum256([]byte(salt))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, errorc.New("创建AES cipher失败", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errorc.New("创建GCM模式失败", err)
	}
	return gcm, nil
}

// EncryptAES 加密后返回带 ENC: 前缀的 base64 串，已加密或空串原样返回
func EncryptAES(plaintext, salt string) (string, error) {
	if plaintext == "" || strings.HasPrefix(plaintext, EncryptedPrefix) {
		return plaintext, nil
	}

	gcm, err := newGCM(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", errorc.New("生成nonce失败", err)
	}

	// nonce + ciphertext + tag
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return EncryptedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptAES 没有 ENC: 前缀的按明文返回
func DecryptAES(ciphertext, salt string) (string, error) {
	if !strings.HasPrefix(ciphertext, EncryptedPrefix) {
		return ciphertext, nil
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ciphertext, EncryptedPrefix))
	if err != nil {
		return "", errorc.New("Base64解码失败", err)
	}

	gcm, err := newGCM(salt)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errorc.New("密文长度不足", nil)
	}

	plaintext, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", errorc.New("解密失败", err)
	}
	return string(plaintext), nil
}

// IsEncrypted 检查字符串是否已加密
func IsEncrypted(text string) bool {
	return strings.HasPrefix(text, EncryptedPrefix)
}
