package utils

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes bcrypt 只使用前 72 字节，超出直接报错
const MaxPasswordBytes = 72

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword 常量时间比较（bcrypt 内部实现）
func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
