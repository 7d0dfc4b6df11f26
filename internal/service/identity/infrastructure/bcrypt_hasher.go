package infrastructure

import (
	"bookhub/internal/service/identity/domain"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// HashCost 是 bcrypt 的计算成本，测试中可以调低。
var HashCost = bcrypt.DefaultCost

// BcryptHasher 使用 bcrypt 生成带盐哈希。
type BcryptHasher struct{}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{}
}

func (BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}
	return string(b), nil
}

func (BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.ErrInvalidCredentials
	}
	if err != nil {
		return errors.Wrap(err, "failed to compare password")
	}
	return nil
}
