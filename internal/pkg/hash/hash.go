package hash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost - стоимость bcrypt для пароля сотрудника, если AUTH_BCRYPT_COST не задан
const DefaultCost = 12

// PasswordHasher хеширует пароль сотрудника с заданной стоимостью bcrypt
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher проверяет стоимость по границам bcrypt
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordHasher{cost: cost}, nil
}

// Hash возвращает bcrypt хеш пароля
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Matches сравнивает хеш с паролем; битый хеш считается несовпадением
func (h *PasswordHasher) Matches(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// Cost возвращает стоимость, с которой был построен хеш
func Cost(hashed string) (int, error) {
	return bcrypt.Cost([]byte(hashed))
}
