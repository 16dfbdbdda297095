package services

import (
	"crypto/rand"
	"math/big"

	"gorm.io/gorm"
)

const codeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// codeLen matches the unique code columns on users, annonces and credit
// transactions.
const codeLen = 18

func randomCode() (string, error) {
	buf := make([]byte, codeLen)
	max := big.NewInt(int64(len(codeChars)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeChars[n.Int64()]
	}
	return string(buf), nil
}

// UniqueCode generates an 18-char alphanumeric code not yet used by any row
// of the given model.
func UniqueCode(db *gorm.DB, model interface{}) (string, error) {
	for {
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(model).Where("code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
}
