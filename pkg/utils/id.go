package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID 生成 32 位无连字符的主键（varchar(32) 友好）
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
