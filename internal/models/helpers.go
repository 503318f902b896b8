package models

import (
	"github.com/google/uuid"
)

// NewScanID 生成扫描任务ID
func NewScanID() string {
	return uuid.New().String()
}
