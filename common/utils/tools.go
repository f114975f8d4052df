package utils

import (
	"time"
)

// DateKeyLayout 会话日期键格式
const DateKeyLayout = "2006-01-02"

// DateKey 本地日期键，例如 2024-05-01
func DateKey(t time.Time) string {
	return t.In(time.Local).Format(DateKeyLayout)
}

func Contains[T comparable](data []T, value T) bool {
	for _, v := range data {
		if v == value {
			return true
		}
	}
	return false
}

// HasDuplicate 切片中是否有重复元素，忽略零值
func HasDuplicate[T comparable](data []T) bool {
	var zero T
	seen := make(map[T]struct{}, len(data))
	for _, v := range data {
		if v == zero {
			continue
		}
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}
	return false
}
