package utils

import (
	"errors"
	"regexp"
	"strings"
)

var (
	sortFieldPattern = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)
	sortFieldStrip   = regexp.MustCompile(`[^a-zA-Z0-9_.]`)

	// 作为完整单词出现即拒绝; 下划线属于 \w, 所以 created_at 不会误判
	sqlKeywordPattern = regexp.MustCompile(`\b(?:SELECT|INSERT|UPDATE|DELETE|DROP|ALTER|CREATE|` +
		`EXEC|EXECUTE|UNION|SCRIPT|DECLARE|CAST|CONVERT|` +
		`FROM|WHERE|ORDER|BY|GROUP|HAVING|JOIN|INNER|` +
		`OUTER|LEFT|RIGHT|ON|AS|AND|OR|NOT|IN)\b`)
)

// ValidateSortField 验证排序字段, 防止 SQL 注入
func ValidateSortField(field string) error {
	if field == "" {
		return errors.New("sort field cannot be empty")
	}
	if !sortFieldPattern.MatchString(field) {
		return errors.New("invalid sort field format")
	}
	if sqlKeywordPattern.MatchString(strings.ToUpper(field)) {
		return errors.New("sort field contains SQL keyword")
	}
	return nil
}

// ValidateSortOrder 验证排序方向
func ValidateSortOrder(order string) error {
	switch strings.ToUpper(strings.TrimSpace(order)) {
	case "ASC", "DESC":
		return nil
	}
	return errors.New("sort order must be ASC or DESC")
}

// SanitizeSortField 移除排序字段中的非法字符
func SanitizeSortField(field string) string {
	return sortFieldStrip.ReplaceAllString(field, "")
}

// SanitizeSortOrder 清理排序方向, 非法时回落到 DESC
func SanitizeSortOrder(order string) string {
	upper := strings.ToUpper(strings.TrimSpace(order))
	if upper == "ASC" || upper == "DESC" {
		return upper
	}
	return "DESC"
}
