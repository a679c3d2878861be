package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// 审计详情 JSON 中可被关键字命中的键
var auditDetailSearchKeys = []string{"reason", "reference", "referenceId", "providerRef"}

type sqlDialect string

const (
	dialectSQLite   sqlDialect = "sqlite"
	dialectPostgres sqlDialect = "postgres"
)

func dialectOf(db *gorm.DB) sqlDialect {
	if db == nil || db.Dialector == nil {
		return dialectSQLite
	}
	switch strings.ToLower(strings.TrimSpace(db.Dialector.Name())) {
	case "postgres", "postgresql":
		return dialectPostgres
	default:
		return dialectSQLite
	}
}

func (d sqlDialect) like() string {
	if d == dialectPostgres {
		return "ILIKE"
	}
	return "LIKE"
}

// jsonText 取 JSON 列中某个键的文本值
func (d sqlDialect) jsonText(column, key string) string {
	if d == dialectPostgres {
		return fmt.Sprintf("(%s::jsonb ->> '%s')", column, key)
	}
	return fmt.Sprintf("json_extract(%s, '$.\"%s\"')", column, key)
}

// keywordFilter 描述一次模糊搜索涉及的列
type keywordFilter struct {
	columns    []string
	detailJSON string
}

// build 生成 OR 连接的条件及对应参数；keyword 为空时返回空条件
func (f keywordFilter) build(d sqlDialect, keyword string) (string, []interface{}) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return "", nil
	}
	targets := make([]string, 0, len(f.columns)+len(auditDetailSearchKeys))
	for _, column := range f.columns {
		if column = strings.TrimSpace(column); column != "" {
			targets = append(targets, column)
		}
	}
	if column := strings.TrimSpace(f.detailJSON); column != "" {
		for _, key := range auditDetailSearchKeys {
			targets = append(targets, d.jsonText(column, key))
		}
	}
	if len(targets) == 0 {
		return "", nil
	}

	pattern := "%" + keyword + "%"
	parts := make([]string, len(targets))
	args := make([]interface{}, len(targets))
	for i, target := range targets {
		parts[i] = target + " " + d.like() + " ?"
		args[i] = pattern
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// apply 把关键字条件挂到查询上
func (f keywordFilter) apply(query *gorm.DB, keyword string) *gorm.DB {
	condition, args := f.build(dialectOf(query), keyword)
	if condition == "" {
		return query
	}
	return query.Where(condition, args...)
}
