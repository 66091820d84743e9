package mysql

import (
	"context"
	"database/sql"

	"github.com/xuenqlve/checkkit/errors"
	"github.com/xuenqlve/checkkit/log"
)

// Select 执行查询，每一行转换成 列名->值 的 map，[]byte 转为 string
func Select(ctx context.Context, db *sql.DB, query string, args ...any) ([]map[string]any, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Annotatef(err, "query failed: %s", query)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warnf("rows close err:%v", closeErr)
		}
	}()
	return scanRows(rows)
}

// SelectOne 返回第一行，没有结果时返回 nil
func SelectOne(ctx context.Context, db *sql.DB, query string, args ...any) (map[string]any, error) {
	result, err := Select(ctx, db, query, args...)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, nil
	}
	return result[0], nil
}

// CheckSelectPrivileges 通过 SELECT VERSION() 确认当前用户可以查询
func CheckSelectPrivileges(ctx context.Context, db *sql.DB) (string, error) {
	var version string
	if err := db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version); err != nil {
		return "", errors.Annotate(err, "you probably did not get enough privileges for running SELECT statements")
	}
	return version, nil
}

// VarsToMap 把 SHOW VARIABLES / SHOW STATUS 的结果转换成 map
func VarsToMap(rows []map[string]any) map[string]string {
	vars := make(map[string]string, len(rows))
	for _, row := range rows {
		name, _ := row["Variable_name"].(string)
		value, _ := row["Value"].(string)
		vars[name] = value
	}
	return vars
}

type rowScanner interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRows(rows rowScanner) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Trace(err)
	}
	result := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Trace(err)
		}
		row := make(map[string]any, len(columns))
		for i, column := range columns {
			if b, ok := values[i].([]byte); ok {
				row[column] = string(b)
			} else {
				row[column] = values[i]
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return result, nil
}
