package repository

import (
	"strings"
	"testing"
)

func TestSQLDialectJSONText(t *testing.T) {
	if got := dialectSQLite.jsonText("detail_json", "reason"); got != "json_extract(detail_json, '$.\"reason\"')" {
		t.Fatalf("sqlite json expr mismatch: %s", got)
	}
	if got := dialectPostgres.jsonText("detail_json", "reason"); got != "(detail_json::jsonb ->> 'reason')" {
		t.Fatalf("postgres json expr mismatch: %s", got)
	}
	if dialectOf(nil) != dialectSQLite {
		t.Fatalf("nil db should fall back to sqlite")
	}
}

func TestKeywordFilterBuild(t *testing.T) {
	filter := keywordFilter{columns: []string{"operator_username", " "}, detailJSON: "detail_json"}
	condition, args := filter.build(dialectSQLite, "  pi_1 ")
	if len(args) != 1+len(auditDetailSearchKeys) {
		t.Fatalf("arg count want %d got %d", 1+len(auditDetailSearchKeys), len(args))
	}
	if args[0] != "%pi_1%" {
		t.Fatalf("unexpected like arg: %v", args[0])
	}
	if !strings.HasPrefix(condition, "(operator_username LIKE ?") {
		t.Fatalf("unexpected condition: %s", condition)
	}
	if !strings.Contains(condition, "json_extract(detail_json, '$.\"providerRef\"') LIKE ?") {
		t.Fatalf("condition should contain providerRef, got %s", condition)
	}

	pgCondition, _ := keywordFilter{columns: []string{"code"}}.build(dialectPostgres, "abc")
	if pgCondition != "(code ILIKE ?)" {
		t.Fatalf("postgres condition mismatch: %s", pgCondition)
	}
	if empty, emptyArgs := filter.build(dialectSQLite, "   "); empty != "" || emptyArgs != nil {
		t.Fatalf("blank keyword should produce no condition")
	}
	if empty, _ := (keywordFilter{}).build(dialectSQLite, "abc"); empty != "" {
		t.Fatalf("filter without columns should produce no condition")
	}
}
