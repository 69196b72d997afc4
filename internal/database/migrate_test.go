package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatements(t *testing.T) {
	stmts := Statements("CREATE TABLE a (x INT);\n\n  CREATE TABLE b (y INT) ;\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE TABLE b (y INT)"}, stmts)
}

func TestEmbeddedSchema(t *testing.T) {
	stmts := Statements(schemaSQL)
	assert.Len(t, stmts, 4)
	for _, table := range []string{"sponsors", "cards", "scans", "users"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
}
