package warehouse

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Columns is the fixed warehouse table schema, in select order
var Columns = []Column{
	{Name: "Title", Type: "STRING"},
	{Name: "Rating", Type: "NUMBER"},
	{Name: "Price", Type: "FLOAT"},
	{Name: "Availability", Type: "BOOLEAN"},
}

// Column is one column of the books table
type Column struct {
	Name string
	Type string
}

// Namespace names every warehouse object the loader touches
type Namespace struct {
	Warehouse  string
	Database   string
	Schema     string
	Stage      string
	FileFormat string
	Table      string
}

// Target returns the session scope used to read the table back
func (ns Namespace) Target() Target {
	return Target{Warehouse: ns.Warehouse, Database: ns.Database, Schema: ns.Schema}
}

// Statement is one step of the load sequence
type Statement struct {
	Description string
	SQL         string
	// Destructive steps discard existing data
	Destructive bool
}

// LoadPlan returns the ordered statements that stage filePath and
// replace the table with its contents
func LoadPlan(ns Namespace, filePath string) []Statement {
	return []Statement{
		{Description: "create warehouse", SQL: fmt.Sprintf("CREATE WAREHOUSE IF NOT EXISTS %s", ns.Warehouse)},
		{Description: "use warehouse", SQL: fmt.Sprintf("USE WAREHOUSE %s", ns.Warehouse)},
		{Description: "create database", SQL: fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", ns.Database)},
		{Description: "use database", SQL: fmt.Sprintf("USE DATABASE %s", ns.Database)},
		{Description: "create schema", SQL: fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", ns.Schema)},
		{Description: "use schema", SQL: fmt.Sprintf("USE SCHEMA %s.%s", ns.Database, ns.Schema)},
		{Description: "create stage", SQL: fmt.Sprintf("CREATE STAGE IF NOT EXISTS %s", ns.Stage)},
		{Description: "stage file", SQL: fmt.Sprintf("PUT %s @%s OVERWRITE = TRUE", quoteLiteral(fileURL(filePath)), ns.Stage)},
		{Description: "create file format", SQL: fmt.Sprintf(
			"CREATE OR REPLACE FILE FORMAT %s TYPE = 'CSV' FIELD_DELIMITER = ',' FIELD_OPTIONALLY_ENCLOSED_BY = '\"' SKIP_HEADER = 1",
			ns.FileFormat)},
		{Description: "replace table", SQL: CreateTable(ns.Table), Destructive: true},
		{Description: "copy into table", SQL: fmt.Sprintf(
			"COPY INTO %s FROM @%s FILE_FORMAT = (FORMAT_NAME = %s)",
			ns.Table, ns.Stage, ns.FileFormat)},
	}
}

// CreateTable returns the table (re)creation statement
func CreateTable(table string) string {
	defs := make([]string, 0, len(Columns))
	for _, c := range Columns {
		defs = append(defs, c.Name+" "+c.Type)
	}
	return fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)", table, strings.Join(defs, ", "))
}

// SelectAll returns the unconditional read of the table
func SelectAll(table string) string {
	return fmt.Sprintf("SELECT * FROM %s", table)
}

// quoteLiteral wraps s in single quotes, doubling any quote inside it
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func fileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	path = filepath.ToSlash(path)
	if !strings.HasPrefix(path, "/") {
		// Windows drive paths
		path = "/" + path
	}
	return "file://" + path
}
