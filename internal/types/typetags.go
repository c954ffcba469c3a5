package types

import "strings"

var typeTags = map[string]string{
	"varchar": "string", "character varying": "string", "char": "string", "character": "string",
	"bpchar": "string", "nvarchar": "string", "nchar": "string", "citext": "string",
	"text": "text", "tinytext": "text", "mediumtext": "text", "longtext": "text", "clob": "text",
	"int": "integer", "integer": "integer", "int2": "integer", "int4": "integer", "int8": "integer",
	"smallint": "integer", "bigint": "integer", "tinyint": "integer", "mediumint": "integer",
	"serial": "integer", "bigserial": "integer", "smallserial": "integer",
	"real": "float", "float": "float", "float4": "float", "float8": "float", "double": "float",
	"double precision": "float",
	"numeric": "decimal", "decimal": "decimal", "money": "decimal",
	"boolean": "boolean", "bool": "boolean",
	"date": "date",
	"timestamp": "datetime", "timestamptz": "datetime", "datetime": "datetime",
	"timestamp with time zone": "datetime", "timestamp without time zone": "datetime",
	"time": "time", "timetz": "time", "time without time zone": "time", "time with time zone": "time",
	"json": "json", "jsonb": "json",
	"uuid": "uuid",
	"blob": "binary", "bytea": "binary", "binary": "binary", "varbinary": "binary",
	"longblob": "binary", "mediumblob": "binary", "tinyblob": "binary",
}

// TypeTag maps a declared SQL column type to the abstract attribute type used
// in model descriptions. Length and precision suffixes are ignored.
func TypeTag(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	if strings.HasPrefix(t, "tinyint(1)") {
		return "boolean"
	}
	if idx := strings.Index(t, "("); idx >= 0 {
		t = strings.TrimSpace(t[:idx])
	}
	t = strings.TrimSuffix(t, " unsigned")
	if tag, ok := typeTags[t]; ok {
		return tag
	}
	if strings.HasPrefix(t, "enum") {
		return "string"
	}
	return t
}
