package types

import "testing"

func TestSummary(t *testing.T) {
	desc := &ModelDescription{
		Name:      "User",
		TableName: "users",
		Attributes: []Attribute{
			{Name: "name", Type: "string"},
			{Name: "email", Type: "string"},
		},
		Validations: []Validation{
			{Attributes: []string{"name", "email"}, Kind: "presence"},
			{Attributes: []string{"email"}, Kind: "uniqueness"},
		},
		Associations: []Association{
			{Name: "account", Kind: BelongsTo, ForeignKey: "account_id"},
		},
	}

	want := "Model: User\n" +
		"Attributes: name: string, email: string\n" +
		"Validations: name, email -> presence, email -> uniqueness\n" +
		"Associations: belongs_to: account\n"

	if got := desc.Summary(); got != want {
		t.Errorf("Summary() mismatch\n got: %q\nwant: %q", got, want)
	}
	if desc.Summary() != desc.Summary() {
		t.Error("Summary() is not deterministic")
	}
}

func TestSummaryOptionsSorted(t *testing.T) {
	desc := &ModelDescription{
		Name: "Post",
		Validations: []Validation{
			{Attributes: []string{"title"}, Kind: "length", Options: map[string]any{"minimum": 1, "maximum": 255}},
		},
	}

	want := "Model: Post\n" +
		"Attributes: \n" +
		"Validations: title -> length (maximum: 255, minimum: 1)\n" +
		"Associations: \n"

	if got := desc.Summary(); got != want {
		t.Errorf("Summary() mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestTypeTag(t *testing.T) {
	cases := map[string]string{
		"VARCHAR(255)":                "string",
		"character varying":           "string",
		"text":                        "text",
		"bigint":                      "integer",
		"int unsigned":                "integer",
		"tinyint(1)":                  "boolean",
		"numeric(10,2)":               "decimal",
		"timestamp without time zone": "datetime",
		"jsonb":                       "json",
		"uuid":                        "uuid",
		"enum('a','b')":               "string",
		"tsvector":                    "tsvector",
	}

	for in, want := range cases {
		if got := TypeTag(in); got != want {
			t.Errorf("TypeTag(%q) = %q, want %q", in, got, want)
		}
	}
}
