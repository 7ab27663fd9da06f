package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"ID", "id"},
		{"UserID", "user_id"},
		{"FirstName", "first_name"},
		{"HTTPServer", "http_server"},
		{"OAuth2Token", "o_auth2_token"},
		{"already_snake", "already_snake"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, toSnakeCase(tt.in))
		})
	}
}

func TestCaseConversions(t *testing.T) {
	assert.Equal(t, "firstName", toCamelCase("first_name"))
	assert.Equal(t, "FirstName", toPascalCase("first_name"))
	assert.Equal(t, "userId", toCamelCase("UserID"))
}

func TestTableNaming(t *testing.T) {
	ns := DefaultNamingStrategy()
	assert.Equal(t, "users", ns.TableName("User"))
	assert.Equal(t, "blog_posts", ns.TableName("BlogPost"))
	assert.Equal(t, "people", ns.TableName("Person"))
	assert.Equal(t, "created_at", ns.ColumnName("CreatedAt"))

	assert.Equal(t, "blog_post", NewTableNamingStrategy(false).TableName("BlogPost"))
	assert.Equal(t, "BlogPost", VerbatimNamingStrategy().TableName("BlogPost"))
}
