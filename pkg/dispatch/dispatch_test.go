package dispatch_test

import (
	"testing"

	"github.com/oscshift/oscshift/pkg/dispatch"
	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name      string
		statement string
		want      dispatch.Route
	}{
		{"alter table routes to engine", "ALTER TABLE users ADD COLUMN age INT", dispatch.EngineRoute},
		{"lowercase alter routes to engine", "alter table x drop column y", dispatch.EngineRoute},
		{"mixed case routes to engine", "Alter Table users ENGINE=InnoDB", dispatch.EngineRoute},
		{"leading whitespace ignored", "   ALTER TABLE t ADD a INT", dispatch.EngineRoute},
		{"select routes direct", "SELECT 1", dispatch.DirectRoute},
		{"create index routes direct", "CREATE INDEX idx_age ON users (age)", dispatch.DirectRoute},
		{"alter database routes direct", "ALTER DATABASE app CHARACTER SET utf8mb4", dispatch.DirectRoute},
		{"bare alter routes direct", "ALTER", dispatch.DirectRoute},
		{"empty routes direct", "", dispatch.DirectRoute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dispatch.For(tt.statement))
		})
	}
}

func TestRouteString(t *testing.T) {
	assert.Equal(t, "engine", dispatch.EngineRoute.String())
	assert.Equal(t, "direct", dispatch.DirectRoute.String())
}
