package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm translated", err: fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "postgres code", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, want: true},
		{name: "postgres other code", err: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, want: false},
		{name: "sqlite", err: errors.New("constraint failed: UNIQUE constraint failed: members.invite_id (2067)"), want: true},
		{name: "other", err: errors.New("connection refused"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateKeyErr(tt.err))
		})
	}
}

func TestIsForeignKeyErr(t *testing.T) {
	assert.True(t, IsForeignKeyErr(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}))
	assert.True(t, IsForeignKeyErr(errors.New("FOREIGN KEY constraint failed")))
	assert.True(t, IsForeignKeyErr(gorm.ErrForeignKeyViolated))
	assert.False(t, IsForeignKeyErr(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.False(t, IsForeignKeyErr(nil))
}

func TestDialect(t *testing.T) {
	for _, kind := range []string{"postgres", "sqlite"} {
		d, err := Dialect(Config{Type: kind, Name: "hub"})
		assert.NoError(t, err)
		assert.NotNil(t, d)
	}

	for _, kind := range []string{"mysql", "oracle", ""} {
		_, err := Dialect(Config{Type: kind})
		assert.Error(t, err, kind)
	}
}
