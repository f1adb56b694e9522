package db_test

import (
	"testing"

	"dorm_booking/internal/db/dbtest"
	"dorm_booking/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestMigrateCreatesTables(t *testing.T) {
	gdb := dbtest.Open(t)

	for _, model := range []any{&domain.User{}, &domain.Room{}, &domain.Application{}, &domain.EmailTemplate{}} {
		assert.True(t, gdb.Migrator().HasTable(model))
	}
}
