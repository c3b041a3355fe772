package utils

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

type account struct {
	ID    uint
	Email string
}

func TestGormLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := gorm.Open(sqlite.Open(":memory:"), GormConfig(zap.New(core)))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&account{}))

	var a account
	err = db.Where("email = ?", "nobody@example.com").First(&a).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Zero(t, logs.Len(), "missing rows are not logged")

	err = db.Raw("SELECT * FROM no_such_table").Scan(&a).Error
	require.Error(t, err)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Contains(t, entry.Message, "no_such_table")
}
