package utils

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

func InitDatabase(dsn string, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), GormConfig(logger))
	if err != nil {
		return nil, err
	}

	return db, nil
}

// GormConfig is shared by the postgres connection and the sqlite test
// databases so both translate constraint violations the same way.
func GormConfig(logger *zap.Logger) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(logger),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// NewGormLogger sends gorm's slow-query and error traces to zap at warn
// level. A missing row is a normal lookup outcome and is not logged.
func NewGormLogger(logger *zap.Logger) gormlogger.Interface {
	return gormlogger.New(gormWriter{logger.WithOptions(zap.AddCallerSkip(2)).Sugar()}, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

type gormWriter struct {
	sugar *zap.SugaredLogger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.sugar.Warnf(format, args...)
}
