package store

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ZamarianPatrick/lazypig-care/logger"
)

func statement() (string, int64) {
	return "SELECT * FROM plants", 0
}

func TestGormLog_Trace(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		elapsed time.Duration
		err     error
		want    string
	}{
		{"failed query", gormlogger.Error, 0, errors.New("no such table"), `"msg":"query failed"`},
		{"missing row is not an error", gormlogger.Error, 0, gorm.ErrRecordNotFound, ""},
		{"slow query", gormlogger.Warn, time.Second, nil, `"msg":"slow query"`},
		{"slow query below warn", gormlogger.Error, time.Second, nil, ""},
		{"silent", gormlogger.Silent, time.Second, errors.New("boom"), ""},
		{"every statement at info", gormlogger.Info, 0, nil, `"msg":"query"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			g := newGormLog(logger.NewWithWriter(&buf, "debug"), tt.level)

			g.Trace(ctx, time.Now().Add(-tt.elapsed), statement, tt.err)

			if tt.want == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), `"component":"store"`)
			assert.Contains(t, buf.String(), "SELECT * FROM plants")
		})
	}
}

func TestGormLog_LogModeCopies(t *testing.T) {
	var buf bytes.Buffer
	g := newGormLog(logger.NewWithWriter(&buf, "debug"), gormlogger.Silent)

	loud := g.LogMode(gormlogger.Info)
	g.Info(context.Background(), "quiet %d", 1)
	loud.Info(context.Background(), "loud %d", 2)

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "loud 2")
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, gormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, gormLogLevel("info"))
	assert.Equal(t, gormlogger.Error, gormLogLevel("error"))
	assert.Equal(t, gormlogger.Silent, gormLogLevel("silent"))
}
