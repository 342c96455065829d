// Package tests carries test metadata through context.Context so helpers and
// harness code can tag logs and runs with the test that started them.
//
// Example usage:
//
//	func TestStress(t *testing.T) {
//	    ctx := tests.GetUniqueContext(t)
//	    tests.CheckSkipped(ctx, t, "SKIP_SLOW_TESTS")
//
//	    info, _ := tests.GetTestInfo(ctx)
//	    tests.Logger(t).Info("starting", "test_id", info.Id)
//	}
package tests

import (
	"context"
	"log/slog"
	"testing"

	"github.com/amp-labs/flatsort/envutil"
	"github.com/amp-labs/flatsort/logger"
	"github.com/google/uuid"
	"github.com/neilotoole/slogt"
)

type contextKey string

const (
	testIdKey   contextKey = "testId"
	testNameKey contextKey = "testName"
	testTestKey contextKey = "testTest"
)

// Info describes the test a context belongs to.
type Info struct {
	Id   string
	Name string
}

// GetUniqueContext returns t.Context() carrying a unique test id
// ("test-<uuid>"), the test name and t itself. The id is also attached to
// loggers obtained with logger.Get.
func GetUniqueContext(t *testing.T) context.Context {
	t.Helper()

	id := "test-" + uuid.New().String()

	ctx := context.WithValue(t.Context(), testTestKey, t)
	ctx = context.WithValue(ctx, testIdKey, id)
	ctx = context.WithValue(ctx, testNameKey, t.Name())

	return logger.With(ctx, "test_id", id)
}

// CheckSkipped skips t when the boolean variable envKey is true. The optional
// argument is the value assumed when the variable is unset.
func CheckSkipped(ctx context.Context, t *testing.T, envKey string, defaultValue ...bool) {
	t.Helper()

	defl := false
	if len(defaultValue) > 0 {
		defl = defaultValue[0]
	}

	if envutil.Bool(ctx, envKey, envutil.Default(defl)).ValueOrElse(defl) {
		t.Skipf("skipped because %s is true", envKey)
	}
}

// Logger returns a logger that writes through t.Log, so output is attached to
// the test that produced it.
func Logger(t testing.TB) *slog.Logger {
	t.Helper()

	return slogt.New(t)
}

// GetTestId returns the id set by GetUniqueContext.
func GetTestId(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}

	id, ok := ctx.Value(testIdKey).(string)

	return id, ok
}

// GetTestName returns the test name set by GetUniqueContext.
func GetTestName(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}

	name, ok := ctx.Value(testNameKey).(string)

	return name, ok
}

// GetTest returns the *testing.T stored by GetUniqueContext.
func GetTest(ctx context.Context) (*testing.T, bool) {
	if ctx == nil {
		return nil, false
	}

	t, ok := ctx.Value(testTestKey).(*testing.T)

	return t, ok
}

// GetTestInfo returns the id and name together; ok is false unless both are set.
func GetTestInfo(ctx context.Context) (Info, bool) {
	id, ok := GetTestId(ctx)
	if !ok {
		return Info{}, false
	}

	name, ok := GetTestName(ctx)
	if !ok {
		return Info{}, false
	}

	return Info{Id: id, Name: name}, true
}
