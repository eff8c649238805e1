package scanner

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain 确认遍历协程与 worker 在每次扫描后都已退出。
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
