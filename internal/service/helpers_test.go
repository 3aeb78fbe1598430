package service

import (
	"time"
)

// 测试统一使用固定时钟，保证派生值可复现
func testNow() time.Time {
	return time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
}

func testClock() Clock {
	return func() time.Time { return testNow() }
}
