package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errUnavailable = errors.New("broker unavailable")

// newTestBreaker 使用可控时钟的熔断器
func newTestBreaker(cfg Config) (*CircuitBreaker, *time.Time) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := New("test", cfg)
	cb.now = func() time.Time { return now }
	cb.resetExpiry(now)
	return cb, &now
}

func fail() error    { return errUnavailable }
func succeed() error { return nil }

// TestClosedState 正常请求全部放行
func TestClosedState(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 3})

	for i := 0; i < 10; i++ {
		if err := cb.Execute(succeed); err != nil {
			t.Fatalf("期望成功，实际失败: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("期望状态为closed，实际%s", cb.State())
	}
	if got := cb.Counts().TotalSuccesses; got != 10 {
		t.Errorf("期望成功10次，实际%d次", got)
	}
}

// TestOpenState 连续失败达到阈值后快速失败
func TestOpenState(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 3})

	for i := 0; i < 3; i++ {
		if err := cb.Execute(fail); !errors.Is(err, errUnavailable) {
			t.Fatalf("期望返回下游错误，实际%v", err)
		}
	}
	if cb.State() != StateOpen {
		t.Fatalf("期望状态为open，实际%s", cb.State())
	}

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrOpenState) {
		t.Errorf("期望返回ErrOpenState，实际%v", err)
	}
	if called {
		t.Error("熔断器打开时不应该调用下游")
	}
}

// TestSuccessResetsConsecutiveFailures 成功会清零连续失败
func TestSuccessResetsConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 3})

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	_ = cb.Execute(succeed)
	_ = cb.Execute(fail)
	_ = cb.Execute(fail)

	if cb.State() != StateClosed {
		t.Errorf("非连续失败不应熔断，实际%s", cb.State())
	}
}

// TestHalfOpenRecovery 超时后探测成功则恢复
func TestHalfOpenRecovery(t *testing.T) {
	cb, now := newTestBreaker(Config{FailureThreshold: 1, Timeout: 10 * time.Second})

	var transitions []string
	cb.OnStateChange(func(_ string, from, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	_ = cb.Execute(fail)
	*now = now.Add(10 * time.Second)

	if cb.State() != StateHalfOpen {
		t.Fatalf("期望状态为half_open，实际%s", cb.State())
	}
	if err := cb.Execute(succeed); err != nil {
		t.Fatalf("探测请求应该放行: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("探测成功后应关闭，实际%s", cb.State())
	}

	want := []string{"closed->open", "open->half_open", "half_open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("状态变化错误: %v", transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("第%d次状态变化: expected=%s, got=%s", i, want[i], transitions[i])
		}
	}
}

// TestHalfOpenFailure 探测失败回到打开状态
func TestHalfOpenFailure(t *testing.T) {
	cb, now := newTestBreaker(Config{FailureThreshold: 1, Timeout: 10 * time.Second})

	_ = cb.Execute(fail)
	*now = now.Add(11 * time.Second)

	_ = cb.Execute(fail)
	if cb.State() != StateOpen {
		t.Errorf("探测失败后应重新打开，实际%s", cb.State())
	}
}

// TestHalfOpenMaxRequests 半开状态只放行MaxRequests个探测请求
func TestHalfOpenMaxRequests(t *testing.T) {
	cb, now := newTestBreaker(Config{FailureThreshold: 1, Timeout: time.Second, MaxRequests: 1})

	_ = cb.Execute(fail)
	*now = now.Add(time.Second)

	// 第一个探测请求执行期间，第二个请求被拒绝
	var inner error
	_ = cb.Execute(func() error {
		inner = cb.Execute(succeed)
		return nil
	})
	if !errors.Is(inner, ErrOpenState) {
		t.Errorf("超出探测数的请求应被拒绝，实际%v", inner)
	}
}

// TestIntervalResetsCounts 统计窗口到期后清零
func TestIntervalResetsCounts(t *testing.T) {
	cb, now := newTestBreaker(Config{FailureThreshold: 3, Interval: time.Minute})

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	*now = now.Add(2 * time.Minute)
	_ = cb.Execute(fail)

	if cb.State() != StateClosed {
		t.Errorf("窗口到期后计数应清零，实际%s", cb.State())
	}
	if got := cb.Counts().ConsecutiveFailures; got != 1 {
		t.Errorf("期望连续失败1次，实际%d次", got)
	}
}

func TestDefaults(t *testing.T) {
	cb := New("rabbitmq", Config{})
	if cb.threshold != 5 || cb.timeout != 30*time.Second || cb.maxRequests != 1 {
		t.Errorf("默认值错误: threshold=%d timeout=%s maxRequests=%d", cb.threshold, cb.timeout, cb.maxRequests)
	}
	if cb.Name() != "rabbitmq" {
		t.Errorf("名称错误: %s", cb.Name())
	}
}
